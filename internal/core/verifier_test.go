// ABOUTME: Tests for checking supplied codes against a scenario
// ABOUTME: Covers the labelled and markdown answer formats, gaps, model failures and saving

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

func TestParseVerdicts_LabelledBlocks(t *testing.T) {
	response := `CDT_CODE: D1110
APPLICABLE: yes
REASON: Adult prophylaxis is documented.
CDT_CODE: D1120
APPLICABLE: no
REASON: Child prophylaxis does not fit
an adult patient.`

	got := ParseVerdicts(response, []string{"D1110", "D1120"})
	assert.Equal(t, []models.CodeVerdict{
		{Code: "D1110", Verdict: models.VerdictApplicable, Reason: "Adult prophylaxis is documented."},
		{Code: "D1120", Verdict: models.VerdictNotApplicable, Reason: "Child prophylaxis does not fit an adult patient."},
	}, got)
}

func TestParseVerdicts_MarkdownBullets(t *testing.T) {
	response := `- CDT Code: [d0120]
  - **Applicable?** Yes
  - **Reason**: Periodic evaluation at a recall visit.
- CDT Code: D0150
  - **Applicable?** No
  - **Reason**: Not a new patient.`

	got := ParseVerdicts(response, []string{"D0150", "D0120"})
	require.Len(t, got, 2)
	assert.Equal(t, "D0150", got[0].Code)
	assert.Equal(t, models.VerdictNotApplicable, got[0].Verdict)
	assert.Equal(t, "Not a new patient.", got[0].Reason)
	assert.Equal(t, "D0120", got[1].Code)
	assert.Equal(t, models.VerdictApplicable, got[1].Verdict)
}

func TestParseVerdicts_GapsAndExtras(t *testing.T) {
	response := `CDT_CODE: D7140
APPLICABLE: maybe
REASON: Unclear whether the tooth was erupted.
CDT_CODE: D7210
APPLICABLE: yes
CDT_CODE: D7140
APPLICABLE: no`

	got := ParseVerdicts(response, []string{"D7140", "D9110"})
	require.Len(t, got, 2)
	// first block for a code wins; unparseable answers are unknown
	assert.Equal(t, models.VerdictUnknown, got[0].Verdict)
	assert.Equal(t, "Unclear whether the tooth was erupted.", got[0].Reason)
	assert.Equal(t, models.CodeVerdict{Code: "D9110", Verdict: models.VerdictUnknown, Reason: noVerdictReason}, got[1])
}

func TestCodeVerifier_Verify(t *testing.T) {
	gw := llm.NewFakeGateway(llm.MarkerResponder(map[string]string{
		"checking CDT codes against a clinical scenario": "CDT_CODE: D1110\nAPPLICABLE: yes\nREASON: Prophy done.",
	}, "None"))
	v := NewCodeVerifier(gw, zerolog.Nop())

	check, err := v.Verify(context.Background(), "Adult prophylaxis at recall", []string{" d1110 ", "D1110", "D0150"})
	require.NoError(t, err)
	assert.Equal(t, []string{"D1110", "D0150"}, check.Codes)
	assert.Equal(t, []string{"D1110"}, check.Applicable())
	assert.Equal(t, models.VerdictUnknown, check.Verdicts[1].Verdict)
	assert.Empty(t, check.Error)
	assert.Contains(t, gw.Prompts()[0], "D1110\nD0150")

	_, err = v.Verify(context.Background(), "   ", []string{"D1110"})
	assert.Error(t, err)
	_, err = v.Verify(context.Background(), "prophy", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, gw.Calls())
}

func TestCodeVerifier_ModelFailureIsRecorded(t *testing.T) {
	gw := llm.NewFakeGateway(func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	check, err := NewCodeVerifier(gw, zerolog.Nop()).Verify(context.Background(), "prophy", []string{"D1110"})
	require.NoError(t, err)
	assert.Contains(t, check.Error, "quota exceeded")
	require.Len(t, check.Verdicts, 1)
	assert.Equal(t, models.VerdictUnknown, check.Verdicts[0].Verdict)
	assert.Empty(t, check.Applicable())
}

type checkSaver struct {
	memorySaver
	checks []*models.CodeCheck
	err    error
}

func (c *checkSaver) SaveCodeCheck(check *models.CodeCheck) error {
	if c.err != nil {
		return c.err
	}
	c.checks = append(c.checks, check)
	return nil
}

func TestCoder_Verify(t *testing.T) {
	store := &checkSaver{}
	c := newTestCoder(t, llm.NewFakeGateway(nil), WithStore(store))

	check, err := c.Verify(context.Background(), "prophy", []string{"D1110"}, false)
	require.NoError(t, err)
	assert.Empty(t, store.checks)

	check, err = c.Verify(context.Background(), "prophy", []string{"D1110"}, true)
	require.NoError(t, err)
	require.Len(t, store.checks, 1)
	assert.Equal(t, check.ID, store.checks[0].ID)

	store.err = errors.New("disk full")
	check, err = c.Verify(context.Background(), "prophy", []string{"D1110"}, true)
	assert.ErrorContains(t, err, "disk full")
	assert.NotNil(t, check)
}

func TestCoder_VerifyWithoutCheckStore(t *testing.T) {
	c := newTestCoder(t, llm.NewFakeGateway(nil), WithStore(&memorySaver{}))

	check, err := c.Verify(context.Background(), "prophy", []string{"D1110"}, true)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictUnknown, check.Verdicts[0].Verdict)
}
