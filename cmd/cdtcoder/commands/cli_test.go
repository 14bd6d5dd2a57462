// ABOUTME: End-to-end CLI tests over the offline "fake" provider
// ABOUTME: Runs code, verify, topic, topics, history and eval against a temporary database

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/eval"
	"github.com/harper/cdt-coder/internal/models"
)

const prophyScenario = "Adult prophylaxis completed at the recall visit."

func offlineEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cdtcoder.db")
	t.Setenv("CDT_LLM_PROVIDER", "fake")
	t.Setenv("CDT_DB_PATH", dbPath)
	t.Setenv("CDT_LOG_LEVEL", "error")
	return dbPath
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCodeCmd_Flags(t *testing.T) {
	cmd := NewCodeCmd()
	for _, name := range []string{"file", "save", "no-clean", "no-inspect", "questions", "answers"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "--%s", name)
	}
	assert.Equal(t, "false", cmd.Flags().Lookup("save").DefValue)
}

func TestCodeCmd_Text(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "code", "--no-clean", prophyScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "D1000-D1999 Preventive")
	assert.Contains(t, out, "Preventive (D1000-D1999): none")
	assert.Contains(t, out, "Final codes: none")
}

func TestCodeCmd_Quiet(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "-q", "code", "--no-clean", prophyScenario)
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)
}

func TestCodeCmd_JSONFromStdin(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, prophyScenario, "--format", "json", "code", "--no-clean", "--no-inspect")
	require.NoError(t, err)

	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, prophyScenario, a.Scenario)
	assert.Equal(t, []string{"D1000-D1999"}, a.Ranges.CodeRanges())
	assert.Nil(t, a.Inspection)
}

func TestCodeCmd_NoScenario(t *testing.T) {
	offlineEnv(t)

	_, err := runCLI(t, "  ", "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario")
}

func TestCodeCmd_SaveAndHistory(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "code", "--no-clean", "--save", prophyScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved analysis ")

	out, err = runCLI(t, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1 analysis(es)")
	assert.Contains(t, out, "Adult prophylaxis")

	out, err = runCLI(t, "", "--format", "json", "history", "show", "latest")
	require.NoError(t, err)
	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, prophyScenario, a.Scenario)

	out, err = runCLI(t, "", "history", "export", "--export-format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# CDT Coding Report")
	assert.Contains(t, out, a.ID)

	dir := t.TempDir()
	out, err = runCLI(t, "", "history", "export", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")
	_, err = os.Stat(filepath.Join(dir, "analysis-"+a.ID+".json"))
	assert.NoError(t, err)

	_, err = runCLI(t, "", "history", "delete", a.ID[:8])
	require.NoError(t, err)

	out, err = runCLI(t, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved analyses")
}

func TestVerifyCmd_Flags(t *testing.T) {
	cmd := NewVerifyCmd()
	for _, name := range []string{"file", "codes", "save"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "--%s", name)
	}
}

func TestVerifyCmd_TextAndSave(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "verify", "--codes", "d1110,D0120", "--save", prophyScenario)
	require.NoError(t, err)
	// the offline provider answers "None", so nothing is judged
	assert.Contains(t, out, "D1110  unknown")
	assert.Contains(t, out, "D0120  unknown")
	assert.Contains(t, out, "Applicable: none")
	assert.Contains(t, out, "Saved check ")

	out, err = runCLI(t, "", "history", "checks")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1 check(s)")
	assert.Contains(t, out, "D1110, D0120")
}

func TestVerifyCmd_JSONFromStdin(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, prophyScenario, "--format", "json", "verify", "--codes", "D1110")
	require.NoError(t, err)

	var c models.CodeCheck
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, prophyScenario, c.Scenario)
	assert.Equal(t, []string{"D1110"}, c.Codes)
	require.Len(t, c.Verdicts, 1)
	assert.Equal(t, models.VerdictUnknown, c.Verdicts[0].Verdict)
}

func TestVerifyCmd_Errors(t *testing.T) {
	offlineEnv(t)

	_, err := runCLI(t, "", "verify", prophyScenario)
	assert.Error(t, err, "--codes is required")

	_, err = runCLI(t, "", "verify", "--codes", " ", prophyScenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one CDT code")

	out, err := runCLI(t, "", "history", "checks")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved code checks")
}

func TestHistoryCmd_Errors(t *testing.T) {
	offlineEnv(t)

	_, err := runCLI(t, "", "history", "show", "missing")
	assert.Error(t, err)

	_, err = runCLI(t, "", "history", "list", "--limit", "0")
	assert.Error(t, err)

	_, err = runCLI(t, "", "history", "export", "--export-format", "csv")
	assert.Error(t, err)
}

func TestTopicsCmd(t *testing.T) {
	out, err := runCLI(t, "", "topics", "--buckets")
	require.NoError(t, err)
	assert.Contains(t, out, "D3000-D3999")
	assert.Contains(t, out, "D3310-D3333")
	assert.Contains(t, out, "Total: 12 categories")

	out, err = runCLI(t, "", "--format", "json", "topics")
	require.NoError(t, err)
	var listing []topicEntry
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Len(t, listing, 12)
	assert.Equal(t, "D0100-D0999", listing[0].CodeRange)
}

func TestTopicCmd(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "topic", "endodontics", "--analyze-only", "Root canal on #30")
	require.NoError(t, err)
	assert.Equal(t, "None\n", out)

	out, err = runCLI(t, "", "topic", "D3000-D3999", "Root canal on #30")
	require.NoError(t, err)
	assert.Contains(t, out, "Endodontics (D3000-D3999)")
	assert.Contains(t, out, "No code ranges activated")
	assert.Contains(t, out, "Codes: none")

	_, err = runCLI(t, "", "topic", "astrology", "Root canal on #30")
	assert.Error(t, err)

	_, err = runCLI(t, "", "topic")
	assert.Error(t, err)
}

func TestEvalCmd_JSON(t *testing.T) {
	offlineEnv(t)

	out, err := runCLI(t, "", "--format", "json", "eval", "--no-clean", "--test", "recall_prophy")
	require.NoError(t, err)

	var report eval.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, "recall_prophy", report.Results[0].TestID)
	assert.Equal(t, eval.StatusFail, report.Results[0].Status)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestEvalCmd_UnknownTest(t *testing.T) {
	offlineEnv(t)

	_, err := runCLI(t, "", "eval", "--test", "does_not_exist")
	assert.Error(t, err)
}
