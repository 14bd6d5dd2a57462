// ABOUTME: CodeVerifier checks user-supplied CDT codes against a scenario with one model call
// ABOUTME: Parses CDT_CODE / APPLICABLE / REASON blocks into a verdict per requested code
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// noVerdictReason is recorded for requested codes the model did not answer
const noVerdictReason = "no verdict in model response"

// CodeVerifier asks the model whether each code fits the scenario
type CodeVerifier struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

func NewCodeVerifier(gw llm.Gateway, logger zerolog.Logger) *CodeVerifier {
	return &CodeVerifier{
		gateway: gw,
		logger:  logger.With().Str("component", "verifier").Logger(),
	}
}

// Verify checks codes against scenario. Only invalid input returns an error;
// a model failure leaves every code unknown and is recorded on the check.
func (v *CodeVerifier) Verify(ctx context.Context, scenario string, codes []string) (*models.CodeCheck, error) {
	check, err := models.NewCodeCheck(scenario, codes)
	if err != nil {
		return nil, err
	}

	raw, err := v.gateway.Invoke(ctx, catalog.VerifierPrompt, map[string]string{
		"scenario": scenario,
		"codes":    strings.Join(check.Codes, "\n"),
	})
	if err != nil {
		v.logger.Warn().Err(err).Str("check_id", check.ID).Msg("code verification failed")
		check.Error = err.Error()
		check.Verdicts = ParseVerdicts("", check.Codes)
		return check, nil
	}

	check.RawResponse = raw
	check.Verdicts = ParseVerdicts(raw, check.Codes)
	v.logger.Debug().
		Str("check_id", check.ID).
		Strs("applicable", check.Applicable()).
		Msg("codes verified")
	return check, nil
}

// verdictLabels are matched in order, so CDT_CODE wins over CODE
var verdictLabels = []string{"CDT_CODE", "CDT CODE", "CODE", "APPLICABLE", "REASON"}

// splitLabel reads "LABEL: value" or "LABEL? value" after dropping markdown
// bullets and emphasis. ok is false for lines without a known label.
func splitLabel(line string) (label, value string, ok bool) {
	line = strings.ReplaceAll(line, "*", "")
	line = strings.TrimLeft(strings.TrimSpace(line), "-#• ")
	upper := strings.ToUpper(line)
	for _, l := range verdictLabels {
		if !strings.HasPrefix(upper, l) {
			continue
		}
		rest := strings.TrimLeft(line[len(l):], " ")
		if !strings.HasPrefix(rest, ":") && !strings.HasPrefix(rest, "?") {
			continue
		}
		rest = strings.TrimLeft(rest, ":? ")
		if l == "CDT CODE" || l == "CODE" {
			l = "CDT_CODE"
		}
		return l, strings.TrimSpace(rest), true
	}
	return "", "", false
}

func parseApplicable(value string) models.Verdict {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(value), "[]."))
	switch {
	case strings.HasPrefix(v, "yes"):
		return models.VerdictApplicable
	case strings.HasPrefix(v, "no"):
		return models.VerdictNotApplicable
	}
	return models.VerdictUnknown
}

// ParseVerdicts reads verdict blocks from response and returns one verdict
// per requested code, in request order. Codes the response does not cover are
// unknown; codes it adds on its own are ignored.
func ParseVerdicts(response string, codes []string) []models.CodeVerdict {
	found := make(map[string]models.CodeVerdict)
	var current *models.CodeVerdict
	inReason := false

	flush := func() {
		if current != nil && current.Code != "" {
			if _, dup := found[current.Code]; !dup {
				found[current.Code] = *current
			}
		}
	}

	for _, line := range strings.Split(response, "\n") {
		label, value, ok := splitLabel(line)
		if !ok {
			if text := strings.TrimSpace(line); inReason && current != nil && text != "" {
				current.Reason += " " + text
			}
			continue
		}
		switch label {
		case "CDT_CODE":
			flush()
			code := strings.ToUpper(strings.Trim(value, "[] "))
			current = &models.CodeVerdict{Code: code, Verdict: models.VerdictUnknown}
			inReason = false
		case "APPLICABLE":
			if current != nil {
				current.Verdict = parseApplicable(value)
			}
			inReason = false
		case "REASON":
			if current != nil {
				current.Reason = value
				inReason = true
			}
		}
	}
	flush()

	out := make([]models.CodeVerdict, 0, len(codes))
	for _, code := range codes {
		v, ok := found[code]
		if !ok {
			v = models.CodeVerdict{Code: code, Verdict: models.VerdictUnknown, Reason: noVerdictReason}
		}
		v.Reason = strings.TrimSpace(v.Reason)
		out = append(out, v)
	}
	return out
}
