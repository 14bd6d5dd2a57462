// ABOUTME: Bucket matching rules that decide which subtopics a classifier output activates
// ABOUTME: Each rule reports where an entry is first mentioned so activation follows relevance order
package core

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchRule returns the position in output where the entry identified by
// key and label is first mentioned, or -1 when it is not mentioned.
type MatchRule func(output, key, label string) int

// ExactKeyRule activates an entry when its key appears verbatim in the output.
// Case-sensitive.
func ExactKeyRule(output, key, _ string) int {
	if key == "" {
		return -1
	}
	return strings.Index(output, key)
}

// KeyOrLabelRule also accepts the entry's human label, compared case-insensitively.
func KeyOrLabelRule(output, key, label string) int {
	idx := ExactKeyRule(output, key, label)
	if label == "" {
		return idx
	}
	li := strings.Index(strings.ToLower(output), strings.ToLower(label))
	if li >= 0 && (idx < 0 || li < idx) {
		return li
	}
	return idx
}

// NormalizedRule folds range spellings such as "D3310 – D3333" or
// "d3310 to d3333" into "D3310-D3333" before the exact key test.
func NormalizedRule(output, key, label string) int {
	return ExactKeyRule(NormalizeRanges(output), key, label)
}

var rangePattern = regexp.MustCompile(`(?i)\b(D\d{4})\s*(?:-|–|—|\bto\b|\bthrough\b)\s*(D\d{4})\b`)

var codePattern = regexp.MustCompile(`(?i)\bd(\d{4})\b`)

// NormalizeRanges rewrites every code range in s to the canonical "Dxxxx-Dyyyy" form
// and upper-cases lone codes.
func NormalizeRanges(s string) string {
	s = rangePattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := rangePattern.FindStringSubmatch(m)
		return strings.ToUpper(parts[1]) + "-" + strings.ToUpper(parts[2])
	})
	return codePattern.ReplaceAllString(s, "D$1")
}

// ParseMatchRule maps a configured mode name to its rule.
func ParseMatchRule(mode string) (MatchRule, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "exact":
		return ExactKeyRule, nil
	case "label":
		return KeyOrLabelRule, nil
	case "normalized":
		return NormalizedRule, nil
	}
	return nil, fmt.Errorf("unknown match mode %q", mode)
}
