// ABOUTME: Labelled dental scenarios used to evaluate the coding pipeline
// ABOUTME: Ships a default set and loads custom sets from YAML or JSON files
package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestScenario is one labelled scenario
type TestScenario struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Scenario    string      `yaml:"scenario" json:"scenario"`
	Answers     string      `yaml:"answers,omitempty" json:"answers,omitempty"`
	GroundTruth GroundTruth `yaml:"ground_truth" json:"ground_truth"`
}

// GroundTruth is what a correct run produces
type GroundTruth struct {
	// ExpectedRanges must be named by the range classifier
	ExpectedRanges []string `yaml:"expected_ranges" json:"expected_ranges"`
	// ExpectedCodes are the codes a coder would bill
	ExpectedCodes []string `yaml:"expected_codes" json:"expected_codes"`
	// ForbiddenCodes must never be billed for the scenario
	ForbiddenCodes []string `yaml:"forbidden_codes,omitempty" json:"forbidden_codes,omitempty"`
}

type scenarioFile struct {
	Scenarios []TestScenario `yaml:"scenarios" json:"scenarios"`
}

// LoadScenarios reads a scenario set. Files ending in .json are parsed as
// JSON, everything else as YAML.
func LoadScenarios(path string) ([]TestScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}

	var file scenarioFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}

	for i, s := range file.Scenarios {
		if strings.TrimSpace(s.Scenario) == "" {
			return nil, fmt.Errorf("scenario %d (%s) has no text", i, s.ID)
		}
		if s.ID == "" {
			file.Scenarios[i].ID = fmt.Sprintf("scenario_%d", i+1)
		}
	}
	return file.Scenarios, nil
}

// Filter returns the scenarios whose ID is in ids. No ids returns all of them.
func Filter(scenarios []TestScenario, ids ...string) []TestScenario {
	if len(ids) == 0 {
		return scenarios
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []TestScenario
	for _, s := range scenarios {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// DefaultScenarios returns the built-in evaluation set
func DefaultScenarios() []TestScenario {
	return []TestScenario{
		{
			ID:       "recall_prophy",
			Name:     "Adult recall visit",
			Scenario: "Established adult patient returned for a six month recall. Periodic oral evaluation completed and adult prophylaxis performed. Four bitewing radiographs taken.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D0100-D0999", "D1000-D1999"},
				ExpectedCodes:  []string{"D0120", "D1110", "D0274"},
				ForbiddenCodes: []string{"D0150", "D1120"},
			},
		},
		{
			ID:       "molar_endo",
			Name:     "Molar root canal",
			Scenario: "Patient presented with severe pain on tooth #30. A periapical radiograph showed a periapical lesion. Limited evaluation completed and root canal therapy was performed on the molar in the same visit.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D0100-D0999", "D3000-D3999"},
				ExpectedCodes:  []string{"D0140", "D0220", "D3330"},
				ForbiddenCodes: []string{"D3310", "D3320"},
			},
		},
		{
			ID:       "simple_extraction",
			Name:     "Erupted tooth extraction",
			Scenario: "Tooth #17 was non-restorable due to caries. The erupted tooth was removed with forceps without flap or bone removal.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D7000-D7999"},
				ExpectedCodes:  []string{"D7140"},
				ForbiddenCodes: []string{"D7210"},
			},
		},
		{
			ID:       "posterior_composite",
			Name:     "Two surface posterior composite",
			Scenario: "Caries on the mesial and occlusal surfaces of tooth #19 was removed and restored with a resin-based composite.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D2000-D2999"},
				ExpectedCodes:  []string{"D2392"},
				ForbiddenCodes: []string{"D2150", "D2391"},
			},
		},
		{
			ID:       "child_preventive",
			Name:     "Child fluoride and sealants",
			Scenario: "Eight year old patient. Topical fluoride varnish applied to all teeth and sealants placed on the occlusal surfaces of teeth #3 and #14.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D1000-D1999"},
				ExpectedCodes:  []string{"D1206", "D1351"},
				ForbiddenCodes: []string{"D1208"},
			},
		},
		{
			ID:       "abscess_drainage",
			Name:     "Intraoral abscess drainage",
			Scenario: "Fluctuant swelling buccal to #29 with pus. Incision and drainage of the intraoral soft tissue abscess was performed.",
			GroundTruth: GroundTruth{
				ExpectedRanges: []string{"D7000-D7999"},
				ExpectedCodes:  []string{"D7510"},
				ForbiddenCodes: []string{"D7520"},
			},
		},
	}
}
