// ABOUTME: Export functionality for saved analyses
// ABOUTME: Supports JSON, YAML and Markdown report formats
package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/cdt-coder/internal/models"
)

// Export formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string           `yaml:"version" json:"version"`
	ExportedAt string           `yaml:"exported_at" json:"exported_at"`
	Tool       string           `yaml:"tool" json:"tool"`
	Analyses   []ExportAnalysis `yaml:"analyses" json:"analyses"`
}

// ExportAnalysis is a flattened analysis for reports
type ExportAnalysis struct {
	ID                string        `yaml:"id" json:"id"`
	Scenario          string        `yaml:"scenario" json:"scenario"`
	ProcessedScenario string        `yaml:"processed_scenario,omitempty" json:"processed_scenario,omitempty"`
	Ranges            []ExportRange `yaml:"ranges" json:"ranges"`
	Topics            []ExportTopic `yaml:"topics" json:"topics"`
	Questions         []string      `yaml:"questions,omitempty" json:"questions,omitempty"`
	FinalCodes        []string      `yaml:"final_codes" json:"final_codes"`
	RejectedCodes     []string      `yaml:"rejected_codes,omitempty" json:"rejected_codes,omitempty"`
	Explanation       string        `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	CreatedAt         string        `yaml:"created_at" json:"created_at"`
}

// ExportRange represents a top-level category finding
type ExportRange struct {
	CodeRange   string `yaml:"code_range" json:"code_range"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Explanation string `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Doubt       string `yaml:"doubt,omitempty" json:"doubt,omitempty"`
}

// ExportTopic represents one topic activation
type ExportTopic struct {
	Topic     string   `yaml:"topic" json:"topic"`
	CodeRange string   `yaml:"code_range" json:"code_range"`
	Activated []string `yaml:"activated" json:"activated"`
	Codes     []string `yaml:"codes" json:"codes"`
}

// NewExportAnalysis flattens an analysis for export
func NewExportAnalysis(a *models.Analysis) ExportAnalysis {
	out := ExportAnalysis{
		ID:                a.ID,
		Scenario:          a.Scenario,
		ProcessedScenario: a.ProcessedScenario,
		Ranges:            make([]ExportRange, 0, len(a.Ranges.Findings)),
		Topics:            make([]ExportTopic, 0, len(a.Topics)),
		Questions:         a.Questions.Items,
		FinalCodes:        a.FinalCodes(),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
	if out.FinalCodes == nil {
		out.FinalCodes = []string{}
	}
	for _, f := range a.Ranges.Findings {
		out.Ranges = append(out.Ranges, ExportRange(f))
	}
	for _, t := range a.Topics {
		out.Topics = append(out.Topics, ExportTopic{
			Topic:     t.Topic,
			CodeRange: t.CodeRange,
			Activated: t.Result.ActivatedKeys,
			Codes:     t.Result.Codes,
		})
	}
	if a.Inspection != nil && a.Inspection.Error == "" {
		out.RejectedCodes = a.Inspection.RejectedCodes
		out.Explanation = a.Inspection.Explanation
	}
	return out
}

// Export collects the given analyses, or every saved analysis when no IDs are given
func (s *Storage) Export(ids ...string) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "cdtcoder",
		Analyses:   []ExportAnalysis{},
	}

	var analyses []*models.Analysis
	if len(ids) == 0 {
		all, err := s.analyses.List(0)
		if err != nil {
			return nil, fmt.Errorf("failed to list analyses: %w", err)
		}
		analyses = all
	} else {
		for _, id := range ids {
			a, err := s.ResolveAnalysis(id)
			if err != nil {
				return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
			}
			if a == nil {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			analyses = append(analyses, a)
		}
	}

	for _, a := range analyses {
		data.Analyses = append(data.Analyses, NewExportAnalysis(a))
	}
	return data, nil
}

// ExportTo writes the export in format to outputPath
func (s *Storage) ExportTo(outputPath, format string, ids ...string) error {
	data, err := s.Export(ids...)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteExport(file, data, format)
}

// ExportAnalysis writes a JSON report for one analysis into dir and returns its path
func (s *Storage) ExportAnalysis(id, dir string) (string, error) {
	a, err := s.ResolveAnalysis(id)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	path := filepath.Join(dir, "analysis-"+a.ID+".json")
	if err := s.ExportTo(path, FormatJSON, a.ID); err != nil {
		return "", err
	}
	return path, nil
}

// WriteExport encodes data to w in the given format
func WriteExport(w io.Writer, data *ExportData, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML, "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	case FormatMarkdown, "md":
		writeMarkdown(w, data)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}

func writeMarkdown(w io.Writer, data *ExportData) {
	_, _ = fmt.Fprintf(w, "# CDT Coding Report - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	for _, a := range data.Analyses {
		_, _ = fmt.Fprintf(w, "## Analysis %s\n\n", a.ID)
		_, _ = fmt.Fprintf(w, "*Created: %s*\n\n", a.CreatedAt)
		_, _ = fmt.Fprintln(w, "### Scenario")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s\n\n", a.Scenario)

		if len(a.Ranges) > 0 {
			_, _ = fmt.Fprintln(w, "### Categories")
			_, _ = fmt.Fprintln(w)
			for _, r := range a.Ranges {
				_, _ = fmt.Fprintf(w, "- **%s** %s\n", r.CodeRange, r.Name)
			}
			_, _ = fmt.Fprintln(w)
		}

		if len(a.Topics) > 0 {
			_, _ = fmt.Fprintln(w, "### Candidate Codes")
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "| Topic | Range | Codes |")
			_, _ = fmt.Fprintln(w, "|-------|-------|-------|")
			for _, t := range a.Topics {
				_, _ = fmt.Fprintf(w, "| %s | %s | %s |\n", t.Topic, t.CodeRange, joinOrNone(t.Codes))
			}
			_, _ = fmt.Fprintln(w)
		}

		_, _ = fmt.Fprintf(w, "**Final codes:** %s\n\n", joinOrNone(a.FinalCodes))
		if len(a.RejectedCodes) > 0 {
			_, _ = fmt.Fprintf(w, "**Rejected codes:** %s\n\n", joinOrNone(a.RejectedCodes))
		}
		if a.Explanation != "" {
			_, _ = fmt.Fprintf(w, "%s\n\n", a.Explanation)
		}
		if len(a.Questions) > 0 {
			_, _ = fmt.Fprintln(w, "### Open Questions")
			_, _ = fmt.Fprintln(w)
			for _, q := range a.Questions {
				_, _ = fmt.Fprintf(w, "- %s\n", q)
			}
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, "---")
		_, _ = fmt.Fprintln(w)
	}
}

func joinOrNone(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ", ")
}
