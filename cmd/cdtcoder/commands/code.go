// ABOUTME: CLI command running the full coding pipeline on one scenario
// ABOUTME: Prints ranges, per-topic candidates, questions and the final code selection
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/models"
)

var (
	codeFile      string
	codeSave      bool
	codeNoClean   bool
	codeNoInspect bool
	codeQuestions bool
	codeAnswers   string
)

// NewCodeCmd creates the code command
func NewCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code [scenario]",
		Short: "Suggest CDT codes for a scenario",
		Long: `Run the full coding pipeline on a dental scenario.

The scenario is read from the argument, --file, or stdin.

Examples:
  cdtcoder code "Adult prophylaxis and periodic evaluation"
  cdtcoder code --file visit.txt --save
  cdtcoder code --questions --no-inspect "Root canal on #30"
  cdtcoder code --format json < visit.txt`,
		RunE: runCode,
	}

	cmd.Flags().StringVar(&codeFile, "file", "", "Read the scenario from a file")
	cmd.Flags().BoolVar(&codeSave, "save", false, "Save the analysis to history")
	cmd.Flags().BoolVar(&codeNoClean, "no-clean", false, "Skip restructuring the scenario before classification")
	cmd.Flags().BoolVar(&codeNoInspect, "no-inspect", false, "Skip the final code review")
	cmd.Flags().BoolVar(&codeQuestions, "questions", false, "Ask clarifying questions about the candidates")
	cmd.Flags().StringVar(&codeAnswers, "answers", "", "Answers to clarifying questions, passed to the final review")

	return cmd
}

func runCode(cmd *cobra.Command, args []string) error {
	scenario, err := readScenario(codeFile, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd, codeSave)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.defaults()
	if codeNoClean {
		opts.Clean = false
	}
	if codeNoInspect {
		opts.Inspect = false
	}
	opts.Questions = codeQuestions
	opts.Answers = codeAnswers
	opts.Save = codeSave

	analysis, err := a.coder.Code(cmd.Context(), scenario, opts)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), analysis)
	}
	printAnalysis(cmd.OutOrStdout(), analysis)
	if codeSave && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved analysis %s\n", analysis.ID)
	}
	return nil
}

// printAnalysis renders an analysis as text. Quiet mode prints only the final codes.
func printAnalysis(w io.Writer, a *models.Analysis) {
	if quiet {
		fmt.Fprintln(w, joinCodes(a.FinalCodes()))
		return
	}

	if a.ProcessedScenario != "" && a.ProcessedScenario != a.Scenario {
		fmt.Fprintf(w, "Processed scenario:\n%s\n\n", a.ProcessedScenario)
	}

	fmt.Fprintln(w, "Code ranges:")
	if len(a.Ranges.Findings) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, f := range a.Ranges.Findings {
		fmt.Fprintf(w, "  %s %s\n", f.CodeRange, f.Name)
		if f.Explanation != "" {
			fmt.Fprintf(w, "    %s\n", f.Explanation)
		}
	}
	if a.Ranges.Error != "" {
		fmt.Fprintf(w, "  classifier error: %s\n", a.Ranges.Error)
	}

	fmt.Fprintln(w, "\nCandidates:")
	for _, t := range a.Topics {
		fmt.Fprintf(w, "  %s (%s): %s\n", t.Topic, t.CodeRange, joinCodes(t.Result.Codes))
		for _, o := range t.Result.Outcomes {
			if o.Error != "" {
				fmt.Fprintf(w, "    %s %s: %s\n", o.Key, o.Status, o.Error)
			}
		}
	}

	if a.Questions.HasQuestions() {
		fmt.Fprintln(w, "\nQuestions:")
		for _, q := range a.Questions.Items {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}

	if a.Inspection != nil {
		fmt.Fprintln(w, "\nReview:")
		if a.Inspection.Error != "" {
			fmt.Fprintf(w, "  review failed: %s\n", a.Inspection.Error)
		} else {
			if a.Inspection.Explanation != "" {
				fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(a.Inspection.Explanation, "\n", "\n  "))
			}
			fmt.Fprintf(w, "  Rejected: %s\n", joinCodes(a.Inspection.RejectedCodes))
		}
	}

	fmt.Fprintf(w, "\nFinal codes: %s\n", joinCodes(a.FinalCodes()))
}
