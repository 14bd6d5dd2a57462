// ABOUTME: Eval command scores the pipeline against labelled dental scenarios
// ABOUTME: Uses the built-in set or a YAML/JSON file and can export a JSON report
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/eval"
)

var (
	evalFile      string
	evalTests     []string
	evalOutput    string
	evalThreshold float64
	evalNoClean   bool
)

// NewEvalCmd creates the eval command
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate coding accuracy on labelled scenarios",
		Long: `Run labelled scenarios through the full pipeline and score the
final codes with precision, recall and F1.

A scenario passes when code F1 and range recall reach the threshold
and no forbidden code is produced.

Examples:
  cdtcoder eval
  cdtcoder eval --test molar_endo --test simple_extraction
  cdtcoder eval --scenarios my-cases.yaml --output results.json`,
		Args: cobra.NoArgs,
		RunE: runEval,
	}

	cmd.Flags().StringVar(&evalFile, "scenarios", "", "YAML or JSON scenario file (default: built-in set)")
	cmd.Flags().StringSliceVar(&evalTests, "test", nil, "Only run these scenario IDs")
	cmd.Flags().StringVarP(&evalOutput, "output", "o", "", "Write a JSON report to this file")
	cmd.Flags().Float64Var(&evalThreshold, "threshold", eval.DefaultPassThreshold, "Minimum F1 and range recall to pass")
	cmd.Flags().BoolVar(&evalNoClean, "no-clean", false, "Skip restructuring scenarios before classification")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	scenarios := eval.DefaultScenarios()
	if evalFile != "" {
		loaded, err := eval.LoadScenarios(evalFile)
		if err != nil {
			return err
		}
		scenarios = loaded
	}
	scenarios = eval.Filter(scenarios, evalTests...)
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios to run")
	}

	a, err := newApp(cmd.Context(), cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	runOpts := a.defaults()
	runOpts.Inspect = true
	if evalNoClean {
		runOpts.Clean = false
	}
	opts := []eval.RunnerOption{eval.WithRunOptions(runOpts), eval.WithThreshold(evalThreshold)}
	if !quiet && !jsonOutput() {
		opts = append(opts, eval.WithVerbose(cmd.OutOrStdout()))
	}
	runner := eval.NewRunner(a.coder, a.logger, opts...)

	results, err := runner.RunAll(cmd.Context(), scenarios)
	if err != nil {
		return err
	}

	if evalOutput != "" {
		if err := runner.ExportResults(results, evalOutput); err != nil {
			return err
		}
	}

	if jsonOutput() {
		return eval.WriteJSON(cmd.OutOrStdout(), runner.NewReport(results))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", eval.Summarize(results))
	if evalOutput != "" && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Results exported to %s\n", evalOutput)
	}
	return nil
}
