// ABOUTME: CLI command checking user-supplied CDT codes against one scenario
// ABOUTME: Prints a verdict and reason per code, or the whole check as JSON
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/models"
)

var (
	verifyFile  string
	verifyCodes []string
	verifySave  bool
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [scenario]",
		Short: "Check whether given CDT codes fit a scenario",
		Long: `Ask the model whether codes you already have apply to a dental scenario.

Each code gets an applicable, not_applicable or unknown verdict with a reason.
The scenario is read from the argument, --file, or stdin.

Examples:
  cdtcoder verify --codes D0120,D1110 "Adult prophylaxis at the recall visit"
  cdtcoder verify --codes D3330 --file visit.txt --save
  cdtcoder -q verify --codes D0150,D0120 < visit.txt`,
		RunE: runVerify,
	}

	cmd.Flags().StringVar(&verifyFile, "file", "", "Read the scenario from a file")
	cmd.Flags().StringSliceVar(&verifyCodes, "codes", nil, "CDT codes to check (comma-separated or repeated)")
	cmd.Flags().BoolVar(&verifySave, "save", false, "Save the check to history")
	_ = cmd.MarkFlagRequired("codes")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	if len(models.NormalizeCodes(verifyCodes)) == 0 {
		return fmt.Errorf("--codes must name at least one CDT code")
	}
	scenario, err := readScenario(verifyFile, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd, verifySave)
	if err != nil {
		return err
	}
	defer a.Close()

	check, err := a.coder.Verify(cmd.Context(), scenario, verifyCodes, verifySave)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), check)
	}
	printCodeCheck(cmd.OutOrStdout(), check)
	if verifySave && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved check %s\n", check.ID)
	}
	return nil
}

// printCodeCheck renders a check as text. Quiet mode prints only the applicable codes.
func printCodeCheck(w io.Writer, c *models.CodeCheck) {
	if quiet {
		fmt.Fprintln(w, joinCodes(c.Applicable()))
		return
	}

	for _, v := range c.Verdicts {
		fmt.Fprintf(w, "%-6s %s\n", v.Code, v.Verdict)
		if v.Reason != "" {
			fmt.Fprintf(w, "       %s\n", v.Reason)
		}
	}
	if c.Error != "" {
		fmt.Fprintf(w, "\nverification failed: %s\n", c.Error)
	}
	fmt.Fprintf(w, "\nApplicable: %s\n", joinCodes(c.Applicable()))
}
