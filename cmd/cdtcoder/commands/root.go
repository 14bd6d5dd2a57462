// ABOUTME: Root command and global flags for the cdtcoder CLI
// ABOUTME: Registers every subcommand and validates output flags before they run
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

const banner = `
 ██████╗██████╗ ████████╗     ██████╗ ██████╗ ██████╗ ███████╗██████╗
██╔════╝██╔══██╗╚══██╔══╝    ██╔════╝██╔═══██╗██╔══██╗██╔════╝██╔══██╗
██║     ██║  ██║   ██║       ██║     ██║   ██║██║  ██║█████╗  ██████╔╝
██║     ██║  ██║   ██║       ██║     ██║   ██║██║  ██║██╔══╝  ██╔══██╗
╚██████╗██████╔╝   ██║       ╚██████╗╚██████╔╝██████╔╝███████╗██║  ██║
 ╚═════╝╚═════╝    ╚═╝        ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cdtcoder",
		Short: "Suggest ADA CDT codes for dental scenarios",
		Long: banner + `
Suggest ADA CDT procedure codes for a dental clinical scenario.

The scenario is classified into top-level CDT categories, each category
fans out to its code-range specialists, and a final review selects the
codes the documentation supports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "text":
				return nil
			default:
				return fmt.Errorf("--format must be auto, json or text; got %q", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or text")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default searches ./cdtcoder.yaml)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewCodeCmd(),
		NewVerifyCmd(),
		NewTopicCmd(),
		NewTopicsCmd(),
		NewHistoryCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewEvalCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// jsonOutput reports whether results should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}
