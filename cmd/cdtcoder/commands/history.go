// ABOUTME: CLI commands for saved analyses (list, show, export, delete) and saved code checks
// ABOUTME: Reads the SQLite history written by "code --save" and the HTTP API
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/models"
	"github.com/harper/cdt-coder/internal/storage/sqlite"
)

var (
	historyLimit        int
	historyCode         string
	historyExportFormat string
	historyExportOutput string
	historyExportDir    string
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
		Long: `Browse, export and delete analyses saved with "cdtcoder code --save".

Examples:
  cdtcoder history list
  cdtcoder history list --code D3330
  cdtcoder history show latest
  cdtcoder history export --export-format markdown --output report.md
  cdtcoder history checks`,
	}

	cmd.AddCommand(newHistoryListCmd(), newHistoryShowCmd(), newHistoryExportCmd(), newHistoryDeleteCmd(), newHistoryChecksCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		Long: `List saved analyses, newest first.

Examples:
  cdtcoder history list
  cdtcoder history list --limit 5
  cdtcoder history list --code D1110 --format json`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum analyses to show")
	cmd.Flags().StringVar(&historyCode, "code", "", "Only analyses whose final codes include this code")
	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	store, _, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var analyses []*models.Analysis
	if historyCode != "" {
		analyses, err = store.FindAnalysesByCode(historyCode)
		if len(analyses) > historyLimit {
			analyses = analyses[:historyLimit]
		}
	} else {
		analyses, err = store.ListAnalyses(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), analyses)
	}
	if len(analyses) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved analyses\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCREATED\tCODES\tSCENARIO\n")
	fmt.Fprintf(w, "--\t-------\t-----\t--------\n")
	for _, a := range analyses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(a.ID),
			formatTime(a.CreatedAt),
			truncate(joinCodes(a.FinalCodes()), 30),
			truncate(a.Scenario, 50))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d analysis(es)\n", len(analyses))
	}
	return nil
}

func newHistoryChecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List code checks saved with \"verify --save\", newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryChecks,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum checks to show")
	return cmd
}

func runHistoryChecks(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	store, _, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	checks, err := store.ListCodeChecks(historyLimit)
	if err != nil {
		return fmt.Errorf("listing code checks: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), checks)
	}
	if len(checks) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved code checks\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCREATED\tCHECKED\tAPPLICABLE\tSCENARIO\n")
	fmt.Fprintf(w, "--\t-------\t-------\t----------\t--------\n")
	for _, c := range checks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID),
			formatTime(c.CreatedAt),
			truncate(joinCodes(c.Codes), 30),
			truncate(joinCodes(c.Applicable()), 30),
			truncate(c.Scenario, 40))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d check(s)\n", len(checks))
	}
	return nil
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id|latest]",
		Short: "Show one saved analysis",
		Long: `Show one saved analysis by ID, unique ID prefix or "latest".

Examples:
  cdtcoder history show
  cdtcoder history show 3f2a9c1b`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryShow,
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, _, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolve(store, args)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), a)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis %s (%s)\n\nScenario:\n%s\n\n", a.ID, a.CreatedAt.Format("2006-01-02 15:04"), a.Scenario)
	}
	printAnalysis(cmd.OutOrStdout(), a)
	return nil
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export saved analyses",
		Long: `Export saved analyses as JSON, YAML or Markdown.

With no IDs every saved analysis is exported. Without --output the
report is written to stdout. --dir writes one JSON report per analysis.

Examples:
  cdtcoder history export --output analyses.json
  cdtcoder history export latest --export-format markdown
  cdtcoder history export --dir reports/`,
		RunE: runHistoryExport,
	}
	cmd.Flags().StringVar(&historyExportFormat, "export-format", sqlite.FormatJSON, "Export format: json, yaml or markdown")
	cmd.Flags().StringVarP(&historyExportOutput, "output", "o", "", "Write the export to a file")
	cmd.Flags().StringVar(&historyExportDir, "dir", "", "Write one JSON report per analysis into this directory")
	cmd.MarkFlagsMutuallyExclusive("output", "dir")
	return cmd
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, _, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyExportDir != "" {
		ids := args
		if len(ids) == 0 {
			all, err := store.ListAnalyses(0)
			if err != nil {
				return fmt.Errorf("listing analyses: %w", err)
			}
			for _, a := range all {
				ids = append(ids, a.ID)
			}
		}
		for _, id := range ids {
			path, err := store.ExportAnalysis(id, historyExportDir)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
		}
		return nil
	}

	if historyExportOutput != "" {
		if err := store.ExportTo(historyExportOutput, historyExportFormat, args...); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", historyExportOutput)
		}
		return nil
	}

	data, err := store.Export(args...)
	if err != nil {
		return err
	}
	return sqlite.WriteExport(cmd.OutOrStdout(), data, historyExportFormat)
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStorage(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			a, err := resolve(store, args)
			if err != nil {
				return err
			}
			if err := store.DeleteAnalysis(a.ID); err != nil {
				return fmt.Errorf("deleting analysis: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", a.ID)
			}
			return nil
		},
	}
}

// resolve finds the analysis named by the first argument, or the latest one
func resolve(store *sqlite.Storage, args []string) (*models.Analysis, error) {
	ref := "latest"
	if len(args) > 0 {
		ref = args[0]
	}
	a, err := store.ResolveAnalysis(ref)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s", sqlite.ErrNotFound, ref)
	}
	return a, nil
}
