// ABOUTME: CLI commands for single topics: run one topic service or list the catalog
// ABOUTME: topic fans a scenario out within one CDT category; topics prints every category and bucket
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/catalog"
)

var (
	topicFile        string
	topicAnalyzeOnly bool
	topicsBuckets    bool
)

// NewTopicCmd creates the topic command
func NewTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic <topic> [scenario]",
		Short: "Run one CDT category on a scenario",
		Long: `Classify a scenario within one CDT category and run the matching
code-range specialists.

The topic may be a slug, a name or a code range as listed by "cdtcoder topics".

Examples:
  cdtcoder topic endodontics "Root canal on molar #30"
  cdtcoder topic D7000-D7999 --file visit.txt
  cdtcoder topic preventive --analyze-only "Adult prophy"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTopic,
	}

	cmd.Flags().StringVar(&topicFile, "file", "", "Read the scenario from a file")
	cmd.Flags().BoolVar(&topicAnalyzeOnly, "analyze-only", false, "Print the category classifier output without running specialists")

	return cmd
}

func runTopic(cmd *cobra.Command, args []string) error {
	scenario, err := readScenario(topicFile, args[1:], cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.services.Lookup(args[0])
	if err != nil {
		return err
	}

	if topicAnalyzeOnly {
		output := svc.Analyze(cmd.Context(), scenario)
		if jsonOutput() {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"topic":             svc.Name(),
				"code_range":        svc.CodeRange(),
				"classifier_output": output,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}

	result := svc.Activate(cmd.Context(), scenario)
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"topic":      svc.Name(),
			"code_range": svc.CodeRange(),
			"result":     result,
		})
	}

	out := cmd.OutOrStdout()
	if quiet {
		fmt.Fprintln(out, joinCodes(result.Codes))
		return nil
	}
	fmt.Fprintf(out, "%s (%s)\n", svc.Name(), svc.CodeRange())
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(out, "No code ranges activated")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "RANGE\tLABEL\tSTATUS\tCODE\n")
		fmt.Fprintf(w, "-----\t-----\t------\t----\n")
		for _, o := range result.Outcomes {
			code, ok := o.Code.Value()
			if !ok {
				code = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Key, truncate(o.Label, 40), o.Status, code)
		}
		w.Flush()
	}
	fmt.Fprintf(out, "\nCodes: %s\n", joinCodes(result.Codes))
	return nil
}

// NewTopicsCmd creates the topics command
func NewTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List CDT categories",
		Long: `List the CDT categories the coder knows and, with --buckets,
the code ranges inside each one.

Examples:
  cdtcoder topics
  cdtcoder topics --buckets
  cdtcoder topics --format json`,
		RunE: runTopics,
	}

	cmd.Flags().BoolVar(&topicsBuckets, "buckets", false, "Show the code ranges in each category")

	return cmd
}

func runTopics(cmd *cobra.Command, args []string) error {
	topics := catalog.Topics()
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), topicListing(topics))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SLUG\tRANGE\tNAME\tBUCKETS\n")
	fmt.Fprintf(w, "----\t-----\t----\t-------\n")
	for _, t := range topics {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.Slug, t.CodeRange, t.Name, len(t.Buckets))
		if topicsBuckets {
			for _, b := range t.Buckets {
				fmt.Fprintf(w, "\t  %s\t%s\t\n", b.Key, truncate(b.Label, 50))
			}
		}
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d categories\n", len(topics))
	}
	return nil
}

type bucketListing struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Keyword string `json:"keyword,omitempty"`
}

type topicEntry struct {
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	CodeRange string          `json:"code_range"`
	Summary   string          `json:"summary"`
	Buckets   []bucketListing `json:"buckets"`
}

func topicListing(topics []catalog.Topic) []topicEntry {
	out := make([]topicEntry, 0, len(topics))
	for _, t := range topics {
		e := topicEntry{Slug: t.Slug, Name: t.Name, CodeRange: t.CodeRange, Summary: t.Summary}
		for _, b := range t.Buckets {
			e.Buckets = append(e.Buckets, bucketListing{Key: b.Key, Label: b.Label, Keyword: b.Keyword})
		}
		out = append(out, e)
	}
	return out
}
