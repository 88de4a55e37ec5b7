package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wwexlabs/freightagent/internal/llm"
	"github.com/wwexlabs/freightagent/internal/memory"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect the memory subsystem",
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts per memory tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := dbClient.QueryCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("query counts: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIER\tTABLE\tRECORDS")
		fmt.Fprintf(w, "semantic\tfact\t%d\n", counts.Facts)
		fmt.Fprintf(w, "episodic\tepisode\t%d\n", counts.Episodes)
		fmt.Fprintf(w, "procedural\tstrategy\t%d\n", counts.Strategies)
		fmt.Fprintf(w, "sessions\tsession\t%d\n", counts.Sessions)
		return w.Flush()
	},
}

var memoryStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List prompt strategies with versions and success rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		embedder, err := llm.NewEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}
		stores := memory.NewSurrealStores(dbClient, embedder, collector, logger)

		strategies, err := stores.Strategies.ListStrategies(cmd.Context())
		if err != nil {
			return fmt.Errorf("list strategies: %w", err)
		}
		if len(strategies) == 0 {
			fmt.Println("No strategies stored yet. They are seeded on first run.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tSUCCESS RATE\tUPDATED")
		for _, s := range strategies {
			updated := "-"
			if !s.Updated.IsZero() {
				updated = s.Updated.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\tv%d\t%.2f\t%s\n", s.Name, s.Version, s.SuccessRate, updated)
		}
		return w.Flush()
	},
}

func init() {
	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryStrategiesCmd)
}
