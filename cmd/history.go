package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/metrics"
	"github.com/abhisek/diagramiz/internal/store"
	"github.com/abhisek/diagramiz/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past AI generations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent AI generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		outcome, _ := cmd.Flags().GetString("outcome")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryGenerations(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query generations: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No generations recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-14s  %-8s  %5s  %5s  %7s  %s\n",
			"ID", "Timestamp", "Category", "Outcome", "Nodes", "Edges", "Ms", "Prompt")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			if outcome != "" && e.Outcome != outcome {
				continue
			}
			fmt.Printf("%-5d  %-19s  %-14s  %-8s  %5d  %5d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Category,
				e.Outcome,
				e.NodeCount,
				e.EdgeCount,
				e.LatencyMs,
				layout.Truncate(e.Prompt, 40),
			)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Re-export a past generation as PNG",
	Long: `Load the diagram of a successful generation from the event log and
export it without calling the model again. Defaults to the latest success.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := 0
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}
		}
		title, _ := cmd.Flags().GetString("title")
		out, _ := cmd.Flags().GetString("out")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ev, err := findGeneration(cmd, s.EventRepo(), id)
		if err != nil {
			return err
		}

		var snap graph.Snapshot
		if err := json.Unmarshal([]byte(ev.Graph), &snap); err != nil {
			return fmt.Errorf("decode generation %d: %w", ev.ID, err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if out != "" {
			cfg.Export.Dir = out
		}
		cfg.Canvas.Title = ev.Prompt
		if title != "" {
			cfg.Canvas.Title = title
		}

		logger, closeLog, err := newLogger(cmd, nil)
		if err != nil {
			return err
		}
		defer closeLog()

		e := newEditor(editorDeps{cfg: cfg, logger: logger})
		if err := e.Load(snap); err != nil {
			return fmt.Errorf("load generation %d: %w", ev.ID, err)
		}
		path, err := e.Export(cmd.Context(), "png")
		if err != nil {
			return userError(e, err)
		}
		fmt.Println("Saved", path)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EventRepo().PruneGenerations(cmd.Context(), keep); err != nil {
			return err
		}
		fmt.Printf("Kept the newest %d generations.\n", keep)
		return nil
	},
}

// findGeneration returns generation id, or the newest success when id is 0.
func findGeneration(cmd *cobra.Command, repo store.EventRepo, id int) (*store.GenerationEvent, error) {
	events, err := repo.QueryGenerations(cmd.Context(), store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	for i := range events {
		e := &events[i]
		if id != 0 && e.ID != id {
			continue
		}
		if e.Outcome != metrics.OutcomeSuccess || e.Graph == "" {
			if id != 0 {
				return nil, fmt.Errorf("generation %d has no diagram (outcome %s)", id, e.Outcome)
			}
			continue
		}
		return e, nil
	}
	if id != 0 {
		return nil, fmt.Errorf("generation %d not found", id)
	}
	return nil, fmt.Errorf("no successful generation recorded yet")
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of generations to show")
	historyListCmd.Flags().StringP("outcome", "o", "", "Filter by outcome (success, invalid, failure, stale)")

	historyExportCmd.Flags().String("title", "", "Diagram title (defaults to the prompt)")
	historyExportCmd.Flags().String("out", "", "Output directory (overrides [export] dir)")

	historyPruneCmd.Flags().Int("keep", 100, "Number of newest generations to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
