package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/store"
)

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one generation and the model request behind it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		gen, err := lookupGeneration(cmd, repo, id)
		if err != nil {
			return err
		}
		req, err := repo.GenerationRequest(cmd.Context(), *gen, llm.PurposeDiagramGen)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("find model request: %w", err)
		}

		printGeneration(cmd.OutOrStdout(), gen, req, raw)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation outcomes per category and estimated model cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		stats, err := repo.GenerationStatsByCategory(cmd.Context())
		if err != nil {
			return err
		}
		usage, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 && len(usage) == 0 {
			fmt.Fprintln(out, "No generations recorded yet.")
			return nil
		}
		printCategoryStats(out, stats)
		printModelCost(out, usage)
		return nil
	},
}

// lookupGeneration returns generation id whatever its outcome.
func lookupGeneration(cmd *cobra.Command, repo store.EventRepo, id int) (*store.GenerationEvent, error) {
	events, err := repo.QueryGenerations(cmd.Context(), store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, fmt.Errorf("generation %d not found", id)
}

func printGeneration(w io.Writer, gen *store.GenerationEvent, req *store.LLMRequestEvent, raw bool) {
	fmt.Fprintf(w, "ID:        %d\n", gen.ID)
	fmt.Fprintf(w, "Time:      %s\n", gen.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Category:  %s\n", gen.Category)
	fmt.Fprintf(w, "Prompt:    %s\n", gen.Prompt)
	fmt.Fprintf(w, "Outcome:   %s\n", gen.Outcome)
	fmt.Fprintf(w, "Diagram:   %d nodes, %d edges\n", gen.NodeCount, gen.EdgeCount)
	fmt.Fprintf(w, "Latency:   %dms\n", gen.LatencyMs)
	if gen.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", gen.ErrorMessage)
	}

	fmt.Fprintln(w)
	if req == nil {
		fmt.Fprintln(w, "Model:     (no request logged)")
		return
	}
	fmt.Fprintf(w, "Model:     %s (%s)\n", req.Model, req.Provider)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", req.InputTokens, req.OutputTokens)
	if cost := llm.LookupCost(req.Model); cost != nil {
		fmt.Fprintf(w, "Cost:      %s\n", formatCost(cost.Cost(req.InputTokens, req.OutputTokens)))
	}
	if !req.Success {
		fmt.Fprintf(w, "Request:   failed: %s\n", req.ErrorMessage)
	}
	if !raw {
		return
	}

	sep := strings.Repeat("─", 60)
	for _, part := range []struct{ title, body string }{
		{"REQUEST", req.RequestBody},
		{"RESPONSE", req.ResponseBody},
	} {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.title)
		fmt.Fprintln(w, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func printCategoryStats(w io.Writer, stats []store.CategoryStats) {
	if len(stats) == 0 {
		return
	}
	rule := strings.Repeat("─", 72)
	fmt.Fprintln(w, "Generations by Category")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-18s  %5s  %8s  %9s  %9s  %8s\n",
		"Category", "Runs", "Success", "Avg Nodes", "Avg Edges", "Avg Ms")
	fmt.Fprintln(w, rule)

	var runs, ok int
	for _, st := range stats {
		fmt.Fprintf(w, "%-18s  %5d  %7.0f%%  %9.1f  %9.1f  %8d\n",
			st.Category, st.Generations, st.SuccessRate()*100, st.AvgNodes, st.AvgEdges, st.AvgLatencyMs)
		runs += st.Generations
		ok += st.Successes
	}
	fmt.Fprintln(w, rule)
	total := store.CategoryStats{Generations: runs, Successes: ok}
	fmt.Fprintf(w, "%-18s  %5d  %7.0f%%\n", "TOTAL", runs, total.SuccessRate()*100)
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	if len(usage) == 0 {
		return
	}
	rule := strings.Repeat("─", 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Model Cost (USD)")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule)

	var total float64
	var unknown []string
	for _, mu := range usage {
		name := mu.Model
		if len(name) > 32 {
			name = name[:32]
		}
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unknown = append(unknown, mu.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %9s\n", name, mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %9s\n", name, mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}
	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	historyShowCmd.Flags().Bool("raw", false, "Print the captured model request and response")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
