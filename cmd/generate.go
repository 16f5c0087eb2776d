package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/config"
	"github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <description>",
	Short: "Generate a diagram with AI and export it as PNG",
	Long: `Ask the configured model for a diagram and write it to <title>.png.

The same request the editor sends from its prompt bar, without the TUI.
Useful for scripting and for checking prompt quality across categories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("category", aigraph.DefaultCategory.Slug(), "Diagram category, e.g. flow-chart, mind-map, uml")
	generateCmd.Flags().String("title", "", "Diagram title; names the output file")
	generateCmd.Flags().String("out", "", "Output directory (overrides [export] dir)")
	generateCmd.Flags().Bool("no-log", false, "Do not record the request in the event log")
}

func newGenerator(cfg *config.Config, p llm.Provider, logger *slog.Logger) *aigraph.Generator {
	return aigraph.New(p, cfg.GeneratorConfig(), logger)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	categoryVal, _ := cmd.Flags().GetString("category")
	title, _ := cmd.Flags().GetString("title")
	out, _ := cmd.Flags().GetString("out")
	noLog, _ := cmd.Flags().GetBool("no-log")

	category, err := aigraph.ParseCategory(categoryVal)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if out != "" {
		cfg.Export.Dir = out
	}
	if title != "" {
		cfg.Canvas.Title = title
	}

	logger, closeLog, err := newLogger(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	deps := editorDeps{cfg: cfg, logger: logger}
	var recorder llm.EventRecorder
	if !noLog {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		deps.events = st.EventRepo()
		recorder = deps.events
	}

	deps.provider, err = llm.NewProvider(ctx, cfg.ProviderConfig(), recorder, logger)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	e := newEditor(deps)
	prompt := strings.Join(args, " ")
	fmt.Printf("Generating %s: %s\n", category, prompt)

	if err := e.Generate(ctx, aigraph.Input{Prompt: prompt, Category: category}); err != nil {
		logger.Debug("generation failed", "error", err)
		return userError(e, err)
	}
	e.FitView()

	nodes, edges := e.Store().Len()
	fmt.Printf("Received %d nodes and %d edges.\n", nodes, edges)

	path, err := e.Export(ctx, "png")
	if err != nil {
		return userError(e, err)
	}
	fmt.Println("Saved", path)
	return nil
}

// userError prefers the message the editor shows to users.
func userError(e *editor.Editor, err error) error {
	if msg := e.Session().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}
