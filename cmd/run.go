package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagramiz/internal/app"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to --log-file.
	logger, closeLog, err := newLogger(cmd, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	serveMetrics(ctx, cmd, logger)

	eventRepo := st.EventRepo()
	deps := editorDeps{cfg: cfg, logger: logger, events: eventRepo}

	provider, err := llm.NewProvider(ctx, cfg.ProviderConfig(), eventRepo, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI generation will be unavailable.")
	} else {
		deps.provider = provider
	}

	return app.Run(ctx, app.Options{Editor: newEditor(deps)})
}
