package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagramiz/internal/config"
	"github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/export"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/metrics"
	"github.com/abhisek/diagramiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "diagramiz",
	Short: "AI diagram editor for the classroom",
	Long:  "Diagramiz is a terminal diagram editor that turns a short description into an editable flow chart, mind map or concept map.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the CLI with ctx as the context of every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides DIAGRAMIZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DIAGRAMIZ_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DIAGRAMIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig reads the file named by --config, or the default path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes text logs to --log-file when set, otherwise to fallback.
// A nil fallback discards. The returned func closes the log file.
func newLogger(cmd *cobra.Command, fallback io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}

	w, closeFn := fallback, func() {}
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}
	if w == nil {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// serveMetrics starts the /metrics endpoint when --metrics-addr is set.
func serveMetrics(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) {
	addr, _ := cmd.Flags().GetString("metrics-addr")
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, addr, logger); err != nil {
			logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
}

// editorDeps bundles what a mounted editor needs from the environment.
type editorDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	events   store.EventRepo
	provider llm.Provider
}

// newEditor builds an editor from the config. A nil provider leaves AI
// generation unconfigured; a nil event repo skips the audit log.
func newEditor(d editorDeps) *editor.Editor {
	deps := editor.Deps{
		Canvas:       d.cfg.CanvasOptions(),
		HistoryLimit: d.cfg.History.Limit,
		Exporter:     export.NewService(d.cfg.ExportOptions(), d.logger),
		Logger:       d.logger,
		Title:        d.cfg.Canvas.Title,
	}
	if d.provider != nil {
		deps.Generator = newGenerator(d.cfg, d.provider, d.logger)
	}
	if d.events != nil {
		deps.Recorder = d.events
	}
	return editor.New(deps)
}
