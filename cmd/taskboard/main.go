package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/notify"
	"taskboard/internal/storage"
	"taskboard/internal/tasklist"
	"taskboard/internal/ui"
	"taskboard/internal/view"
)

var version = "dev"

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	ephemeral  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "A local task list with pending and completed lists",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $TASKBOARD_CONFIG or ~/.config/taskboard/config.toml)")
	cmd.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep tasks in memory only")
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the task lists as an HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			export := func(w io.Writer) error { return runExport(cmd.Context(), opts, w) }
			if len(args) == 0 {
				return export(cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			return writeAndClose(f, export)
		},
	}
}

// writeAndClose runs write against wc and reports a failed Close when the
// write itself succeeded.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export: %w", cerr)
		}
	}()
	return write(wc)
}

// app is the wiring shared by the TUI and export commands.
type app struct {
	cfg    config.Config
	page   view.Page
	ctl    *tasklist.Controller
	notes  *notify.Recorder
	answer *ui.Answer
	close  func()
}

func setup(ctx context.Context, opts *options) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	slog.SetDefault(logger)

	var slot storage.Slot
	closeAll := closeLog
	if opts.ephemeral {
		slot = storage.NewMemory()
	} else {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			closeLog()
			return nil, fmt.Errorf("open database: %w", err)
		}
		slot = store
		closeAll = func() {
			_ = store.Close()
			closeLog()
		}
	}

	a := &app{
		cfg:    cfg,
		page:   view.NewPage(),
		notes:  &notify.Recorder{},
		answer: &ui.Answer{},
		close:  closeAll,
	}
	adapter := storage.NewAdapter(slot, cfg.SlotKey)
	a.ctl, err = tasklist.New(tasklist.Env{
		Pending:   a.page.Pending,
		Completed: a.page.Completed,
		Store:     adapter,
		Confirm:   a.answer,
		Notifier:  notify.Multi(a.notes, notify.NewLogger(logger)),
		Clock:     time.Now,
		Logger:    logger,
	})
	if err != nil {
		closeAll()
		return nil, err
	}
	if err := a.ctl.Load(ctx); err != nil {
		closeAll()
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	logger.Info("taskboard started", "db", cfg.DBPath, "slot", adapter.Key(), "ephemeral", opts.ephemeral)
	return a, nil
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), func() { _ = f.Close() }, nil
}

func runTUI(ctx context.Context, opts *options) error {
	a, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return ui.Run(ctx, a.ctl, a.notes, a.answer, a.cfg)
}

func runExport(ctx context.Context, opts *options, w io.Writer) error {
	a, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return view.WriteDocument(w, a.page, time.Now())
}
