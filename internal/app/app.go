package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/five82/presence/internal/backend"
	"github.com/five82/presence/internal/config"
	"github.com/five82/presence/internal/control"
	"github.com/five82/presence/internal/discord"
	"github.com/five82/presence/internal/logging"
	"github.com/five82/presence/internal/notify"
	"github.com/five82/presence/internal/prefs"
	"github.com/five82/presence/internal/slot"
	"github.com/five82/presence/internal/ui"
)

// Options configure the presence application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses ~/.config/presence/prefs.toml
	PollEvery  time.Duration // zero uses the configured interval
}

// Run boots the presence TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logs := logging.NewManager()
	if err := logs.Configure(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() { _ = logs.Close() }()
	log := logs.Logger("app")

	drafts, err := OpenSlot(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = drafts.Close() }()

	api, err := discord.NewAPIClient(cfg.APIBase, cfg.CDNBase)
	if err != nil {
		return fmt.Errorf("init discord api client: %w", err)
	}
	worker, err := backend.NewWorker(backend.WorkerOptions{
		Directory: api,
		Logger:    logs.Logger("backend"),
	})
	if err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer func() { _ = worker.Close() }()

	ctrl := control.New(control.Options{
		Backend:  worker,
		Slot:     drafts,
		Notifier: notify.New(cfg.Notifications, logs.Logger("notify")),
		Logger:   logs.Logger("control"),
	})
	defer ctrl.Close()
	if ctrl.Load() {
		log.Info("restored saved draft")
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	StartPoller(pollCtx, ctrl, interval, logs.Logger("poller"))

	home, _ := os.UserHomeDir()
	userPrefs := prefs.Load(opts.PrefsPath, prefs.Prefs{Theme: cfg.Theme, ImageDir: home})

	log.Info("starting ui", "storage", cfg.Storage, "poll_interval", interval.String())
	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		Logger:     logs.Logger("ui"),
	})
}

// OpenSlot opens the configured draft storage.
func OpenSlot(cfg config.Config) (slot.Slot, error) {
	s, err := slot.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s storage in %s: %w", cfg.Storage, cfg.DataDir, err)
	}
	return s, nil
}

