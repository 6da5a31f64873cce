// Package cli wires configuration, logging, metrics, the tool registry and
// the download engine into the omnitool and omnitool-api commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/app"
	"github.com/ytget/omnitool/internal/compress"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/discovery"
	"github.com/ytget/omnitool/internal/download"
	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/observability"
	"github.com/ytget/omnitool/internal/registry"
	"github.com/ytget/omnitool/internal/tools"
)

// InstallTimeout bounds the yt-dlp auto-install at start-up
const InstallTimeout = 5 * time.Minute

// installYTDLP resolves the yt-dlp executable for an engine
var installYTDLP = func(ctx context.Context, engine *download.Engine) error {
	return engine.EnsureInstalled(ctx)
}

// Runtime is the assembled application
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Settings   *config.Settings
	Engine     *download.Engine
	Compressor *compress.Service
	Registry   *registry.Registry
	Manager    *app.Manager
	LoadErrors []discovery.LoadError
}

// BootstrapOption adjusts Bootstrap
type BootstrapOption func(*bootstrapOptions)

type bootstrapOptions struct {
	skipInstall bool
}

// WithoutInstall skips the yt-dlp auto-install for commands that never
// download, such as listing tools.
func WithoutInstall() BootstrapOption {
	return func(o *bootstrapOptions) {
		o.skipInstall = true
	}
}

// Bootstrap loads configuration and builds every service. fyneApp may be nil
// for headless commands; tools then list but cannot open windows.
func Bootstrap(ctx context.Context, configPath string, fyneApp fyne.App, opts ...BootstrapOption) (*Runtime, error) {
	var o bootstrapOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
	}

	install := cfg.Downloads.AutoInstall && !o.skipInstall
	rt.Engine, err = newEngine(ctx, cfg, logger, rt.Metrics, install)
	if err != nil {
		return nil, err
	}
	rt.Compressor = compress.NewService(compress.WithLogger(logger), compress.WithMetrics(rt.Metrics))
	if fyneApp != nil {
		rt.Settings = config.NewSettings(fyneApp, cfg.Downloads.Directory)
	}

	rt.Registry = registry.New(logger)
	rt.LoadErrors = discovery.Load(rt.Registry, tools.Builtin(tools.Deps{
		App:        fyneApp,
		Settings:   rt.Settings,
		Downloader: rt.Engine,
		Compressor: rt.Compressor,
		Logger:     logger,
	}), logger)
	rt.Manager = app.NewManager(rt.Registry, app.WithLogger(logger), app.WithMetrics(rt.Metrics))

	return rt, nil
}

// Close flushes the logger and closes remaining tool windows
func (rt *Runtime) Close() {
	if rt.Manager != nil {
		rt.Manager.Shutdown()
	}
	_ = rt.Logger.Sync()
}

// newEngine builds the download engine, installing yt-dlp when install is set
func newEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics, install bool) (*download.Engine, error) {
	engine := download.NewEngine(cfg.Downloads.Directory,
		download.WithLogger(logger),
		download.WithMetrics(metrics),
	)

	if install {
		ctx, cancel := context.WithTimeout(ctx, InstallTimeout)
		defer cancel()
		if err := installYTDLP(ctx, engine); err != nil {
			return nil, err
		}
		logger.Info("yt-dlp ready")
	}
	return engine, nil
}
