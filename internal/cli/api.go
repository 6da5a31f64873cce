package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/jsonapi"
	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/observability"
	"github.com/ytget/omnitool/internal/platform"
	"github.com/ytget/omnitool/internal/version"
)

// Defaults of the line protocol flags
const (
	DefaultAPIQuality = model.QualityBest
	DefaultAPIFormat  = "mp4"
	DefaultAPIOutput  = "~/Downloads"
)

// engineFactory builds the downloader the protocol drives
type engineFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (jsonapi.Downloader, error)

type apiOptions struct {
	configPath string
	getInfo    string
	download   bool
	url        string
	quality    string
	format     string
	output     string
}

// NewAPICmd creates the omnitool-api command, which speaks the JSON line
// protocol on stdout.
func NewAPICmd() *cobra.Command {
	return newAPICmd(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (jsonapi.Downloader, error) {
		return newEngine(ctx, cfg, logger, observability.NewMetrics(), cfg.Downloads.AutoInstall)
	})
}

func newAPICmd(newDownloader engineFactory) *cobra.Command {
	opts := &apiOptions{}

	cmd := &cobra.Command{
		Use:           "omnitool-api",
		Short:         "JSON line interface to the YouTube downloader",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPI(cmd, opts, newDownloader)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&opts.getInfo, "get-info", "", "Print video information for URL")
	cmd.Flags().BoolVar(&opts.download, "download", false, "Download --url")
	cmd.Flags().StringVar(&opts.url, "url", "", "Video or playlist URL")
	cmd.Flags().StringVar(&opts.quality, "quality", DefaultAPIQuality, "Video quality, e.g. 720p or best")
	cmd.Flags().StringVar(&opts.format, "format", DefaultAPIFormat, "mp4 for video, audio or mp3 for audio")
	cmd.Flags().StringVar(&opts.output, "output", DefaultAPIOutput, "Output directory")

	cmd.Version = version.Version
	cmd.SetVersionTemplate(version.String() + "\n")
	return cmd
}

func runAPI(cmd *cobra.Command, opts *apiOptions, newDownloader engineFactory) error {
	out := jsonapi.NewEmitter(cmd.OutOrStdout())
	fail := func(err error) error {
		if emitErr := out.Emit(jsonapi.ResultLine{Success: false, Error: err.Error()}); emitErr != nil {
			return emitErr
		}
		return exitError(1, "%v", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fail(err)
	}
	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = logger.Sync() }()

	engine, err := newDownloader(cmd.Context(), cfg, logger)
	if err != nil {
		return fail(err)
	}
	svc := jsonapi.NewService(engine, out)

	switch {
	case opts.getInfo != "":
		err = svc.GetInfo(cmd.Context(), opts.getInfo)
	case opts.download:
		dir, expandErr := platform.ExpandHome(opts.output)
		if expandErr != nil {
			return fail(expandErr)
		}
		err = svc.Download(cmd.Context(), model.DownloadRequest{
			URL:       opts.url,
			Quality:   opts.quality,
			Kind:      model.ParseMediaKind(opts.format),
			Directory: dir,
		})
	default:
		err = svc.NoAction()
	}

	if errors.Is(err, jsonapi.ErrUsage) {
		return exitError(1, "usage error")
	}
	if err != nil {
		logger.Error("write response", zap.Error(err))
		return exitError(1, "%v", err)
	}
	return nil
}
