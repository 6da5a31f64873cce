// Package youtube is the YouTube downloader tool: a window that fetches
// video or playlist metadata and downloads video or MP3 audio through the
// download engine.
package youtube

import (
	"context"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/tool"
)

// ID is the registry key of the tool
const ID = "youtube_downloader"

// Downloader is the part of the download engine the window uses
type Downloader interface {
	GetInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.Progress)) model.DownloadResult
	Directory() string
}

// Tool implements tool.Tool for the YouTube downloader
type Tool struct {
	tool.Base

	app      fyne.App
	engine   Downloader
	settings *config.Settings
	logger   *zap.Logger
}

// New creates the tool. app may be nil for headless listing, in which case
// CreateWindow fails with tool.ErrNoApp.
func New(app fyne.App, engine Downloader, settings *config.Settings, logger *zap.Logger) *Tool {
	t := &Tool{
		app:      app,
		engine:   engine,
		settings: settings,
		logger:   logging.OrNop(logger).With(zap.String("tool", ID)),
	}
	t.Bind(t.CreateWindow)
	return t
}

// Metadata implements tool.Tool
func (t *Tool) Metadata() tool.Metadata {
	return tool.Metadata{
		ID:          ID,
		Name:        "YouTube Downloader",
		Description: "Download YouTube videos and audio with quality selection, thumbnail preview, and playlist support",
		Category:    tool.CategoryMedia,
		Icon:        "🎬",
		Keywords:    []string{"youtube", "download", "video", "audio", "mp3", "music", "playlist", "thumbnail"},
		Version:     "2.0.0",
		Author:      "OmniTool",
	}
}

// CreateWindow builds a new downloader window
func (t *Tool) CreateWindow() (tool.Window, error) {
	if t.app == nil {
		return nil, tool.ErrNoApp
	}
	v := newView(t.app.NewWindow(WindowTitle), t.engine, t.settings, t.logger)
	return v.window, nil
}
