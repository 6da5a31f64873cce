// Package compressor is the video compressor tool: it re-encodes a local
// video to H.264/AAC MP4 next to the original via ffmpeg.
package compressor

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/compress"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/tool"
)

// ID is the registry key of the tool
const ID = "video_compressor"

// Tool implements tool.Tool for the video compressor
type Tool struct {
	tool.Base

	app      fyne.App
	service  compress.Compressor
	settings *config.Settings
	logger   *zap.Logger
}

// New creates the tool. app may be nil for headless listing.
func New(app fyne.App, service compress.Compressor, settings *config.Settings, logger *zap.Logger) *Tool {
	t := &Tool{
		app:      app,
		service:  service,
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
		Name:        "Video Compressor",
		Description: "Shrink local videos to H.264/AAC MP4 with ffmpeg while keeping the original",
		Category:    tool.CategoryMedia,
		Icon:        "🗜️",
		Keywords:    []string{"video", "compress", "ffmpeg", "mp4", "h264", "shrink"},
		Version:     "1.0.0",
		Author:      "OmniTool",
	}
}

// CreateWindow builds a new compressor window
func (t *Tool) CreateWindow() (tool.Window, error) {
	if t.app == nil {
		return nil, tool.ErrNoApp
	}
	v := newView(t.app.NewWindow(WindowTitle), t.service, t.settings, t.logger)
	return v.window, nil
}
