// Package tools assembles the built-in tools. It is the static replacement
// for scanning a tools directory: every tool the application ships is listed
// here once, and discovery registers them in this order.
package tools

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/compress"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/discovery"
	"github.com/ytget/omnitool/internal/tool"
	"github.com/ytget/omnitool/internal/tools/compressor"
	"github.com/ytget/omnitool/internal/tools/youtube"
)

// Deps carries the shared services tools are built from. App and Settings
// may be nil when tools are only listed.
type Deps struct {
	App        fyne.App
	Settings   *config.Settings
	Downloader youtube.Downloader
	Compressor compress.Compressor
	Logger     *zap.Logger
}

// Builtin returns the discovery entries of all shipped tools
func Builtin(deps Deps) []discovery.Entry {
	return []discovery.Entry{
		{
			Name: youtube.ID,
			Constructor: func() tool.Tool {
				return youtube.New(deps.App, deps.Downloader, deps.Settings, deps.Logger)
			},
		},
		{
			Name: compressor.ID,
			Constructor: func() tool.Tool {
				return compressor.New(deps.App, deps.Compressor, deps.Settings, deps.Logger)
			},
		},
	}
}
