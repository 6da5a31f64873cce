package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir  = "youtube.download_directory"
	KeyQuality      = "youtube.quality"
	KeyMediaKind    = "youtube.media_kind"
	KeyCompressDir  = "compressor.last_directory"
	KeyLastTool     = "launcher.last_tool"
	fallbackTempDir = "omnitool-downloads"
)

// Settings remembers per-user GUI choices between runs
type Settings struct {
	app        fyne.App
	defaultDir string
}

// NewSettings creates a new settings manager. defaultDir is used when no
// directory was chosen yet; empty means ~/Downloads/YouTube.
func NewSettings(app fyne.App, defaultDir string) *Settings {
	return &Settings{app: app, defaultDir: defaultDir}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir != "" {
		return dir
	}

	if s.defaultDir != "" {
		if expanded, err := platform.ExpandHome(s.defaultDir); err == nil {
			return expanded
		}
	}

	defaultDir, err := platform.DefaultYouTubeDir()
	if err != nil {
		return fallbackTempDir
	}
	return defaultDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetQuality returns the last selected quality
func (s *Settings) GetQuality() string {
	return s.app.Preferences().StringWithFallback(KeyQuality, model.QualityBest)
}

// SetQuality stores the selected quality
func (s *Settings) SetQuality(quality string) {
	if quality == "" {
		quality = model.QualityBest
	}
	s.app.Preferences().SetString(KeyQuality, quality)
}

// GetMediaKind returns the last selected media kind
func (s *Settings) GetMediaKind() model.MediaKind {
	return model.ParseMediaKind(s.app.Preferences().String(KeyMediaKind))
}

// SetMediaKind stores the selected media kind
func (s *Settings) SetMediaKind(kind model.MediaKind) {
	s.app.Preferences().SetString(KeyMediaKind, string(kind))
}

// GetCompressDirectory returns the directory the compressor last opened
func (s *Settings) GetCompressDirectory() string {
	return s.app.Preferences().String(KeyCompressDir)
}

// SetCompressDirectory stores the directory the compressor last opened
func (s *Settings) SetCompressDirectory(dir string) {
	s.app.Preferences().SetString(KeyCompressDir, dir)
}

// GetLastTool returns the id of the tool launched last
func (s *Settings) GetLastTool() string {
	return s.app.Preferences().String(KeyLastTool)
}

// SetLastTool stores the id of the tool launched last
func (s *Settings) SetLastTool(id string) {
	s.app.Preferences().SetString(KeyLastTool, id)
}
