package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/omnitool/internal/app"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/registry"
	"github.com/ytget/omnitool/internal/tool"
	"github.com/ytget/omnitool/internal/tool/tooltest"
)

type fixture struct {
	launcher *Launcher
	settings *config.Settings
	tools    map[string]*tooltest.Tool
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	tools := map[string]*tooltest.Tool{
		"youtube_downloader": tooltest.New(tooltest.Meta("youtube_downloader", "YouTube Downloader", tool.CategoryMedia, "mp3")),
		"video_compressor":   tooltest.New(tooltest.Meta("video_compressor", "Video Compressor", tool.CategoryMedia, "ffmpeg")),
		"json_formatter":     tooltest.Failing(tooltest.Meta("json_formatter", "JSON Formatter", tool.CategoryDevelopment)),
	}
	reg := registry.New(nil)
	for _, id := range []string{"youtube_downloader", "video_compressor", "json_formatter"} {
		tl := tools[id]
		require.NoError(t, reg.Register(func() tool.Tool { return tl }))
	}

	settings := config.NewSettings(a, "")
	w := a.NewWindow("test")
	return fixture{
		launcher: NewLauncher(w, app.NewManager(reg), settings, nil),
		settings: settings,
		tools:    tools,
	}
}

func visibleIDs(l *Launcher) []string {
	ids := make([]string, 0)
	for _, m := range l.Visible() {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestLauncherShowsAllTools(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"youtube_downloader", "video_compressor", "json_formatter"}, visibleIDs(f.launcher))
	assert.Equal(t, "📊 Total Tools: 3", f.launcher.totalLabel.Text)
	assert.Equal(t, "🛠️ All Tools (3 available)", f.launcher.resultsLabel.Text)
	assert.Len(t, f.launcher.grid.Objects, 3)
	assert.Equal(t, []string{OptionAllTools, "Media & Video (2)", "Development (1)"}, f.launcher.categoryRadio.Options)
}

func TestLauncherSearch(t *testing.T) {
	f := newFixture(t)

	test.Type(f.launcher.searchEntry, "FFMPEG")
	assert.Equal(t, []string{"video_compressor"}, visibleIDs(f.launcher))
	assert.Equal(t, "🔍 Search results for 'FFMPEG' (1 found)", f.launcher.resultsLabel.Text)

	f.launcher.searchEntry.SetText("nothing matches")
	assert.Empty(t, f.launcher.Visible())
	require.Len(t, f.launcher.grid.Objects, 1)
}

func TestLauncherCategoryClearsSearch(t *testing.T) {
	f := newFixture(t)

	test.Type(f.launcher.searchEntry, "json")
	f.launcher.categoryRadio.SetSelected("Media & Video (2)")

	assert.Empty(t, f.launcher.searchEntry.Text)
	assert.Equal(t, []string{"youtube_downloader", "video_compressor"}, visibleIDs(f.launcher))
	assert.Equal(t, "📁 Media & Video (2 tools)", f.launcher.resultsLabel.Text)

	f.launcher.categoryRadio.SetSelected(OptionAllTools)
	assert.Len(t, f.launcher.Visible(), 3)
}

func TestLauncherLaunchTool(t *testing.T) {
	f := newFixture(t)

	f.launcher.LaunchTool("youtube_downloader")
	f.launcher.LaunchTool("youtube_downloader")

	windows := f.tools["youtube_downloader"].Windows()
	require.Len(t, windows, 1)
	assert.Equal(t, 2, windows[0].Shows())
	assert.Equal(t, "youtube_downloader", f.settings.GetLastTool())
}

func TestLauncherLaunchFailures(t *testing.T) {
	f := newFixture(t)

	f.launcher.LaunchTool("json_formatter")
	f.launcher.LaunchTool("missing")

	assert.Empty(t, f.settings.GetLastTool())
	assert.Empty(t, f.tools["json_formatter"].Windows())
}

func TestLauncherSurvivesPanickingTool(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	fragile := tooltest.Panicking(tooltest.Meta("fragile", "Fragile", tool.CategoryOther), "nil resource")
	reg := registry.New(nil)
	require.NoError(t, reg.Register(func() tool.Tool { return fragile }))

	settings := config.NewSettings(a, "")
	l := NewLauncher(a.NewWindow("test"), app.NewManager(reg), settings, nil)

	assert.NotPanics(t, func() { l.LaunchTool("fragile") })
	assert.Empty(t, settings.GetLastTool())
	assert.False(t, fragile.HasWindow())
}
