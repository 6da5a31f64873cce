package tool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/omnitool/internal/tool"
	"github.com/ytget/omnitool/internal/tool/tooltest"
)

func TestBaseLaunchIsIdempotent(t *testing.T) {
	tl := tooltest.New(tooltest.Meta("demo", "Demo", tool.CategoryUtilities))

	w1, err := tl.Launch()
	require.NoError(t, err)
	w2, err := tl.Launch()
	require.NoError(t, err)

	require.Same(t, w1, w2)
	require.Len(t, tl.Windows(), 1)
	assert.Equal(t, 2, tl.Windows()[0].Shows())
}

func TestBaseCleanupIsSafeToRepeat(t *testing.T) {
	tl := tooltest.New(tooltest.Meta("demo", "Demo", tool.CategoryUtilities))

	_, err := tl.Launch()
	require.NoError(t, err)
	require.True(t, tl.HasWindow())

	tl.Cleanup()
	tl.Cleanup()

	require.False(t, tl.HasWindow())
	assert.Equal(t, 1, tl.Windows()[0].Closes())
}

func TestBaseReleasesWindowClosedByUser(t *testing.T) {
	tl := tooltest.New(tooltest.Meta("demo", "Demo", tool.CategoryUtilities))

	w, err := tl.Launch()
	require.NoError(t, err)

	w.Close()
	require.False(t, tl.HasWindow())

	w2, err := tl.Launch()
	require.NoError(t, err)
	require.NotSame(t, w, w2)
	require.Len(t, tl.Windows(), 2)
}

func TestBaseReleaseHookRunsOnlyForUserClose(t *testing.T) {
	tl := tooltest.New(tooltest.Meta("demo", "Demo", tool.CategoryUtilities))
	released := 0
	tl.OnRelease(func() { released++ })

	w, err := tl.Launch()
	require.NoError(t, err)
	w.Close()
	assert.Equal(t, 1, released)

	_, err = tl.Launch()
	require.NoError(t, err)
	tl.Cleanup()
	assert.Equal(t, 1, released)
}

func TestBaseLaunchPropagatesWindowError(t *testing.T) {
	tl := tooltest.Failing(tooltest.Meta("broken", "Broken", tool.CategoryOther))

	w, err := tl.Launch()
	require.ErrorIs(t, err, tooltest.ErrWindow)
	require.Nil(t, w)
	require.False(t, tl.HasWindow())
}

func TestBaseWithoutFactory(t *testing.T) {
	var b tool.Base
	_, err := b.Launch()
	require.ErrorIs(t, err, tool.ErrNoWindowFactory)
	b.Cleanup()
}

func TestMetadataNormalize(t *testing.T) {
	m := tool.Metadata{
		ID:       "  yt  ",
		Name:     " YouTube ",
		Keywords: []string{"video", "Video", " ", "audio", "VIDEO"},
	}.Normalize()

	assert.Equal(t, "yt", m.ID)
	assert.Equal(t, "YouTube", m.Name)
	assert.Equal(t, tool.CategoryOther, m.Category)
	assert.Equal(t, []string{"video", "audio"}, m.Keywords)
}

func TestMetadataMatches(t *testing.T) {
	m := tool.Metadata{
		Name:        "YouTube Downloader",
		Description: "Download videos",
		Category:    tool.CategoryMedia,
		Keywords:    []string{"mp3", "Playlist"},
	}

	for _, q := range []string{"youtube", "DOWNLOAD", "media", "playlist", "mp3", ""} {
		assert.True(t, m.Matches(q), "query %q", q)
	}
	assert.False(t, m.Matches("pdf"))
}
