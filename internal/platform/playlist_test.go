package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/omnitool/internal/model"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", "PL123", false},
		{"https://www.youtube.com/watch?v=abc&list=PL456&start_radio=1", "PL456", false},
		{"https://www.youtube.com/watch?v=abc", "", true},
		{"not a url list=PL789&x=1", "PL789", false},
		{"https://www.youtube.com/playlist?list=", "", true},
	}

	for _, tc := range tests {
		id, err := ExtractPlaylistID(tc.url)
		if tc.wantErr {
			assert.Error(t, err, tc.url)
			continue
		}
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.expected, id, tc.url)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	assert.True(t, IsPlaylistURL("https://www.youtube.com/playlist?list=PL123"))
	assert.False(t, IsPlaylistURL("https://youtu.be/abc"))
}

func TestPlaylistTitle(t *testing.T) {
	assert.Equal(t, DefaultPlaylistName, PlaylistTitle(nil))

	single := []*model.PlaylistVideo{{Title: "Only Song"}}
	assert.Equal(t, "Only Song Playlist", PlaylistTitle(single))

	shared := []*model.PlaylistVideo{
		{Title: "Go Concurrency Patterns - Part 1"},
		{Title: "Go Concurrency Patterns - Part 2"},
	}
	assert.Equal(t, "Go Concurrency Patterns - Part Playlist", PlaylistTitle(shared))

	short := []*model.PlaylistVideo{{Title: "Intro"}, {Title: "Into the wild"}}
	assert.Equal(t, "Intro Playlist", PlaylistTitle(short))
}

func TestParsePlaylist(t *testing.T) {
	var gotID string
	parser := NewPlaylistParserWith(func(ctx context.Context, id string) ([]*model.PlaylistVideo, error) {
		gotID = id
		return []*model.PlaylistVideo{
			{ID: "a", Title: "Track A"},
			{ID: "b", Title: "Track B"},
		}, nil
	})

	pl, err := parser.ParsePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLxyz")
	require.NoError(t, err)
	assert.Equal(t, "PLxyz", gotID)
	assert.Equal(t, "PLxyz", pl.ID)
	assert.Equal(t, 2, pl.TotalVideos)
	assert.Equal(t, model.PlaylistStatusReady, pl.Status)
}

func TestParsePlaylistErrors(t *testing.T) {
	parser := NewPlaylistParserWith(func(ctx context.Context, id string) ([]*model.PlaylistVideo, error) {
		return nil, errors.New("network down")
	})

	pl, err := parser.ParsePlaylist(context.Background(), "https://youtu.be/abc")
	require.ErrorIs(t, err, ErrNotPlaylist)
	assert.Equal(t, model.PlaylistStatusError, pl.Status)

	pl, err = parser.ParsePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, model.PlaylistStatusError, pl.Status)
}
