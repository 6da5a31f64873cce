package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/omnitool/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
	ListQueryKey   = "list"
)

// Default values
const (
	DefaultDuration     = "Unknown"
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// ErrNotPlaylist is returned for URLs without a playlist id
var ErrNotPlaylist = errors.New("URL does not contain playlist parameter")

// ListFunc fetches the entries of a playlist by id
type ListFunc func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error)

// PlaylistParser lists YouTube playlists
type PlaylistParser struct {
	timeout time.Duration
	list    ListFunc
}

// NewPlaylistParser creates a parser backed by the ytdlp library
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultParseTimeout,
		list:    listWithLibrary,
	}
}

// NewPlaylistParserWith creates a parser with a custom list function
func NewPlaylistParserWith(list ListFunc) *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultParseTimeout,
		list:    list,
	}
}

// SetTimeout sets the timeout for parsing operations
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// ParsePlaylist lists the playlist behind rawURL
func (p *PlaylistParser) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	playlist := model.NewPlaylist(rawURL)

	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		playlist.Fail(err)
		return playlist, err
	}
	playlist.ID = playlistID

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	videos, err := p.list(ctx, playlistID)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		playlist.Fail(err)
		return playlist, err
	}

	for _, v := range videos {
		playlist.AddVideo(v)
	}
	playlist.Title = PlaylistTitle(videos)
	playlist.UpdateStatus(model.PlaylistStatusReady)

	return playlist, nil
}

// IsPlaylistURL checks if the URL carries a playlist id
func IsPlaylistURL(rawURL string) bool {
	id, err := ExtractPlaylistID(rawURL)
	return err == nil && id != ""
}

// ExtractPlaylistID extracts the playlist id from the supported URL forms:
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
func ExtractPlaylistID(rawURL string) (string, error) {
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get(ListQueryKey); id != "" {
			return id, nil
		}
	}

	// Fallback for strings url.Parse rejects
	if !strings.Contains(rawURL, PlaylistParam) {
		return "", ErrNotPlaylist
	}
	id := strings.SplitN(rawURL, PlaylistParam, 2)[1]
	id = strings.SplitN(id, ParamSeparator, 2)[0]
	if id == "" {
		return "", fmt.Errorf("empty playlist ID")
	}
	return id, nil
}

// PlaylistTitle derives a title from the entries: the common prefix of the
// first two titles if it is long enough, otherwise the first title
func PlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		commonPrefix := findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}

// listWithLibrary fetches all playlist items through the ytdlp library
func listWithLibrary(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		videos = append(videos, &model.PlaylistVideo{
			ID:       it.VideoID,
			Title:    it.Title,
			Duration: DefaultDuration,
			URL:      fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}
