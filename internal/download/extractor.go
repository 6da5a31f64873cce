package download

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ytget/omnitool/internal/model"
)

// Extractor runs yt-dlp operations. The engine never talks to yt-dlp
// directly, so tests can substitute a fake.
type Extractor interface {
	// Extract dumps the metadata of url without downloading it
	Extract(ctx context.Context, url string) (*RawInfo, error)
	// Fetch downloads url into opts.Directory, reporting raw progress
	Fetch(ctx context.Context, url string, opts FetchOptions, onProgress func(RawProgress)) error
}

// PlaylistLister enumerates playlist entries
type PlaylistLister interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// FetchOptions carries everything yt-dlp needs for one transfer
type FetchOptions struct {
	Kind      model.MediaKind
	Format    string
	Directory string
}

// RawProgress is one progress sample as reported by yt-dlp
type RawProgress struct {
	Status     string
	Downloaded int64
	Total      int64
	Speed      float64 // bytes per second between this sample and the previous one, 0 if unknown
	ETA        time.Duration
	Filename   string
}

// RawFormat is a single entry of the yt-dlp formats list
type RawFormat struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	Height   int    `json:"height"`
}

// RawInfo is the subset of the yt-dlp JSON dump the engine uses
type RawInfo struct {
	Type          string            `json:"_type"`
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Duration      float64           `json:"duration"`
	Uploader      string            `json:"uploader"`
	ViewCount     int64             `json:"view_count"`
	Description   string            `json:"description"`
	Thumbnail     string            `json:"thumbnail"`
	PlaylistCount int               `json:"playlist_count"`
	Entries       []json.RawMessage `json:"entries"`
	Formats       []RawFormat       `json:"formats"`
}

// DecodeRawInfo parses a yt-dlp --dump-single-json document
func DecodeRawInfo(data []byte) (*RawInfo, error) {
	var info RawInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return &info, nil
}

// IsPlaylist reports whether the dump describes a playlist
func (ri *RawInfo) IsPlaylist() bool {
	return ri.Type == "playlist" || len(ri.Entries) > 0
}

// EntryCount returns the number of playlist entries
func (ri *RawInfo) EntryCount() int {
	if len(ri.Entries) > 0 {
		return len(ri.Entries)
	}
	return ri.PlaylistCount
}
