package model

import "strings"

// MediaKind selects between a muxed video download and an audio-only one
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// ParseMediaKind maps user-facing format names onto a MediaKind.
// "audio" and "mp3" select audio, anything else is video.
func ParseMediaKind(format string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "audio", "mp3":
		return MediaAudio
	default:
		return MediaVideo
	}
}

// QualityBest requests the best available format without a height cap
const QualityBest = "best"

// QualityOptions lists the selectable video qualities, best first
var QualityOptions = []string{QualityBest, "2160p", "1440p", "1080p", "720p", "480p", "360p", "240p"}

// DownloadRequest describes one download operation. It is not persisted.
type DownloadRequest struct {
	URL       string
	Quality   string
	Kind      MediaKind
	Directory string
}

// Progress is a snapshot pushed to the caller while a transfer runs
type Progress struct {
	Status     string  `json:"status"`
	Percent    float64 `json:"percent"`
	Downloaded int64   `json:"downloaded"`
	Total      int64   `json:"total"`
	Speed      string  `json:"speed"`
	ETA        int     `json:"eta"` // seconds, 0 if unknown
	Filename   string  `json:"filename,omitempty"`
}

// Progress statuses
const (
	ProgressDownloading = "downloading"
	ProgressFinished    = "finished"
)

// DownloadResult is the whole-or-nothing outcome of a download
type DownloadResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	IsPlaylist bool   `json:"is_playlist"`
	Count      int    `json:"count"`
}

// Failed reports whether the result carries an error
func (r DownloadResult) Failed() bool {
	return !r.Success
}

// InfoType distinguishes single videos from playlists
type InfoType string

const (
	InfoVideo    InfoType = "video"
	InfoPlaylist InfoType = "playlist"
)

// FormatOption is one selectable quality, e.g. {"720p", "mp4"}
type FormatOption struct {
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// VideoInfo is the metadata shown before a download starts
type VideoInfo struct {
	Type        InfoType       `json:"type"`
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Duration    int            `json:"duration"` // seconds
	Uploader    string         `json:"uploader"`
	ViewCount   int64          `json:"view_count"`
	Description string         `json:"description"`
	Thumbnail   string         `json:"thumbnail"`
	Count       int            `json:"count,omitempty"` // playlist entries
	Formats     []FormatOption `json:"formats"`
}

// IsPlaylist reports whether the info describes a playlist
func (vi *VideoInfo) IsPlaylist() bool {
	return vi != nil && vi.Type == InfoPlaylist
}
