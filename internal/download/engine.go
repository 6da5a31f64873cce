package download

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/observability"
	"github.com/ytget/omnitool/internal/platform"
)

// ErrEmptyURL is returned when no URL was given
var ErrEmptyURL = errors.New("URL required")

// Engine constants
const (
	OperationIDPrefix = "download-"
	ActiveOperation   = "download"
	UnknownValue      = "Unknown"
	UnknownPlaylist   = "Unknown Playlist"
	SpeedUnavailable  = "N/A"
	DefaultVideoExt   = "mp4"
)

// Engine downloads videos and audio and fetches their metadata
type Engine struct {
	extractor Extractor
	playlists PlaylistLister
	logger    *zap.Logger
	metrics   *observability.Metrics
	dir       string
}

// Option configures an Engine
type Option func(*Engine)

// WithExtractor replaces the yt-dlp extractor
func WithExtractor(x Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithPlaylistLister replaces the playlist lister. nil disables it and
// playlists are resolved through the extractor.
func WithPlaylistLister(l PlaylistLister) Option {
	return func(e *Engine) { e.playlists = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine that saves into dir when a request names no
// directory. Empty dir means ~/Downloads/YouTube.
func NewEngine(dir string, opts ...Option) *Engine {
	e := &Engine{
		logger:    zap.NewNop(),
		playlists: platform.NewPlaylistParser(),
		dir:       dir,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = NewYTDLPExtractor(e.logger)
	}
	return e
}

// Directory returns the default destination directory
func (e *Engine) Directory() string {
	if e.dir != "" {
		if dir, err := platform.ExpandHome(e.dir); err == nil {
			return dir
		}
		return e.dir
	}
	dir, err := platform.DefaultYouTubeDir()
	if err != nil {
		return platform.YouTubeDirName
	}
	return dir
}

// EnsureInstalled makes sure the yt-dlp executable is available when the
// extractor supports installing it
func (e *Engine) EnsureInstalled(ctx context.Context) error {
	installer, ok := e.extractor.(interface {
		EnsureInstalled(context.Context) error
	})
	if !ok {
		return nil
	}
	return installer.EnsureInstalled(ctx)
}

// GetInfo fetches metadata for a video or playlist without downloading it
func (e *Engine) GetInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	if e.playlists != nil && platform.IsPlaylistURL(url) {
		pl, err := e.playlists.ParsePlaylist(ctx, url)
		if err == nil {
			return playlistInfo(pl), nil
		}
		e.logger.Warn("playlist listing failed, falling back to yt-dlp",
			zap.String("url", url), zap.Error(err))
	}

	raw, err := e.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}
	return videoInfo(raw), nil
}

// Download runs one download. onProgress may be nil; it is called from the
// extractor's goroutine.
func (e *Engine) Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.Progress)) model.DownloadResult {
	start := time.Now()
	logger := e.logger.With(
		zap.String("operation", newOperationID()),
		zap.String("url", req.URL),
		zap.String("kind", string(req.Kind)),
		zap.String("quality", req.Quality),
	)

	e.metrics.IncActive(ActiveOperation)
	defer e.metrics.DecActive(ActiveOperation)

	result := e.download(ctx, req, onProgress)
	e.metrics.RecordDownload(string(normalizeKind(req.Kind)), result.Success, time.Since(start))

	if result.Success {
		logger.Info("download finished", zap.Int("count", result.Count), zap.Duration("elapsed", time.Since(start)))
	} else {
		logger.Warn("download failed", zap.String("error", result.Error))
	}
	return result
}

func (e *Engine) download(ctx context.Context, req model.DownloadRequest, onProgress func(model.Progress)) model.DownloadResult {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return failure(ErrEmptyURL)
	}
	kind := normalizeKind(req.Kind)

	dir := req.Directory
	if dir == "" {
		dir = e.Directory()
	}
	dir, err := platform.ExpandHome(dir)
	if err != nil {
		return failure(err)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return failure(fmt.Errorf("create directory: %w", err))
	}

	info, err := e.GetInfo(ctx, url)
	if err != nil {
		return failure(err)
	}
	count := 1
	if info.IsPlaylist() {
		count = info.Count
	}

	opts := FetchOptions{
		Kind:      kind,
		Format:    VideoFormatSelector(req.Quality),
		Directory: dir,
	}
	err = e.extractor.Fetch(ctx, url, opts, func(raw RawProgress) {
		if onProgress != nil {
			onProgress(ProgressFromRaw(raw))
		}
	})
	if err != nil {
		return failure(err)
	}

	return model.DownloadResult{
		Success:    true,
		Message:    SuccessMessage(kind, count),
		IsPlaylist: info.IsPlaylist(),
		Count:      count,
	}
}

// VideoFormatSelector builds the yt-dlp format expression for a quality
// such as "720p". "best" or an unparsable quality omits the height cap.
func VideoFormatSelector(quality string) string {
	height, ok := parseHeight(quality)
	if !ok {
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%d][ext=mp4]/best", height, height)
}

// SuccessMessage renders the user-facing success message
func SuccessMessage(kind model.MediaKind, count int) string {
	if kind == model.MediaAudio {
		return fmt.Sprintf("Successfully downloaded %d audio file(s)", count)
	}
	return fmt.Sprintf("Successfully downloaded %d video(s)", count)
}

// ProgressFromRaw converts a raw sample into the caller-facing snapshot
func ProgressFromRaw(raw RawProgress) model.Progress {
	p := model.Progress{
		Status:     raw.Status,
		Downloaded: raw.Downloaded,
		Total:      raw.Total,
		Speed:      SpeedUnavailable,
		Filename:   raw.Filename,
	}
	if p.Status == "" {
		p.Status = model.ProgressDownloading
	}

	if raw.Total > 0 {
		p.Percent = float64(raw.Downloaded) / float64(raw.Total) * 100
	}
	if raw.Speed > 0 {
		p.Speed = model.FormatBytes(raw.Speed) + "/s"
	}
	if raw.ETA > 0 {
		p.ETA = int(raw.ETA.Seconds())
	}
	if p.Status == model.ProgressFinished && raw.Total > 0 {
		p.Percent = 100
	}
	return p
}

// AvailableFormats lists one option per distinct height, first occurrence
// wins. Formats without a height (audio only) are skipped.
func AvailableFormats(formats []RawFormat) []model.FormatOption {
	seen := make(map[int]bool)
	options := make([]model.FormatOption, 0)
	for _, f := range formats {
		if f.Height <= 0 || seen[f.Height] {
			continue
		}
		seen[f.Height] = true
		ext := f.Ext
		if ext == "" {
			ext = DefaultVideoExt
		}
		options = append(options, model.FormatOption{
			Quality: fmt.Sprintf("%dp", f.Height),
			Format:  ext,
		})
	}
	return options
}

func videoInfo(raw *RawInfo) *model.VideoInfo {
	if raw.IsPlaylist() {
		return &model.VideoInfo{
			Type:        model.InfoPlaylist,
			ID:          raw.ID,
			Title:       orDefault(raw.Title, UnknownPlaylist),
			Uploader:    orDefault(raw.Uploader, UnknownValue),
			Description: raw.Description,
			Thumbnail:   raw.Thumbnail,
			Count:       raw.EntryCount(),
			Formats:     []model.FormatOption{},
		}
	}

	return &model.VideoInfo{
		Type:        model.InfoVideo,
		ID:          raw.ID,
		Title:       orDefault(raw.Title, UnknownValue),
		Duration:    int(raw.Duration),
		Uploader:    orDefault(raw.Uploader, UnknownValue),
		ViewCount:   raw.ViewCount,
		Description: raw.Description,
		Thumbnail:   raw.Thumbnail,
		Formats:     AvailableFormats(raw.Formats),
	}
}

func playlistInfo(pl *model.Playlist) *model.VideoInfo {
	return &model.VideoInfo{
		Type:     model.InfoPlaylist,
		ID:       pl.ID,
		Title:    orDefault(pl.Title, UnknownPlaylist),
		Uploader: UnknownValue,
		Count:    pl.TotalVideos,
		Formats:  []model.FormatOption{},
	}
}

func failure(err error) model.DownloadResult {
	return model.DownloadResult{
		Success: false,
		Error:   fmt.Sprintf("Download error: %v", err),
	}
}

func normalizeKind(kind model.MediaKind) model.MediaKind {
	if kind == model.MediaAudio {
		return model.MediaAudio
	}
	return model.MediaVideo
}

func parseHeight(quality string) (int, bool) {
	q := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(quality)), "p")
	if q == "" || q == model.QualityBest {
		return 0, false
	}
	h, err := strconv.Atoi(q)
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// newOperationID generates a time ordered operation id
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(OperationIDPrefix+"%d", time.Now().UnixNano())
	}
	return OperationIDPrefix + id.String()
}
