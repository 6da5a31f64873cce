package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/model"
)

// yt-dlp settings
const (
	OutputTemplate      = "%(title)s.%(ext)s"
	MergeFormat         = "mp4"
	AudioFormat         = "mp3"
	AudioQuality        = "192K"
	AudioSelector       = "bestaudio/best"
	DefaultProgressTick = 500 * time.Millisecond
)

// YTDLPExtractor implements Extractor on top of go-ytdlp
type YTDLPExtractor struct {
	logger   *zap.Logger
	interval time.Duration
}

// NewYTDLPExtractor creates an extractor backed by the yt-dlp executable
func NewYTDLPExtractor(logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		logger:   logging.OrNop(logger),
		interval: DefaultProgressTick,
	}
}

// Extract dumps url metadata as a single JSON document
func (x *YTDLPExtractor) Extract(ctx context.Context, url string) (*RawInfo, error) {
	res, err := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		FlatPlaylist().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return nil, err
	}
	return DecodeRawInfo([]byte(res.Stdout))
}

// Fetch downloads url according to opts
func (x *YTDLPExtractor) Fetch(ctx context.Context, url string, opts FetchOptions, onProgress func(RawProgress)) error {
	dl := ytdlp.New().
		NoOverwrites().
		NoWarnings().
		Output(filepath.Join(opts.Directory, OutputTemplate))

	switch opts.Kind {
	case model.MediaAudio:
		dl = dl.Format(AudioSelector).
			ExtractAudio().
			AudioFormat(AudioFormat).
			AudioQuality(AudioQuality)
	default:
		dl = dl.Format(opts.Format).
			MergeOutputFormat(MergeFormat)
	}

	if onProgress != nil {
		var meter rateMeter
		dl.ProgressFunc(x.interval, func(update ytdlp.ProgressUpdate) {
			p := rawProgressFrom(&update)
			p.Speed = meter.sample(update.Filename, p.Downloaded, time.Now())
			onProgress(p)
		})
	}

	res, err := dl.Run(ctx, url)
	if err != nil {
		if res != nil && res.Stderr != "" {
			x.logger.Debug("yt-dlp stderr", zap.String("stderr", res.Stderr))
		}
		return err
	}
	return nil
}

// EnsureInstalled resolves the yt-dlp executable, downloading it when missing
func (x *YTDLPExtractor) EnsureInstalled(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

// rawProgressFrom converts a go-ytdlp update into a RawProgress sample
func rawProgressFrom(update *ytdlp.ProgressUpdate) RawProgress {
	p := RawProgress{
		Status:     string(update.Status),
		Downloaded: int64(update.DownloadedBytes),
		Total:      int64(update.TotalBytes),
		ETA:        update.ETA(),
		Filename:   update.Filename,
	}
	return p
}

// rateMeter derives the transfer rate from consecutive samples of one file.
// A new file or a byte count going backwards restarts the measurement.
type rateMeter struct {
	mu       sync.Mutex
	filename string
	bytes    int64
	at       time.Time
}

// sample records downloaded bytes at now and returns bytes per second since
// the previous sample, or 0 when there is no usable previous sample.
func (m *rateMeter) sample(filename string, downloaded int64, now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rate float64
	if !m.at.IsZero() && filename == m.filename && downloaded >= m.bytes {
		if dt := now.Sub(m.at).Seconds(); dt > 0 {
			rate = float64(downloaded-m.bytes) / dt
		}
	}
	m.filename, m.bytes, m.at = filename, downloaded, now
	return rate
}
