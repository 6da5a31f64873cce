package download

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/observability"
)

type fakeExtractor struct {
	mu        sync.Mutex
	info      *RawInfo
	infoErr   error
	fetchErr  error
	progress  []RawProgress
	fetchURL  string
	fetchOpts FetchOptions
	fetches   int
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*RawInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, url string, opts FetchOptions, onProgress func(RawProgress)) error {
	f.mu.Lock()
	f.fetchURL = url
	f.fetchOpts = opts
	f.fetches++
	f.mu.Unlock()

	for _, p := range f.progress {
		onProgress(p)
	}
	return f.fetchErr
}

type fakeLister struct {
	playlist *model.Playlist
	err      error
}

func (f *fakeLister) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	return f.playlist, f.err
}

func newTestEngine(t *testing.T, x Extractor, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithExtractor(x), WithPlaylistLister(nil)}, opts...)
	return NewEngine(t.TempDir(), opts...)
}

func TestDownloadReportsPercent(t *testing.T) {
	x := &fakeExtractor{
		info: &RawInfo{Type: "video", Title: "clip"},
		progress: []RawProgress{
			{Status: "downloading", Downloaded: 50, Total: 100, Speed: 50},
		},
	}
	engine := newTestEngine(t, x)

	var got []model.Progress
	res := engine.Download(context.Background(), model.DownloadRequest{
		URL:     "https://youtu.be/abc",
		Quality: "720p",
		Kind:    model.MediaVideo,
	}, func(p model.Progress) { got = append(got, p) })

	require.True(t, res.Success, res.Error)
	require.Len(t, got, 1)
	assert.InDelta(t, 50.0, got[0].Percent, 0.001)
	assert.Equal(t, "Successfully downloaded 1 video(s)", res.Message)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.IsPlaylist)
	assert.Contains(t, x.fetchOpts.Format, "height<=720")
}

func TestDownloadZeroTotal(t *testing.T) {
	x := &fakeExtractor{
		info:     &RawInfo{Title: "clip"},
		progress: []RawProgress{{Status: "downloading", Downloaded: 42, Total: 0}},
	}
	engine := newTestEngine(t, x)

	var got model.Progress
	res := engine.Download(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"}, func(p model.Progress) { got = p })

	require.True(t, res.Success)
	assert.Zero(t, got.Percent)
	assert.Equal(t, SpeedUnavailable, got.Speed)
}

func TestDownloadExtractionFailure(t *testing.T) {
	x := &fakeExtractor{infoErr: errors.New("unsupported URL")}
	engine := newTestEngine(t, x)

	res := engine.Download(context.Background(), model.DownloadRequest{URL: "https://example.com/nothing"}, nil)

	assert.False(t, res.Success)
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Error)
	assert.Contains(t, res.Error, "unsupported URL")
	assert.Empty(t, res.Message)
	assert.Zero(t, x.fetches)
}

func TestDownloadFetchFailure(t *testing.T) {
	x := &fakeExtractor{
		info:     &RawInfo{Title: "clip"},
		fetchErr: errors.New("HTTP Error 403"),
	}
	engine := newTestEngine(t, x)

	res := engine.Download(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"}, nil)

	assert.False(t, res.Success)
	assert.Equal(t, "Download error: HTTP Error 403", res.Error)
	assert.Empty(t, res.Message)
}

func TestDownloadEmptyURL(t *testing.T) {
	engine := newTestEngine(t, &fakeExtractor{})

	res := engine.Download(context.Background(), model.DownloadRequest{URL: "  "}, nil)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, ErrEmptyURL.Error())
}

func TestDownloadAudioPlaylist(t *testing.T) {
	x := &fakeExtractor{}
	lister := &fakeLister{playlist: &model.Playlist{ID: "PL1", Title: "Mix", TotalVideos: 3}}
	dir := filepath.Join(t.TempDir(), "nested", "music")
	engine := NewEngine(dir, WithExtractor(x), WithPlaylistLister(lister))

	res := engine.Download(context.Background(), model.DownloadRequest{
		URL:  "https://www.youtube.com/playlist?list=PL1",
		Kind: model.MediaAudio,
	}, nil)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Successfully downloaded 3 audio file(s)", res.Message)
	assert.True(t, res.IsPlaylist)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, model.MediaAudio, x.fetchOpts.Kind)
	assert.Equal(t, dir, x.fetchOpts.Directory)
	assert.DirExists(t, dir)
}

func TestDownloadRecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	engine := newTestEngine(t, &fakeExtractor{info: &RawInfo{}}, WithMetrics(metrics))

	engine.Download(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"}, nil)
	engine.Download(context.Background(), model.DownloadRequest{}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Downloads.WithLabelValues("video", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Downloads.WithLabelValues("video", "failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveOps.WithLabelValues(ActiveOperation)))
}

func TestGetInfoVideo(t *testing.T) {
	x := &fakeExtractor{info: &RawInfo{
		ID:        "abc",
		Title:     "Talk",
		Duration:  212.4,
		ViewCount: 1000,
		Formats: []RawFormat{
			{FormatID: "140", Ext: "m4a"},
			{FormatID: "134", Ext: "mp4", Height: 360},
			{FormatID: "243", Ext: "webm", Height: 360},
			{FormatID: "136", Ext: "mp4", Height: 720},
		},
	}}
	engine := newTestEngine(t, x)

	info, err := engine.GetInfo(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, model.InfoVideo, info.Type)
	assert.Equal(t, "Talk", info.Title)
	assert.Equal(t, 212, info.Duration)
	assert.Equal(t, UnknownValue, info.Uploader)
	assert.Equal(t, []model.FormatOption{
		{Quality: "360p", Format: "mp4"},
		{Quality: "720p", Format: "mp4"},
	}, info.Formats)
}

func TestGetInfoPlaylistFallsBackToExtractor(t *testing.T) {
	x := &fakeExtractor{info: &RawInfo{Type: "playlist", Title: "Course", PlaylistCount: 12}}
	lister := &fakeLister{err: errors.New("listing failed")}
	engine := NewEngine(t.TempDir(), WithExtractor(x), WithPlaylistLister(lister))

	info, err := engine.GetInfo(context.Background(), "https://www.youtube.com/playlist?list=PL9")
	require.NoError(t, err)
	assert.True(t, info.IsPlaylist())
	assert.Equal(t, 12, info.Count)
	assert.Equal(t, "Course", info.Title)
}

func TestGetInfoEmptyURL(t *testing.T) {
	engine := newTestEngine(t, &fakeExtractor{})

	_, err := engine.GetInfo(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyURL)
}

func TestVideoFormatSelector(t *testing.T) {
	assert.Equal(t,
		"bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best",
		VideoFormatSelector("1080p"))
	assert.Equal(t,
		"bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		VideoFormatSelector("best"))
	assert.Equal(t, VideoFormatSelector("best"), VideoFormatSelector("high"))
}

func TestProgressFromRaw(t *testing.T) {
	p := ProgressFromRaw(RawProgress{
		Downloaded: 3 * 1024 * 1024,
		Total:      6 * 1024 * 1024,
		Speed:      1.5 * 1024 * 1024,
		ETA:        4 * time.Second,
	})
	assert.Equal(t, model.ProgressDownloading, p.Status)
	assert.InDelta(t, 50.0, p.Percent, 0.001)
	assert.Equal(t, "1.50 MB/s", p.Speed)
	assert.Equal(t, 4, p.ETA)

	done := ProgressFromRaw(RawProgress{Status: model.ProgressFinished, Downloaded: 10, Total: 10, Filename: "a.mp4"})
	assert.Equal(t, model.ProgressFinished, done.Status)
	assert.Equal(t, "a.mp4", done.Filename)
	assert.InDelta(t, 100.0, done.Percent, 0.001)
}

func TestDecodeRawInfo(t *testing.T) {
	info, err := DecodeRawInfo([]byte(`{"_type":"playlist","title":"Mix","entries":[{"id":"a"},{"id":"b"}]}`))
	require.NoError(t, err)
	assert.True(t, info.IsPlaylist())
	assert.Equal(t, 2, info.EntryCount())

	_, err = DecodeRawInfo([]byte("not json"))
	require.Error(t, err)
}
