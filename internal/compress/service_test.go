package compress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/observability"
)

// blockingProbe blocks until ctx is cancelled
func blockingProbe(ctx context.Context, _ string) (float64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func tempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mkv")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o600))
	return path
}

// recorder collects callback snapshots
type recorder struct {
	mu    sync.Mutex
	tasks []model.CompressionTask
}

func (r *recorder) record(task model.CompressionTask) {
	r.mu.Lock()
	r.tasks = append(r.tasks, task)
	r.mu.Unlock()
}

func (r *recorder) last() (model.CompressionTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tasks) == 0 {
		return model.CompressionTask{}, false
	}
	return r.tasks[len(r.tasks)-1], true
}

func TestNewService(t *testing.T) {
	service := NewService()

	assert.Empty(t, service.tasks)
	assert.Equal(t, FFmpegCommand, service.ffmpeg)
}

func TestGenerateOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/video.mp4", "/path/to/video-compressed.mp4"},
		{"/path/to/video.mkv", "/path/to/video-compressed.mp4"},
		{"video.avi", "video-compressed.mp4"},
		{"/no/ext/file", "/no/ext/file-compressed.mp4"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, generateOutputPath(test.input), test.input)
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/input.mp4", "/output.mp4")

	assert.Equal(t, []string{
		"-y",
		"-i", "/input.mp4",
		"-c:v", VideoCodec,
		"-preset", VideoPreset,
		"-crf", VideoCRF,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-movflags", FastStartFlag,
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp4",
	}, args)
}

func TestParseProgressLine(t *testing.T) {
	progress, ok := ParseProgressLine("out_time_us=5000000", 10)
	require.True(t, ok)
	assert.InDelta(t, 0.5, progress, 0.0001)

	progress, ok = ParseProgressLine("  out_time_us=20000000 ", 10)
	require.True(t, ok)
	assert.Equal(t, 1.0, progress)

	_, ok = ParseProgressLine("frame=42", 10)
	assert.False(t, ok)
	_, ok = ParseProgressLine("out_time_us=N/A", 10)
	assert.False(t, ok)
	_, ok = ParseProgressLine("out_time_us=100", 0)
	assert.False(t, ok)
}

func TestStartCompression_NonExistentFile(t *testing.T) {
	service := NewService()

	_, err := service.StartCompression("/path/to/nonexistent/file.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestStartCompression_Directory(t *testing.T) {
	service := NewService()

	_, err := service.StartCompression(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestStartCompression_DuplicateTask(t *testing.T) {
	service := NewService(WithProbe(blockingProbe))
	input := tempVideo(t)

	task, err := service.StartCompression(input)
	require.NoError(t, err)
	assert.Equal(t, generateOutputPath(input), task.OutputPath)

	_, err = service.StartCompression(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")

	require.NoError(t, service.StopCompression(task.ID))
}

func TestStopCompression(t *testing.T) {
	metrics := observability.NewMetrics()
	rec := &recorder{}
	service := NewService(WithProbe(blockingProbe), WithMetrics(metrics))
	service.SetUpdateCallback(rec.record)
	input := tempVideo(t)

	task, err := service.StartCompression(input)
	require.NoError(t, err)

	require.NoError(t, service.StopCompression(task.ID))

	require.Eventually(t, func() bool {
		got, ok := service.GetTask(task.ID)
		return ok && got.Status == model.TaskStatusStopped
	}, time.Second, 10*time.Millisecond)

	last, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusStopped, last.Status)
	assert.NoFileExists(t, task.OutputPath)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Compressions.WithLabelValues(string(model.TaskStatusStopped))))

	// Stopping again is rejected
	err = service.StopCompression(task.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestStopCompression_UnknownTask(t *testing.T) {
	service := NewService()

	err := service.StopCompression("compress-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompressionProbeFailure(t *testing.T) {
	rec := &recorder{}
	service := NewService(WithProbe(func(context.Context, string) (float64, error) {
		return 0, errors.New("ffprobe missing")
	}))
	service.SetUpdateCallback(rec.record)

	task, err := service.StartCompression(tempVideo(t))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, _ := service.GetTask(task.ID)
		return got.Status == model.TaskStatusError
	}, time.Second, 10*time.Millisecond)

	got, _ := service.GetTask(task.ID)
	assert.Equal(t, "ffprobe missing", got.LastError)
	assert.False(t, got.FinishedAt.IsZero())
}

func TestCompressionMissingEncoder(t *testing.T) {
	service := NewService(
		WithProbe(func(context.Context, string) (float64, error) { return 10, nil }),
		WithFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg")),
	)

	task, err := service.StartCompression(tempVideo(t))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, _ := service.GetTask(task.ID)
		return got.Status == model.TaskStatusError
	}, time.Second, 10*time.Millisecond)

	got, _ := service.GetTask(task.ID)
	assert.Contains(t, got.LastError, "failed to start ffmpeg")
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	assert.NotEqual(t, id1, id2)
	assert.True(t, strings.HasPrefix(id1, TaskIDPrefix))
	assert.True(t, strings.HasPrefix(id2, TaskIDPrefix))
}
