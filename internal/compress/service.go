package compress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/observability"
)

// FFmpeg constants for compression settings
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = "23"

	// Audio codec settings
	AudioCodec   = "aac"
	AudioBitrate = "128k"

	// Container flags
	FastStartFlag = "+faststart"

	// Output suffix
	CompressedSuffix = "-compressed"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "compress-"
	OutputExtensionMP4  = ".mp4"
	ActiveOperation     = "compress"
)

// ProbeFunc returns the duration of a media file in seconds
type ProbeFunc func(ctx context.Context, path string) (float64, error)

// Service handles video compression operations
type Service struct {
	tasks      map[string]*model.CompressionTask
	cancels    map[string]context.CancelFunc
	tasksMutex sync.RWMutex
	onUpdate   func(model.CompressionTask) // callback for UI updates

	logger  *zap.Logger
	metrics *observability.Metrics
	probe   ProbeFunc
	ffmpeg  string
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithProbe replaces the ffprobe duration lookup
func WithProbe(p ProbeFunc) Option {
	return func(s *Service) { s.probe = p }
}

// WithFFmpeg sets the ffmpeg executable
func WithFFmpeg(path string) Option {
	return func(s *Service) { s.ffmpeg = path }
}

// NewService creates a new compression service
func NewService(opts ...Option) *Service {
	s := &Service{
		tasks:   make(map[string]*model.CompressionTask),
		cancels: make(map[string]context.CancelFunc),
		logger:  zap.NewNop(),
		probe:   probeDuration,
		ffmpeg:  FFmpegCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives a copy and runs on a worker goroutine.
func (s *Service) SetUpdateCallback(callback func(model.CompressionTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// StartCompression starts compressing a video file
func (s *Service) StartCompression(inputPath string) (*model.CompressionTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Only one active compression per input file
	for _, task := range s.tasks {
		if task.InputPath == inputPath && task.Status.IsActive() {
			return nil, fmt.Errorf("compression already in progress for file: %s", inputPath)
		}
	}

	info, err := os.Stat(inputPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat input file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input path is a directory: %s", inputPath)
	}

	task := &model.CompressionTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: generateOutputPath(inputPath),
		Status:     model.TaskStatusStarting,
		StartedAt:  time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.tasks[task.ID] = task
	s.cancels[task.ID] = cancel

	go s.startCompression(ctx, task)

	snapshot := *task
	return &snapshot, nil
}

// StopCompression stops a running compression task
func (s *Service) StopCompression(taskID string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[taskID]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("compression task not found: %s", taskID)
	}
	if !task.Status.IsActive() {
		status := task.Status
		s.tasksMutex.Unlock()
		return fmt.Errorf("compression task is not active: %s", status)
	}

	task.Status = model.TaskStatusStopping
	if cancel, ok := s.cancels[taskID]; ok {
		cancel()
	}
	snapshot, callback := *task, s.onUpdate
	s.tasksMutex.Unlock()

	notify(callback, snapshot)
	return nil
}

// GetTask returns a copy of a compression task by ID
func (s *Service) GetTask(taskID string) (model.CompressionTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	if !exists {
		return model.CompressionTask{}, false
	}
	return *task, true
}

// startCompression performs the actual compression
func (s *Service) startCompression(ctx context.Context, task *model.CompressionTask) {
	logger := s.logger.With(zap.String("task", task.ID), zap.String("input", task.InputPath))
	s.metrics.IncActive(ActiveOperation)
	defer s.metrics.DecActive(ActiveOperation)

	// Get duration of input file for progress calculation
	duration, err := s.probe(ctx, task.InputPath)
	if err != nil {
		logger.Warn("failed to get video duration", zap.Error(err))
		s.finish(ctx, task, err)
		return
	}

	s.update(task, func(t *model.CompressionTask) {
		if t.Status == model.TaskStatusStarting {
			t.Status = model.TaskStatusRunning
		}
	})

	cmd := exec.CommandContext(ctx, s.ffmpeg, BuildFFmpegArgs(task.InputPath, task.OutputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.finish(ctx, task, fmt.Errorf("failed to create stderr pipe: %w", err))
		return
	}

	if err := cmd.Start(); err != nil {
		s.finish(ctx, task, fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}
	logger.Info("compression started", zap.String("output", task.OutputPath), zap.Float64("duration", duration))

	// All reads from the pipe must complete before Wait
	s.monitorProgress(stderr, task, duration)
	err = cmd.Wait()

	s.finish(ctx, task, err)
	logger.Info("compression finished", zap.String("status", string(s.status(task))))
}

// finish records the terminal state and removes partial output
func (s *Service) finish(ctx context.Context, task *model.CompressionTask, err error) {
	s.update(task, func(t *model.CompressionTask) {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			t.Status = model.TaskStatusStopped
		case err != nil:
			t.Status = model.TaskStatusError
			t.LastError = err.Error()
		default:
			t.Status = model.TaskStatusCompleted
			t.Progress = 1.0
			t.Percent = 100
		}
		t.FinishedAt = time.Now()
	})

	status := s.status(task)
	if status != model.TaskStatusCompleted {
		_ = os.Remove(task.OutputPath)
	}

	s.tasksMutex.Lock()
	if cancel, ok := s.cancels[task.ID]; ok {
		cancel()
		delete(s.cancels, task.ID)
	}
	s.tasksMutex.Unlock()

	s.metrics.RecordCompression(string(status))
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-c:v", VideoCodec, // Video codec
		"-preset", VideoPreset, // Encoding preset
		"-crf", VideoCRF, // Constant rate factor
		"-c:a", AudioCodec, // Audio codec
		"-b:a", AudioBitrate, // Audio bitrate
		"-movflags", FastStartFlag, // MP4 optimization
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// probeDuration gets the duration of a video file using ffprobe
func probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// monitorProgress reads ffmpeg progress output until the pipe closes
func (s *Service) monitorProgress(stderr io.Reader, task *model.CompressionTask, totalDuration float64) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		progress, ok := ParseProgressLine(scanner.Text(), totalDuration)
		if !ok {
			continue
		}
		s.update(task, func(t *model.CompressionTask) {
			t.Progress = progress
			t.Percent = int(progress * 100)
		})
	}
}

// ParseProgressLine parses an "out_time_us=123456" line into a 0..1 fraction
// of totalDuration seconds
func ParseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalDuration <= 0 {
		return 0, false
	}

	timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || timeMicroseconds < 0 {
		return 0, false
	}

	progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return progress, true
}

// update mutates task under the lock and notifies with a copy
func (s *Service) update(task *model.CompressionTask, mutate func(*model.CompressionTask)) {
	s.tasksMutex.Lock()
	mutate(task)
	snapshot, callback := *task, s.onUpdate
	s.tasksMutex.Unlock()

	notify(callback, snapshot)
}

func (s *Service) status(task *model.CompressionTask) model.TaskStatus {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return task.Status
}

func notify(callback func(model.CompressionTask), task model.CompressionTask) {
	if callback != nil {
		callback(task)
	}
}

// generateOutputPath generates the output path for compressed file
func generateOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	return baseName + CompressedSuffix + OutputExtensionMP4
}

// generateTaskID generates a time ordered task id
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
