package compressor

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/compress"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/platform"
)

// Window layout and labels
const (
	WindowTitle  = "🗜️ Video Compressor"
	WindowWidth  = 560
	WindowHeight = 320

	LabelChoose  = "Choose video…"
	LabelStart   = "Compress"
	LabelStop    = "Stop"
	LabelReveal  = "Show in folder"
	NoFileText   = "No file selected"
	StatusIdle   = "Select a video to compress"
	StatusDone   = "✓ Compression completed"
	StatusFailed = "❌ Compression failed"
)

// VideoExtensions lists the file types offered in the open dialog
var VideoExtensions = []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".m4v", ".flv", ".wmv"}

// view owns the widgets of one compressor window
type view struct {
	window   fyne.Window
	service  compress.Compressor
	settings *config.Settings
	logger   *zap.Logger

	fileLabel   *widget.Label
	outputLabel *widget.Label
	statusLabel *widget.Label
	progress    *widget.ProgressBar
	startBtn    *widget.Button
	stopBtn     *widget.Button
	revealBtn   *widget.Button

	input  string
	taskID string
	output string
}

func newView(w fyne.Window, service compress.Compressor, settings *config.Settings, logger *zap.Logger) *view {
	v := &view{
		window:   w,
		service:  service,
		settings: settings,
		logger:   logger,
	}
	v.build()
	service.SetUpdateCallback(func(task model.CompressionTask) {
		fyne.Do(func() { v.onTaskUpdate(task) })
	})
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return v
}

func (v *view) build() {
	v.fileLabel = widget.NewLabel(NoFileText)
	v.fileLabel.Truncation = fyne.TextTruncateEllipsis
	chooseBtn := widget.NewButton(LabelChoose, v.onChooseFile)

	v.outputLabel = widget.NewLabel("")
	v.outputLabel.Truncation = fyne.TextTruncateEllipsis
	v.statusLabel = widget.NewLabel(StatusIdle)
	v.progress = widget.NewProgressBar()

	v.startBtn = widget.NewButton(LabelStart, v.onStart)
	v.startBtn.Importance = widget.HighImportance
	v.startBtn.Disable()
	v.stopBtn = widget.NewButton(LabelStop, v.onStop)
	v.stopBtn.Disable()
	v.revealBtn = widget.NewButton(LabelReveal, v.onReveal)
	v.revealBtn.Disable()

	settingsInfo := widget.NewLabel(fmt.Sprintf("%s · CRF %s · %s preset · %s %s",
		compress.VideoCodec, compress.VideoCRF, compress.VideoPreset, compress.AudioCodec, compress.AudioBitrate))
	settingsInfo.Importance = widget.LowImportance

	v.window.SetContent(container.NewVBox(
		widget.NewLabelWithStyle(WindowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, chooseBtn, v.fileLabel),
		settingsInfo,
		v.progress,
		v.statusLabel,
		v.outputLabel,
		container.NewHBox(v.startBtn, v.stopBtn, v.revealBtn),
	))
}

// onChooseFile opens a file dialog limited to video files
func (v *view) onChooseFile() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		v.selectFile(path)
	}, v.window)
	d.SetFilter(storage.NewExtensionFileFilter(VideoExtensions))
	if v.settings != nil {
		if dir := v.settings.GetCompressDirectory(); dir != "" {
			if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
				d.SetLocation(lister)
			}
		}
	}
	d.Show()
}

func (v *view) selectFile(path string) {
	v.input = path
	v.fileLabel.SetText(path)
	v.startBtn.Enable()
	if v.settings != nil {
		v.settings.SetCompressDirectory(filepath.Dir(path))
	}
}

func (v *view) onStart() {
	if v.input == "" {
		dialog.ShowInformation("Warning", StatusIdle, v.window)
		return
	}

	task, err := v.service.StartCompression(v.input)
	if err != nil {
		v.logger.Warn("start compression failed", zap.String("input", v.input), zap.Error(err))
		dialog.ShowError(err, v.window)
		return
	}

	v.taskID = task.ID
	v.output = task.OutputPath
	v.progress.SetValue(0)
	v.outputLabel.SetText("→ " + task.OutputPath)
	v.statusLabel.SetText(string(task.Status))
	v.startBtn.Disable()
	v.stopBtn.Enable()
	v.revealBtn.Disable()
}

func (v *view) onStop() {
	if v.taskID == "" {
		return
	}
	if err := v.service.StopCompression(v.taskID); err != nil {
		dialog.ShowError(err, v.window)
	}
}

func (v *view) onReveal() {
	if v.output == "" {
		return
	}
	if err := platform.RevealFile(v.output); err != nil {
		dialog.ShowError(err, v.window)
	}
}

// onTaskUpdate renders a task snapshot from the service
func (v *view) onTaskUpdate(task model.CompressionTask) {
	if task.ID != v.taskID {
		return
	}

	v.progress.SetValue(task.Progress)

	switch task.Status {
	case model.TaskStatusCompleted:
		v.statusLabel.SetText(StatusDone)
		v.revealBtn.Enable()
	case model.TaskStatusError:
		v.statusLabel.SetText(StatusFailed + ": " + task.LastError)
	case model.TaskStatusRunning:
		v.statusLabel.SetText(fmt.Sprintf("%s %d%%", task.Status, task.Percent))
	default:
		v.statusLabel.SetText(string(task.Status))
	}

	if task.Status.IsFinished() {
		v.stopBtn.Disable()
		v.startBtn.Enable()
	}
}
