package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/model"
	"github.com/ytget/omnitool/internal/platform"
	"github.com/ytget/omnitool/internal/worker"
)

// Window layout
const (
	WindowTitle  = "🎬 YouTube Downloader Pro"
	WindowWidth  = 900
	WindowHeight = 720

	ThumbnailWidth  float32 = 320
	ThumbnailHeight float32 = 180
	LogMinHeight    float32 = 120
)

// Labels and messages
const (
	Placeholder       = "—"
	LabelFetch        = "🔍 Get Info"
	LabelFetching     = "Loading..."
	LabelDownload     = "⬇️ Start Download"
	LabelDownloading  = "⏳ Downloading..."
	LabelChangeDir    = "Change…"
	LabelOpenDir      = "Open folder"
	LabelVideo        = "Video (MP4)"
	LabelAudio        = "Audio (MP3)"
	StatusReady       = "Ready to download"
	StatusInit        = "Initializing download..."
	StatusProcessing  = "Processing... Please wait"
	StatusCompleted   = "✓ Download completed!"
	StatusFailed      = "❌ Download failed"
	MsgEnterURL       = "Please enter a YouTube URL"
	MsgBusyDownload   = "A download is already in progress"
	MsgBusyInfo       = "Video information is already being fetched"
	ThumbnailTimeout  = 5 * time.Second
	InfoFetchTimeout  = 2 * time.Minute
	progressBarMaxPct = 100
)

// view owns the widgets of one downloader window. All fields are touched on
// the Fyne goroutine only; workers hand results back through fyne.Do.
type view struct {
	window   fyne.Window
	engine   Downloader
	settings *config.Settings
	logger   *zap.Logger

	urlEntry      *widget.Entry
	fetchBtn      *widget.Button
	downloadBtn   *widget.Button
	titleLabel    *widget.Label
	durationLabel *widget.Label
	uploaderLabel *widget.Label
	viewsLabel    *widget.Label
	typeLabel     *widget.Label
	thumbnail     *canvas.Image
	kindRadio     *widget.RadioGroup
	qualitySelect *widget.Select
	dirLabel      *widget.Label
	progress      *widget.ProgressBar
	statusLabel   *widget.Label
	activity      *widget.Entry

	directory string
	info      worker.Slot[*model.VideoInfo]
	download  worker.Slot[model.DownloadResult]
}

func newView(w fyne.Window, engine Downloader, settings *config.Settings, logger *zap.Logger) *view {
	v := &view{
		window:   w,
		engine:   engine,
		settings: settings,
		logger:   logger,
	}
	v.directory = v.initialDirectory()
	v.build()
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return v
}

func (v *view) initialDirectory() string {
	if v.settings != nil {
		return v.settings.GetDownloadDirectory()
	}
	return v.engine.Directory()
}

// build creates and arranges all widgets
func (v *view) build() {
	header := widget.NewLabelWithStyle(WindowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	v.urlEntry = widget.NewEntry()
	v.urlEntry.SetPlaceHolder("Paste a YouTube video or playlist URL")
	v.urlEntry.OnSubmitted = func(string) { v.onFetchInfo() }
	v.fetchBtn = widget.NewButton(LabelFetch, v.onFetchInfo)
	urlRow := container.NewBorder(nil, nil, nil, v.fetchBtn, v.urlEntry)

	v.titleLabel = widget.NewLabel("Title: " + Placeholder)
	v.titleLabel.Wrapping = fyne.TextWrapWord
	v.durationLabel = widget.NewLabel("Duration: " + Placeholder)
	v.uploaderLabel = widget.NewLabel("Uploader: " + Placeholder)
	v.viewsLabel = widget.NewLabel("Views: " + Placeholder)
	v.typeLabel = widget.NewLabel("Type: " + Placeholder)
	v.thumbnail = canvas.NewImageFromResource(nil)
	v.thumbnail.FillMode = canvas.ImageFillContain
	v.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))
	infoBox := container.NewBorder(nil, nil, v.thumbnail, nil,
		container.NewVBox(v.titleLabel, v.durationLabel, v.uploaderLabel, v.viewsLabel, v.typeLabel))
	infoCard := widget.NewCard("Video Information", "", infoBox)

	v.qualitySelect = widget.NewSelect(model.QualityOptions, func(q string) {
		if v.settings != nil {
			v.settings.SetQuality(q)
		}
	})
	v.kindRadio = widget.NewRadioGroup([]string{LabelVideo, LabelAudio}, v.onKindChanged)
	v.kindRadio.Horizontal = true
	v.kindRadio.Required = true
	v.restoreChoices()
	optionsCard := widget.NewCard("Download Options", "", widget.NewForm(
		widget.NewFormItem("Download Type", v.kindRadio),
		widget.NewFormItem("Quality", v.qualitySelect),
	))

	v.downloadBtn = widget.NewButton(LabelDownload, v.onDownload)
	v.downloadBtn.Importance = widget.HighImportance
	v.progress = widget.NewProgressBar()
	v.progress.Max = progressBarMaxPct
	v.statusLabel = widget.NewLabel(StatusReady)
	progressCard := widget.NewCard("Progress", "", container.NewVBox(v.downloadBtn, v.progress, v.statusLabel))

	v.activity = widget.NewMultiLineEntry()
	v.activity.Wrapping = fyne.TextWrapWord
	v.activity.SetMinRowsVisible(6)
	logCard := widget.NewCard("Activity Log", "", v.activity)

	v.dirLabel = widget.NewLabel(v.directory)
	v.dirLabel.Truncation = fyne.TextTruncateEllipsis
	footer := container.NewBorder(nil, nil, widget.NewLabel("📁 Save to:"),
		container.NewHBox(widget.NewButton(LabelChangeDir, v.onChangeDirectory), widget.NewButton(LabelOpenDir, v.onOpenDirectory)),
		v.dirLabel)

	top := container.NewVBox(header, urlRow, infoCard, optionsCard, progressCard)
	v.window.SetContent(container.NewBorder(top, footer, nil, nil, logCard))
}

func (v *view) restoreChoices() {
	quality, kind := model.QualityBest, model.MediaVideo
	if v.settings != nil {
		quality, kind = v.settings.GetQuality(), v.settings.GetMediaKind()
	}
	v.qualitySelect.SetSelected(quality)
	if kind == model.MediaAudio {
		v.kindRadio.SetSelected(LabelAudio)
	} else {
		v.kindRadio.SetSelected(LabelVideo)
	}
}

func (v *view) selectedKind() model.MediaKind {
	if v.kindRadio.Selected == LabelAudio {
		return model.MediaAudio
	}
	return model.MediaVideo
}

// onKindChanged enables the quality selector for video only
func (v *view) onKindChanged(string) {
	kind := v.selectedKind()
	if kind == model.MediaAudio {
		v.qualitySelect.Disable()
	} else {
		v.qualitySelect.Enable()
	}
	if v.settings != nil {
		v.settings.SetMediaKind(kind)
	}
}

// onFetchInfo fetches metadata for the entered URL in the background
func (v *view) onFetchInfo() {
	url := strings.TrimSpace(v.urlEntry.Text)
	if url == "" {
		dialog.ShowInformation("Warning", MsgEnterURL, v.window)
		return
	}

	done, err := v.info.Go(func() (*model.VideoInfo, error) {
		ctx, cancel := context.WithTimeout(context.Background(), InfoFetchTimeout)
		defer cancel()
		return v.engine.GetInfo(ctx, url)
	})
	if errors.Is(err, worker.ErrBusy) {
		dialog.ShowInformation("Warning", MsgBusyInfo, v.window)
		return
	}

	v.appendLog("🔍 Fetching video information...")
	v.fetchBtn.SetText(LabelFetching)
	v.fetchBtn.Disable()

	go func() {
		out := <-done
		fyne.Do(func() { v.showInfo(out) })
	}()
}

// showInfo renders a finished metadata fetch
func (v *view) showInfo(out worker.Outcome[*model.VideoInfo]) {
	v.fetchBtn.SetText(LabelFetch)
	v.fetchBtn.Enable()

	if out.Err != nil {
		v.logger.Warn("fetch info failed", zap.Error(out.Err))
		v.appendLog("❌ Error: " + out.Err.Error())
		dialog.ShowError(out.Err, v.window)
		return
	}

	info := out.Value
	if info.IsPlaylist() {
		v.titleLabel.SetText("📁 " + info.Title)
		v.durationLabel.SetText(fmt.Sprintf("Videos: %d", info.Count))
		v.uploaderLabel.SetText("Uploader: " + info.Uploader)
		v.viewsLabel.SetText("")
		v.typeLabel.SetText("Type: Playlist")
		v.appendLog(fmt.Sprintf("✓ Playlist: %s (%d videos)", info.Title, info.Count))
	} else {
		v.titleLabel.SetText("🎬 " + info.Title)
		v.durationLabel.SetText("Duration: " + formatDuration(info.Duration))
		v.uploaderLabel.SetText("Uploader: " + info.Uploader)
		v.viewsLabel.SetText("Views: " + formatCount(info.ViewCount))
		v.typeLabel.SetText("Type: Single Video")
		v.appendLog("✓ Video: " + info.Title)
	}
	v.loadThumbnail(info.Thumbnail)
}

// loadThumbnail fetches the preview image off the UI goroutine
func (v *view) loadThumbnail(url string) {
	v.thumbnail.Resource = nil
	v.thumbnail.Refresh()
	if url == "" {
		return
	}

	go func() {
		res, err := fyne.LoadResourceFromURLString(url)
		fyne.Do(func() {
			if err != nil {
				v.appendLog("⚠️ Could not load thumbnail: " + err.Error())
				return
			}
			v.thumbnail.Resource = res
			v.thumbnail.Refresh()
		})
	}()
}

// onDownload starts a download in the background
func (v *view) onDownload() {
	url := strings.TrimSpace(v.urlEntry.Text)
	if url == "" {
		dialog.ShowInformation("Warning", MsgEnterURL, v.window)
		return
	}

	req := model.DownloadRequest{
		URL:       url,
		Quality:   v.qualitySelect.Selected,
		Kind:      v.selectedKind(),
		Directory: v.directory,
	}

	done, err := v.download.Go(func() (model.DownloadResult, error) {
		return v.engine.Download(context.Background(), req, func(p model.Progress) {
			fyne.Do(func() { v.showProgress(p) })
		}), nil
	})
	if errors.Is(err, worker.ErrBusy) {
		dialog.ShowInformation("Warning", MsgBusyDownload, v.window)
		return
	}

	v.downloadBtn.SetText(LabelDownloading)
	v.downloadBtn.Disable()
	v.progress.SetValue(0)
	v.statusLabel.SetText(StatusInit)
	if req.Kind == model.MediaAudio {
		v.appendLog("🎵 Starting audio download (MP3)...")
	} else {
		v.appendLog(fmt.Sprintf("📥 Starting video download (%s)...", req.Quality))
	}

	go func() {
		out := <-done
		fyne.Do(func() { v.finishDownload(out, req.Directory) })
	}()
}

// showProgress renders one progress snapshot
func (v *view) showProgress(p model.Progress) {
	switch p.Status {
	case model.ProgressFinished:
		v.statusLabel.SetText(StatusProcessing)
	default:
		v.progress.SetValue(p.Percent)
		status := fmt.Sprintf("Downloading: %.1f%% | Speed: %s", p.Percent, p.Speed)
		if p.ETA > 0 {
			status += " | ETA: " + model.FormatETA(p.ETA)
		}
		v.statusLabel.SetText(status)
	}
}

// finishDownload renders the final result of a download
func (v *view) finishDownload(out worker.Outcome[model.DownloadResult], dir string) {
	v.downloadBtn.SetText(LabelDownload)
	v.downloadBtn.Enable()

	res := out.Value
	if out.Err != nil {
		res = model.DownloadResult{Error: out.Err.Error()}
	}

	if res.Failed() {
		v.progress.SetValue(0)
		v.statusLabel.SetText(StatusFailed)
		v.appendLog("❌ " + res.Error)
		dialog.ShowError(errors.New(res.Error), v.window)
		return
	}

	v.progress.SetValue(progressBarMaxPct)
	v.statusLabel.SetText(StatusCompleted)
	v.appendLog("✓ " + res.Message)
	v.appendLog("📂 Saved to: " + dir)
	dialog.ShowInformation("Success", fmt.Sprintf("%s\n\nSaved to:\n%s", res.Message, dir), v.window)
}

// onChangeDirectory lets the user pick a new destination
func (v *view) onChangeDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if uri == nil {
			return
		}
		v.setDirectory(uri.Path())
	}, v.window)
}

func (v *view) setDirectory(dir string) {
	v.directory = dir
	v.dirLabel.SetText(dir)
	if v.settings != nil {
		v.settings.SetDownloadDirectory(dir)
	}
	v.appendLog("📁 Directory changed to: " + dir)
}

// onOpenDirectory opens the destination in the system file manager
func (v *view) onOpenDirectory() {
	if err := platform.CreateDirectoryIfNotExists(v.directory); err != nil {
		dialog.ShowError(err, v.window)
		return
	}
	if err := platform.OpenFolder(v.directory); err != nil {
		v.logger.Warn("open folder failed", zap.String("dir", v.directory), zap.Error(err))
		dialog.ShowError(err, v.window)
	}
}

func (v *view) appendLog(line string) {
	text := v.activity.Text
	if text != "" {
		text += "\n"
	}
	v.activity.SetText(text + line)
	v.activity.CursorRow = len(strings.Split(v.activity.Text, "\n")) - 1
	v.activity.Refresh()
}
