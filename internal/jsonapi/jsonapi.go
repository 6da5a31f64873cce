// Package jsonapi implements the line protocol of omnitool-api: every
// message is one JSON object on its own line on standard output. A download
// emits one progress line per update and exactly one final result line.
package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/ytget/omnitool/internal/model"
)

// Error messages of the protocol
const (
	ErrMsgURLRequired = "URL required"
	ErrMsgNoAction    = "No action specified"
)

// ErrUsage marks invocation errors that were already reported on the wire
var ErrUsage = errors.New("jsonapi: usage error")

// ProgressLine is emitted for each progress update
type ProgressLine struct {
	Status  string  `json:"status"`
	Percent float64 `json:"percent"`
	Speed   string  `json:"speed"`
	ETA     int     `json:"eta"`
}

// ResultLine is the final line of a download or a failed request
type ResultLine struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InfoLine is the result of a successful info request
type InfoLine struct {
	Success     bool                 `json:"success"`
	Title       string               `json:"title"`
	Duration    int                  `json:"duration"`
	ViewCount   int64                `json:"view_count"`
	Uploader    string               `json:"uploader"`
	Description string               `json:"description"`
	Thumbnail   string               `json:"thumbnail"`
	Formats     []model.FormatOption `json:"formats"`
}

// Emitter writes one JSON object per line. It is safe for concurrent use.
type Emitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewEmitter creates an emitter writing to w
func NewEmitter(w io.Writer) *Emitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Emitter{enc: enc}
}

// Emit writes v followed by a newline
func (e *Emitter) Emit(v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(v)
}

// Downloader is the part of the download engine the protocol drives
type Downloader interface {
	GetInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.Progress)) model.DownloadResult
}

// Service answers protocol requests
type Service struct {
	engine Downloader
	out    *Emitter
}

// NewService creates a service emitting to out
func NewService(engine Downloader, out *Emitter) *Service {
	return &Service{engine: engine, out: out}
}

// GetInfo emits the metadata of url. The returned error is non-nil only when
// the line could not be written.
func (s *Service) GetInfo(ctx context.Context, url string) error {
	if url == "" {
		return s.usage(ErrMsgURLRequired)
	}

	info, err := s.engine.GetInfo(ctx, url)
	if err != nil {
		return s.out.Emit(ResultLine{Success: false, Error: err.Error()})
	}

	formats := info.Formats
	if formats == nil {
		formats = []model.FormatOption{}
	}
	return s.out.Emit(InfoLine{
		Success:     true,
		Title:       info.Title,
		Duration:    info.Duration,
		ViewCount:   info.ViewCount,
		Uploader:    info.Uploader,
		Description: info.Description,
		Thumbnail:   info.Thumbnail,
		Formats:     formats,
	})
}

// Download runs req, emitting progress lines and one result line
func (s *Service) Download(ctx context.Context, req model.DownloadRequest) error {
	if req.URL == "" {
		return s.usage(ErrMsgURLRequired)
	}

	var emitErr error
	var emitMu sync.Mutex
	res := s.engine.Download(ctx, req, func(p model.Progress) {
		err := s.out.Emit(ProgressLine{
			Status:  p.Status,
			Percent: p.Percent,
			Speed:   p.Speed,
			ETA:     p.ETA,
		})
		if err != nil {
			emitMu.Lock()
			if emitErr == nil {
				emitErr = err
			}
			emitMu.Unlock()
		}
	})

	if res.Success {
		if err := s.out.Emit(ResultLine{Success: true, Message: res.Message}); err != nil {
			return err
		}
	} else if err := s.out.Emit(ResultLine{Success: false, Error: res.Error}); err != nil {
		return err
	}

	emitMu.Lock()
	defer emitMu.Unlock()
	return emitErr
}

// NoAction reports a request without --get-info or --download
func (s *Service) NoAction() error {
	return s.usage(ErrMsgNoAction)
}

// Fail reports an unexpected error as a failed result
func (s *Service) Fail(err error) error {
	return s.out.Emit(ResultLine{Success: false, Error: err.Error()})
}

func (s *Service) usage(msg string) error {
	if err := s.out.Emit(ResultLine{Success: false, Error: msg}); err != nil {
		return err
	}
	return ErrUsage
}
