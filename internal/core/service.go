package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/toolbox/internal/config"
	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/lyrics"
	"github.com/JonMunkholm/toolbox/internal/session"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNoFile       = errors.New("no file provided")
	ErrNoRegistry   = errors.New("no registry record loaded")
)

// LyricsSearcher looks up song lyrics.
type LyricsSearcher interface {
	Search(ctx context.Context, artist, title string) (*lyrics.Result, error)
}

// Service provides the operations behind every toolbox module. Methods
// that take a *session.Session expect the caller to hold its lock.
type Service struct {
	lyrics        LyricsSearcher
	uploadLimiter *UploadLimiter
	maxFileSize   int64
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		lyrics:        lyrics.NewClient(cfg.Lyrics.BaseURL, cfg.Lyrics.Timeout),
		uploadLimiter: NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		maxFileSize:   cfg.Upload.MaxFileSize,
	}
}

// WithLyrics replaces the lyrics backend.
func (s *Service) WithLyrics(l LyricsSearcher) *Service {
	s.lyrics = l
	return s
}

// MaxFileSize is the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 { return s.maxFileSize }

// UploadLimiterStatus returns the current upload limiter state.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.uploadLimiter.Status()
}

// WaitForUploads blocks until running uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.uploadLimiter.WaitForDrain(ctx)
}

// checkFile rejects missing and oversized uploads.
func (s *Service) checkFile(data []byte) error {
	if data == nil {
		return ErrNoFile
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(data), s.maxFileSize)
	}
	return nil
}

// record appends a history entry to d and logs the change.
func (s *Service) record(ctx context.Context, d *session.Dataset, action, detail string) {
	d.Record(action, detail, GetIPAddressFromContext(ctx))
	logging.WithFields(ctx, "dataset", d.Name, "action", action).Info("dataset changed", "detail", detail)
}
