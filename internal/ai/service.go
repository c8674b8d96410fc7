package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/fieldplanner/internal/schedule"
	"github.com/kiranshivaraju/fieldplanner/pkg/imageprep"
	"github.com/kiranshivaraju/fieldplanner/pkg/jobtable"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

var (
	ErrNoImages      = errors.New("at least one image is required")
	ErrTooManyImages = errors.New("too many images")
)

const (
	// MaxImages bounds the screenshots accepted for one extraction.
	MaxImages = 10

	maxNotificationBytes = 1000
)

// ExtractionService turns uploaded screenshots into an editable ReviewDraft.
type ExtractionService struct {
	provider  models.Extractor
	scheduler schedule.Scheduler
	timeout   time.Duration
	maxDim    int
	now       func() time.Time
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(provider models.Extractor, scheduler schedule.Scheduler, timeout time.Duration, maxImageDimension int) *ExtractionService {
	return &ExtractionService{
		provider:  provider,
		scheduler: scheduler,
		timeout:   timeout,
		maxDim:    maxImageDimension,
		now:       time.Now,
	}
}

// ProviderName reports which provider backs the service.
func (s *ExtractionService) ProviderName() string { return s.provider.Name() }

// Extract preprocesses images, runs the provider under the inference timeout
// and builds a draft from its output. Provider failures are returned as-is
// so callers can match ErrProviderUnavailable; an expired deadline becomes
// ErrInferenceTimeout.
func (s *ExtractionService) Extract(ctx context.Context, uploads [][]byte) (models.ReviewDraft, error) {
	if len(uploads) == 0 {
		return models.ReviewDraft{}, ErrNoImages
	}
	if len(uploads) > MaxImages {
		return models.ReviewDraft{}, fmt.Errorf("%w: %d exceeds %d", ErrTooManyImages, len(uploads), MaxImages)
	}

	images := make([]models.Image, 0, len(uploads))
	for i, raw := range uploads {
		data, mime, err := imageprep.Prepare(raw, s.maxDim)
		if err != nil {
			return models.ReviewDraft{}, fmt.Errorf("image %d: %w", i+1, err)
		}
		images = append(images, models.Image{Data: data, MIME: mime})
	}

	inferCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.provider.Extract(inferCtx, models.ExtractionRequest{Images: images})
	if err != nil {
		if errors.Is(inferCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrInferenceTimeout) {
			err = fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		slog.Error("extraction failed", "provider", s.provider.Name(), "images", len(images), "error", err)
		return models.ReviewDraft{}, err
	}

	draft := BuildDraft(result, s.scheduler, s.now())
	slog.Info("extraction completed",
		"provider", s.provider.Name(),
		"images", len(images),
		"jobs", len(draft.Jobs),
		"notifications", len(draft.Notifications),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return draft, nil
}

// BuildDraft parses an extraction result into jobs, a date label and
// initial time slots. A table with no data rows yields an empty draft.
func BuildDraft(result models.ExtractionResult, scheduler schedule.Scheduler, now time.Time) models.ReviewDraft {
	jobs := jobtable.Parse(result.DataTable)

	notifications := make([]string, len(result.Notifications))
	for i, n := range result.Notifications {
		notifications[i] = truncateString(n, maxNotificationBytes)
	}

	return models.ReviewDraft{
		DateLabel:     jobtable.ExtractLabel(result.DataTable, now),
		Jobs:          jobs,
		TimeSlots:     scheduler.DeriveInitial(nil, len(jobs)),
		Notifications: notifications,
	}
}

// truncateString truncates s to maxBytes without splitting UTF-8 runes.
func truncateString(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
