package worksheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/fieldplanner/internal/store"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	worksheetPrefix = "worksheet:"
	messagesPrefix  = "messages:"
)

// Saved is the outcome of persisting a reviewed draft.
type Saved struct {
	ID        string                 `json:"id"`
	Worksheet models.WorksheetRecord `json:"worksheet"`
	Messages  models.MessageSet      `json:"messages"`
}

// Service persists worksheets and message sets through a store.Repository.
// Edits are whole-record read-modify-write; a single active editor is assumed.
type Service struct {
	repo store.Repository
	now  func() time.Time
}

// NewService creates a new Service.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Save stores a worksheet and its message set under one new identifier.
func (s *Service) Save(ctx context.Context, draft models.ReviewDraft) (*Saved, error) {
	now := s.now()
	id := uuid.NewString()
	ws := BuildWorksheet(draft.DateLabel, draft.TimeSlots, draft.Jobs, now)
	ms := BuildMessageSet(draft.DateLabel, draft.Notifications, draft.TimeSlots, now)

	if err := s.create(ctx, worksheetPrefix+id, ws); err != nil {
		return nil, fmt.Errorf("saving worksheet: %w", err)
	}
	if err := s.create(ctx, messagesPrefix+id, ms); err != nil {
		_ = s.repo.Delete(ctx, worksheetPrefix+id)
		return nil, fmt.Errorf("saving messages: %w", err)
	}

	slog.Info("worksheet saved", "id", id, "jobs", len(ws.Jobs), "messages", len(ms.Messages))
	return &Saved{ID: id, Worksheet: ws, Messages: ms}, nil
}

// Get returns the worksheet stored under id, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (models.WorksheetRecord, error) {
	var ws models.WorksheetRecord
	if err := s.load(ctx, worksheetPrefix+id, &ws); err != nil {
		return models.WorksheetRecord{}, err
	}
	normalize(&ws)
	return ws, nil
}

// GetMessages returns the message set correlated with worksheet id.
func (s *Service) GetMessages(ctx context.Context, id string) (models.MessageSet, error) {
	var ms models.MessageSet
	if err := s.load(ctx, messagesPrefix+id, &ms); err != nil {
		return models.MessageSet{}, err
	}
	normalizeMessages(&ms)
	return ms, nil
}

// UpdateJob replaces one job of a stored worksheet by position.
func (s *Service) UpdateJob(ctx context.Context, id string, index int, job models.JobRecord) (models.WorksheetRecord, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return models.WorksheetRecord{}, err
	}
	updated, err := UpdateJobField(ws, index, job)
	if err != nil {
		return models.WorksheetRecord{}, err
	}
	if err := s.put(ctx, worksheetPrefix+id, updated); err != nil {
		return models.WorksheetRecord{}, fmt.Errorf("updating job: %w", err)
	}
	return updated, nil
}

// UpdateComment merges a comment into a stored worksheet.
func (s *Service) UpdateComment(ctx context.Context, id string, index int, text string) (models.WorksheetRecord, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return models.WorksheetRecord{}, err
	}
	updated := UpdateComment(ws, index, text)
	if err := s.put(ctx, worksheetPrefix+id, updated); err != nil {
		return models.WorksheetRecord{}, fmt.Errorf("updating comment: %w", err)
	}
	return updated, nil
}

// List returns summaries of every stored worksheet, newest first.
// Entries that fail to decode are skipped.
func (s *Service) List(ctx context.Context) ([]models.WorksheetSummary, error) {
	entries, err := s.repo.ListByPrefix(ctx, worksheetPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}

	out := make([]models.WorksheetSummary, 0, len(entries))
	for _, e := range entries {
		var ws models.WorksheetRecord
		if err := json.Unmarshal(e.Value, &ws); err != nil {
			slog.Warn("skipping corrupt worksheet", "key", e.Key, "error", err)
			continue
		}
		normalize(&ws)
		out = append(out, models.WorksheetSummary{
			ID:        strings.TrimPrefix(e.Key, worksheetPrefix),
			DateLabel: ws.DateLabel,
			Date:      ws.Date,
			CreatedAt: ws.CreatedAt,
			JobCount:  len(ws.Jobs),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListMessageSets returns summaries of every stored message set, newest first.
func (s *Service) ListMessageSets(ctx context.Context) ([]models.MessageSetSummary, error) {
	entries, err := s.repo.ListByPrefix(ctx, messagesPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing message sets: %w", err)
	}

	out := make([]models.MessageSetSummary, 0, len(entries))
	for _, e := range entries {
		var ms models.MessageSet
		if err := json.Unmarshal(e.Value, &ms); err != nil {
			slog.Warn("skipping corrupt message set", "key", e.Key, "error", err)
			continue
		}
		normalizeMessages(&ms)
		out = append(out, models.MessageSetSummary{
			ID:           strings.TrimPrefix(e.Key, messagesPrefix),
			DateLabel:    ms.DateLabel,
			Date:         ms.Date,
			CreatedAt:    ms.CreatedAt,
			MessageCount: len(ms.Messages),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a worksheet and its message set. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, worksheetPrefix+id); err != nil {
		return fmt.Errorf("deleting worksheet: %w", err)
	}
	if err := s.repo.Delete(ctx, messagesPrefix+id); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	return nil
}

// Export renders a stored worksheet, and its messages when present, as XLSX.
func (s *Service) Export(ctx context.Context, id string) ([]byte, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var msgs *models.MessageSet
	ms, err := s.GetMessages(ctx, id)
	switch {
	case err == nil:
		msgs = &ms
	case !errors.Is(err, store.ErrNotFound):
		slog.Warn("exporting without messages", "id", id, "error", err)
	}

	return ExportXLSX(ws, msgs)
}

func (s *Service) load(ctx context.Context, key string, out any) error {
	data, err := s.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Service) create(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, key, data)
}

func (s *Service) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, key, data)
}
