// Package worksheet builds, persists and edits saved worksheets and their
// correlated customer message sets.
package worksheet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// ErrIndexOutOfRange is returned when a job update addresses a position
// outside the stored job sequence.
var ErrIndexOutOfRange = errors.New("job index out of range")

const (
	// TimeSlotToken is the placeholder each notification template carries.
	TimeSlotToken = "{{TIME_SLOT}}"
	// MissingTimeMarker replaces the token when no slot exists at that index.
	MissingTimeMarker = "[TIME]"
)

// BuildWorksheet freezes reviewed jobs and slots into a new record.
func BuildWorksheet(dateLabel string, slots []models.TimeSlot, jobs []models.JobRecord, now time.Time) models.WorksheetRecord {
	now = now.UTC()
	return models.WorksheetRecord{
		DateLabel: dateLabel,
		Date:      now,
		CreatedAt: now,
		TimeSlots: cloneSlots(slots),
		Jobs:      cloneJobs(jobs),
		Comments:  map[int]string{},
	}
}

// BuildMessageSet finalizes notification templates against slots.
func BuildMessageSet(dateLabel string, templates []string, slots []models.TimeSlot, now time.Time) models.MessageSet {
	now = now.UTC()
	return models.MessageSet{
		DateLabel: dateLabel,
		Date:      now,
		CreatedAt: now,
		Messages:  FinalizeMessages(templates, slots),
	}
}

// FinalizeMessages substitutes each template's time slot token with the
// slot at the same index. Counts may differ; unmatched templates get
// MissingTimeMarker.
func FinalizeMessages(templates []string, slots []models.TimeSlot) []string {
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		value := MissingTimeMarker
		if i < len(slots) {
			value = fmt.Sprintf("%s - %s", slots[i].Start, slots[i].End)
		}
		out[i] = strings.ReplaceAll(tmpl, TimeSlotToken, value)
	}
	return out
}

// UpdateJobField returns a copy of record with the job at index replaced.
// The input record is not modified.
func UpdateJobField(record models.WorksheetRecord, index int, job models.JobRecord) (models.WorksheetRecord, error) {
	if index < 0 || index >= len(record.Jobs) {
		return record, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(record.Jobs))
	}
	out := cloneRecord(record)
	out.Jobs[index] = job
	return out, nil
}

// UpdateComment returns a copy of record with text merged into comments at
// index. The index need not correspond to an existing job.
func UpdateComment(record models.WorksheetRecord, index int, text string) models.WorksheetRecord {
	out := cloneRecord(record)
	out.Comments[index] = text
	return out
}

// normalize fills fields older records may lack.
func normalize(record *models.WorksheetRecord) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.Date
	}
	if record.Comments == nil {
		record.Comments = map[int]string{}
	}
	if record.Jobs == nil {
		record.Jobs = []models.JobRecord{}
	}
	if record.TimeSlots == nil {
		record.TimeSlots = []models.TimeSlot{}
	}
}

func normalizeMessages(set *models.MessageSet) {
	if set.CreatedAt.IsZero() {
		set.CreatedAt = set.Date
	}
	if set.Messages == nil {
		set.Messages = []string{}
	}
}

func cloneRecord(r models.WorksheetRecord) models.WorksheetRecord {
	out := r
	out.TimeSlots = cloneSlots(r.TimeSlots)
	out.Jobs = cloneJobs(r.Jobs)
	out.Comments = make(map[int]string, len(r.Comments)+1)
	for k, v := range r.Comments {
		out.Comments[k] = v
	}
	return out
}

func cloneSlots(slots []models.TimeSlot) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	return out
}

func cloneJobs(jobs []models.JobRecord) []models.JobRecord {
	out := make([]models.JobRecord, len(jobs))
	for i, j := range jobs {
		if j.Extra != nil {
			j.Extra = append([]string(nil), j.Extra...)
		}
		out[i] = j
	}
	return out
}
