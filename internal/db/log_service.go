package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
)

const (
	// DefaultWindowDays bounds how far back QueryLogs looks by default
	DefaultWindowDays = 90
	// DefaultQueryLimit caps the number of entries QueryLogs returns
	DefaultQueryLimit = 1000
)

var (
	ErrEmptyNote   = errors.New("note is empty")
	ErrInvalidNote = errors.New("invalid note")
	ErrLogNotFound = errors.New("log entry not found")
)

// CreateLogResult is a stored entry plus the trackables it referenced
type CreateLogResult struct {
	Entry      *models.LogEntry
	Trackables []models.Trackable
}

// CreateLog parses a note, creates any missing trackables and stores the entry
func CreateLog(note string, at time.Time) (*CreateLogResult, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ErrEmptyNote
	}

	parsed := parser.ParseNote(note)
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNote, strings.Join(parsed.Errors, ", "))
	}

	entry := models.LogEntry{
		UID:  uuid.NewString(),
		End:  at.UTC().Truncate(time.Second),
		Note: parsed.Note,
	}
	for _, t := range parsed.Trackers {
		entry.Values = append(entry.Values, models.LogValue{Tag: t.Tag, Value: t.Value})
	}
	for _, c := range parsed.Contexts {
		entry.Values = append(entry.Values, models.LogValue{Tag: c})
	}

	result := &CreateLogResult{Entry: &entry}
	err := DB.Transaction(func(tx *gorm.DB) error {
		trackables, err := findOrCreateTrackables(tx, parsed)
		if err != nil {
			return err
		}
		result.Trackables = trackables

		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	entry.End = entry.End.Local()
	return result, nil
}

// LogQuery bounds a log fetch. Zero values fall back to the last
// DefaultWindowDays days and DefaultQueryLimit entries.
type LogQuery struct {
	Start time.Time
	End   time.Time
	Limit int
	Tag   string // optional, "#coffee" or "coffee"
}

// Normalize fills in defaults relative to now
func (q LogQuery) Normalize(now time.Time) LogQuery {
	if q.End.IsZero() {
		q.End = now
	}
	if q.Start.IsZero() {
		q.Start = q.End.AddDate(0, 0, -DefaultWindowDays)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultQueryLimit
	}
	return q
}

// QueryLogs returns entries within the query window in chronological order.
// When the cap is hit the most recent entries are kept.
func QueryLogs(q LogQuery) ([]models.LogEntry, error) {
	q = q.Normalize(time.Now())
	if q.End.Before(q.Start) {
		return nil, fmt.Errorf("invalid range: end before start")
	}

	query := DB.Where("ended_at BETWEEN ? AND ?", q.Start.UTC(), q.End.UTC())

	if q.Tag != "" {
		tag, err := parser.NormalizeTag(q.Tag)
		if err != nil {
			return nil, err
		}
		query = query.Where("id IN (?)",
			DB.Model(&models.LogValue{}).Select("log_entry_id").Where("tag = ?", tag))
	}

	var logs []models.LogEntry
	if err := query.
		Preload("Values").
		Order("ended_at DESC").
		Limit(q.Limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	// Newest-first for the cap, oldest-first for callers
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// DeleteLog removes a log entry by ID
func DeleteLog(id uint) error {
	res := DB.Delete(&models.LogEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: #%d", ErrLogNotFound, id)
	}
	return nil
}
