package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/tracklog/internal/usage"
)

// LogEntry is a single submitted note. It is never modified after it is stored.
type LogEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UID       string         `gorm:"uniqueIndex;not null" json:"uid"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	End  time.Time `gorm:"column:ended_at;index;not null" json:"end"` // stored in UTC
	Note string    `json:"note"`

	// Relationships
	Values []LogValue `gorm:"foreignKey:LogEntryID;constraint:OnDelete:CASCADE;" json:"values"`
}

// AfterFind converts the stored UTC time back to local time
func (l *LogEntry) AfterFind(tx *gorm.DB) error {
	l.End = l.End.Local()
	return nil
}

// LogValue is one tag referenced by a log entry, with its optional value
type LogValue struct {
	ID         uint     `gorm:"primarykey" json:"-"`
	LogEntryID uint     `gorm:"index;not null" json:"-"`
	Tag        string   `gorm:"index;not null" json:"tag"`
	Value      *float64 `json:"value,omitempty"`
}

// Tags returns the tag names referenced by the entry
func (l LogEntry) Tags() []string {
	tags := make([]string, 0, len(l.Values))
	for _, v := range l.Values {
		tags = append(tags, v.Tag)
	}
	return tags
}

// ToUsage converts the row into the entry shape used for aggregation
func (l LogEntry) ToUsage() usage.Entry {
	e := usage.Entry{End: l.End, Note: l.Note}
	for _, v := range l.Values {
		e.Tags = append(e.Tags, usage.TagValue{Tag: v.Tag, Value: v.Value})
	}
	return e
}

// LogsToUsage converts a slice of rows
func LogsToUsage(rows []LogEntry) []usage.Entry {
	out := make([]usage.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToUsage())
	}
	return out
}
