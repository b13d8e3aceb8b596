package models

import (
	"time"

	"github.com/balkashynov/tracklog/internal/usage"
)

// Trackable kinds as stored in the database
const (
	KindTracker = "tracker"
	KindContext = "context"
)

// Trackable is a user-defined tracker or context
type Trackable struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tag   string `gorm:"uniqueIndex;not null" json:"tag"` // immutable once created
	Label string `json:"label"`
	Kind  string `gorm:"not null;default:tracker" json:"kind"` // tracker, context

	// Tracker fields
	ValueType   string   `gorm:"default:tally" json:"value_type,omitempty"` // tally, numeric, range, choice, note
	Unit        string   `json:"unit,omitempty"`
	Default     *float64 `json:"default,omitempty"`
	Aggregation string   `gorm:"default:sum" json:"aggregation,omitempty"` // sum, mean

	// Context fields
	Duration int `gorm:"default:1" json:"duration,omitempty"` // days
}

// IsContext reports whether the trackable is a context
func (t Trackable) IsContext() bool {
	return t.Kind == KindContext
}

// ToUsage converts the row into the tracker/context variant used for aggregation
func (t Trackable) ToUsage() usage.Trackable {
	if t.IsContext() {
		return &usage.Context{Tag: t.Tag, Duration: t.Duration}
	}

	agg := usage.AggregateSum
	if t.Aggregation == string(usage.AggregateMean) {
		agg = usage.AggregateMean
	}
	return &usage.Tracker{
		Tag:         t.Tag,
		Type:        usage.ValueType(t.ValueType),
		Unit:        t.Unit,
		Default:     t.Default,
		Aggregation: agg,
	}
}

// TrackablesToUsage converts a slice of rows
func TrackablesToUsage(rows []Trackable) []usage.Trackable {
	out := make([]usage.Trackable, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToUsage())
	}
	return out
}
