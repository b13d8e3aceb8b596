package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
)

var (
	ErrTrackableNotFound = errors.New("trackable not found")
	ErrDuplicateTag      = errors.New("tag already exists")
	ErrInvalidDuration   = errors.New("duration must be a positive number of days")
)

var validValueTypes = map[string]bool{
	"tally":   true,
	"numeric": true,
	"range":   true,
	"choice":  true,
	"note":    true,
}

// CreateTrackableRequest holds the data needed to create a tracker or context
type CreateTrackableRequest struct {
	Tag         string
	Label       string
	Kind        string // tracker or context
	ValueType   string // tally, numeric, range, choice, note
	Unit        string
	Default     *float64
	Aggregation string // sum or mean
	Duration    int    // context only, days
}

// CreateTrackable validates and stores a new trackable
func CreateTrackable(req CreateTrackableRequest) (*models.Trackable, error) {
	return createTrackable(DB, req)
}

func createTrackable(tx *gorm.DB, req CreateTrackableRequest) (*models.Trackable, error) {
	trackable, err := buildTrackable(req)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := tx.Model(&models.Trackable{}).Where("tag = ?", trackable.Tag).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, trackable.Tag)
	}

	if err := tx.Create(&trackable).Error; err != nil {
		return nil, err
	}
	return &trackable, nil
}

// buildTrackable normalizes a request into a row
func buildTrackable(req CreateTrackableRequest) (models.Trackable, error) {
	tag, err := parser.NormalizeTag(req.Tag)
	if err != nil {
		return models.Trackable{}, err
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = tag
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	switch kind {
	case "", models.KindTracker:
		valueType := strings.ToLower(strings.TrimSpace(req.ValueType))
		if valueType == "" {
			valueType = "tally"
		}
		if !validValueTypes[valueType] {
			return models.Trackable{}, fmt.Errorf("invalid value type %q. Use: tally, numeric, range, choice, note", req.ValueType)
		}

		aggregation := strings.ToLower(strings.TrimSpace(req.Aggregation))
		if aggregation == "" {
			aggregation = "sum"
		}
		if aggregation != "sum" && aggregation != "mean" {
			return models.Trackable{}, fmt.Errorf("invalid aggregation %q. Use: sum or mean", req.Aggregation)
		}

		return models.Trackable{
			Tag:         tag,
			Label:       label,
			Kind:        models.KindTracker,
			ValueType:   valueType,
			Unit:        strings.TrimSpace(req.Unit),
			Default:     req.Default,
			Aggregation: aggregation,
			Duration:    1,
		}, nil

	case models.KindContext:
		duration := req.Duration
		if duration == 0 {
			duration = 1
		}
		if duration < 0 {
			return models.Trackable{}, ErrInvalidDuration
		}
		return models.Trackable{
			Tag:         tag,
			Label:       label,
			Kind:        models.KindContext,
			ValueType:   "tally",
			Aggregation: "sum",
			Duration:    duration,
		}, nil

	default:
		return models.Trackable{}, fmt.Errorf("invalid kind %q. Use: tracker or context", req.Kind)
	}
}

// GetTrackables retrieves all trackables ordered by tag
func GetTrackables() ([]models.Trackable, error) {
	var trackables []models.Trackable
	if err := DB.Order("tag ASC").Find(&trackables).Error; err != nil {
		return nil, err
	}
	return trackables, nil
}

// GetTrackable retrieves a trackable by tag ("#coffee", "+sick" and "coffee" all work)
func GetTrackable(tag string) (*models.Trackable, error) {
	normalized, err := parser.NormalizeTag(tag)
	if err != nil {
		return nil, err
	}

	var trackable models.Trackable
	err = DB.Where("tag = ?", normalized).First(&trackable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTrackableNotFound, normalized)
	}
	if err != nil {
		return nil, err
	}
	return &trackable, nil
}

// DeleteTrackable removes a trackable definition. Logged entries keep their tags.
func DeleteTrackable(tag string) error {
	trackable, err := GetTrackable(tag)
	if err != nil {
		return err
	}
	// Hard delete so the tag can be defined again later
	return DB.Unscoped().Delete(trackable).Error
}

// findOrCreateTrackables makes sure every tag in a parsed note has a definition.
// Unknown #tags become tally trackers, unknown +tags become one-day contexts.
func findOrCreateTrackables(tx *gorm.DB, parsed parser.ParsedNote) ([]models.Trackable, error) {
	var trackables []models.Trackable

	ensure := func(tag, kind string) error {
		var trackable models.Trackable

		// Try to find existing trackable
		err := tx.Where("tag = ?", tag).First(&trackable).Error
		if err == nil {
			trackables = append(trackables, trackable)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Trackable doesn't exist, create it
		created, err := createTrackable(tx, CreateTrackableRequest{Tag: tag, Kind: kind})
		if err != nil {
			return err
		}
		trackables = append(trackables, *created)
		return nil
	}

	for _, tag := range parsed.TrackerTags() {
		if err := ensure(tag, models.KindTracker); err != nil {
			return nil, err
		}
	}
	for _, tag := range parsed.Contexts {
		if err := ensure(tag, models.KindContext); err != nil {
			return nil, err
		}
	}

	return trackables, nil
}
