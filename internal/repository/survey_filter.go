package repository

import (
	"time"

	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

// SurveyFilter is the typed criteria set for listing an author's surveys.
// Zero values mean "no constraint".
type SurveyFilter struct {
	AuthorID   uint
	Status     model.SurveyStatus
	Discipline string
	// StartFrom keeps surveys whose start date falls on or after this calendar day.
	StartFrom *time.Time
	// EndUntil keeps surveys whose end date falls on or before this calendar day.
	EndUntil *time.Time
}

// Scopes turns the criteria into gorm predicates. Date bounds compare calendar
// days in UTC, so a datetime anywhere inside the bound day matches.
func (f SurveyFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	scopes := []func(*gorm.DB) *gorm.DB{byAuthor(f.AuthorID)}
	if f.Status != "" {
		status := f.Status
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("surveys.status = ?", status)
		})
	}
	if f.Discipline != "" {
		discipline := f.Discipline
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("surveys.discipline = ?", discipline)
		})
	}
	if f.StartFrom != nil {
		from := startOfDay(*f.StartFrom)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("surveys.start_date >= ?", from)
		})
	}
	if f.EndUntil != nil {
		until := startOfDay(*f.EndUntil).AddDate(0, 0, 1)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("surveys.end_date < ?", until)
		})
	}
	return scopes
}

func byAuthor(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("surveys.author_id = ?", authorID)
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
