package model

import (
	"time"
)

type SurveyStatus string

const (
	SurveyDraft     SurveyStatus = "draft"
	SurveyPublished SurveyStatus = "published"
	SurveyClosed    SurveyStatus = "closed"
)

func (s SurveyStatus) Valid() bool {
	switch s {
	case SurveyDraft, SurveyPublished, SurveyClosed:
		return true
	}
	return false
}

type Survey struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title" gorm:"size:255;not null"`
	Description string            `json:"description" gorm:"type:text"`
	AuthorID    uint              `json:"author_id" gorm:"not null;index"`
	Author      User              `json:"-" gorm:"foreignKey:AuthorID"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	Status      SurveyStatus      `json:"status" gorm:"size:20;not null;default:'draft';index"`
	Target      string            `json:"target" gorm:"size:255"` // course, faculty or group
	Discipline  string            `json:"discipline" gorm:"size:255;index"`
	Questions   []Question        `json:"questions,omitempty" gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sessions    []ResponseSession `json:"-" gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type Window int

const (
	WindowOpen Window = iota
	WindowNotStarted
	WindowFinished
)

// WindowAt reports where now falls relative to the optional [StartDate, EndDate] bounds.
func (s *Survey) WindowAt(now time.Time) Window {
	if s.StartDate != nil && s.StartDate.After(now) {
		return WindowNotStarted
	}
	if s.EndDate != nil && s.EndDate.Before(now) {
		return WindowFinished
	}
	return WindowOpen
}
