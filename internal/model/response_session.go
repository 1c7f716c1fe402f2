package model

import (
	"time"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned" // set by maintenance only
)

// ResponseSession is one attempt of a user at a survey. Uniqueness is on
// (user, survey, started_at), so historical sessions can pile up.
type ResponseSession struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	UserID      uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_session_user_survey_started"`
	User        User          `json:"-" gorm:"foreignKey:UserID"`
	SurveyID    uint          `json:"survey_id" gorm:"not null;uniqueIndex:idx_session_user_survey_started"`
	Survey      Survey        `json:"-" gorm:"foreignKey:SurveyID"`
	Status      SessionStatus `json:"status" gorm:"size:20;not null;default:'in_progress';index"`
	StartedAt   time.Time     `json:"started_at" gorm:"not null;uniqueIndex:idx_session_user_survey_started"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Answers     []Answer      `json:"answers,omitempty" gorm:"foreignKey:ResponseSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
