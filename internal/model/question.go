package model

import (
	"time"
)

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionScale    QuestionType = "scale"
	QuestionText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingle, QuestionMultiple, QuestionScale, QuestionText:
		return true
	}
	return false
}

// HasChoices is true for the types answered by picking a Choice.
func (t QuestionType) HasChoices() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

type Question struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	SurveyID     uint         `json:"survey_id" gorm:"not null;index"`
	Text         string       `json:"text" gorm:"type:text;not null"`
	QuestionType QuestionType `json:"question_type" gorm:"size:20;not null"`
	Order        int          `json:"order" gorm:"column:sort_order;not null;default:0"`
	Choices      []Choice     `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// OrderClause sorts questions and choices by position, then by insertion.
const OrderClause = "sort_order ASC, id ASC"
