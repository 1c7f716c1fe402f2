package model

import (
	"time"
)

// Answer holds either a SelectedChoiceID (single/multiple) or TextAnswer (scale/text).
// Multiple-choice questions get one row per selected choice.
type Answer struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	ResponseSessionID uint      `json:"response_session_id" gorm:"not null;index"`
	QuestionID        uint      `json:"question_id" gorm:"not null;index"`
	Question          Question  `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	SelectedChoiceID  *uint     `json:"selected_choice_id,omitempty" gorm:"index"`
	SelectedChoice    *Choice   `json:"-" gorm:"foreignKey:SelectedChoiceID;constraint:OnDelete:SET NULL;"`
	TextAnswer        string    `json:"text_answer" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
}
