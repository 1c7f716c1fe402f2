package dto

import "time"

type TakeSurveyDTO struct {
	Survey        SurveyResponseDTO `json:"survey"`
	Questions     []QuestionDTO     `json:"questions"`
	SessionID     uint              `json:"session_id"`
	SessionStatus string            `json:"session_status"`
	StartedAt     time.Time         `json:"started_at"`
	// ExistingAnswers is keyed by question id: []string of choice ids for
	// multiple-choice questions, a single string otherwise.
	ExistingAnswers map[string]any `json:"existing_answers"`
	// Submitted echoes rejected form values so the client can restore them.
	Submitted map[string][]string `json:"submitted,omitempty"`
}

// SubmitAnswersDTO is the JSON form of a submission; keys are "question_<id>".
type SubmitAnswersDTO struct {
	Answers map[string][]string `json:"answers"`
}

type ThankYouDTO struct {
	Survey SurveyResponseDTO `json:"survey"`
}

type AnalyticsOverviewDTO struct {
	Viewer      UserDTO   `json:"viewer"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []string  `json:"sections"`
}
