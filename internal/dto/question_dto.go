package dto

type ChoiceDTO struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type QuestionDTO struct {
	ID           uint        `json:"id"`
	Text         string      `json:"text"`
	QuestionType string      `json:"question_type"`
	Order        int         `json:"order"`
	Choices      []ChoiceDTO `json:"choices"`
}

// QuestionFormDTO is one row of the question list. Rows without ID add a
// question; Delete removes the referenced one.
type QuestionFormDTO struct {
	ID           *uint  `json:"id"`
	Text         string `json:"text"`
	QuestionType string `json:"question_type"`
	Order        *int   `json:"order"`
	Delete       bool   `json:"delete"`
}

type ChoiceFormDTO struct {
	ID     *uint  `json:"id"`
	Text   string `json:"text"`
	Order  *int   `json:"order"`
	Delete bool   `json:"delete"`
}

type QuestionBuilderSubmitDTO struct {
	Questions []QuestionFormDTO `json:"questions"`
	// Choices maps a question id to its submitted choice sub-form. Questions
	// missing from the map keep their choices untouched.
	Choices map[string][]ChoiceFormDTO `json:"choices"`
}

type QuestionBuilderDTO struct {
	Survey    SurveyResponseDTO `json:"survey"`
	Questions []QuestionDTO     `json:"questions"`
}
