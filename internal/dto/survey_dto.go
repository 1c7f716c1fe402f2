package dto

import "time"

// SurveyFormDTO is the create/edit form. Dates use the datetime-local layout
// (2006-01-02T15:04); RFC 3339 is accepted too.
type SurveyFormDTO struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Target      string `json:"target" form:"target"`
	Discipline  string `json:"discipline" form:"discipline"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
	// Action "publish" requests publication; anything else saves a draft.
	Action string `json:"action" form:"action"`
}

// SurveyFilterDTO holds the raw query parameters of the management list.
type SurveyFilterDTO struct {
	Status     string `json:"status,omitempty" form:"status"`
	Discipline string `json:"discipline,omitempty" form:"discipline"`
	StartDate  string `json:"start_date,omitempty" form:"start_date"`
	EndDate    string `json:"end_date,omitempty" form:"end_date"`
	Page       string `json:"-" form:"page"`
}

type SurveyResponseDTO struct {
	ID          uint       `json:"id"`
	AuthorID    uint       `json:"author_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Target      string     `json:"target,omitempty"`
	Discipline  string     `json:"discipline,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type SurveyPageDTO struct {
	Surveys           []SurveyResponseDTO `json:"surveys"`
	Page              int                 `json:"page"`
	PageSize          int                 `json:"page_size"`
	TotalPages        int                 `json:"total_pages"`
	TotalCount        int64               `json:"total_count"`
	HasNext           bool                `json:"has_next"`
	HasPrevious       bool                `json:"has_previous"`
	Filters           SurveyFilterDTO     `json:"filters"`
	FilterErrors      map[string][]string `json:"filter_errors,omitempty"`
	DisciplineChoices []string            `json:"discipline_choices"`
	// FiltersQuery is the encoded active filter set, without page, for pagination links.
	FiltersQuery string `json:"filters_query"`
}

type TeacherDashboardDTO struct {
	SurveyCount   int64               `json:"survey_count"`
	ActiveCount   int64               `json:"active_count"`
	LatestSurveys []SurveyResponseDTO `json:"latest_surveys"`
}
