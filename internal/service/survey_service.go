package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ManagePageSize     = 10
	dashboardLatestMax = 5
)

type SurveyService interface {
	ListOwned(caller *model.User, filter dto.SurveyFilterDTO) (*dto.SurveyPageDTO, error)
	GetOwned(caller *model.User, surveyID uint) (*dto.SurveyResponseDTO, error)
	// Create and Update return the persisted survey together with a *ValidationError
	// when publishing was refused; the field changes stay saved as a draft.
	Create(caller *model.User, form dto.SurveyFormDTO) (*dto.SurveyResponseDTO, error)
	Update(caller *model.User, surveyID uint, form dto.SurveyFormDTO) (*dto.SurveyResponseDTO, error)
	Dashboard(caller *model.User) (*dto.TeacherDashboardDTO, error)
	StudentSurveys(caller *model.User) ([]dto.SurveyResponseDTO, error)
}

type surveyService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	db           *gorm.DB
	now          func() time.Time
}

func NewSurveyService(surveyRepo repository.SurveyRepository, questionRepo repository.QuestionRepository, db *gorm.DB) SurveyService {
	return &surveyService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		db:           db,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *surveyService) ListOwned(caller *model.User, raw dto.SurveyFilterDTO) (*dto.SurveyPageDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	disciplines, err := s.surveyRepo.Disciplines(caller.ID)
	if err != nil {
		log.Error().Err(err).Uint("authorID", caller.ID).Msg("ListOwned: failed to load disciplines")
		return nil, fmt.Errorf("error loading disciplines: %w", err)
	}
	filter, filterErr := parseSurveyFilter(caller.ID, raw, disciplines)

	page := 1
	if p := strings.TrimSpace(raw.Page); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("page %q: %w", raw.Page, ErrNotFound)
		}
	}

	surveys, total, err := s.surveyRepo.FindPage(filter, (page-1)*ManagePageSize, ManagePageSize)
	if err != nil {
		log.Error().Err(err).Uint("authorID", caller.ID).Msg("ListOwned: failed to query surveys")
		return nil, fmt.Errorf("error fetching surveys: %w", err)
	}
	totalPages := int((total + ManagePageSize - 1) / ManagePageSize)
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		return nil, fmt.Errorf("page %d of %d: %w", page, totalPages, ErrNotFound)
	}

	resp := &dto.SurveyPageDTO{
		Surveys:           toSurveyDTOs(surveys),
		Page:              page,
		PageSize:          ManagePageSize,
		TotalPages:        totalPages,
		TotalCount:        total,
		HasNext:           page < totalPages,
		HasPrevious:       page > 1,
		Filters:           raw,
		DisciplineChoices: disciplines,
		FiltersQuery:      filtersQuery(raw),
	}
	if resp.DisciplineChoices == nil {
		resp.DisciplineChoices = []string{}
	}
	if filterErr != nil {
		resp.FilterErrors = map[string][]string{}
		for field, msgs := range filterErr.Fields {
			for _, m := range msgs {
				resp.FilterErrors[field] = append(resp.FilterErrors[field], m.String())
			}
		}
	}
	return resp, nil
}

func filtersQuery(raw dto.SurveyFilterDTO) string {
	values := url.Values{}
	for key, value := range map[string]string{
		"status":     raw.Status,
		"discipline": raw.Discipline,
		"start_date": raw.StartDate,
		"end_date":   raw.EndDate,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values.Encode()
}

func (s *surveyService) GetOwned(caller *model.User, surveyID uint) (*dto.SurveyResponseDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	survey, err := s.surveyRepo.FindOwned(surveyID, caller.ID)
	if err != nil {
		return nil, notFound(err, "survey %d", surveyID)
	}
	resp := toSurveyDTO(survey)
	return &resp, nil
}

func (s *surveyService) Create(caller *model.User, form dto.SurveyFormDTO) (*dto.SurveyResponseDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	fields, verr := parseSurveyForm(form)
	if verr.HasErrors() {
		return nil, verr
	}
	survey := &model.Survey{AuthorID: caller.ID}
	fields.apply(survey)
	return s.save(survey)
}

func (s *surveyService) Update(caller *model.User, surveyID uint, form dto.SurveyFormDTO) (*dto.SurveyResponseDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	survey, err := s.surveyRepo.FindOwned(surveyID, caller.ID)
	if err != nil {
		return nil, notFound(err, "survey %d", surveyID)
	}
	fields, verr := parseSurveyForm(form)
	if verr.HasErrors() {
		return nil, verr
	}
	fields.apply(survey)
	return s.save(survey)
}

// save persists the survey with its requested status, then refuses publication
// of a survey without questions by forcing the status back to draft. Both steps
// share one transaction so a questionless survey is never visible as published.
func (s *surveyService) save(survey *model.Survey) (*dto.SurveyResponseDTO, error) {
	publishRefused := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		surveys := s.surveyRepo.WithTx(tx)
		if err := surveys.Save(survey); err != nil {
			return fmt.Errorf("failed to save survey: %w", err)
		}
		if survey.Status != model.SurveyPublished {
			return nil
		}
		count, err := s.questionRepo.WithTx(tx).CountBySurveyID(survey.ID)
		if err != nil {
			return fmt.Errorf("failed to count questions: %w", err)
		}
		if count == 0 {
			survey.Status = model.SurveyDraft
			if err := surveys.UpdateStatus(survey.ID, model.SurveyDraft); err != nil {
				return fmt.Errorf("failed to revert survey status: %w", err)
			}
			publishRefused = true
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Uint("authorID", survey.AuthorID).Msg("Failed to save survey")
		return nil, err
	}

	resp := toSurveyDTO(survey)
	if publishRefused {
		log.Info().Uint("surveyID", survey.ID).Msg("Publish refused: survey has no questions")
		return &resp, &ValidationError{
			Form:    []i18n.Message{i18n.Error(i18n.KeySurveyPublishEmpty)},
			Notices: []i18n.Message{i18n.Error(i18n.KeySurveyAddQuestion)},
		}
	}
	return &resp, nil
}

func (s *surveyService) Dashboard(caller *model.User) (*dto.TeacherDashboardDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	total, err := s.surveyRepo.Count(repository.SurveyFilter{AuthorID: caller.ID})
	if err != nil {
		return nil, fmt.Errorf("error counting surveys: %w", err)
	}
	active, err := s.surveyRepo.Count(repository.SurveyFilter{AuthorID: caller.ID, Status: model.SurveyPublished})
	if err != nil {
		return nil, fmt.Errorf("error counting published surveys: %w", err)
	}
	latest, err := s.surveyRepo.LatestUpdated(caller.ID, dashboardLatestMax)
	if err != nil {
		return nil, fmt.Errorf("error fetching latest surveys: %w", err)
	}
	return &dto.TeacherDashboardDTO{
		SurveyCount:   total,
		ActiveCount:   active,
		LatestSurveys: toSurveyDTOs(latest),
	}, nil
}

func (s *surveyService) StudentSurveys(caller *model.User) ([]dto.SurveyResponseDTO, error) {
	if err := RequireRole(caller, studentRoles...); err != nil {
		return nil, err
	}
	surveys, err := s.surveyRepo.FindAvailable(caller.ID, s.now())
	if err != nil {
		log.Error().Err(err).Uint("userID", caller.ID).Msg("StudentSurveys: failed to query surveys")
		return nil, fmt.Errorf("error fetching available surveys: %w", err)
	}
	return toSurveyDTOs(surveys), nil
}
