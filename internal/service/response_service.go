package service

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/paths"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const questionPreviewRunes = 50

// Redirect sends the caller elsewhere with flash messages.
type Redirect struct {
	To       string
	Messages []i18n.Message
}

// TakeOutcome carries exactly one of Redirect or Survey.
type TakeOutcome struct {
	Redirect *Redirect
	Survey   *dto.TakeSurveyDTO
	Messages []i18n.Message
}

type ResponseService interface {
	// Take begins or resumes the caller's session and returns the fill-out view.
	Take(caller *model.User, surveyID uint) (*TakeOutcome, error)
	// Submit replaces the session answers and completes it. A *ValidationError
	// or *PersistenceError comes with an outcome to re-render.
	Submit(caller *model.User, surveyID uint, form url.Values) (*TakeOutcome, error)
	ThankYou(caller *model.User, surveyID uint) (*dto.ThankYouDTO, error)
}

type responseService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	choiceRepo   repository.ChoiceRepository
	sessionRepo  repository.ResponseSessionRepository
	answerRepo   repository.AnswerRepository
	db           *gorm.DB
	now          func() time.Time
}

func NewResponseService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	choiceRepo repository.ChoiceRepository,
	sessionRepo repository.ResponseSessionRepository,
	answerRepo repository.AnswerRepository,
	db *gorm.DB,
) ResponseService {
	return &responseService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		db:           db,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// takeState is what the entry guard resolves for an admitted caller.
type takeState struct {
	survey    *model.Survey
	questions []model.Question
	session   *model.ResponseSession
}

// enter runs the entry guard. A non-nil Redirect means the caller is not admitted.
func (s *responseService) enter(caller *model.User, surveyID uint) (*takeState, *Redirect, error) {
	if err := RequireRole(caller, studentRoles...); err != nil {
		return nil, nil, err
	}
	survey, err := s.surveyRepo.FindByID(surveyID)
	if err != nil {
		return nil, nil, notFound(err, "survey %d", surveyID)
	}
	if survey.Status != model.SurveyPublished {
		return nil, nil, fmt.Errorf("survey %d is %s: %w", surveyID, survey.Status, ErrNotFound)
	}

	now := s.now()
	switch survey.WindowAt(now) {
	case model.WindowNotStarted:
		return nil, &Redirect{To: paths.StudentSurveys, Messages: []i18n.Message{i18n.Error(i18n.KeyTakeNotStarted)}}, nil
	case model.WindowFinished:
		return nil, &Redirect{To: paths.StudentSurveys, Messages: []i18n.Message{i18n.Error(i18n.KeyTakeFinished)}}, nil
	}

	questions, err := s.questionRepo.FindBySurveyIDWithChoices(survey.ID)
	if err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Msg("Take: failed to load questions")
		return nil, nil, fmt.Errorf("error loading questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, &Redirect{To: paths.StudentSurveys, Messages: []i18n.Message{i18n.Error(i18n.KeyTakeNoQuestions)}}, nil
	}

	if _, err := s.sessionRepo.FindLatest(caller.ID, survey.ID, model.SessionCompleted); err == nil {
		return nil, &Redirect{To: paths.ThankYou(survey.ID), Messages: []i18n.Message{i18n.Info(i18n.KeyTakeAlreadyCompleted)}}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("error checking completed sessions: %w", err)
	}

	session, err := s.sessionRepo.FindLatest(caller.ID, survey.ID, model.SessionInProgress)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = &model.ResponseSession{
			UserID:    caller.ID,
			SurveyID:  survey.ID,
			Status:    model.SessionInProgress,
			StartedAt: now,
		}
		if err := s.sessionRepo.Create(session); err != nil {
			log.Error().Err(err).Uint("userID", caller.ID).Uint("surveyID", survey.ID).Msg("Take: failed to create session")
			return nil, nil, fmt.Errorf("error creating session: %w", err)
		}
		log.Info().Uint("sessionID", session.ID).Uint("userID", caller.ID).Uint("surveyID", survey.ID).Msg("Response session started")
	} else if err != nil {
		return nil, nil, fmt.Errorf("error loading session: %w", err)
	}

	return &takeState{survey: survey, questions: questions, session: session}, nil, nil
}

func (s *responseService) Take(caller *model.User, surveyID uint) (*TakeOutcome, error) {
	state, redirect, err := s.enter(caller, surveyID)
	if err != nil {
		return nil, err
	}
	if redirect != nil {
		return &TakeOutcome{Redirect: redirect}, nil
	}
	view, err := s.view(state, nil)
	if err != nil {
		return nil, err
	}
	return &TakeOutcome{Survey: view}, nil
}

func (s *responseService) view(state *takeState, submitted url.Values) (*dto.TakeSurveyDTO, error) {
	answers, err := s.answerRepo.FindBySessionID(state.session.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading answers of session %d: %w", state.session.ID, err)
	}
	view := &dto.TakeSurveyDTO{
		Survey:          toSurveyDTO(state.survey),
		Questions:       toQuestionDTOs(state.questions),
		SessionID:       state.session.ID,
		SessionStatus:   string(state.session.Status),
		StartedAt:       state.session.StartedAt,
		ExistingAnswers: prefill(state.questions, answers),
	}
	if len(submitted) > 0 {
		view.Submitted = map[string][]string(submitted)
	}
	return view, nil
}

// prefill turns stored answers into form values keyed by question id.
func prefill(questions []model.Question, answers []model.Answer) map[string]any {
	types := make(map[uint]model.QuestionType, len(questions))
	for _, q := range questions {
		types[q.ID] = q.QuestionType
	}
	out := map[string]any{}
	for _, a := range answers {
		key := strconv.FormatUint(uint64(a.QuestionID), 10)
		if types[a.QuestionID] == model.QuestionMultiple {
			ids, _ := out[key].([]string)
			if ids == nil {
				ids = []string{}
			}
			if a.SelectedChoiceID != nil {
				ids = append(ids, strconv.FormatUint(uint64(*a.SelectedChoiceID), 10))
			}
			out[key] = ids
			continue
		}
		if a.SelectedChoiceID != nil {
			out[key] = strconv.FormatUint(uint64(*a.SelectedChoiceID), 10)
		} else if a.TextAnswer != "" {
			out[key] = a.TextAnswer
		}
	}
	return out
}

// FormKey is the submission field of a question.
func FormKey(questionID uint) string {
	return "question_" + strconv.FormatUint(uint64(questionID), 10)
}

// answerValues extracts the submitted values of every question; multiple-choice
// selections are deduplicated and blank entries dropped. Any other question
// posted more than once counts as unanswered.
func answerValues(questions []model.Question, form url.Values) (map[uint][]string, *ValidationError) {
	verr := &ValidationError{}
	values := make(map[uint][]string, len(questions))
	for _, q := range questions {
		key := FormKey(q.ID)
		var picked []string
		switch q.QuestionType {
		case model.QuestionMultiple:
			seen := map[string]bool{}
			for _, v := range form[key] {
				v = strings.TrimSpace(v)
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				picked = append(picked, v)
			}
		case model.QuestionText:
			// Stored as posted; only the blank check trims.
			if v := form.Get(key); strings.TrimSpace(v) != "" {
				picked = []string{v}
			}
		default:
			// Single and scale take exactly one value.
			if vs := form[key]; len(vs) == 1 && vs[0] != "" {
				picked = vs
			}
		}
		if len(picked) == 0 {
			verr.AddForm(i18n.Error(i18n.KeyTakeAnswerRequired, preview(q.Text)))
			continue
		}
		values[q.ID] = picked
	}
	return values, verr
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > questionPreviewRunes {
		runes = runes[:questionPreviewRunes]
	}
	return string(runes)
}

func (s *responseService) Submit(caller *model.User, surveyID uint, form url.Values) (*TakeOutcome, error) {
	state, redirect, err := s.enter(caller, surveyID)
	if err != nil {
		return nil, err
	}
	if redirect != nil {
		return &TakeOutcome{Redirect: redirect}, nil
	}

	values, verr := answerValues(state.questions, form)
	if verr.HasErrors() {
		view, err := s.view(state, form)
		if err != nil {
			return nil, err
		}
		return &TakeOutcome{Survey: view, Messages: verr.Form}, verr
	}

	completed := *state.session
	err = s.db.Transaction(func(tx *gorm.DB) error {
		answers := s.answerRepo.WithTx(tx)
		if err := answers.DeleteBySessionID(completed.ID); err != nil {
			return fmt.Errorf("failed to clear answers: %w", err)
		}
		rows, err := s.answerRows(s.choiceRepo.WithTx(tx), completed.ID, state.questions, values)
		if err != nil {
			return err
		}
		if err := answers.CreateBatch(rows); err != nil {
			return fmt.Errorf("failed to insert answers: %w", err)
		}
		finished := s.now()
		completed.Status = model.SessionCompleted
		completed.CompletedAt = &finished
		if err := s.sessionRepo.WithTx(tx).Save(&completed); err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrInvalidReference) {
		log.Warn().Err(err).Uint("sessionID", completed.ID).Msg("Submit: rejected foreign choice")
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Uint("sessionID", completed.ID).Uint("userID", caller.ID).Msg("Submit: failed to save answers")
		perr := &PersistenceError{Cause: err}
		view, viewErr := s.view(state, form)
		if viewErr != nil {
			return nil, perr
		}
		return &TakeOutcome{Survey: view, Messages: []i18n.Message{perr.Message()}}, perr
	}

	log.Info().Uint("sessionID", completed.ID).Uint("userID", caller.ID).Uint("surveyID", state.survey.ID).Msg("Response session completed")
	return &TakeOutcome{Redirect: &Redirect{
		To:       paths.ThankYou(state.survey.ID),
		Messages: []i18n.Message{i18n.Success(i18n.KeyTakeThanks)},
	}}, nil
}

func (s *responseService) answerRows(choices repository.ChoiceRepository, sessionID uint, questions []model.Question, values map[uint][]string) ([]model.Answer, error) {
	var rows []model.Answer
	for _, q := range questions {
		for _, v := range values[q.ID] {
			row := model.Answer{ResponseSessionID: sessionID, QuestionID: q.ID}
			if q.QuestionType.HasChoices() {
				choiceID, err := s.resolveChoice(choices, q.ID, v)
				if err != nil {
					return nil, err
				}
				row.SelectedChoiceID = &choiceID
			} else {
				row.TextAnswer = v
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *responseService) resolveChoice(choices repository.ChoiceRepository, questionID uint, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("choice %q of question %d: %w", raw, questionID, ErrInvalidReference)
	}
	choice, err := choices.FindForQuestion(uint(id), questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("choice %d of question %d: %w", id, questionID, ErrInvalidReference)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load choice %d: %w", id, err)
	}
	return choice.ID, nil
}

func (s *responseService) ThankYou(caller *model.User, surveyID uint) (*dto.ThankYouDTO, error) {
	if err := RequireRole(caller, studentRoles...); err != nil {
		return nil, err
	}
	survey, err := s.surveyRepo.FindByID(surveyID)
	if err != nil {
		return nil, notFound(err, "survey %d", surveyID)
	}
	return &dto.ThankYouDTO{Survey: toSurveyDTO(survey)}, nil
}
