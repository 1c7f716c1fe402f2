package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionBuilderService interface {
	Get(caller *model.User, surveyID uint) (*dto.QuestionBuilderDTO, error)
	// Save applies the question list atomically, then each submitted choice list
	// on its own. On a *ValidationError the returned builder reflects what is
	// stored now, for re-rendering.
	Save(caller *model.User, surveyID uint, form dto.QuestionBuilderSubmitDTO) (*dto.QuestionBuilderDTO, error)
}

type questionBuilderService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	choiceRepo   repository.ChoiceRepository
	db           *gorm.DB
}

func NewQuestionBuilderService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	choiceRepo repository.ChoiceRepository,
	db *gorm.DB,
) QuestionBuilderService {
	return &questionBuilderService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		db:           db,
	}
}

func (s *questionBuilderService) Get(caller *model.User, surveyID uint) (*dto.QuestionBuilderDTO, error) {
	survey, err := s.ownedSurvey(caller, surveyID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(survey)
}

func (s *questionBuilderService) ownedSurvey(caller *model.User, surveyID uint) (*model.Survey, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	survey, err := s.surveyRepo.FindOwned(surveyID, caller.ID)
	if err != nil {
		return nil, notFound(err, "survey %d", surveyID)
	}
	return survey, nil
}

func (s *questionBuilderService) snapshot(survey *model.Survey) (*dto.QuestionBuilderDTO, error) {
	questions, err := s.questionRepo.FindBySurveyIDWithChoices(survey.ID)
	if err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Msg("QuestionBuilder: failed to load questions")
		return nil, fmt.Errorf("error loading questions for survey %d: %w", survey.ID, err)
	}
	return &dto.QuestionBuilderDTO{
		Survey:    toSurveyDTO(survey),
		Questions: toQuestionDTOs(questions),
	}, nil
}

func (s *questionBuilderService) Save(caller *model.User, surveyID uint, form dto.QuestionBuilderSubmitDTO) (*dto.QuestionBuilderDTO, error) {
	survey, err := s.ownedSurvey(caller, surveyID)
	if err != nil {
		return nil, err
	}
	existing, err := s.questionRepo.FindBySurveyID(survey.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading questions for survey %d: %w", survey.ID, err)
	}

	plan, verr := planQuestions(survey.ID, form.Questions, existing)
	if verr.HasErrors() {
		verr.AddForm(i18n.Error(i18n.KeyBuilderQuestionErrors))
		current, snapErr := s.snapshot(survey)
		if snapErr != nil {
			return nil, snapErr
		}
		return current, verr
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		questions := s.questionRepo.WithTx(tx)
		if err := questions.DeleteByIDs(survey.ID, plan.deletes); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		for i := range plan.saves {
			q := &plan.saves[i]
			if q.ID == 0 {
				if err := questions.Create(q); err != nil {
					return fmt.Errorf("failed to create question: %w", err)
				}
				continue
			}
			if err := questions.Save(q); err != nil {
				return fmt.Errorf("failed to update question %d: %w", q.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Msg("QuestionBuilder: question list transaction failed")
		return nil, err
	}

	choiceErrs, err := s.saveChoiceSets(survey.ID, plan.resolveChoiceKeys(form.Choices))
	if err != nil {
		return nil, err
	}
	current, err := s.snapshot(survey)
	if err != nil {
		return nil, err
	}
	if choiceErrs.HasErrors() {
		choiceErrs.AddForm(i18n.Error(i18n.KeyBuilderChoiceErrors))
		return current, choiceErrs
	}
	return current, nil
}

// saveChoiceSets handles every question of the reloaded list that has a
// submitted sub-form. Invalid sets are skipped, valid ones are saved each in
// its own transaction.
func (s *questionBuilderService) saveChoiceSets(surveyID uint, submitted map[string][]dto.ChoiceFormDTO) (*ValidationError, error) {
	verr := &ValidationError{}
	if len(submitted) == 0 {
		return verr, nil
	}
	questions, err := s.questionRepo.FindBySurveyIDWithChoices(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error reloading questions for survey %d: %w", surveyID, err)
	}
	for _, question := range questions {
		key := strconv.FormatUint(uint64(question.ID), 10)
		forms, ok := submitted[key]
		if !ok {
			continue
		}
		plan, planErr := planChoices(question, forms, "choices["+key+"]")
		if planErr.HasErrors() {
			for field, msgs := range planErr.Fields {
				for _, m := range msgs {
					verr.AddField(field, m)
				}
			}
			continue
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			choices := s.choiceRepo.WithTx(tx)
			if err := choices.DeleteByIDs(question.ID, plan.deletes); err != nil {
				return fmt.Errorf("failed to delete choices: %w", err)
			}
			for i := range plan.saves {
				c := &plan.saves[i]
				if c.ID == 0 {
					if err := choices.Create(c); err != nil {
						return fmt.Errorf("failed to create choice: %w", err)
					}
					continue
				}
				if err := choices.Save(c); err != nil {
					return fmt.Errorf("failed to update choice %d: %w", c.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Error().Err(err).Uint("questionID", question.ID).Msg("QuestionBuilder: choice transaction failed")
			return nil, err
		}
	}
	return verr, nil
}

// NewQuestionKey is the choices map key of a question added in the same
// submission, by its index in the question list.
func NewQuestionKey(index int) string {
	return "new-" + strconv.Itoa(index)
}

type questionPlan struct {
	saves []model.Question
	// rows holds the question list index of each entry of saves.
	rows    []int
	deletes []uint
}

// resolveChoiceKeys rewrites NewQuestionKey entries to the ids assigned on
// create. Keys of unsaved rows are dropped.
func (p questionPlan) resolveChoiceKeys(submitted map[string][]dto.ChoiceFormDTO) map[string][]dto.ChoiceFormDTO {
	out := make(map[string][]dto.ChoiceFormDTO, len(submitted))
	for i, q := range p.saves {
		if forms, ok := submitted[NewQuestionKey(p.rows[i])]; ok && q.ID != 0 {
			out[strconv.FormatUint(uint64(q.ID), 10)] = forms
		}
	}
	for key, forms := range submitted {
		if strings.HasPrefix(key, "new-") {
			continue
		}
		out[key] = forms
	}
	return out
}

func planQuestions(surveyID uint, forms []dto.QuestionFormDTO, existing []model.Question) (questionPlan, *ValidationError) {
	verr := &ValidationError{}
	byID := make(map[uint]model.Question, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	var plan questionPlan
	for i, f := range forms {
		prefix := fmt.Sprintf("questions[%d]", i)
		var target model.Question
		if f.ID != nil {
			q, ok := byID[*f.ID]
			if !ok {
				verr.AddField(prefix+".id", i18n.Error(i18n.KeyFieldUnknownItem, *f.ID))
				continue
			}
			if f.Delete {
				plan.deletes = append(plan.deletes, q.ID)
				continue
			}
			target = q
		} else if f.Delete || blankQuestionForm(f) {
			// An untouched or discarded extra row.
			continue
		}

		text := strings.TrimSpace(f.Text)
		if text == "" {
			verr.AddField(prefix+".text", i18n.Error(i18n.KeyFieldRequired))
		}
		qType := model.QuestionType(f.QuestionType)
		switch {
		case f.QuestionType == "":
			verr.AddField(prefix+".question_type", i18n.Error(i18n.KeyFieldRequired))
		case !qType.Valid():
			verr.AddField(prefix+".question_type", i18n.Error(i18n.KeyFieldInvalidChoice, f.QuestionType))
		}
		order := 0
		if f.Order != nil {
			order = *f.Order
			if order < 0 {
				verr.AddField(prefix+".order", i18n.Error(i18n.KeyFieldNegative))
			}
		}

		target.Text = text
		target.QuestionType = qType
		target.Order = order
		target.SurveyID = surveyID
		plan.saves = append(plan.saves, target)
		plan.rows = append(plan.rows, i)
	}
	return plan, verr
}

func blankQuestionForm(f dto.QuestionFormDTO) bool {
	return strings.TrimSpace(f.Text) == "" && f.QuestionType == "" && f.Order == nil
}

type choicePlan struct {
	saves   []model.Choice
	deletes []uint
}

func planChoices(question model.Question, forms []dto.ChoiceFormDTO, prefix string) (choicePlan, *ValidationError) {
	verr := &ValidationError{}
	byID := make(map[uint]model.Choice, len(question.Choices))
	for _, c := range question.Choices {
		byID[c.ID] = c
	}

	var plan choicePlan
	for i, f := range forms {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		target := model.Choice{QuestionID: question.ID}
		if f.ID != nil {
			c, ok := byID[*f.ID]
			if !ok {
				verr.AddField(field+".id", i18n.Error(i18n.KeyFieldUnknownItem, *f.ID))
				continue
			}
			if f.Delete {
				plan.deletes = append(plan.deletes, c.ID)
				continue
			}
			target = c
		} else if f.Delete || (strings.TrimSpace(f.Text) == "" && f.Order == nil) {
			continue
		}

		text := strings.TrimSpace(f.Text)
		if text == "" {
			verr.AddField(field+".text", i18n.Error(i18n.KeyFieldRequired))
		} else if utf8.RuneCountInString(text) > maxCharField {
			verr.AddField(field+".text", i18n.Error(i18n.KeyFieldTooLong, maxCharField))
		}
		order := 0
		if f.Order != nil {
			order = *f.Order
			if order < 0 {
				verr.AddField(field+".order", i18n.Error(i18n.KeyFieldNegative))
			}
		}
		target.Text = text
		target.Order = order
		plan.saves = append(plan.saves, target)
	}
	return plan, verr
}
