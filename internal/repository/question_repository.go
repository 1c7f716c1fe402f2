package repository

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(question *model.Question) error
	Save(question *model.Question) error
	DeleteByIDs(surveyID uint, ids []uint) error
	FindBySurveyID(surveyID uint) ([]model.Question, error)
	FindBySurveyIDWithChoices(surveyID uint) ([]model.Question, error)
	CountBySurveyID(surveyID uint) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Omit("Choices").Create(question).Error
}

func (r *questionRepository) Save(question *model.Question) error {
	return r.db.Omit("Choices").Save(question).Error
}

func (r *questionRepository) DeleteByIDs(surveyID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("survey_id = ? AND id IN ?", surveyID, ids).Delete(&model.Question{}).Error
}

func (r *questionRepository) FindBySurveyID(surveyID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("survey_id = ?", surveyID).Order(model.OrderClause).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindBySurveyIDWithChoices(surveyID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(model.OrderClause)
		}).
		Where("survey_id = ?", surveyID).
		Order(model.OrderClause).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountBySurveyID(surveyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("survey_id = ?", surveyID).Count(&count).Error
	return count, err
}
