package repository

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	WithTx(tx *gorm.DB) AnswerRepository
	CreateBatch(answers []model.Answer) error
	DeleteBySessionID(sessionID uint) error
	FindBySessionID(sessionID uint) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) WithTx(tx *gorm.DB) AnswerRepository {
	return &answerRepository{db: tx}
}

func (r *answerRepository) CreateBatch(answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.Omit("Question", "SelectedChoice").Create(&answers).Error
}

func (r *answerRepository) DeleteBySessionID(sessionID uint) error {
	return r.db.Where("response_session_id = ?", sessionID).Delete(&model.Answer{}).Error
}

func (r *answerRepository) FindBySessionID(sessionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Where("response_session_id = ?", sessionID).
		Order("question_id ASC").
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}
