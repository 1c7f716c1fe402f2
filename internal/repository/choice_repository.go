package repository

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type ChoiceRepository interface {
	WithTx(tx *gorm.DB) ChoiceRepository
	Create(choice *model.Choice) error
	Save(choice *model.Choice) error
	DeleteByIDs(questionID uint, ids []uint) error
	FindByQuestionID(questionID uint) ([]model.Choice, error)
	// FindForQuestion fails with gorm.ErrRecordNotFound when the choice belongs to another question.
	FindForQuestion(choiceID, questionID uint) (*model.Choice, error)
}

type choiceRepository struct {
	db *gorm.DB
}

func NewChoiceRepository(db *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) WithTx(tx *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: tx}
}

func (r *choiceRepository) Create(choice *model.Choice) error {
	return r.db.Create(choice).Error
}

func (r *choiceRepository) Save(choice *model.Choice) error {
	return r.db.Save(choice).Error
}

func (r *choiceRepository) DeleteByIDs(questionID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("question_id = ? AND id IN ?", questionID, ids).Delete(&model.Choice{}).Error
}

func (r *choiceRepository) FindByQuestionID(questionID uint) ([]model.Choice, error) {
	var choices []model.Choice
	if err := r.db.Where("question_id = ?", questionID).Order(model.OrderClause).Find(&choices).Error; err != nil {
		return nil, err
	}
	return choices, nil
}

func (r *choiceRepository) FindForQuestion(choiceID, questionID uint) (*model.Choice, error) {
	var choice model.Choice
	if err := r.db.Where("id = ? AND question_id = ?", choiceID, questionID).First(&choice).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}
