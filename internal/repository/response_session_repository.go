package repository

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type ResponseSessionRepository interface {
	WithTx(tx *gorm.DB) ResponseSessionRepository
	Create(session *model.ResponseSession) error
	Save(session *model.ResponseSession) error
	FindByID(id uint) (*model.ResponseSession, error)
	// FindLatest returns the most recently started session in the given status.
	FindLatest(userID, surveyID uint, status model.SessionStatus) (*model.ResponseSession, error)
}

type responseSessionRepository struct {
	db *gorm.DB
}

func NewResponseSessionRepository(db *gorm.DB) ResponseSessionRepository {
	return &responseSessionRepository{db: db}
}

func (r *responseSessionRepository) WithTx(tx *gorm.DB) ResponseSessionRepository {
	return &responseSessionRepository{db: tx}
}

func (r *responseSessionRepository) Create(session *model.ResponseSession) error {
	return r.db.Omit("User", "Survey", "Answers").Create(session).Error
}

func (r *responseSessionRepository) Save(session *model.ResponseSession) error {
	return r.db.Omit("User", "Survey", "Answers").Save(session).Error
}

func (r *responseSessionRepository) FindByID(id uint) (*model.ResponseSession, error) {
	var session model.ResponseSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *responseSessionRepository) FindLatest(userID, surveyID uint, status model.SessionStatus) (*model.ResponseSession, error) {
	var session model.ResponseSession
	err := r.db.
		Where("user_id = ? AND survey_id = ? AND status = ?", userID, surveyID, status).
		Order("started_at DESC").
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
