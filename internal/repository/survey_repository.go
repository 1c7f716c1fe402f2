package repository

import (
	"time"

	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type SurveyRepository interface {
	WithTx(tx *gorm.DB) SurveyRepository
	Create(survey *model.Survey) error
	Save(survey *model.Survey) error
	UpdateStatus(id uint, status model.SurveyStatus) error
	FindByID(id uint) (*model.Survey, error)
	FindOwned(id, authorID uint) (*model.Survey, error)
	FindPage(filter SurveyFilter, offset, limit int) ([]model.Survey, int64, error)
	Count(filter SurveyFilter) (int64, error)
	LatestUpdated(authorID uint, limit int) ([]model.Survey, error)
	Disciplines(authorID uint) ([]string, error)
	// FindAvailable lists published surveys open at now that the user has not completed.
	FindAvailable(userID uint, now time.Time) ([]model.Survey, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) WithTx(tx *gorm.DB) SurveyRepository {
	return &surveyRepository{db: tx}
}

func (r *surveyRepository) Create(survey *model.Survey) error {
	return r.db.Omit("Questions", "Sessions", "Author").Create(survey).Error
}

func (r *surveyRepository) Save(survey *model.Survey) error {
	return r.db.Omit("Questions", "Sessions", "Author").Save(survey).Error
}

func (r *surveyRepository) UpdateStatus(id uint, status model.SurveyStatus) error {
	return r.db.Model(&model.Survey{}).Where("id = ?", id).Update("status", status).Error
}

func (r *surveyRepository) FindByID(id uint) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindOwned(id, authorID uint) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.Where("id = ? AND author_id = ?", id, authorID).First(&survey).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindPage(filter SurveyFilter, offset, limit int) ([]model.Survey, int64, error) {
	var total int64
	if err := r.db.Model(&model.Survey{}).Scopes(filter.Scopes()...).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var surveys []model.Survey
	err := r.db.Scopes(filter.Scopes()...).
		Order("surveys.created_at DESC").
		Order("surveys.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&surveys).Error
	return surveys, total, err
}

func (r *surveyRepository) Count(filter SurveyFilter) (int64, error) {
	var total int64
	err := r.db.Model(&model.Survey{}).Scopes(filter.Scopes()...).Count(&total).Error
	return total, err
}

func (r *surveyRepository) LatestUpdated(authorID uint, limit int) ([]model.Survey, error) {
	var surveys []model.Survey
	err := r.db.Scopes(byAuthor(authorID)).
		Order("surveys.updated_at DESC").
		Order("surveys.id DESC").
		Limit(limit).
		Find(&surveys).Error
	return surveys, err
}

func (r *surveyRepository) Disciplines(authorID uint) ([]string, error) {
	var disciplines []string
	err := r.db.Model(&model.Survey{}).
		Scopes(byAuthor(authorID)).
		Where("surveys.discipline <> ''").
		Distinct().
		Order("surveys.discipline ASC").
		Pluck("surveys.discipline", &disciplines).Error
	return disciplines, err
}

func (r *surveyRepository) FindAvailable(userID uint, now time.Time) ([]model.Survey, error) {
	completed := r.db.Model(&model.ResponseSession{}).
		Select("survey_id").
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted)

	var surveys []model.Survey
	err := r.db.
		Where("surveys.status = ?", model.SurveyPublished).
		Where("(surveys.start_date IS NULL OR surveys.start_date <= ?)", now).
		Where("(surveys.end_date IS NULL OR surveys.end_date >= ?)", now).
		Where("surveys.id NOT IN (?)", completed).
		Order("surveys.created_at DESC").
		Find(&surveys).Error
	return surveys, err
}
