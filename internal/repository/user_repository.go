package repository

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	// Taken reports which of username and email are already registered.
	Taken(username, email string) (usernameTaken bool, emailTaken bool, err error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Taken(username, email string) (bool, bool, error) {
	var byName, byEmail int64
	if err := r.db.Model(&model.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&byName).Error; err != nil {
		return false, false, err
	}
	if err := r.db.Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&byEmail).Error; err != nil {
		return false, false, err
	}
	return byName > 0, byEmail > 0, nil
}
