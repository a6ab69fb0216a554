package repository

import (
	"errors"
	"fmt"

	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id uint) (*model.User, error)
	ByUsername(username string) (*model.User, error)
	List() ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	CountUsers() (total int64, admins int64, err error)
	TopAttempters(limit int) ([]AttempterRow, error)
}

// AttempterRow is one row of the most-active-users aggregate.
type AttempterRow struct {
	ID           uint
	Username     string
	AttemptCount int64
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", user.Username, errs.ErrDuplicateUsername)
		}
		return fmt.Errorf("creating user: %w", errs.ErrPersistence)
	}
	return nil
}

func (r *userRepository) ByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Attempts.Quiz").First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *userRepository) ByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, errs.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("Attempts").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update writes the user's own columns only; the Attempts association stays
// untouched even when the caller passed a preloaded user.
func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Omit(clause.Associations).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", user.Username, errs.ErrDuplicateUsername)
		}
		return fmt.Errorf("updating user %d: %w", user.ID, errs.ErrPersistence)
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.QuizAttempt{}).Error; err != nil {
			return fmt.Errorf("deleting attempts of user %d: %w", id, errs.ErrPersistence)
		}
		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("deleting user %d: %w", id, errs.ErrPersistence)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
		}
		return nil
	})
}

func (r *userRepository) CountUsers() (int64, int64, error) {
	var total, admins int64
	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&model.User{}).Where("is_admin = ?", true).Count(&admins).Error; err != nil {
		return 0, 0, err
	}
	return total, admins, nil
}

func (r *userRepository) TopAttempters(limit int) ([]AttempterRow, error) {
	var rows []AttempterRow
	err := r.db.Model(&model.User{}).
		Select("users.id AS id, users.username AS username, COUNT(quiz_attempts.id) AS attempt_count").
		Joins("LEFT JOIN quiz_attempts ON quiz_attempts.user_id = users.id").
		Group("users.id, users.username").
		Order("attempt_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
