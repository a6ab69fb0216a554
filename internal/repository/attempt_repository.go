package repository

import (
	"fmt"

	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	ListByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error)
	ListAll() ([]model.QuizAttempt, error)
	Aggregates() (AttemptAggregates, error)
}

// AttemptAggregates backs the admin dashboard numbers.
type AttemptAggregates struct {
	TotalAttempts   int64
	AvgScorePercent float64
	AvgTimeSeconds  float64
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.QuizAttempt) error {
	if err := r.db.Create(attempt).Error; err != nil {
		return fmt.Errorf("creating quiz attempt: %w", errs.ErrPersistence)
	}
	return nil
}

func (r *attemptRepository) ListByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.
		Preload("User").
		Preload("Quiz").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("date DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) ListAll() ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.
		Preload("User").
		Preload("Quiz").
		Order("date DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) Aggregates() (AttemptAggregates, error) {
	var agg AttemptAggregates
	if err := r.db.Model(&model.QuizAttempt{}).Count(&agg.TotalAttempts).Error; err != nil {
		return agg, err
	}
	if agg.TotalAttempts == 0 {
		return agg, nil
	}
	row := struct {
		AvgScore *float64
		AvgTime  *float64
	}{}
	err := r.db.Model(&model.QuizAttempt{}).
		Select("AVG(score * 100.0 / NULLIF(total_questions, 0)) AS avg_score, AVG(time_taken) AS avg_time").
		Scan(&row).Error
	if err != nil {
		return agg, err
	}
	if row.AvgScore != nil {
		agg.AvgScorePercent = *row.AvgScore
	}
	if row.AvgTime != nil {
		agg.AvgTimeSeconds = *row.AvgTime
	}
	return agg, nil
}
