package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"

	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/rs/zerolog/log"
)

// StatsService serves the admin dashboard aggregates and the attempt export.
type StatsService interface {
	Statistics() (*dto.StatisticsDTO, error)
	AllAttempts() ([]dto.AdminAttemptDTO, error)
	ExportAttemptsCSV() ([]byte, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	attemptRepo repository.AttemptRepository
}

func NewStatsService(userRepo repository.UserRepository, attemptRepo repository.AttemptRepository) StatsService {
	return &statsService{userRepo: userRepo, attemptRepo: attemptRepo}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *statsService) Statistics() (*dto.StatisticsDTO, error) {
	total, admins, err := s.userRepo.CountUsers()
	if err != nil {
		log.Error().Err(err).Msg("Statistics: counting users failed")
		return nil, fmt.Errorf("error computing statistics: %w", err)
	}
	agg, err := s.attemptRepo.Aggregates()
	if err != nil {
		log.Error().Err(err).Msg("Statistics: attempt aggregates failed")
		return nil, fmt.Errorf("error computing statistics: %w", err)
	}
	top, err := s.userRepo.TopAttempters(5)
	if err != nil {
		log.Error().Err(err).Msg("Statistics: top attempters failed")
		return nil, fmt.Errorf("error computing statistics: %w", err)
	}

	active := make([]dto.ActiveUserDTO, 0, len(top))
	for _, row := range top {
		active = append(active, dto.ActiveUserDTO{
			ID:           row.ID,
			Username:     row.Username,
			AttemptCount: row.AttemptCount,
		})
	}
	return &dto.StatisticsDTO{
		TotalUsers:      total,
		AdminUsers:      admins,
		RegularUsers:    total - admins,
		TotalAttempts:   agg.TotalAttempts,
		AvgScorePercent: round1(agg.AvgScorePercent),
		AvgTimeMinutes:  round1(agg.AvgTimeSeconds / 60),
		ActiveUsers:     active,
	}, nil
}

func (s *statsService) AllAttempts() ([]dto.AdminAttemptDTO, error) {
	attempts, err := s.attemptRepo.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("AllAttempts: repository failure")
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	dtos := make([]dto.AdminAttemptDTO, 0, len(attempts))
	for _, attempt := range attempts {
		dtos = append(dtos, dto.AdminAttemptDTO{
			ID:             attempt.ID,
			Username:       attempt.User.Username,
			QuizTitle:      attempt.Quiz.Title,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			Percentage:     attempt.Percentage(),
			TimeTaken:      attempt.TimeTaken,
			Date:           attempt.Date,
			IsAdmin:        attempt.User.IsAdmin,
		})
	}
	return dtos, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ExportAttemptsCSV renders every attempt as CSV, newest first. Fields with
// embedded commas are quoted by the encoder; the legacy export did not do
// that and produced broken rows for such titles.
func (s *statsService) ExportAttemptsCSV() ([]byte, error) {
	attempts, err := s.AllAttempts()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"User", "Quiz", "Score", "Percentage", "Time Taken", "Date", "Admin"}); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, attempt := range attempts {
		record := []string{
			attempt.Username,
			attempt.QuizTitle,
			fmt.Sprintf("%d/%d", attempt.Score, attempt.TotalQuestions),
			fmt.Sprintf("%.1f%%", attempt.Percentage),
			fmt.Sprintf("%dm %ds", attempt.TimeTaken/60, attempt.TimeTaken%60),
			attempt.Date.Format("2006-01-02 15:04"),
			yesNo(attempt.IsAdmin),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
