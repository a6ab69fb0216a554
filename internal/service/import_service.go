package service

import (
	"fmt"
	"strings"

	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/rs/zerolog/log"
)

// ImportService validates and applies bulk-upload documents. Validation runs
// over the whole document before any write; a failing document never reaches
// the repository, and a repository failure rolls the whole import back.
type ImportService interface {
	Import(doc dto.ImportDocument) error
}

type importService struct {
	contentRepo repository.ContentRepository
}

func NewImportService(contentRepo repository.ContentRepository) ImportService {
	return &importService{contentRepo: contentRepo}
}

func (s *importService) Import(doc dto.ImportDocument) error {
	if problems := validateImport(doc.Subject); len(problems) > 0 {
		return fmt.Errorf("import document invalid: %s: %w", strings.Join(problems, "; "), errs.ErrValidation)
	}
	if err := s.contentRepo.ImportSubject(doc.Subject); err != nil {
		log.Error().Err(err).Str("subject", doc.Subject.Name).Msg("Import: repository failure, rolled back")
		return err
	}
	log.Info().Str("subject", doc.Subject.Name).Int("topics", len(doc.Subject.Topics)).Msg("Import applied")
	return nil
}

// validateImport walks the document and collects every problem, so a
// malformed upload is rejected with one aggregated message instead of
// failing piecemeal mid-write.
func validateImport(subject dto.SubjectImport) []string {
	var problems []string
	if strings.TrimSpace(subject.Name) == "" {
		problems = append(problems, "subject name is required")
	}
	for ti, topic := range subject.Topics {
		if strings.TrimSpace(topic.Name) == "" {
			problems = append(problems, fmt.Sprintf("topic[%d]: name is required", ti))
		}
		for ci, class := range topic.Classes {
			if strings.TrimSpace(class.Name) == "" {
				problems = append(problems, fmt.Sprintf("topic[%d].class[%d]: name is required", ti, ci))
			}
			for li, level := range class.Levels {
				if strings.TrimSpace(level.Name) == "" {
					problems = append(problems, fmt.Sprintf("topic[%d].class[%d].level[%d]: name is required", ti, ci, li))
				}
				for qi, quiz := range level.Quizzes {
					where := fmt.Sprintf("topic[%d].class[%d].level[%d].quiz[%d]", ti, ci, li, qi)
					if strings.TrimSpace(quiz.Title) == "" {
						problems = append(problems, where+": title is required")
					}
					if quiz.TimeLimit != nil && *quiz.TimeLimit < 1 {
						problems = append(problems, where+": time_limit must be positive")
					}
					for xi, question := range quiz.Questions {
						problems = append(problems, validateImportQuestion(fmt.Sprintf("%s.question[%d]", where, xi), question)...)
					}
				}
			}
		}
	}
	return problems
}

func validateImportQuestion(where string, question dto.QuestionImport) []string {
	var problems []string
	if strings.TrimSpace(question.Question) == "" {
		problems = append(problems, where+": question text is required")
	}
	if len(question.Options) < 2 {
		problems = append(problems, where+": at least two options are required")
	}
	switch {
	case question.Answer == nil:
		problems = append(problems, where+": answer index is required")
	case *question.Answer < 0 || *question.Answer >= len(question.Options):
		problems = append(problems, fmt.Sprintf("%s: answer index %d out of range", where, *question.Answer))
	}
	return problems
}
