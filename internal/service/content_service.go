package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/rs/zerolog/log"
)

// ContentService serves the taxonomy browsing views and the admin quiz
// editor on top of the content repository.
type ContentService interface {
	Subjects() ([]dto.SubjectDTO, error)
	Subject(id uint) (*dto.SubjectDTO, error)
	Topic(id uint) (*dto.TopicDTO, error)
	Class(id uint) (*dto.ClassDTO, error)
	Level(id uint, isAdmin bool) (*dto.LevelDTO, error)
	QuizDetail(id uint) (*dto.QuizDetailDTO, error)

	AllQuizzesAdmin() ([]dto.AdminQuizDTO, error)
	QuizAdmin(id uint) (*dto.AdminQuizDTO, error)
	UpdateQuizMeta(id uint, req dto.QuizMetaUpdateRequest) error
	ToggleVisibility(id uint) (*dto.VisibilityDTO, error)
	AddQuestion(quizID uint, req dto.QuestionRequest) (*dto.AdminQuestionDTO, error)
	UpdateQuestion(id uint, req dto.QuestionRequest) error
	DeleteQuestion(id uint) error
	DeleteQuiz(id uint) error
	DeleteSubject(id uint) error
}

type contentService struct {
	contentRepo repository.ContentRepository
}

func NewContentService(contentRepo repository.ContentRepository) ContentService {
	return &contentService{contentRepo: contentRepo}
}

func namedRefs[T any](items []T, ref func(T) dto.NamedRefDTO) []dto.NamedRefDTO {
	refs := make([]dto.NamedRefDTO, 0, len(items))
	for _, item := range items {
		refs = append(refs, ref(item))
	}
	return refs
}

func (s *contentService) Subjects() ([]dto.SubjectDTO, error) {
	subjects, err := s.contentRepo.ListSubjects()
	if err != nil {
		log.Error().Err(err).Msg("Subjects: repository failure")
		return nil, fmt.Errorf("error fetching subjects: %w", err)
	}
	dtos := make([]dto.SubjectDTO, 0, len(subjects))
	for _, subject := range subjects {
		dtos = append(dtos, subjectDTO(&subject))
	}
	return dtos, nil
}

func subjectDTO(subject *model.Subject) dto.SubjectDTO {
	return dto.SubjectDTO{
		ID:   subject.ID,
		Name: subject.Name,
		Topics: namedRefs(subject.Topics, func(t model.Topic) dto.NamedRefDTO {
			return dto.NamedRefDTO{ID: t.ID, Name: t.Name}
		}),
	}
}

func (s *contentService) Subject(id uint) (*dto.SubjectDTO, error) {
	subject, err := s.contentRepo.SubjectByID(id)
	if err != nil {
		return nil, err
	}
	resp := subjectDTO(subject)
	return &resp, nil
}

func (s *contentService) Topic(id uint) (*dto.TopicDTO, error) {
	topic, err := s.contentRepo.TopicByID(id)
	if err != nil {
		return nil, err
	}
	return &dto.TopicDTO{
		ID:         topic.ID,
		Name:       topic.Name,
		Breadcrumb: []string{topic.Subject.Name, topic.Name},
		Classes: namedRefs(topic.Classes, func(c model.Class) dto.NamedRefDTO {
			return dto.NamedRefDTO{ID: c.ID, Name: c.Name}
		}),
	}, nil
}

func (s *contentService) Class(id uint) (*dto.ClassDTO, error) {
	class, err := s.contentRepo.ClassByID(id)
	if err != nil {
		return nil, err
	}
	return &dto.ClassDTO{
		ID:         class.ID,
		Name:       class.Name,
		Breadcrumb: []string{class.Topic.Subject.Name, class.Topic.Name, class.Name},
		Levels: namedRefs(class.Levels, func(l model.Level) dto.NamedRefDTO {
			return dto.NamedRefDTO{ID: l.ID, Name: l.Name}
		}),
	}, nil
}

// Level returns the level with its quiz listing. Hidden quizzes are filtered
// out for non-admin callers but stay reachable by ID.
func (s *contentService) Level(id uint, isAdmin bool) (*dto.LevelDTO, error) {
	level, err := s.contentRepo.LevelByID(id)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.contentRepo.QuizzesByLevel(id, isAdmin)
	if err != nil {
		log.Error().Err(err).Uint("levelID", id).Msg("Level: fetching quizzes failed")
		return nil, fmt.Errorf("error fetching quizzes for level %d: %w", id, err)
	}
	summaries := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, dto.QuizSummaryDTO{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Description:   quiz.Description,
			TimeLimit:     quiz.TimeLimit,
			QuestionCount: len(quiz.Questions),
			IsVisible:     quiz.IsVisible,
		})
	}
	return &dto.LevelDTO{
		ID:         level.ID,
		Name:       level.Name,
		Breadcrumb: []string{level.Class.Topic.Subject.Name, level.Class.Topic.Name, level.Class.Name, level.Name},
		Quizzes:    summaries,
	}, nil
}

func breadcrumb(quiz *model.Quiz) []string {
	if quiz.Level == nil {
		return nil
	}
	level := quiz.Level
	return []string{level.Class.Topic.Subject.Name, level.Class.Topic.Name, level.Class.Name, level.Name}
}

// QuizDetail is the taker-facing view: options in presentation order, the
// correct flag withheld.
func (s *contentService) QuizDetail(id uint) (*dto.QuizDetailDTO, error) {
	quiz, err := s.contentRepo.QuizByID(id)
	if err != nil {
		return nil, err
	}
	questions := make([]dto.QuestionViewDTO, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		questions = append(questions, dto.QuestionViewDTO{
			ID:       question.ID,
			Question: question.Text,
			Options:  question.Options(),
		})
	}
	return &dto.QuizDetailDTO{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		TimeLimit:   quiz.TimeLimit,
		IsVisible:   quiz.IsVisible,
		Breadcrumb:  breadcrumb(quiz),
		Questions:   questions,
	}, nil
}

func adminQuizDTO(quiz *model.Quiz) dto.AdminQuizDTO {
	var resp dto.AdminQuizDTO
	copier.Copy(&resp, quiz)
	resp.Breadcrumb = breadcrumb(quiz)
	resp.Questions = make([]dto.AdminQuestionDTO, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		resp.Questions = append(resp.Questions, dto.AdminQuestionDTO{
			ID:           question.ID,
			Question:     question.Text,
			Options:      question.Options(),
			CorrectIndex: question.CorrectIndex(),
			Explanation:  question.Explanation,
		})
	}
	return resp
}

func (s *contentService) AllQuizzesAdmin() ([]dto.AdminQuizDTO, error) {
	quizzes, err := s.contentRepo.AllQuizzes()
	if err != nil {
		log.Error().Err(err).Msg("AllQuizzesAdmin: repository failure")
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}
	dtos := make([]dto.AdminQuizDTO, 0, len(quizzes))
	for i := range quizzes {
		dtos = append(dtos, adminQuizDTO(&quizzes[i]))
	}
	return dtos, nil
}

func (s *contentService) QuizAdmin(id uint) (*dto.AdminQuizDTO, error) {
	quiz, err := s.contentRepo.QuizByID(id)
	if err != nil {
		return nil, err
	}
	resp := adminQuizDTO(quiz)
	return &resp, nil
}

func (s *contentService) UpdateQuizMeta(id uint, req dto.QuizMetaUpdateRequest) error {
	return s.contentRepo.UpdateQuizMeta(id, req.Title, req.Description, req.TimeLimit)
}

func (s *contentService) ToggleVisibility(id uint) (*dto.VisibilityDTO, error) {
	visible, err := s.contentRepo.ToggleQuizVisibility(id)
	if err != nil {
		return nil, err
	}
	return &dto.VisibilityDTO{QuizID: id, IsVisible: *visible}, nil
}

// validateQuestion enforces the one-correct-option invariant at write time
// instead of papering over it at scoring time.
func validateQuestion(req dto.QuestionRequest) error {
	if len(req.Options) < 2 {
		return fmt.Errorf("a question needs at least two options: %w", errs.ErrValidation)
	}
	if req.Answer == nil || *req.Answer < 0 || *req.Answer >= len(req.Options) {
		return fmt.Errorf("correct option index out of range: %w", errs.ErrValidation)
	}
	return nil
}

func (s *contentService) AddQuestion(quizID uint, req dto.QuestionRequest) (*dto.AdminQuestionDTO, error) {
	if err := validateQuestion(req); err != nil {
		return nil, err
	}
	question, err := s.contentRepo.AddQuestion(quizID, req.Question, req.Explanation, req.Options, *req.Answer)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("AddQuestion: repository failure")
		return nil, err
	}
	return &dto.AdminQuestionDTO{
		ID:           question.ID,
		Question:     req.Question,
		Options:      req.Options,
		CorrectIndex: *req.Answer,
		Explanation:  req.Explanation,
	}, nil
}

func (s *contentService) UpdateQuestion(id uint, req dto.QuestionRequest) error {
	if err := validateQuestion(req); err != nil {
		return err
	}
	return s.contentRepo.UpdateQuestion(id, req.Question, req.Explanation, req.Options, *req.Answer)
}

func (s *contentService) DeleteQuestion(id uint) error {
	return s.contentRepo.DeleteQuestion(id)
}

func (s *contentService) DeleteQuiz(id uint) error {
	return s.contentRepo.DeleteQuiz(id)
}

func (s *contentService) DeleteSubject(id uint) error {
	return s.contentRepo.DeleteSubject(id)
}
