package repository

import (
	"errors"
	"fmt"

	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"gorm.io/gorm"
)

// ContentRepository is the access layer for the Subject → Topic → Class →
// Level → Quiz → Question → Answer hierarchy. Every read returns a fully
// materialized subtree plus the ascendant chain needed for breadcrumbs; no
// lazy loading leaks to callers.
type ContentRepository interface {
	ListSubjects() ([]model.Subject, error)
	SubjectByID(id uint) (*model.Subject, error)
	TopicByID(id uint) (*model.Topic, error)
	ClassByID(id uint) (*model.Class, error)
	LevelByID(id uint) (*model.Level, error)
	QuizByID(id uint) (*model.Quiz, error)
	QuizzesByLevel(levelID uint, includeHidden bool) ([]model.Quiz, error)
	AllQuizzes() ([]model.Quiz, error)

	UpdateQuizMeta(id uint, title, description string, timeLimit int) error
	ToggleQuizVisibility(id uint) (*bool, error)
	AddQuestion(quizID uint, text, explanation string, options []string, correct int) (*model.Question, error)
	UpdateQuestion(id uint, text, explanation string, options []string, correct int) error
	DeleteQuestion(id uint) error
	DeleteQuiz(id uint) error
	DeleteSubject(id uint) error

	ImportSubject(doc dto.SubjectImport) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, errs.ErrNotFound)
	}
	return err
}

func (r *contentRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.Preload("Topics").Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *contentRepository) SubjectByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.Preload("Topics").First(&subject, id).Error; err != nil {
		return nil, notFound(err, "subject", id)
	}
	return &subject, nil
}

func (r *contentRepository) TopicByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.db.
		Preload("Classes").
		Preload("Subject").
		First(&topic, id).Error
	if err != nil {
		return nil, notFound(err, "topic", id)
	}
	return &topic, nil
}

func (r *contentRepository) ClassByID(id uint) (*model.Class, error) {
	var class model.Class
	err := r.db.
		Preload("Levels").
		Preload("Topic.Subject").
		First(&class, id).Error
	if err != nil {
		return nil, notFound(err, "class", id)
	}
	return &class, nil
}

func (r *contentRepository) LevelByID(id uint) (*model.Level, error) {
	var level model.Level
	err := r.db.
		Preload("Quizzes.Questions").
		Preload("Class.Topic.Subject").
		First(&level, id).Error
	if err != nil {
		return nil, notFound(err, "level", id)
	}
	return &level, nil
}

func (r *contentRepository) QuizByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("Level.Class.Topic.Subject").
		First(&quiz, id).Error
	if err != nil {
		return nil, notFound(err, "quiz", id)
	}
	return &quiz, nil
}

func (r *contentRepository) QuizzesByLevel(levelID uint, includeHidden bool) ([]model.Quiz, error) {
	query := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Where("level_id = ?", levelID)
	if !includeHidden {
		query = query.Where("is_visible = ?", true)
	}
	var quizzes []model.Quiz
	if err := query.Order("id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *contentRepository) AllQuizzes() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("Level.Class.Topic.Subject").
		Order("id ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *contentRepository) UpdateQuizMeta(id uint, title, description string, timeLimit int) error {
	result := r.db.Model(&model.Quiz{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
		"time_limit":  timeLimit,
	})
	if result.Error != nil {
		return fmt.Errorf("updating quiz %d: %w", id, errs.ErrPersistence)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quiz %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (r *contentRepository) ToggleQuizVisibility(id uint) (*bool, error) {
	var visible bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			return notFound(err, "quiz", id)
		}
		quiz.IsVisible = !quiz.IsVisible
		if err := tx.Model(&quiz).Update("is_visible", quiz.IsVisible).Error; err != nil {
			return fmt.Errorf("toggling quiz %d visibility: %w", id, errs.ErrPersistence)
		}
		visible = quiz.IsVisible
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &visible, nil
}

func (r *contentRepository) AddQuestion(quizID uint, text, explanation string, options []string, correct int) (*model.Question, error) {
	question := model.Question{
		QuizID:      quizID,
		Text:        text,
		Explanation: explanation,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return notFound(err, "quiz", quizID)
		}
		if err := tx.Create(&question).Error; err != nil {
			return fmt.Errorf("creating question: %w", errs.ErrPersistence)
		}
		return createAnswers(tx, question.ID, options, correct)
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *contentRepository) UpdateQuestion(id uint, text, explanation string, options []string, correct int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var question model.Question
		if err := tx.First(&question, id).Error; err != nil {
			return notFound(err, "question", id)
		}
		if err := tx.Model(&question).Updates(map[string]interface{}{
			"question":    text,
			"explanation": explanation,
		}).Error; err != nil {
			return fmt.Errorf("updating question %d: %w", id, errs.ErrPersistence)
		}
		// The answer set is replaced as one unit; patching single answers
		// would complicate the one-correct-option invariant.
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return fmt.Errorf("replacing answers for question %d: %w", id, errs.ErrPersistence)
		}
		return createAnswers(tx, id, options, correct)
	})
}

func createAnswers(tx *gorm.DB, questionID uint, options []string, correct int) error {
	for i, text := range options {
		answer := model.Answer{
			QuestionID: questionID,
			Text:       text,
			IsCorrect:  i == correct,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return fmt.Errorf("creating answer: %w", errs.ErrPersistence)
		}
	}
	return nil
}

func (r *contentRepository) DeleteQuestion(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return fmt.Errorf("deleting answers of question %d: %w", id, errs.ErrPersistence)
		}
		result := tx.Delete(&model.Question{}, id)
		if result.Error != nil {
			return fmt.Errorf("deleting question %d: %w", id, errs.ErrPersistence)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("question %d: %w", id, errs.ErrNotFound)
		}
		return nil
	})
}

func (r *contentRepository) DeleteQuiz(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizAttempt{}).Error; err != nil {
			return fmt.Errorf("deleting attempts of quiz %d: %w", id, errs.ErrPersistence)
		}
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return fmt.Errorf("listing questions of quiz %d: %w", id, errs.ErrPersistence)
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return fmt.Errorf("deleting answers of quiz %d: %w", id, errs.ErrPersistence)
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return fmt.Errorf("deleting questions of quiz %d: %w", id, errs.ErrPersistence)
			}
		}
		result := tx.Delete(&model.Quiz{}, id)
		if result.Error != nil {
			return fmt.Errorf("deleting quiz %d: %w", id, errs.ErrPersistence)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("quiz %d: %w", id, errs.ErrNotFound)
		}
		return nil
	})
}

func (r *contentRepository) DeleteSubject(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var subject model.Subject
		err := tx.
			Preload("Topics.Classes.Levels.Quizzes").
			First(&subject, id).Error
		if err != nil {
			return notFound(err, "subject", id)
		}
		for _, topic := range subject.Topics {
			for _, class := range topic.Classes {
				for _, level := range class.Levels {
					for _, quiz := range level.Quizzes {
						if err := deleteQuizTx(tx, quiz.ID); err != nil {
							return err
						}
					}
					if err := tx.Delete(&model.Level{}, level.ID).Error; err != nil {
						return fmt.Errorf("deleting level %d: %w", level.ID, errs.ErrPersistence)
					}
				}
				if err := tx.Delete(&model.Class{}, class.ID).Error; err != nil {
					return fmt.Errorf("deleting class %d: %w", class.ID, errs.ErrPersistence)
				}
			}
			if err := tx.Delete(&model.Topic{}, topic.ID).Error; err != nil {
				return fmt.Errorf("deleting topic %d: %w", topic.ID, errs.ErrPersistence)
			}
		}
		if err := tx.Delete(&model.Subject{}, id).Error; err != nil {
			return fmt.Errorf("deleting subject %d: %w", id, errs.ErrPersistence)
		}
		return nil
	})
}

func deleteQuizTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizAttempt{}).Error; err != nil {
		return fmt.Errorf("deleting attempts of quiz %d: %w", id, errs.ErrPersistence)
	}
	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
		return fmt.Errorf("listing questions of quiz %d: %w", id, errs.ErrPersistence)
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return fmt.Errorf("deleting answers of quiz %d: %w", id, errs.ErrPersistence)
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return fmt.Errorf("deleting questions of quiz %d: %w", id, errs.ErrPersistence)
		}
	}
	if err := tx.Delete(&model.Quiz{}, id).Error; err != nil {
		return fmt.Errorf("deleting quiz %d: %w", id, errs.ErrPersistence)
	}
	return nil
}

// ImportSubject applies a validated bulk-upload document in one transaction.
// Nodes are matched by natural key (name within parent, quiz title within
// level); existing quizzes get their description and time limit updated and
// their question set fully replaced.
func (r *contentRepository) ImportSubject(doc dto.SubjectImport) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		subject, err := findOrCreateSubject(tx, doc.Name)
		if err != nil {
			return err
		}
		for _, topicDoc := range doc.Topics {
			topic, err := findOrCreateTopic(tx, subject.ID, topicDoc.Name)
			if err != nil {
				return err
			}
			for _, classDoc := range topicDoc.Classes {
				class, err := findOrCreateClass(tx, topic.ID, classDoc.Name)
				if err != nil {
					return err
				}
				for _, levelDoc := range classDoc.Levels {
					level, err := findOrCreateLevel(tx, class.ID, levelDoc.Name)
					if err != nil {
						return err
					}
					for _, quizDoc := range levelDoc.Quizzes {
						if err := upsertQuiz(tx, level.ID, quizDoc); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrPersistence) {
			return err
		}
		return fmt.Errorf("import failed: %v: %w", err, errs.ErrPersistence)
	}
	return nil
}

func findOrCreateSubject(tx *gorm.DB, name string) (*model.Subject, error) {
	var subject model.Subject
	err := tx.Where("name = ?", name).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		subject = model.Subject{Name: name}
		err = tx.Create(&subject).Error
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func findOrCreateTopic(tx *gorm.DB, subjectID uint, name string) (*model.Topic, error) {
	var topic model.Topic
	err := tx.Where("name = ? AND subject_id = ?", name, subjectID).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		topic = model.Topic{Name: name, SubjectID: subjectID}
		err = tx.Create(&topic).Error
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func findOrCreateClass(tx *gorm.DB, topicID uint, name string) (*model.Class, error) {
	var class model.Class
	err := tx.Where("name = ? AND topic_id = ?", name, topicID).First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		class = model.Class{Name: name, TopicID: topicID}
		err = tx.Create(&class).Error
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func findOrCreateLevel(tx *gorm.DB, classID uint, name string) (*model.Level, error) {
	var level model.Level
	err := tx.Where("name = ? AND class_id = ?", name, classID).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		level = model.Level{Name: name, ClassID: classID}
		err = tx.Create(&level).Error
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func upsertQuiz(tx *gorm.DB, levelID uint, doc dto.QuizImport) error {
	timeLimit := 30
	if doc.TimeLimit != nil {
		timeLimit = *doc.TimeLimit
	}

	var quiz model.Quiz
	err := tx.Where("title = ? AND level_id = ?", doc.Title, levelID).First(&quiz).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		quiz = model.Quiz{
			Title:       doc.Title,
			Description: doc.Description,
			TimeLimit:   timeLimit,
			LevelID:     &levelID,
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		// Re-import of an existing quiz: update metadata, replace questions.
		if err := tx.Model(&quiz).Updates(map[string]interface{}{
			"description": doc.Description,
			"time_limit":  timeLimit,
		}).Error; err != nil {
			return err
		}
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
	}

	for _, questionDoc := range doc.Questions {
		question := model.Question{
			QuizID:      quiz.ID,
			Text:        questionDoc.Question,
			Explanation: questionDoc.Explanation,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for i, option := range questionDoc.Options {
			answer := model.Answer{
				QuestionID: question.ID,
				Text:       option,
				IsCorrect:  i == *questionDoc.Answer,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
