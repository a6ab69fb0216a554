package repository

import (
	"testing"

	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database with the full schema. Single
// connection so every query sees the same in-memory store.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.Subject{},
		&model.Topic{},
		&model.Class{},
		&model.Level{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.User{},
		&model.QuizAttempt{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// seedQuiz builds one full subject chain with a quiz of two questions and
// returns the quiz.
func seedQuiz(t *testing.T, db *gorm.DB, title string) *model.Quiz {
	t.Helper()
	subject := model.Subject{Name: "Mathematics"}
	if err := db.FirstOrCreate(&subject, model.Subject{Name: subject.Name}).Error; err != nil {
		t.Fatalf("seeding subject: %v", err)
	}
	topic := model.Topic{Name: "Algebra", SubjectID: subject.ID}
	if err := db.FirstOrCreate(&topic, model.Topic{Name: topic.Name, SubjectID: subject.ID}).Error; err != nil {
		t.Fatalf("seeding topic: %v", err)
	}
	class := model.Class{Name: "Grade 5", TopicID: topic.ID}
	if err := db.FirstOrCreate(&class, model.Class{Name: class.Name, TopicID: topic.ID}).Error; err != nil {
		t.Fatalf("seeding class: %v", err)
	}
	level := model.Level{Name: "Beginner", ClassID: class.ID}
	if err := db.FirstOrCreate(&level, model.Level{Name: level.Name, ClassID: class.ID}).Error; err != nil {
		t.Fatalf("seeding level: %v", err)
	}

	quiz := model.Quiz{Title: title, TimeLimit: 10, IsVisible: true, LevelID: &level.ID}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seeding quiz: %v", err)
	}
	for i := 0; i < 2; i++ {
		question := model.Question{QuizID: quiz.ID, Text: "q?"}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("seeding question: %v", err)
		}
		for j, text := range []string{"a", "b"} {
			answer := model.Answer{QuestionID: question.ID, Text: text, IsCorrect: j == 0}
			if err := db.Create(&answer).Error; err != nil {
				t.Fatalf("seeding answer: %v", err)
			}
		}
	}
	return &quiz
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin bool) *model.User {
	t.Helper()
	user := model.User{Username: username, PasswordHash: "x", IsAdmin: admin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return &user
}

func count(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("counting %T: %v", value, err)
	}
	return n
}

func intP(i int) *int { return &i }

func importDoc(quizTitle, description string, timeLimit int, questions ...dto.QuestionImport) dto.SubjectImport {
	return dto.SubjectImport{
		Name: "Mathematics",
		Topics: []dto.TopicImport{{
			Name: "Algebra",
			Classes: []dto.ClassImport{{
				Name: "Grade 5",
				Levels: []dto.LevelImport{{
					Name: "Beginner",
					Quizzes: []dto.QuizImport{{
						Title:       quizTitle,
						Description: description,
						TimeLimit:   intP(timeLimit),
						Questions:   questions,
					}},
				}},
			}},
		}},
	}
}
