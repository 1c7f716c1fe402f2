package service

import (
	"testing"
	"time"

	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.User{},
		&model.Survey{},
		&model.Question{},
		&model.Choice{},
		&model.ResponseSession{},
		&model.Answer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	surveys   *surveyService
	builder   *questionBuilderService
	responses *responseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	surveyRepo := repository.NewSurveyRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	choiceRepo := repository.NewChoiceRepository(db)
	sessionRepo := repository.NewResponseSessionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)

	surveys := NewSurveyService(surveyRepo, questionRepo, db).(*surveyService)
	surveys.now = func() time.Time { return testNow }
	responses := NewResponseService(surveyRepo, questionRepo, choiceRepo, sessionRepo, answerRepo, db).(*responseService)
	responses.now = func() time.Time { return testNow }

	return &fixture{
		db:        db,
		surveys:   surveys,
		builder:   NewQuestionBuilderService(surveyRepo, questionRepo, choiceRepo, db).(*questionBuilderService),
		responses: responses,
	}
}

func (f *fixture) user(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.edu", Role: role, PasswordHash: "x"}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) survey(t *testing.T, author *model.User, title string, status model.SurveyStatus, mutate ...func(*model.Survey)) *model.Survey {
	t.Helper()
	s := &model.Survey{AuthorID: author.ID, Title: title, Status: status}
	for _, m := range mutate {
		m(s)
	}
	if err := f.db.Omit("Questions", "Sessions", "Author").Create(s).Error; err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return s
}

func (f *fixture) question(t *testing.T, surveyID uint, text string, qType model.QuestionType, order int, choices ...string) model.Question {
	t.Helper()
	q := model.Question{SurveyID: surveyID, Text: text, QuestionType: qType, Order: order}
	if err := f.db.Omit("Choices").Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	for i, text := range choices {
		c := model.Choice{QuestionID: q.ID, Text: text, Order: i}
		if err := f.db.Create(&c).Error; err != nil {
			t.Fatalf("create choice: %v", err)
		}
		q.Choices = append(q.Choices, c)
	}
	return q
}

func (f *fixture) answerCount(t *testing.T, sessionID uint) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.Answer{}).Where("response_session_id = ?", sessionID).Count(&n).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	return n
}

func ptrTime(t time.Time) *time.Time { return &t }
