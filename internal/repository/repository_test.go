package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/lshigami/feedback-survey/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&model.User{}, &model.Survey{}, &model.Question{}, &model.Choice{}, &model.ResponseSession{}, &model.Answer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateSurvey(t *testing.T, repo SurveyRepository, s *model.Survey) *model.Survey {
	t.Helper()
	if err := repo.Create(s); err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return s
}

func day(y int, m time.Month, d, h int) *time.Time {
	v := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &v
}

func TestSurveyFilterDateBoundsAreCalendarDays(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db)
	inside := mustCreateSurvey(t, repo, &model.Survey{AuthorID: 1, Title: "inside", StartDate: day(2026, 4, 1, 23), EndDate: day(2026, 4, 30, 23)})
	mustCreateSurvey(t, repo, &model.Survey{AuthorID: 1, Title: "early", StartDate: day(2026, 3, 31, 23), EndDate: day(2026, 4, 10, 0)})
	mustCreateSurvey(t, repo, &model.Survey{AuthorID: 1, Title: "late", StartDate: day(2026, 4, 2, 0), EndDate: day(2026, 5, 1, 0)})
	mustCreateSurvey(t, repo, &model.Survey{AuthorID: 2, Title: "other author", StartDate: day(2026, 4, 5, 0), EndDate: day(2026, 4, 6, 0)})

	surveys, total, err := repo.FindPage(SurveyFilter{
		AuthorID:  1,
		StartFrom: day(2026, 4, 1, 12),
		EndUntil:  day(2026, 4, 30, 0),
	}, 0, 10)
	if err != nil {
		t.Fatalf("find page: %v", err)
	}
	if total != 1 || len(surveys) != 1 || surveys[0].ID != inside.ID {
		t.Fatalf("expected only %q, got %d results %+v", inside.Title, total, surveys)
	}
}

func TestDisciplinesAreDistinctAndSorted(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db)
	for _, d := range []string{"Хімія", "Фізика", "", "Хімія"} {
		mustCreateSurvey(t, repo, &model.Survey{AuthorID: 1, Title: "s", Discipline: d})
	}
	mustCreateSurvey(t, repo, &model.Survey{AuthorID: 2, Title: "s", Discipline: "Історія"})

	got, err := repo.Disciplines(1)
	if err != nil {
		t.Fatalf("disciplines: %v", err)
	}
	if len(got) != 2 || got[0] != "Фізика" || got[1] != "Хімія" {
		t.Fatalf("unexpected disciplines %v", got)
	}
}

func TestFindLatestSession(t *testing.T) {
	db := newTestDB(t)
	repo := NewResponseSessionRepository(db)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, status := range []model.SessionStatus{model.SessionInProgress, model.SessionInProgress, model.SessionAbandoned} {
		s := &model.ResponseSession{UserID: 1, SurveyID: 1, Status: status, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Create(s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	latest, err := repo.FindLatest(1, 1, model.SessionInProgress)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if !latest.StartedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected the newest in-progress session, got %v", latest.StartedAt)
	}
	if _, err := repo.FindLatest(1, 1, model.SessionCompleted); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestFindForQuestionChecksOwnership(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	q1 := &model.Question{SurveyID: 1, Text: "q1", QuestionType: model.QuestionSingle}
	q2 := &model.Question{SurveyID: 1, Text: "q2", QuestionType: model.QuestionSingle}
	for _, q := range []*model.Question{q1, q2} {
		if err := questions.Create(q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	c := &model.Choice{QuestionID: q1.ID, Text: "yes"}
	if err := choices.Create(c); err != nil {
		t.Fatalf("create choice: %v", err)
	}

	if _, err := choices.FindForQuestion(c.ID, q1.ID); err != nil {
		t.Fatalf("own choice: %v", err)
	}
	if _, err := choices.FindForQuestion(c.ID, q2.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign choice should not be found, got %v", err)
	}
}

func TestQuestionsAreOrderedBySortOrderThenID(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionRepository(db)
	for _, q := range []model.Question{
		{SurveyID: 1, Text: "b", QuestionType: model.QuestionText, Order: 2},
		{SurveyID: 1, Text: "a", QuestionType: model.QuestionText, Order: 1},
		{SurveyID: 1, Text: "c", QuestionType: model.QuestionText, Order: 2},
	} {
		q := q
		if err := repo.Create(&q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	got, err := repo.FindBySurveyIDWithChoices(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 3 || got[0].Text != "a" || got[1].Text != "b" || got[2].Text != "c" {
		t.Fatalf("unexpected order %+v", got)
	}
	if n, _ := repo.CountBySurveyID(1); n != 3 {
		t.Fatalf("count = %d", n)
	}
}
