package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
)

func TestCreateSurveyPublishWithQuestionsSucceeds(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)

	draft, err := f.surveys.Create(teacher, dto.SurveyFormDTO{Title: "Курс алгоритмів", Action: "draft"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	f.question(t, draft.ID, "Оцініть лекції", model.QuestionSingle, 0, "Добре", "Погано")

	published, err := f.surveys.Update(teacher, draft.ID, dto.SurveyFormDTO{Title: "Курс алгоритмів", Action: "publish"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != string(model.SurveyPublished) {
		t.Fatalf("expected published, got %s", published.Status)
	}
}

func TestCreateSurveyPublishWithoutQuestionsStaysDraft(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)

	resp, err := f.surveys.Create(teacher, dto.SurveyFormDTO{Title: "Порожнє", Discipline: "Фізика", Action: "publish"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Form) != 1 || verr.Form[0].Key != i18n.KeySurveyPublishEmpty {
		t.Fatalf("unexpected form errors: %+v", verr.Form)
	}
	if len(verr.Notices) != 1 || verr.Notices[0].Key != i18n.KeySurveyAddQuestion {
		t.Fatalf("unexpected notices: %+v", verr.Notices)
	}
	if resp == nil || resp.Status != string(model.SurveyDraft) {
		t.Fatalf("expected draft survey in response, got %+v", resp)
	}

	var stored model.Survey
	if err := f.db.First(&stored, resp.ID).Error; err != nil {
		t.Fatalf("load survey: %v", err)
	}
	if stored.Status != model.SurveyDraft {
		t.Fatalf("stored status = %s, want draft", stored.Status)
	}
	if stored.Discipline != "Фізика" {
		t.Fatalf("field changes should be kept, got discipline %q", stored.Discipline)
	}
}

func TestSurveyFormRejectsEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)

	_, err := f.surveys.Create(teacher, dto.SurveyFormDTO{
		Title:     "Дати",
		StartDate: "2026-06-10T10:00",
		EndDate:   "2026-06-01T10:00",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msgs := verr.Fields["end_date"]; len(msgs) != 1 || msgs[0].Key != i18n.KeySurveyEndBeforeStart {
		t.Fatalf("unexpected end_date errors: %+v", verr.Fields)
	}
	var count int64
	f.db.Model(&model.Survey{}).Count(&count)
	if count != 0 {
		t.Fatalf("nothing should be written, found %d surveys", count)
	}
}

func TestSurveyFormRequiresTitle(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)

	_, err := f.surveys.Create(teacher, dto.SurveyFormDTO{Title: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["title"]) == 0 {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestUpdateForeignSurveyIsNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "olena", model.RoleTeacher)
	other := f.user(t, "petro", model.RoleTeacher)
	s := f.survey(t, owner, "Чуже", model.SurveyDraft)

	if _, err := f.surveys.Update(other, s.ID, dto.SurveyFormDTO{Title: "Захоплено"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.surveys.GetOwned(other, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on GetOwned, got %v", err)
	}
}

func TestAuthoringRequiresTeacherRole(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, "ivan", model.RoleStudent)

	if _, err := f.surveys.Create(student, dto.SurveyFormDTO{Title: "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.surveys.Dashboard(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestListOwnedPaginates(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)
	other := f.user(t, "petro", model.RoleTeacher)
	for i := 0; i < 12; i++ {
		f.survey(t, teacher, fmt.Sprintf("Опитування %d", i), model.SurveyDraft)
	}
	f.survey(t, other, "Не моє", model.SurveyDraft)

	first, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if first.TotalCount != 12 || first.TotalPages != 2 || len(first.Surveys) != ManagePageSize {
		t.Fatalf("unexpected first page: total=%d pages=%d len=%d", first.TotalCount, first.TotalPages, len(first.Surveys))
	}
	if first.Surveys[0].Title != "Опитування 11" {
		t.Fatalf("newest survey should come first, got %q", first.Surveys[0].Title)
	}
	if !first.HasNext || first.HasPrevious {
		t.Fatalf("unexpected navigation flags on page 1")
	}

	second, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{Page: "2"})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second.Surveys) != 2 || second.HasNext || !second.HasPrevious {
		t.Fatalf("unexpected second page: %+v", second)
	}

	if _, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{Page: "3"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("out of range page should be not found, got %v", err)
	}
	if _, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{Page: "abc"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("malformed page should be not found, got %v", err)
	}
}

func TestListOwnedFilters(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)
	f.survey(t, teacher, "Фізика весна", model.SurveyPublished, func(s *model.Survey) {
		s.Discipline = "Фізика"
		s.StartDate = ptrTime(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		s.EndDate = ptrTime(time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC))
	})
	f.survey(t, teacher, "Фізика осінь", model.SurveyDraft, func(s *model.Survey) {
		s.Discipline = "Фізика"
		s.StartDate = ptrTime(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	})
	f.survey(t, teacher, "Хімія", model.SurveyPublished, func(s *model.Survey) {
		s.Discipline = "Хімія"
	})

	page, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{Status: "published", Discipline: "Фізика"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Surveys) != 1 || page.Surveys[0].Title != "Фізика весна" {
		t.Fatalf("unexpected filtered result: %+v", page.Surveys)
	}
	if page.FiltersQuery != "discipline=%D0%A4%D1%96%D0%B7%D0%B8%D0%BA%D0%B0&status=published" {
		t.Fatalf("unexpected filters query %q", page.FiltersQuery)
	}
	if len(page.DisciplineChoices) != 2 || page.DisciplineChoices[0] != "Фізика" {
		t.Fatalf("unexpected discipline choices %v", page.DisciplineChoices)
	}

	// The end bound is inclusive of the whole day.
	page, err = f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{EndDate: "2026-03-31"})
	if err != nil {
		t.Fatalf("list by end date: %v", err)
	}
	if len(page.Surveys) != 1 || page.Surveys[0].Title != "Фізика весна" {
		t.Fatalf("unexpected end-date result: %+v", page.Surveys)
	}

	page, err = f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{StartDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("list by start date: %v", err)
	}
	if len(page.Surveys) != 1 || page.Surveys[0].Title != "Фізика осінь" {
		t.Fatalf("unexpected start-date result: %+v", page.Surveys)
	}
}

func TestListOwnedIgnoresInvalidFilterSet(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)
	f.survey(t, teacher, "A", model.SurveyDraft, func(s *model.Survey) { s.Discipline = "Фізика" })
	f.survey(t, teacher, "B", model.SurveyPublished)

	page, err := f.surveys.ListOwned(teacher, dto.SurveyFilterDTO{Status: "draft", Discipline: "Астрологія"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.FilterErrors["discipline"]) != 1 {
		t.Fatalf("expected a discipline error, got %v", page.FilterErrors)
	}
	if page.TotalCount != 2 {
		t.Fatalf("invalid filters must not apply, got %d surveys", page.TotalCount)
	}
}

func TestDashboardCounts(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)
	for i := 0; i < 4; i++ {
		f.survey(t, teacher, fmt.Sprintf("Чернетка %d", i), model.SurveyDraft)
	}
	for i := 0; i < 3; i++ {
		f.survey(t, teacher, fmt.Sprintf("Активне %d", i), model.SurveyPublished)
	}

	dash, err := f.surveys.Dashboard(teacher)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.SurveyCount != 7 || dash.ActiveCount != 3 {
		t.Fatalf("unexpected counts: %+v", dash)
	}
	if len(dash.LatestSurveys) != 5 {
		t.Fatalf("expected 5 latest surveys, got %d", len(dash.LatestSurveys))
	}
}

func TestStudentSurveysListsOnlyOpenUncompleted(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "olena", model.RoleTeacher)
	student := f.user(t, "ivan", model.RoleStudent)

	open := f.survey(t, teacher, "Відкрите", model.SurveyPublished, func(s *model.Survey) {
		s.StartDate = ptrTime(testNow.Add(-time.Hour))
		s.EndDate = ptrTime(testNow.Add(time.Hour))
	})
	f.survey(t, teacher, "Чернетка", model.SurveyDraft)
	f.survey(t, teacher, "Майбутнє", model.SurveyPublished, func(s *model.Survey) {
		s.StartDate = ptrTime(testNow.Add(24 * time.Hour))
	})
	f.survey(t, teacher, "Минуле", model.SurveyPublished, func(s *model.Survey) {
		s.EndDate = ptrTime(testNow.Add(-24 * time.Hour))
	})
	done := f.survey(t, teacher, "Пройдене", model.SurveyPublished)
	finished := testNow.Add(-time.Minute)
	if err := f.db.Omit("User", "Survey", "Answers").Create(&model.ResponseSession{
		UserID: student.ID, SurveyID: done.ID, Status: model.SessionCompleted,
		StartedAt: testNow.Add(-time.Hour), CompletedAt: &finished,
	}).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	surveys, err := f.surveys.StudentSurveys(student)
	if err != nil {
		t.Fatalf("student surveys: %v", err)
	}
	if len(surveys) != 1 || surveys[0].ID != open.ID {
		t.Fatalf("expected only the open survey, got %+v", surveys)
	}

	if _, err := f.surveys.StudentSurveys(teacher); !errors.Is(err, ErrForbidden) {
		t.Fatalf("teachers do not get the student list, got %v", err)
	}
}
