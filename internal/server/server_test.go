package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/internal/cache"
	"github.com/lshigami/feedback-survey/internal/controller/account"
	"github.com/lshigami/feedback-survey/internal/controller/analytics"
	"github.com/lshigami/feedback-survey/internal/controller/student"
	"github.com/lshigami/feedback-survey/internal/controller/teacher"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/lshigami/feedback-survey/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&model.User{}, &model.Survey{}, &model.Question{}, &model.Choice{}, &model.ResponseSession{}, &model.Answer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Server: config.Server{Mode: gin.TestMode},
		Auth:   config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}
	users := repository.NewUserRepository(db)
	surveys := repository.NewSurveyRepository(db)
	questions := repository.NewQuestionRepository(db)
	choices := repository.NewChoiceRepository(db)
	sessions := repository.NewResponseSessionRepository(db)
	answers := repository.NewAnswerRepository(db)

	authSvc := service.NewAuthService(users, service.NewTokenService(cfg), cache.NewMemoryDenylist(), cfg)
	surveySvc := service.NewSurveyService(surveys, questions, db)

	router := NewGinEngine(cfg)
	RegisterRoutes(router, authSvc, Controllers{
		Account:   account.NewAccountController(authSvc, cfg),
		Survey:    teacher.NewSurveyController(surveySvc, service.NewQuestionBuilderService(surveys, questions, choices, db)),
		Response:  student.NewResponseController(surveySvc, service.NewResponseService(surveys, questions, choices, sessions, answers, db)),
		Analytics: analytics.NewAnalyticsController(service.NewAnalyticsService()),
	})
	return &testApp{router: router, db: db}
}

func (a *testApp) do(t *testing.T, method, target, token string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case url.Values:
		reader = bytes.NewReader([]byte(b.Encode()))
		contentType = "application/x-www-form-urlencoded"
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, username, role string) dto.AuthResponseDTO {
	t.Helper()
	w := a.do(t, http.MethodPost, "/accounts/register/", "", dto.RegisterRequest{
		Username:        username,
		Email:           username + "@example.edu",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		Role:            role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var resp dto.AuthResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	if w := app.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz status %d", w.Code)
	}
}

func TestAnonymousCallerGetsLoginURL(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/surveys/teacher/surveys/?status=draft", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	want := "/accounts/login/?next=%2Fsurveys%2Fteacher%2Fsurveys%2F%3Fstatus%3Ddraft"
	if resp.LoginURL != want {
		t.Fatalf("login url %q, want %q", resp.LoginURL, want)
	}
	if resp.Message != "Увійдіть, щоб продовжити." {
		t.Fatalf("default locale is Ukrainian, got %q", resp.Message)
	}
}

func TestStudentIsForbiddenFromAuthoring(t *testing.T) {
	app := newTestApp(t)
	st := app.register(t, "ivan", "student")
	w := app.do(t, http.MethodGet, "/surveys/teacher/", st.Token, nil, "Accept-Language", "en-US,en;q=0.9")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	if resp.Message != "You do not have permission to perform this action." {
		t.Fatalf("expected English message, got %q", resp.Message)
	}
}

func TestLoginAndRedirectAfterLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "olena", "teacher")

	w := app.do(t, http.MethodPost, "/accounts/login/", "", dto.LoginRequest{Username: "olena", Password: "wrong"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad credentials: status %d", w.Code)
	}

	w = app.do(t, http.MethodPost, "/accounts/login/", "", dto.LoginRequest{Username: "olena", Password: "s3cret-pass"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var login dto.AuthResponseDTO
	decode(t, w, &login)
	if login.RedirectTo != "/surveys/teacher/" {
		t.Fatalf("unexpected redirect %q", login.RedirectTo)
	}

	w = app.do(t, http.MethodGet, "/accounts/redirect-after-login/", login.Token, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/surveys/teacher/" {
		t.Fatalf("redirect after login: %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	st := app.register(t, "ivan", "student")

	w := app.do(t, http.MethodPost, "/accounts/logout/", st.Token, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/accounts/login/" {
		t.Fatalf("logout: %d %q", w.Code, w.Header().Get("Location"))
	}
	if w := app.do(t, http.MethodGet, "/surveys/student/", st.Token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token should be anonymous, got %d", w.Code)
	}
}

func TestAuthoringAndTakingFlow(t *testing.T) {
	app := newTestApp(t)
	author := app.register(t, "olena", "teacher")
	st := app.register(t, "ivan", "student")

	// Publishing an empty survey is refused but the draft is kept.
	w := app.do(t, http.MethodPost, "/surveys/teacher/surveys/create/", author.Token, dto.SurveyFormDTO{Title: "Курс", Action: "publish"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("publish empty: status %d body %s", w.Code, w.Body.String())
	}
	var refused struct {
		Data     dto.SurveyResponseDTO `json:"data"`
		Messages []dto.MessageDTO      `json:"messages"`
	}
	decode(t, w, &refused)
	if refused.Data.ID == 0 || refused.Data.Status != "draft" || len(refused.Messages) != 2 {
		t.Fatalf("unexpected refusal payload %s", w.Body.String())
	}
	surveyID := refused.Data.ID
	surveyPath := "/surveys/teacher/surveys/" + itoa(surveyID)

	w = app.do(t, http.MethodPost, surveyPath+"/questions/", author.Token, dto.QuestionBuilderSubmitDTO{
		Questions: []dto.QuestionFormDTO{{Text: "Чи сподобався курс?", QuestionType: "single"}},
		Choices: map[string][]dto.ChoiceFormDTO{
			service.NewQuestionKey(0): {{Text: "Так"}, {Text: "Ні"}},
		},
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != surveyPath+"/questions/" {
		t.Fatalf("save builder: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, surveyPath+"/edit/", author.Token, dto.SurveyFormDTO{Title: "Курс", Action: "publish"})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/surveys/teacher/surveys/" {
		t.Fatalf("publish: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/surveys/student/", st.Token, nil)
	var available []dto.SurveyResponseDTO
	decode(t, w, &available)
	if len(available) != 1 || available[0].ID != surveyID {
		t.Fatalf("student list: %s", w.Body.String())
	}

	takePath := "/responses/take/" + itoa(surveyID) + "/"
	w = app.do(t, http.MethodGet, takePath, st.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("take: %d %s", w.Code, w.Body.String())
	}
	var take struct {
		Data dto.TakeSurveyDTO `json:"data"`
	}
	decode(t, w, &take)
	q := take.Data.Questions[0]

	w = app.do(t, http.MethodPost, takePath, st.Token, url.Values{})
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "потребує відповіді") {
		t.Fatalf("empty submit: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, takePath, st.Token, url.Values{
		service.FormKey(q.ID): {itoa(q.Choices[0].ID)},
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/responses/thank-you/"+itoa(surveyID)+"/" {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/surveys/student/", st.Token, nil)
	decode(t, w, &available)
	if len(available) != 0 {
		t.Fatalf("completed survey must leave the student list: %s", w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/analytics/", st.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("analytics for student: %d", w.Code)
	}
	w = app.do(t, http.MethodGet, "/analytics/", author.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics for teacher: %d", w.Code)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	app := newTestApp(t)
	st := app.register(t, "ivan", "student")
	if w := app.do(t, http.MethodGet, "/responses/take/abc/", st.Token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
