package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/questforge/onboard-quest/backend/config"
	webmodels "github.com/questforge/onboard-quest/backend/models"
	webservices "github.com/questforge/onboard-quest/backend/services"
	"github.com/questforge/onboard-quest/onboardquest"
	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/services"
	"github.com/questforge/onboard-quest/onboardquest/services/mock"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(context.Context) error {
	return f.err
}

type testEnv struct {
	server   *Server
	catalog  *content.Catalog
	users    *mock.MockUserRepository
	progress *mock.MockProgressRepository
	quizzes  *mock.MockQuizResultRepository
	badges   *mock.MockBadgeRepository
	training *mock.MockTrainingModuleRepository
}

func newTestEnv(t *testing.T, db fakeDB) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	env := &testEnv{
		catalog:  content.MustLoad(),
		users:    mock.NewMockUserRepository(ctrl),
		progress: mock.NewMockProgressRepository(ctrl),
		quizzes:  mock.NewMockQuizResultRepository(ctrl),
		badges:   mock.NewMockBadgeRepository(ctrl),
		training: mock.NewMockTrainingModuleRepository(ctrl),
	}

	cfg := &onboardquest.Config{}
	cfg.Server.AppName = "Onboard Quest"
	cfg.Server.Environment = "test"
	cfg.Server.SessionSecret = strings.Repeat("k", 32)
	cfg.Server.SessionTTL.Duration = time.Hour
	cfg.Server.UploadLimitMB = 5
	cfg.Server.UploadDir = t.TempDir()
	cfg.Progress.XPPerLevel = onboardquest.DefaultXPPerLevel
	cfg.Admin.Usernames = []string{"root"}

	repos := webmodels.NewRepositories(env.users, env.progress, env.quizzes, env.badges, env.training)
	webApp, err := NewWebAppFromRepositories(config.NewWebAppConfig(cfg), repos, env.catalog,
		services.NewLocalStore(cfg.Server.UploadDir), nil, db, "test", "abc123")
	require.NoError(t, err)

	env.server = NewServer(webApp)
	t.Cleanup(env.server.cancel)
	return env
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.server.WebApp.SessionService.Sign(&webmodels.UserSession{
		UserID:    userID,
		Username:  userID,
		Name:      "Test " + userID,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", webservices.SessionCookieName+"="+token)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.server.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func errorCode(body map[string]any) string {
	apiErr, _ := body["error"].(map[string]any)
	code, _ := apiErr["code"].(string)
	return code
}

func errorDetails(body map[string]any) map[string]any {
	apiErr, _ := body["error"].(map[string]any)
	details, _ := apiErr["details"].(map[string]any)
	return details
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == webservices.SessionCookieName {
			return c.Value
		}
	}
	return ""
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	resp, body := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["data"].(map[string]any)["status"])

	env = newTestEnv(t, fakeDB{err: errors.New("connection refused")})
	resp, body = env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["data"].(map[string]any)["status"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	for _, path := range []string{"/api/user/progress", "/api/leaderboard", "/api/auth/me", "/api/modules"} {
		resp, body := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, webmodels.CodeUnauthenticated, errorCode(body), path)
	}

	resp, _ := env.do(t, http.MethodGet, "/api/user/progress", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBearerTokenIsAccepted(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.progress.EXPECT().GetOrCreate(gomock.Any(), "u1").Return(models.NewProgress("u1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/progress", nil)
	req.Header.Set("Authorization", "Bearer "+env.token(t, "u1", models.RoleEmployee))
	resp, body := env.send(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["level"])
}

func TestRegisterCreatesSession(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	var created *models.User
	env.users.EXPECT().CreateWithProgress(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User, _ *models.Progress) error {
			created = u
			return nil
		})

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username":   "Dana",
		"password":   "Quest-Start-2024",
		"name":       "Dana Scully",
		"department": "Engineering",
		"experience": "junior",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.NotEmpty(t, sessionCookie(resp))

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "dana", user["username"])
	assert.Equal(t, models.RoleEmployee, user["role"])
	assert.NotContains(t, user, "passwordHash")

	progress := data["progress"].(map[string]any)
	assert.Equal(t, float64(1), progress["level"])
	assert.Equal(t, float64(0), progress["xp"])
	assert.Empty(t, progress["completedModules"])
	levelInfo := data["levelInfo"].(map[string]any)
	assert.Equal(t, float64(100), levelInfo["xpToNextLevel"])

	require.NotNil(t, created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Quest-Start-2024")))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username":   "alice",
		"password":   "alice1234",
		"department": "Sales",
		"role":       "ceo",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, webmodels.CodeValidationFailed, errorCode(body))
	details := errorDetails(body)
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "role")
	assert.NotContains(t, details, "username")

	resp, body = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username":   "bob",
		"password":   strings.Repeat("xY7", 30),
		"name":       "Bob",
		"department": "Sales",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, webmodels.CodeValidationFailed, errorCode(body))
	assert.Contains(t, errorDetails(body), "password")
}

func TestAuthRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		resp, body := env.send(t, req)
		if i < 5 {
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, body)
		assert.Equal(t, webmodels.CodeRateLimitExceeded, errorCode(body))
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.users.EXPECT().CreateWithProgress(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&repositories.ConflictError{Entity: "user", Field: "username", Value: "dana"})

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username":   "dana",
		"password":   "Quest-Start-2024",
		"name":       "Dana",
		"department": "Engineering",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "already taken", errorDetails(body)["username"])
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	hash, err := bcrypt.GenerateFromPassword([]byte("Quest-Start-2024"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: "u1", Username: "dana", PasswordHash: string(hash), Name: "Dana", Role: models.RoleEmployee}
	progress := &models.Progress{UserID: "u1", XP: 75, Level: 1, CompletedModules: []string{"btss"}, CompletedQuizzes: []string{"btss"}, UnlockedLocations: []string{}}

	env.users.EXPECT().GetByUsername(gomock.Any(), "dana").Return(user, nil)
	env.progress.EXPECT().GetOrCreate(gomock.Any(), "u1").Return(progress, nil).Times(2)
	env.badges.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*models.BadgeUnlock{{UserID: "u1", BadgeID: "first-steps"}}, nil)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "Dana",
		"password": "Quest-Start-2024",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token := sessionCookie(resp)
	require.NotEmpty(t, token)

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "dana", data["user"].(map[string]any)["username"])
	assert.Equal(t, float64(75), data["progress"].(map[string]any)["xp"])
	levelInfo := data["levelInfo"].(map[string]any)
	assert.Equal(t, float64(75), levelInfo["xpIntoLevel"])
	assert.Equal(t, float64(25), levelInfo["xpToNextLevel"])
	badges := data["badges"].([]any)
	require.Len(t, badges, 1)
	assert.Equal(t, "first-steps", badges[0].(map[string]any)["id"])
}

func TestLoginWrongCredentials(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, &repositories.NotFoundError{Entity: "user", ID: "ghost"})

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "ghost",
		"password": "whatever-123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, webmodels.CodeInvalidCredentials, errorCode(body))
	assert.Empty(t, sessionCookie(resp))
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	resp, _ := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == webservices.SessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestUpdateProgressAwardsOnce(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	after := &models.Progress{UserID: "u1", XP: 50, Level: 1, CompletedModules: []string{"btss"}, CompletedQuizzes: []string{}, UnlockedLocations: []string{}}
	gomock.InOrder(
		env.progress.EXPECT().CompleteModule(gomock.Any(), "u1", "btss", int64(50)).Return(after, true, nil),
		env.progress.EXPECT().CompleteModule(gomock.Any(), "u1", "btss", int64(50)).Return(after, false, nil),
	)
	env.badges.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)
	env.badges.EXPECT().Unlock(gomock.Any(), "u1", "first-steps").Return(&models.BadgeUnlock{UserID: "u1", BadgeID: "first-steps"}, true, nil)

	req := map[string]any{"moduleId": "btss", "type": "module"}
	resp, body := env.do(t, http.MethodPost, "/api/user/progress", token, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(50), body["xpGained"])
	assert.Equal(t, false, body["alreadyCompleted"])
	assert.Equal(t, []any{"first-steps"}, body["newBadges"])
	progress := body["progress"].(map[string]any)
	assert.Equal(t, float64(50), progress["xp"])
	assert.Equal(t, float64(1), progress["level"])
	levelInfo := body["levelInfo"].(map[string]any)
	assert.Equal(t, float64(1), levelInfo["level"])
	assert.Equal(t, float64(50), levelInfo["xpToNextLevel"])

	resp, body = env.do(t, http.MethodPost, "/api/user/progress", token, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(0), body["xpGained"])
	assert.Equal(t, true, body["alreadyCompleted"])
	assert.Equal(t, float64(50), body["progress"].(map[string]any)["xp"])
}

func TestUpdateProgressGameAwardsScoreOverTen(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	env.progress.EXPECT().AddXP(gomock.Any(), "u1", int64(8)).
		Return(&models.Progress{UserID: "u1", XP: 8, Level: 1}, nil)
	env.badges.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)

	resp, body := env.do(t, http.MethodPost, "/api/user/progress", token, map[string]any{
		"moduleId": "phishing-hunt", "type": "game", "score": 87,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(8), body["xpGained"])
}

func TestUpdateProgressValidation(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"empty body", map[string]any{}, http.StatusBadRequest, "moduleId"},
		{"missing type", map[string]any{"moduleId": "btss"}, http.StatusBadRequest, "type"},
		{"unknown type", map[string]any{"moduleId": "btss", "type": "dance"}, http.StatusBadRequest, "type"},
		{"quiz without score", map[string]any{"moduleId": "btss", "type": "quiz"}, http.StatusBadRequest, "score"},
		{"quiz score above 100", map[string]any{"moduleId": "btss", "type": "quiz", "score": 150}, http.StatusBadRequest, "score"},
		{"negative game score", map[string]any{"moduleId": "phishing-hunt", "type": "game", "score": -5}, http.StatusBadRequest, "score"},
		{"game score above max", map[string]any{"moduleId": "phishing-hunt", "type": "game", "score": 101}, http.StatusBadRequest, "score"},
		{"game score at int64 max", map[string]any{"moduleId": "csis", "type": "game", "score": int64(9223372036854775807)}, http.StatusBadRequest, "score"},
		{"malformed json", `{"moduleId": `, http.StatusBadRequest, "body"},
		{"unknown module", map[string]any{"moduleId": "nope", "type": "module"}, http.StatusNotFound, ""},
		{"unknown game", map[string]any{"moduleId": "nope", "type": "game", "score": 10}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/user/progress", token, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, body)
			if tt.field != "" {
				assert.Equal(t, webmodels.CodeValidationFailed, errorCode(body))
				assert.Contains(t, errorDetails(body), tt.field)
			} else {
				assert.Equal(t, webmodels.CodeNotFound, errorCode(body))
			}
		})
	}
}

func TestUpdateProgressStorageUnavailable(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	env.progress.EXPECT().CompleteModule(gomock.Any(), "u1", "btss", int64(50)).
		Return(nil, false, &repositories.RepositoryError{Operation: "complete_module", Entity: "progress", Err: context.DeadlineExceeded})

	resp, body := env.do(t, http.MethodPost, "/api/user/progress", token, map[string]any{"moduleId": "btss", "type": "module"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, webmodels.CodeStorageUnavailable, errorCode(body))
}

func TestSubmitQuizScoresAnswers(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	module, ok := env.catalog.Module("btss")
	require.True(t, ok)
	answers := make([]int, len(module.Questions))
	for i, q := range module.Questions {
		answers[i] = q.Answer
	}

	env.progress.EXPECT().CompleteQuiz(gomock.Any(), gomock.Any(), module.QuizXP).
		DoAndReturn(func(_ context.Context, r *models.QuizResult, xp int64) (*models.Progress, bool, error) {
			assert.Equal(t, 100, r.Score)
			return &models.Progress{UserID: "u1", XP: xp, Level: 1, CompletedQuizzes: []string{"btss"}}, true, nil
		})
	env.badges.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)

	resp, body := env.do(t, http.MethodPost, "/api/modules/btss/quiz", token, map[string]any{"answers": answers})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(100), body["score"])
	assert.Equal(t, float64(module.QuizXP), body["xpGained"])

	resp, body = env.do(t, http.MethodPost, "/api/modules/btss/quiz", token, map[string]any{"answers": []int{0}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorDetails(body), "answers")
}

func TestModuleDetailHidesAnswers(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)
	env.training.EXPECT().GetByID(gomock.Any(), "btss").Return(nil, &repositories.NotFoundError{Entity: "training_module", ID: "btss"})

	req := httptest.NewRequest(http.MethodGet, "/api/modules/btss", nil)
	req.Header.Set("Cookie", webservices.SessionCookieName+"="+token)
	resp, err := env.server.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"questions"`)
	assert.NotContains(t, string(raw), `"answer":`)

	resp, _ = env.do(t, http.MethodGet, "/api/modules/unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaderboardOrderAndLimit(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	token := env.token(t, "u1", models.RoleEmployee)

	rows := []models.LeaderboardRow{
		{Seq: 1, UserID: "a", Name: "Ann", XP: 75, Level: 1},
		{Seq: 2, UserID: "b", Name: "Bob", XP: 325, Level: 4},
		{Seq: 3, UserID: "c", Name: "Cat", XP: 75, Level: 1},
	}
	env.progress.EXPECT().ListInInsertionOrder(gomock.Any()).Return(rows, nil).Times(2)

	resp, body := env.do(t, http.MethodGet, "/api/leaderboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	entries := body["data"].([]any)
	require.Len(t, entries, 3)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.(map[string]any)["id"].(string)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	resp, body = env.do(t, http.MethodGet, "/api/leaderboard?limit=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)
}

func TestRoleProtectedRoutes(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	employee := env.token(t, "u1", models.RoleEmployee)
	hr := env.token(t, "h1", models.RoleHR)
	admin := env.token(t, "root", models.RoleAdmin)

	resp, body := env.do(t, http.MethodGet, "/api/admin/modules", employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, webmodels.CodeForbidden, errorCode(body))

	resp, _ = env.do(t, http.MethodGet, "/api/admin/modules", hr, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.training.EXPECT().List(gomock.Any()).Return([]*models.TrainingModule{}, nil)
	resp, _ = env.do(t, http.MethodGet, "/api/admin/modules", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/hr/employees", employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.users.EXPECT().ListEmployees(gomock.Any(), "Engineering").Return([]models.EmployeeProgress{
		{UserID: "u1", Username: "dana", Name: "Dana", Department: "Engineering", XP: 50, Level: 1},
	}, nil).Times(2)
	resp, body = env.do(t, http.MethodGet, "/api/hr/employees?department=Engineering", hr, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Len(t, body["data"].([]any), 1)

	resp, _ = env.do(t, http.MethodGet, "/api/hr/employees?department=Engineering", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadModuleStoresFile(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	admin := env.token(t, "root", models.RoleAdmin)

	var saved *models.TrainingModule
	env.training.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.TrainingModule) error {
			saved = m
			return nil
		})

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("name", "Business Strategy"))
	require.NoError(t, w.WriteField("title", "Where we are going"))
	require.NoError(t, w.WriteField("duration", "45 min"))
	part, err := w.CreateFormFile("presentation", "deck.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/modules/btss", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Cookie", webservices.SessionCookieName+"="+admin)
	resp, body := env.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	require.NotNil(t, saved)
	assert.Equal(t, "btss", saved.ModuleID)
	assert.Equal(t, "root", saved.UploadedBy)
	assert.True(t, strings.HasPrefix(saved.PresentationRef, "/uploads/training/btss/presentation-"))
	assert.True(t, strings.HasSuffix(saved.PresentationRef, ".pdf"))
	assert.Empty(t, saved.InfographicRef)
}

func TestUploadModuleValidation(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	admin := env.token(t, "root", models.RoleAdmin)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("name", "Business Strategy"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/modules/btss", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Cookie", webservices.SessionCookieName+"="+admin)
	resp, body := env.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorDetails(body), "title")
	assert.Contains(t, errorDetails(body), "duration")
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	resp, body := env.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, webmodels.CodeNotFound, errorCode(body))
}
