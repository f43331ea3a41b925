package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carabin/middleware"
	"carabin/models"
	"carabin/services"
)

// memStore mirrors the gorm account store on a plain map.
type memStore struct {
	accounts map[string]models.Account
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[string]models.Account)}
}

func (m *memStore) Get(username string) (*models.Account, bool, error) {
	acct, ok := m.accounts[username]
	if !ok {
		return nil, false, nil
	}
	out := acct
	out.History = append(out.History[:0:0], out.History...)
	out.ExamResults = append(out.ExamResults[:0:0], out.ExamResults...)
	out.StudyPlan = append(out.StudyPlan[:0:0], out.StudyPlan...)
	return &out, true, nil
}

func (m *memStore) Put(acct *models.Account) error {
	m.accounts[acct.Username] = *acct
	return nil
}

func (m *memStore) Exists(username string) (bool, error) {
	_, ok := m.accounts[username]
	return ok, nil
}

// stubGenerator returns canned JSON for GenerateJSON calls.
type stubGenerator struct {
	text string
	json string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.json), out)
}

func newTestApp(t *testing.T, gen services.ContentGenerator) (*fiber.App, *memStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret-0123456789-0123456789")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	store := newMemStore()
	ledger := services.NewLedger(store, "Guillaume")
	gate := services.NewGate(ledger)
	if gen == nil {
		gen = &stubGenerator{}
	}
	Init(ledger, gate, services.NewArticleService(), gen)

	app := fiber.New()
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", Signup)
	authGroup.Post("/login", Login)
	authGroup.Post("/logout", middleware.AuthMiddleware, Logout)

	accountGroup := api.Group("/accounts", middleware.AuthMiddleware)
	accountGroup.Get("/me", GetCurrentAccount)
	accountGroup.Put("/me/settings", UpdateSettings)
	accountGroup.Post("/me/subscription", UpgradeSubscription)

	articleGroup := api.Group("/articles", middleware.AuthMiddleware)
	articleGroup.Get("/random", GetRandomArticle)

	examGroup := api.Group("/exams", middleware.AuthMiddleware)
	examGroup.Post("/generate", GenerateExam)
	examGroup.Post("/results", RecordExamResult)

	planGroup := api.Group("/plan", middleware.AuthMiddleware)
	planGroup.Get("/", GetStudyPlan)
	planGroup.Post("/", AddStudySession)
	planGroup.Patch("/:id", ToggleStudySession)
	planGroup.Delete("/:id", DeleteStudySession)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) != nil {
		parsed = nil
	}
	return resp, parsed
}

func signupAlice(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/signup", "", map[string]string{"username": "alice"})
	require.Equal(t, 200, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupIssuesTokenAndFreshAccount(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := doJSON(t, app, "POST", "/api/auth/signup", "", map[string]string{"username": "alice"})
	require.Equal(t, 200, resp.StatusCode)

	assert.NotEmpty(t, body["token"])
	account := body["account"].(map[string]any)
	assert.Equal(t, "alice", account["username"])
	assert.Equal(t, float64(0), account["exp"])
	assert.Equal(t, float64(0), account["usageCount"])
	assert.Equal(t, models.SubscriptionFree, account["subscriptionStatus"])
	assert.Equal(t, models.RankNovice, account["rank"])
}

func TestDuplicateSignupConflicts(t *testing.T) {
	app, _ := newTestApp(t, nil)
	signupAlice(t, app)

	resp, body := doJSON(t, app, "POST", "/api/auth/signup", "", map[string]string{"username": "alice"})
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestLoginUnknownAccountNotFound(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "nobody"})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestBootstrapLoginWorksWithoutSignup(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "Guillaume"})
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	assert.Equal(t, "Guillaume", account["username"])
}

func TestMeRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, _ := doJSON(t, app, "GET", "/api/accounts/me", "", nil)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMeReturnsAccountSnapshot(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "GET", "/api/accounts/me", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	assert.Equal(t, "alice", account["username"])
}

func TestQuotaExhaustedBlocksArticleFetch(t *testing.T) {
	app, store := newTestApp(t, nil)
	token := signupAlice(t, app)

	acct, _, err := store.Get("alice")
	require.NoError(t, err)
	acct.UsageCount = services.FreeMonthlyLimit
	require.NoError(t, store.Put(acct))

	resp, body := doJSON(t, app, "GET", "/api/articles/random?specialty=Cardiology", token, nil)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, true, body["quota_exhausted"])
}

func TestPremiumBypassesQuotaOnGeneration(t *testing.T) {
	gen := &stubGenerator{json: `[{"t":"ITT preserves randomization.","r":"A","c":true,"e":"Avoids attrition bias.","type":"TF"}]`}
	app, store := newTestApp(t, gen)
	token := signupAlice(t, app)

	acct, _, err := store.Get("alice")
	require.NoError(t, err)
	acct.SubscriptionStatus = models.SubscriptionPremium
	acct.UsageCount = services.FreeMonthlyLimit
	require.NoError(t, store.Put(acct))

	resp, body := doJSON(t, app, "POST", "/api/exams/generate", token, map[string]any{
		"abstract_text": "Background: aspirin works.",
		"count":         1,
	})
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	// PREMIUM consumption is a no-op
	assert.Equal(t, float64(services.FreeMonthlyLimit), account["usageCount"])
}

func TestGenerateExamConsumesQuota(t *testing.T) {
	gen := &stubGenerator{json: `[{"t":"ITT preserves randomization.","r":"A","c":true,"e":"Avoids attrition bias.","type":"TF"}]`}
	app, _ := newTestApp(t, gen)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "POST", "/api/exams/generate", token, map[string]any{
		"abstract_text": "Background: aspirin works.",
		"count":         1,
	})
	require.Equal(t, 200, resp.StatusCode)

	questions := body["questions"].([]any)
	require.Len(t, questions, 1)
	account := body["account"].(map[string]any)
	assert.Equal(t, float64(1), account["usageCount"])
}

func TestGenerateExamFailureDoesNotConsumeQuota(t *testing.T) {
	gen := &stubGenerator{err: context.DeadlineExceeded}
	app, _ := newTestApp(t, gen)
	token := signupAlice(t, app)

	resp, _ := doJSON(t, app, "POST", "/api/exams/generate", token, map[string]any{
		"abstract_text": "Background: aspirin works.",
	})
	assert.Equal(t, 502, resp.StatusCode)

	_, body := doJSON(t, app, "GET", "/api/accounts/me", token, nil)
	account := body["account"].(map[string]any)
	assert.Equal(t, float64(0), account["usageCount"])
}

func TestRecordExamResultAwardsExp(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "POST", "/api/exams/results", token, map[string]any{
		"score": 3,
		"total": 5,
	})
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	assert.Equal(t, float64(60), account["exp"])
	assert.Len(t, account["examResults"].([]any), 1)
}

func TestRecordExamResultRejectsInvalidScore(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, _ := doJSON(t, app, "POST", "/api/exams/results", token, map[string]any{
		"score": 7,
		"total": 5,
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpgradeSubscription(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "POST", "/api/accounts/me/subscription", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	assert.Equal(t, models.SubscriptionPremium, account["subscriptionStatus"])
}

func TestStudyPlanEndpoints(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "POST", "/api/plan/", token, map[string]any{
		"date":     "2026-09-01",
		"topic":    "Cardiologie",
		"focus":    "Insuffisance Cardiaque",
		"type":     "COURS",
		"duration": 90,
	})
	require.Equal(t, 200, resp.StatusCode)
	plan := body["study_plan"].([]any)
	require.Len(t, plan, 1)
	session := plan[0].(map[string]any)
	id := session["id"].(string)
	assert.Equal(t, models.SessionPending, session["status"])

	resp, body = doJSON(t, app, "PATCH", "/api/plan/"+id, token, nil)
	require.Equal(t, 200, resp.StatusCode)
	session = body["study_plan"].([]any)[0].(map[string]any)
	assert.Equal(t, models.SessionDone, session["status"])

	resp, _ = doJSON(t, app, "DELETE", "/api/plan/"+id, token, nil)
	require.Equal(t, 200, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/plan/"+id, token, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUpdateSettings(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := signupAlice(t, app)

	resp, body := doJSON(t, app, "PUT", "/api/accounts/me/settings", token, map[string]any{
		"highlightsEnabled": false,
	})
	require.Equal(t, 200, resp.StatusCode)
	account := body["account"].(map[string]any)
	settings := account["settings"].(map[string]any)
	assert.Equal(t, false, settings["highlightsEnabled"])
}
