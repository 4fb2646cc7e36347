package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/audit"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/llm"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/narrative"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/providers/nflapi"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/service"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/stats"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"github.com/go-chi/chi/v5"
)

// Two categories per team, same stat order for both teams
const providerBody = `{
  "statistics": {
    "splits": {
      "categories": [
        {"name": "passing", "displayName": "Passing", "stats": [
          {"name": "netPassingYards", "displayName": "Net Passing Yards", "displayValue": "%s", "description": "Passing yards minus sack yards"},
          {"name": "QBRating", "displayName": "Quarterback Rating", "displayValue": "%s", "description": "Passer rating"}
        ]},
        {"name": "rushing", "displayName": "Rushing", "stats": [
          {"name": "rushingYards", "displayName": "Rushing Yards", "displayValue": "1,870", "description": "Total rushing yards"}
        ]}
      ]
    }
  }
}`

// MockLLM implements narrative.LLMClient for testing
type MockLLM struct {
	text        string
	shouldError bool
	calls       int32
}

func (m *MockLLM) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.shouldError {
		return "", errors.New("upstream unavailable")
	}
	return m.text, nil
}

// MockLimiter implements handlers.Limiter for testing
type MockLimiter struct {
	allow bool
	err   error
}

func (m *MockLimiter) Allow(ctx context.Context) (bool, error) {
	return m.allow, m.err
}

// MockRecorder implements handlers.ExecutionRecorder for testing
type MockRecorder struct {
	mu   sync.Mutex
	logs []audit.ExecutionLog
}

func (m *MockRecorder) LogExecution(ctx context.Context, log *audit.ExecutionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

// providerServer serves Texans (34) and Chiefs (22) stats; malformed returns a body without statistics
func providerServer(t *testing.T, malformed bool) (*httptest.Server, *int32) {
	t.Helper()
	var requests int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")

		if malformed {
			w.Write([]byte(`{"team": {"id": "34"}}`))
			return
		}

		switch r.URL.Query().Get("id") {
		case "34":
			w.Write([]byte(fmt.Sprintf(providerBody, "4,102", "9830")))
		case "22":
			w.Write([]byte(fmt.Sprintf(providerBody, "4,183", "92.6")))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

type testServer struct {
	router   *chi.Mux
	llm      *MockLLM
	recorder *MockRecorder
	waits    *[]time.Duration
	requests *int32
}

func setup(t *testing.T, malformed bool, opts ...handlers.AnalyzeOption) *testServer {
	t.Helper()

	srv, requests := providerServer(t, malformed)
	return setupWithProvider(t, srv, requests, opts...)
}

func setupWithProvider(t *testing.T, srv *httptest.Server, requests *int32, opts ...handlers.AnalyzeOption) *testServer {
	t.Helper()

	var mu sync.Mutex
	waits := []time.Duration{}
	policy := retry.NewRetryPolicy(3, time.Second).WithWait(func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
		return nil
	})

	reg := registry.New()
	client := nflapi.New("test-key", nflapi.WithBaseURL(srv.URL), nflapi.WithRetryPolicy(policy))
	svc := service.NewStatsService(reg, stats.NewAggregator(client, "2023", nil), nil, nil)

	mockLLM := &MockLLM{text: "  The Chiefs edge the Texans through the air. Winner: Chiefs.  "}
	recorder := &MockRecorder{}
	gen := narrative.NewGenerator(mockLLM, reg, "", nil)

	opts = append([]handlers.AnalyzeOption{handlers.WithRecorder(recorder)}, opts...)

	r := chi.NewRouter()
	handlers.Mount(r, handlers.NewHandler(svc, 5*time.Second), handlers.NewAnalyzeHandler(gen, 5*time.Second, opts...))

	return &testServer{router: r, llm: mockLLM, recorder: recorder, waits: &waits, requests: requests}
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", response["status"])
	}
}

func TestStatsThenAnalyze(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/api/stats?category=passing&team1=texans&team2=chiefs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var set models.TeamStatsSet
	if err := json.NewDecoder(w.Body).Decode(&set); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	texans, chiefs := set["texans"], set["chiefs"]
	if len(texans) != 2 || len(chiefs) != 2 {
		t.Fatalf("expected 2 passing stats per team, got %d/%d", len(texans), len(chiefs))
	}
	for i := range texans {
		if texans[i].Name != chiefs[i].Name {
			t.Errorf("stat %d not aligned: %s vs %s", i, texans[i].Name, chiefs[i].Name)
		}
	}
	if texans[1].Value != "98.3" {
		t.Errorf("expected hundredths rating to be rescaled to 98.3, got %s", texans[1].Value)
	}

	body, _ := json.Marshal(models.AnalysisRequest{
		Category:   "passing",
		Team1Stats: texans,
		Team2Stats: chiefs,
		Team1:      "Houston Texans",
		Team2:      "Kansas City Chiefs",
	})
	w = ts.do(t, http.MethodPost, "/api/analyze", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.AnalysisResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary == "" || strings.HasPrefix(resp.Summary, " ") {
		t.Errorf("expected trimmed non-empty summary, got %q", resp.Summary)
	}

	if len(ts.recorder.logs) != 1 || ts.recorder.logs[0].Status != audit.StatusSuccess {
		t.Errorf("expected one successful execution log, got %+v", ts.recorder.logs)
	}
}

func TestGetStats_Defaults(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var set models.TeamStatsSet
	json.NewDecoder(w.Body).Decode(&set)
	if _, ok := set["texans"]; !ok {
		t.Error("expected texans by default")
	}
	if _, ok := set["chiefs"]; !ok {
		t.Error("expected chiefs by default")
	}
}

func TestGetStats_MalformedProvider(t *testing.T) {
	ts := setup(t, true)

	w := ts.do(t, http.MethodGet, "/api/v1/stats?category=passing&team1=texans&team2=chiefs", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	// three attempts for each of the two teams
	if got := atomic.LoadInt32(ts.requests); got != 6 {
		t.Errorf("expected 6 provider requests, got %d", got)
	}
	if len(*ts.waits) != 4 {
		t.Errorf("expected 4 retry waits, got %d", len(*ts.waits))
	}
	for _, d := range *ts.waits {
		if d != time.Second {
			t.Errorf("expected 1s retry delay, got %v", d)
		}
	}

	var resp models.ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Code != http.StatusInternalServerError || resp.Error == "" {
		t.Errorf("unexpected error body: %+v", resp)
	}
}

func TestGetStats_InvalidTeam(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/stats?team1=jets", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Available) != 8 {
		t.Errorf("expected 8 available teams, got %v", resp.Available)
	}
	if atomic.LoadInt32(ts.requests) != 0 {
		t.Error("expected no provider requests for an invalid team")
	}
}

func TestGetStats_CategoryNotFound(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/stats?category=kicking", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp models.ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Available) != 2 || resp.Available[0] != "passing" || resp.Available[1] != "rushing" {
		t.Errorf("expected available categories [passing rushing], got %v", resp.Available)
	}
	if !strings.Contains(resp.Message, "no stats found for category: kicking") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestCompare(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/api/v1/compare?category=passing", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var report models.ComparisonReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.ComparisonID == "" {
		t.Error("expected comparison id")
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	// 4,102 vs 4,183 yards; 98.3 vs 92.6 rating
	if report.Results[0].Winner != models.WinnerTeam2 || report.Results[1].Winner != models.WinnerTeam1 {
		t.Errorf("unexpected winners: %+v", report.Results)
	}
}

func TestGetTeamsAndCategories(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodGet, "/api/teams", nil)
	var teams struct {
		Teams []models.Team `json:"teams"`
		Count int           `json:"count"`
	}
	json.NewDecoder(w.Body).Decode(&teams)
	if teams.Count != 8 || teams.Teams[0].Key != "texans" {
		t.Errorf("unexpected teams response: %+v", teams)
	}

	w = ts.do(t, http.MethodGet, "/api/categories", nil)
	var cats struct {
		Categories []models.CategoryInfo `json:"categories"`
		Count      int                   `json:"count"`
	}
	json.NewDecoder(w.Body).Decode(&cats)
	if cats.Count != 11 || cats.Categories[0].Key != "passing" {
		t.Errorf("unexpected categories response: %+v", cats)
	}
}

func TestAnalyze_InvalidBody(t *testing.T) {
	ts := setup(t, false)

	w := ts.do(t, http.MethodPost, "/analyze", []byte(`{not json`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if ts.llm.calls != 0 {
		t.Error("expected no completion call")
	}
}

func TestAnalyze_CompletionFailure(t *testing.T) {
	ts := setup(t, false)
	ts.llm.shouldError = true

	body, _ := json.Marshal(models.AnalysisRequest{Category: "passing", Team1: "A", Team2: "B"})
	w := ts.do(t, http.MethodPost, "/analyze", body)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)
	if _, ok := resp["error"]; !ok {
		t.Errorf("expected error field, got %v", resp)
	}
	if atomic.LoadInt32(&ts.llm.calls) != 1 {
		t.Errorf("expected exactly one completion attempt, got %d", ts.llm.calls)
	}
	if len(ts.recorder.logs) != 1 || ts.recorder.logs[0].Status != audit.StatusFailed {
		t.Errorf("expected failed execution log, got %+v", ts.recorder.logs)
	}
}

func TestAnalyze_RateLimited(t *testing.T) {
	ts := setup(t, false, handlers.WithLimiter(&MockLimiter{allow: false}))

	body, _ := json.Marshal(models.AnalysisRequest{Category: "passing"})
	w := ts.do(t, http.MethodPost, "/analyze", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if ts.llm.calls != 0 {
		t.Error("expected no completion call when limited")
	}
	if len(ts.recorder.logs) != 1 || ts.recorder.logs[0].Status != audit.StatusRateLimited {
		t.Errorf("expected rate_limited execution log, got %+v", ts.recorder.logs)
	}
}

func TestAnalyze_LimiterErrorFailsOpen(t *testing.T) {
	ts := setup(t, false, handlers.WithLimiter(&MockLimiter{err: errors.New("redis down")}))

	body, _ := json.Marshal(models.AnalysisRequest{Category: "passing"})
	w := ts.do(t, http.MethodPost, "/analyze", body)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

// seasonServer serves one stat per registry category for every team
func seasonServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var requests int32

	var categories []models.Category
	for _, c := range registry.New().Categories() {
		categories = append(categories, models.Category{
			Name:        c.Key,
			DisplayName: c.DisplayName,
			Stats: []models.ProviderStat{
				{Name: c.Key + "Total", DisplayName: c.Label + " Total", DisplayValue: "10"},
			},
		})
	}

	payload := map[string]interface{}{
		"statistics": map[string]interface{}{
			"splits": map[string]interface{}{"categories": categories},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to build provider body: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestGetStats_AllCategories(t *testing.T) {
	srv, requests := seasonServer(t)
	ts := setupWithProvider(t, srv, requests)

	w := ts.do(t, http.MethodGet, "/api/stats?category=all&team1=texans&team2=chiefs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var set models.TeamStatsSet
	if err := json.NewDecoder(w.Body).Decode(&set); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	categories := registry.New().Categories()
	for _, team := range []string{"texans", "chiefs"} {
		if len(set[team]) != len(categories) {
			t.Fatalf("expected %d stats for %s, got %d", len(categories), team, len(set[team]))
		}
		for i, c := range categories {
			if want := c.Label + " Total"; set[team][i].Name != want {
				t.Errorf("%s stat %d: expected %q, got %q", team, i, want, set[team][i].Name)
			}
		}
	}

	// one fetch per team and category
	if got := atomic.LoadInt32(ts.requests); got != int32(2*len(categories)) {
		t.Errorf("expected %d provider requests, got %d", 2*len(categories), got)
	}
}
