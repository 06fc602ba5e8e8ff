package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hnminh/amlich-api/internal/config"
	"github.com/hnminh/amlich-api/internal/database"
	"github.com/hnminh/amlich-api/internal/lunar"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and router.
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	handlers *Handlers
	router   http.Handler
	apiKey   string
}

// setupTest creates a fresh test environment. The clock is pinned to noon
// on Tết 2026 (local time) so "today" endpoints are deterministic.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	apiKey := "test-key-123"
	cfg := &config.Config{
		Port:          8080,
		Env:           config.EnvDevelopment,
		DatabasePath:  ":memory:",
		APIKey:        apiKey,
		TzOffsetHours: lunar.TimeZoneVietnam,
		PublishCron:   "5 0 * * *",
		LogLevel:      "error",
		LogFormat:     "text",
	}

	engine := lunar.NewEngine(cfg.TzOffsetHours)
	handlers := NewHandlers(engine, db, cfg, logger)
	handlers.now = func() time.Time {
		return time.Date(2026, 2, 17, 12, 0, 0, 0, engine.Location())
	}

	return &testEnv{
		db:       db,
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, logger),
		apiKey:   apiKey,
	}
}

// get issues a GET through the full router.
func (env *testEnv) get(t *testing.T, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// parseResponse parses a JSON response body.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
}

// almanacResponse is the success envelope around a lunar.Almanac payload.
type almanacResponse struct {
	Success bool          `json:"success"`
	Data    lunar.Almanac `json:"data"`
}

// =============================================================================
// PUBLIC ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Data["status"] != "healthy" {
		t.Errorf("status = %q, want %q", resp.Data["status"], "healthy")
	}
}

func TestGetToday(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/today", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp almanacResponse
	parseResponse(t, rr, &resp)

	// The pinned clock sits on Tết 2026.
	want := lunar.LunarDate{Day: 1, Month: 1, Year: 2026}
	if resp.Data.Lunar != want {
		t.Errorf("Lunar = %+v, want %+v", resp.Data.Lunar, want)
	}
	if resp.Data.Special != lunar.SpecialNewMoon {
		t.Errorf("Special = %q, want %q", resp.Data.Special, lunar.SpecialNewMoon)
	}
}

func TestGetAlmanac_KnownDate(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/almanac/2025-01-29", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp almanacResponse
	parseResponse(t, rr, &resp)

	want := lunar.LunarDate{Day: 1, Month: 1, Year: 2025}
	if resp.Data.Lunar != want {
		t.Errorf("Lunar = %+v, want %+v", resp.Data.Lunar, want)
	}
	if resp.Data.YearLabel != "Ất Tị" {
		t.Errorf("YearLabel = %q, want %q", resp.Data.YearLabel, "Ất Tị")
	}
}

func TestGetAlmanac_BadInput(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"malformed date", "/api/v1/almanac/29-01-2025", http.StatusBadRequest},
		{"impossible day", "/api/v1/almanac/2025-02-30", http.StatusBadRequest},
		{"out of range", "/api/v1/almanac/1776-07-04", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get(t, tt.path, "")
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d, body: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestGetSolarDate_LeapMonth(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/solar/2025/6/1?leap=true", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp almanacResponse
	parseResponse(t, rr, &resp)

	want := lunar.SolarDate{Year: 2025, Month: 7, Day: 25}
	if resp.Data.Solar != want {
		t.Errorf("Solar = %+v, want %+v", resp.Data.Solar, want)
	}
	if !resp.Data.Lunar.Leap {
		t.Error("Lunar.Leap = false, want true")
	}
}

func TestGetSolarDate_NoSuchMonth(t *testing.T) {
	env := setupTest(t)

	// 2024 has no leap month.
	rr := env.get(t, "/api/v1/solar/2024/6/1?leap=true", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d, body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

func TestGetSolarDate_NonNumericPath(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/solar/abc/6/1", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetNextSpecialDay(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/next/new-moon?from=2026-01-19", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool                   `json:"success"`
		Data    lunar.SpecialDayResult `json:"data"`
	}
	parseResponse(t, rr, &resp)

	want := lunar.SolarDate{Year: 2026, Month: 2, Day: 17}
	if resp.Data.Target != want {
		t.Errorf("Target = %+v, want %+v", resp.Data.Target, want)
	}
	if resp.Data.DaysUntil != 29 {
		t.Errorf("DaysUntil = %d, want 29", resp.Data.DaysUntil)
	}
}

func TestGetNextSpecialDay_UnknownKind(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/next/eclipse", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetCalendarFeed(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/calendar.ics?months=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "BEGIN:VEVENT") {
		t.Errorf("body does not look like an iCalendar feed: %.200s", body)
	}
	// The window starts on Tết, which is itself a Mùng 1.
	if !strings.Contains(body, "Mùng 1 tháng 1") {
		t.Errorf("feed is missing the Tết event: %.500s", body)
	}
}

func TestGetCalendarFeed_BadMonths(t *testing.T) {
	env := setupTest(t)

	for _, path := range []string{
		"/api/v1/calendar.ics?months=0",
		"/api/v1/calendar.ics?months=13",
		"/api/v1/calendar.ics?months=abc",
	} {
		rr := env.get(t, path, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: Status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

// =============================================================================
// HISTORY ENDPOINT TESTS (authenticated)
// =============================================================================

func seedHistory(t *testing.T, env *testEnv, dates ...string) {
	t.Helper()
	engine := env.handlers.engine
	for _, ds := range dates {
		d, err := lunar.ParseSolarDate(ds)
		if err != nil {
			t.Fatalf("parse seed date %s: %v", ds, err)
		}
		almanac, err := engine.Almanac(d)
		if err != nil {
			t.Fatalf("almanac for seed date %s: %v", ds, err)
		}
		if err := env.db.UpsertDay(context.Background(), database.FromAlmanac(almanac)); err != nil {
			t.Fatalf("seed %s: %v", ds, err)
		}
	}
}

func TestGetHistory_RequiresAPIKey(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/history?start=2026-02-01&end=2026-02-10", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	rr = env.get(t, "/api/v1/history?start=2026-02-01&end=2026-02-10", "wrong-key")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Status with wrong key = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestGetHistory_Success(t *testing.T) {
	env := setupTest(t)
	seedHistory(t, env, "2026-02-15", "2026-02-16", "2026-02-17")

	rr := env.get(t, "/api/v1/history?start=2026-02-16&end=2026-02-17", env.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Start string                `json:"start"`
			End   string                `json:"end"`
			Days  []database.AlmanacDay `json:"days"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if len(resp.Data.Days) != 2 {
		t.Fatalf("got %d days, want 2", len(resp.Data.Days))
	}
	if resp.Data.Days[1].SolarDate != "2026-02-17" {
		t.Errorf("last day = %q, want 2026-02-17", resp.Data.Days[1].SolarDate)
	}
	if resp.Data.Days[1].Special != "new-moon" {
		t.Errorf("Tết snapshot special = %q, want new-moon", resp.Data.Days[1].Special)
	}
}

func TestGetHistory_BadRanges(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing params", "/api/v1/history?start=2026-02-01"},
		{"end before start", "/api/v1/history?start=2026-02-10&end=2026-02-01"},
		{"over 90 days", "/api/v1/history?start=2026-01-01&end=2026-06-01"},
		{"malformed start", "/api/v1/history?start=01-01-2026&end=2026-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get(t, tt.path, env.apiKey)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d, body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
		})
	}
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestAuthMiddleware_DevSkipWithoutKey(t *testing.T) {
	env := setupTest(t)

	// Development with no configured key serves unauthenticated requests.
	env.cfg.APIKey = ""
	handler := AuthMiddleware(env.cfg, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set on response")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError + 4, // Fully quiet, the panic log is expected
	}))

	handler := RecoveryMiddleware(logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/today", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Access-Control-Allow-Origin not set")
	}
}
