package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Smoke test for a running amlich-api server. It exercises every public
// endpoint against known calendar facts and reports pass/fail.

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Almanac mirrors the almanac payload of /today, /almanac, and /solar.
type Almanac struct {
	Solar      SolarDate `json:"solar"`
	Lunar      LunarDate `json:"lunar"`
	YearLabel  string    `json:"year_label"`
	MonthLabel string    `json:"month_label"`
	DayLabel   string    `json:"day_label"`
	Weekday    string    `json:"weekday"`
	Special    string    `json:"special,omitempty"`
}

type SolarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type LunarDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Leap  bool `json:"leap_month"`
}

// SpecialDayResult mirrors the /next/{kind} payload.
type SpecialDayResult struct {
	Target    SolarDate `json:"target"`
	DaysUntil int       `json:"days_until"`
	Month     int       `json:"lunar_month"`
	Leap      bool      `json:"leap_month"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Amlich API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testLunarToSolar()
	tr.testNextSpecialDays()
	tr.testCalendarFeed()
	tr.testHistory()
	tr.testEdgeCases()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var a Almanac
	if err := tr.parseDataAs(resp, &a); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	if a.Lunar.Day < 1 || a.Lunar.Day > 30 || a.Lunar.Month < 1 || a.Lunar.Month > 12 {
		tr.recordError("Today", fmt.Sprintf("implausible lunar date %d/%d", a.Lunar.Day, a.Lunar.Month))
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today: %04d-%02d-%02d = lunar %d/%d/%d (%s)",
		a.Solar.Year, a.Solar.Month, a.Solar.Day,
		a.Lunar.Day, a.Lunar.Month, a.Lunar.Year, a.YearLabel))
	tr.printAlmanacDetail(&a)
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Date Conversions")

	testCases := []struct {
		date        string
		lunar       LunarDate
		yearLabel   string
		description string
	}{
		{"2025-01-29", LunarDate{1, 1, 2025, false}, "Ất Tị", "Tết Ất Tị"},
		{"2026-02-17", LunarDate{1, 1, 2026, false}, "Bính Ngọ", "Tết Bính Ngọ"},
		{"2025-02-12", LunarDate{15, 1, 2025, false}, "Ất Tị", "Rằm tháng Giêng"},
		{"2025-07-25", LunarDate{1, 6, 2025, true}, "Ất Tị", "Start of leap month 6"},
		{"2026-01-19", LunarDate{1, 12, 2025, false}, "Ất Tị", "Month 12 opens in January"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/almanac/%s", tc.date))
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var a Almanac
		if err := tr.parseDataAs(resp, &a); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if a.Lunar == tc.lunar && a.YearLabel == tc.yearLabel {
			tr.recordSuccess(fmt.Sprintf("%s: lunar %d/%d/%d %s (%s)",
				tc.date, a.Lunar.Day, a.Lunar.Month, a.Lunar.Year, a.YearLabel, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %+v %s, got %+v %s",
				tc.lunar, tc.yearLabel, a.Lunar, a.YearLabel))
		}

		if tr.verbose {
			tr.printAlmanacDetail(&a)
		}
	}
}

func (tr *TestRunner) testLunarToSolar() {
	tr.printSection("Lunar to Solar")

	// Regular month
	resp, err := tr.get("/api/v1/solar/2026/1/1")
	if err != nil {
		tr.recordError("Tết lookup", err.Error())
	} else {
		var a Almanac
		if err := tr.parseDataAs(resp, &a); err != nil {
			tr.recordError("Tết lookup", err.Error())
		} else if (a.Solar == SolarDate{2026, 2, 17}) {
			tr.recordSuccess("Lunar 1/1/2026 = 2026-02-17")
		} else {
			tr.recordError("Tết lookup", fmt.Sprintf("got %+v", a.Solar))
		}
	}

	// Leap month
	resp2, err := tr.get("/api/v1/solar/2025/6/1?leap=true")
	if err != nil {
		tr.recordError("Leap month lookup", err.Error())
	} else {
		var a Almanac
		if err := tr.parseDataAs(resp2, &a); err != nil {
			tr.recordError("Leap month lookup", err.Error())
		} else if (a.Solar == SolarDate{2025, 7, 25}) && a.Lunar.Leap {
			tr.recordSuccess("Leap lunar 1/6/2025 = 2025-07-25")
		} else {
			tr.recordError("Leap month lookup", fmt.Sprintf("got %+v leap=%v", a.Solar, a.Lunar.Leap))
		}
	}

	// Nonexistent leap month must 404
	resp3, _ := tr.getRaw("/api/v1/solar/2024/6/1?leap=true")
	if resp3 != nil && resp3.StatusCode == 404 {
		tr.recordSuccess("Leap month in regular year rejected (404)")
	} else {
		tr.recordError("Bad leap month", "Should return 404 for leap 6/2024")
	}
}

func (tr *TestRunner) testNextSpecialDays() {
	tr.printSection("Next Special Day")

	resp, err := tr.get("/api/v1/next/new-moon?from=2026-01-19")
	if err != nil {
		tr.recordError("Next new moon", err.Error())
	} else {
		var r SpecialDayResult
		if err := tr.parseDataAs(resp, &r); err != nil {
			tr.recordError("Next new moon", err.Error())
		} else if (r.Target == SolarDate{2026, 2, 17}) && r.DaysUntil == 29 {
			tr.recordSuccess("Next Mùng 1 after 2026-01-19 is Tết, 29 days out")
		} else {
			tr.recordError("Next new moon", fmt.Sprintf("got %+v in %d days", r.Target, r.DaysUntil))
		}
	}

	resp2, err := tr.get("/api/v1/next/full-moon?from=2026-01-19")
	if err != nil {
		tr.recordError("Next full moon", err.Error())
	} else {
		var r SpecialDayResult
		if err := tr.parseDataAs(resp2, &r); err != nil {
			tr.recordError("Next full moon", err.Error())
		} else if (r.Target == SolarDate{2026, 2, 2}) {
			tr.recordSuccess("Next Rằm after 2026-01-19 is 2026-02-02")
		} else {
			tr.recordError("Next full moon", fmt.Sprintf("got %+v", r.Target))
		}
	}

	// Unknown kind must 400
	resp3, _ := tr.getRaw("/api/v1/next/eclipse")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Unknown special kind rejected (400)")
	} else {
		tr.recordError("Unknown kind", "Should return 400 for /next/eclipse")
	}
}

func (tr *TestRunner) testCalendarFeed() {
	tr.printSection("Calendar Feed")

	resp, err := tr.getRaw("/api/v1/calendar.ics?months=2")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		tr.recordError("Feed", fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}

	text := string(body)
	if strings.Contains(text, "BEGIN:VCALENDAR") && strings.Contains(text, "BEGIN:VEVENT") {
		events := strings.Count(text, "BEGIN:VEVENT")
		tr.recordSuccess(fmt.Sprintf("Feed returned %d events", events))
	} else {
		tr.recordError("Feed", "Response is not an iCalendar document")
	}
}

func (tr *TestRunner) testHistory() {
	tr.printSection("History")

	if tr.apiKey == "" {
		fmt.Println("  (skipped: no -key provided)")
		return
	}

	// A published server has at least today's snapshot.
	now := time.Now()
	start := now.AddDate(0, 0, -7).Format("2006-01-02")
	end := now.Format("2006-01-02")

	req, _ := http.NewRequest("GET", fmt.Sprintf("%s/api/v1/history?start=%s&end=%s", tr.baseURL, start, end), nil)
	req.Header.Set("X-API-Key", tr.apiKey)
	resp, err := tr.client.Do(req)
	if err != nil {
		tr.recordError("History", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		tr.recordSuccess("History query with API key accepted")
	} else {
		tr.recordError("History", fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	// Without a key it must be rejected.
	resp2, _ := tr.getRaw(fmt.Sprintf("/api/v1/history?start=%s&end=%s", start, end))
	if resp2 != nil && resp2.StatusCode == 401 {
		tr.recordSuccess("History without API key rejected (401)")
	} else {
		tr.recordError("History auth", "Should return 401 without key")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	// Invalid date format
	resp, _ := tr.getRaw("/api/v1/almanac/invalid")
	if resp != nil && resp.StatusCode == 400 {
		tr.recordSuccess("Invalid date format rejected")
	} else {
		tr.recordError("Invalid date", "Should return 400")
	}

	// Impossible calendar day
	resp2, _ := tr.getRaw("/api/v1/almanac/2025-02-30")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Impossible day (2025-02-30) rejected")
	} else {
		tr.recordError("Impossible day", "Should return 400")
	}

	// Outside supported range
	resp3, _ := tr.getRaw("/api/v1/almanac/1776-07-04")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Out-of-range year rejected")
	} else {
		tr.recordError("Out of range", "Should return 400 for 1776")
	}

	// Over-long history range
	resp4, _ := tr.getRaw("/api/v1/history?start=2025-01-01&end=2025-12-31")
	if resp4 != nil && (resp4.StatusCode == 400 || resp4.StatusCode == 401) {
		tr.recordSuccess("Over-long history range rejected")
	} else {
		tr.recordError("Range limit", "Should reject ranges > 90 days")
	}

	// Leap year solar date
	resp5, err := tr.get("/api/v1/almanac/2024-02-29")
	if err != nil {
		tr.recordError("Leap day", err.Error())
	} else {
		tr.recordSuccess("Leap day (2024-02-29) handled")
	}
	_ = resp5
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	url := tr.baseURL + path
	return tr.client.Get(url)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printAlmanacDetail(a *Almanac) {
	if a == nil {
		return
	}
	fmt.Printf("    Năm:   %s\n", a.YearLabel)
	fmt.Printf("    Tháng: %s\n", a.MonthLabel)
	fmt.Printf("    Ngày:  %s (%s)\n", a.DayLabel, a.Weekday)
	if a.Special != "" {
		fmt.Printf("    Special: %s\n", a.Special)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", "", "API key for authenticated endpoints")
	verbose := flag.Bool("v", false, "Verbose output (show almanac details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	_, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
