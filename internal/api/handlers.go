package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hnminh/amlich-api/internal/config"
	"github.com/hnminh/amlich-api/internal/database"
	"github.com/hnminh/amlich-api/internal/feed"
	"github.com/hnminh/amlich-api/internal/lunar"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engine *lunar.Engine
	db     *database.DB
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *lunar.Engine, db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetToday handles GET /api/v1/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	today := h.engine.Today(h.now())

	almanac, err := h.engine.Almanac(today)
	if err != nil {
		h.logger.Error("failed to compute today's almanac",
			slog.String("date", today.String()),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to compute almanac")
		return
	}

	WriteSuccess(w, almanac)
}

// GetAlmanac handles GET /api/v1/almanac/{YYYY-MM-DD}
func (h *Handlers) GetAlmanac(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	date, err := lunar.ParseSolarDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	almanac, err := h.engine.Almanac(date)
	if err != nil {
		h.writeLunarError(w, err, dateStr)
		return
	}

	WriteSuccess(w, almanac)
}

// GetSolarDate handles GET /api/v1/solar/{year}/{month}/{day}?leap=true
// It converts a lunar date to the solar date it falls on.
func (h *Handlers) GetSolarDate(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	day, errD := strconv.Atoi(chi.URLParam(r, "day"))
	if errY != nil || errM != nil || errD != nil {
		WriteBadRequest(w, "Lunar year, month, and day must be integers")
		return
	}

	leap := r.URL.Query().Get("leap") == "true"

	ld := lunar.LunarDate{Day: day, Month: month, Year: year, Leap: leap}
	solar, err := h.engine.ToSolar(ld)
	if err != nil {
		h.writeLunarError(w, err, ld.String())
		return
	}

	// Round-trip through the almanac so the response carries the labels too.
	almanac, err := h.engine.Almanac(solar)
	if err != nil {
		h.logger.Error("almanac for converted date failed",
			slog.String("solar", solar.String()),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to compute almanac")
		return
	}

	WriteSuccess(w, almanac)
}

// GetNextSpecialDay handles GET /api/v1/next/{kind}?from=YYYY-MM-DD
// kind is "new-moon" or "full-moon"; from defaults to today.
func (h *Handlers) GetNextSpecialDay(w http.ResponseWriter, r *http.Request) {
	kind := lunar.SpecialKind(chi.URLParam(r, "kind"))

	from := h.engine.Today(h.now())
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		var err error
		from, err = lunar.ParseSolarDate(fromStr)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid from date: %s. Use YYYY-MM-DD", fromStr))
			return
		}
	}

	result, err := h.engine.NextSpecialDay(from, kind)
	if err != nil {
		h.writeLunarError(w, err, string(kind))
		return
	}

	WriteSuccess(w, result)
}

// GetHistory handles GET /api/v1/history?start=YYYY-MM-DD&end=YYYY-MM-DD
// It returns published almanac snapshots, not recomputed values.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := lunar.ParseSolarDate(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	end, err := lunar.ParseSolarDate(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	days := lunar.SolarToJDN(end) - lunar.SolarToJDN(start)
	if days < 0 {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	// Limit range to 90 days to prevent abuse
	if days > 90 {
		WriteBadRequest(w, "Date range cannot exceed 90 days")
		return
	}

	rows, err := h.db.ListRange(ctx, startStr, endStr)
	if err != nil {
		h.logger.Error("failed to list almanac history",
			slog.String("start", startStr),
			slog.String("end", endStr),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve history")
		return
	}

	WriteSuccess(w, map[string]any{
		"start": startStr,
		"end":   endStr,
		"days":  rows,
	})
}

// GetCalendarFeed handles GET /api/v1/calendar.ics?months=N
// It streams an iCalendar feed of upcoming Mùng 1 and Rằm days.
func (h *Handlers) GetCalendarFeed(w http.ResponseWriter, r *http.Request) {
	months := 3
	if monthsStr := r.URL.Query().Get("months"); monthsStr != "" {
		n, err := strconv.Atoi(monthsStr)
		if err != nil || n < 1 || n > 12 {
			WriteBadRequest(w, "months must be an integer between 1 and 12")
			return
		}
		months = n
	}

	from := h.engine.Today(h.now())
	cal, err := feed.BuildCalendar(h.engine, from, months)
	if err != nil {
		h.logger.Error("failed to build calendar feed",
			slog.String("from", from.String()),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="amlich.ics"`)
	if err := feed.Encode(w, cal); err != nil {
		h.logger.Error("failed to encode calendar feed", slog.Any("error", err))
	}
}

// writeLunarError maps engine errors onto HTTP statuses.
func (h *Handlers) writeLunarError(w http.ResponseWriter, err error, subject string) {
	switch {
	case errors.Is(err, lunar.ErrNoSuchMonth):
		WriteNotFound(w, err.Error())
	case lunar.IsInvalidInput(err):
		WriteBadRequest(w, err.Error())
	default:
		h.logger.Error("lunar computation failed",
			slog.String("subject", subject),
			slog.Any("error", err))
		WriteInternalError(w, "Calendar computation failed")
	}
}
