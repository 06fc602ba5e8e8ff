package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries the formats SQLite actually emits and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UpsertDay writes or refreshes one almanac snapshot row.
// The daily publisher calls this; re-publishing the same day only bumps
// updated_at.
func (db *DB) UpsertDay(ctx context.Context, day AlmanacDay) error {
	query := `
		INSERT INTO almanac_days (
			solar_date, lunar_day, lunar_month, lunar_year, leap_month,
			year_label, month_label, day_label, weekday, special
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (solar_date) DO UPDATE SET
			lunar_day   = excluded.lunar_day,
			lunar_month = excluded.lunar_month,
			lunar_year  = excluded.lunar_year,
			leap_month  = excluded.leap_month,
			year_label  = excluded.year_label,
			month_label = excluded.month_label,
			day_label   = excluded.day_label,
			weekday     = excluded.weekday,
			special     = excluded.special,
			updated_at  = datetime('now')
	`

	leap := 0
	if day.LeapMonth {
		leap = 1
	}

	_, err := db.ExecContext(ctx, query,
		day.SolarDate,
		day.LunarDay, day.LunarMonth, day.LunarYear, leap,
		day.YearLabel, day.MonthLabel, day.DayLabel, day.Weekday,
		day.Special,
	)
	if err != nil {
		return fmt.Errorf("upsert almanac day %s: %w", day.SolarDate, err)
	}
	return nil
}

// GetDay retrieves the published snapshot for a solar date (YYYY-MM-DD).
// Returns ErrNotFound if nothing has been published for that day.
func (db *DB) GetDay(ctx context.Context, solarDate string) (*AlmanacDay, error) {
	query := `
		SELECT solar_date, lunar_day, lunar_month, lunar_year, leap_month,
		       year_label, month_label, day_label, weekday, special,
		       created_at, updated_at
		FROM almanac_days
		WHERE solar_date = ?
	`

	day, err := scanDay(db.QueryRowContext(ctx, query, solarDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query almanac day %s: %w", solarDate, err)
	}
	return day, nil
}

// ListRange returns published snapshots with start <= solar_date <= end,
// in ascending date order. Days that were never published are simply
// absent from the result.
func (db *DB) ListRange(ctx context.Context, start, end string) ([]AlmanacDay, error) {
	query := `
		SELECT solar_date, lunar_day, lunar_month, lunar_year, leap_month,
		       year_label, month_label, day_label, weekday, special,
		       created_at, updated_at
		FROM almanac_days
		WHERE solar_date >= ? AND solar_date <= ?
		ORDER BY solar_date
	`

	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query almanac range %s..%s: %w", start, end, err)
	}
	defer rows.Close()

	var days []AlmanacDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan almanac range row: %w", err)
		}
		days = append(days, *day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate almanac range: %w", err)
	}

	return days, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDay(s scanner) (*AlmanacDay, error) {
	var day AlmanacDay
	var leap int
	var createdAt, updatedAt string

	err := s.Scan(
		&day.SolarDate,
		&day.LunarDay, &day.LunarMonth, &day.LunarYear, &leap,
		&day.YearLabel, &day.MonthLabel, &day.DayLabel, &day.Weekday,
		&day.Special,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	day.LeapMonth = leap == 1
	day.CreatedAt = parseTimestamp(createdAt)
	day.UpdatedAt = parseTimestamp(updatedAt)
	return &day, nil
}
