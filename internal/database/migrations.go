package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1AlmanacDays,
}

// migrationV1AlmanacDays creates the almanac snapshot table.
//
// Key design decisions:
//
// 1. SNAPSHOTS NOT SOURCE OF TRUTH
//   - The lunar engine computes every value at runtime; this table only
//     records what the daily publisher produced, so the history endpoint
//     can answer "what was published for day X" without recomputation.
//
// 2. ONE ROW PER CIVIL DAY
//   - solar_date (YYYY-MM-DD) is the natural key. The publisher upserts,
//     so re-running a publish for the same day is harmless.
//
// 3. DENORMALIZED LABELS
//   - year_label/month_label/day_label/weekday are stored as rendered
//     strings. They are pure functions of the date, but storing them keeps
//     reads trivial and makes each row self-describing.
const migrationV1AlmanacDays = `
-- Migration 001: Almanac snapshot table

CREATE TABLE IF NOT EXISTS almanac_days (
    -- Civil day in the configured timezone, formatted YYYY-MM-DD
    solar_date TEXT PRIMARY KEY,

    -- Lunar date components
    lunar_day   INTEGER NOT NULL CHECK (lunar_day BETWEEN 1 AND 30),
    lunar_month INTEGER NOT NULL CHECK (lunar_month BETWEEN 1 AND 12),
    lunar_year  INTEGER NOT NULL,
    leap_month  INTEGER NOT NULL DEFAULT 0 CHECK (leap_month IN (0, 1)),

    -- Rendered Can-Chi labels and weekday
    year_label  TEXT NOT NULL,
    month_label TEXT NOT NULL,
    day_label   TEXT NOT NULL,
    weekday     TEXT NOT NULL,

    -- Special-day kind: '' (ordinary), 'new-moon', or 'full-moon'
    special TEXT NOT NULL DEFAULT '' CHECK (special IN ('', 'new-moon', 'full-moon')),

    -- Timestamps for auditing
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- History queries scan by lunar month within a year
CREATE INDEX IF NOT EXISTS idx_almanac_days_lunar
    ON almanac_days(lunar_year, lunar_month);

-- Finding published special days quickly
CREATE INDEX IF NOT EXISTS idx_almanac_days_special
    ON almanac_days(special)
    WHERE special != '';
`
