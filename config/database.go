package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(100),
			email VARCHAR(100),
			phone VARCHAR(20),
			address VARCHAR(200),
			avatar_path VARCHAR(255),
			failed_logins INT NOT NULL DEFAULT 0,
			locked_until TIMESTAMPTZ,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// user_id is nullable: legacy shared categories have no owner.
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE RESTRICT,
			name VARCHAR(100) NOT NULL,
			kind VARCHAR(20) NOT NULL,
			category_group VARCHAR(20),
			note VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT categories_kind_check CHECK (kind IN ('expense', 'income')),
			CONSTRAINT categories_group_check CHECK (category_group IS NULL OR category_group IN ('fixed', 'variable')),
			CONSTRAINT categories_name_unique UNIQUE (user_id, name, kind)
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			category_id UUID REFERENCES categories(id) ON DELETE RESTRICT,
			amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
			spent_on DATE NOT NULL,
			note VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// month/year is the accounting attribution, which may differ
		// from received_on.
		`CREATE TABLE IF NOT EXISTS incomes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			category_id UUID REFERENCES categories(id) ON DELETE RESTRICT,
			amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
			received_on DATE NOT NULL,
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			year INT NOT NULL CHECK (year BETWEEN 2000 AND 2100),
			note VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			cap NUMERIC(18,2) NOT NULL CHECK (cap >= 0),
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			year INT NOT NULL CHECK (year BETWEEN 2000 AND 2100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT budgets_period_unique UNIQUE (user_id, category_id, month, year)
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			name VARCHAR(100) NOT NULL,
			target NUMERIC(18,2) NOT NULL,
			saved NUMERIC(18,2) NOT NULL DEFAULT 0,
			deadline DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// dedup_day is only set on budget-overage reminders; the
		// partial unique index makes the insert idempotent per
		// (user, category, kind, calendar day).
		`CREATE TABLE IF NOT EXISTS reminders (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			content VARCHAR(200),
			fire_at TIMESTAMPTZ NOT NULL,
			kind VARCHAR(50),
			category_id UUID REFERENCES categories(id) ON DELETE RESTRICT,
			dedup_day DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS reminders_overage_dedup
			ON reminders(user_id, category_id, kind, dedup_day)
			WHERE dedup_day IS NOT NULL`,

		`CREATE INDEX IF NOT EXISTS expenses_user_month_idx
			ON expenses(user_id, category_id, spent_on)`,

		`CREATE INDEX IF NOT EXISTS incomes_user_period_idx
			ON incomes(user_id, year, month)`,

		`CREATE INDEX IF NOT EXISTS reminders_fire_at_idx
			ON reminders(fire_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
