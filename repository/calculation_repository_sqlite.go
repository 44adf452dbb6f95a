package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"loan-origination/domain"
)

// fixed width so that created_at sorts lexically
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CalculationRepositorySQLite persists calculation records in SQLite.
// Use ":memory:" for a throwaway database.
type CalculationRepositorySQLite struct {
	db *sql.DB
}

func NewCalculationRepositorySQLite(dbPath string) (*CalculationRepositorySQLite, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every new connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &CalculationRepositorySQLite{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *CalculationRepositorySQLite) Close() error {
	return r.db.Close()
}

func (r *CalculationRepositorySQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		principal REAL NOT NULL,
		annual_rate_percent REAL NOT NULL,
		tenure_years INTEGER NOT NULL,
		monthly_payment REAL NOT NULL,
		total_payment REAL NOT NULL,
		total_interest REAL NOT NULL,
		number_of_payments INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at DESC);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *CalculationRepositorySQLite) Save(ctx context.Context, record domain.CalculationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calculations (
			id, principal, annual_rate_percent, tenure_years,
			monthly_payment, total_payment, total_interest, number_of_payments,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Terms.Principal,
		record.Terms.AnnualRatePercent,
		record.Terms.TenureYears,
		record.Summary.MonthlyPayment,
		record.Summary.TotalPayment,
		record.Summary.TotalInterest,
		record.Summary.NumberOfPayments,
		record.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation %s: %w", record.ID, err)
	}
	return nil
}

func (r *CalculationRepositorySQLite) List(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, principal, annual_rate_percent, tenure_years,
			monthly_payment, total_payment, total_interest, number_of_payments,
			created_at
		FROM calculations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	records := []domain.CalculationRecord{}
	for rows.Next() {
		var (
			rec       domain.CalculationRecord
			createdAt string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Terms.Principal,
			&rec.Terms.AnnualRatePercent,
			&rec.Terms.TenureYears,
			&rec.Summary.MonthlyPayment,
			&rec.Summary.TotalPayment,
			&rec.Summary.TotalInterest,
			&rec.Summary.NumberOfPayments,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		rec.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at for calculation %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
