package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// tagSeparator joins an expense's tags into the single TEXT column.
const tagSeparator = ";"

// SQLiteRepository is an alternative snapshot backend for users who want
// the ledger in a queryable database instead of a flat JSON document.
// Save still replaces the whole state, keeping backend semantics uniform.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, category, date, payment_method, tags,
		       recur_frequency, recur_next_due, recur_end_date
		FROM expenses ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                        core.Expense
			dateStr, method, tags    string
			recurFreq, recurNextDue  sql.NullString
			recurEndDate             sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category,
			&dateStr, &method, &tags, &recurFreq, &recurNextDue, &recurEndDate); err != nil {
			return Snapshot{}, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse date for expense %s: %w", e.ID, err)
		}
		e.PaymentMethod = core.ParsePaymentMethod(method)
		if tags != "" {
			e.Tags = strings.Split(tags, tagSeparator)
		}
		if recurFreq.Valid && recurNextDue.Valid {
			nextDue, err := time.Parse(time.RFC3339, recurNextDue.String)
			if err != nil {
				return Snapshot{}, fmt.Errorf("parse nextDue for expense %s: %w", e.ID, err)
			}
			rule := &core.RecurrenceRule{
				Frequency: core.Frequency(recurFreq.String),
				NextDue:   nextDue,
			}
			if recurEndDate.Valid && recurEndDate.String != "" {
				end, err := time.Parse(time.RFC3339, recurEndDate.String)
				if err != nil {
					return Snapshot{}, fmt.Errorf("parse endDate for expense %s: %w", e.ID, err)
				}
				rule.EndDate = &end
			}
			e.Recurring = rule
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate expenses: %w", err)
	}

	budgetRows, err := r.db.QueryContext(ctx,
		`SELECT category, monthly_limit, alert_threshold FROM budgets ORDER BY category`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query budgets: %w", err)
	}
	defer budgetRows.Close()

	for budgetRows.Next() {
		var b core.Budget
		if err := budgetRows.Scan(&b.Category, &b.MonthlyLimit, &b.AlertThreshold); err != nil {
			return Snapshot{}, fmt.Errorf("scan budget: %w", err)
		}
		snap.Budgets = append(snap.Budgets, b)
	}
	if err := budgetRows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate budgets: %w", err)
	}

	var lastUpdated string
	err = r.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'last_updated'`).Scan(&lastUpdated)
	switch {
	case err == sql.ErrNoRows:
		// First run, nothing saved yet
	case err != nil:
		return Snapshot{}, fmt.Errorf("query last updated: %w", err)
	default:
		snap.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse last updated: %w", err)
		}
	}

	return snap, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, snap Snapshot) error {
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}

	for i, e := range snap.Expenses {
		var recurFreq, recurNextDue, recurEndDate sql.NullString
		if e.Recurring != nil {
			recurFreq = sql.NullString{String: string(e.Recurring.Frequency), Valid: true}
			recurNextDue = sql.NullString{String: e.Recurring.NextDue.Format(time.RFC3339), Valid: true}
			if e.Recurring.EndDate != nil {
				recurEndDate = sql.NullString{String: e.Recurring.EndDate.Format(time.RFC3339), Valid: true}
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, position, description, amount, category, date,
			                      payment_method, tags, recur_frequency, recur_next_due, recur_end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Description, e.Amount, e.Category,
			e.Date.Format(time.RFC3339), string(e.PaymentMethod),
			strings.Join(e.Tags, tagSeparator), recurFreq, recurNextDue, recurEndDate)
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	for _, b := range snap.Budgets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (category, monthly_limit, alert_threshold)
			VALUES (?, ?, ?)`,
			b.Category, b.MonthlyLimit, b.AlertThreshold)
		if err != nil {
			return fmt.Errorf("insert budget %s: %w", b.Category, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('last_updated', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		snap.LastUpdated.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("update last updated: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
