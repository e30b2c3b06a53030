package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/model"
)

const timestampFormat = "2006-01-02 15:04:05"

// SaveLedger stores a ledger under a name, replacing any previous import with
// the same name.
func (s *Store) SaveLedger(ctx context.Context, name string, ledger model.Ledger) error {
	if name == "" {
		return fmt.Errorf("ledger name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE ledger_name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear previous import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(ledger_name, timestamp, description, receipt_id, tx_type, category, amount, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range ledger {
		_, err := stmt.ExecContext(ctx,
			name,
			t.Timestamp.Format(timestampFormat),
			t.Description,
			t.ReceiptID,
			string(t.Type),
			t.Category,
			t.Amount.String(),
			t.Balance.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	return tx.Commit()
}

// LoadLedger returns a previously imported ledger in timestamp order.
func (s *Store) LoadLedger(ctx context.Context, name string) (model.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, description, receipt_id, tx_type, category, amount, balance
		FROM transactions WHERE ledger_name = ? ORDER BY timestamp, id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ledger model.Ledger
	for rows.Next() {
		var ts, description, receipt, txType, category, amountStr, balanceStr string
		if err := rows.Scan(&ts, &description, &receipt, &txType, &category, &amountStr, &balanceStr); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		when, err := time.Parse(timestampFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp %q: %w", ts, err)
		}
		amt, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amountStr, err)
		}
		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance %q: %w", balanceStr, err)
		}

		ledger = append(ledger, model.Transaction{
			Timestamp:   when,
			Description: description,
			ReceiptID:   receipt,
			Type:        model.TransactionType(txType),
			Category:    category,
			Amount:      amt,
			Balance:     balance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(ledger) == 0 {
		return nil, common.ErrNotFound
	}
	return ledger, nil
}

// ListLedgers returns the names of stored imports with their transaction counts.
func (s *Store) ListLedgers(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ledger_name, COUNT(*) FROM transactions GROUP BY ledger_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}

// SetCategoryMapping registers (or updates) an exact description→category override.
func (s *Store) SetCategoryMapping(ctx context.Context, description, category string) error {
	if description == "" || category == "" {
		return fmt.Errorf("description and category are required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO category_mappings (description, category)
		VALUES (?, ?)
		ON CONFLICT(description) DO UPDATE SET category = excluded.category`,
		description, category)
	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

// DeleteCategoryMapping removes an override.
func (s *Store) DeleteCategoryMapping(ctx context.Context, description string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM category_mappings WHERE description = ?`, description)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListCategoryMappings returns all custom overrides.
func (s *Store) ListCategoryMappings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT description, category FROM category_mappings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	mappings := make(map[string]string)
	for rows.Next() {
		var description, category string
		if err := rows.Scan(&description, &category); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings[description] = category
	}
	return mappings, rows.Err()
}

// IsNotFound reports whether err is the store's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
