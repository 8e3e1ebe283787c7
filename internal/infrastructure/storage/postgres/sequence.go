package postgres

import (
	"context"
	"fmt"
	"time"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/sequence"
)

// SequenceGenerator implements sequence.Generator on a per-month counter
// row incremented with an atomic upsert. Two concurrent callers can
// never read the same value: the second upsert waits on the row lock
// and returns the next increment.
//
// The generator runs on the context querier: called inside the invoice
// transaction, a rolled-back invoice rolls back its counter increment
// and numbering stays gap-free. When the unique constraint on the
// invoice number still fires (the counter fell behind a manual insert
// or a reset), Resync realigns the counter before the retry.
type SequenceGenerator struct {
	txManager *TxManager
}

// NewSequenceGenerator creates a generator using the given manager.
func NewSequenceGenerator(txManager *TxManager) *SequenceGenerator {
	return &SequenceGenerator{txManager: txManager}
}

// Ensure compile-time interface compliance.
var _ sequence.Generator = (*SequenceGenerator)(nil)

// Next returns the next invoice number for the period containing ts.
func (g *SequenceGenerator) Next(ctx context.Context, ts time.Time) (string, error) {
	period := sequence.Period(ts)
	querier := g.txManager.GetQuerier(ctx)

	var num int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_invoice_sequences (period, current_val)
		VALUES ($1, 1)
		ON CONFLICT (period) DO UPDATE SET current_val = sys_invoice_sequences.current_val + 1
		RETURNING current_val
	`, period).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}

	if num > sequence.MaxPerPeriod {
		return "", apperror.NewSequenceExhausted(period)
	}

	return sequence.Format(period, num), nil
}

// Resync raises the period counter to the highest number already
// present in doc_invoices, so the next allocation skips past manually
// inserted or imported invoices. GREATEST keeps a concurrent allocation
// from moving the counter backwards. Must run outside the issuing
// transaction: there it writes on the pool and survives the rollback
// of the colliding attempt.
func (g *SequenceGenerator) Resync(ctx context.Context, ts time.Time) error {
	period := sequence.Period(ts)
	querier := g.txManager.GetQuerier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO sys_invoice_sequences (period, current_val)
		SELECT $1, COALESCE(MAX(RIGHT(number, 6)::bigint), 0)
		FROM doc_invoices
		WHERE number LIKE 'INV' || $1 || '%'
		ON CONFLICT (period) DO UPDATE SET
			current_val = GREATEST(sys_invoice_sequences.current_val, EXCLUDED.current_val)
	`, period)
	if err != nil {
		return fmt.Errorf("resync invoice sequence: %w", err)
	}
	return nil
}
