// Package audit provides the append-only audit log contract.
//
// The sink is best-effort: one record per mutating operation, written
// after the business transaction commits. A sink failure is logged and
// never propagated, so it can neither abort nor roll back the business
// operation.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"rxledger/internal/core/id"
)

// Action identifies the kind of mutating operation.
type Action string

const (
	ActionInvoiceIssued  Action = "invoice_issued"
	ActionInvoiceRefund  Action = "invoice_refunded"
	ActionProductCreated Action = "product_created"
	ActionProductUpdated Action = "product_updated"
)

// Entry is one audit record.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	ActorID    id.ID           `db:"actor_id" json:"actorId"`
	BranchID   id.ID           `db:"branch_id" json:"branchId"`
	Action     Action          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Detail     string          `db:"detail" json:"detail,omitempty"`
	Payload    json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Sink records audit entries.
type Sink interface {
	// Record appends one entry. Callers treat errors as advisory.
	Record(ctx context.Context, entry Entry) error
}

// NopSink discards all entries. Used in tests and when auditing is off.
type NopSink struct{}

// Record implements Sink.
func (NopSink) Record(ctx context.Context, entry Entry) error { return nil }

var _ Sink = NopSink{}
