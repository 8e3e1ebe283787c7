package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rxledger/internal/core/apperror"
	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
	"rxledger/internal/core/sequence"
	"rxledger/internal/core/tx"
	"rxledger/internal/core/types"
	"rxledger/internal/domain"
	"rxledger/internal/domain/audit"
	"rxledger/internal/domain/catalogs/product"
	"rxledger/internal/domain/gst"
	"rxledger/internal/domain/registers/stock"
	"rxledger/pkg/logger"
)

// maxNumberAttempts bounds retries on an invoice-number collision.
// Collisions are rare (the sequence counter is atomic); the retry plus
// a counter resync is the backstop for counter resets and manual
// inserts.
const maxNumberAttempts = 3

// Service orchestrates the invoice issuing transaction.
//
// One call to Create runs as one atomic unit: stock deductions, tax
// computation, number assignment and the invoice rows all commit or all
// roll back together. The audit record is written after commit and is
// best-effort.
type Service struct {
	repo      Repository
	products  product.Repository
	ledger    *stock.Service
	sequencer sequence.Generator
	calc      gst.Calculator
	txManager tx.Manager
	auditSink audit.Sink
}

// NewService creates an invoice service.
func NewService(
	repo Repository,
	products product.Repository,
	ledger *stock.Service,
	sequencer sequence.Generator,
	txManager tx.Manager,
	auditSink audit.Sink,
) *Service {
	if auditSink == nil {
		auditSink = audit.NopSink{}
	}
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		sequencer: sequencer,
		calc:      gst.NewCalculator(),
		txManager: txManager,
		auditSink: auditSink,
	}
}

// Create issues an invoice from a cart.
//
// An empty or malformed cart is rejected before any store access. A
// missing product or a stock shortage aborts the whole transaction: no
// partial deduction survives across the cart's items. A duplicate
// invoice number rolls everything back and retries with a fresh number.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	var inv *Invoice
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		inv, err = s.createOnce(ctx, in)
		if err == nil || !apperror.IsDuplicate(err) {
			break
		}
		logger.Warn(ctx, "invoice number collision, resyncing sequence",
			"attempt", attempt,
			"branch_id", in.BranchID,
		)
		// The colliding allocation rolled back with its transaction.
		// Realign the counter with the numbers on file, outside any
		// transaction, or the retry re-allocates the same number.
		if rerr := s.sequencer.Resync(ctx, time.Now().UTC()); rerr != nil {
			return nil, rerr
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice issued",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"branch_id", inv.BranchID,
		"total", inv.TotalAmount,
		"items", len(inv.Lines),
	)

	s.writeAudit(ctx, inv)
	return inv, nil
}

// createOnce runs one attempt of the issuing transaction.
func (s *Service) createOnce(ctx context.Context, in CreateInput) (*Invoice, error) {
	inv := New(in, appctx.GetUserID(ctx))

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		subtotal := types.Zero()
		discount := types.Zero()
		cgst := types.Zero()
		sgst := types.Zero()
		igst := types.Zero()

		for i, item := range in.Items {
			p, err := s.products.GetByID(ctx, in.BranchID, item.ProductID)
			if err != nil {
				return err
			}

			if _, err := s.ledger.Reserve(ctx, in.BranchID, inv.ID, DocumentType, p.ID, item.Quantity); err != nil {
				return err
			}

			amounts := s.calc.Line(item.Quantity, p.MRP, item.DiscountPercent, p.GSTRate, in.InterState)

			inv.Lines = append(inv.Lines, Line{
				LineID:         id.New(),
				LineNo:         i + 1,
				ProductID:      p.ID,
				ProductName:    p.Name,
				UnitPrice:      p.MRP,
				Quantity:       item.Quantity,
				DiscountAmount: amounts.DiscountAmount,
				GSTRate:        p.GSTRate,
				CGSTAmount:     amounts.Split.CGST,
				SGSTAmount:     amounts.Split.SGST,
				IGSTAmount:     amounts.Split.IGST,
				Total:          amounts.Total,
			})

			subtotal = subtotal.Add(amounts.Subtotal)
			discount = discount.Add(amounts.DiscountAmount)
			cgst = cgst.Add(amounts.Split.CGST)
			sgst = sgst.Add(amounts.Split.SGST)
			igst = igst.Add(amounts.Split.IGST)
		}

		overallDiscount := types.RoundPaise(types.PercentOf(subtotal, in.DiscountPercent))

		inv.Subtotal = subtotal
		inv.DiscountAmount = discount.Add(overallDiscount)
		inv.CGSTAmount = cgst
		inv.SGSTAmount = sgst
		inv.IGSTAmount = igst
		inv.TotalAmount = subtotal.
			Sub(inv.DiscountAmount).
			Add(cgst).
			Add(sgst).
			Add(igst)

		if err := inv.CheckTotals(); err != nil {
			return err
		}

		// The number is allocated inside the transaction: a rolled-back
		// invoice rolls back its counter increment, keeping numbering
		// gap-free.
		number, err := s.sequencer.Next(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		inv.Number = number

		if err := s.repo.Create(ctx, inv); err != nil {
			return err
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, branchID, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, branchID, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// List retrieves invoices for a branch with filtering and pagination.
func (s *Service) List(ctx context.Context, branchID id.ID, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, branchID, filter)
}

func (s *Service) writeAudit(ctx context.Context, inv *Invoice) {
	payload, _ := json.Marshal(map[string]any{
		"number": inv.Number,
		"total":  inv.TotalAmount,
		"items":  len(inv.Lines),
	})

	entry := audit.Entry{
		ID:         id.New(),
		ActorID:    appctx.GetUserID(ctx),
		BranchID:   inv.BranchID,
		Action:     audit.ActionInvoiceIssued,
		EntityType: DocumentType,
		EntityID:   inv.ID,
		Detail:     fmt.Sprintf("invoice %s issued for %s", inv.Number, inv.TotalAmount),
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.auditSink.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit write failed",
			"action", entry.Action,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
