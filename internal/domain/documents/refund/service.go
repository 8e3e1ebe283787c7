package refund

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rxledger/internal/core/apperror"
	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/tx"
	"rxledger/internal/domain/audit"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/registers/stock"
	"rxledger/pkg/logger"
)

// Service processes returns against issued invoices.
//
// One call to Process runs as one atomic unit: every stock release, the
// return rows and the invoice status flip commit or roll back together.
type Service struct {
	repo      Repository
	invoices  invoice.Repository
	ledger    *stock.Service
	txManager tx.Manager
	auditSink audit.Sink
}

// NewService creates a return service.
func NewService(
	repo Repository,
	invoices invoice.Repository,
	ledger *stock.Service,
	txManager tx.Manager,
	auditSink audit.Sink,
) *Service {
	if auditSink == nil {
		auditSink = audit.NopSink{}
	}
	return &Service{
		repo:      repo,
		invoices:  invoices,
		ledger:    ledger,
		txManager: txManager,
		auditSink: auditSink,
	}
}

// Process creates the return for an invoice: restocks the returned
// lines, records the credit note and flips the invoice to REFUNDED.
func (s *Service) Process(ctx context.Context, in ProcessInput) (*Return, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	inv, err := s.invoices.GetByID(ctx, in.BranchID, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != invoice.StatusIssued {
		return nil, apperror.NewInvoiceRefunded(inv.Number)
	}

	lines, err := s.invoices.GetLines(ctx, in.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	inv.Lines = lines

	doc := entity.NewDocument(appctx.GetUserID(ctx))
	doc.Number = CreditNoteNumber(inv.Number)

	ret := &Return{
		Document:     doc,
		BranchID:     in.BranchID,
		InvoiceID:    inv.ID,
		Reason:       in.Reason,
		RefundAmount: in.RefundAmount,
		Lines:        make([]Line, 0, len(in.Items)),
	}

	for i, item := range in.Items {
		src := inv.FindLine(item.InvoiceItemID)
		if src == nil {
			return nil, apperror.NewValidation("return item does not belong to the invoice").
				WithDetail("field", "returnItems").
				WithDetail("lineNo", i+1).
				WithDetail("invoice_item_id", item.InvoiceItemID.String())
		}
		if item.Quantity.GreaterThan(src.Quantity) {
			return nil, apperror.NewValidation("return quantity exceeds invoiced quantity").
				WithDetail("field", "returnItems").
				WithDetail("lineNo", i+1).
				WithDetail("invoiced", src.Quantity).
				WithDetail("requested", item.Quantity)
		}

		ret.Lines = append(ret.Lines, Line{
			LineID:        id.New(),
			InvoiceLineID: src.LineID,
			ProductID:     src.ProductID,
			ProductName:   src.ProductName,
			Quantity:      item.Quantity,
		})
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range ret.Lines {
			if _, err := s.ledger.Release(ctx, in.BranchID, ret.ID, DocumentType, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, ret); err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		if err := s.repo.SaveLines(ctx, ret.ID, ret.Lines); err != nil {
			return fmt.Errorf("save return lines: %w", err)
		}

		// The status guard inside MarkRefunded makes a concurrent
		// double-return lose cleanly: the second transaction rolls back
		// its stock releases.
		return s.invoices.MarkRefunded(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice refunded",
		"invoice_id", inv.ID,
		"invoice_number", inv.Number,
		"credit_note", ret.Number,
		"refund_amount", ret.RefundAmount,
		"lines", len(ret.Lines),
	)

	s.writeAudit(ctx, inv, ret)
	return ret, nil
}

// GetByInvoice retrieves the return processed for an invoice, with lines.
func (s *Service) GetByInvoice(ctx context.Context, invoiceID id.ID) (*Return, error) {
	ret, err := s.repo.GetByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, ret.ID)
	if err != nil {
		return nil, fmt.Errorf("get return lines: %w", err)
	}
	ret.Lines = lines

	return ret, nil
}

func (s *Service) writeAudit(ctx context.Context, inv *invoice.Invoice, ret *Return) {
	payload, _ := json.Marshal(map[string]any{
		"credit_note":   ret.Number,
		"refund_amount": ret.RefundAmount,
		"lines":         len(ret.Lines),
	})

	entry := audit.Entry{
		ID:         id.New(),
		ActorID:    appctx.GetUserID(ctx),
		BranchID:   ret.BranchID,
		Action:     audit.ActionInvoiceRefund,
		EntityType: DocumentType,
		EntityID:   ret.ID,
		Detail:     fmt.Sprintf("invoice %s refunded, credit note %s", inv.Number, ret.Number),
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
