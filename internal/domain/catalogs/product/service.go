package product

import (
	"context"
	"time"

	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
	"rxledger/internal/domain"
	"rxledger/internal/domain/audit"
	"rxledger/pkg/logger"
)

// Service provides business operations for the product catalog.
//
// Quantity never changes through this service; sales and returns go
// through the stock register.
type Service struct {
	repo      Repository
	auditSink audit.Sink
}

// NewService creates a product catalog service.
func NewService(repo Repository, auditSink audit.Sink) *Service {
	if auditSink == nil {
		auditSink = audit.NopSink{}
	}
	return &Service{repo: repo, auditSink: auditSink}
}

// Create adds a product to the branch catalog.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name, "branch_id", p.BranchID)
	s.writeAudit(ctx, p, audit.ActionProductCreated, "product created")
	return nil
}

// GetByID retrieves a product by branch and id.
func (s *Service) GetByID(ctx context.Context, branchID, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, branchID, productID)
}

// Update modifies catalog fields of an existing product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.writeAudit(ctx, p, audit.ActionProductUpdated, "product updated")
	return nil
}

// Archive soft-archives a product. Products referenced by invoice lines
// are never deleted.
func (s *Service) Archive(ctx context.Context, branchID, productID id.ID) error {
	return s.repo.Archive(ctx, branchID, productID)
}

// List retrieves products for a branch.
func (s *Service) List(ctx context.Context, branchID id.ID, filter ListFilter) (domain.ListResult[*Product], error) {
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListFilter().Limit
	}
	return s.repo.List(ctx, branchID, filter)
}

func (s *Service) writeAudit(ctx context.Context, p *Product, action audit.Action, detail string) {
	entry := audit.Entry{
		ID:         id.New(),
		ActorID:    appctx.GetUserID(ctx),
		BranchID:   p.BranchID,
		Action:     action,
		EntityType: "Product",
		EntityID:   p.ID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditSink.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit write failed", "action", action, "entity_id", p.ID, "error", err)
	}
}
