package reports

import (
	"context"
	"fmt"
	"time"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/security"
)

// defaultTopProducts is the ranking size for the advanced report.
const defaultTopProducts = 10

// Service provides report generation operations.
type Service struct {
	repo Repository
	gate security.FeatureGate
}

// NewService creates a reports service. A nil gate enables everything.
func NewService(repo Repository, gate security.FeatureGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Summary generates the sales summary for a branch and period.
func (s *Service) Summary(ctx context.Context, branchID id.ID, period Period) (*SalesSummary, error) {
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.GetSalesSummary(ctx, branchID, period)
	if err != nil {
		return nil, fmt.Errorf("get sales summary: %w", err)
	}

	if summary.PaymentBreakdown == nil {
		summary.PaymentBreakdown = []PaymentBucket{}
	}
	return summary, nil
}

// Advanced generates the full report: financials, payment breakdown,
// top products and the inventory valuation snapshot. Subscription-gated.
func (s *Service) Advanced(ctx context.Context, branchID id.ID, period Period) (*AdvancedReport, error) {
	if s.gate != nil && !s.gate.Enabled(ctx, branchID, security.FeatureAdvancedReports) {
		return nil, apperror.NewForbidden("advanced reports are not enabled for this branch").
			WithDetail("feature", security.FeatureAdvancedReports)
	}

	summary, err := s.Summary(ctx, branchID, period)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.GetTopProducts(ctx, branchID, Period{FromDate: summary.FromDate, ToDate: summary.ToDate}, defaultTopProducts)
	if err != nil {
		return nil, fmt.Errorf("get top products: %w", err)
	}
	if top == nil {
		top = []TopProduct{}
	}

	valuation, err := s.repo.GetInventoryValuation(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("get inventory valuation: %w", err)
	}

	return &AdvancedReport{
		SalesSummary:       *summary,
		TopProducts:        top,
		InventoryValuation: valuation,
	}, nil
}

// normalizePeriod applies defaults (last 30 days) and orders the range.
func normalizePeriod(p Period) (Period, error) {
	now := time.Now().UTC()
	if p.ToDate.IsZero() {
		p.ToDate = now
	}
	if p.FromDate.IsZero() {
		p.FromDate = p.ToDate.AddDate(0, 0, -30)
	}
	if p.FromDate.After(p.ToDate) {
		return p, apperror.NewValidation("startDate must not be after endDate").
			WithDetail("startDate", p.FromDate).
			WithDetail("endDate", p.ToDate)
	}
	return p, nil
}
