package reports

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/security"
	"rxledger/internal/core/types"
)

// soldInvoice is one committed invoice as the fake repository sees it.
type soldInvoice struct {
	total    types.Money
	gst      types.Money
	discount types.Money
	method   string
	date     time.Time
}

// soldLine is one invoice line snapshot feeding the product rollup.
type soldLine struct {
	productID id.ID
	name      string
	quantity  types.Quantity
	revenue   types.Money
}

// fakeRepo aggregates in memory the way the SQL rollups do.
type fakeRepo struct {
	invoices  []soldInvoice
	lines     []soldLine
	valuation types.Money
}

func (r *fakeRepo) GetSalesSummary(ctx context.Context, branchID id.ID, period Period) (*SalesSummary, error) {
	summary := &SalesSummary{
		FromDate:      period.FromDate,
		ToDate:        period.ToDate,
		TotalSales:    types.Zero(),
		TotalGST:      types.Zero(),
		TotalDiscount: types.Zero(),
	}

	buckets := make(map[string]*PaymentBucket)
	for _, inv := range r.invoices {
		if inv.date.Before(period.FromDate) || inv.date.After(period.ToDate) {
			continue
		}
		summary.TotalSales = summary.TotalSales.Add(inv.total)
		summary.TotalGST = summary.TotalGST.Add(inv.gst)
		summary.TotalDiscount = summary.TotalDiscount.Add(inv.discount)
		summary.InvoiceCount++

		b, ok := buckets[inv.method]
		if !ok {
			b = &PaymentBucket{Method: inv.method, Total: types.Zero()}
			buckets[inv.method] = b
		}
		b.Total = b.Total.Add(inv.total)
		b.Count++
	}
	for _, b := range buckets {
		summary.PaymentBreakdown = append(summary.PaymentBreakdown, *b)
	}
	return summary, nil
}

func (r *fakeRepo) GetTopProducts(ctx context.Context, branchID id.ID, period Period, limit int) ([]TopProduct, error) {
	sums := make(map[id.ID]*TopProduct)
	var order []id.ID
	for _, l := range r.lines {
		p, ok := sums[l.productID]
		if !ok {
			p = &TopProduct{
				ProductID:    l.productID,
				ProductName:  l.name,
				QuantitySold: types.Zero(),
				Revenue:      types.Zero(),
			}
			sums[l.productID] = p
			order = append(order, l.productID)
		}
		p.QuantitySold = p.QuantitySold.Add(l.quantity)
		p.Revenue = p.Revenue.Add(l.revenue)
	}

	top := make([]TopProduct, 0, len(order))
	for _, pid := range order {
		top = append(top, *sums[pid])
	}

	// Ranked by quantity sold, not revenue.
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].QuantitySold.GreaterThan(top[j].QuantitySold)
	})
	if limit < len(top) {
		top = top[:limit]
	}
	return top, nil
}

func (r *fakeRepo) GetInventoryValuation(ctx context.Context, branchID id.ID) (types.Money, error) {
	return r.valuation, nil
}

var _ Repository = (*fakeRepo)(nil)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 12, 0, 0, 0, time.UTC)
}

func TestSummary_SumsInvoices(t *testing.T) {
	repo := &fakeRepo{
		invoices: []soldInvoice{
			{total: types.MustMoney("100"), method: "CASH", date: day(1)},
			{total: types.MustMoney("200"), method: "UPI", date: day(2)},
			{total: types.MustMoney("300"), method: "CASH", date: day(3)},
		},
	}
	svc := NewService(repo, nil)

	summary, err := svc.Summary(context.Background(), id.New(), Period{
		FromDate: day(1),
		ToDate:   day(30),
	})
	require.NoError(t, err)

	assert.True(t, summary.TotalSales.Equal(types.MustMoney("600")), "totalSales = %s", summary.TotalSales)
	assert.EqualValues(t, 3, summary.InvoiceCount)
	assert.True(t, summary.TotalGST.IsZero())
	assert.True(t, summary.TotalDiscount.IsZero())

	require.Len(t, summary.PaymentBreakdown, 2)
	byMethod := make(map[string]PaymentBucket)
	for _, b := range summary.PaymentBreakdown {
		byMethod[b.Method] = b
	}
	assert.True(t, byMethod["CASH"].Total.Equal(types.MustMoney("400")))
	assert.EqualValues(t, 2, byMethod["CASH"].Count)
	assert.True(t, byMethod["UPI"].Total.Equal(types.MustMoney("200")))
}

func TestSummary_EmptyPeriod(t *testing.T) {
	repo := &fakeRepo{
		invoices: []soldInvoice{
			{total: types.MustMoney("100"), method: "CASH", date: day(1)},
		},
	}
	svc := NewService(repo, nil)

	// A range with no invoices yields zeros and an empty list, no error.
	summary, err := svc.Summary(context.Background(), id.New(), Period{
		FromDate: day(10),
		ToDate:   day(20),
	})
	require.NoError(t, err)

	assert.True(t, summary.TotalSales.IsZero())
	assert.EqualValues(t, 0, summary.InvoiceCount)
	assert.NotNil(t, summary.PaymentBreakdown)
	assert.Empty(t, summary.PaymentBreakdown)
}

func TestSummary_InvalidRange(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	_, err := svc.Summary(context.Background(), id.New(), Period{
		FromDate: day(20),
		ToDate:   day(10),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSummary_DefaultPeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	summary, err := svc.Summary(context.Background(), id.New(), Period{})
	require.NoError(t, err)

	assert.False(t, summary.FromDate.IsZero())
	assert.False(t, summary.ToDate.IsZero())
	assert.True(t, summary.FromDate.Before(summary.ToDate))
}

func TestAdvanced_FullReport(t *testing.T) {
	branchID := id.New()
	repo := &fakeRepo{
		invoices: []soldInvoice{
			{total: types.MustMoney("560"), gst: types.MustMoney("60"), method: "CARD", date: day(5)},
		},
		lines: []soldLine{
			{productID: id.New(), name: "Paracetamol 500mg", quantity: types.MustMoney("40"), revenue: types.MustMoney("4000")},
		},
		valuation: types.MustMoney("12500.50"),
	}

	gate := security.NewInMemoryGate(map[string]bool{security.FeatureAdvancedReports: true})
	svc := NewService(repo, gate)

	report, err := svc.Advanced(context.Background(), branchID, Period{FromDate: day(1), ToDate: day(30)})
	require.NoError(t, err)

	assert.True(t, report.TotalSales.Equal(types.MustMoney("560")))
	assert.True(t, report.TotalGST.Equal(types.MustMoney("60")))
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "Paracetamol 500mg", report.TopProducts[0].ProductName)
	assert.True(t, report.InventoryValuation.Equal(types.MustMoney("12500.50")))
}

func TestAdvanced_TopProductsRankedByQuantitySold(t *testing.T) {
	thermometer := id.New()
	paracetamol := id.New()

	// The thermometer out-earns the paracetamol by far; the strip still
	// ranks first because ordering follows units sold, not revenue.
	repo := &fakeRepo{
		lines: []soldLine{
			{productID: thermometer, name: "Digital Thermometer", quantity: types.MustMoney("3"), revenue: types.MustMoney("750")},
			{productID: paracetamol, name: "Paracetamol 500mg", quantity: types.MustMoney("60"), revenue: types.MustMoney("180")},
			{productID: paracetamol, name: "Paracetamol 500mg", quantity: types.MustMoney("40"), revenue: types.MustMoney("120")},
		},
	}
	svc := NewService(repo, nil)

	report, err := svc.Advanced(context.Background(), id.New(), Period{FromDate: day(1), ToDate: day(30)})
	require.NoError(t, err)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Paracetamol 500mg", report.TopProducts[0].ProductName)
	assert.True(t, report.TopProducts[0].QuantitySold.Equal(types.MustMoney("100")))
	assert.True(t, report.TopProducts[0].Revenue.Equal(types.MustMoney("300")))
	assert.Equal(t, "Digital Thermometer", report.TopProducts[1].ProductName)
}

func TestAdvanced_FeatureGated(t *testing.T) {
	branchID := id.New()
	gate := security.NewInMemoryGate(map[string]bool{security.FeatureAdvancedReports: false})
	svc := NewService(&fakeRepo{}, gate)

	_, err := svc.Advanced(context.Background(), branchID, Period{FromDate: day(1), ToDate: day(30)})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	// A branch override re-enables the feature.
	gate.SetBranchFeature(branchID, security.FeatureAdvancedReports, true)
	_, err = svc.Advanced(context.Background(), branchID, Period{FromDate: day(1), ToDate: day(30)})
	require.NoError(t, err)
}

func TestAdvanced_EmptyEverything(t *testing.T) {
	svc := NewService(&fakeRepo{valuation: types.Zero()}, nil)

	report, err := svc.Advanced(context.Background(), id.New(), Period{FromDate: day(1), ToDate: day(30)})
	require.NoError(t, err)

	assert.True(t, report.TotalSales.IsZero())
	assert.NotNil(t, report.TopProducts)
	assert.Empty(t, report.TopProducts)
	assert.True(t, report.InventoryValuation.IsZero())
}
