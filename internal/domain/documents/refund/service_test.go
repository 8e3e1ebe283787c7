package refund

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/registers/stock"
)

// --- In-memory fixture ---

type fixture struct {
	mu        sync.Mutex
	service   *Service
	branchID  id.ID
	invoice   *invoice.Invoice
	lines     []invoice.Line
	returns   map[id.ID]*Return
	retLines  map[id.ID][]Line
	stock     map[id.ID]types.Quantity
	active    map[id.ID]bool
	movements []stock.Movement
}

type fxSnapshot struct {
	status    invoice.Status
	returns   map[id.ID]*Return
	stock     map[id.ID]types.Quantity
	active    map[id.ID]bool
	movements int
}

func (f *fixture) snapshot() fxSnapshot {
	snap := fxSnapshot{
		status:    f.invoice.Status,
		returns:   make(map[id.ID]*Return, len(f.returns)),
		stock:     make(map[id.ID]types.Quantity, len(f.stock)),
		active:    make(map[id.ID]bool, len(f.active)),
		movements: len(f.movements),
	}
	for k, v := range f.returns {
		cp := *v
		snap.returns[k] = &cp
	}
	for k, v := range f.stock {
		snap.stock[k] = v
	}
	for k, v := range f.active {
		snap.active[k] = v
	}
	return snap
}

func (f *fixture) restore(snap fxSnapshot) {
	f.invoice.Status = snap.status
	f.returns = snap.returns
	f.stock = snap.stock
	f.active = snap.active
	f.movements = f.movements[:snap.movements]
}

func (f *fixture) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(ctx); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

// invoice.Repository

type fxInvoiceRepo struct{ f *fixture }

func (r *fxInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error { return nil }

func (r *fxInvoiceRepo) SaveLines(ctx context.Context, invoiceID id.ID, lines []invoice.Line) error {
	return nil
}

func (r *fxInvoiceRepo) GetByID(ctx context.Context, branchID, invoiceID id.ID) (*invoice.Invoice, error) {
	if r.f.invoice == nil || r.f.invoice.ID != invoiceID || r.f.invoice.BranchID != branchID {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	cp := *r.f.invoice
	return &cp, nil
}

func (r *fxInvoiceRepo) GetLines(ctx context.Context, invoiceID id.ID) ([]invoice.Line, error) {
	return append([]invoice.Line(nil), r.f.lines...), nil
}

func (r *fxInvoiceRepo) MarkRefunded(ctx context.Context, invoiceID id.ID) error {
	if r.f.invoice.Status != invoice.StatusIssued {
		return apperror.NewInvoiceRefunded(r.f.invoice.Number)
	}
	r.f.invoice.Status = invoice.StatusRefunded
	return nil
}

func (r *fxInvoiceRepo) List(ctx context.Context, branchID id.ID, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return domain.ListResult[*invoice.Invoice]{}, nil
}

// refund.Repository

type fxReturnRepo struct {
	f       *fixture
	failFor error
}

func (r *fxReturnRepo) Create(ctx context.Context, ret *Return) error {
	if r.failFor != nil {
		return r.failFor
	}
	cp := *ret
	r.f.returns[ret.ID] = &cp
	return nil
}

func (r *fxReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []Line) error {
	r.f.retLines[returnID] = append([]Line(nil), lines...)
	return nil
}

func (r *fxReturnRepo) GetByInvoice(ctx context.Context, invoiceID id.ID) (*Return, error) {
	for _, ret := range r.f.returns {
		if ret.InvoiceID == invoiceID {
			cp := *ret
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("return", invoiceID.String())
}

func (r *fxReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]Line, error) {
	return append([]Line(nil), r.f.retLines[returnID]...), nil
}

// stock.Repository

type fxStockRepo struct{ f *fixture }

func (r *fxStockRepo) Reserve(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	return types.Zero(), apperror.NewValidation("reserve not expected in return flow")
}

func (r *fxStockRepo) Release(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	current, ok := r.f.stock[productID]
	if !ok {
		return types.Zero(), apperror.NewNotFound("product", productID.String())
	}
	current = current.Add(qty)
	r.f.stock[productID] = current
	r.f.active[productID] = current.IsPositive()
	return current, nil
}

func (r *fxStockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	r.f.movements = append(r.f.movements, movements...)
	return nil
}

func (r *fxStockRepo) GetOnHand(ctx context.Context, branchID, productID id.ID) (types.Quantity, error) {
	return r.f.stock[productID], nil
}

func (r *fxStockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]stock.Movement, error) {
	return nil, nil
}

// newFixture builds a refunded-candidate invoice: two lines, product A
// sold out (quantity 0, archived), product B partially sold.
func newFixture(t *testing.T) (*fixture, *fxReturnRepo) {
	t.Helper()

	branchID := id.New()
	productA := id.New()
	productB := id.New()

	doc := entity.NewDocument(id.New())
	doc.Number = "INV202506000042"

	inv := &invoice.Invoice{
		Document:    doc,
		BranchID:    branchID,
		Status:      invoice.StatusIssued,
		TotalAmount: types.MustMoney("560"),
	}

	lines := []invoice.Line{
		{LineID: id.New(), LineNo: 1, ProductID: productA, ProductName: "Paracetamol 500mg", Quantity: types.MustMoney("5")},
		{LineID: id.New(), LineNo: 2, ProductID: productB, ProductName: "Cough Syrup", Quantity: types.MustMoney("2")},
	}

	f := &fixture{
		branchID: branchID,
		invoice:  inv,
		lines:    lines,
		returns:  make(map[id.ID]*Return),
		retLines: make(map[id.ID][]Line),
		stock: map[id.ID]types.Quantity{
			productA: types.Zero(),
			productB: types.MustMoney("8"),
		},
		active: map[id.ID]bool{
			productA: false,
			productB: true,
		},
	}

	repo := &fxReturnRepo{f: f}
	f.service = NewService(
		repo,
		&fxInvoiceRepo{f: f},
		stock.NewService(&fxStockRepo{f: f}),
		f,
		nil,
	)
	return f, repo
}

// --- Tests ---

func TestProcess_RestocksAndFlipsStatus(t *testing.T) {
	f, _ := newFixture(t)

	ret, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "expired batch",
		RefundAmount: types.MustMoney("560"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[0].LineID, Quantity: types.MustMoney("5")},
			{InvoiceItemID: f.lines[1].LineID, Quantity: types.MustMoney("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "CN-INV202506000042", ret.Number)
	assert.Equal(t, f.invoice.ID, ret.InvoiceID)
	assert.True(t, ret.RefundAmount.Equal(types.MustMoney("560")))
	require.Len(t, ret.Lines, 2)

	// Status flipped exactly once.
	assert.Equal(t, invoice.StatusRefunded, f.invoice.Status)

	// Stock restored; sold-out product reactivated.
	productA := f.lines[0].ProductID
	productB := f.lines[1].ProductID
	assert.True(t, f.stock[productA].Equal(types.MustMoney("5")), "product A = %s", f.stock[productA])
	assert.True(t, f.active[productA], "restocked product must be reactivated")
	assert.True(t, f.stock[productB].Equal(types.MustMoney("10")), "product B = %s", f.stock[productB])

	// Receipt movements journaled.
	require.Len(t, f.movements, 2)
	for _, m := range f.movements {
		assert.Equal(t, stock.RecordTypeReceipt, m.RecordType)
		assert.Equal(t, DocumentType, m.RecorderType)
	}
}

func TestProcess_SecondReturnConflicts(t *testing.T) {
	f, _ := newFixture(t)

	in := ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "damaged",
		RefundAmount: types.MustMoney("100"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[1].LineID, Quantity: types.MustMoney("1")},
		},
	}

	_, err := f.service.Process(context.Background(), in)
	require.NoError(t, err)

	productB := f.lines[1].ProductID
	afterFirst := f.stock[productB]

	_, err = f.service.Process(context.Background(), in)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvoiceRefunded, appErr.Code)

	// The rejected second return must not touch stock.
	assert.True(t, f.stock[productB].Equal(afterFirst))
	assert.Len(t, f.returns, 1)
}

func TestProcess_InvoiceNotFound(t *testing.T) {
	f, _ := newFixture(t)

	_, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    id.New(),
		Reason:       "wrong item",
		RefundAmount: types.MustMoney("10"),
		Items: []ReturnItem{
			{InvoiceItemID: id.New(), Quantity: types.MustMoney("1")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProcess_ForeignInvoiceItem(t *testing.T) {
	f, _ := newFixture(t)

	_, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "mixup",
		RefundAmount: types.MustMoney("10"),
		Items: []ReturnItem{
			{InvoiceItemID: id.New(), Quantity: types.MustMoney("1")},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, invoice.StatusIssued, f.invoice.Status)
}

func TestProcess_QuantityExceedsInvoiced(t *testing.T) {
	f, _ := newFixture(t)

	_, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "over-return",
		RefundAmount: types.MustMoney("10"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[1].LineID, Quantity: types.MustMoney("3")},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestProcess_EmptyReason(t *testing.T) {
	f, _ := newFixture(t)

	_, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		RefundAmount: types.MustMoney("10"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[1].LineID, Quantity: types.MustMoney("1")},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestProcess_FailureRollsBackReleases(t *testing.T) {
	f, repo := newFixture(t)
	repo.failFor = apperror.NewInternal(assert.AnError)

	productB := f.lines[1].ProductID
	before := f.stock[productB]

	_, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "store outage mid-flight",
		RefundAmount: types.MustMoney("100"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[1].LineID, Quantity: types.MustMoney("2")},
		},
	})
	require.Error(t, err)

	// Stock releases from this call rolled back with the transaction.
	assert.True(t, f.stock[productB].Equal(before), "stock = %s, want %s", f.stock[productB], before)
	assert.Equal(t, invoice.StatusIssued, f.invoice.Status)
	assert.Empty(t, f.returns)
	assert.Empty(t, f.movements)
}

func TestGetByInvoice(t *testing.T) {
	f, _ := newFixture(t)

	created, err := f.service.Process(context.Background(), ProcessInput{
		BranchID:     f.branchID,
		InvoiceID:    f.invoice.ID,
		Reason:       "expired batch",
		RefundAmount: types.MustMoney("560"),
		Items: []ReturnItem{
			{InvoiceItemID: f.lines[0].LineID, Quantity: types.MustMoney("5")},
		},
	})
	require.NoError(t, err)

	got, err := f.service.GetByInvoice(context.Background(), f.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Paracetamol 500mg", got.Lines[0].ProductName)

	_, err = f.service.GetByInvoice(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
