package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/billing"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/party"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockPartyRepository is a mock implementation of party.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*party.Party, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Party), args.Error(1)
}

func (m *MockPartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]party.Party, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]party.Party), args.Error(1)
}

func (m *MockPartyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, p *party.Party) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockStockMover is a mock implementation of StockMover
type MockStockMover struct {
	mock.Mock
}

func (m *MockStockMover) ApplyDocumentMovements(ctx context.Context, tenantID uuid.UUID, cmds []inventory.StockAdjustment) error {
	args := m.Called(ctx, tenantID, cmds)
	return args.Error(0)
}

type invoiceFixture struct {
	service     *InvoiceService
	invoiceRepo *MockInvoiceRepository
	productRepo *MockProductRepository
	partyRepo   *MockPartyRepository
	stock       *MockStockMover

	tenantID uuid.UUID
	customer *party.Party
	product  *catalog.Product
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	tenantID := uuid.New()

	customer, err := party.NewParty(tenantID, "Mehta Stores", party.PartyKindCustomer, "27")
	require.NoError(t, err)

	product, err := catalog.NewProduct(tenantID, "Widget", "WID-001", "PCS")
	require.NoError(t, err)
	require.NoError(t, product.SetRates(decimal.NewFromInt(100), decimal.NewFromInt(80)))
	require.NoError(t, product.SetTaxRate(decimal.NewFromInt(18)))

	f := &invoiceFixture{
		invoiceRepo: new(MockInvoiceRepository),
		productRepo: new(MockProductRepository),
		partyRepo:   new(MockPartyRepository),
		stock:       new(MockStockMover),
		tenantID:    tenantID,
		customer:    customer,
		product:     product,
	}
	f.service = NewInvoiceService(f.invoiceRepo, f.productRepo, f.partyRepo, f.stock, "27")
	return f
}

func TestInvoiceServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsFromCatalogAndParty", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.partyRepo.On("FindByIDForTenant", ctx, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("NextNumber", ctx, f.tenantID).Return("2026-0001", nil)
		f.productRepo.On("FindByIDForTenant", ctx, f.tenantID, f.product.ID).Return(f.product, nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := f.service.Create(ctx, f.tenantID, CreateInvoiceRequest{
			PartyID: f.customer.ID,
			Items: []DocumentItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10)},
			},
		})
		require.NoError(t, err)

		// Customer is in-state so tax splits into CGST and SGST.
		assert.Equal(t, "2026-0001", resp.InvoiceNumber)
		assert.Equal(t, "27", resp.PlaceOfSupplyStateCode)
		assert.True(t, resp.TotalCGST.Equal(decimal.NewFromInt(90)), "CGST = %s", resp.TotalCGST)
		assert.True(t, resp.TotalSGST.Equal(decimal.NewFromInt(90)))
		assert.True(t, resp.TotalIGST.IsZero())
		assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(1180)))
	})

	t.Run("ExplicitPlaceOfSupplyGoesInterstate", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.partyRepo.On("FindByIDForTenant", ctx, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("NextNumber", ctx, f.tenantID).Return("2026-0002", nil)
		f.productRepo.On("FindByIDForTenant", ctx, f.tenantID, f.product.ID).Return(f.product, nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := f.service.Create(ctx, f.tenantID, CreateInvoiceRequest{
			PartyID:       f.customer.ID,
			PlaceOfSupply: "29",
			Items: []DocumentItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10)},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalIGST.Equal(decimal.NewFromInt(180)))
		assert.True(t, resp.TotalCGST.IsZero())
	})

	t.Run("SupplierOnlyPartyRejected", func(t *testing.T) {
		f := newInvoiceFixture(t)
		supplier, err := party.NewParty(f.tenantID, "Gupta Wholesale", party.PartyKindSupplier, "29")
		require.NoError(t, err)
		f.partyRepo.On("FindByIDForTenant", ctx, f.tenantID, supplier.ID).Return(supplier, nil)

		_, err = f.service.Create(ctx, f.tenantID, CreateInvoiceRequest{
			PartyID: supplier.ID,
			Items: []DocumentItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)},
			},
		})
		require.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("InactiveProductRejected", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.product.Deactivate()
		f.partyRepo.On("FindByIDForTenant", ctx, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("NextNumber", ctx, f.tenantID).Return("2026-0003", nil)
		f.productRepo.On("FindByIDForTenant", ctx, f.tenantID, f.product.ID).Return(f.product, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateInvoiceRequest{
			PartyID: f.customer.ID,
			Items: []DocumentItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)},
			},
		})
		require.Error(t, err)
	})
}

func TestInvoiceServiceIssue(t *testing.T) {
	ctx := context.Background()

	draftWithStock := func(f *invoiceFixture, updateStock bool) *billing.Invoice {
		inv, err := billing.NewInvoice(f.tenantID, "2026-0009", f.customer.ID, f.customer.Name, "27", "27", time.Now())
		require.NoError(t, err)
		_, err = inv.AddItem(f.product.ID, f.product.Name, "", "PCS",
			decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero,
			"PERCENTAGE", decimal.NewFromInt(18))
		require.NoError(t, err)
		if updateStock {
			require.NoError(t, inv.SetUpdateStock(true))
		}
		return inv
	}

	t.Run("IssueWithStockMovesInventory", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv := draftWithStock(f, true)
		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.stock.On("ApplyDocumentMovements", ctx, f.tenantID, mock.AnythingOfType("[]inventory.StockAdjustment")).Return(nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		resp, err := f.service.Issue(ctx, f.tenantID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "ISSUED", resp.Status)
		f.stock.AssertNumberOfCalls(t, "ApplyDocumentMovements", 1)
	})

	t.Run("IssueWithoutStockSkipsInventory", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv := draftWithStock(f, false)
		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		_, err := f.service.Issue(ctx, f.tenantID, inv.ID)
		require.NoError(t, err)
		f.stock.AssertNotCalled(t, "ApplyDocumentMovements", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientStockBlocksIssueAndSave", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv := draftWithStock(f, true)
		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.stock.On("ApplyDocumentMovements", ctx, f.tenantID, mock.Anything).
			Return(shared.NewDomainError(shared.ErrCodeInsufficientStock, "stock cannot go below zero"))

		_, err := f.service.Issue(ctx, f.tenantID, inv.ID)
		require.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelIssuedReversesInventory", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv, err := billing.NewInvoice(f.tenantID, "2026-0010", f.customer.ID, f.customer.Name, "27", "27", time.Now())
		require.NoError(t, err)
		_, err = inv.AddItem(f.product.ID, f.product.Name, "", "PCS",
			decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero,
			"PERCENTAGE", decimal.NewFromInt(18))
		require.NoError(t, err)
		require.NoError(t, inv.SetUpdateStock(true))
		require.NoError(t, inv.Issue())

		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.stock.On("ApplyDocumentMovements", ctx, f.tenantID, mock.MatchedBy(func(cmds []inventory.StockAdjustment) bool {
			return len(cmds) == 1 && cmds[0].Direction == inventory.DirectionAdd
		})).Return(nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		resp, err := f.service.Cancel(ctx, f.tenantID, inv.ID, CancelRequest{Reason: "goods returned"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		f.stock.AssertNumberOfCalls(t, "ApplyDocumentMovements", 1)
	})

	t.Run("CancelDraftSkipsInventory", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv, err := billing.NewInvoice(f.tenantID, "2026-0011", f.customer.ID, f.customer.Name, "27", "27", time.Now())
		require.NoError(t, err)
		require.NoError(t, inv.SetUpdateStock(true))

		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		_, err = f.service.Cancel(ctx, f.tenantID, inv.ID, CancelRequest{Reason: "typo"})
		require.NoError(t, err)
		f.stock.AssertNotCalled(t, "ApplyDocumentMovements", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("IssuedInvoiceNotDeletable", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv, err := billing.NewInvoice(f.tenantID, "2026-0012", f.customer.ID, f.customer.Name, "27", "27", time.Now())
		require.NoError(t, err)
		_, err = inv.AddItem(f.product.ID, f.product.Name, "", "PCS",
			decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero,
			"PERCENTAGE", decimal.NewFromInt(18))
		require.NoError(t, err)
		require.NoError(t, inv.Issue())

		f.invoiceRepo.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)

		err = f.service.Delete(ctx, f.tenantID, inv.ID)
		require.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMovementReference(t *testing.T) {
	cases := []struct {
		name   string
		number string
		want   string
	}{
		{"HouseFormatPassesThrough", "2026-0001", "2026-0001"},
		{"AtTheLengthLimit", "2026-10000", "2026-10000"},
		{"LongNumberKeepsSequencePart", "2026-FY-000123", "000123"},
		{"LongNumberWithoutSequenceOmitted", "SUPPLIERBILL12345", ""},
		{"TrailingDashOmitted", "SUPPLIERBILL-", ""},
		{"Empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, movementReference(tc.number))
		})
	}
}
