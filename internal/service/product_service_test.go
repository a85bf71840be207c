package service

import (
	"context"
	"testing"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(s *stubs) ProductService {
	return NewProductService(s.products, s.comps, s.ledger)
}

func seedParent(s *stubs, name, sku string) *model.Product {
	p := &model.Product{
		ID:     uuid.New(),
		SKU:    sku,
		Name:   name,
		Role:   model.RoleParent,
		Active: true,
	}
	s.products.products[p.ID] = p
	return p
}

func TestCreatePlainProduct(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:  "DF-2",
		Name: "Dog Food 2kg",
		Role: string(model.RolePlain),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.RolePlain), resp.Role)
	assert.Equal(t, string(model.StockModeNone), resp.StockMode)
	assert.False(t, resp.IsComposed)
	assert.True(t, resp.Active)
}

func TestCreateKitDefaultsToVirtual(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:  "KIT-BATH",
		Name: "Bath Kit",
		Role: string(model.RoleKit),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StockModeVirtual), resp.StockMode)

	resp, err = svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:       "KIT-GROOM",
		Name:      "Grooming Kit",
		Role:      string(model.RoleKit),
		StockMode: string(model.StockModePhysical),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StockModePhysical), resp.StockMode)
}

func TestCreateVariantRequiresParent(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:  "SH-250",
		Name: "Shampoo 250ml",
		Role: string(model.RoleVariant),
	})
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestCreateVariantUnderParent(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	parent := seedParent(s, "Shampoo", "SH")

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "SH-250",
		Name:     "Shampoo 250ml",
		Role:     string(model.RoleVariant),
		ParentID: parent.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ParentID)
	assert.Equal(t, parent.ID.String(), *resp.ParentID)
	assert.Equal(t, string(model.StockModeNone), resp.StockMode)
}

func TestCreateVariantUnderNonParentRejected(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	plain := seedLeaf(s, "Collar", "CL-1", 0)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "CL-2",
		Name:     "Collar Large",
		Role:     string(model.RoleVariant),
		ParentID: plain.ID.String(),
	})
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestCreateComposedVariant(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	parent := seedParent(s, "Starter Pack", "SP")

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "SP-CAT",
		Name:       "Starter Pack Cat",
		Role:       string(model.RoleVariant),
		ParentID:   parent.ID.String(),
		IsComposed: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsComposed)
	assert.Equal(t, string(model.StockModeVirtual), resp.StockMode)
}

func TestCreatePlainWithParentRejected(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	parent := seedParent(s, "Shampoo", "SH")

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "DF-2",
		Name:     "Dog Food 2kg",
		Role:     string(model.RolePlain),
		ParentID: parent.ID.String(),
	})
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestCreateKitWithParentRejected(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	parent := seedParent(s, "Shampoo", "SH")

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "KIT-X",
		Name:     "Kit",
		Role:     string(model.RoleKit),
		ParentID: parent.ID.String(),
	})
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestCreateUnknownRole(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:  "X-1",
		Name: "X",
		Role: "bundle",
	})
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestDeactivateParentWithActiveVariants(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	parent := seedParent(s, "Shampoo", "SH")

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "SH-250",
		Name:     "Shampoo 250ml",
		Role:     string(model.RoleVariant),
		ParentID: parent.ID.String(),
	})
	require.NoError(t, err)

	err = svc.Deactivate(context.Background(), parent.ID)
	assert.ErrorIs(t, err, ErrHasActiveChildren)

	// Once the variant is gone the parent may retire
	variant, err := s.products.FindBySKU(context.Background(), "SH-250")
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), variant.ID))
	require.NoError(t, svc.Deactivate(context.Background(), parent.ID))
	assert.False(t, parent.Active)
}

func TestReactivate(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	p := seedLeaf(s, "Collar", "CL-1", 0)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID))
	assert.False(t, p.Active)
	require.NoError(t, svc.Reactivate(context.Background(), p.ID))
	assert.True(t, p.Active)
}

func TestSetStockMode(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	kit := seedKit(s, "Bath Kit", "KIT-BATH", model.StockModeVirtual)

	resp, err := svc.SetStockMode(context.Background(), kit.ID, model.StockModePhysical)
	require.NoError(t, err)
	assert.Equal(t, string(model.StockModePhysical), resp.StockMode)
}

func TestSetStockModeFrozenByComposition(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	kit := seedKit(s, "Bath Kit", "KIT-BATH", model.StockModeVirtual)
	towel := seedLeaf(s, "Towel", "TW-1", 3)
	seedEntry(s, kit, towel, decimal.NewFromInt(1))

	_, err := svc.SetStockMode(context.Background(), kit.ID, model.StockModePhysical)
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestSetStockModeFrozenByLedger(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	kit := seedKit(s, "Bath Kit", "KIT-BATH", model.StockModePhysical)
	s.ledger.entries = append(s.ledger.entries, model.StockLedgerEntry{
		ID:        uuid.New(),
		ProductID: kit.ID,
		Delta:     1,
		Reason:    model.ReasonKitAssembly,
	})

	_, err := svc.SetStockMode(context.Background(), kit.ID, model.StockModeVirtual)
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}

func TestSetStockModeSameModeNoop(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)

	kit := seedKit(s, "Bath Kit", "KIT-BATH", model.StockModeVirtual)
	towel := seedLeaf(s, "Towel", "TW-1", 3)
	seedEntry(s, kit, towel, decimal.NewFromInt(1))

	// Requesting the current mode succeeds even on a frozen product
	resp, err := svc.SetStockMode(context.Background(), kit.ID, model.StockModeVirtual)
	require.NoError(t, err)
	assert.Equal(t, string(model.StockModeVirtual), resp.StockMode)
}

func TestSetStockModeOnLeafRejected(t *testing.T) {
	s := newStubs()
	svc := newProductService(s)
	plain := seedLeaf(s, "Collar", "CL-1", 0)

	_, err := svc.SetStockMode(context.Background(), plain.ID, model.StockModePhysical)
	assert.ErrorIs(t, err, ErrInvalidTypeTransition)
}
