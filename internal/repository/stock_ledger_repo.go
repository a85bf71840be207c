package repository

import (
	"context"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLedgerFilter defines filters for listing ledger entries.
type StockLedgerFilter struct {
	ProductID *uuid.UUID
	Reason    string
	Page      int
	Limit     int
}

// LowStockRow is a leaf product joined with its current ledger balance.
type LowStockRow struct {
	model.Product
	Balance int
}

// StockLedgerRepository owns the append-only stock ledger. Entries are never
// updated or deleted; the balance of a product is the sum of its deltas.
type StockLedgerRepository interface {
	Append(ctx context.Context, e *model.StockLedgerEntry) error
	AppendTx(tx *gorm.DB, e *model.StockLedgerEntry) error
	Balance(ctx context.Context, productID uuid.UUID) (int, error)
	BalanceTx(tx *gorm.DB, productID uuid.UUID) (int, error)
	HasEntries(ctx context.Context, productID uuid.UUID) (bool, error)
	List(ctx context.Context, filter StockLedgerFilter) ([]model.StockLedgerEntry, int64, error)
	// LowStock returns active stock-bearing leaf products whose balance is at
	// or below their configured minimum.
	LowStock(ctx context.Context) ([]LowStockRow, error)
}

type stockLedgerRepo struct{ db *gorm.DB }

func NewStockLedgerRepository(db *gorm.DB) StockLedgerRepository {
	return &stockLedgerRepo{db: db}
}

func (r *stockLedgerRepo) Append(ctx context.Context, e *model.StockLedgerEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *stockLedgerRepo) AppendTx(tx *gorm.DB, e *model.StockLedgerEntry) error {
	return tx.Create(e).Error
}

func (r *stockLedgerRepo) Balance(ctx context.Context, productID uuid.UUID) (int, error) {
	return balance(r.db.WithContext(ctx), productID)
}

func (r *stockLedgerRepo) BalanceTx(tx *gorm.DB, productID uuid.UUID) (int, error) {
	return balance(tx, productID)
}

func balance(db *gorm.DB, productID uuid.UUID) (int, error) {
	var sum int
	err := db.Model(&model.StockLedgerEntry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *stockLedgerRepo) HasEntries(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockLedgerEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

func (r *stockLedgerRepo) List(ctx context.Context, filter StockLedgerFilter) ([]model.StockLedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockLedgerEntry{}).
		Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var entries []model.StockLedgerEntry
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *stockLedgerRepo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("products p").
		Select("p.*, COALESCE(SUM(l.delta), 0) AS balance").
		Joins("LEFT JOIN stock_ledger l ON l.product_id = p.id").
		Where("p.active = true AND p.is_composed = false AND p.role IN ?", []model.ProductRole{model.RolePlain, model.RoleVariant}).
		Group("p.id").
		Having("COALESCE(SUM(l.delta), 0) <= p.min_stock").
		Scan(&rows).Error
	return rows, err
}
