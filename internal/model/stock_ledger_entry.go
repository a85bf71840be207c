package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry reasons. The authoritative stock of a product is the running
// sum of its ledger deltas; rows are never mutated or deleted, a transaction
// is reversed by appending compensating entries.
const (
	ReasonKitAssembly        = "kit_assembly"
	ReasonKitDisassembly     = "kit_disassembly"
	ReasonKitDisassemblyLoss = "kit_disassembly_loss"
	ReasonManualAdjustment   = "manual_adjustment"
)

// StockLedgerEntry is one append-only stock movement.
type StockLedgerEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Delta       int        `gorm:"not null"` // positive = inbound, negative = outbound
	Reason      string     `gorm:"not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's default pluralization (stock_ledger_entries → stock_ledger).
func (StockLedgerEntry) TableName() string { return "stock_ledger" }
