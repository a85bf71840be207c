package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductRole is the closed set of roles a product can play in the catalog.
type ProductRole string

const (
	// RolePlain is a simple sellable leaf with its own stock.
	RolePlain ProductRole = "plain"
	// RoleParent groups variants; it owns neither stock nor price.
	RoleParent ProductRole = "parent"
	// RoleVariant is a sellable leaf belonging to a parent. A variant may
	// additionally be composed (IsComposed=true), making it a kit.
	RoleVariant ProductRole = "variant"
	// RoleKit is a standalone composed product.
	RoleKit ProductRole = "kit"
)

// StockMode determines how a composed product's availability is derived.
type StockMode string

const (
	StockModeNone StockMode = "none"
	// StockModeVirtual: availability computed on demand from component stock.
	StockModeVirtual StockMode = "virtual"
	// StockModePhysical: the kit carries its own ledger-backed stock, moved
	// in and out via assemble/disassemble.
	StockModePhysical StockMode = "physical"
)

// Product is the identity record the stock engine owns the role, stock_mode
// and lineage fields of. Price and tax fields live with the catalog service.
type Product struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU       string      `gorm:"uniqueIndex;not null"`
	Name      string      `gorm:"index;not null"`
	Role      ProductRole `gorm:"not null"`
	StockMode StockMode   `gorm:"not null;default:'none'"`
	// IsComposed marks a variant that is itself a kit.
	IsComposed bool       `gorm:"not null;default:false"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`

	// Lineage: at most one predecessor and one successor each (simple path).
	PredecessorID         *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	SuccessorID           *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	DiscontinuedAt        *time.Time
	DiscontinuationReason *string

	MinStock  int  `gorm:"not null;default:0"`
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Parent *Product `gorm:"foreignKey:ParentID"`
}

// Composed reports whether the product is a kit in the broad sense: a
// standalone kit or a variant flagged as composed.
func (p *Product) Composed() bool {
	return p.Role == RoleKit || (p.Role == RoleVariant && p.IsComposed)
}

// StockBearingLeaf reports whether the product can serve as a kit component:
// a plain product or a non-composed variant. Composed products never qualify,
// which statically rules out kit-of-kits and therefore cycles.
func (p *Product) StockBearingLeaf() bool {
	switch p.Role {
	case RolePlain:
		return true
	case RoleVariant:
		return !p.IsComposed
	}
	return false
}
