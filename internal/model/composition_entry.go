package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompositionEntry is one bill-of-materials line: one unit of KitID requires
// Quantity units of ComponentID. The (kit, component) pair is unique.
type CompositionEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KitID       uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_kit_component;not null"`
	ComponentID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_kit_component;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CreatedAt   time.Time

	Kit       *Product `gorm:"foreignKey:KitID"`
	Component *Product `gorm:"foreignKey:ComponentID"`
}
