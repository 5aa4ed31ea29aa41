package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Settlement is an immutable record of a courier or merchant closeout.
// Amount is signed: positive means cash owed to the company.
type Settlement struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type        enums.SettlementType `gorm:"column:type;not null"`
	TargetID    uuid.UUID            `gorm:"column:target_id;type:uuid;not null;index"`
	Amount      decimal.Decimal      `gorm:"column:amount;type:numeric(14,2);not null"`
	ProcessedBy *uuid.UUID           `gorm:"column:processed_by;type:uuid"`
	PeriodEnd   *time.Time           `gorm:"column:period_end"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
