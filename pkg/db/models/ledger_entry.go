package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// CourierLedgerEntry records the cash a courier collected on one order.
// order_id carries a unique index so a completion can post at most once.
type CourierLedgerEntry struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CourierID        uuid.UUID               `gorm:"column:courier_id;type:uuid;not null;index"`
	OrderID          uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_courier_ledger_entries_order_id"`
	OrderAmount      decimal.Decimal         `gorm:"column:order_amount;type:numeric(14,2);not null"`
	CollectedAmount  decimal.Decimal         `gorm:"column:collected_amount;type:numeric(14,2);not null"`
	CommissionAmount decimal.Decimal         `gorm:"column:commission_amount;type:numeric(14,2);not null"`
	Type             enums.LedgerEntryType   `gorm:"column:type;not null;default:'COLLECTION'"`
	Status           enums.LedgerEntryStatus `gorm:"column:status;not null;default:'PENDING'"`
	SettlementID     *uuid.UUID              `gorm:"column:settlement_id;type:uuid"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}
