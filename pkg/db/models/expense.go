package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Expense is a spending voucher raised by a courier or staff member. Approved
// expenses are swept into the next courier settlement.
type Expense struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount       decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	Description  string              `gorm:"column:description;not null"`
	Status       enums.ExpenseStatus `gorm:"column:status;not null;default:'Pending'"`
	ReviewedBy   *uuid.UUID          `gorm:"column:reviewed_by;type:uuid"`
	SettlementID *uuid.UUID          `gorm:"column:settlement_id;type:uuid"`
	CreatedBy    *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
