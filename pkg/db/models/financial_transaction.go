package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// FinancialTransaction is an append-only journal row. Amount is signed from
// the counterparty's perspective: positive for money they owe or collected,
// negative for money paid out to them.
type FinancialTransaction struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(14,2);not null"`
	Type      enums.TransactionType `gorm:"column:type;not null"`
	Notes     *string               `gorm:"column:notes"`
	CreatedBy *uuid.UUID            `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
