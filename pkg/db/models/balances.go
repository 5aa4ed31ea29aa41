package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourierProfile carries a courier's running cash balance. Positive means
// the courier holds company cash.
type CourierProfile struct {
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:numeric(14,2);not null;default:0"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// MerchantProfile carries a merchant's running payable balance. Positive
// means the company owes the merchant.
type MerchantProfile struct {
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:numeric(14,2);not null;default:0"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CompanyFinancialsID is the primary key of the single company row.
const CompanyFinancialsID = "MAIN"

// CompanyFinancials is the single-row company account.
type CompanyFinancials struct {
	ID             string          `gorm:"column:id;primaryKey"`
	TotalRevenue   decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:numeric(14,2);not null;default:0"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the singular-row table name.
func (CompanyFinancials) TableName() string {
	return "company_financials"
}
