package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Location is a deliverable province with its base delivery price.
type Location struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null;uniqueIndex"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PackageModifier adds a surcharge for a named package size.
type PackageModifier struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SizeName      string          `gorm:"column:size_name;not null;uniqueIndex"`
	AdditionalFee decimal.Decimal `gorm:"column:additional_fee;type:numeric(14,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// MerchantPricingOverride pins a negotiated delivery price for one merchant
// and province, taking precedence over the location base price.
type MerchantPricingOverride struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID uuid.UUID       `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:uq_merchant_pricing_overrides_merchant_province"`
	Province   string          `gorm:"column:province;not null;uniqueIndex:uq_merchant_pricing_overrides_merchant_province"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SystemSetting is a key/value row for operational knobs such as the
// default courier commission.
type SystemSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SettingDefaultCommission is the system_settings key for the flat courier
// commission applied to every completed delivery.
const SettingDefaultCommission = "default_commission"

// Sequence allocates monotonically increasing order numbers.
type Sequence struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

// SequenceOrderNumber is the sequences row used for order numbering.
const SequenceOrderNumber = "order_number"
