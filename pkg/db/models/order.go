package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Order is the central shipment record. Remainder orders carry
// kind=remainder and point back at the parent they were split from.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber          string              `gorm:"column:order_number;not null;uniqueIndex"`
	ShipmentNumber       *string             `gorm:"column:shipment_number"`
	CustomerName         string              `gorm:"column:customer_name;not null"`
	CustomerPhone        string              `gorm:"column:customer_phone;not null"`
	DeliveryAddress      string              `gorm:"column:delivery_address;not null"`
	Province             string              `gorm:"column:province;not null"`
	Area                 *string             `gorm:"column:area"`
	PickupAddress        *string             `gorm:"column:pickup_address"`
	MerchantID           *uuid.UUID          `gorm:"column:merchant_id;type:uuid"`
	DeliveryCourierID    *uuid.UUID          `gorm:"column:delivery_courier_id;type:uuid"`
	PackageType          *string             `gorm:"column:package_type"`
	PackageSize          string              `gorm:"column:package_size;not null;default:'Standard'"`
	Notes                *string             `gorm:"column:notes"`
	Amount               decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	DeliveryFee          decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(14,2);not null"`
	CourierCommission    decimal.Decimal     `gorm:"column:courier_commission;type:numeric(14,2);not null"`
	PaidAmount           *decimal.Decimal    `gorm:"column:paid_amount;type:numeric(14,2)"`
	Status               enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	Kind                 enums.OrderKind     `gorm:"column:kind;not null;default:'normal'"`
	ParentOrderID        *uuid.UUID          `gorm:"column:parent_order_id;type:uuid"`
	WarehouseKind        enums.WarehouseKind `gorm:"column:warehouse_kind;not null;default:'none'"`
	BranchWarehouseID    *uuid.UUID          `gorm:"column:branch_warehouse_id;type:uuid"`
	CourierSettlementID  *uuid.UUID          `gorm:"column:courier_settlement_id;type:uuid"`
	MerchantSettlementID *uuid.UUID          `gorm:"column:merchant_settlement_id;type:uuid"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsRemainder reports whether the order was generated by a partial delivery.
func (o *Order) IsRemainder() bool {
	return o.Kind == enums.OrderKindRemainder
}
