package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	"github.com/rasilexpress/backoffice/pkg/pagination"
	"github.com/rasilexpress/backoffice/pkg/types"
)

// OrderItemInput is one line on a new order.
type OrderItemInput struct {
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput captures everything needed to register a shipment.
type CreateOrderInput struct {
	CustomerName      string
	CustomerPhone     string
	DeliveryAddress   string
	Province          string
	Area              *string
	PickupAddress     *string
	ShipmentNumber    *string
	MerchantID        *uuid.UUID
	DeliveryCourierID *uuid.UUID
	PackageType       *string
	PackageSize       string
	Notes             *string
	Amount            decimal.Decimal
	Items             []OrderItemInput
	ActorID           uuid.UUID
}

// CreateOrderResult is the creation response surface.
type CreateOrderResult struct {
	ID                uuid.UUID         `json:"id"`
	OrderNumber       string            `json:"order_number"`
	DeliveryFee       decimal.Decimal   `json:"delivery_fee"`
	CourierCommission decimal.Decimal   `json:"courier_commission"`
	Status            enums.OrderStatus `json:"status"`
}

// ItemReturnInput reconciles the returned quantity on one existing item.
type ItemReturnInput struct {
	ItemID           uuid.UUID
	ReturnedQuantity int
}

// ChangeStatusInput drives one lifecycle transition. The warehouse fields
// are tri-state: absent leaves ownership alone, explicit null clears it,
// a value claims it.
type ChangeStatusInput struct {
	OrderID           uuid.UUID
	Target            enums.OrderStatus
	ChangedBy         uuid.UUID
	PaidAmount        *decimal.Decimal
	DeliveryCourierID *uuid.UUID
	Notes             *string
	Items             []ItemReturnInput
	MainWarehouse     types.Optional[bool]
	BranchWarehouse   types.Optional[uuid.UUID]
}

// ChangeStatusResult reports the applied transition.
type ChangeStatusResult struct {
	OrderID   uuid.UUID         `json:"order_id"`
	OldStatus enums.OrderStatus `json:"old_status"`
	NewStatus enums.OrderStatus `json:"new_status"`
}

// TransferInput moves an order into a branch warehouse.
type TransferInput struct {
	OrderID           uuid.UUID
	BranchWarehouseID uuid.UUID
	ChangedBy         uuid.UUID
	Notes             *string
}

// UpdateOrderInput is the merchant-facing edit surface, allowed only while
// the order is still Pending.
type UpdateOrderInput struct {
	OrderID         uuid.UUID
	ActorID         uuid.UUID
	CustomerName    *string
	CustomerPhone   *string
	DeliveryAddress *string
	Province        *string
	Area            *string
	PickupAddress   *string
	PackageType     *string
	PackageSize     *string
	Notes           *string
	Amount          *decimal.Decimal
}

// ListOrdersFilter narrows the list read surface.
type ListOrdersFilter struct {
	Status     *enums.OrderStatus
	MerchantID *uuid.UUID
	CourierID  *uuid.UUID
	Kind       *enums.OrderKind
}

// ListOrdersInput combines filters with cursor pagination.
type ListOrdersInput struct {
	Filter ListOrdersFilter
	Page   pagination.Params
}

// ListOrdersResult carries one page of orders and the follow-up cursor.
type ListOrdersResult struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail is the single-order read surface.
type OrderDetail struct {
	Order   models.Order          `json:"order"`
	History []models.OrderHistory `json:"history"`
}
