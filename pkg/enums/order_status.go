package enums

import "fmt"

// OrderStatus tracks the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "Pending"
	OrderStatusInWarehouse        OrderStatus = "In Warehouse"
	OrderStatusInBranch           OrderStatus = "In Branch"
	OrderStatusTransferred        OrderStatus = "Transferred"
	OrderStatusOutForDelivery     OrderStatus = "Out for Delivery"
	OrderStatusDelivered          OrderStatus = "Delivered"
	OrderStatusPartialDelivery    OrderStatus = "Partial Delivery"
	OrderStatusReturned           OrderStatus = "Returned"
	OrderStatusReturnedToMerchant OrderStatus = "Returned to Merchant"
	OrderStatusCancelled          OrderStatus = "Cancelled"
	OrderStatusDeleted            OrderStatus = "Deleted"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInWarehouse,
	OrderStatusInBranch,
	OrderStatusTransferred,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusPartialDelivery,
	OrderStatusReturned,
	OrderStatusReturnedToMerchant,
	OrderStatusCancelled,
	OrderStatusDeleted,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDeleted
}

// IsCompletion reports whether the status represents a cash-collecting
// delivery outcome.
func (s OrderStatus) IsCompletion() bool {
	return s == OrderStatusDelivered || s == OrderStatusPartialDelivery
}

// ClearsCourier reports whether entering the status releases the assigned
// courier unless a replacement is supplied.
func (s OrderStatus) ClearsCourier() bool {
	switch s {
	case OrderStatusInWarehouse, OrderStatusInBranch, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
