package enums

import "fmt"

// OrderKind distinguishes merchant-created orders from system-generated
// remainder orders spawned by a partial delivery.
type OrderKind string

const (
	OrderKindNormal    OrderKind = "normal"
	OrderKindRemainder OrderKind = "remainder"
)

var validOrderKinds = []OrderKind{
	OrderKindNormal,
	OrderKindRemainder,
}

// IsValid reports whether the value is a known OrderKind.
func (k OrderKind) IsValid() bool {
	for _, candidate := range validOrderKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOrderKind converts raw input into an OrderKind.
func ParseOrderKind(value string) (OrderKind, error) {
	for _, candidate := range validOrderKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order kind %q", value)
}
