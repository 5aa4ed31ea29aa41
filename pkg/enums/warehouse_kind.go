package enums

import "fmt"

// WarehouseKind records which warehouse currently holds an order. The main
// warehouse and branch warehouses are mutually exclusive owners.
type WarehouseKind string

const (
	WarehouseKindNone   WarehouseKind = "none"
	WarehouseKindMain   WarehouseKind = "main"
	WarehouseKindBranch WarehouseKind = "branch"
)

var validWarehouseKinds = []WarehouseKind{
	WarehouseKindNone,
	WarehouseKindMain,
	WarehouseKindBranch,
}

// IsValid reports whether the value is a known WarehouseKind.
func (k WarehouseKind) IsValid() bool {
	for _, candidate := range validWarehouseKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseWarehouseKind converts raw input into a WarehouseKind.
func ParseWarehouseKind(value string) (WarehouseKind, error) {
	for _, candidate := range validWarehouseKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse kind %q", value)
}
