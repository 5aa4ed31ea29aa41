package enums

import "fmt"

// SettlementType identifies which counterparty a settlement closes out.
type SettlementType string

const (
	SettlementTypeCourier  SettlementType = "Courier"
	SettlementTypeMerchant SettlementType = "Merchant"
	SettlementTypeBranch   SettlementType = "Branch"
)

var validSettlementTypes = []SettlementType{
	SettlementTypeCourier,
	SettlementTypeMerchant,
	SettlementTypeBranch,
}

// IsValid reports whether the value is a known SettlementType.
func (t SettlementType) IsValid() bool {
	for _, candidate := range validSettlementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSettlementType converts raw input into a SettlementType.
func ParseSettlementType(value string) (SettlementType, error) {
	for _, candidate := range validSettlementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement type %q", value)
}
