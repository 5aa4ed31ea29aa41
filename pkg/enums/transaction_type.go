package enums

import "fmt"

// TransactionType classifies rows in the financial transactions journal.
type TransactionType string

const (
	TransactionTypeCollection TransactionType = "Collection"
	TransactionTypePayout     TransactionType = "Payout"
	TransactionTypeSettlement TransactionType = "Settlement"
	TransactionTypeAdjustment TransactionType = "Adjustment"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeCollection,
	TransactionTypePayout,
	TransactionTypeSettlement,
	TransactionTypeAdjustment,
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
