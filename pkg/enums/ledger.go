package enums

import "fmt"

// LedgerEntryStatus tracks whether a courier ledger entry has been swept into
// a settlement.
type LedgerEntryStatus string

const (
	LedgerEntryStatusPending LedgerEntryStatus = "PENDING"
	LedgerEntryStatusSettled LedgerEntryStatus = "SETTLED"
	LedgerEntryStatusPartial LedgerEntryStatus = "PARTIAL"
)

var validLedgerEntryStatuses = []LedgerEntryStatus{
	LedgerEntryStatusPending,
	LedgerEntryStatusSettled,
	LedgerEntryStatusPartial,
}

// IsValid reports whether the value is a known LedgerEntryStatus.
func (s LedgerEntryStatus) IsValid() bool {
	for _, candidate := range validLedgerEntryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLedgerEntryStatus converts raw input into a LedgerEntryStatus.
func ParseLedgerEntryStatus(value string) (LedgerEntryStatus, error) {
	for _, candidate := range validLedgerEntryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry status %q", value)
}

// LedgerEntryType classifies what a courier ledger entry records.
type LedgerEntryType string

const (
	LedgerEntryTypeCollection LedgerEntryType = "COLLECTION"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypeCollection,
}

// IsValid reports whether the value is a known LedgerEntryType.
func (t LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}
