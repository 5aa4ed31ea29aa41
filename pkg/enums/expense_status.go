package enums

import "fmt"

// ExpenseStatus tracks the approval lifecycle of an expense voucher.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "Pending"
	ExpenseStatusApproved ExpenseStatus = "Approved"
	ExpenseStatusRejected ExpenseStatus = "Rejected"
	ExpenseStatusSettled  ExpenseStatus = "Settled"
)

var validExpenseStatuses = []ExpenseStatus{
	ExpenseStatusPending,
	ExpenseStatusApproved,
	ExpenseStatusRejected,
	ExpenseStatusSettled,
}

// IsValid reports whether the value is a known ExpenseStatus.
func (s ExpenseStatus) IsValid() bool {
	for _, candidate := range validExpenseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseExpenseStatus converts raw input into an ExpenseStatus.
func ParseExpenseStatus(value string) (ExpenseStatus, error) {
	for _, candidate := range validExpenseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense status %q", value)
}
