package domain

import (
	"strconv"
	"strings"
)

// Validation runs before any request leaves the BFF: a failed check
// never reaches the upstream API.

// ValidateCustomerInput checks the add-customer form fields. Name and
// phone are required after trimming; phone must be exactly 10 ASCII
// digits.
func ValidateCustomerInput(in CustomerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ErrRequiredField{Field: "name"}
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return &ErrRequiredField{Field: "phone"}
	}
	if !isTenDigits(phone) {
		return &ErrFormat{Field: "phone", Message: "must be a 10-digit phone number"}
	}
	return nil
}

// ValidateTransactionInput checks the add-transaction form fields.
// Amount must parse as a number strictly greater than zero. Future
// dates are not rejected here: the date picker caps at today in the UI
// and the backend rule is unspecified.
func ValidateTransactionInput(in TransactionInput) error {
	amount := strings.TrimSpace(in.Amount)
	if amount == "" {
		return &ErrRequiredField{Field: "amount"}
	}
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return &ErrFormat{Field: "amount", Message: "must be a number"}
	}
	if n <= 0 {
		return &ErrFormat{Field: "amount", Message: "must be greater than zero"}
	}
	if in.Type != TransactionDebit && in.Type != TransactionCredit {
		return &ErrFormat{Field: "type", Message: "must be DEBIT or CREDIT"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &ErrRequiredField{Field: "description"}
	}
	if strings.TrimSpace(in.Date) == "" {
		return &ErrRequiredField{Field: "date"}
	}
	return nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
