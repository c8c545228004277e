package services

import (
	"fmt"
	"strings"

	"github.com/gramsetu/employment-service/internal/models"
)

// ParseBankDetails parses the delimited `name|account|ifsc` string
// carried on an application's first applicant. Malformed input is an
// explicit error so approval fails loudly instead of silently writing
// empty bank fields onto the job card.
func ParseBankDetails(s string) (models.BankDetails, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return models.BankDetails{}, fmt.Errorf("bank details must be name|account|ifsc, got %d fields", len(parts))
	}
	out := models.BankDetails{
		AccountHolder: strings.TrimSpace(parts[0]),
		AccountNumber: strings.TrimSpace(parts[1]),
		IFSC:          strings.ToUpper(strings.TrimSpace(parts[2])),
	}
	if out.AccountHolder == "" || out.AccountNumber == "" || out.IFSC == "" {
		return models.BankDetails{}, fmt.Errorf("bank details contain empty fields")
	}
	return out, nil
}
