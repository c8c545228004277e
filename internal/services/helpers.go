package services

import (
	"regexp"

	"github.com/gramsetu/employment-service/internal/utils"
)

var (
	nationalIDRegex = regexp.MustCompile(`^[0-9]{12}$`)
	phoneRegex      = regexp.MustCompile(`^[0-9]{10}$`)
)

func validateNationalID(nationalID string) error {
	if !nationalIDRegex.MatchString(nationalID) {
		return utils.ErrInvalidNationalID
	}
	return nil
}

func validatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return utils.ErrInvalidPhone
	}
	return nil
}

// newTrackingID generates a human-readable application tracking ID.
func newTrackingID() string {
	return "JCA-" + utils.RandomUpperAlphanumeric(8)
}

// newJobCardNumber generates the card number printed on a job card.
func newJobCardNumber() string {
	return "JC-" + utils.RandomUpperAlphanumeric(10)
}

func generateVerificationCode(length int) string {
	return utils.RandomNumericString(length)
}
