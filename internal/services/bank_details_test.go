package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBankDetails(t *testing.T) {
	bank, err := ParseBankDetails("Ramesh Kumar| 123456789 |sbin0001234")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Kumar", bank.AccountHolder)
	assert.Equal(t, "123456789", bank.AccountNumber)
	assert.Equal(t, "SBIN0001234", bank.IFSC)
}

func TestParseBankDetailsMalformed(t *testing.T) {
	cases := map[string]string{
		"TooFewFields":  "Ramesh Kumar|123456789",
		"TooManyFields": "a|b|c|d",
		"EmptyAccount":  "Ramesh Kumar| |SBIN0001234",
		"EmptyHolder":   "|123456789|SBIN0001234",
		"Blank":         "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBankDetails(input)
			assert.Error(t, err)
		})
	}
}
