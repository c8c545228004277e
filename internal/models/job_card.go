package models

import (
	"time"

	"github.com/google/uuid"
)

// BankDetails is the parsed form of the delimited `name|account|ifsc`
// string carried on the first applicant of an application.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
}

// JobCard is the official record entitling a household to guaranteed
// work. Created only as a side effect of approving a JobCardApplication,
// 1:1 with the approved application.
type JobCard struct {
	ID            uuid.UUID   `json:"id"`
	CardNumber    string      `json:"card_number"`
	NationalID    string      `json:"national_id"`
	HeadOfFamily  string      `json:"head_of_family"`
	Address       string      `json:"address"`
	Village       string      `json:"village"`
	District      string      `json:"district"`
	State         string      `json:"state"`
	Pincode       string      `json:"pincode"`
	FamilyMembers int         `json:"family_members"`
	Bank          BankDetails `json:"bank"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
