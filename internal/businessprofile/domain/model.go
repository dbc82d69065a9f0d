// Package domain contains business profiles: the sender identity printed on
// every quotation.
package domain

import "time"

// BankDetails is the optional payment block of a profile.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	RoutingNumber string `json:"routingNumber,omitempty"`
	SwiftCode     string `json:"swiftCode,omitempty"`
}

// Empty reports whether no field is set.
func (b BankDetails) Empty() bool {
	return b == BankDetails{}
}

// BankDetailsPatch updates bank details field by field; nil keeps the current value.
type BankDetailsPatch struct {
	BankName      *string `json:"bankName"`
	AccountName   *string `json:"accountName"`
	AccountNumber *string `json:"accountNumber"`
	RoutingNumber *string `json:"routingNumber"`
	SwiftCode     *string `json:"swiftCode"`
}

// Apply merges p into current. A patch that leaves every field empty removes
// the bank details.
func (p BankDetailsPatch) Apply(current *BankDetails) *BankDetails {
	var next BankDetails
	if current != nil {
		next = *current
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&next.BankName, p.BankName)
	set(&next.AccountName, p.AccountName)
	set(&next.AccountNumber, p.AccountNumber)
	set(&next.RoutingNumber, p.RoutingNumber)
	set(&next.SwiftCode, p.SwiftCode)
	if next.Empty() {
		return nil
	}
	return &next
}

// BusinessProfile is a sender identity.
type BusinessProfile struct {
	ID                 string       `json:"id" validate:"required"`
	Name               string       `json:"name" validate:"required"`
	CompanyName        string       `json:"companyName" validate:"required"`
	CompanyAddress     string       `json:"companyAddress"`
	CompanyPhone       string       `json:"companyPhone"`
	CompanyEmail       string       `json:"companyEmail" validate:"omitempty,email"`
	CompanyWebsite     string       `json:"companyWebsite,omitempty"`
	CompanyLogo        string       `json:"companyLogo,omitempty"`
	TaxID              string       `json:"taxId,omitempty"`
	RegistrationNumber string       `json:"registrationNumber,omitempty"`
	BankDetails        *BankDetails `json:"bankDetails,omitempty"`
	DefaultCurrency    string       `json:"defaultCurrency" validate:"required,len=3"`
	DefaultTaxRate     float64      `json:"defaultTaxRate" validate:"gte=0"`
	IsDefault          bool         `json:"isDefault"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func (p BusinessProfile) RecordID() string { return p.ID }

func (p BusinessProfile) Touched(at time.Time) BusinessProfile {
	p.UpdatedAt = at
	return p
}

// HasBankDetails reports whether a bank block should be shown.
func (p BusinessProfile) HasBankDetails() bool {
	return p.BankDetails != nil && !p.BankDetails.Empty()
}

// PickDefault returns the flagged default profile, else the first one.
func PickDefault(profiles []BusinessProfile) (BusinessProfile, bool) {
	for _, p := range profiles {
		if p.IsDefault {
			return p, true
		}
	}
	if len(profiles) > 0 {
		return profiles[0], true
	}
	return BusinessProfile{}, false
}

// DefaultProfileID is the id of the seeded profile.
const DefaultProfileID = "default-profile"

// Stock returns the profile written into a workspace that has none yet.
func Stock(now time.Time) []BusinessProfile {
	return []BusinessProfile{{
		ID:                 DefaultProfileID,
		Name:               "Default Business",
		CompanyName:        "Your Company Name",
		CompanyAddress:     "123 Business Street\nCity, State 12345\nCountry",
		CompanyPhone:       "+1 (555) 123-4567",
		CompanyEmail:       "contact@yourcompany.com",
		CompanyWebsite:     "www.yourcompany.com",
		TaxID:              "TAX123456789",
		RegistrationNumber: "REG123456789",
		BankDetails: &BankDetails{
			BankName:      "Your Bank Name",
			AccountName:   "Your Company Name",
			AccountNumber: "1234567890",
			RoutingNumber: "123456789",
			SwiftCode:     "BANKCODE",
		},
		DefaultCurrency: "USD",
		DefaultTaxRate:  10,
		IsDefault:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
}

// NormalizeDefaults keeps the first flagged default and clears the rest. When
// nothing is flagged the first profile becomes the default.
func NormalizeDefaults(profiles []BusinessProfile) []BusinessProfile {
	found := false
	for i := range profiles {
		if profiles[i].IsDefault && !found {
			found = true
			continue
		}
		profiles[i].IsDefault = false
	}
	if !found && len(profiles) > 0 {
		profiles[0].IsDefault = true
	}
	return profiles
}
