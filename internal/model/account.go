package model

import "time"

// Account is a customer organization referenced by deals and jobs.
type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	LegalName      string    `json:"legal_name,omitempty"`
	BillingAddress string    `json:"billing_address,omitempty"`
	PaymentTerms   string    `json:"payment_terms,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	IndustryGroup  string    `json:"industry_group,omitempty"`
	OwnerID        string    `json:"owner_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}
