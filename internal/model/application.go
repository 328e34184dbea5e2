package model

import "time"

// ApplicationData is what the applicant stated about the business.
type ApplicationData struct {
	BusinessName        string    `json:"businessName" yaml:"business_name"`
	State               string    `json:"state" yaml:"state"`
	TaxID               string    `json:"taxId,omitempty" yaml:"tax_id"`
	StatedAnnualRevenue float64   `json:"statedAnnualRevenue" yaml:"stated_annual_revenue"`
	StatedStartDate     time.Time `json:"statedStartDate" yaml:"stated_start_date"`
}

// Identity returns the business identity used by external collaborators.
func (a ApplicationData) Identity() BusinessIdentity {
	return BusinessIdentity{BusinessName: a.BusinessName, State: a.State, TaxID: a.TaxID}
}

// RegistryData is externally supplied business-registry reference data.
type RegistryData struct {
	RegistrationDate time.Time `json:"registrationDate" yaml:"registration_date"`
	Status           string    `json:"status,omitempty" yaml:"status"`
}

// BusinessIdentity identifies the business to external verification services.
type BusinessIdentity struct {
	BusinessName string `json:"businessName"`
	State        string `json:"state"`
	TaxID        string `json:"taxId,omitempty"`
}
