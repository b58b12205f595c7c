package types

// CompanyDetailsID is the well-known key under which
// the single company details document is stored
const CompanyDetailsID = "company"

// CompanyDetails is the singleton document holding the brand name and logo
type CompanyDetails struct {
	ID      string `json:"_id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	LogoURL string `json:"logoUrl" bson:"logoUrl"`
}

// CompanyDetailsUpdate is supplied through the admin company page.
// ExistingLogoURL is kept as the logo when no new image is uploaded
type CompanyDetailsUpdate struct {
	Name            string
	ExistingLogoURL string
}
