package types

// ReportInput is the questionnaire submitted through the report tool
type ReportInput struct {
	Location         string `json:"location" validate:"required"`
	SourceType       string `json:"sourceType" validate:"required"`
	Contaminants     string `json:"contaminants,omitempty"`
	SpecificConcerns string `json:"specificConcerns,omitempty"`
}

// ReportOutput is the generated water quality report,
// returned verbatim from the language model
type ReportOutput struct {
	Report               string `json:"report" validate:"required"`
	RecommendedPurifiers string `json:"recommendedPurifiers" validate:"required"`
}
