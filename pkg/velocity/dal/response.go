package dal

// CatalogResponse defines the HTTP response of a filtered catalog listing
type CatalogResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
	Brands   []string  `json:"brands"`
	Types    []string  `json:"types"`
	Total    int       `json:"total"`
	Empty    bool      `json:"empty"`
	Criteria Criteria  `json:"criteria"`
}

// DetailResponse defines the HTTP response of a single vehicle
type DetailResponse struct {
	Vehicle        Vehicle `json:"vehicle"`
	Specifications []Spec  `json:"specifications"`
	HasFeatures    bool    `json:"hasFeatures"`
}

// ContactResponse defines the HTTP response of a contact form submission
type ContactResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse defines an HTTP error body
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError names a single missing or malformed field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
