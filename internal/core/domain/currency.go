package domain

// Currency represents a supported currency in the domain.
// Precision is the number of minor-unit decimal places; amounts carrying more
// fractional digits than this are rejected at validation time.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int32  `json:"precision"`    // e.g., 2
	AuditFields
}
