package dto

import (
	"github.com/bizdash/backend/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to register a currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Precision    int32  `json:"precision" binding:"gte=0,lte=8"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int32  `json:"precision"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
		Precision:    c.Precision,
	}
}

// ToCurrencyResponses converts a slice of domain.Currency to []CurrencyResponse.
func ToCurrencyResponses(cs []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(cs))
	for i := range cs {
		responses[i] = ToCurrencyResponse(&cs[i])
	}
	return responses
}
