package dwolla

import (
	"fmt"
	"strings"
)

// Customer is a verified personal customer as Dwolla expects it
type Customer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type link struct {
	Href string `json:"href"`
}

type fundingSourceRequest struct {
	PlaidToken string          `json:"plaidToken"`
	Name       string          `json:"name"`
	Links      map[string]link `json:"_links"`
}

type amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type transferRequest struct {
	Links  map[string]link `json:"_links"`
	Amount amount          `json:"amount"`
}

type halResource struct {
	Links map[string]link `json:"_links"`
}

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// Error is the HAL error body Dwolla returns with 4xx/5xx responses
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Embedded   struct {
		Errors []ValidationError `json:"errors"`
	} `json:"_embedded"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("dwolla error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
	for _, ve := range e.Embedded.Errors {
		msg += fmt.Sprintf("; %s %s: %s", ve.Path, ve.Code, ve.Message)
	}
	return msg
}

// CustomerIDFromURL returns the id at the end of a customer resource URL
func CustomerIDFromURL(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
