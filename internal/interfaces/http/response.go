package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"paynex/internal/domain/account"
	"paynex/internal/domain/bank"
	"paynex/internal/domain/transfer"
	"paynex/internal/domain/user"
	"paynex/internal/shared/validation"
)

// ErrorResponse is the body of every failed request. Code is stable and
// meant for clients; Message is for humans.
type ErrorResponse struct {
	Code    string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// apiError is the client-facing side of an error. A non-empty message
// replaces err.Error(), which for upstream and storage failures carries
// provider text that must not reach the client.
type apiError struct {
	status  int
	code    string
	message string
}

// errorTable maps domain errors to HTTP status and error code. Order
// matters: the first match wins.
var errorTable = []struct {
	err error
	apiError
}{
	{user.ErrInvalidInput, apiError{http.StatusBadRequest, "invalid_input", ""}},
	{bank.ErrInvalidInput, apiError{http.StatusBadRequest, "invalid_input", ""}},
	{transfer.ErrInvalidInput, apiError{http.StatusBadRequest, "invalid_input", ""}},
	{transfer.ErrSameAccount, apiError{http.StatusBadRequest, "same_account", ""}},
	{user.ErrAuth, apiError{http.StatusUnauthorized, "auth_failed", ""}},
	{user.ErrSessionNotFound, apiError{http.StatusUnauthorized, "not_logged_in", ""}},
	{bank.ErrForbidden, apiError{http.StatusForbidden, "forbidden", ""}},
	{user.ErrNotFound, apiError{http.StatusNotFound, "user_not_found", ""}},
	{bank.ErrNotFound, apiError{http.StatusNotFound, "bank_not_found", ""}},
	{transfer.ErrReceiverNotFound, apiError{http.StatusNotFound, "receiver_not_found", ""}},
	{user.ErrEmailTaken, apiError{http.StatusConflict, "email_taken", ""}},
	{user.ErrPaymentsCustomer, apiError{http.StatusBadGateway, "payments_customer_failed", "Payment provider could not create the customer"}},
	{bank.ErrLinkToken, apiError{http.StatusBadGateway, "link_token_failed", "Bank link could not be started"}},
	{bank.ErrTokenExchange, apiError{http.StatusBadGateway, "token_exchange_failed", "Bank link could not be completed"}},
	{bank.ErrAccountFetch, apiError{http.StatusBadGateway, "account_fetch_failed", "Bank account details are unavailable"}},
	{bank.ErrProcessorToken, apiError{http.StatusBadGateway, "processor_token_failed", "Bank account could not be authorized for payments"}},
	{bank.ErrFundingSource, apiError{http.StatusBadGateway, "funding_source_failed", "Bank account could not be added for payments"}},
	{account.ErrAggregation, apiError{http.StatusBadGateway, "aggregation_failed", "Account data is temporarily unavailable"}},
	{transfer.ErrPayments, apiError{http.StatusBadGateway, "transfer_failed", "Transfer could not be initiated"}},
	{user.ErrPersistence, apiError{http.StatusInternalServerError, "persistence_failed", "Internal server error"}},
	{bank.ErrPersistence, apiError{http.StatusInternalServerError, "persistence_failed", "Internal server error"}},
	{transfer.ErrPersistence, apiError{http.StatusInternalServerError, "persistence_failed", "Internal server error"}},
}

func classify(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.apiError
		}
	}
	return apiError{http.StatusInternalServerError, "internal_error", "Internal server error"}
}

// writeError logs err and writes its mapped status. Server-side failures
// get a fixed message; the full error only goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := classify(err)

	resp := ErrorResponse{Code: ae.code, Message: ae.message}
	if resp.Message == "" {
		resp.Message = err.Error()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Message = "Validation failed"
		resp.Fields = verr.Fields
	}

	if ae.status >= 500 {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, ae.status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_body", Message: "Invalid request body"})
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
