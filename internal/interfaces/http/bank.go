package http

import (
	"context"
	"net/http"

	"paynex/internal/domain/bank"
	"paynex/internal/domain/user"
	"paynex/internal/shared/middleware"
)

// BankService is the linking and listing surface of the bank domain.
type BankService interface {
	CreateLinkToken(ctx context.Context, u *user.User) (string, error)
	LinkBankAccount(ctx context.Context, publicToken string, u *user.User) (*bank.BankAccount, error)
	GetBanks(ctx context.Context, userID string) ([]*bank.BankAccount, error)
	GetBank(ctx context.Context, id, userID string) (*bank.BankAccount, error)
}

type BankHandler struct {
	banks BankService
	users UserService
}

func NewBankHandler(banks BankService, users UserService) *BankHandler {
	return &BankHandler{banks: banks, users: users}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

type ExchangeResponse struct {
	PublicTokenExchange string            `json:"publicTokenExchange"`
	Bank                *bank.BankAccount `json:"bank"`
}

// HandleLinkToken creates a Link token for the current user.
func (h *BankHandler) HandleLinkToken(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	u, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.banks.CreateLinkToken(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange finishes a Link session by linking the chosen account.
func (h *BankHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ExchangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.banks.LinkBankAccount(r.Context(), req.PublicToken, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExchangeResponse{PublicTokenExchange: "complete", Bank: b})
}

// HandleListBanks returns the current user's linked banks.
func (h *BankHandler) HandleListBanks(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	banks, err := h.banks.GetBanks(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if banks == nil {
		banks = []*bank.BankAccount{}
	}
	writeJSON(w, http.StatusOK, banks)
}

// HandleGetBank returns one of the current user's banks.
func (h *BankHandler) HandleGetBank(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	b, err := h.banks.GetBank(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
