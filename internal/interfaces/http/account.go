package http

import (
	"context"
	"net/http"
	"strconv"

	"paynex/internal/domain/account"
	"paynex/internal/domain/transaction"
	"paynex/internal/shared/middleware"
)

// AccountService serves the dashboard read models.
type AccountService interface {
	GetAccounts(ctx context.Context, userID string) (*account.Summary, error)
	GetAccount(ctx context.Context, bankID, userID string) (*account.Detail, error)
}

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// AccountDetailResponse is one account with a page of its transactions and
// the category breakdown of all of them.
type AccountDetailResponse struct {
	Account      account.Account             `json:"account"`
	Transactions transaction.Page            `json:"transactions"`
	Categories   []transaction.CategoryCount `json:"categories"`
}

// HandleListAccounts returns the dashboard summary of the current user.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	summary, err := h.accounts.GetAccounts(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleGetAccount returns one account. The page query parameter selects
// the transaction page; missing or malformed values mean page 1.
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	detail, err := h.accounts.GetAccount(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	writeJSON(w, http.StatusOK, AccountDetailResponse{
		Account:      detail.Account,
		Transactions: transaction.Paginate(detail.Transactions, page, transaction.DefaultPerPage),
		Categories:   transaction.CountCategories(detail.Transactions),
	})
}
