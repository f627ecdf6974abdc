package http

import (
	"context"
	"net/http"

	"paynex/internal/domain/transfer"
	"paynex/internal/domain/user"
)

// TransferService sends money between linked banks.
type TransferService interface {
	CreateTransfer(ctx context.Context, sender *user.User, p transfer.Params) (*transfer.Transfer, error)
}

type TransferHandler struct {
	transfers TransferService
	users     UserService
}

func NewTransferHandler(transfers TransferService, users UserService) *TransferHandler {
	return &TransferHandler{transfers: transfers, users: users}
}

// HandleCreateTransfer sends a transfer from one of the current user's banks.
func (h *TransferHandler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var p transfer.Params
	if !decodeJSON(w, r, &p) {
		return
	}

	sender, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.transfers.CreateTransfer(r.Context(), sender, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
