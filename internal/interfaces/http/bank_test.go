package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paynex/internal/domain/bank"
	"paynex/internal/domain/user"
	"paynex/internal/infrastructure/plaid"
)

func TestHandleExchange(t *testing.T) {
	var gotToken string
	var gotUser *user.User
	banks := &MockBankService{
		LinkBankAccountFunc: func(ctx context.Context, publicToken string, u *user.User) (*bank.BankAccount, error) {
			gotToken, gotUser = publicToken, u
			return &bank.BankAccount{ID: "b1", UserID: u.UserID, BankID: "item-1", AccountID: "accX", AccessToken: "acc-1", ShareableID: "share-1"}, nil
		},
	}
	h := NewBankHandler(banks, &MockUserService{})

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/banks/exchange", strings.NewReader(`{"publicToken":"pub-valid-1"}`)), "user-1")
	rr := httptest.NewRecorder()
	h.HandleExchange(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if gotToken != "pub-valid-1" || gotUser.UserID != "user-1" || gotUser.DwollaCustomerID != "cust-1" {
		t.Errorf("LinkBankAccount(%q, %+v)", gotToken, gotUser)
	}

	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["publicTokenExchange"] != "complete" {
		t.Errorf("publicTokenExchange = %v", resp["publicTokenExchange"])
	}
	if strings.Contains(fmt.Sprint(resp), "acc-1") {
		t.Error("response leaks the access token")
	}
}

func TestHandleExchange_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", bank.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"token exchange", fmt.Errorf("%w: %w", bank.ErrTokenExchange, &plaid.Error{ErrorCode: "INVALID_PUBLIC_TOKEN"}), http.StatusBadGateway, "token_exchange_failed"},
		{"account fetch", bank.ErrAccountFetch, http.StatusBadGateway, "account_fetch_failed"},
		{"processor token", bank.ErrProcessorToken, http.StatusBadGateway, "processor_token_failed"},
		{"funding source", bank.ErrFundingSource, http.StatusBadGateway, "funding_source_failed"},
		{"persistence", bank.ErrPersistence, http.StatusInternalServerError, "persistence_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			banks := &MockBankService{
				LinkBankAccountFunc: func(ctx context.Context, publicToken string, u *user.User) (*bank.BankAccount, error) {
					return nil, tt.err
				},
			}
			h := NewBankHandler(banks, &MockUserService{})

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/banks/exchange", strings.NewReader(`{"publicToken":"pub"}`)), "user-1")
			rr := httptest.NewRecorder()
			h.HandleExchange(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			json.NewDecoder(rr.Body).Decode(&resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleExchange_UnknownUser(t *testing.T) {
	users := &MockUserService{
		GetUserFunc: func(ctx context.Context, userID string) (*user.User, error) {
			return nil, user.ErrNotFound
		},
	}
	h := NewBankHandler(&MockBankService{}, users)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/banks/exchange", strings.NewReader(`{"publicToken":"pub"}`)), "ghost")
	rr := httptest.NewRecorder()
	h.HandleExchange(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleLinkToken(t *testing.T) {
	banks := &MockBankService{
		CreateLinkTokenFunc: func(ctx context.Context, u *user.User) (string, error) {
			return "link-sandbox-" + u.UserID, nil
		},
	}
	h := NewBankHandler(banks, &MockUserService{})

	rr := httptest.NewRecorder()
	h.HandleLinkToken(rr, withUser(httptest.NewRequest(http.MethodPost, "/api/banks/link-token", nil), "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp LinkTokenResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.LinkToken != "link-sandbox-user-1" {
		t.Errorf("LinkToken = %q", resp.LinkToken)
	}
}

func TestHandleListBanks(t *testing.T) {
	var queried string
	banks := &MockBankService{
		GetBanksFunc: func(ctx context.Context, userID string) ([]*bank.BankAccount, error) {
			queried = userID
			return nil, nil
		},
	}
	h := NewBankHandler(banks, &MockUserService{})

	rr := httptest.NewRecorder()
	h.HandleListBanks(rr, withUser(httptest.NewRequest(http.MethodGet, "/api/banks", nil), "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if queried != "user-1" {
		t.Errorf("queried %q, want user-1", queried)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestHandleGetBank(t *testing.T) {
	banks := &MockBankService{
		GetBankFunc: func(ctx context.Context, id, userID string) (*bank.BankAccount, error) {
			switch {
			case id != "b1":
				return nil, bank.ErrNotFound
			case userID != "user-1":
				return nil, bank.ErrForbidden
			}
			return &bank.BankAccount{ID: "b1", UserID: userID}, nil
		},
	}
	h := NewBankHandler(banks, &MockUserService{})

	tests := []struct {
		name       string
		id         string
		userID     string
		wantStatus int
	}{
		{"owner", "b1", "user-1", http.StatusOK},
		{"other user", "b1", "user-2", http.StatusForbidden},
		{"missing", "b9", "user-1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodGet, "/api/banks/"+tt.id, nil), tt.userID)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()
			h.HandleGetBank(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
