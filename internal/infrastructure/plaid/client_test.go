package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("client-id", "secret", "sandbox")
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	c.baseURL = srv.URL
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	return body
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		env     string
		want    string
		wantErr bool
	}{
		{env: "sandbox", want: sandboxURL},
		{env: "development", want: developmentURL},
		{env: "production", want: productionURL},
		{env: "staging", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			got, err := BaseURL(tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BaseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExchangePublicToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != publicTokenExchangePath {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("PLAID-CLIENT-ID") != "client-id" || r.Header.Get("PLAID-SECRET") != "secret" {
			t.Error("missing credential headers")
		}
		if body := decodeBody(t, r); body["public_token"] != "pub-valid-1" {
			t.Errorf("public_token = %v", body["public_token"])
		}
		w.Write([]byte(`{"access_token":"acc-1","item_id":"item-1","request_id":"r1"}`))
	})

	resp, err := c.ExchangePublicToken(context.Background(), "pub-valid-1")
	if err != nil {
		t.Fatalf("ExchangePublicToken() failed: %v", err)
	}
	if resp.AccessToken != "acc-1" || resp.ItemID != "item-1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestExchangePublicToken_PlaidError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_type":"INVALID_INPUT","error_code":"INVALID_PUBLIC_TOKEN","error_message":"provided public token is expired"}`))
	})

	_, err := c.ExchangePublicToken(context.Background(), "pub-expired")

	var plaidErr *Error
	if !errors.As(err, &plaidErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if plaidErr.ErrorCode != "INVALID_PUBLIC_TOKEN" || plaidErr.StatusCode != http.StatusBadRequest {
		t.Errorf("plaidErr = %+v", plaidErr)
	}
}

func TestPost_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetItem(context.Background(), "acc-1")
	if err == nil {
		t.Fatal("expected error")
	}
	var plaidErr *Error
	if errors.As(err, &plaidErr) {
		t.Error("did not expect *Error for a non-JSON body")
	}
}

func TestGetAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accounts": [{
				"account_id": "accX",
				"balances": {"available": null, "current": 110.25, "iso_currency_code": "USD"},
				"mask": "0000",
				"name": "Plaid Checking",
				"official_name": "Plaid Gold Standard 0% Interest Checking",
				"type": "depository",
				"subtype": "checking"
			}],
			"item": {"item_id": "item-1", "institution_id": "ins_109508"}
		}`))
	})

	resp, err := c.GetAccounts(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetAccounts() failed: %v", err)
	}
	if len(resp.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(resp.Accounts))
	}
	acct := resp.Accounts[0]
	if acct.AccountID != "accX" || acct.Name != "Plaid Checking" {
		t.Errorf("account = %+v", acct)
	}
	if acct.Balances.Available.Valid {
		t.Error("available balance should be null")
	}
	if !acct.Balances.Current.Valid || acct.Balances.Current.Decimal.String() != "110.25" {
		t.Errorf("current balance = %v", acct.Balances.Current)
	}
	if resp.Item.InstitutionID != "ins_109508" {
		t.Errorf("institution = %q", resp.Item.InstitutionID)
	}
}

func TestCreateProcessorToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["access_token"] != "acc-1" || body["account_id"] != "accX" || body["processor"] != "dwolla" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"processor_token":"proc-1"}`))
	})

	token, err := c.CreateProcessorToken(context.Background(), "acc-1", "accX", "dwolla")
	if err != nil {
		t.Fatalf("CreateProcessorToken() failed: %v", err)
	}
	if token != "proc-1" {
		t.Errorf("token = %q, want proc-1", token)
	}
}

func TestCreateLinkToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		user, _ := body["user"].(map[string]any)
		if user["client_user_id"] != "user-1" || body["client_name"] != "Ada Lovelace" || body["language"] != "en" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"link_token":"link-sandbox-1","expiration":"2026-10-16T12:00:00Z"}`))
	})

	resp, err := c.CreateLinkToken(context.Background(), LinkTokenRequest{
		User:         LinkUser{ClientUserID: "user-1"},
		ClientName:   "Ada Lovelace",
		Products:     []string{"auth"},
		CountryCodes: []string{"US"},
		Language:     "en",
	})
	if err != nil {
		t.Fatalf("CreateLinkToken() failed: %v", err)
	}
	if resp.LinkToken != "link-sandbox-1" {
		t.Errorf("link token = %q", resp.LinkToken)
	}
}

func TestGetInstitution(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["institution_id"] != "ins_1" {
			t.Errorf("institution_id = %v", body["institution_id"])
		}
		w.Write([]byte(`{"institution":{"institution_id":"ins_1","name":"First Platypus Bank"}}`))
	})

	inst, err := c.GetInstitution(context.Background(), "ins_1", []string{"US"})
	if err != nil {
		t.Fatalf("GetInstitution() failed: %v", err)
	}
	if inst.Name != "First Platypus Bank" {
		t.Errorf("name = %q", inst.Name)
	}
}

func TestSyncTransactions_FollowsCursor(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		body := decodeBody(t, r)
		switch calls {
		case 1:
			if _, ok := body["cursor"]; ok {
				t.Error("first page should not send a cursor")
			}
			w.Write([]byte(`{"added":[
				{"transaction_id":"t1","account_id":"accX","name":"Uber","amount":6.33,"date":"2026-10-01"},
				{"transaction_id":"t2","account_id":"accX","name":"Payroll","amount":-500,"date":"2026-10-02"}
			],"next_cursor":"c1","has_more":true}`))
		case 2:
			if body["cursor"] != "c1" {
				t.Errorf("cursor = %v, want c1", body["cursor"])
			}
			w.Write([]byte(`{"added":[
				{"transaction_id":"t3","account_id":"accX","name":"Coffee","amount":4.5,"date":"2026-10-03"}
			],"modified":[
				{"transaction_id":"t1","account_id":"accX","name":"Uber Trip","amount":6.33,"date":"2026-10-01"}
			],"removed":[{"transaction_id":"t2"}],"next_cursor":"c2","has_more":false}`))
		default:
			t.Errorf("unexpected call %d", calls)
		}
	})

	txs, err := c.SyncTransactions(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("SyncTransactions() failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].TransactionID != "t1" || txs[0].Name != "Uber Trip" {
		t.Errorf("txs[0] = %+v, want modified t1", txs[0])
	}
	if txs[1].TransactionID != "t3" {
		t.Errorf("txs[1] = %+v, want t3", txs[1])
	}
}

func TestTransaction_PrimaryCategory(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{name: "personal finance category", tx: Transaction{PersonalFinanceCategory: &PersonalFinanceCategory{Primary: "FOOD_AND_DRINK"}, Category: []string{"Food"}}, want: "FOOD_AND_DRINK"},
		{name: "legacy category", tx: Transaction{Category: []string{"Travel", "Taxi"}}, want: "Travel"},
		{name: "none", tx: Transaction{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.PrimaryCategory(); got != tt.want {
				t.Errorf("PrimaryCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}
