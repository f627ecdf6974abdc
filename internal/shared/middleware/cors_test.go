package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"app.paynex.test", "localhost:3000", "  Admin.Paynex.Test  "}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.paynex.test", true},
		{"https://app.paynex.test:8443", true},
		{"http://localhost:3000", true},
		{"http://localhost:5173", false},
		{"https://ADMIN.paynex.test", true},
		{"https://evil.paynex.test", false},
		{"https://app.paynex.test.evil.com", false},
		{"app.paynex.test", false},
		{"://broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := isOriginAllowed(tt.origin, allowed); got != tt.want {
				t.Errorf("isOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		allowedHosts    []string
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials bool
		wantNextCalled  bool
	}{
		{
			name:           "open when no hosts configured",
			method:         http.MethodGet,
			origin:         "https://anything.test",
			wantStatus:     http.StatusOK,
			wantOrigin:     "*",
			wantNextCalled: true,
		},
		{
			name:            "allowed origin may send the session cookie",
			allowedHosts:    []string{"app.paynex.test"},
			method:          http.MethodPost,
			origin:          "https://app.paynex.test",
			wantStatus:      http.StatusOK,
			wantOrigin:      "https://app.paynex.test",
			wantCredentials: true,
			wantNextCalled:  true,
		},
		{
			name:         "foreign origin rejected",
			allowedHosts: []string{"app.paynex.test"},
			method:       http.MethodPost,
			origin:       "https://evil.test",
			wantStatus:   http.StatusForbidden,
		},
		{
			name:           "request without origin passes",
			allowedHosts:   []string{"app.paynex.test"},
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:            "preflight answered without calling next",
			allowedHosts:    []string{"app.paynex.test"},
			method:          http.MethodOptions,
			origin:          "https://app.paynex.test",
			wantStatus:      http.StatusNoContent,
			wantOrigin:      "https://app.paynex.test",
			wantCredentials: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(tt.method, "/api/banks", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowedHosts)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if called != tt.wantNextCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantNextCalled)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials") == "true"; got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %v, want %v", got, tt.wantCredentials)
			}
		})
	}
}
