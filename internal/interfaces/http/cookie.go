package http

import (
	"net/http"
	"time"
)

// CookiePolicy is the single session cookie policy used by every endpoint
// that sets or clears the session.
type CookiePolicy struct {
	Name   string
	MaxAge time.Duration
}

// isSecure reports whether r arrived over TLS, directly or behind a proxy.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func (p CookiePolicy) set(w http.ResponseWriter, r *http.Request, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.MaxAge.Seconds()),
	})
}

func (p CookiePolicy) clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
