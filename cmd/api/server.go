package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"paynex/internal/shared/config"
	"paynex/internal/shared/middleware"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

// servers is the API listener plus the optional port 80 listener that
// bounces plain HTTP to HTTPS.
type servers struct {
	api      *http.Server
	redirect *http.Server
	tls      config.TLSConfig
}

func newServers(handler http.Handler, cfg *config.Config) *servers {
	s := &servers{
		api: newHTTPServer(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port), handler),
		tls: cfg.TLS,
	}
	if cfg.TLS.Enabled && cfg.TLS.RedirectHTTP {
		s.redirect = newHTTPServer(":80", httpsRedirect(cfg.Server.AllowedHosts))
	}
	return s
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// start runs the listeners in the background. A failure of the API listener
// is fatal; the redirect listener only logs.
func (s *servers) start() {
	if s.redirect != nil {
		go func() {
			log.Printf("HTTPS redirect listening on %s", s.redirect.Addr)
			if err := s.redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("redirect server error: %v", err)
			}
		}()
	}

	go func() {
		var err error
		if s.tls.Enabled {
			log.Printf("HTTPS API listening on %s", s.api.Addr)
			err = s.api.ListenAndServeTLS(s.tls.CertPath, s.tls.KeyPath)
		} else {
			log.Printf("HTTP API listening on %s", s.api.Addr)
			err = s.api.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server error: %v", err)
		}
	}()
}

// shutdown drains in-flight requests within timeout, then flushes telemetry
// with whatever time is left.
func (s *servers) shutdown(flushTelemetry func(context.Context) error, timeout time.Duration) {
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, srv := range []*http.Server{s.redirect, s.api} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown of %s: %v", srv.Addr, err)
		}
	}

	if flushTelemetry != nil {
		if err := flushTelemetry(ctx); err != nil {
			log.Printf("telemetry flush: %v", err)
		}
	}

	log.Println("Stopped")
}

// httpsRedirect answers every request with a 301 to the same path over
// HTTPS. Hosts outside allowedHosts get a 400 so the Location header cannot
// be pointed elsewhere.
func httpsRedirect(allowedHosts []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		http.Redirect(w, r, "https://"+host+r.RequestURI, http.StatusMovedPermanently)
	})
}
