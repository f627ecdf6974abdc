package http

import (
	"context"
	"net/http"

	"paynex/internal/domain/user"
	"paynex/internal/shared/middleware"
)

// UserService is the sign-up / sign-in surface of the user domain.
type UserService interface {
	SignUp(ctx context.Context, params user.SignUpParams) (*user.User, *user.Session, error)
	SignIn(ctx context.Context, email, password string) (*user.User, *user.Session, error)
	GetLoggedInUser(ctx context.Context, secret string) *user.User
	GetUser(ctx context.Context, userID string) (*user.User, error)
	Logout(ctx context.Context, secret string) error
}

type AuthHandler struct {
	users  UserService
	cookie CookiePolicy
}

func NewAuthHandler(users UserService, cookie CookiePolicy) *AuthHandler {
	return &AuthHandler{users: users, cookie: cookie}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp creates the account, the payments customer and the profile,
// then logs the new user in.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var params user.SignUpParams
	if !decodeJSON(w, r, &params) {
		return
	}

	u, session, err := h.users.SignUp(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookie.set(w, r, session.Secret)
	writeJSON(w, http.StatusCreated, u)
}

// HandleSignIn verifies credentials and starts a session.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, session, err := h.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookie.set(w, r, session.Secret)
	writeJSON(w, http.StatusOK, u)
}

// HandleLogout ends the session, if any, and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if secret := middleware.SessionSecret(r, h.cookie.Name); secret != "" {
		if err := h.users.Logout(r.Context(), secret); err != nil {
			writeError(w, r, err)
			return
		}
	}

	h.cookie.clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the logged-in user, or null when there is none. It is
// served without the auth middleware and never fails.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	var u *user.User
	if secret := middleware.SessionSecret(r, h.cookie.Name); secret != "" {
		u = h.users.GetLoggedInUser(r.Context(), secret)
	}
	writeJSON(w, http.StatusOK, u)
}

// currentUser loads the profile of the user authenticated by the middleware.
func currentUser(r *http.Request, users UserService) (*user.User, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, user.ErrSessionNotFound
	}
	return users.GetUser(r.Context(), userID)
}
