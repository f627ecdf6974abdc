package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"paynex/internal/infrastructure/dwolla"
	"paynex/internal/shared/auth"
	"paynex/internal/shared/validation"
)

// Service implements sign-up, sign-in and session lookups
type Service struct {
	credentials CredentialRepository
	users       Repository
	sessions    SessionStore
	payments    PaymentsClient
}

// NewService creates a new user service
func NewService(credentials CredentialRepository, users Repository, sessions SessionStore, payments PaymentsClient) *Service {
	return &Service{
		credentials: credentials,
		users:       users,
		sessions:    sessions,
		payments:    payments,
	}
}

// SignUp creates the login, the Dwolla customer and the profile document,
// then opens a session. A failure after the login exists removes the login
// again so the email can be reused.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, *Session, error) {
	params.Normalize()
	if err := validation.Struct(params); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, nil, err
	}

	name := params.FirstName + " " + params.LastName
	cred, err := s.credentials.Create(ctx, params.Email, name, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create credentials: %w", err)
	}

	customerURL, err := s.payments.CreateCustomer(ctx, dwolla.Customer{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        "personal",
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		s.discardCredentials(ctx, cred.ID)
		return nil, nil, fmt.Errorf("%w: %w", ErrPaymentsCustomer, err)
	}

	u := &User{
		UserID:            cred.ID,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address1:          params.Address1,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       params.DateOfBirth,
		DwollaCustomerID:  dwolla.CustomerIDFromURL(customerURL),
		DwollaCustomerURL: customerURL,
	}
	if err := s.users.Create(ctx, u); err != nil {
		log.Printf("Sign-up for user %s left Dwolla customer %s without a profile", cred.ID, customerURL)
		s.discardCredentials(ctx, cred.ID)
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	session, err := s.sessions.Create(ctx, cred.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("User %s signed up", cred.ID)
	return u, session, nil
}

func (s *Service) discardCredentials(ctx context.Context, id string) {
	if err := s.credentials.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete credentials %s after aborted sign-up: %v", id, err)
	}
}

// SignIn checks the password, opens a session and returns the profile.
// Unknown emails and wrong passwords both yield ErrAuth.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, *Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, ErrAuth
	}

	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrAuth
		}
		return nil, nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := auth.VerifyPassword(cred.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Printf("Password check failed for user %s: %v", cred.ID, err)
		}
		return nil, nil, ErrAuth
	}

	u, err := s.users.GetByUserID(ctx, cred.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user %s: %w", cred.ID, err)
	}

	session, err := s.sessions.Create(ctx, cred.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return u, session, nil
}

// GetLoggedInUser returns the profile behind a session secret, or nil when
// there is no usable session. It never fails: being logged out is a normal
// state for callers.
func (s *Service) GetLoggedInUser(ctx context.Context, secret string) *User {
	if secret == "" {
		return nil
	}

	userID, err := s.sessions.Resolve(ctx, secret)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.Printf("Failed to resolve session: %v", err)
		}
		return nil
	}

	u, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Failed to load user %s for session: %v", userID, err)
		return nil
	}
	return u
}

// GetUser returns the profile of an authenticated user id
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	return s.users.GetByUserID(ctx, userID)
}

// Logout ends the session. Ending an unknown session succeeds.
func (s *Service) Logout(ctx context.Context, secret string) error {
	return s.sessions.Delete(ctx, secret)
}
