package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"paynex/internal/infrastructure/dwolla"
	"paynex/internal/shared/auth"
	"paynex/internal/shared/validation"
)

type MockCredentialRepository struct {
	CreateFunc     func(ctx context.Context, email, name, passwordHash string) (*Credential, error)
	GetByEmailFunc func(ctx context.Context, email string) (*Credential, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockCredentialRepository) Create(ctx context.Context, email, name, passwordHash string) (*Credential, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, email, name, passwordHash)
	}
	return &Credential{ID: "user-1", Email: email, Name: name, PasswordHash: passwordHash}, nil
}

func (m *MockCredentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrNotFound
}

func (m *MockCredentialRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockRepository struct {
	CreateFunc      func(ctx context.Context, u *User) error
	GetByUserIDFunc func(ctx context.Context, userID string) (*User, error)
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID string) (*User, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, ErrNotFound
}

type MockSessionStore struct {
	CreateFunc  func(ctx context.Context, userID string) (*Session, error)
	ResolveFunc func(ctx context.Context, secret string) (string, error)
	DeleteFunc  func(ctx context.Context, secret string) error
}

func (m *MockSessionStore) Create(ctx context.Context, userID string) (*Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID)
	}
	return &Session{Secret: "secret-" + userID, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *MockSessionStore) Resolve(ctx context.Context, secret string) (string, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, secret)
	}
	return "", ErrSessionNotFound
}

func (m *MockSessionStore) Delete(ctx context.Context, secret string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, secret)
	}
	return nil
}

type MockPaymentsClient struct {
	CreateCustomerFunc func(ctx context.Context, customer dwolla.Customer) (string, error)
}

func (m *MockPaymentsClient) CreateCustomer(ctx context.Context, customer dwolla.Customer) (string, error) {
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, customer)
	}
	return "https://api-sandbox.dwolla.com/customers/cust-1", nil
}

func validSignUp() SignUpParams {
	return SignUpParams{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address1:    "10 Downing St",
		City:        "New York",
		State:       "ny",
		PostalCode:  "10001",
		DateOfBirth: "1990-01-31",
		SSN:         "1234",
		Email:       " Ada@Example.com ",
		Password:    "correct horse",
	}
}

func TestSignUp_Success(t *testing.T) {
	ctx := context.Background()

	var stored *User
	var customer dwolla.Customer
	svc := NewService(
		&MockCredentialRepository{},
		&MockRepository{CreateFunc: func(ctx context.Context, u *User) error {
			stored = u
			return nil
		}},
		&MockSessionStore{},
		&MockPaymentsClient{CreateCustomerFunc: func(ctx context.Context, c dwolla.Customer) (string, error) {
			customer = c
			return "https://api-sandbox.dwolla.com/customers/cust-1", nil
		}},
	)

	u, session, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	if u.UserID != "user-1" || u.Email != "ada@example.com" || u.State != "NY" {
		t.Errorf("user = %+v", u)
	}
	if u.DwollaCustomerID != "cust-1" || u.DwollaCustomerURL != "https://api-sandbox.dwolla.com/customers/cust-1" {
		t.Errorf("dwolla fields = %q, %q", u.DwollaCustomerID, u.DwollaCustomerURL)
	}
	if stored != u {
		t.Error("returned user is not the stored document")
	}
	if customer.SSN != "1234" || customer.Type != "personal" {
		t.Errorf("customer = %+v", customer)
	}
	if session.UserID != "user-1" || session.Secret == "" {
		t.Errorf("session = %+v", session)
	}
}

func TestSignUp_HashesPassword(t *testing.T) {
	var hash string
	svc := NewService(
		&MockCredentialRepository{CreateFunc: func(ctx context.Context, email, name, passwordHash string) (*Credential, error) {
			hash = passwordHash
			if name != "Ada Lovelace" {
				t.Errorf("name = %q", name)
			}
			return &Credential{ID: "user-1"}, nil
		}},
		&MockRepository{}, &MockSessionStore{}, &MockPaymentsClient{},
	)

	if _, _, err := svc.SignUp(context.Background(), validSignUp()); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("password stored in plain text")
	}
	if err := auth.VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestSignUp_InvalidInput(t *testing.T) {
	called := false
	svc := NewService(
		&MockCredentialRepository{CreateFunc: func(ctx context.Context, email, name, passwordHash string) (*Credential, error) {
			called = true
			return nil, nil
		}},
		&MockRepository{}, &MockSessionStore{}, &MockPaymentsClient{},
	)

	params := validSignUp()
	params.DateOfBirth = "31-01-1990"
	params.Password = "short"

	_, _, err := svc.SignUp(context.Background(), params)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	var vErr *validation.Error
	if !errors.As(err, &vErr) || len(vErr.Fields) != 2 {
		t.Errorf("validation error = %v", err)
	}
	if called {
		t.Error("credentials created for invalid input")
	}
}

func TestSignUp_Failures(t *testing.T) {
	tests := []struct {
		name          string
		creds         *MockCredentialRepository
		users         *MockRepository
		payments      *MockPaymentsClient
		wantErr       error
		wantDiscarded bool
	}{
		{
			name: "email taken",
			creds: &MockCredentialRepository{CreateFunc: func(ctx context.Context, email, name, passwordHash string) (*Credential, error) {
				return nil, ErrEmailTaken
			}},
			users:    &MockRepository{},
			payments: &MockPaymentsClient{},
			wantErr:  ErrEmailTaken,
		},
		{
			name:  "payments customer fails",
			creds: &MockCredentialRepository{},
			users: &MockRepository{},
			payments: &MockPaymentsClient{CreateCustomerFunc: func(ctx context.Context, c dwolla.Customer) (string, error) {
				return "", errors.New("dwolla: ValidationError")
			}},
			wantErr:       ErrPaymentsCustomer,
			wantDiscarded: true,
		},
		{
			name:  "document write fails",
			creds: &MockCredentialRepository{},
			users: &MockRepository{CreateFunc: func(ctx context.Context, u *User) error {
				return errors.New("firestore unavailable")
			}},
			payments:      &MockPaymentsClient{},
			wantErr:       ErrPersistence,
			wantDiscarded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discarded := ""
			tt.creds.DeleteFunc = func(ctx context.Context, id string) error {
				discarded = id
				return nil
			}
			sessionCreated := false
			sessions := &MockSessionStore{CreateFunc: func(ctx context.Context, userID string) (*Session, error) {
				sessionCreated = true
				return &Session{}, nil
			}}

			svc := NewService(tt.creds, tt.users, sessions, tt.payments)
			u, session, err := svc.SignUp(context.Background(), validSignUp())

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if u != nil || session != nil || sessionCreated {
				t.Error("no user or session expected on failure")
			}
			if tt.wantDiscarded && discarded != "user-1" {
				t.Errorf("credentials %q discarded, want user-1", discarded)
			}
			if !tt.wantDiscarded && discarded != "" {
				t.Errorf("credentials %q discarded unexpectedly", discarded)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	hash, _ := auth.HashPassword("correct horse")
	creds := &MockCredentialRepository{GetByEmailFunc: func(ctx context.Context, email string) (*Credential, error) {
		if email == "ada@example.com" {
			return &Credential{ID: "user-1", Email: email, PasswordHash: hash}, nil
		}
		return nil, ErrNotFound
	}}
	users := &MockRepository{GetByUserIDFunc: func(ctx context.Context, userID string) (*User, error) {
		return &User{UserID: userID, FirstName: "Ada"}, nil
	}}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "success", email: "ADA@example.com", password: "correct horse"},
		{name: "wrong password", email: "ada@example.com", password: "wrong", wantErr: ErrAuth},
		{name: "unknown email", email: "bob@example.com", password: "correct horse", wantErr: ErrAuth},
		{name: "empty", email: "", password: "", wantErr: ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(creds, users, &MockSessionStore{}, &MockPaymentsClient{})
			u, session, err := svc.SignIn(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignIn() failed: %v", err)
			}
			if u.UserID != "user-1" || session.UserID != "user-1" {
				t.Errorf("user = %+v, session = %+v", u, session)
			}
		})
	}
}

func TestSignIn_StoreError(t *testing.T) {
	creds := &MockCredentialRepository{GetByEmailFunc: func(ctx context.Context, email string) (*Credential, error) {
		return nil, errors.New("connection reset")
	}}
	svc := NewService(creds, &MockRepository{}, &MockSessionStore{}, &MockPaymentsClient{})

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "pw")
	if err == nil || errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want a store error distinct from ErrAuth", err)
	}
}

func TestGetLoggedInUser(t *testing.T) {
	sessions := &MockSessionStore{ResolveFunc: func(ctx context.Context, secret string) (string, error) {
		switch secret {
		case "good":
			return "user-1", nil
		case "orphan":
			return "user-2", nil
		case "broken":
			return "", errors.New("redis down")
		}
		return "", ErrSessionNotFound
	}}
	users := &MockRepository{GetByUserIDFunc: func(ctx context.Context, userID string) (*User, error) {
		if userID == "user-1" {
			return &User{UserID: "user-1"}, nil
		}
		return nil, ErrNotFound
	}}
	svc := NewService(&MockCredentialRepository{}, users, sessions, &MockPaymentsClient{})

	tests := []struct {
		secret string
		want   bool
	}{
		{secret: "good", want: true},
		{secret: "", want: false},
		{secret: "expired", want: false},
		{secret: "orphan", want: false},
		{secret: "broken", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			u := svc.GetLoggedInUser(context.Background(), tt.secret)
			if (u != nil) != tt.want {
				t.Errorf("GetLoggedInUser(%q) = %+v, want user %v", tt.secret, u, tt.want)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	deleted := ""
	sessions := &MockSessionStore{DeleteFunc: func(ctx context.Context, secret string) error {
		deleted = secret
		return nil
	}}
	svc := NewService(&MockCredentialRepository{}, &MockRepository{}, sessions, &MockPaymentsClient{})

	if err := svc.Logout(context.Background(), "good"); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if deleted != "good" {
		t.Errorf("deleted = %q, want good", deleted)
	}
}

func TestUser_FullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	if u.FullName() != "Ada Lovelace" {
		t.Errorf("FullName() = %q", u.FullName())
	}
	if (&User{FirstName: "Ada"}).FullName() != "Ada" {
		t.Error("FullName() should trim a missing last name")
	}
}
