package user

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrAuth             = errors.New("invalid email or password")
	ErrNotFound         = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSessionNotFound  = errors.New("session not found")
	ErrPaymentsCustomer = errors.New("payments customer could not be created")
	ErrPersistence      = errors.New("user document could not be stored")
	ErrInvalidInput     = errors.New("invalid input")
)

// User is the profile document. UserID is shared with the credential store;
// the Dwolla fields are filled once at sign-up.
type User struct {
	DocumentID        string    `firestore:"-" json:"id"`
	UserID            string    `firestore:"userId" json:"userId"`
	Email             string    `firestore:"email" json:"email"`
	FirstName         string    `firestore:"firstName" json:"firstName"`
	LastName          string    `firestore:"lastName" json:"lastName"`
	Address1          string    `firestore:"address1" json:"address1"`
	City              string    `firestore:"city" json:"city"`
	State             string    `firestore:"state" json:"state"`
	PostalCode        string    `firestore:"postalCode" json:"postalCode"`
	DateOfBirth       string    `firestore:"dateOfBirth" json:"dateOfBirth"`
	DwollaCustomerID  string    `firestore:"dwollaCustomerId" json:"dwollaCustomerId"`
	DwollaCustomerURL string    `firestore:"dwollaCustomerUrl" json:"dwollaCustomerUrl"`
	CreatedAt         time.Time `firestore:"createdAt" json:"createdAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Credential is the login side of an account. The hash never leaves the
// credential store.
type Credential struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an opaque login session. Secret is handed to the client once.
type Session struct {
	Secret    string
	UserID    string
	ExpiresAt time.Time
}

// SignUpParams carries the sign-up form. SSN and Password are passed to the
// payments network and the credential store and are never persisted here.
type SignUpParams struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	Address1    string `json:"address1" validate:"required,max=100"`
	City        string `json:"city" validate:"required,max=50"`
	State       string `json:"state" validate:"required,len=2,alpha"`
	PostalCode  string `json:"postalCode" validate:"required,numeric,min=3,max=10"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,isodate"`
	SSN         string `json:"ssn" validate:"required,numeric,min=4,max=9"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// Normalize trims whitespace, lower-cases the email and upper-cases the state.
func (p *SignUpParams) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Address1 = strings.TrimSpace(p.Address1)
	p.City = strings.TrimSpace(p.City)
	p.State = strings.ToUpper(strings.TrimSpace(p.State))
	p.PostalCode = strings.TrimSpace(p.PostalCode)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
	p.Email = NormalizeEmail(p.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
