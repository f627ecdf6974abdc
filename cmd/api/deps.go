package main

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	"paynex/internal/domain/account"
	"paynex/internal/domain/bank"
	"paynex/internal/domain/notification"
	"paynex/internal/domain/transfer"
	"paynex/internal/domain/user"
	"paynex/internal/infrastructure/crypto"
	"paynex/internal/infrastructure/dwolla"
	"paynex/internal/infrastructure/firebase"
	"paynex/internal/infrastructure/plaid"
	"paynex/internal/infrastructure/postgres"
	"paynex/internal/infrastructure/redis"
	httphandlers "paynex/internal/interfaces/http"
	"paynex/internal/shared/config"
	"paynex/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB        *postgres.DB
	Redis     *redis.Client
	Firestore *firestore.Client

	// Handlers
	AuthHandler     *httphandlers.AuthHandler
	BankHandler     *httphandlers.BankHandler
	AccountHandler  *httphandlers.AccountHandler
	TransferHandler *httphandlers.TransferHandler

	// Sessions backs the auth middleware
	Sessions *redis.SessionStore
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Credential store
	db, err := postgres.New(ctx, cfg.Database.ConnectionString(), 10*time.Second)
	if err != nil {
		return nil, err
	}
	deps.DB = db
	log.Println("Connected to database")

	credentials := postgres.NewCredentialRepository(db)
	if err := credentials.EnsureSchema(ctx); err != nil {
		deps.Close()
		return nil, err
	}

	// Sessions and dashboard cache
	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Redis = rdb
	log.Println("Connected to redis")

	sessions := redis.NewSessionStore(rdb, cfg.Session.MaxAge)
	summaries := redis.NewViewCache[account.Summary](rdb, "accounts", cfg.Cache.AccountsTTL)
	deps.Sessions = sessions

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		deps.Close()
		return nil, err
	}

	// Document store
	app, err := firebase.NewApp(ctx, cfg.Firebase)
	if err != nil {
		deps.Close()
		return nil, err
	}
	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Firestore = fs
	log.Println("Connected to firestore")

	userRepo := firebase.NewUserRepository(fs, cfg.Firebase.UserCollection)
	bankRepo := firebase.NewBankRepository(fs, cfg.Firebase.BankCollection, encryptor)
	transferRepo := firebase.NewTransferRepository(fs, cfg.Firebase.TransferCollection)

	// Push notifications are optional
	var messenger notification.Messenger
	if m, err := firebase.NewMessenger(ctx, app); err != nil {
		log.Printf("Warning: push notifications disabled: %v", err)
	} else {
		messenger = m
	}
	msgs, err := messages.Load(cfg.Messages.File)
	if err != nil {
		deps.Close()
		return nil, err
	}
	notifier := notification.NewService(messenger, msgs)

	// Providers
	plaidClient, err := plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Env)
	if err != nil {
		deps.Close()
		return nil, err
	}
	dwollaClient, err := dwolla.NewClient(cfg.Dwolla.Key, cfg.Dwolla.Secret, cfg.Dwolla.Env)
	if err != nil {
		deps.Close()
		return nil, err
	}

	// Domain services
	userService := user.NewService(credentials, userRepo, sessions, dwollaClient)
	bankService := bank.NewService(bankRepo, plaidClient, dwollaClient, encryptor, summaries, notifier, bank.LinkConfig{
		Products:     cfg.Plaid.Products,
		CountryCodes: cfg.Plaid.CountryCodes,
	})
	transferService := transfer.NewService(transferRepo, bankService, dwollaClient, summaries, notifier)
	accountService := account.NewService(bankService, plaidClient, transferService, summaries)
	accountService.SetCountryCodes(cfg.Plaid.CountryCodes)

	// Handlers
	cookie := httphandlers.CookiePolicy{Name: cfg.Session.CookieName, MaxAge: cfg.Session.MaxAge}
	deps.AuthHandler = httphandlers.NewAuthHandler(userService, cookie)
	deps.BankHandler = httphandlers.NewBankHandler(bankService, userService)
	deps.AccountHandler = httphandlers.NewAccountHandler(accountService)
	deps.TransferHandler = httphandlers.NewTransferHandler(transferService, userService)

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Firestore != nil {
		if err := d.Firestore.Close(); err != nil {
			log.Printf("Error closing firestore client: %v", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Printf("Error closing redis client: %v", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
