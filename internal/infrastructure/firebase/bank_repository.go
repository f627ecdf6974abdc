package firebase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"paynex/internal/domain/bank"
)

// TokenCipher encrypts provider access tokens at rest.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

// BankRepository stores linked bank accounts. Access tokens are written
// encrypted and decrypted on read, so callers only see plaintext.
type BankRepository struct {
	col    *firestore.CollectionRef
	cipher TokenCipher
}

func NewBankRepository(client *firestore.Client, collection string, cipher TokenCipher) *BankRepository {
	return &BankRepository{col: client.Collection(collection), cipher: cipher}
}

var _ bank.Repository = (*BankRepository)(nil)

func (r *BankRepository) Create(ctx context.Context, b *bank.BankAccount) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	doc := *b
	token, err := r.cipher.Encrypt(b.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	doc.AccessToken = token

	ref, _, err := r.col.Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create bank document: %w", err)
	}
	b.ID = ref.ID
	return nil
}

// ListByUserID runs a userId equality query, so other users' documents are
// never read. Results are ordered oldest first.
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.BankAccount, error) {
	iter := r.col.Where("userId", "==", userID).Documents(ctx)
	banks, err := collect(iter, setBankID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank documents: %w", err)
	}
	sort.SliceStable(banks, func(i, j int) bool {
		return banks[i].CreatedAt.Before(banks[j].CreatedAt)
	})
	for _, b := range banks {
		if err := r.decrypt(b); err != nil {
			return nil, err
		}
	}
	return banks, nil
}

func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.BankAccount, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, bank.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bank document: %w", err)
	}

	var b bank.BankAccount
	if err := snap.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bank document: %w", err)
	}
	b.ID = snap.Ref.ID
	if err := r.decrypt(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankRepository) GetByAccountID(ctx context.Context, accountID string) (*bank.BankAccount, error) {
	iter := r.col.Where("accountId", "==", accountID).Limit(1).Documents(ctx)
	b, err := first(iter, setBankID, bank.ErrNotFound)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query bank document: %w", err)
	}
	if err := r.decrypt(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BankRepository) decrypt(b *bank.BankAccount) error {
	token, err := r.cipher.Decrypt(b.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token of bank %s: %w", b.ID, err)
	}
	b.AccessToken = token
	return nil
}

func setBankID(b *bank.BankAccount, id string) { b.ID = id }
