package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"paynex/internal/domain/user"
)

type UserRepository struct {
	col *firestore.CollectionRef
}

func NewUserRepository(client *firestore.Client, collection string) *UserRepository {
	return &UserRepository{col: client.Collection(collection)}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	ref, _, err := r.col.Add(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to create user document: %w", err)
	}
	u.DocumentID = ref.ID
	return nil
}

// GetByUserID finds the profile whose userId field matches.
func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	iter := r.col.Where("userId", "==", userID).Limit(1).Documents(ctx)
	u, err := first(iter, setUserID, user.ErrNotFound)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to query user document: %w", err)
	}
	return u, err
}

func setUserID(u *user.User, id string) { u.DocumentID = id }
