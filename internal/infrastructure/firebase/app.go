// Package firebase binds the document store and push notifications to
// Cloud Firestore and Firebase Cloud Messaging.
package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"paynex/internal/shared/config"
)

// NewApp initializes a Firebase app. Without a credentials file the
// application default credentials (or the emulator) are used.
func NewApp(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}

// NewFirestore returns the Firestore client of app. Close it on shutdown.
func NewFirestore(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}
	return client, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// collect drains iter into a slice, recording each document id with setID.
func collect[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		v := new(T)
		if err := snap.DataTo(v); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", snap.Ref.ID, err)
		}
		setID(v, snap.Ref.ID)
		out = append(out, v)
	}
}

// first returns the first document of iter, or notFound when there is none.
func first[T any](iter *firestore.DocumentIterator, setID func(*T, string), notFound error) (*T, error) {
	docs, err := collect(iter, setID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, notFound
	}
	return docs[0], nil
}
