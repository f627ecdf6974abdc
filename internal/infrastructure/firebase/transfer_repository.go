package firebase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"paynex/internal/domain/transfer"
)

type TransferRepository struct {
	col *firestore.CollectionRef
}

func NewTransferRepository(client *firestore.Client, collection string) *TransferRepository {
	return &TransferRepository{col: client.Collection(collection)}
}

var _ transfer.Repository = (*TransferRepository)(nil)

func (r *TransferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	ref, _, err := r.col.Add(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to create transfer document: %w", err)
	}
	t.ID = ref.ID
	return nil
}

// ListByBankID queries the sender and receiver side separately and merges
// them newest first.
func (r *TransferRepository) ListByBankID(ctx context.Context, bankID string) ([]*transfer.Transfer, error) {
	sent, err := collect(r.col.Where("senderBankId", "==", bankID).Documents(ctx), setTransferID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent transfers: %w", err)
	}
	received, err := collect(r.col.Where("receiverBankId", "==", bankID).Documents(ctx), setTransferID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received transfers: %w", err)
	}
	return mergeTransfers(sent, received), nil
}

func mergeTransfers(lists ...[]*transfer.Transfer) []*transfer.Transfer {
	seen := make(map[string]bool)
	var out []*transfer.Transfer
	for _, list := range lists {
		for _, t := range list {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func setTransferID(t *transfer.Transfer, id string) { t.ID = id }
