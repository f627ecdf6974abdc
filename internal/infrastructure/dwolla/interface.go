package dwolla

import (
	"context"

	"github.com/shopspring/decimal"
)

// ClientInterface defines the calls the service makes to Dwolla
type ClientInterface interface {
	CreateCustomer(ctx context.Context, customer Customer) (string, error)
	CreateOnDemandAuthorization(ctx context.Context) (string, error)
	CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error)
	RemoveFundingSource(ctx context.Context, fundingSourceURL string) error
	CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount decimal.Decimal) (string, error)
}
