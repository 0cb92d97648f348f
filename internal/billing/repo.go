package billing

import "context"

// Repo reads purchase state from the billing source.
type Repo interface {
	// ListPurchasers returns every uid with at least one purchase, whatever its status.
	ListPurchasers(ctx context.Context) ([]string, error)
	// IsActiveSubscriber reports whether the uid has a purchase that bills in
	// the future and is not canceled.
	IsActiveSubscriber(ctx context.Context, uid string) (bool, error)
}
