package mail

import "context"

// Repo counts forwarded mail in the smtp source.
type Repo interface {
	CountInvitations(ctx context.Context, uid, contentMarker string) (int64, error)
	CountForwarded(ctx context.Context, uid string) (int64, error)
}
