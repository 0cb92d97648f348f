package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

// Repo reads user-level data from the api source.
type Repo interface {
	GetProfile(ctx context.Context, uid string) (Profile, error)
	ListQuestionTitles(ctx context.Context) ([]string, error)
	ListAnswers(ctx context.Context, uid string) ([]Answer, error)
	LegacyTrackingID(ctx context.Context, uid string) (*string, error)
	CoverLetterPreference(ctx context.Context, uid string) (*bool, error)
	HasPreloadedResume(ctx context.Context, uid string) (bool, error)
	FindDuplicateEmails(ctx context.Context) ([]DuplicatePair, error)
}
