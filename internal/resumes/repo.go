package resumes

import "context"

// Repo reads resumes and resume-level data from the api source.
type Repo interface {
	ListByUser(ctx context.Context, uid string) ([]Resume, error)
	ListAnswers(ctx context.Context, resumeID int64) ([]Answer, error)
	CountSiteApplications(ctx context.Context, uid, siteHost string) (int64, error)
}
