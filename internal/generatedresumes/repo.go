package generatedresumes

import "context"

// Repo defines lookups for generated CVs.
type Repo interface {
	GetByResumeID(ctx context.Context, resumeID int64) (GeneratedResume, error)
}
