package generatedresumes

import "time"

// GeneratedResume is a CV generated for a resume.
type GeneratedResume struct {
	ID         int64
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
	FileURL    *string
	SourceHash *string
	Status     *string
}
