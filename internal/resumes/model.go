package resumes

import "time"

// Resume is one resume row of the api source.
type Resume struct {
	ID            int64
	SerialNumber  string
	Speciality    *string
	CVFileURL     *string
	Status        *string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	GeneratedCVID *int64
}

// Answer is a question/answer pair attached to a resume.
// Answer is nil when the stored answer list is null.
type Answer struct {
	Question string
	Answer   *string
}
