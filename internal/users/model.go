package users

import "time"

// Profile is the main user row of the api source.
type Profile struct {
	ID           int64
	UID          string
	FirstName    *string
	LastName     *string
	Email        string
	Address      *string
	PhoneNumber  *string
	BirthDate    *time.Time
	RegisterDate time.Time
	UpdatedAt    *time.Time
	MatchRate    *float64
	IsEmployed   *bool
}

// Answer is one answered profile question. Answer holds the answers joined with ", ".
type Answer struct {
	QuestionID int64
	Question   string
	Answer     string
}

// DuplicatePair is two accounts sharing an email, compared case-insensitively.
type DuplicatePair struct {
	Email  string `json:"email"`
	UID1   string `json:"uid1"`
	UID2   string `json:"uid2"`
	Email1 string `json:"email1"`
	Email2 string `json:"email2"`
}
