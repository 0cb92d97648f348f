package events

import (
	"encoding/json"
	"time"
)

// Event titles read by the report.
const (
	TitleRegister           = "register"
	TitleEmailRetention     = "email_retention"
	TitlePurchase           = "purchase"
	TitleSubscriptionCancel = "subscription_cancel"
	TitleResumeDownload     = "resume_download"
	TitleNPS1               = "nps_1"
	TitleNPS2               = "nps_2"
)

// Purchase is a purchase event with its decoded payload.
type Purchase struct {
	HappenedAt     time.Time
	Value          json.Number
	IsAuto         bool
	Currency       string
	InvoiceID      string
	ProductID      *string
	ProductTitle   *string
	SubscriptionID *string
}

// Cancellation is a subscription_cancel event. Empty or falsy values are stored as nil.
type Cancellation struct {
	HappenedAt time.Time
	Reason     *string
	Comment    *string
	Feedback   *string
}

// Survey is a satisfaction-survey event.
type Survey struct {
	Title   string
	Answers []string
}
