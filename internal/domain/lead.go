package domain

import "time"

// Lead is a website lead submission.
type Lead struct {
	ID           int64
	Name         string
	Company      string
	Phone        string
	Email        string
	Volume       string
	UsagePurpose string
	Comment      string
	CreatedAt    time.Time
}
