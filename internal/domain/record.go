package domain

import (
	"time"

	"example.com/exerciserx/internal/feedback"
	"example.com/exerciserx/internal/prescription"
)

// Record is the stored form of a user's current prescription.
type Record struct {
	ID           string                    `json:"id"`
	UserID       string                    `json:"user_id"`
	CreatedAt    time.Time                 `json:"created_at"`
	Prescription prescription.Prescription `json:"prescription"`

	// PreviousID and Adjustment are set when the record was derived from session feedback.
	PreviousID string               `json:"previous_id,omitempty"`
	Adjustment *feedback.Adjustment `json:"adjustment,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Prescription = r.Prescription.Clone()
	if r.Adjustment != nil {
		adjustment := *r.Adjustment
		out.Adjustment = &adjustment
	}
	return out
}
