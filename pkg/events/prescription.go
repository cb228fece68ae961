// Package events defines the event payloads exchanged with other services.
package events

import (
	"encoding/json"
	"time"
)

// Event type names, carried in the event_type message header.
const (
	TypeAssessmentSubmitted   = "assessment.submitted"
	TypePrescriptionGenerated = "prescription.generated"
	TypePrescriptionAdjusted  = "prescription.adjusted"
)

// AssessmentSubmitted is emitted by the intake service once a user finishes the assessment form.
// Assessment is kept raw so the consumer decides how strictly to decode it.
type AssessmentSubmitted struct {
	UserID      string          `json:"user_id"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Assessment  json.RawMessage `json:"assessment"`
}

// PrescriptionGenerated announces a new prescription for a user.
type PrescriptionGenerated struct {
	PrescriptionID  string          `json:"prescription_id"`
	UserID          string          `json:"user_id"`
	RiskCategory    string          `json:"risk_category"`
	BalanceIncluded bool            `json:"balance_included"`
	PrecautionCount int             `json:"precaution_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Prescription    json.RawMessage `json:"prescription"`
}

// PrescriptionAdjusted tracks feedback driven intensity changes.
type PrescriptionAdjusted struct {
	PrescriptionID string    `json:"prescription_id"`
	PreviousID     string    `json:"previous_id"`
	UserID         string    `json:"user_id"`
	Delta          int       `json:"delta"`
	NeedsReview    bool      `json:"needs_review"`
	OccurredAt     time.Time `json:"occurred_at"`
}
