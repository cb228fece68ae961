// Package feedback adjusts an existing prescription from how the user reported a session went.
package feedback

import (
	"fmt"

	"example.com/exerciserx/internal/prescription"
)

const (
	maxRPE          = 10
	minSatisfaction = 1
	maxSatisfaction = 5

	painDelta      = -2
	overloadDelta  = -1
	underloadDelta = 1

	overloadRPE  = 7
	underloadRPE = 4
	satisfiedAt  = 4
)

// SessionFeedback is what the user reports after a session.
type SessionFeedback struct {
	RPE          int  `json:"rpe" jsonschema:"required,minimum=0,maximum=10"`
	HasPain      bool `json:"hasPain"`
	Satisfaction int  `json:"satisfaction" jsonschema:"required,minimum=1,maximum=5"`
}

// Validate checks the declared ranges.
func (f SessionFeedback) Validate() error {
	if f.RPE < 0 || f.RPE > maxRPE {
		return &prescription.ValidationError{Field: "rpe", Value: f.RPE, Reason: fmt.Sprintf("must be between 0 and %d", maxRPE)}
	}
	if f.Satisfaction < minSatisfaction || f.Satisfaction > maxSatisfaction {
		return &prescription.ValidationError{
			Field:  "satisfaction",
			Value:  f.Satisfaction,
			Reason: fmt.Sprintf("must be between %d and %d", minSatisfaction, maxSatisfaction),
		}
	}
	return nil
}

// Adjustment describes what Tune changed.
type Adjustment struct {
	Delta       int  `json:"delta"`
	NeedsReview bool `json:"needsReview"`
}

// Delta picks the intensity change for a session. The first matching rule wins.
func Delta(f SessionFeedback) int {
	switch {
	case f.HasPain:
		return painDelta
	case f.RPE > overloadRPE:
		return overloadDelta
	case f.RPE < underloadRPE && f.Satisfaction >= satisfiedAt:
		return underloadDelta
	default:
		return 0
	}
}

// Tune returns a copy of rx with its aerobic and resistance RPE targets shifted by the feedback
// delta. The input prescription is left untouched.
func Tune(rx prescription.Prescription, f SessionFeedback) (prescription.Prescription, Adjustment, error) {
	if err := f.Validate(); err != nil {
		return prescription.Prescription{}, Adjustment{}, err
	}

	delta := Delta(f)
	tuned := rx.Clone()
	tuned.Aerobic.RPERange = shift(rx.Aerobic.RPERange, delta)
	tuned.Resistance.RPERange = shift(rx.Resistance.RPERange, delta)

	return tuned, Adjustment{Delta: delta, NeedsReview: f.HasPain}, nil
}

func shift(r prescription.Range, delta int) prescription.Range {
	lo := clamp(r.Lo()+delta, 0, maxRPE)
	hi := clamp(r.Hi()+delta, 0, maxRPE)
	if lo > hi {
		lo = hi
	}
	return prescription.Range{lo, hi}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
