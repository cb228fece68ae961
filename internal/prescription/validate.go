package prescription

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAssessment is matched by every ValidationError via errors.Is.
var ErrInvalidAssessment = errors.New("invalid assessment")

// Declared input ranges.
const (
	MinAge        = 18
	MaxAge        = 120
	MaxFrailScore = 5
	MaxSPPBScore  = 12
	MaxSarcFScore = 10
)

// ValidationError identifies the input field that violated its constraint.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Is lets callers match any validation failure against ErrInvalidAssessment.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidAssessment
}

// Validate checks every field against its declared range, reporting the first violation
// in field order.
func Validate(a Assessment) error {
	if err := checkRange("age", a.Age, MinAge, MaxAge); err != nil {
		return err
	}
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return &ValidationError{Field: "gender", Value: string(a.Gender), Reason: "must be M or F"}
	}
	if err := checkRange("frailScore", a.FrailScore, 0, MaxFrailScore); err != nil {
		return err
	}
	if err := checkRange("sppbScore", a.SPPBScore, 0, MaxSPPBScore); err != nil {
		return err
	}
	if err := checkRange("sarcfScore", a.SarcFScore, 0, MaxSarcFScore); err != nil {
		return err
	}
	for i, code := range a.Conditions {
		if strings.TrimSpace(code) == "" {
			return &ValidationError{Field: fmt.Sprintf("conditions[%d]", i), Value: code, Reason: "must not be blank"}
		}
	}
	return nil
}

func checkRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &ValidationError{Field: field, Value: value, Reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return nil
}
