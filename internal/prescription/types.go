// Package prescription turns a clinical assessment into a weekly multi-modal exercise plan.
//
// Every function in this package is pure: the same assessment and catalog always produce the
// same prescription, and nothing is retained between calls.
package prescription

import (
	"math"

	"example.com/exerciserx/internal/catalog"
)

// Gender of the assessed user.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Assessment is the intake record the engine classifies.
type Assessment struct {
	Age            int      `json:"age" jsonschema:"required,minimum=18,maximum=120"`
	Gender         Gender   `json:"gender" jsonschema:"required,enum=M,enum=F"`
	FrailScore     int      `json:"frailScore" jsonschema:"minimum=0,maximum=5"`
	SPPBScore      int      `json:"sppbScore" jsonschema:"minimum=0,maximum=12"`
	SarcFScore     int      `json:"sarcfScore" jsonschema:"minimum=0,maximum=10"`
	Conditions     []string `json:"conditions"`
	HasFallHistory bool     `json:"hasFallHistory"`
}

// ConditionSet returns the normalized condition codes of the assessment.
func (a Assessment) ConditionSet() catalog.ConditionSet {
	return catalog.NewConditionSet(a.Conditions...)
}

// RiskCategory is the top-level tier that drives aerobic and resistance dosage.
type RiskCategory string

const (
	RiskNormal   RiskCategory = "normal"
	RiskPrefrail RiskCategory = "prefrail"
	RiskFrail    RiskCategory = "frail"
)

// Intensity of aerobic work.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityVigorous Intensity = "vigorous"
)

// Range is an inclusive [lo, hi] pair, encoded as a two-element JSON array.
type Range [2]int

// Lo returns the lower bound.
func (r Range) Lo() int { return r[0] }

// Hi returns the upper bound.
func (r Range) Hi() int { return r[1] }

// AerobicPrescription is the weekly aerobic dose.
type AerobicPrescription struct {
	MinutesPerWeek int       `json:"minutesPerWeek"`
	Frequency      int       `json:"frequency"`
	Intensity      Intensity `json:"intensity"`
	RPERange       Range     `json:"rpeRange"`
	Examples       []string  `json:"examples"`
}

// SessionMinutes is the rounded per-session duration.
func (a AerobicPrescription) SessionMinutes() int {
	if a.Frequency <= 0 {
		return 0
	}
	return int(math.Round(float64(a.MinutesPerWeek) / float64(a.Frequency)))
}

// ResistancePrescription is the weekly strength dose.
type ResistancePrescription struct {
	DaysPerWeek      int                `json:"daysPerWeek"`
	Exercises        []catalog.Exercise `json:"exercises"`
	IntensityPercent Range              `json:"intensityPercent"`
	RPERange         Range              `json:"rpeRange"`
	Sets             int                `json:"sets"`
	Reps             Range              `json:"reps"`
}

// BalancePrescription is present only when balance work is clinically indicated.
type BalancePrescription struct {
	DaysPerWeek int                `json:"daysPerWeek"`
	Exercises   []catalog.Exercise `json:"exercises"`
	Duration    int                `json:"duration"`
}

// FlexibilityPrescription is included for every user.
type FlexibilityPrescription struct {
	DaysPerWeek int                `json:"daysPerWeek"`
	HoldSeconds int                `json:"holdSeconds"`
	Exercises   []catalog.Exercise `json:"exercises"`
}

// DayType labels a day of the weekly plan.
type DayType string

const (
	DayRest       DayType = "rest"
	DayAerobic    DayType = "aerobic"
	DayResistance DayType = "resistance"
	DayCombined   DayType = "combined"
)

// DayPlan is one day of the weekly schedule.
type DayPlan struct {
	Type      DayType  `json:"type"`
	Exercises []string `json:"exercises"`
	Duration  int      `json:"duration"`
}

// Weekday names a day of the weekly plan.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the plan days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeeklyPlan is a presentational seven-day schedule. The modality prescriptions remain the
// authoritative dosage; the plan does not reconcile its minutes against them.
type WeeklyPlan struct {
	Monday    DayPlan `json:"monday"`
	Tuesday   DayPlan `json:"tuesday"`
	Wednesday DayPlan `json:"wednesday"`
	Thursday  DayPlan `json:"thursday"`
	Friday    DayPlan `json:"friday"`
	Saturday  DayPlan `json:"saturday"`
	Sunday    DayPlan `json:"sunday"`
}

// ScheduledDay pairs a weekday with its plan.
type ScheduledDay struct {
	Day  Weekday
	Plan DayPlan
}

// Days returns the seven days in calendar order.
func (w WeeklyPlan) Days() []ScheduledDay {
	return []ScheduledDay{
		{Monday, w.Monday},
		{Tuesday, w.Tuesday},
		{Wednesday, w.Wednesday},
		{Thursday, w.Thursday},
		{Friday, w.Friday},
		{Saturday, w.Saturday},
		{Sunday, w.Sunday},
	}
}

// Prescription is the engine output. It is never mutated after generation.
type Prescription struct {
	RiskCategory RiskCategory            `json:"riskCategory"`
	Aerobic      AerobicPrescription     `json:"aerobic"`
	Resistance   ResistancePrescription  `json:"resistance"`
	Balance      *BalancePrescription    `json:"balance"`
	Flexibility  FlexibilityPrescription `json:"flexibility"`
	Precautions  []string                `json:"precautions"`
	WeeklyPlan   WeeklyPlan              `json:"weeklyPlan"`
}
