package prescription

import "example.com/exerciserx/internal/catalog"

type aerobicDose struct {
	minutesPerWeek int
	frequency      int
	intensity      Intensity
	rpe            Range
}

var aerobicDoses = map[RiskCategory]aerobicDose{
	RiskNormal:   {minutesPerWeek: 150, frequency: 5, intensity: IntensityModerate, rpe: Range{5, 6}},
	RiskPrefrail: {minutesPerWeek: 100, frequency: 4, intensity: IntensityLow, rpe: Range{3, 5}},
	RiskFrail:    {minutesPerWeek: 60, frequency: 3, intensity: IntensityLow, rpe: Range{2, 4}},
}

// Aerobic returns the aerobic dose for a tier. Users with a joint-impact condition get
// low-impact examples; the frail tier always gets the seated/slow list.
func (e *Engine) Aerobic(category RiskCategory, conditions catalog.ConditionSet) AerobicPrescription {
	dose := aerobicDoses[conservative(category)]

	examples := e.catalog.AerobicExamples.Standard
	switch {
	case conservative(category) == RiskFrail:
		examples = e.catalog.AerobicExamples.Frail
	case conditions.Intersects(e.catalog.JointImpactConditions):
		examples = e.catalog.AerobicExamples.LowImpact
	}

	return AerobicPrescription{
		MinutesPerWeek: dose.minutesPerWeek,
		Frequency:      dose.frequency,
		Intensity:      dose.intensity,
		RPERange:       dose.rpe,
		Examples:       take(examples, len(examples)),
	}
}

// conservative maps an unknown tier to frail so that malformed input never over-prescribes.
func conservative(category RiskCategory) RiskCategory {
	if category.Valid() {
		return category
	}
	return RiskFrail
}

func take[T any](values []T, n int) []T {
	if n > len(values) {
		n = len(values)
	}
	out := make([]T, 0, n)
	return append(out, values[:n]...)
}
