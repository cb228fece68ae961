package prescription

import "example.com/exerciserx/internal/catalog"

// Per-bucket selection limits, applied in catalog order.
var resistanceBucketLimits = map[catalog.Category]int{
	catalog.CategoryUpper: 3,
	catalog.CategoryLower: 3,
	catalog.CategoryCore:  2,
}

// MaxFrailResistanceExercises caps the frail program volume.
const MaxFrailResistanceExercises = 6

type resistanceDose struct {
	intensityPercent Range
	rpe              Range
	sets             int
	reps             Range
}

var resistanceDoses = map[RiskCategory]resistanceDose{
	RiskNormal:   {intensityPercent: Range{60, 80}, rpe: Range{6, 8}, sets: 2, reps: Range{10, 12}},
	RiskPrefrail: {intensityPercent: Range{40, 60}, rpe: Range{4, 6}, sets: 2, reps: Range{8, 12}},
	RiskFrail:    {intensityPercent: Range{30, 50}, rpe: Range{3, 5}, sets: 1, reps: Range{8, 10}},
}

const resistanceDaysPerWeek = 2

// Resistance selects a muscle-group balanced program with contraindicated exercises removed.
// A bucket emptied by contraindications contributes nothing; that is not an error.
func (e *Engine) Resistance(category RiskCategory, conditions catalog.ConditionSet) ResistancePrescription {
	category = conservative(category)

	selected := make([]catalog.Exercise, 0, 8)
	for _, group := range catalog.ResistanceGroups {
		limit := resistanceBucketLimits[group]
		for _, ex := range e.catalog.ResistanceByGroup(group) {
			if limit == 0 {
				break
			}
			if ex.ExcludedBy(conditions) {
				continue
			}
			selected = append(selected, ex.Clone())
			limit--
		}
	}
	if category == RiskFrail && len(selected) > MaxFrailResistanceExercises {
		selected = selected[:MaxFrailResistanceExercises]
	}

	dose := resistanceDoses[category]
	return ResistancePrescription{
		DaysPerWeek:      resistanceDaysPerWeek,
		Exercises:        selected,
		IntensityPercent: dose.intensityPercent,
		RPERange:         dose.rpe,
		Sets:             dose.sets,
		Reps:             dose.reps,
	}
}
