package prescription

import (
	"slices"

	"example.com/exerciserx/internal/catalog"
)

// Clone returns a deep copy of rx that shares no slices or maps with it.
func (rx Prescription) Clone() Prescription {
	out := rx
	out.Aerobic.Examples = slices.Clone(rx.Aerobic.Examples)
	out.Resistance.Exercises = cloneExercises(rx.Resistance.Exercises)
	if rx.Balance != nil {
		balance := *rx.Balance
		balance.Exercises = cloneExercises(rx.Balance.Exercises)
		out.Balance = &balance
	}
	out.Flexibility.Exercises = cloneExercises(rx.Flexibility.Exercises)
	out.Precautions = slices.Clone(rx.Precautions)

	for _, day := range []*DayPlan{
		&out.WeeklyPlan.Monday, &out.WeeklyPlan.Tuesday, &out.WeeklyPlan.Wednesday, &out.WeeklyPlan.Thursday,
		&out.WeeklyPlan.Friday, &out.WeeklyPlan.Saturday, &out.WeeklyPlan.Sunday,
	} {
		day.Exercises = slices.Clone(day.Exercises)
	}
	return out
}

// cloneExercises keeps nil as nil so a clone compares equal to its source.
func cloneExercises(exercises []catalog.Exercise) []catalog.Exercise {
	if exercises == nil {
		return nil
	}
	return catalog.CloneAll(exercises)
}
