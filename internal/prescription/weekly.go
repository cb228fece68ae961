package prescription

import "example.com/exerciserx/internal/catalog"

const (
	resistanceSessionMinutes = 30
	resistanceDayExercises   = 4
	aerobicDayExercises      = 2
	combinedBalanceExercises = 2
)

// WeeklyPlan lays the prescriptions onto one of two fixed seven-day templates. The schedule is
// an approximation: its minutes are not reconciled with the weekly aerobic total.
func (e *Engine) WeeklyPlan(aerobic AerobicPrescription, resistance ResistancePrescription, balance *BalancePrescription, category RiskCategory) WeeklyPlan {
	session := aerobic.SessionMinutes()

	rest := func() DayPlan {
		return DayPlan{Type: DayRest, Exercises: []string{e.catalog.RestDayActivity}, Duration: 0}
	}
	aerobicDay := func() DayPlan {
		return DayPlan{Type: DayAerobic, Exercises: take(aerobic.Examples, aerobicDayExercises), Duration: session}
	}
	resistanceDay := func() DayPlan {
		names := catalog.Names(resistance.Exercises)
		return DayPlan{Type: DayResistance, Exercises: take(names, resistanceDayExercises), Duration: resistanceSessionMinutes}
	}
	combined := func() DayPlan {
		exercises := take(aerobic.Examples, aerobicDayExercises)
		if balance != nil {
			exercises = append(take(aerobic.Examples, 1), take(catalog.Names(balance.Exercises), combinedBalanceExercises)...)
		}
		return DayPlan{Type: DayCombined, Exercises: exercises, Duration: session + balanceSessionMinutes}
	}

	if conservative(category) == RiskFrail {
		return WeeklyPlan{
			Monday:    resistanceDay(),
			Tuesday:   rest(),
			Wednesday: combined(),
			Thursday:  rest(),
			Friday:    resistanceDay(),
			Saturday:  rest(),
			Sunday:    aerobicDay(),
		}
	}

	wednesday := rest()
	if balance != nil {
		wednesday = combined()
	}
	return WeeklyPlan{
		Monday:    resistanceDay(),
		Tuesday:   aerobicDay(),
		Wednesday: wednesday,
		Thursday:  resistanceDay(),
		Friday:    aerobicDay(),
		Saturday:  aerobicDay(),
		Sunday:    rest(),
	}
}
