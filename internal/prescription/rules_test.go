package prescription

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/exerciserx/internal/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		sppb  int
		frail int
		want  RiskCategory
	}{
		{"robust", 12, 0, RiskNormal},
		{"normal boundary", 10, 1, RiskNormal},
		{"high sppb but frail markers", 12, 2, RiskPrefrail},
		{"prefrail boundary", 7, 3, RiskPrefrail},
		{"good sppb with many frail markers", 11, 4, RiskFrail},
		{"low sppb", 6, 0, RiskFrail},
		{"worst", 0, 5, RiskFrail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Assessment{SPPBScore: tt.sppb, FrailScore: tt.frail, SarcFScore: 10, HasFallHistory: true, Conditions: []string{"heart_disease"}})
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Assessment{Age: 70, Gender: GenderMale, FrailScore: 2, SPPBScore: 8, SarcFScore: 3}
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*Assessment)
		field  string
	}{
		{"age too low", func(a *Assessment) { a.Age = 17 }, "age"},
		{"age too high", func(a *Assessment) { a.Age = 121 }, "age"},
		{"unknown gender", func(a *Assessment) { a.Gender = "X" }, "gender"},
		{"missing gender", func(a *Assessment) { a.Gender = "" }, "gender"},
		{"negative frail", func(a *Assessment) { a.FrailScore = -1 }, "frailScore"},
		{"frail too high", func(a *Assessment) { a.FrailScore = 6 }, "frailScore"},
		{"sppb too high", func(a *Assessment) { a.SPPBScore = 13 }, "sppbScore"},
		{"sarcf too high", func(a *Assessment) { a.SarcFScore = 11 }, "sarcfScore"},
		{"blank condition", func(a *Assessment) { a.Conditions = []string{"diabetes", "  "} }, "conditions[1]"},
		{"first violation wins", func(a *Assessment) { a.Age = 10; a.SPPBScore = 40 }, "age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			err := Validate(input)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			require.Equal(t, tt.field, validation.Field)
			require.ErrorIs(t, err, ErrInvalidAssessment)
		})
	}

	edges := valid
	edges.Age, edges.FrailScore, edges.SPPBScore, edges.SarcFScore = 120, 5, 0, 10
	edges.Conditions = []string{"unlisted_condition"}
	require.NoError(t, Validate(edges))
}

func TestAerobicTable(t *testing.T) {
	engine := newTestEngine(t)

	normal := engine.Aerobic(RiskNormal, nil)
	require.Equal(t, 150, normal.MinutesPerWeek)
	require.Equal(t, 30, normal.SessionMinutes())
	require.Equal(t, []string{"Walking", "Brisk Walking", "Stationary Cycling", "Rhythmic Dance Exercise"}, normal.Examples)

	prefrail := engine.Aerobic(RiskPrefrail, catalog.NewConditionSet("arthritis"))
	require.Equal(t, 100, prefrail.MinutesPerWeek)
	require.Equal(t, 4, prefrail.Frequency)
	require.Equal(t, IntensityLow, prefrail.Intensity)
	require.Equal(t, Range{3, 5}, prefrail.RPERange)
	require.Equal(t, []string{"Swimming / Aquatic Exercise", "Stationary Cycling", "Seated Arm Swings"}, prefrail.Examples)

	frail := engine.Aerobic(RiskFrail, catalog.NewConditionSet("hip_pain"))
	require.Equal(t, 60, frail.MinutesPerWeek)
	require.Equal(t, 3, frail.Frequency)
	require.Equal(t, Range{2, 4}, frail.RPERange)
	require.Equal(t, "Slow Walking", frail.Examples[0])

	unknown := engine.Aerobic(RiskCategory("bogus"), nil)
	require.Equal(t, frail.MinutesPerWeek, unknown.MinutesPerWeek)
}

func TestResistanceSelection(t *testing.T) {
	engine := newTestEngine(t)

	normal := engine.Resistance(RiskNormal, nil)
	require.Equal(t, []string{
		"wall_pushup", "seated_row", "bicep_curl",
		"sit_to_stand", "leg_extension", "calf_raise",
		"abdominal_bracing", "bird_dog",
	}, exerciseIDs(normal.Exercises))
	require.Equal(t, Range{60, 80}, normal.IntensityPercent)
	require.Equal(t, Range{6, 8}, normal.RPERange)
	require.Equal(t, 2, normal.Sets)
	require.Equal(t, Range{10, 12}, normal.Reps)
	require.Equal(t, 2, normal.DaysPerWeek)

	restricted := engine.Resistance(RiskPrefrail, catalog.NewConditionSet("shoulder_pain", "back_pain"))
	require.Equal(t, []string{
		"seated_row", "bicep_curl",
		"sit_to_stand", "leg_extension", "calf_raise",
		"abdominal_bracing",
	}, exerciseIDs(restricted.Exercises))
	require.Equal(t, Range{40, 60}, restricted.IntensityPercent)
	require.Equal(t, Range{8, 12}, restricted.Reps)

	frail := engine.Resistance(RiskFrail, nil)
	require.Len(t, frail.Exercises, MaxFrailResistanceExercises)
	require.Equal(t, 1, frail.Sets)
	require.Equal(t, Range{30, 50}, frail.IntensityPercent)
	require.Equal(t, Range{3, 5}, frail.RPERange)
	require.Equal(t, Range{8, 10}, frail.Reps)
}

func TestResistanceToleratesEmptiedBucket(t *testing.T) {
	small := &catalog.Catalog{
		Aerobic: []catalog.Exercise{{ID: "walk", Name: "Walking", Category: catalog.CategoryAerobic}},
		Resistance: []catalog.Exercise{
			{ID: "row", Name: "Row", Category: catalog.CategoryUpper},
			{ID: "squat", Name: "Squat", Category: catalog.CategoryLower, Contraindications: catalog.NewConditionSet("knee_pain")},
			{ID: "brace", Name: "Brace", Category: catalog.CategoryCore},
		},
		Balance:     []catalog.Exercise{{ID: "tandem", Name: "Tandem", Category: catalog.CategoryBalance}},
		Flexibility: []catalog.Exercise{{ID: "reach", Name: "Reach", Category: catalog.CategoryFlexibility}},
		AerobicExamples: catalog.AerobicExamples{
			Standard: []string{"Walking"}, LowImpact: []string{"Cycling"}, Frail: []string{"Slow Walking"},
		},
		JointImpactConditions: catalog.NewConditionSet("knee_pain"),
		RestDayActivity:       "Rest",
	}
	engine, err := NewEngine(small)
	require.NoError(t, err)

	rx, err := engine.Generate(Assessment{Age: 80, Gender: GenderMale, SPPBScore: 11, Conditions: []string{"knee_pain"}})
	require.NoError(t, err)
	require.Equal(t, []string{"row", "brace"}, exerciseIDs(rx.Resistance.Exercises))
	require.Equal(t, []string{"Row", "Brace"}, rx.WeeklyPlan.Monday.Exercises)
	require.Equal(t, []string{"Cycling"}, rx.Aerobic.Examples)
}

func TestPrecautions(t *testing.T) {
	all := catalog.NewConditionSet("back_pain", "arthritis", "knee_pain", "heart_disease", "diabetes", "hypertension")
	got := Precautions(all, RiskNormal)
	require.Equal(t, []string{
		"Avoid the Valsalva maneuver (holding your breath) during heavy resistance work",
		"Check your blood pressure before and after exercise",
		"Check blood glucose before exercising (100-250 mg/dL recommended)",
		"Carry a fast-acting carbohydrate snack in case of low blood sugar",
		"Stop immediately if you feel chest pain or dizziness",
		"Avoid high-intensity exercise",
		"Avoid high-impact movements such as jumping or running",
		"Lower the intensity if your knees hurt",
		"Avoid bending the spine under load",
		"Prioritize core stabilization exercises",
	}, got)

	require.Empty(t, Precautions(catalog.NewConditionSet("hip_pain", "shoulder_pain"), RiskPrefrail))
	require.Equal(t, frailWarnings, Precautions(nil, RiskFrail))
}

func TestWeeklyPlanTemplates(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("normal without balance", func(t *testing.T) {
		rx, err := engine.Generate(Assessment{Age: 66, Gender: GenderMale, SPPBScore: 12})
		require.NoError(t, err)
		plan := rx.WeeklyPlan

		require.Equal(t, DayPlan{Type: DayResistance, Exercises: []string{"Wall Push-Up", "Seated Band Row", "Dumbbell Biceps Curl", "Sit-to-Stand"}, Duration: 30}, plan.Monday)
		require.Equal(t, DayPlan{Type: DayAerobic, Exercises: []string{"Walking", "Brisk Walking"}, Duration: 30}, plan.Tuesday)
		require.Equal(t, DayPlan{Type: DayRest, Exercises: []string{"Rest or light stretching"}, Duration: 0}, plan.Wednesday)
		require.Equal(t, DayResistance, plan.Thursday.Type)
		require.Equal(t, DayAerobic, plan.Friday.Type)
		require.Equal(t, DayAerobic, plan.Saturday.Type)
		require.Equal(t, DayRest, plan.Sunday.Type)
	})

	t.Run("prefrail with balance", func(t *testing.T) {
		rx, err := engine.Generate(Assessment{Age: 72, Gender: GenderFemale, SPPBScore: 8, FrailScore: 2})
		require.NoError(t, err)
		require.Equal(t, DayPlan{
			Type:      DayCombined,
			Exercises: []string{"Walking", "Tandem Stance", "Single-Leg Stance"},
			Duration:  25 + 15,
		}, rx.WeeklyPlan.Wednesday)
	})

	t.Run("frail", func(t *testing.T) {
		rx, err := engine.Generate(Assessment{Age: 85, Gender: GenderFemale, SPPBScore: 4, FrailScore: 4})
		require.NoError(t, err)
		plan := rx.WeeklyPlan

		require.Equal(t, DayResistance, plan.Monday.Type)
		require.Equal(t, DayRest, plan.Tuesday.Type)
		require.Equal(t, DayPlan{Type: DayCombined, Exercises: []string{"Slow Walking", "Tandem Stance", "Single-Leg Stance"}, Duration: 35}, plan.Wednesday)
		require.Equal(t, DayRest, plan.Thursday.Type)
		require.Equal(t, DayResistance, plan.Friday.Type)
		require.Equal(t, DayRest, plan.Saturday.Type)
		require.Equal(t, DayPlan{Type: DayAerobic, Exercises: []string{"Slow Walking", "Seated Arm Swings"}, Duration: 20}, plan.Sunday)
	})

	t.Run("frail combined day without balance falls back to aerobic examples", func(t *testing.T) {
		aerobic := engine.Aerobic(RiskFrail, nil)
		plan := engine.WeeklyPlan(aerobic, engine.Resistance(RiskFrail, nil), nil, RiskFrail)
		require.Equal(t, []string{"Slow Walking", "Seated Arm Swings"}, plan.Wednesday.Exercises)
		require.Equal(t, 35, plan.Wednesday.Duration)
	})
}

func TestFlexibilityIsUnconditional(t *testing.T) {
	engine := newTestEngine(t)
	flex := engine.Flexibility()
	require.Equal(t, 2, flex.DaysPerWeek)
	require.Equal(t, 30, flex.HoldSeconds)
	require.Len(t, flex.Exercises, 5)
}

func exerciseIDs(exercises []catalog.Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		out = append(out, ex.ID)
	}
	return out
}
