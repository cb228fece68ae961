package prescription

import "example.com/exerciserx/internal/catalog"

type precautionRule struct {
	anyOf    []string
	warnings []string
}

// Rules are evaluated independently and their warnings concatenated in this order. Overlapping
// advice from different rules is kept as-is pending medical copy review.
var precautionRules = []precautionRule{
	{
		anyOf: []string{"hypertension"},
		warnings: []string{
			"Avoid the Valsalva maneuver (holding your breath) during heavy resistance work",
			"Check your blood pressure before and after exercise",
		},
	},
	{
		anyOf: []string{"diabetes"},
		warnings: []string{
			"Check blood glucose before exercising (100-250 mg/dL recommended)",
			"Carry a fast-acting carbohydrate snack in case of low blood sugar",
		},
	},
	{
		anyOf: []string{"heart_disease"},
		warnings: []string{
			"Stop immediately if you feel chest pain or dizziness",
			"Avoid high-intensity exercise",
		},
	},
	{
		anyOf: []string{"knee_pain", "arthritis"},
		warnings: []string{
			"Avoid high-impact movements such as jumping or running",
			"Lower the intensity if your knees hurt",
		},
	},
	{
		anyOf: []string{"back_pain"},
		warnings: []string{
			"Avoid bending the spine under load",
			"Prioritize core stabilization exercises",
		},
	},
}

func (r precautionRule) matches(conditions catalog.ConditionSet) bool {
	for _, code := range r.anyOf {
		if conditions.Has(code) {
			return true
		}
	}
	return false
}

var frailWarnings = []string{
	"Use a support such as a chair or wall during every exercise to prevent falls",
	"Have a caregiver or supervisor present for the first sessions",
}

// Precautions derives the safety warnings for a user's conditions and tier.
func Precautions(conditions catalog.ConditionSet, category RiskCategory) []string {
	out := make([]string, 0, 4)
	for _, rule := range precautionRules {
		if rule.matches(conditions) {
			out = append(out, rule.warnings...)
		}
	}
	if conservative(category) == RiskFrail {
		out = append(out, frailWarnings...)
	}
	return out
}
