package prescription

import "example.com/exerciserx/internal/catalog"

const (
	balanceSPPBThreshold  = 9
	balanceDaysPerWeek    = 3
	balanceSessionMinutes = 15

	flexibilityDaysPerWeek = 2
	flexibilityHoldSeconds = 30
)

// BalanceRequired reports whether balance training is clinically indicated.
func BalanceRequired(a Assessment) bool {
	return a.SPPBScore <= balanceSPPBThreshold || a.HasFallHistory
}

// Balance returns nil when balance work is not indicated. The dose does not depend on the risk tier.
func (e *Engine) Balance(a Assessment) *BalancePrescription {
	if !BalanceRequired(a) {
		return nil
	}
	return &BalancePrescription{
		DaysPerWeek: balanceDaysPerWeek,
		Exercises:   catalog.CloneAll(e.catalog.Balance),
		Duration:    balanceSessionMinutes,
	}
}

// Flexibility is the same for every user. Unlike resistance it applies no contraindication filter.
func (e *Engine) Flexibility() FlexibilityPrescription {
	return FlexibilityPrescription{
		DaysPerWeek: flexibilityDaysPerWeek,
		HoldSeconds: flexibilityHoldSeconds,
		Exercises:   catalog.CloneAll(e.catalog.Flexibility),
	}
}
