package prescription

// Classify maps functional and frailty scores to a risk tier. Rules are evaluated in order and
// the first match wins; sarcopenia, age, conditions and fall history do not participate.
func Classify(a Assessment) RiskCategory {
	switch {
	case a.SPPBScore >= 10 && a.FrailScore <= 1:
		return RiskNormal
	case a.SPPBScore >= 7 && a.FrailScore <= 3:
		return RiskPrefrail
	default:
		return RiskFrail
	}
}

// Valid reports whether c is one of the three known tiers.
func (c RiskCategory) Valid() bool {
	switch c {
	case RiskNormal, RiskPrefrail, RiskFrail:
		return true
	}
	return false
}
