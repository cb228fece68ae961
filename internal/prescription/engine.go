package prescription

import "example.com/exerciserx/internal/catalog"

// Engine generates prescriptions from a fixed catalog. It holds no per-call state and is safe
// for concurrent use as long as the catalog is not modified.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine checks catalog integrity once and binds the engine to a private copy of c.
func NewEngine(c *catalog.Catalog) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Engine{catalog: c.Clone()}, nil
}

// Catalog returns a copy of the catalog the engine draws from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog.Clone()
}

// Generate validates the assessment and builds a complete prescription. No partial result is
// returned on error.
func (e *Engine) Generate(a Assessment) (Prescription, error) {
	if err := Validate(a); err != nil {
		return Prescription{}, err
	}

	category := Classify(a)
	conditions := a.ConditionSet()

	aerobic := e.Aerobic(category, conditions)
	resistance := e.Resistance(category, conditions)
	balance := e.Balance(a)

	return Prescription{
		RiskCategory: category,
		Aerobic:      aerobic,
		Resistance:   resistance,
		Balance:      balance,
		Flexibility:  e.Flexibility(),
		Precautions:  Precautions(conditions, category),
		WeeklyPlan:   e.WeeklyPlan(aerobic, resistance, balance, category),
	}, nil
}
