// Package catalog holds the static exercise catalog the prescription engine draws from.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultAsset []byte

// Category groups exercises by modality or muscle group.
type Category string

const (
	CategoryUpper       Category = "upper"
	CategoryLower       Category = "lower"
	CategoryCore        Category = "core"
	CategoryAerobic     Category = "aerobic"
	CategoryBalance     Category = "balance"
	CategoryFlexibility Category = "flexibility"
)

// ResistanceGroups lists the muscle-group buckets in selection order.
var ResistanceGroups = []Category{CategoryUpper, CategoryLower, CategoryCore}

// Exercise is a single catalog entry.
type Exercise struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Category          Category     `json:"category" yaml:"category"`
	Description       string       `json:"description" yaml:"description"`
	Contraindications ConditionSet `json:"contraindications,omitempty" yaml:"contraindications,omitempty"`
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	e.Contraindications = e.Contraindications.Clone()
	return e
}

// ExcludedBy reports whether any of the user's conditions rules the exercise out.
func (e Exercise) ExcludedBy(conditions ConditionSet) bool {
	return e.Contraindications.Intersects(conditions)
}

// AerobicExamples holds the example activity lists shown with an aerobic prescription.
type AerobicExamples struct {
	Standard  []string `json:"standard" yaml:"standard"`
	LowImpact []string `json:"low_impact" yaml:"low_impact"`
	Frail     []string `json:"frail" yaml:"frail"`
}

// Catalog is the full exercise data asset. It must be treated as read-only once built.
type Catalog struct {
	Aerobic               []Exercise      `json:"aerobic" yaml:"aerobic"`
	Resistance            []Exercise      `json:"resistance" yaml:"resistance"`
	Balance               []Exercise      `json:"balance" yaml:"balance"`
	Flexibility           []Exercise      `json:"flexibility" yaml:"flexibility"`
	AerobicExamples       AerobicExamples `json:"aerobic_examples" yaml:"aerobic_examples"`
	JointImpactConditions ConditionSet    `json:"joint_impact_conditions" yaml:"joint_impact_conditions"`
	RestDayActivity       string          `json:"rest_day_activity" yaml:"rest_day_activity"`
}

// IntegrityError reports a malformed catalog asset.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "catalog integrity: " + e.Reason
}

func integrityErrorf(format string, args ...any) error {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// Default parses the embedded catalog asset. Each call returns an independent copy.
func Default() (*Catalog, error) {
	return Parse(defaultAsset)
}

// MustDefault is Default for callers that treat a broken embedded asset as a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural invariants the engine relies on.
func (c *Catalog) Validate() error {
	if c == nil {
		return integrityErrorf("catalog is nil")
	}
	seen := make(map[string]struct{})
	lists := []struct {
		name    string
		entries []Exercise
		allowed []Category
	}{
		{"aerobic", c.Aerobic, []Category{CategoryAerobic}},
		{"resistance", c.Resistance, ResistanceGroups},
		{"balance", c.Balance, []Category{CategoryBalance}},
		{"flexibility", c.Flexibility, []Category{CategoryFlexibility}},
	}
	for _, list := range lists {
		if len(list.entries) == 0 {
			return integrityErrorf("%s list is empty", list.name)
		}
		for _, ex := range list.entries {
			if strings.TrimSpace(ex.ID) == "" {
				return integrityErrorf("%s entry without id", list.name)
			}
			if _, dup := seen[ex.ID]; dup {
				return integrityErrorf("duplicate exercise id %q", ex.ID)
			}
			seen[ex.ID] = struct{}{}
			if strings.TrimSpace(ex.Name) == "" {
				return integrityErrorf("exercise %q has no name", ex.ID)
			}
			if !slices.Contains(list.allowed, ex.Category) {
				return integrityErrorf("exercise %q has category %q in %s list", ex.ID, ex.Category, list.name)
			}
		}
	}
	for _, group := range ResistanceGroups {
		if len(c.ResistanceByGroup(group)) == 0 {
			return integrityErrorf("resistance bucket %q is missing", group)
		}
	}
	if len(c.AerobicExamples.Standard) == 0 || len(c.AerobicExamples.LowImpact) == 0 || len(c.AerobicExamples.Frail) == 0 {
		return integrityErrorf("aerobic example tables are incomplete")
	}
	if strings.TrimSpace(c.RestDayActivity) == "" {
		return integrityErrorf("rest day activity is empty")
	}
	return nil
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := *c
	out.Aerobic = CloneAll(c.Aerobic)
	out.Resistance = CloneAll(c.Resistance)
	out.Balance = CloneAll(c.Balance)
	out.Flexibility = CloneAll(c.Flexibility)
	out.AerobicExamples = AerobicExamples{
		Standard:  slices.Clone(c.AerobicExamples.Standard),
		LowImpact: slices.Clone(c.AerobicExamples.LowImpact),
		Frail:     slices.Clone(c.AerobicExamples.Frail),
	}
	out.JointImpactConditions = c.JointImpactConditions.Clone()
	return &out
}

// ResistanceByGroup returns the resistance entries for a muscle group in catalog order.
func (c *Catalog) ResistanceByGroup(group Category) []Exercise {
	var out []Exercise
	for _, ex := range c.Resistance {
		if ex.Category == group {
			out = append(out, ex)
		}
	}
	return out
}

// ByID finds an exercise across all lists.
func (c *Catalog) ByID(id string) (Exercise, bool) {
	for _, list := range [][]Exercise{c.Aerobic, c.Resistance, c.Balance, c.Flexibility} {
		for _, ex := range list {
			if ex.ID == id {
				return ex.Clone(), true
			}
		}
	}
	return Exercise{}, false
}

// Names returns the display names of the given exercises, preserving order.
func Names(exercises []Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		out = append(out, ex.Name)
	}
	return out
}

// CloneAll deep-copies a list of exercises.
func CloneAll(exercises []Exercise) []Exercise {
	out := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Clone()
	}
	return out
}
