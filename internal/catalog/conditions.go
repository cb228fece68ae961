package catalog

import (
	"encoding/json"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConditionSet is a set of normalized condition codes such as "hypertension" or "knee_pain".
type ConditionSet map[string]struct{}

// NewConditionSet builds a set from raw codes. Codes are trimmed and lower-cased; blanks are dropped.
func NewConditionSet(codes ...string) ConditionSet {
	set := make(ConditionSet, len(codes))
	for _, code := range codes {
		if clean := NormalizeCondition(code); clean != "" {
			set[clean] = struct{}{}
		}
	}
	return set
}

// NormalizeCondition returns the canonical form of a condition code.
func NormalizeCondition(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Has reports whether code is in the set.
func (s ConditionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Intersects reports whether the two sets share at least one code.
func (s ConditionSet) Intersects(other ConditionSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for code := range small {
		if large.Has(code) {
			return true
		}
	}
	return false
}

// Sorted returns the codes in lexical order.
func (s ConditionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (s ConditionSet) Clone() ConditionSet {
	if s == nil {
		return nil
	}
	out := make(ConditionSet, len(s))
	for code := range s {
		out[code] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted list so output is stable.
func (s ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list of codes.
func (s *ConditionSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*s = NewConditionSet(codes...)
	return nil
}

// MarshalYAML encodes the set as a sorted list.
func (s ConditionSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML decodes a sequence of codes.
func (s *ConditionSet) UnmarshalYAML(node *yaml.Node) error {
	var codes []string
	if err := node.Decode(&codes); err != nil {
		return err
	}
	*s = NewConditionSet(codes...)
	return nil
}
