package models

// StateField is one associated value of a state variant
type StateField struct {
	Name       string
	Type       string
	Comparable bool // false for function types, which are bound as _ and skipped by ==
}

// StateVariant is one case of the generated State enum
type StateVariant struct {
	Name   string
	Fields []StateField
}

// IsZeroArity reports whether the variant carries no associated values
func (v StateVariant) IsZeroArity() bool {
	return len(v.Fields) == 0
}

// StateModel describes the State enum for one container
type StateModel struct {
	Variants []StateVariant
}

// Variant returns the variant with the given name
func (s StateModel) Variant(name string) (StateVariant, bool) {
	for _, v := range s.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return StateVariant{}, false
}
