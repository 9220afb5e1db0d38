// Package state builds the State enum recorded by every companion: one case
// per method and a structural equality whose last arm is always false.
package state

import (
	"strings"

	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/shapes"
)

// Arm is one case of the generated == switch
type Arm struct {
	Pattern   string // e.g. let (.load(lhsId), .load(rhsId))
	Condition string // e.g. lhsId == rhsId, or true
}

// Build returns one variant per method in declaration order. Fields carry
// the ordinary parameters; the completion callback is kept in its ledger
// and non-escaping closures cannot be stored at all.
func Build(methods []models.ClassifiedMethod) models.StateModel {
	model := models.StateModel{Variants: make([]models.StateVariant, 0, len(methods))}
	for _, cm := range methods {
		model.Variants = append(model.Variants, Variant(cm.Method))
	}
	return model
}

// Variant returns the state variant for a single method
func Variant(method models.MethodModel) models.StateVariant {
	variant := models.StateVariant{Name: method.Name}
	for _, p := range Recorded(method) {
		storage := shapes.StorageType(p.Type)
		variant.Fields = append(variant.Fields, models.StateField{
			Name:       p.InternalName,
			Type:       storage,
			Comparable: shapes.IsComparable(storage),
		})
	}
	return variant
}

// Recorded returns the parameters whose values a spy keeps for a call
func Recorded(method models.MethodModel) []models.ParameterModel {
	var out []models.ParameterModel
	for _, p := range method.Parameters {
		if shapes.IsStorable(p.Type) {
			out = append(out, p)
		}
	}
	return out
}

// Case renders the enum case declaration, e.g. load(id: Int)
func Case(v models.StateVariant) string {
	if v.IsZeroArity() {
		return v.Name
	}
	fields := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		fields = append(fields, f.Name+": "+f.Type)
	}
	return v.Name + "(" + strings.Join(fields, ", ") + ")"
}

// Construct renders a value of the variant built from the parameters in scope, e.g. .load(id: id)
func Construct(v models.StateVariant) string {
	if v.IsZeroArity() {
		return "." + v.Name
	}
	args := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		args = append(args, f.Name+": "+f.Name)
	}
	return "." + v.Name + "(" + strings.Join(args, ", ") + ")"
}

// Arms returns the equality arms, one per variant. Values that cannot be
// compared are bound as _; a variant with none left compares equal on its tag.
func Arms(model models.StateModel) []Arm {
	arms := make([]Arm, 0, len(model.Variants))
	for _, v := range model.Variants {
		arms = append(arms, arm(v))
	}
	return arms
}

func arm(v models.StateVariant) Arm {
	tag := "." + v.Name
	var lhs, rhs, conditions []string
	for _, f := range v.Fields {
		if !f.Comparable {
			lhs = append(lhs, "_")
			rhs = append(rhs, "_")
			continue
		}
		name := naming.Capitalize(f.Name)
		lhs = append(lhs, "lhs"+name)
		rhs = append(rhs, "rhs"+name)
		conditions = append(conditions, "lhs"+name+" == rhs"+name)
	}

	if len(conditions) == 0 {
		return Arm{Pattern: "(" + tag + ", " + tag + ")", Condition: "true"}
	}
	return Arm{
		Pattern: "let (" + tag + "(" + strings.Join(lhs, ", ") + "), " +
			tag + "(" + strings.Join(rhs, ", ") + "))",
		Condition: strings.Join(conditions, " && "),
	}
}
