package models

import (
	"fmt"
	"strings"
)

// VoidType is the return type sentinel for methods without a declared return
const VoidType = "Void"

// ParameterModel is a normalized method or initializer parameter
type ParameterModel struct {
	InternalName string // name used inside the body
	ExternalName string // call-site label, empty when suppressed with _
	Type         string
	DefaultValue string
}

// Label returns the call-site label, "_" when suppressed
func (p ParameterModel) Label() string {
	if p.ExternalName == "" {
		return "_"
	}
	return p.ExternalName
}

// Declaration renders the parameter for a parameter list, eliding a
// duplicate label when external and internal names match
func (p ParameterModel) Declaration() string {
	var b strings.Builder
	switch {
	case p.ExternalName == "":
		b.WriteString("_ " + p.InternalName)
	case p.ExternalName == p.InternalName:
		b.WriteString(p.InternalName)
	default:
		b.WriteString(p.ExternalName + " " + p.InternalName)
	}
	b.WriteString(": " + p.Type)
	if p.DefaultValue != "" {
		b.WriteString(" = " + p.DefaultValue)
	}
	return b.String()
}

// Argument renders the parameter as a call argument forwarding the internal name
func (p ParameterModel) Argument() string {
	if p.ExternalName == "" {
		return p.InternalName
	}
	return p.ExternalName + ": " + p.InternalName
}

// MethodModel is the normalized form of a function member
type MethodModel struct {
	Name                string
	Parameters          []ParameterModel // ordinary parameters, completion excluded
	ReturnType          string           // VoidType when none is declared
	IsAsynchronous      bool
	IsThrowing          bool
	IsPrivate           bool
	CompletionParameter *ParameterModel
	CompletionIndex     int // index of the completion among all parameters, -1 when absent
	GenericParameters   string
	WhereClause         string
	Modifiers           []string
	Attributes          []Attribute
	HasBody             bool // declared with an implementation, so a class spy can forward to super
	Location            Position
}

// AllParameters returns the parameters in declaration order, completion included
func (m MethodModel) AllParameters() []ParameterModel {
	if m.CompletionParameter == nil {
		return append([]ParameterModel(nil), m.Parameters...)
	}
	all := make([]ParameterModel, 0, len(m.Parameters)+1)
	idx := m.CompletionIndex
	if idx < 0 || idx > len(m.Parameters) {
		idx = len(m.Parameters)
	}
	all = append(all, m.Parameters[:idx]...)
	all = append(all, *m.CompletionParameter)
	all = append(all, m.Parameters[idx:]...)
	return all
}

// ReturnsValue reports whether the method declares a non-Void return
func (m MethodModel) ReturnsValue() bool {
	return m.ReturnType != VoidType && m.ReturnType != "()" && m.ReturnType != ""
}

// Selector returns the Swift method selector, e.g. fetch(id:completion:)
func (m MethodModel) Selector() string {
	var b strings.Builder
	b.WriteString(m.Name + "(")
	for _, p := range m.AllParameters() {
		b.WriteString(p.Label() + ":")
	}
	b.WriteString(")")
	return b.String()
}

// Signature returns a readable one-line signature for diagnostics
func (m MethodModel) Signature() string {
	params := make([]string, 0, len(m.Parameters)+1)
	for _, p := range m.AllParameters() {
		params = append(params, p.Declaration())
	}
	sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(params, ", "))
	if m.IsAsynchronous {
		sig += " async"
	}
	if m.IsThrowing {
		sig += " throws"
	}
	if m.ReturnsValue() {
		sig += " -> " + m.ReturnType
	}
	return sig
}

// InitializerModel is the normalized form of an init member
type InitializerModel struct {
	Parameters []ParameterModel
	IsThrowing bool
	IsAsync    bool
	IsRequired bool
	Failable   string
	Modifiers  []string
	Location   Position
}

// Selector returns the initializer selector, e.g. init(session:)
func (i InitializerModel) Selector() string {
	var b strings.Builder
	b.WriteString("init(")
	for _, p := range i.Parameters {
		b.WriteString(p.Label() + ":")
	}
	b.WriteString(")")
	return b.String()
}

// PropertyModel is the normalized form of a property member
type PropertyModel struct {
	Name         string
	Type         string
	IsReadOnly   bool
	IsConstant   bool
	DefaultValue string
	IsObserved   bool // externally observable (@Published) on a class
	Location     Position
}

// IsOptional reports whether the property type is optional
func (p PropertyModel) IsOptional() bool {
	return strings.HasSuffix(p.Type, "?") || strings.HasSuffix(p.Type, "!")
}

// Signature is the extractor output for one declaration
type Signature struct {
	Methods            []MethodModel
	Initializers       []InitializerModel
	Properties         []PropertyModel
	ObservedProperties []PropertyModel // class input only
}
