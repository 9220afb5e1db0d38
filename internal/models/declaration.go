package models

import (
	"fmt"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
)

// DeclarationKind represents the kind of a top-level Swift declaration
type DeclarationKind int

const (
	DeclarationUnknown DeclarationKind = iota
	DeclarationProtocol
	DeclarationClass
	DeclarationStruct
	DeclarationEnum
	DeclarationActor
	DeclarationExtension
)

// String returns the Swift keyword for the declaration kind
func (k DeclarationKind) String() string {
	switch k {
	case DeclarationProtocol:
		return "protocol"
	case DeclarationClass:
		return "class"
	case DeclarationStruct:
		return "struct"
	case DeclarationEnum:
		return "enum"
	case DeclarationActor:
		return "actor"
	case DeclarationExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// IsSpyable reports whether a companion can be generated for this kind
func (k DeclarationKind) IsSpyable() bool {
	return k == DeclarationProtocol || k == DeclarationClass || k == DeclarationStruct
}

// ParseDeclarationKind maps a Swift keyword to a DeclarationKind
func ParseDeclarationKind(keyword string) DeclarationKind {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "protocol", "interface":
		return DeclarationProtocol
	case "class":
		return DeclarationClass
	case "struct", "record":
		return DeclarationStruct
	case "enum":
		return DeclarationEnum
	case "actor":
		return DeclarationActor
	case "extension":
		return DeclarationExtension
	default:
		return DeclarationUnknown
	}
}

// Position is a location in Swift source
type Position struct {
	File   string // source file path, empty for descriptions loaded without a file
	Line   int    // 1-based line
	Column int    // 1-based column
}

// String returns file:line
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// SourceLocation converts the position for error reporting
func (p Position) SourceLocation() spyerrors.SourceLocation {
	return spyerrors.SourceLocation{File: p.File, Line: p.Line, Column: p.Column}
}

// Attribute is a Swift attribute such as @escaping or @Spyable(...)
type Attribute struct {
	Name      string // attribute name without the leading @
	Arguments string // raw text between the parentheses
	HasParens bool   // whether an argument clause was written, even an empty one
	Location  Position
}

// String renders the attribute as written
func (a Attribute) String() string {
	if !a.HasParens {
		return "@" + a.Name
	}
	return fmt.Sprintf("@%s(%s)", a.Name, a.Arguments)
}

// Declaration is the structural description of one annotated declaration
type Declaration struct {
	Kind       DeclarationKind
	Name       string
	Generics   string      // generic parameter clause without brackets, empty when absent
	Inherits   []string    // inheritance / conformance clause entries
	Modifiers  []string    // access and other modifiers (public, final, open...)
	Attributes []Attribute // attributes attached to the declaration, including @Spyable
	Members    []Member    // members in source order
	Imports    []string    // modules imported by the containing file
	Location   Position
}

// Attribute returns the named attribute, if present
func (d *Declaration) Attribute(name string) (Attribute, bool) {
	return FindAttribute(d.Attributes, name)
}

// HasModifier reports whether the declaration carries the modifier
func (d *Declaration) HasModifier(modifier string) bool {
	return HasModifier(d.Modifiers, modifier)
}

// MemberKind tags a member of a declaration
type MemberKind int

const (
	MemberOther MemberKind = iota
	MemberFunction
	MemberInitializer
	MemberProperty
)

// String returns the string representation of the member kind
func (k MemberKind) String() string {
	switch k {
	case MemberFunction:
		return "function"
	case MemberInitializer:
		return "initializer"
	case MemberProperty:
		return "property"
	default:
		return "other"
	}
}

// Member is one entry of a declaration body. Exactly one of Function,
// Initializer or Property is set, matching Kind; Other members carry only
// Keyword and Description.
type Member struct {
	Kind        MemberKind
	Function    *FunctionDecl
	Initializer *InitializerDecl
	Property    *PropertyDecl
	Keyword     string   // leading keyword for Other members (subscript, associatedtype, case...)
	Modifiers   []string // modifiers for Other members
	Description string   // short human-readable text for diagnostics
	Location    Position
}

// Name returns the member's declared name
func (m Member) Name() string {
	switch m.Kind {
	case MemberFunction:
		return m.Function.Name
	case MemberInitializer:
		return "init"
	case MemberProperty:
		return m.Property.Name
	default:
		return m.Description
	}
}

// MemberModifiers returns the modifiers of whichever variant is set
func (m Member) MemberModifiers() []string {
	switch m.Kind {
	case MemberFunction:
		return m.Function.Modifiers
	case MemberInitializer:
		return m.Initializer.Modifiers
	case MemberProperty:
		return m.Property.Modifiers
	default:
		return m.Modifiers
	}
}

// Effects is a function effect-specifier clause
type Effects struct {
	Async    bool
	Throws   bool
	Rethrows bool
	// ThrownType holds the typed-throws error type, empty for untyped throws
	ThrownType string
}

// IsThrowing reports throws or rethrows
func (e Effects) IsThrowing() bool {
	return e.Throws || e.Rethrows
}

// ParameterDecl is a formal parameter as written
type ParameterDecl struct {
	FirstName    string // external label, "_" when suppressed
	SecondName   string // internal name, empty when the first name doubles as both
	Type         string // canonical type text
	Attributes   []Attribute
	DefaultValue string
}

// FunctionDecl is a func member
type FunctionDecl struct {
	Name              string
	Modifiers         []string
	Attributes        []Attribute
	GenericParameters string // generic clause without brackets
	Parameters        []ParameterDecl
	Effects           Effects
	ReturnType        string // canonical return type text, empty when omitted
	WhereClause       string
	HasBody           bool
}

// InitializerDecl is an init member
type InitializerDecl struct {
	Modifiers         []string
	Attributes        []Attribute
	GenericParameters string
	Parameters        []ParameterDecl
	Effects           Effects
	Failable          string // "", "?" or "!"
	HasBody           bool
}

// PropertyDecl is a var or let member
type PropertyDecl struct {
	Name             string
	Type             string // canonical type text, empty when inferred
	Modifiers        []string
	Attributes       []Attribute
	IsConstant       bool     // declared with let
	DefaultValue     string   // initializer expression text
	Accessors        []string // accessor keywords in the accessor block (get, set, willSet...)
	HasAccessorBlock bool
}

// IsStored reports whether the property has backing storage
func (p *PropertyDecl) IsStored() bool {
	if !p.HasAccessorBlock {
		return true
	}
	for _, accessor := range p.Accessors {
		if accessor != "willSet" && accessor != "didSet" {
			return false
		}
	}
	return len(p.Accessors) > 0
}

// HasSetter reports whether the property can be assigned
func (p *PropertyDecl) HasSetter() bool {
	if p.IsConstant {
		return false
	}
	if p.IsStored() {
		return !HasModifier(p.Modifiers, "private(set)") && !HasModifier(p.Modifiers, "fileprivate(set)")
	}
	for _, accessor := range p.Accessors {
		if accessor == "set" || accessor == "_modify" {
			return true
		}
	}
	return false
}

// SourceFile is the result of scanning one Swift file
type SourceFile struct {
	Path         string
	Imports      []string
	Declarations []Declaration // @Spyable declarations in source order
}

// HasModifier reports whether modifiers contains modifier
func HasModifier(modifiers []string, modifier string) bool {
	for _, m := range modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

// FindAttribute returns the first attribute with the given name
func FindAttribute(attributes []Attribute, name string) (Attribute, bool) {
	for _, a := range attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}
