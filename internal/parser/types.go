package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
)

// TypeExpr is a Swift type annotation
type TypeExpr struct {
	Attributes  []string      `parser:"@Attribute*"`
	Specifiers  []string      `parser:"@('inout' | 'some' | 'any' | 'borrowing' | 'consuming' | 'sending' | '__owned' | '__shared')*"`
	Base        *TypeAtom     `parser:"@@"`
	Composition []*TypeAtom   `parser:"( '&' @@ )*"`
	Function    *FunctionTail `parser:"@@?"`
}

// FunctionTail is the effects and result of a function type
type FunctionTail struct {
	Async      bool      `parser:"@'async'?"`
	Throws     bool      `parser:"( @'throws'"`
	ThrownType *TypeExpr `parser:"  ( '(' @@ ')' )? )?"`
	Result     *TypeExpr `parser:"'->' @@"`
}

// TypeAtom is a tuple, collection or named type with postfix suffixes
type TypeAtom struct {
	Tuple      *TupleType      `parser:"( @@"`
	Collection *CollectionType `parser:"| @@"`
	Named      *NamedType      `parser:"| @@ )"`
	Suffixes   []string        `parser:"@( '?' | '!' | '...' )*"`
}

// TupleType is a parenthesized type list, also used for closure parameters
type TupleType struct {
	Elements []*TupleElement `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
}

// TupleElement is one labeled or unlabeled element
type TupleElement struct {
	Label  string    `parser:"( @Ident"`
	Second string    `parser:"  @Ident? ':' )?"`
	Type   *TypeExpr `parser:"@@"`
}

// CollectionType is [T] or [K: V]
type CollectionType struct {
	Key   *TypeExpr `parser:"'[' @@"`
	Value *TypeExpr `parser:"( ':' @@ )? ']'"`
}

// NamedType is a dotted type path
type NamedType struct {
	Components []*TypeComponent `parser:"@@ ( '.' @@ )*"`
}

// TypeComponent is one path component with optional generic arguments
type TypeComponent struct {
	Name     string      `parser:"@Ident"`
	Generics []*TypeExpr `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

var typeParser = participle.MustBuild[TypeExpr](
	participle.Lexer(swiftLexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.UseLookahead(4),
)

// ParseType parses a type annotation
func ParseType(text string) (*TypeExpr, error) {
	return typeParser.ParseString("", text)
}

// CanonicalType renders a type annotation with canonical spacing. When the
// text does not parse, the whitespace-normalized input is returned with the
// parse error.
func CanonicalType(text string) (string, error) {
	text = normalizeSpace(text)
	if text == "" {
		return "", nil
	}
	expr, err := ParseType(text)
	if err != nil {
		return text, err
	}
	return expr.String(), nil
}

// String renders the type with canonical spacing
func (t *TypeExpr) String() string {
	var b strings.Builder
	for _, attr := range t.Attributes {
		b.WriteString(attr + " ")
	}
	for _, spec := range t.Specifiers {
		b.WriteString(spec + " ")
	}
	b.WriteString(t.Base.String())
	for _, atom := range t.Composition {
		b.WriteString(" & " + atom.String())
	}
	if t.Function != nil {
		b.WriteString(t.Function.String())
	}
	return b.String()
}

// IsFunction reports whether the type is a function type
func (t *TypeExpr) IsFunction() bool {
	return t.Function != nil
}

// String renders the function tail including the leading space
func (f *FunctionTail) String() string {
	var b strings.Builder
	if f.Async {
		b.WriteString(" async")
	}
	if f.Throws {
		b.WriteString(" throws")
		if f.ThrownType != nil {
			b.WriteString("(" + f.ThrownType.String() + ")")
		}
	}
	b.WriteString(" -> " + f.Result.String())
	return b.String()
}

// String renders the atom and its suffixes
func (a *TypeAtom) String() string {
	var base string
	switch {
	case a.Tuple != nil:
		base = a.Tuple.String()
	case a.Collection != nil:
		base = a.Collection.String()
	case a.Named != nil:
		base = a.Named.String()
	}
	return base + strings.Join(a.Suffixes, "")
}

// String renders the tuple
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// String renders the element with its labels
func (e *TupleElement) String() string {
	switch {
	case e.Label != "" && e.Second != "":
		return e.Label + " " + e.Second + ": " + e.Type.String()
	case e.Label != "":
		return e.Label + ": " + e.Type.String()
	default:
		return e.Type.String()
	}
}

// String renders the collection
func (c *CollectionType) String() string {
	if c.Value != nil {
		return "[" + c.Key.String() + ": " + c.Value.String() + "]"
	}
	return "[" + c.Key.String() + "]"
}

// String renders the dotted path
func (n *NamedType) String() string {
	parts := make([]string, len(n.Components))
	for i, c := range n.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, ".")
}

// String renders the component and its generic arguments
func (c *TypeComponent) String() string {
	if len(c.Generics) == 0 {
		return c.Name
	}
	args := make([]string, len(c.Generics))
	for i, g := range c.Generics {
		args[i] = g.String()
	}
	return c.Name + "<" + strings.Join(args, ", ") + ">"
}
