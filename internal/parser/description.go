package parser

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
)

// DeclarationDescription is the host-facing description of one declaration.
// JSON input is accepted because it is a YAML subset.
type DeclarationDescription struct {
	Kind       string                 `yaml:"kind"`
	Name       string                 `yaml:"name"`
	Inherits   []string               `yaml:"inherits,omitempty"`
	Modifiers  []string               `yaml:"modifiers,omitempty"`
	Attributes []AttributeDescription `yaml:"attributes,omitempty"`
	Imports    []string               `yaml:"imports,omitempty"`
	Members    []MemberDescription    `yaml:"members"`
}

// AttributeDescription describes an attribute; arguments are raw Swift text
type AttributeDescription struct {
	Name      string  `yaml:"name"`
	Arguments *string `yaml:"arguments,omitempty"`
}

// MemberDescription describes one member. Kind is function, initializer, property or other.
type MemberDescription struct {
	Kind       string                 `yaml:"kind"`
	Name       string                 `yaml:"name,omitempty"`
	Keyword    string                 `yaml:"keyword,omitempty"`
	Modifiers  []string               `yaml:"modifiers,omitempty"`
	Attributes []AttributeDescription `yaml:"attributes,omitempty"`
	Generics   string                 `yaml:"generics,omitempty"`
	Parameters []ParameterDescription `yaml:"parameters,omitempty"`
	Async      bool                   `yaml:"async,omitempty"`
	Throws     bool                   `yaml:"throws,omitempty"`
	Returns    string                 `yaml:"returns,omitempty"`
	HasBody    bool                   `yaml:"body,omitempty"`
	Failable   string                 `yaml:"failable,omitempty"`
	Type       string                 `yaml:"type,omitempty"`
	Constant   bool                   `yaml:"let,omitempty"`
	Default    string                 `yaml:"default,omitempty"`
	Accessors  []string               `yaml:"accessors,omitempty"`
	Line       int                    `yaml:"line,omitempty"`
}

// ParameterDescription describes a parameter with Swift's two-name scheme
type ParameterDescription struct {
	Label   string `yaml:"label"`
	Name    string `yaml:"name,omitempty"`
	Type    string `yaml:"type"`
	Default string `yaml:"default,omitempty"`
}

type descriptionDocument struct {
	Declarations []DeclarationDescription `yaml:"declarations"`
}

// LoadDescriptions reads one declaration or a `declarations:` list from YAML/JSON
func LoadDescriptions(name string, r io.Reader) ([]models.Declaration, *spyerrors.Diagnostics, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, spyerrors.WrapFileSystemError("read", name, err)
	}

	var probe map[string]interface{}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, nil, spyerrors.WrapParseError("declaration description", spyerrors.SourceLocation{File: name}, err)
	}

	var descs []DeclarationDescription
	if _, isList := probe["declarations"]; isList {
		var doc descriptionDocument
		if err := decodeStrict(data, &doc); err != nil {
			return nil, nil, spyerrors.WrapParseError("declaration description", spyerrors.SourceLocation{File: name}, err)
		}
		descs = doc.Declarations
	} else {
		var desc DeclarationDescription
		if err := decodeStrict(data, &desc); err != nil {
			return nil, nil, spyerrors.WrapParseError("declaration description", spyerrors.SourceLocation{File: name}, err)
		}
		descs = []DeclarationDescription{desc}
	}

	diags := &spyerrors.Diagnostics{}
	decls := make([]models.Declaration, 0, len(descs))
	for _, desc := range descs {
		decls = append(decls, desc.toModel(name, diags))
	}
	return decls, diags, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// Describe converts a parsed declaration back to its description form
func Describe(decl models.Declaration) DeclarationDescription {
	desc := DeclarationDescription{
		Kind:       decl.Kind.String(),
		Name:       decl.Name,
		Inherits:   decl.Inherits,
		Modifiers:  decl.Modifiers,
		Attributes: describeAttributes(decl.Attributes),
		Imports:    decl.Imports,
	}
	for _, m := range decl.Members {
		md := MemberDescription{Kind: m.Kind.String(), Modifiers: m.MemberModifiers(), Line: m.Location.Line}
		switch m.Kind {
		case models.MemberFunction:
			fn := m.Function
			md.Name = fn.Name
			md.Attributes = describeAttributes(fn.Attributes)
			md.Generics = fn.GenericParameters
			md.Parameters = describeParameters(fn.Parameters)
			md.Async = fn.Effects.Async
			md.Throws = fn.Effects.IsThrowing()
			md.Returns = fn.ReturnType
			md.HasBody = fn.HasBody
		case models.MemberInitializer:
			initializer := m.Initializer
			md.Attributes = describeAttributes(initializer.Attributes)
			md.Parameters = describeParameters(initializer.Parameters)
			md.Async = initializer.Effects.Async
			md.Throws = initializer.Effects.IsThrowing()
			md.Failable = initializer.Failable
			md.HasBody = initializer.HasBody
		case models.MemberProperty:
			prop := m.Property
			md.Name = prop.Name
			md.Attributes = describeAttributes(prop.Attributes)
			md.Type = prop.Type
			md.Constant = prop.IsConstant
			md.Default = prop.DefaultValue
			md.Accessors = prop.Accessors
		default:
			md.Keyword = m.Keyword
			md.Name = strings.TrimSpace(strings.TrimPrefix(m.Description, m.Keyword))
		}
		desc.Members = append(desc.Members, md)
	}
	return desc
}

// MarshalDescriptions renders declarations as a YAML document
func MarshalDescriptions(decls []models.Declaration) ([]byte, error) {
	doc := descriptionDocument{}
	for _, d := range decls {
		doc.Declarations = append(doc.Declarations, Describe(d))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d DeclarationDescription) toModel(file string, diags *spyerrors.Diagnostics) models.Declaration {
	decl := models.Declaration{
		Kind:       models.ParseDeclarationKind(d.Kind),
		Name:       strings.TrimSpace(d.Name),
		Inherits:   d.Inherits,
		Modifiers:  d.Modifiers,
		Attributes: attributesFromDescription(d.Attributes, file),
		Location:   models.Position{File: file},
	}
	for _, imp := range d.Imports {
		if !strings.Contains(imp, "import ") {
			imp = "import " + imp
		}
		decl.Imports = append(decl.Imports, imp)
	}

	canonical := func(text string, line int) string {
		out, err := CanonicalType(text)
		if err != nil {
			diags.Warn(spyerrors.WrapParseError("type '"+text+"'", spyerrors.SourceLocation{File: file, Line: line}, err).
				WithSuggestion("The type is used exactly as written"))
		}
		return out
	}

	for _, m := range d.Members {
		loc := models.Position{File: file, Line: m.Line}
		effects := models.Effects{Async: m.Async, Throws: m.Throws}
		switch strings.ToLower(m.Kind) {
		case "function", "func", "method":
			ret := ""
			if m.Returns != "" {
				ret = canonical(m.Returns, m.Line)
			}
			decl.Members = append(decl.Members, models.Member{
				Kind: models.MemberFunction,
				Function: &models.FunctionDecl{
					Name:              m.Name,
					Modifiers:         m.Modifiers,
					Attributes:        attributesFromDescription(m.Attributes, file),
					GenericParameters: m.Generics,
					Parameters:        parametersFromDescription(m.Parameters, m.Line, canonical),
					Effects:           effects,
					ReturnType:        ret,
					HasBody:           m.HasBody,
				},
				Location: loc,
			})
		case "initializer", "init":
			decl.Members = append(decl.Members, models.Member{
				Kind: models.MemberInitializer,
				Initializer: &models.InitializerDecl{
					Modifiers:  m.Modifiers,
					Attributes: attributesFromDescription(m.Attributes, file),
					Parameters: parametersFromDescription(m.Parameters, m.Line, canonical),
					Effects:    effects,
					Failable:   m.Failable,
					HasBody:    m.HasBody,
				},
				Location: loc,
			})
		case "property", "var", "let":
			prop := &models.PropertyDecl{
				Name:             m.Name,
				Modifiers:        m.Modifiers,
				Attributes:       attributesFromDescription(m.Attributes, file),
				IsConstant:       m.Constant || strings.EqualFold(m.Kind, "let"),
				DefaultValue:     m.Default,
				Accessors:        m.Accessors,
				HasAccessorBlock: len(m.Accessors) > 0,
			}
			if m.Type != "" {
				prop.Type = canonical(m.Type, m.Line)
			}
			decl.Members = append(decl.Members, models.Member{Kind: models.MemberProperty, Property: prop, Location: loc})
		default:
			decl.Members = append(decl.Members, otherMember(m.Keyword, strings.TrimSpace(m.Keyword+" "+m.Name), m.Modifiers, loc))
		}
	}
	return decl
}

func attributesFromDescription(descs []AttributeDescription, file string) []models.Attribute {
	var attrs []models.Attribute
	for _, a := range descs {
		attr := models.Attribute{Name: strings.TrimPrefix(a.Name, "@"), Location: models.Position{File: file}}
		if a.Arguments != nil {
			attr.HasParens = true
			attr.Arguments = *a.Arguments
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func describeAttributes(attrs []models.Attribute) []AttributeDescription {
	var out []AttributeDescription
	for _, a := range attrs {
		desc := AttributeDescription{Name: a.Name}
		if a.HasParens {
			args := a.Arguments
			desc.Arguments = &args
		}
		out = append(out, desc)
	}
	return out
}

func parametersFromDescription(descs []ParameterDescription, line int, canonical func(string, int) string) []models.ParameterDecl {
	params := make([]models.ParameterDecl, 0, len(descs))
	for _, d := range descs {
		first, second := d.Label, d.Name
		if first == "" {
			first, second = second, ""
		}
		params = append(params, models.ParameterDecl{
			FirstName:    first,
			SecondName:   second,
			Type:         canonical(d.Type, line),
			DefaultValue: d.Default,
		})
	}
	return params
}

func describeParameters(params []models.ParameterDecl) []ParameterDescription {
	out := make([]ParameterDescription, 0, len(params))
	for _, p := range params {
		out = append(out, ParameterDescription{Label: p.FirstName, Name: p.SecondName, Type: p.Type, Default: p.DefaultValue})
	}
	return out
}
