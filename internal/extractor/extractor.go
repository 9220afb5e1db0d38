package extractor

import (
	"fmt"
	"regexp"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/shapes"
)

var (
	intLiteral    = regexp.MustCompile(`^-?[0-9][0-9_]*$`)
	doubleLiteral = regexp.MustCompile(`^-?[0-9][0-9_]*\.[0-9][0-9_]*([eE][-+]?[0-9]+)?$`)
)

// Extractor normalizes a declaration's members into a models.Signature
type Extractor struct {
	decl  *models.Declaration
	diags *spyerrors.Diagnostics
}

// Extract walks the declaration's members in source order. Problems that stop
// generation are reported as errors in the returned diagnostics; skipped
// members are reported as warnings.
func Extract(decl *models.Declaration) (models.Signature, *spyerrors.Diagnostics) {
	e := &Extractor{decl: decl, diags: &spyerrors.Diagnostics{}}
	if !e.validateDeclaration() {
		return models.Signature{}, e.diags
	}

	var sig models.Signature
	for _, member := range decl.Members {
		switch member.Kind {
		case models.MemberFunction:
			if method, ok := e.method(member); ok {
				sig.Methods = append(sig.Methods, method)
			}
		case models.MemberInitializer:
			if initializer, ok := e.initializer(member); ok {
				sig.Initializers = append(sig.Initializers, initializer)
			}
		case models.MemberProperty:
			prop, ok := e.property(member)
			if !ok {
				continue
			}
			if decl.Kind == models.DeclarationClass {
				if prop.IsObserved {
					sig.ObservedProperties = append(sig.ObservedProperties, prop)
				}
				continue
			}
			sig.Properties = append(sig.Properties, prop)
		default:
			e.other(member)
		}
	}

	e.checkDuplicates(sig.Methods)
	return sig, e.diags
}

func (e *Extractor) validateDeclaration() bool {
	loc := e.decl.Location.SourceLocation()
	if !e.decl.Kind.IsSpyable() {
		err := spyerrors.NewInputShapeError(e.decl.Name, e.decl.Kind.String())
		err.WithLocation(loc)
		e.diags.Fail(err)
		return false
	}
	if strings.TrimSpace(e.decl.Name) == "" {
		err := spyerrors.NewInputShapeError("", e.decl.Kind.String())
		err.WithLocation(loc)
		e.diags.Fail(err)
		return false
	}
	if e.decl.Kind == models.DeclarationClass && e.decl.HasModifier("final") {
		err := spyerrors.NewInputShapeError(e.decl.Name, "final class")
		err.WithLocation(loc)
		err.WithSuggestion("Annotate a protocol the class conforms to instead")
		e.diags.Fail(err)
		return false
	}
	return true
}

func (e *Extractor) unsupported(member models.Member, name, reason string) {
	err := spyerrors.NewUnsupportedMemberError(e.decl.Name, name, reason)
	err.WithLocation(member.Location.SourceLocation())
	e.diags.Warn(err)
}

func (e *Extractor) method(member models.Member) (models.MethodModel, bool) {
	fn := member.Function
	if strings.TrimSpace(fn.Name) == "" {
		err := &spyerrors.ValidationError{
			BaseError:   spyerrors.Newf(spyerrors.InputShapeErrorCode, "method in '%s' has no name", e.decl.Name),
			Declaration: e.decl.Name,
		}
		err.WithLocation(member.Location.SourceLocation())
		e.diags.Fail(err)
		return models.MethodModel{}, false
	}
	if isTypeMember(fn.Modifiers) {
		e.unsupported(member, fn.Name, "static and class methods are not recorded")
		return models.MethodModel{}, false
	}
	if e.decl.Kind == models.DeclarationClass && models.HasModifier(fn.Modifiers, "final") {
		e.unsupported(member, fn.Name, "final methods cannot be overridden")
		return models.MethodModel{}, false
	}
	if fn.GenericParameters != "" {
		e.unsupported(member, fn.Name, "generic methods cannot be recorded in a non-generic State")
		return models.MethodModel{}, false
	}

	if e.decl.Kind == models.DeclarationStruct && strings.HasPrefix(fn.ReturnType, "some ") {
		e.unsupported(member, fn.Name, "opaque return types cannot be stubbed")
		return models.MethodModel{}, false
	}

	method := models.MethodModel{
		Name:              fn.Name,
		ReturnType:        fn.ReturnType,
		IsAsynchronous:    fn.Effects.Async,
		IsThrowing:        fn.Effects.IsThrowing(),
		IsPrivate:         isPrivate(fn.Modifiers),
		CompletionIndex:   -1,
		GenericParameters: fn.GenericParameters,
		WhereClause:       fn.WhereClause,
		Modifiers:         fn.Modifiers,
		Attributes:        fn.Attributes,
		HasBody:           fn.HasBody,
		Location:          member.Location,
	}
	if method.ReturnType == "" {
		method.ReturnType = models.VoidType
	}

	params := parameters(fn.Parameters)
	var demoted []string
	for i, param := range params {
		if !shapes.IsEscapingClosure(param.Type) {
			continue
		}
		if method.CompletionParameter == nil {
			completion := param
			method.CompletionParameter = &completion
			method.CompletionIndex = i
			continue
		}
		demoted = append(demoted, param.InternalName)
	}
	for i, param := range params {
		if i != method.CompletionIndex {
			method.Parameters = append(method.Parameters, param)
		}
	}

	if len(demoted) > 0 {
		err := spyerrors.NewAmbiguousCompletionError(e.decl.Name, fn.Name, method.CompletionParameter.InternalName, demoted)
		err.WithLocation(member.Location.SourceLocation())
		e.diags.Warn(err)
	}
	return method, true
}

func (e *Extractor) initializer(member models.Member) (models.InitializerModel, bool) {
	decl := member.Initializer
	switch {
	case e.decl.Kind == models.DeclarationProtocol:
		e.unsupported(member, "init", "protocol initializer requirements are not synthesized")
		return models.InitializerModel{}, false
	case models.HasModifier(decl.Modifiers, "convenience"):
		e.unsupported(member, "convenience init", "convenience initializers are inherited, not mirrored")
		return models.InitializerModel{}, false
	case decl.GenericParameters != "":
		e.unsupported(member, "init", "generic initializers are not mirrored")
		return models.InitializerModel{}, false
	}

	return models.InitializerModel{
		Parameters: parameters(decl.Parameters),
		IsThrowing: decl.Effects.IsThrowing(),
		IsAsync:    decl.Effects.Async,
		IsRequired: models.HasModifier(decl.Modifiers, "required"),
		Failable:   decl.Failable,
		Modifiers:  decl.Modifiers,
		Location:   member.Location,
	}, true
}

func (e *Extractor) property(member models.Member) (models.PropertyModel, bool) {
	prop := member.Property
	if isTypeMember(prop.Modifiers) {
		e.unsupported(member, prop.Name, "static and class properties are not recorded")
		return models.PropertyModel{}, false
	}

	model := models.PropertyModel{
		Name:         prop.Name,
		Type:         prop.Type,
		IsReadOnly:   !prop.HasSetter(),
		IsConstant:   prop.IsConstant,
		DefaultValue: prop.DefaultValue,
		Location:     member.Location,
	}

	switch e.decl.Kind {
	case models.DeclarationProtocol:
		if model.Type == "" {
			e.unsupported(member, prop.Name, "protocol property has no type annotation")
			return models.PropertyModel{}, false
		}
	case models.DeclarationClass:
		_, published := models.FindAttribute(prop.Attributes, "Published")
		if !published || !prop.IsStored() || prop.IsConstant || isPrivate(prop.Modifiers) {
			return model, true
		}
		if model.Type == "" {
			model.Type = inferLiteralType(prop.DefaultValue)
		}
		if model.Type == "" {
			e.unsupported(member, prop.Name, "cannot observe a @Published property without a type annotation")
			return models.PropertyModel{}, false
		}
		model.IsObserved = true
	case models.DeclarationStruct:
		if !prop.IsStored() {
			return models.PropertyModel{}, false
		}
		if model.Type == "" {
			model.Type = inferLiteralType(prop.DefaultValue)
		}
		if model.Type == "" {
			e.unsupported(member, prop.Name, "stored property has no type annotation")
			return models.PropertyModel{}, false
		}
	}
	return model, true
}

// other warns about members a spy would need but cannot provide; nested
// types and the rest are skipped silently
func (e *Extractor) other(member models.Member) {
	switch member.Keyword {
	case "subscript":
		e.unsupported(member, "subscript", "subscripts are not recorded")
	case "associatedtype":
		e.unsupported(member, member.Description, "protocols with associated types cannot be spied")
	}
}

func (e *Extractor) checkDuplicates(methods []models.MethodModel) {
	byName := make(map[string][]models.MethodModel)
	var order []string
	for _, m := range methods {
		if _, seen := byName[m.Name]; !seen {
			order = append(order, m.Name)
		}
		byName[m.Name] = append(byName[m.Name], m)
	}

	for _, name := range order {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		signatures := make([]string, 0, len(group))
		for _, m := range group {
			signatures = append(signatures, m.Signature())
		}
		err := spyerrors.NewDuplicateMethodError(e.decl.Name, name, signatures)
		err.WithLocation(group[1].Location.SourceLocation())
		e.diags.Fail(err)
	}
}

// parameters applies Swift's two-name scheme
func parameters(decls []models.ParameterDecl) []models.ParameterModel {
	params := make([]models.ParameterModel, 0, len(decls))
	for i, d := range decls {
		param := models.ParameterModel{
			ExternalName: d.FirstName,
			InternalName: d.FirstName,
			Type:         d.Type,
			DefaultValue: d.DefaultValue,
		}
		if d.SecondName != "" {
			param.InternalName = d.SecondName
		}
		if param.ExternalName == "_" {
			param.ExternalName = ""
		}
		if param.InternalName == "_" || param.InternalName == "" {
			param.InternalName = fmt.Sprintf("arg%d", i)
		}
		params = append(params, param)
	}
	return params
}

func isPrivate(modifiers []string) bool {
	return models.HasModifier(modifiers, "private") || models.HasModifier(modifiers, "fileprivate")
}

func isTypeMember(modifiers []string) bool {
	return models.HasModifier(modifiers, "static") || models.HasModifier(modifiers, "class")
}

// inferLiteralType covers the literal initializers Swift infers without context
func inferLiteralType(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case value == "true" || value == "false":
		return "Bool"
	case intLiteral.MatchString(value):
		return "Int"
	case doubleLiteral.MatchString(value):
		return "Double"
	case strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2:
		return "String"
	default:
		return ""
	}
}
