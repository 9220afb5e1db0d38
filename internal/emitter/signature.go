package emitter

import (
	"strings"

	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/shapes"
)

// keptAttributes are copied from the source member to its spy implementation
var keptAttributes = map[string]bool{
	"discardableResult": true,
	"MainActor":         true,
	"available":         true,
	"objc":              true,
}

// indexParameter is the trailing parameter of every invocation helper
const indexParameter = "at index: Int = 0"

func attributes(attrs []models.Attribute) []string {
	var out []string
	for _, a := range attrs {
		if keptAttributes[a.Name] {
			out = append(out, a.String())
		}
	}
	return out
}

func effects(async, throws bool) string {
	var b strings.Builder
	if async {
		b.WriteString(" async")
	}
	if throws {
		b.WriteString(" throws")
	}
	return b.String()
}

func parameterList(params []models.ParameterModel) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Declaration())
	}
	return out
}

// forwardArguments renders the call arguments passing each parameter through
func forwardArguments(params []models.ParameterModel) string {
	args := make([]string, 0, len(params))
	for _, p := range params {
		value := p.InternalName
		if strings.HasPrefix(strings.TrimSpace(shapes.StripTypeAttributes(p.Type)), "inout ") {
			value = "&" + value
		}
		if p.ExternalName != "" {
			value = p.ExternalName + ": " + value
		}
		args = append(args, value)
	}
	return strings.Join(args, ", ")
}

// stubType is the declared type of a stubbed return value. Non-optional types
// become implicitly unwrapped so an unset stub traps on use.
func stubType(returnType string) string {
	t := strings.TrimSpace(returnType)
	if strings.HasSuffix(t, "?") || strings.HasSuffix(t, "!") {
		return shapes.StorageType(t)
	}
	if shapes.IsFunctionType(t) || strings.Contains(t, "&") ||
		strings.HasPrefix(t, "any ") || strings.HasPrefix(t, "some ") {
		return "(" + t + ")!"
	}
	return t + "!"
}

// tupleType renders the labeled tuple recorded for a multi-parameter call
func tupleType(params []models.ParameterModel) string {
	fields := make([]string, 0, len(params))
	for _, p := range params {
		fields = append(fields, p.InternalName+": "+shapes.StorageType(p.Type))
	}
	return "(" + strings.Join(fields, ", ") + ")"
}

// tupleValue renders the labeled tuple built from the parameters in scope
func tupleValue(params []models.ParameterModel) string {
	fields := make([]string, 0, len(params))
	for _, p := range params {
		fields = append(fields, p.InternalName+": "+p.InternalName)
	}
	return "(" + strings.Join(fields, ", ") + ")"
}

func isVoid(t string) bool {
	switch strings.TrimSpace(t) {
	case "", models.VoidType, "()":
		return true
	}
	return false
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
