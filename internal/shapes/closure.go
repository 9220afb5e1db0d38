package shapes

import "strings"

// ClosureShape is the parameter and return types of a function type
type ClosureShape struct {
	Parameters []string
	Return     string
	Throws     bool
	Async      bool
	Found      bool
}

// typeAttributes are stripped when a closure type is reused as a generic argument
var typeAttributes = []string{"@escaping", "@Sendable", "@MainActor", "@autoclosure"}

// StripTypeAttributes removes leading attributes such as @escaping so the type
// can be used as a generic argument or stored
func StripTypeAttributes(typeText string) string {
	text := strings.TrimSpace(typeText)
	for {
		trimmed := false
		for _, attr := range typeAttributes {
			if strings.HasPrefix(text, attr) {
				text = strings.TrimSpace(text[len(attr):])
				trimmed = true
			}
		}
		if !trimmed {
			return text
		}
	}
}

// IsEscapingClosure reports the completion-parameter marker: an escaping
// attribute and a function arrow in the same type text
func IsEscapingClosure(typeText string) bool {
	return strings.Contains(typeText, "@escaping") && strings.Contains(typeText, "->")
}

// IsFunctionType reports whether the text is a function type at top level
func IsFunctionType(typeText string) bool {
	text := StripTypeAttributes(typeText)
	if strings.HasSuffix(text, "?") || strings.HasSuffix(text, "!") {
		inner := strings.TrimSpace(text[:len(text)-1])
		if group, ok := firstParenGroup(inner); ok && "("+group+")" == inner {
			return IsFunctionType(group)
		}
	}
	_, ok := topLevelArrow(text)
	return ok
}

// ExtractClosureShape parses "(A, B) async throws -> R" into its components
func ExtractClosureShape(typeText string) ClosureShape {
	text := StripTypeAttributes(typeText)

	arrow, ok := topLevelArrow(text)
	if !ok {
		return ClosureShape{}
	}
	params := strings.TrimSpace(text[:arrow])
	shape := ClosureShape{Return: strings.TrimSpace(text[arrow+2:]), Found: true}

	for {
		switch {
		case strings.HasSuffix(params, " throws"):
			shape.Throws = true
			params = strings.TrimSpace(strings.TrimSuffix(params, " throws"))
			continue
		case strings.HasSuffix(params, " async"):
			shape.Async = true
			params = strings.TrimSpace(strings.TrimSuffix(params, " async"))
			continue
		}
		break
	}

	if group, ok := firstParenGroup(params); ok {
		params = group
	}
	parts := SplitTopLevel(params, ',')
	if len(parts) == 1 && (parts[0] == "" || parts[0] == "Void") {
		return shape
	}
	for _, p := range parts {
		shape.Parameters = append(shape.Parameters, stripClosureLabel(p))
	}
	return shape
}

// IsComparable reports whether values of the type can take part in the
// generated State equality. Function types and existentials are excluded.
func IsComparable(typeText string) bool {
	text := StripTypeAttributes(strings.TrimSuffix(strings.TrimSpace(typeText), "..."))
	if strings.Contains(text, "->") {
		return false
	}
	base := strings.TrimRight(text, "?!")
	switch base {
	case "Any", "AnyObject", "Error", "any Error", "(any Error)":
		return false
	}
	return !strings.HasPrefix(base, "any ") && !strings.HasPrefix(base, "(any ")
}

// stripClosureLabel drops "_ name:" labels written in closure parameter lists
func stripClosureLabel(param string) string {
	parts := SplitTopLevel(param, ':')
	if len(parts) == 2 && !strings.ContainsAny(parts[0], "([<") {
		return parts[1]
	}
	return param
}

// topLevelArrow returns the index of the first "->" outside brackets
func topLevelArrow(text string) (int, bool) {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '<':
			depth++
		case ')', ']':
			depth--
		case '>':
			depth--
		case '-':
			if i+1 < len(text) && text[i+1] == '>' {
				if depth == 0 {
					return i, true
				}
				i++
			}
		}
	}
	return 0, false
}

// typeSpecifiers are parameter-only ownership markers that cannot appear in a stored type
var typeSpecifiers = []string{"inout ", "borrowing ", "consuming ", "__owned ", "__shared "}

// StorageType converts a parameter type to the type of a stored copy of its
// value: attributes and ownership specifiers are dropped and a variadic T...
// becomes [T]. An implicitly unwrapped T! is stored as T?.
func StorageType(paramType string) string {
	text := StripTypeAttributes(paramType)
	for _, spec := range typeSpecifiers {
		text = strings.TrimSpace(strings.TrimPrefix(text, spec))
	}
	text = StripTypeAttributes(text)
	if strings.HasSuffix(text, "...") {
		return "[" + strings.TrimSpace(strings.TrimSuffix(text, "...")) + "]"
	}
	if strings.HasSuffix(text, "!") {
		return strings.TrimSuffix(text, "!") + "?"
	}
	return text
}

// IsStorable reports whether a parameter's value may be kept after the call
// returns. Non-escaping closures may not; optional closures are implicitly escaping.
func IsStorable(paramType string) bool {
	text := strings.TrimSpace(paramType)
	if strings.Contains(text, "@escaping") {
		return true
	}
	stripped := StripTypeAttributes(text)
	if strings.HasSuffix(stripped, "?") || strings.HasSuffix(stripped, "!") {
		return true
	}
	_, isFunction := topLevelArrow(stripped)
	return !isFunction
}
