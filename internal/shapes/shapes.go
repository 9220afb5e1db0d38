// Package shapes extracts component types from Result-, Publisher- and
// closure-shaped type text. Detection is purely textual: a type merely named
// Result or ending in Publisher matches whatever it refers to.
package shapes

import (
	"strings"

	"github.com/toyz/spyable/internal/models"
)

const (
	resultMarker = "Result<"
	streamMarker = "Publisher<"

	// DefaultSuccess and DefaultFailure are returned when no Result shape is found
	DefaultSuccess = "Any"
	DefaultFailure = "Error"

	// DefaultOutput and NeverFailure are returned when no stream shape is found
	DefaultOutput = "Any"
	NeverFailure  = "Never"
)

// ExtractResultShape returns the success and failure types of a Result shape.
// Closure text is unwrapped to its parameter clause first, so
// "(Result<String, NetworkError>) -> Void" yields (String, NetworkError).
func ExtractResultShape(typeText string) models.ResultShape {
	defaults := models.ResultShape{Success: DefaultSuccess, Failure: DefaultFailure}

	segment := typeText
	if looksLikeClosure(typeText) {
		if inner, ok := firstParenGroup(typeText); ok && strings.Contains(inner, resultMarker) {
			segment = inner
		}
	}

	args, ok := genericArguments(segment, resultMarker)
	if !ok || len(args) == 0 || args[0] == "" {
		return defaults
	}

	shape := models.ResultShape{Success: args[0], Failure: DefaultFailure, Found: true}
	if len(args) > 1 && args[1] != "" {
		shape.Failure = args[1]
	}
	return shape
}

// ExtractStreamShape returns the output and failure types of a Publisher shape.
// The first marker occurrence is matched to its balanced closing bracket so
// wrappers around the publisher do not leak into the split.
func ExtractStreamShape(typeText string) models.StreamShape {
	defaults := models.StreamShape{Output: DefaultOutput, Failure: NeverFailure}

	args, ok := genericArguments(typeText, streamMarker)
	if !ok || len(args) == 0 || args[0] == "" {
		return defaults
	}

	shape := models.StreamShape{Output: args[0], Failure: NeverFailure, Found: true}
	if len(args) > 1 && args[1] != "" {
		shape.Failure = args[1]
	}
	return shape
}

// IsStreamType reports whether the text contains the stream marker
func IsStreamType(typeText string) bool {
	return strings.Contains(typeText, streamMarker)
}

// IsResultType reports whether the text contains the Result marker
func IsResultType(typeText string) bool {
	return strings.Contains(typeText, resultMarker)
}

// genericArguments finds marker in text and splits the bracketed argument
// list on top-level commas. ok is false when the marker is absent or its
// bracket never closes.
func genericArguments(text, marker string) ([]string, bool) {
	start := strings.Index(text, marker)
	if start < 0 {
		return nil, false
	}
	body := text[start+len(marker):]

	end := matchingAngle(body)
	if end < 0 {
		return nil, false
	}
	return SplitTopLevel(body[:end], ','), true
}

// matchingAngle returns the index of the '>' closing a bracket opened just
// before s, or -1. The '>' of an arrow does not count.
func matchingAngle(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '-':
			if i+1 < len(s) && s[i+1] == '>' {
				i++
			}
		case '>':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// SplitTopLevel splits s on sep outside any (), [], <> nesting and trims each part
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' && i+1 < len(s) && s[i+1] == '>':
			i++
		case c == '(' || c == '[' || c == '<':
			depth++
		case c == ')' || c == ']' || c == '>':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[last:i]))
			last = i + 1
		}
	}
	tail := strings.TrimSpace(s[last:])
	if tail != "" || len(parts) > 0 {
		parts = append(parts, tail)
	}
	return parts
}

func looksLikeClosure(text string) bool {
	return strings.HasPrefix(StripTypeAttributes(text), "(") && strings.Contains(text, "->")
}

// firstParenGroup returns the text inside the first balanced parenthesis pair
func firstParenGroup(text string) (string, bool) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return "", false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[open+1 : i], true
			}
		}
	}
	return "", false
}
