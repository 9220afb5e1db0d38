package errors

import (
	"fmt"
	"sort"
	"strings"
)

// AnnotationError represents an invalid @Spyable attribute
type AnnotationError struct {
	*BaseError
	Argument string // offending argument label, empty when the attribute itself is malformed
}

// NewAnnotationSyntaxError reports attribute arguments that do not parse
func NewAnnotationSyntaxError(text string, loc SourceLocation, cause error) *AnnotationError {
	err := &AnnotationError{
		BaseError: Wrap(AnnotationErrorCode, fmt.Sprintf("invalid @Spyable arguments '%s'", text), cause),
	}
	err.WithLocation(loc)
	err.WithSuggestion(`Expected a form like @Spyable(behindPreprocessorFlag: "DEBUG", accessLevel: .public)`)
	return err
}

// NewUnknownArgumentError reports an argument label the attribute does not accept
func NewUnknownArgumentError(label string, known []string, loc SourceLocation) *AnnotationError {
	err := &AnnotationError{
		BaseError: Newf(AnnotationErrorCode, "unknown @Spyable argument '%s'", label),
		Argument:  label,
	}
	err.WithLocation(loc)

	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	if suggestion := closestMatch(label, sorted); suggestion != "" {
		err.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", suggestion))
	}
	err.WithSuggestion("Valid arguments: " + strings.Join(sorted, ", "))
	return err
}

// NewArgumentValueError reports an argument whose value has the wrong form
func NewArgumentValueError(label, expected, actual string, loc SourceLocation) *AnnotationError {
	err := &AnnotationError{
		BaseError: Newf(AnnotationErrorCode, "@Spyable argument '%s' expects %s, got %s", label, expected, actual),
		Argument:  label,
	}
	err.WithLocation(loc)
	err.WithContext("expected", expected)
	err.WithContext("actual", actual)
	return err
}

// closestMatch returns the candidate sharing the longest case-insensitive prefix with s
func closestMatch(s string, candidates []string) string {
	best, bestLen := "", 2
	lower := strings.ToLower(s)
	for _, c := range candidates {
		lc := strings.ToLower(c)
		n := 0
		for n < len(lower) && n < len(lc) && lower[n] == lc[n] {
			n++
		}
		if n > bestLen {
			best, bestLen = c, n
		}
	}
	return best
}
