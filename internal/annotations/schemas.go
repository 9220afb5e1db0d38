package annotations

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
)

// ParameterSpec defines one argument accepted by an attribute
type ParameterSpec struct {
	Kinds       []ValueKind // accepted value forms
	Expected    string      // human readable form used in errors
	Description string
	Validator   func(Value) error
	Apply       func(*Options, Value) error
}

// AnnotationSchema defines the arguments an attribute accepts
type AnnotationSchema struct {
	Name        string
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}

var flagPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SpyableSchema defines the schema for @Spyable
var SpyableSchema = AnnotationSchema{
	Name:        "Spyable",
	Description: "Generates a <Name>Spy test double for a protocol, class or struct",
	Parameters: map[string]ParameterSpec{
		"behindPreprocessorFlag": {
			Kinds:       []ValueKind{StringValue},
			Expected:    "a string literal",
			Description: "Wraps the generated companion in #if FLAG ... #endif",
			Validator: func(v Value) error {
				if !flagPattern.MatchString(v.Text) {
					return spyerrors.WithHint(spyerrors.Errorf("'%s' is not a valid compilation condition", v.Text),
						"A condition is a single identifier such as DEBUG or TESTING")
				}
				return nil
			},
			Apply: func(o *Options, v Value) error {
				o.PreprocessorFlag = v.Text
				return nil
			},
		},
		"accessLevel": {
			Kinds:       []ValueKind{MemberValue},
			Expected:    "one of .public, .package, .internal, .fileprivate",
			Description: "Access modifier for the generated companion",
			Apply: func(o *Options, v Value) error {
				level, err := ParseAccessLevel(v.Text)
				if err != nil {
					return err
				}
				o.AccessLevel = level
				return nil
			},
		},
	},
	Examples: []string{
		"@Spyable",
		`@Spyable(behindPreprocessorFlag: "DEBUG")`,
		"@Spyable(accessLevel: .public)",
		`@Spyable(behindPreprocessorFlag: "TESTING", accessLevel: .package)`,
	},
}

// ParameterNames returns the accepted argument labels in sorted order
func (s AnnotationSchema) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode parses and validates an attribute against the schema.
// Every invalid argument is reported; the returned options hold the valid ones.
func (s AnnotationSchema) Decode(attr models.Attribute) (Options, error) {
	var opts Options
	loc := attr.Location.SourceLocation()
	if !attr.HasParens {
		return opts, nil
	}

	args, err := ParseArguments(attr.Arguments)
	if err != nil {
		return opts, spyerrors.NewAnnotationSyntaxError(attr.Arguments, loc, err)
	}

	errs := spyerrors.NewMultipleErrors()
	seen := make(map[string]bool)
	for _, arg := range args {
		label := arg.Label
		if label == "" {
			label = "_"
		}
		spec, ok := s.Parameters[label]
		if !ok {
			errs.Add(spyerrors.NewUnknownArgumentError(label, s.ParameterNames(), loc))
			continue
		}
		if seen[label] {
			dup := &spyerrors.AnnotationError{
				BaseError: spyerrors.Newf(spyerrors.AnnotationErrorCode, "duplicate @Spyable argument '%s'", label),
				Argument:  label,
			}
			dup.WithLocation(loc)
			errs.Add(dup)
			continue
		}
		seen[label] = true

		if !acceptsKind(spec.Kinds, arg.Value.Kind) {
			errs.Add(spyerrors.NewArgumentValueError(label, spec.Expected, arg.Value.String(), loc))
			continue
		}
		if spec.Validator != nil {
			if err := spec.Validator(arg.Value); err != nil {
				errs.Add(valueError(label, spec, arg.Value, loc, err))
				continue
			}
		}
		if err := spec.Apply(&opts, arg.Value); err != nil {
			errs.Add(valueError(label, spec, arg.Value, loc, err))
		}
	}
	if len(errs.Errors) == 1 {
		return opts, errs.Errors[0]
	}
	return opts, errs.ErrorOrNil()
}

// Describe returns a usage summary for help output
func (s AnnotationSchema) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s: %s\n", s.Name, s.Description)
	for _, name := range s.ParameterNames() {
		spec := s.Parameters[name]
		fmt.Fprintf(&b, "  %s: %s (%s)\n", name, spec.Description, spec.Expected)
	}
	b.WriteString("Examples:\n")
	for _, ex := range s.Examples {
		fmt.Fprintf(&b, "  %s\n", ex)
	}
	return b.String()
}

func acceptsKind(kinds []ValueKind, kind ValueKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func valueError(label string, spec ParameterSpec, v Value, loc spyerrors.SourceLocation, cause error) *spyerrors.AnnotationError {
	err := spyerrors.NewArgumentValueError(label, spec.Expected, v.String(), loc)
	err.WithCause(cause)
	return err
}

// Parse decodes @Spyable arguments
func Parse(attr models.Attribute) (Options, error) {
	return SpyableSchema.Decode(attr)
}
