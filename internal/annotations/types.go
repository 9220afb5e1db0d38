package annotations

import (
	"fmt"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
)

// ValueKind is the syntactic form of an attribute argument value
type ValueKind int

const (
	StringValue ValueKind = iota // "DEBUG"
	MemberValue                  // .public
	BoolValue                    // true
	IdentValue                   // DEBUG
)

// String returns the string representation of the value kind
func (k ValueKind) String() string {
	switch k {
	case StringValue:
		return "string literal"
	case MemberValue:
		return "member reference"
	case BoolValue:
		return "boolean"
	case IdentValue:
		return "identifier"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// AccessLevel is the access modifier applied to the generated companion
type AccessLevel string

const (
	AccessDefault     AccessLevel = ""
	AccessPublic      AccessLevel = "public"
	AccessPackage     AccessLevel = "package"
	AccessInternal    AccessLevel = "internal"
	AccessFileprivate AccessLevel = "fileprivate"
)

// Keyword returns the modifier as written in Swift, empty for the default level
func (a AccessLevel) Keyword() string {
	if a == AccessInternal {
		return ""
	}
	return string(a)
}

// ParseAccessLevel converts a member reference such as ".public" to an AccessLevel
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch level := AccessLevel(strings.TrimPrefix(s, ".")); level {
	case AccessPublic, AccessPackage, AccessInternal, AccessFileprivate:
		return level, nil
	default:
		return AccessDefault, spyerrors.WithHint(spyerrors.Errorf("unknown access level '%s'", s),
			"Valid access levels: .public, .package, .internal, .fileprivate")
	}
}

// Value is a decoded argument value
type Value struct {
	Kind ValueKind
	Text string // unquoted for strings, without the leading dot for members
}

// String renders the value back in Swift syntax
func (v Value) String() string {
	switch v.Kind {
	case StringValue:
		return fmt.Sprintf("%q", v.Text)
	case MemberValue:
		return "." + v.Text
	default:
		return v.Text
	}
}

// Argument is one labeled or positional attribute argument
type Argument struct {
	Label string // empty for positional arguments
	Value Value
}

// Options are the decoded @Spyable arguments
type Options struct {
	PreprocessorFlag string
	AccessLevel      AccessLevel
}
