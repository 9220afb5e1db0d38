package errors

import (
	"fmt"
	"strings"
)

// ValidationError represents a declaration that cannot be turned into a spy as written
type ValidationError struct {
	*BaseError
	Declaration string // declaration the error belongs to
	Member      string // member name, empty for declaration-level errors
}

// NewInputShapeError reports a declaration kind or shape the generator does not support
func NewInputShapeError(declaration, kind string) *ValidationError {
	message := fmt.Sprintf("@Spyable cannot be applied to %s '%s'", kind, declaration)
	if declaration == "" {
		message = fmt.Sprintf("@Spyable %s has no name", kind)
	}

	err := &ValidationError{
		BaseError:   New(InputShapeErrorCode, message),
		Declaration: declaration,
	}
	err.WithContext("kind", kind)
	err.WithSuggestion("Apply @Spyable to a protocol, class or struct")
	return err
}

// NewDuplicateMethodError reports two methods sharing one name, which would collide in the State enum
func NewDuplicateMethodError(declaration, method string, signatures []string) *ValidationError {
	message := fmt.Sprintf("method '%s' is declared %d times in '%s'", method, len(signatures), declaration)

	err := &ValidationError{
		BaseError:   New(DuplicateMethodErrorCode, message),
		Declaration: declaration,
		Member:      method,
	}
	err.WithContext("signatures", signatures)
	err.WithSuggestion(fmt.Sprintf("Rename the overloads of '%s'; spies key recorded calls by method name", method))
	if len(signatures) > 0 {
		err.WithSuggestion("Conflicting signatures: " + strings.Join(signatures, ", "))
	}
	return err
}

// NewAmbiguousCompletionError reports a method with more than one escaping closure parameter
func NewAmbiguousCompletionError(declaration, method, chosen string, others []string) *ValidationError {
	message := fmt.Sprintf("method '%s' has %d escaping closure parameters; using '%s' as the completion",
		method, len(others)+1, chosen)

	err := &ValidationError{
		BaseError:   New(AmbiguousCompletionErrorCode, message),
		Declaration: declaration,
		Member:      method,
	}
	err.WithContext("completion", chosen)
	err.WithContext("demoted", others)
	err.WithSuggestion(fmt.Sprintf("'%s' are recorded as ordinary arguments", strings.Join(others, "', '")))
	return err
}

// NewUnsupportedMemberError reports a member that is skipped during generation
func NewUnsupportedMemberError(declaration, member, reason string) *ValidationError {
	message := fmt.Sprintf("skipping '%s' in '%s': %s", member, declaration, reason)

	return &ValidationError{
		BaseError:   New(UnsupportedMemberErrorCode, message),
		Declaration: declaration,
		Member:      member,
	}
}

// NewUtilityRenamedError reports a spy utility renamed because a source
// member already uses its name
func NewUtilityRenamedError(declaration, name, renamed string) *ValidationError {
	message := fmt.Sprintf("'%s' is already a member of '%s'; the spy utility is emitted as '%s'",
		name, declaration, renamed)

	err := &ValidationError{
		BaseError:   New(NameCollisionErrorCode, message),
		Declaration: declaration,
		Member:      name,
	}
	err.WithContext("name", name)
	err.WithContext("renamed", renamed)
	return err
}

// NewNameCollisionError reports a derived name claimed by more than one source
func NewNameCollisionError(declaration, name string, claimants []string) *ValidationError {
	message := fmt.Sprintf("'%s' would be declared by %s; using method-qualified names",
		name, strings.Join(claimants, " and "))

	err := &ValidationError{
		BaseError:   New(NameCollisionErrorCode, message),
		Declaration: declaration,
	}
	err.WithContext("name", name)
	err.WithContext("claimants", claimants)
	return err
}
