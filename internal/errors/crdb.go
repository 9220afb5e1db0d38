package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Error wrapping and inspection across package boundaries.
// Generator error kinds are built with New/Wrap above; these helpers cover
// plain errors coming from the file system and third-party libraries.
var (
	Errorf    = crdb.Newf
	WrapPlain = crdb.Wrap
)

// User-facing hints
var (
	WithHint    = crdb.WithHint
	GetAllHints = crdb.GetAllHints
)

// Error inspection
var (
	Is = crdb.Is
	As = crdb.As
)

// Hints returns the suggestions carried anywhere in err's chain, both from
// SpyableError values and from cockroachdb hint wrappers.
func Hints(err error) []string {
	var hints []string
	var spyErr SpyableError
	if As(err, &spyErr) {
		hints = append(hints, spyErr.Suggestions()...)
	}
	return append(hints, GetAllHints(err)...)
}
