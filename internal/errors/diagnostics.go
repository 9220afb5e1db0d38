package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks a diagnostic produced while generating a spy
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single finding attached to a declaration
type Diagnostic struct {
	Severity Severity
	Err      SpyableError
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Err.Error())
}

// Diagnostics collects the findings for one generation pass.
// Errors abort generation of the declaration, warnings do not.
type Diagnostics struct {
	items []Diagnostic
}

// Warn records a warning
func (d *Diagnostics) Warn(err SpyableError) {
	d.items = append(d.items, Diagnostic{Severity: SeverityWarning, Err: err})
}

// Fail records an error
func (d *Diagnostics) Fail(err SpyableError) {
	d.items = append(d.items, Diagnostic{Severity: SeverityError, Err: err})
}

// Merge appends every diagnostic from other
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.items = append(d.items, other.items...)
}

// All returns diagnostics in recording order
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Warnings returns the warning diagnostics
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

// Errors returns the error diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

// HasErrors reports whether any error was recorded
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors()) > 0
}

// HasCode reports whether any diagnostic carries the given code
func (d *Diagnostics) HasCode(code ErrorCode) bool {
	for _, item := range d.items {
		if item.Err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// Err returns the recorded errors as a MultipleErrors, or nil when there are none
func (d *Diagnostics) Err() error {
	errs := NewMultipleErrors()
	for _, item := range d.Errors() {
		errs.Add(item.Err)
	}
	return errs.ErrorOrNil()
}

// SortByLocation orders diagnostics by file and line, keeping recording order for ties
func (d *Diagnostics) SortByLocation() {
	sort.SliceStable(d.items, func(i, j int) bool {
		a, b := d.items[i].Err.Location(), d.items[j].Err.Location()
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// String renders one diagnostic per line
func (d *Diagnostics) String() string {
	lines := make([]string, 0, len(d.items))
	for _, item := range d.items {
		lines = append(lines, item.Error())
	}
	return strings.Join(lines, "\n")
}

func (d *Diagnostics) filter(severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Severity == severity {
			out = append(out, item)
		}
	}
	return out
}
