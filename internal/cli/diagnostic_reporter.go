package cli

import (
	"path/filepath"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/utils"
)

// DiagnosticReporter prints generation findings as file:line messages with hints
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	baseDir     string // locations are shown relative to this directory when set
	verbose     bool
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, baseDir string, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{diagnostics: diagnostics, baseDir: baseDir, verbose: verbose}
}

// Report prints every diagnostic in location order and returns the number
// of warnings and errors
func (r *DiagnosticReporter) Report(diags *spyerrors.Diagnostics) (warnings, errs int) {
	if diags == nil {
		return 0, 0
	}
	diags.SortByLocation()
	for _, item := range diags.All() {
		r.finding(item.Severity.String(), item.Err)
		if item.Severity == spyerrors.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return warnings, errs
}

// ReportError prints a failure that did not come from a diagnostics pass.
// MultipleErrors are expanded into one finding each.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	var multi *spyerrors.MultipleErrors
	if spyerrors.As(err, &multi) {
		for _, e := range multi.Errors {
			r.finding("error", e)
		}
		return
	}
	r.finding("error", err)
}

// ReportWarning prints a free-standing warning
func (r *DiagnosticReporter) ReportWarning(message string, hints ...string) {
	r.diagnostics.Finding("warning", "", message, hints)
}

func (r *DiagnosticReporter) finding(severity string, err error) {
	location, message := r.split(err)
	var hints []string
	if r.verbose || severity == "error" {
		hints = spyerrors.Hints(err)
	}
	r.diagnostics.Finding(severity, location, message, hints)
	if r.verbose {
		var spyErr spyerrors.SpyableError
		if spyerrors.As(err, &spyErr) {
			r.diagnostics.Debug("code: %s", spyErr.ErrorCode())
		}
	}
}

// split separates the location prefix from an error message
func (r *DiagnosticReporter) split(err error) (string, string) {
	message := err.Error()
	var spyErr spyerrors.SpyableError
	if !spyerrors.As(err, &spyErr) || spyErr.Location().IsEmpty() {
		return "", message
	}
	loc := spyErr.Location()
	message = strings.TrimPrefix(message, loc.String()+": ")
	loc.File = r.relative(loc.File)
	return loc.String(), message
}

func (r *DiagnosticReporter) relative(path string) string {
	if r.baseDir == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	if rel, err := filepath.Rel(r.baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
