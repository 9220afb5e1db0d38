package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output. In JSON mode
// every message is written as a zap production log entry instead.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
	logger    *zap.SugaredLogger
}

// NewDiagnosticSystem creates a new diagnostic system writing to stdout and stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(os.Stdout),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// NewJSONDiagnostics creates a diagnostic system emitting JSON log lines to w
func NewJSONDiagnostics(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zapLevel(level),
	)
	return &DiagnosticSystem{
		level:    level,
		output:   w,
		errorOut: w,
		logger:   zap.New(core).Sugar(),
	}
}

// NewBufferedDiagnostics creates an uncolored diagnostic system writing to w
func NewBufferedDiagnostics(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{level: level, output: w, errorOut: w}
}

// Level returns the configured output level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// IsJSON reports whether output is structured
func (d *DiagnosticSystem) IsJSON() bool {
	return d.logger != nil
}

// Sync flushes buffered JSON log entries
func (d *DiagnosticSystem) Sync() {
	if d.logger != nil {
		_ = d.logger.Sync()
	}
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, zapcore.ErrorLevel, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, zapcore.WarnLevel, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, zapcore.InfoLevel, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, zapcore.InfoLevel, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, zapcore.DebugLevel, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, zapcore.DebugLevel, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Finding reports one generation diagnostic with its source position and hints
func (d *DiagnosticSystem) Finding(severity, location, message string, hints []string) {
	isError := severity == "error"
	if (isError && d.level < DiagnosticError) || (!isError && d.level < DiagnosticWarn) {
		return
	}

	if d.logger != nil {
		fields := []interface{}{"severity", severity, "location", location}
		if len(hints) > 0 {
			fields = append(fields, "hints", hints)
		}
		if isError {
			d.logger.Errorw(message, fields...)
		} else {
			d.logger.Warnw(message, fields...)
		}
		return
	}

	writer, attr := d.output, color.FgYellow
	if isError {
		writer, attr = d.errorOut, color.FgRed
	}
	prefix := severity + ":"
	if d.useColors {
		prefix = paint(attr, color.Bold).Sprint(prefix)
	}
	line := d.getIndent()
	if location != "" {
		line += location + ": "
	}
	fmt.Fprintf(writer, "%s%s %s\n", line, prefix, message)
	for _, hint := range hints {
		fmt.Fprintf(writer, "%s    hint: %s\n", d.getIndent(), hint)
	}
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo && d.logger == nil {
		fmt.Fprintf(d.output, "%s\n", title)
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	message := fmt.Sprintf(format, args...)
	if d.logger != nil {
		d.logger.Info(message)
		return
	}
	fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), message)
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics in key order
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if d.logger != nil {
		fields := make([]interface{}, 0, 2*len(keys))
		for _, key := range keys {
			fields = append(fields, key, stats[key])
		}
		d.logger.Infow(title, fields...)
		return
	}

	fmt.Fprintf(d.output, "\n%s\n", title)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
	fmt.Fprintln(d.output)
}

// Header outputs the tool banner
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo && d.logger == nil {
		d.colored(color.FgCyan, "Spyable: %s\n", message)
	}
}

// PhaseHeader outputs a phase header
func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.level >= DiagnosticInfo && d.logger == nil {
		d.colored(color.FgBlue, "%s:\n", phase)
	}
}

// PhaseItem outputs a phase item with checkmark
func (d *DiagnosticSystem) PhaseItem(message string) {
	if d.level < DiagnosticInfo {
		return
	}
	if d.logger != nil {
		d.logger.Info(message)
		return
	}
	d.colored(color.FgGreen, "✓ ")
	fmt.Fprintf(d.output, "%s\n", message)
}

// PhaseProgress outputs a phase progress item
func (d *DiagnosticSystem) PhaseProgress(message string) {
	if d.level < DiagnosticInfo {
		return
	}
	if d.logger != nil {
		d.logger.Info(message)
		return
	}
	if strings.HasPrefix(message, "Writing") {
		d.colored(color.FgMagenta, "✏ ")
		fmt.Fprintf(d.output, "%s\n", message)
	} else {
		fmt.Fprintf(d.output, "- %s\n", message)
	}
}

// GenerationComplete outputs the completion message
func (d *DiagnosticSystem) GenerationComplete() {
	if d.level < DiagnosticInfo {
		return
	}
	if d.logger != nil {
		d.logger.Info("generation complete")
		return
	}
	fmt.Fprintln(d.output)
	d.colored(color.FgGreen, "Spyable: Generation complete!\n")
}

func (d *DiagnosticSystem) colored(attr color.Attribute, format string, args ...interface{}) {
	if d.useColors {
		paint(attr).Fprintf(d.output, format, args...)
		return
	}
	fmt.Fprintf(d.output, format, args...)
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(writer io.Writer, level zapcore.Level, label string, attr color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if d.logger != nil {
		switch level {
		case zapcore.ErrorLevel:
			d.logger.Error(message)
		case zapcore.WarnLevel:
			d.logger.Warn(message)
		case zapcore.InfoLevel:
			d.logger.Info(message)
		default:
			d.logger.Debug(message)
		}
		return
	}

	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	tag := "[" + label + "]"
	if d.useColors {
		tag = paint(attr).Sprint(tag)
	}
	output.WriteString(tag + " ")
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

// getIndent returns the current indentation string
func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// paint returns a color that is applied even when fatih/color's own
// terminal detection disabled output
func paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func zapLevel(level DiagnosticLevel) zapcore.Level {
	switch {
	case level >= DiagnosticVerbose:
		return zapcore.DebugLevel
	case level == DiagnosticInfo:
		return zapcore.InfoLevel
	case level == DiagnosticWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// shouldUseColors determines if colors should be used for f
func shouldUseColors(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
