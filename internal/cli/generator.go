package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/generator"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/parser"
	"github.com/toyz/spyable/internal/utils"
)

// SpiesDir is the directory spies are written to when no output is configured
const SpiesDir = "Spies"

// RunOptions select what the run does with generated files
type RunOptions struct {
	Stdout bool // print generated files instead of writing them
	Check  bool // report stale files without writing
}

// GenerationSummary contains information about a completed run
type GenerationSummary struct {
	SourceFiles    int
	Declarations   int
	GeneratedFiles []string
	UnchangedFiles []string
	StaleFiles     []string
	Warnings       int
	Errors         int
	Duration       time.Duration
}

// Stats returns the summary as display statistics
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Source files": s.SourceFiles,
		"Spies":        s.Declarations,
		"Written":      len(s.GeneratedFiles),
		"Unchanged":    len(s.UnchangedFiles),
		"Warnings":     s.Warnings,
		"Errors":       s.Errors,
		"Duration":     s.Duration.Round(time.Millisecond),
	}
}

// fileResult is the outcome for one source file
type fileResult struct {
	source string
	files  []generator.GeneratedFile
	diags  *spyerrors.Diagnostics
	err    error
}

// Generator coordinates the CLI generation process
type Generator struct {
	config        *Config
	scanner       *DirectoryScanner
	reader        *utils.FileReader
	codeGenerator generator.CodeGenerator
	diagnostics   *utils.DiagnosticSystem
	reporter      *DiagnosticReporter
	stdout        io.Writer
	summary       GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(cfg *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	processor := utils.NewFileProcessor()
	wd, _ := os.Getwd()
	return &Generator{
		config:        cfg,
		scanner:       NewDirectoryScanner(processor, cfg.Exclude),
		reader:        processor.GetFileReader(),
		codeGenerator: generator.NewGenerator(cfg.GeneratorOptions()),
		diagnostics:   diagnostics,
		reporter:      NewDiagnosticReporter(diagnostics, wd, cfg.Verbose),
		stdout:        os.Stdout,
	}
}

// SetStdout redirects --stdout output
func (g *Generator) SetStdout(w io.Writer) {
	g.stdout = w
}

// Reader returns the file reader whose parse cache the generator uses
func (g *Generator) Reader() *utils.FileReader {
	return g.reader
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run scans targets and generates a spy for every @Spyable declaration found.
// Files are processed in parallel; results are reported in file order. A
// non-nil error means at least one declaration failed or a file could not
// be written.
func (g *Generator) Run(ctx context.Context, targets []string, opts RunOptions) error {
	started := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Debug("Scanning targets: %v", targets)
	sources, err := g.scanner.ScanTargets(targets)
	if err != nil {
		return err
	}
	g.summary.SourceFiles = len(sources)
	g.diagnostics.Verbose("Found %d Swift files", len(sources))

	return g.finish(started, g.process(ctx, sources), opts)
}

// RunFiles regenerates the given source files only
func (g *Generator) RunFiles(ctx context.Context, sources []string, opts RunOptions) error {
	started := time.Now()
	g.summary = GenerationSummary{SourceFiles: len(sources)}
	return g.finish(started, g.process(ctx, sources), opts)
}

// Describe generates spies from a YAML or JSON declaration description.
// Load failures are reported like generation errors.
func (g *Generator) Describe(path string, opts RunOptions) error {
	started := time.Now()
	g.summary = GenerationSummary{SourceFiles: 1}

	abs, _ := filepath.Abs(path)
	f, err := os.Open(path)
	if err != nil {
		return g.finish(started, []fileResult{{source: abs, err: spyerrors.WrapFileSystemError("open", path, err)}}, opts)
	}
	defer f.Close()

	decls, loadDiags, err := parser.LoadDescriptions(path, f)
	if err != nil {
		return g.finish(started, []fileResult{{source: abs, err: err}}, opts)
	}
	files, diags, genErr := g.codeGenerator.GenerateFile(&models.SourceFile{Path: abs, Declarations: decls})
	loadDiags.Merge(diags)

	return g.finish(started, []fileResult{{source: abs, files: files, diags: loadDiags, err: genErr}}, opts)
}

// process parses and generates every source with at most Concurrency
// workers. The result slice is indexed like sources.
func (g *Generator) process(ctx context.Context, sources []string) []fileResult {
	results := make([]fileResult, len(sources))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(g.config.Concurrency, 1))
	for i, source := range sources {
		i, source := i, source
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{source: source, err: err}
				return err
			}
			results[i] = g.processFile(source)
			return nil
		})
	}
	_ = group.Wait()
	return results
}

func (g *Generator) processFile(source string) fileResult {
	result := fileResult{source: source, diags: &spyerrors.Diagnostics{}}

	parsed, err := g.reader.ParseSwiftFile(source)
	if err != nil {
		result.err = err
		return result
	}
	result.diags.Merge(parsed.Diagnostics)
	if len(parsed.File.Declarations) == 0 {
		return result
	}

	files, diags, err := g.codeGenerator.GenerateFile(parsed.File)
	result.diags.Merge(diags)
	result.files = files
	result.err = err
	return result
}

// finish reports diagnostics and writes, prints or checks the generated files
func (g *Generator) finish(started time.Time, results []fileResult, opts RunOptions) error {
	failures := spyerrors.NewMultipleErrors()

	for _, result := range results {
		warnings, errs := g.reporter.Report(result.diags)
		g.summary.Warnings += warnings
		g.summary.Errors += errs
		if result.err != nil && errs == 0 {
			g.reporter.ReportError(result.err)
			g.summary.Errors++
		}
		if result.err != nil {
			failures.Add(asSpyableError(result.err))
		}

		for _, file := range result.files {
			g.summary.Declarations++
			if err := g.emit(result.source, file, opts); err != nil {
				g.reporter.ReportError(err)
				g.summary.Errors++
				failures.Add(asSpyableError(err))
			}
		}
	}

	g.summary.Duration = time.Since(started)
	if opts.Check && len(g.summary.StaleFiles) > 0 {
		failures.Add(spyerrors.Newf(spyerrors.GenerationErrorCode, "%d generated files are out of date", len(g.summary.StaleFiles)).
			WithSuggestion("Run 'spyable generate' and commit the result"))
	}
	return failures.ErrorOrNil()
}

func (g *Generator) emit(source string, file generator.GeneratedFile, opts RunOptions) error {
	if opts.Stdout {
		_, err := io.WriteString(g.stdout, file.Content)
		return err
	}

	path := g.OutputPath(source, file.FileName)
	existing, err := os.ReadFile(path)
	upToDate := err == nil && bytes.Equal(existing, []byte(file.Content))

	switch {
	case upToDate:
		g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, path)
		g.diagnostics.Verbose("Unchanged %s", path)
		return nil
	case opts.Check:
		g.summary.StaleFiles = append(g.summary.StaleFiles, path)
		g.reporter.ReportWarning("stale generated file "+g.reporter.relative(path), "regenerate from "+g.reporter.relative(source))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return spyerrors.WrapFileSystemError("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
		return spyerrors.WrapFileSystemError("write", path, err)
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
	g.diagnostics.PhaseProgress("Writing " + g.reporter.relative(path))
	return nil
}

// OutputPath returns where the spy generated from source is written
func (g *Generator) OutputPath(source, fileName string) string {
	if g.config.Output != "" {
		return filepath.Join(g.config.Output, fileName)
	}
	return filepath.Join(filepath.Dir(source), SpiesDir, fileName)
}

func asSpyableError(err error) spyerrors.SpyableError {
	var spyErr spyerrors.SpyableError
	if spyerrors.As(err, &spyErr) {
		return spyErr
	}
	return spyerrors.Wrap(spyerrors.GenerationErrorCode, "generation failed", err)
}
