package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/utils"
)

func TestRunWritesSpiesNextToSources(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Clock.swift":          clockSource,
		"Network/Loader.swift": loaderSource,
		"Plain.swift":          "struct Plain {}\n",
	})
	diagnostics, out := bufferedDiagnostics(utils.DiagnosticInfo)
	gen := NewGenerator(testConfig(), diagnostics)

	require.NoError(t, gen.Run(context.Background(), []string{root + "/..."}, RunOptions{}))

	summary := gen.GetSummary()
	assert.Equal(t, 3, summary.SourceFiles)
	assert.Equal(t, 2, summary.Declarations)
	assert.Equal(t, []string{
		filepath.Join(root, "Spies", "ClockSpy.swift"),
		filepath.Join(root, "Network", "Spies", "LoaderSpy.swift"),
	}, summary.GeneratedFiles)
	assert.Zero(t, summary.Errors)

	content, err := os.ReadFile(filepath.Join(root, "Network", "Spies", "LoaderSpy.swift"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), utils.GeneratedHeader+"\n// Source: Loader.swift\n"))
	assert.Contains(t, string(content), "#if DEBUG")
	assert.Contains(t, out.String(), "Writing")

	generated, err := utils.IsGenerated(filepath.Join(root, "Spies", "ClockSpy.swift"))
	require.NoError(t, err)
	assert.True(t, generated)
}

func TestRunIsIdempotent(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": clockSource})
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticError)
	gen := NewGenerator(testConfig(), diagnostics)

	require.NoError(t, gen.Run(context.Background(), []string{root}, RunOptions{}))
	require.Len(t, gen.GetSummary().GeneratedFiles, 1)

	require.NoError(t, gen.Run(context.Background(), []string{root + "/..."}, RunOptions{}))
	summary := gen.GetSummary()
	assert.Empty(t, summary.GeneratedFiles)
	assert.Len(t, summary.UnchangedFiles, 1)
	assert.Equal(t, 1, summary.SourceFiles)
}

func TestRunConfiguredOutput(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": clockSource})
	cfg := testConfig()
	cfg.Output = filepath.Join(root, "Tests", "Generated")
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticSilent)
	gen := NewGenerator(cfg, diagnostics)

	require.NoError(t, gen.Run(context.Background(), []string{root}, RunOptions{}))
	assert.FileExists(t, filepath.Join(cfg.Output, "ClockSpy.swift"))
	assert.Equal(t, filepath.Join(cfg.Output, "LoaderSpy.swift"), gen.OutputPath("/src/Loader.swift", "LoaderSpy.swift"))
}

func TestRunStdout(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": clockSource})
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticSilent)
	gen := NewGenerator(testConfig(), diagnostics)
	var stdout bytes.Buffer
	gen.SetStdout(&stdout)

	require.NoError(t, gen.Run(context.Background(), []string{root}, RunOptions{Stdout: true}))
	assert.Contains(t, stdout.String(), "final class ClockSpy: Clock {")
	assert.NoDirExists(t, filepath.Join(root, "Spies"))
}

func TestRunCheckReportsStaleFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": clockSource})
	diagnostics, out := bufferedDiagnostics(utils.DiagnosticWarn)
	gen := NewGenerator(testConfig(), diagnostics)

	err := gen.Run(context.Background(), []string{root}, RunOptions{Check: true})
	require.Error(t, err)
	assert.Len(t, gen.GetSummary().StaleFiles, 1)
	assert.NoFileExists(t, filepath.Join(root, "Spies", "ClockSpy.swift"))
	assert.Contains(t, out.String(), "stale generated file")

	require.NoError(t, gen.Run(context.Background(), []string{root}, RunOptions{}))
	require.NoError(t, gen.Run(context.Background(), []string{root}, RunOptions{Check: true}))
	assert.Empty(t, gen.GetSummary().StaleFiles)
}

func TestRunReportsDeclarationErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Clock.swift": clockSource,
		"Mode.swift":  "@Spyable\nenum Mode {\n    case on\n}\n",
	})
	diagnostics, out := bufferedDiagnostics(utils.DiagnosticWarn)
	gen := NewGenerator(testConfig(), diagnostics)

	err := gen.Run(context.Background(), []string{root}, RunOptions{})
	require.Error(t, err)
	assert.Equal(t, spyerrors.InputShapeErrorCode, spyerrors.CodeOf(err))

	summary := gen.GetSummary()
	assert.Equal(t, 1, summary.Errors)
	assert.Len(t, summary.GeneratedFiles, 1)
	assert.Contains(t, out.String(), "error: @Spyable cannot be applied to")
	assert.Contains(t, out.String(), "hint: Apply @Spyable to a protocol, class or struct")
}

func TestRunReportsSyntaxErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Broken.swift": "@Spyable\nprotocol Broken {\n    func a()\n",
		"Clock.swift":  clockSource,
	})
	diagnostics, out := bufferedDiagnostics(utils.DiagnosticError)
	gen := NewGenerator(testConfig(), diagnostics)

	err := gen.Run(context.Background(), []string{root}, RunOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, gen.GetSummary().Errors)
	assert.Len(t, gen.GetSummary().GeneratedFiles, 1)
	assert.Contains(t, out.String(), "Broken.swift")
}

func TestRunCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": clockSource})
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticSilent)
	gen := NewGenerator(testConfig(), diagnostics)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, gen.Run(ctx, []string{root}, RunOptions{}))
	assert.Empty(t, gen.GetSummary().GeneratedFiles)
}

func TestDescribe(t *testing.T) {
	root := writeTree(t, map[string]string{
		"clock.yaml": `name: Clock
kind: protocol
members:
  - kind: function
    name: now
    returns: Date
`,
	})
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticSilent)
	gen := NewGenerator(testConfig(), diagnostics)
	var stdout bytes.Buffer
	gen.SetStdout(&stdout)

	require.NoError(t, gen.Describe(filepath.Join(root, "clock.yaml"), RunOptions{Stdout: true}))
	assert.Contains(t, stdout.String(), "// Source: clock.yaml")
	assert.Contains(t, stdout.String(), "final class ClockSpy: Clock {")
	assert.Equal(t, 1, gen.GetSummary().Declarations)

	assert.Error(t, gen.Describe(filepath.Join(root, "missing.yaml"), RunOptions{}))
}

func TestSummaryStats(t *testing.T) {
	stats := GenerationSummary{SourceFiles: 3, Declarations: 2, GeneratedFiles: []string{"a"}, Warnings: 1}.Stats()
	assert.Equal(t, 3, stats["Source files"])
	assert.Equal(t, 1, stats["Written"])
	assert.Equal(t, 1, stats["Warnings"])
}
