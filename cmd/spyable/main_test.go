package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clockSource = `import Foundation

@Spyable
protocol Clock {
    func now() -> Date
}
`

// project creates a working directory containing files and changes into it
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return root
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, newApp(&stdout, &stderr))
	return code, stdout.String(), stderr.String()
}

func TestHelp(t *testing.T) {
	code, stdout, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Spyable generates test spies")
	assert.Contains(t, stdout, "spyable generate ./...")
	for _, sub := range []string{"generate", "describe", "clean", "watch", "support"} {
		assert.Contains(t, stdout, sub)
	}
}

func TestGenerateCommand(t *testing.T) {
	root := project(t, map[string]string{"Sources/Clock.swift": clockSource})

	code, stdout, _ := run(t, "generate", "./...")
	require.Equal(t, 0, code, stdout)
	assert.FileExists(t, filepath.Join(root, "Sources", "Spies", "ClockSpy.swift"))
	assert.Contains(t, stdout, "Generation Summary")
	assert.Contains(t, stdout, "Generation complete!")
}

func TestGenerateDefaultsToRecursiveScan(t *testing.T) {
	root := project(t, map[string]string{"Sources/App/Clock.swift": clockSource})

	code, _, _ := run(t, "generate", "--output", "Generated")
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(root, "Generated", "ClockSpy.swift"))
}

func TestGenerateCheck(t *testing.T) {
	project(t, map[string]string{"Clock.swift": clockSource})

	code, stdout, _ := run(t, "generate", "--check", ".")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "out of date")

	code, _, _ = run(t, "generate", ".")
	require.Equal(t, 0, code)

	code, stdout, _ = run(t, "generate", "--check", ".")
	assert.Equal(t, 0, code, stdout)
	assert.Contains(t, stdout, "up to date")
}

func TestGenerateStdout(t *testing.T) {
	root := project(t, map[string]string{"Clock.swift": clockSource})

	code, stdout, stderr := run(t, "generate", "--stdout", "--preprocessor-flag", "DEBUG", "Clock.swift")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "// Code generated by spyable. DO NOT EDIT.")
	assert.Contains(t, stdout, "#if DEBUG\nfinal class ClockSpy: Clock {")
	assert.NotContains(t, stdout, "Generation Summary")
	assert.NoDirExists(t, filepath.Join(root, "Spies"))
}

func TestGenerateReportsFailures(t *testing.T) {
	project(t, map[string]string{"Mode.swift": "@Spyable\nenum Mode {\n    case on\n}\n"})

	code, stdout, _ := run(t, "generate", ".")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "error: @Spyable cannot be applied to enum 'Mode'")

	code, stdout, _ = run(t, "generate", "./missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "missing")
}

func TestConfigFile(t *testing.T) {
	root := project(t, map[string]string{
		"Clock.swift":   clockSource,
		".spyable.yaml": "output: Tests/Spies\npreprocessor_flag: TESTING\n",
	})

	code, _, _ := run(t, "generate", "--quiet", ".")
	require.Equal(t, 0, code)
	content, err := os.ReadFile(filepath.Join(root, "Tests", "Spies", "ClockSpy.swift"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "#if TESTING")
}

func TestInvalidConfig(t *testing.T) {
	project(t, map[string]string{".spyable.yaml": "log_format: xml\n"})

	code, _, stderr := run(t, "generate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "log_format")
}

func TestJSONLogFormat(t *testing.T) {
	project(t, map[string]string{"Clock.swift": clockSource})

	code, _, stderr := run(t, "generate", "--log-format", "json", ".")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, `"msg":"Generation Summary"`)
}

func TestDescribeCommand(t *testing.T) {
	project(t, map[string]string{"clock.json": `{"name": "Clock", "kind": "protocol", "members": [{"kind": "function", "name": "now", "returns": "Date"}]}`})

	code, stdout, stderr := run(t, "describe", "--stdout", "clock.json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "final class ClockSpy: Clock {")

	code, _, _ = run(t, "describe")
	assert.Equal(t, 1, code)
}

func TestCleanCommand(t *testing.T) {
	root := project(t, map[string]string{"Clock.swift": clockSource})
	require.Equal(t, 0, func() int { code, _, _ := run(t, "generate"); return code }())
	spy := filepath.Join(root, "Spies", "ClockSpy.swift")
	require.FileExists(t, spy)

	code, stdout, _ := run(t, "clean", "--dry-run")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "1 generated files would be removed")
	assert.FileExists(t, spy)

	code, _, _ = run(t, "clean")
	require.Equal(t, 0, code)
	assert.NoFileExists(t, spy)
	assert.FileExists(t, filepath.Join(root, "Clock.swift"))
}

func TestSupportCommand(t *testing.T) {
	root := project(t, nil)

	code, _, _ := run(t, "support", "Tests/Support")
	require.Equal(t, 0, code)
	content, err := os.ReadFile(filepath.Join(root, "Tests", "Support", "SpyableSupport.swift"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "SpyLedger")

	code, stdout, _ := run(t, "support", "--stdout")
	require.Equal(t, 0, code)
	assert.Equal(t, string(content), stdout)
}
