package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticLevels(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticWarn, &buf)

	d.Info("hidden")
	d.Warn("careful %d", 1)
	d.Error("broken")

	assert.Equal(t, "[WARN] careful 1\n[ERROR] broken\n", buf.String())
}

func TestDiagnosticSilent(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticSilent, &buf)

	d.Error("broken")
	d.Finding("error", "A.swift:1:1", "bad", nil)
	assert.Empty(t, buf.String())
}

func TestDiagnosticFinding(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &buf)

	d.Indent()
	d.Finding("warning", "Service.swift:4:5", "method 'load' has 2 escaping closure parameters", []string{"use one callback"})
	d.Unindent()
	d.Finding("error", "", "no name", nil)

	assert.Equal(t, "  Service.swift:4:5: warning: method 'load' has 2 escaping closure parameters\n"+
		"      hint: use one callback\n"+
		"error: no name\n", buf.String())
}

func TestDiagnosticSummaryIsSorted(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &buf)

	d.Summary("Done", map[string]interface{}{"written": 2, "files": 3, "errors": 0})
	assert.Equal(t, "\nDone\n   errors: 0\n   files: 3\n   written: 2\n\n", buf.String())
}

func TestDiagnosticProgress(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &buf)

	d.Header("Generating spies")
	d.PhaseHeader("Scanning")
	d.PhaseItem("2 declarations")
	d.PhaseProgress("Writing ServiceSpy.swift")
	d.PhaseProgress("Skipping Clock")
	d.List("item")

	assert.Equal(t, "Spyable: Generating spies\nScanning:\n✓ 2 declarations\n✏ Writing ServiceSpy.swift\n- Skipping Clock\n- item\n", buf.String())
}

func TestJSONDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	d := NewJSONDiagnostics(DiagnosticInfo, &buf)
	require.True(t, d.IsJSON())

	d.Info("scanning %s", "Sources")
	d.Verbose("hidden at info level")
	d.Finding("warning", "A.swift:2:1", "collision", []string{"rename"})
	d.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "scanning Sources", entry["msg"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "A.swift:2:1", entry["location"])
	assert.Equal(t, []interface{}{"rename"}, entry["hints"])
}
