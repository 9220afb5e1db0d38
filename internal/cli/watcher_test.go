package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/spyable/internal/utils"
)

func newTestWatcher(t *testing.T, cfg *Config) *Watcher {
	t.Helper()
	diagnostics, _ := bufferedDiagnostics(utils.DiagnosticSilent)
	w, err := NewWatcher(NewGenerator(cfg, diagnostics), diagnostics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	w.SetDebounce(20 * time.Millisecond)
	return w
}

func TestWatcherRelevant(t *testing.T) {
	cfg := testConfig()
	cfg.Exclude = []string{"*Tests.swift"}
	cfg.Output = "/project/Generated"
	w := newTestWatcher(t, cfg)

	assert.True(t, w.relevant("/project/App/Clock.swift"))
	assert.False(t, w.relevant("/project/App/Clock.h"))
	assert.False(t, w.relevant("/project/App/ClockTests.swift"))
	assert.False(t, w.relevant("/project/App/Spies/ClockSpy.swift"))
	assert.False(t, w.relevant("/project/Generated/ClockSpy.swift"))
}

func TestWatcherRegeneratesChangedFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"Clock.swift": "import Foundation\n"})
	w := newTestWatcher(t, testConfig())
	require.NoError(t, w.Add([]string{root}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "Clock.swift"), []byte(clockSource), 0o644))
	spy := filepath.Join(root, "Spies", "ClockSpy.swift")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(spy)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Network"), 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Network", "Loader.swift"), []byte(loaderSource), 0o644))
	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(root, "Network", "Spies", "LoaderSpy.swift"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, w.Runs(), 2)
}
