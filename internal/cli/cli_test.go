package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/spyable/internal/utils"
)

const clockSource = `import Foundation

@Spyable
protocol Clock {
    func now() -> Date
}
`

const loaderSource = `import Foundation

@Spyable(behindPreprocessorFlag: "DEBUG")
protocol Loader {
    func load(id: Int, completion: @escaping (Result<Data, Error>) -> Void)
}
`

// writeTree creates files relative to a temporary directory and returns it
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func testConfig() *Config {
	return &Config{ThreadSafe: true, Concurrency: 2, LogFormat: "text"}
}

func bufferedDiagnostics(level utils.DiagnosticLevel) (*utils.DiagnosticSystem, *bytes.Buffer) {
	var buf bytes.Buffer
	return utils.NewBufferedDiagnostics(level, &buf), &buf
}
