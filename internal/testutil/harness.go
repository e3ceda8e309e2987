package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyard/stackplan/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an end-to-end resolution run.
type HarnessResult struct {
	LogOutput string
	PlanJSON  string
	Err       error
	App       *app.App
}

// RunResolution provides a standardized harness for end-to-end tests: it
// writes the fixture files into a temp directory, runs the app against them,
// and captures the plan and log output. File keys are paths relative to the
// temp root; templates go under "templates/", workload files under
// "workload/", and an optional bundle at "params.json".
func RunResolution(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunResolutionWithContext(context.Background(), t, files)
}

// RunResolutionWithContext is RunResolution with a caller-provided context.
func RunResolutionWithContext(ctx context.Context, t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()

	bundlePath := ""
	for relPath, content := range files {
		fullPath := filepath.Join(tmpDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
		if relPath == "params.json" {
			bundlePath = fullPath
		}
	}

	config, err := app.NewConfig(app.Config{
		WorkloadPath:  filepath.Join(tmpDir, "workload"),
		TemplatesPath: filepath.Join(tmpDir, "templates"),
		BundlePath:    bundlePath,
		LogFormat:     "text",
		LogLevel:      "debug",
	})
	require.NoError(t, err)

	var planBuf bytes.Buffer
	var logBuf SafeBuffer

	resolverApp := app.NewApp(&planBuf, &logBuf, config)
	runErr := resolverApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuf.String(),
		PlanJSON:  planBuf.String(),
		Err:       runErr,
		App:       resolverApp,
	}
}
