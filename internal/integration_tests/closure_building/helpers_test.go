package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridclosure/internal/app"
	"github.com/specialistvlad/gridclosure/internal/hcl_adapter"
	"github.com/specialistvlad/gridclosure/internal/testutil"
	"github.com/stretchr/testify/require"
)

// runResult holds the outcome of one end-to-end run.
type runResult struct {
	Result    *app.Result
	Err       error
	LogOutput string
	OutDir    string
}

// runClosure writes files, runs the app over them with cfg layered on top of
// sensible defaults and returns what happened.
func runClosure(t *testing.T, files map[string]string, tweak func(*app.Config)) *runResult {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	c := app.Config{
		Paths:    []string{dir},
		OutDir:   filepath.Join(t.TempDir(), "out"),
		LogLevel: "debug",
	}
	if tweak != nil {
		tweak(&c)
	}
	cfg, err := app.NewConfig(c)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	loader := hcl_adapter.NewLoader(hcl_adapter.Defaults{Project: cfg.Project, Domain: cfg.Domain, Version: cfg.Version})
	res, err := app.NewApp(logs, cfg, loader).Run(context.Background())
	return &runResult{Result: res, Err: err, LogOutput: logs.String(), OutDir: cfg.OutDir}
}

func readArtifact(t *testing.T, dir, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return b
}
