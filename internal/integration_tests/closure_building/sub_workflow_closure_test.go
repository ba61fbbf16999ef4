package integration_tests

import (
	"testing"

	"github.com/specialistvlad/gridclosure/internal/app"
	"github.com/specialistvlad/gridclosure/internal/artifact"
	"github.com/specialistvlad/gridclosure/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Definitions are spread over several files and directories on purpose.
var nestedFiles = map[string]string{
	"tasks/tasks.hcl": `
task "extract" { type = "python-task" }
task "transform" { type = "python-task" }
task "load" { type = "sql" }
task "unused" { type = "sql" }
`,
	"workflows/leaf.hcl": `
workflow "leaf" {
  node "n0" { task = "load" }
}
`,
	"workflows/middle.hcl": `
workflow "middle" {
  node "n0" { task = "transform" }
  node "n1" { sub_workflow = "leaf" }
  node "n2" { sub_workflow = "leaf" }
}
`,
	"main.hcl": `
workflow "main" {
  node "n0" { task = "extract" }
  node "n1" {
    sub_workflow = "middle"
    bind "x" { promise = n0.out }
  }
}

launch_plan "main-lp" { workflow = "main" }
`,
}

// TestClosureBuilding_ClosureFollowsEveryLevel verifies that workflows reachable through
// several levels of sub-workflow nodes are all registered together with the
// tasks any of them run.
func TestClosureBuilding_ClosureFollowsEveryLevel(t *testing.T) {
	t.Parallel()

	r := runClosure(t, nestedFiles, func(c *app.Config) {
		c.Project, c.Domain, c.Version = "p", "d", "v1"
	})

	require.NoError(t, r.Err)
	assert.Equal(t, []string{
		"0_extract_1.pb",
		"0_leaf_2.pb",
		"0_main-lp_3.pb",
		"1_load_1.pb",
		"1_main_2.pb",
		"2_middle_2.pb",
		"2_transform_1.pb",
		artifact.ManifestFilename,
	}, testutil.ListDir(t, r.OutDir))
	assert.Equal(t, 3, r.Result.Workflows)
	assert.Equal(t, 3, r.Result.Tasks)
	assert.Equal(t, 1, r.Result.LaunchPlans)
}

// TestClosureBuilding_ClosureIsReproducible verifies that two runs over the same definitions
// write byte-identical artifacts.
func TestClosureBuilding_ClosureIsReproducible(t *testing.T) {
	t.Parallel()

	tweak := func(c *app.Config) {
		c.Project, c.Domain, c.Version = "p", "d", "v1"
		c.TaskDefaults = `{ retries = 3, image = "base", labels = { a = "1", b = "2" } }`
	}
	first := runClosure(t, nestedFiles, tweak)
	second := runClosure(t, nestedFiles, tweak)
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	names := testutil.ListDir(t, first.OutDir)
	require.Equal(t, names, testutil.ListDir(t, second.OutDir))
	for _, name := range names {
		assert.Equal(t, readArtifact(t, first.OutDir, name), readArtifact(t, second.OutDir, name), name)
	}
}

// TestClosureBuilding_SubWorkflowCycleWarns verifies that a reference cycle is reported but
// does not stop registration unless strict cycle checking is enabled.
func TestClosureBuilding_SubWorkflowCycleWarns(t *testing.T) {
	t.Parallel()

	files := map[string]string{"main.hcl": `
defaults {
  project = "p"
  domain  = "d"
  version = "v"
}

workflow "a" {
  node "n" { sub_workflow = "b" }
}

workflow "b" {
  node "n" { sub_workflow = "a" }
}

launch_plan "lp" { workflow = "a" }
`}

	t.Run("lenient", func(t *testing.T) {
		r := runClosure(t, files, nil)
		require.NoError(t, r.Err)
		assert.Contains(t, r.LogOutput, "Sub-workflow reference cycle found.")
		assert.Equal(t, 2, r.Result.Workflows)
	})

	t.Run("strict", func(t *testing.T) {
		r := runClosure(t, files, func(c *app.Config) { c.StrictCycles = true })
		assert.ErrorContains(t, r.Err, "cycle detected: p:d:a:v -> p:d:b:v -> p:d:a:v")
	})
}
