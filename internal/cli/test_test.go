package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const passingScenario = `name: sum
description: two plus two
session_id: sum-1
steps:
  - press: "2 + 2 ="
    expect:
      display: "4"
      case: Resolved
`

const failingScenario = `name: wrong
description: expects the wrong sum
steps:
  - press: "2 + 2 ="
    expect:
      display: "5"
`

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTest_HarnessScenarios(t *testing.T) {
	out, _, err := execute(t, nil, "test", harnessScenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ chaining")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	out, _, err := execute(t, nil, "--format", "json", "test", harnessScenarios, "--filter", "divide*")
	require.NoError(t, err)

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "divide_by_zero", filepath.Base(strings.TrimSuffix(result.Scenarios[0].File, ".yaml")))
	assert.True(t, result.Scenarios[0].Pass)
}

func TestTest_Failure(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "ok", passingScenario)
	writeScenario(t, dir, "wrong", failingScenario)

	out, _, err := execute(t, nil, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Scenarios[1].Errors[0], `display = "4", expected "5"`)
}

func TestTest_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nsteps: [\n")

	out, _, err := execute(t, nil, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "sum", passingScenario)

	out, _, err := execute(t, nil, "test", dir, "--update")
	require.NoError(t, err, out)

	golden := filepath.Join(dir, "golden", "sum.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"sum-1"`)

	_, _, err = execute(t, nil, "test", dir)
	require.NoError(t, err)

	// A changed scenario no longer matches its golden trace.
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(passingScenario, "2 + 2 =", "2 + 2 = =", 1)), 0o644))
	out, _, err = execute(t, nil, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestTest_NoScenarios(t *testing.T) {
	out, _, err := execute(t, nil, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, nil, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_Watch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "sum", passingScenario)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"test", dir, "--watch"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, buf.String(), "✓ sum")
}
