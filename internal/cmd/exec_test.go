package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunsPerBlock(t *testing.T) {
	stdin := doc(
		"```bash",
		"a",
		"```",
		"```bash",
		"b",
		"```",
	)

	stdout, stderr, err := runCapture(t, stdin, "exec", "--dir", t.TempDir(), "--", "echo", "hi")

	require.NoError(t, err)
	assert.Equal(t, "hi\nhi\n", stdout)
	assert.Contains(t, stderr, "--- block 0 (bash)")
	assert.Contains(t, stderr, "--- block 1 (bash)")
}

func TestExecPlaceholders(t *testing.T) {
	stdin := doc("```python", "x = 1", "```")

	stdout, _, err := runCapture(t, stdin, "exec", "--dir", t.TempDir(), "--", "echo", "{index}", "{lang}")

	require.NoError(t, err)
	assert.Equal(t, "0 python\n", stdout)
}

func TestExecWritesBlockFile(t *testing.T) {
	dir := t.TempDir()

	stdin := doc("```python", "x = 1", "```")

	_, _, err := runCapture(t, stdin, "exec", "--dir", dir, "--", "true")

	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "block_0.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(body))
}

func TestExecMetaFilenameIsIndexed(t *testing.T) {
	dir := t.TempDir()

	stdin := doc("```bash file=run.sh", "echo hi", "```")

	_, stderr, err := runCapture(t, stdin, "exec", "--dir", dir, "--", "true")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "0_run.sh"))
	assert.Contains(t, stderr, "file=run.sh")
}

func TestExecStripsBeforeRunning(t *testing.T) {
	dir := t.TempDir()

	stdin := doc("```python", "x = 1  # c", "```")

	_, _, err := runCapture(t, stdin, "exec", "--dir", dir, "-s", "--", "true")

	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "block_0.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(body))
}

func TestExecCountsFailures(t *testing.T) {
	stdin := doc(
		"```bash",
		"a",
		"```",
		"```bash",
		"b",
		"```",
	)

	_, _, err := runCapture(t, stdin, "exec", "--dir", t.TempDir(), "--", "false")

	require.EqualError(t, err, "2 block(s) failed")
}

func TestExecFilter(t *testing.T) {
	stdin := doc(
		"```python",
		"a",
		"```",
		"```bash",
		"b",
		"```",
	)

	stdout, _, err := runCapture(t, stdin, "exec", "--dir", t.TempDir(), "-l", "bash", "--", "echo", "ran")

	require.NoError(t, err)
	assert.Equal(t, "ran\n", stdout)
}

func TestExecMissingCommand(t *testing.T) {
	stdin := doc("```bash", "a", "```")

	_, _, err := runCapture(t, stdin, "exec", "--dir", t.TempDir())

	require.ErrorIs(t, err, errMissingCommand)
}
