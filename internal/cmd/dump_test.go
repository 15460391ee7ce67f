package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpWritesFiles(t *testing.T) {
	dir := t.TempDir()

	stdin := doc(
		"```python file=hello.py",
		`print("hi")`,
		"```",
		"",
		"```",
		"plain",
		"```",
	)

	_, stderr, err := runCapture(t, stdin, "dump", "--dir", dir)

	require.NoError(t, err)

	hello, err := os.ReadFile(filepath.Join(dir, "hello.py"))
	require.NoError(t, err)
	assert.Equal(t, "print(\"hi\")\n", string(hello))

	plain, err := os.ReadFile(filepath.Join(dir, "block_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plain\n", string(plain))

	assert.Contains(t, stderr, "wrote hello.py (12 bytes)")
	assert.Contains(t, stderr, "wrote block_1.txt (6 bytes)")
}

func TestDumpSynthesizedNames(t *testing.T) {
	dir := t.TempDir()

	stdin := doc(
		"```python",
		"a",
		"```",
		"```bash",
		"b",
		"```",
	)

	_, _, err := runCapture(t, stdin, "dump", "--dir", dir)

	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "block_0.py"))
	assert.FileExists(t, filepath.Join(dir, "block_1.sh"))
}

func TestDumpNestedPath(t *testing.T) {
	dir := t.TempDir()

	stdin := doc("```python file=pkg/util.py", "x = 1", "```")

	_, _, err := runCapture(t, stdin, "dump", "--dir", dir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "pkg", "util.py"))
}

func TestDumpFilter(t *testing.T) {
	dir := t.TempDir()

	stdin := doc(
		"```python",
		"a",
		"```",
		"```bash",
		"b",
		"```",
	)

	_, _, err := runCapture(t, stdin, "dump", "--dir", dir, "-l", "python")

	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "block_0.py", entries[0].Name())
}

func TestDumpDryRun(t *testing.T) {
	dir := t.TempDir()

	stdin := doc("```python file=hello.py", `print("hi")`, "```")

	_, stderr, err := runCapture(t, stdin, "dump", "--dir", dir, "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, stderr, "would write hello.py (12 bytes)")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDumpRejectsEscapingPaths(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "parent traversal", file: "../evil.py"},
		{name: "absolute", file: "/tmp/evil.py"},
		{name: "sneaky traversal", file: "pkg/../../evil.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdin := doc("```python file="+tt.file, "x = 1", "```")

			_, _, err := runCapture(t, stdin, "dump", "--dir", t.TempDir())

			require.ErrorIs(t, err, errUnsafePath)
		})
	}
}
