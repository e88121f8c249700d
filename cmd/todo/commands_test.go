// cmd/todo/commands_test.go
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--file", file}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// firstID returns the short id printed at the start of the first task line
func firstID(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		for _, f := range fields {
			if len(f) == shortIDLen && !strings.ContainsAny(f, "[]#") {
				return f
			}
		}
	}
	t.Fatalf("no task id in %q", output)
	return ""
}

func TestCLI_Workflow(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.json")

	out, err := run(t, file, "add", "Buy", "milk", "-t", "shopping, home", "-p", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "#shopping")

	_, err = run(t, file, "add", "Read book", "-p", "low")
	require.NoError(t, err)

	out, err = run(t, file, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Buy milk")
	assert.Contains(t, lines[1], "Read book")

	out, err = run(t, file, "list", "--tag", "HOME")
	require.NoError(t, err)
	assert.NotContains(t, out, "Read book")

	out, err = run(t, file, "list", "--tag", "shopping")
	require.NoError(t, err)
	id := firstID(t, out)

	out, err = run(t, file, "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "[x]")

	out, err = run(t, file, "edit", id, "--title", "Buy oat milk", "--tags", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy oat milk")
	assert.NotContains(t, out, "#shopping")

	out, err = run(t, file, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total:     2")
	assert.Contains(t, out, "completed: 1")

	out, err = run(t, file, "list", "-s", "pending")
	require.NoError(t, err)
	assert.NotContains(t, out, "Buy oat milk")

	out, err = run(t, file, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1")

	out, err = run(t, file, "list")
	require.NoError(t, err)
	id = firstID(t, out)

	out, err = run(t, file, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, err = run(t, file, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestCLI_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.json")

	_, err := run(t, file, "add", "   ")
	assert.Error(t, err)

	_, err = run(t, file, "add", "x", "-p", "urgent")
	assert.Error(t, err)

	_, err = run(t, file, "toggle", "ffffffff")
	assert.Error(t, err)

	_, err = run(t, file, "list", "-s", "later")
	assert.Error(t, err)

	_, err = run(t, file, "add", "x")
	require.NoError(t, err)
	out, err := run(t, file, "list")
	require.NoError(t, err)
	_, err = run(t, file, "edit", firstID(t, out))
	assert.Error(t, err)
}
