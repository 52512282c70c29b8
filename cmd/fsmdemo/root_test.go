package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	stdout, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test1")
	assert.Contains(t, stdout, "weather")
}

func TestRun(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "test1", "--log-level", "debug", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pressure: <HANDLED>\nwind: <HANDLED>\ncurrent state: s111\n")
	assert.Contains(t, stdout, `fsmdemo_fsm_transitions_total{machine="Test1",target="s111"} 1`)
	assert.Contains(t, stderr, "EVT.ENTER ==> s111")
	assert.Contains(t, stderr, "machine=Test1")
}

func TestRunQuiet(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "weather", "--fsm-level", "none")
	require.NoError(t, err)
	assert.Equal(t, "wind: <HANDLED>\nwind: <HANDLED>\ncurrent state: shelter\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run", "missing")
	assert.ErrorContains(t, err, "scenario not found")

	_, _, err = execute(t, "run", "test1", "--fsm-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestDiagram(t *testing.T) {
	stdout, _, err := execute(t, "diagram", "test1", "--fsm-level", "none")
	require.NoError(t, err)
	assert.Contains(t, stdout, "@startuml Test1\n")
	assert.Contains(t, stdout, "state s.s1.s11.s111 #LightBlue\n")
	assert.Contains(t, stdout, "s ----> s.s2 : pressure\n")
	assert.Contains(t, stdout, "s.s2.s21 ----> s.s1.s11.s111 : wind\n")
	assert.Contains(t, stdout, "[*] ----> s\n")
}

func TestRunScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - name: rain\n    inches: 1\n  - name: rain\n    inches: 4\n"), 0o600))

	stdout, _, err := execute(t, "run", "weather", "--fsm-level", "none", "--script", path)
	require.NoError(t, err)
	assert.Equal(t, "rain: <HANDLED>\nrain: <HANDLED>\ncurrent state: shelter\n", stdout)

	_, _, err = execute(t, "run", "weather", "--script", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServeErrors(t *testing.T) {
	_, _, err := execute(t, "serve", "missing")
	assert.ErrorContains(t, err, "scenario not found")

	_, _, err = execute(t, "serve", "test1", "--log-level", "loud")
	assert.Error(t, err)
}
