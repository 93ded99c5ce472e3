package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/inspect"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PLATFORM_AIRFLOW_ASSETS_DIR", filepath.Join(t.TempDir(), "missing"))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOrderCmd(t *testing.T) {
	out, err := execute(t, "--env", "staging", "order")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.Contains(t, lines[1], "vpc-staging")
}

func TestGraphCmd_UsesEnvironmentVariable(t *testing.T) {
	t.Setenv(environment.Variable, "production")
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "environment: production\n"), out)
	assert.Contains(t, out, "s3-belisco-production-data-lake-raw")
}

func TestDotCmd(t *testing.T) {
	out, err := execute(t, "-e", "develop", "dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `digraph "develop"`))
}

func TestValidateCmd_JSON(t *testing.T) {
	out, err := execute(t, "--env", "staging", "validate", "--json")
	require.NoError(t, err)

	var report inspect.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "staging", report.Environment)
	assert.Empty(t, report.Findings)
	assert.Positive(t, report.Resources)
}

func TestValidateCmd_Text(t *testing.T) {
	out, err := execute(t, "--env", "staging", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "environment: staging")
	assert.Contains(t, out, "topology is valid")
}

func TestUnknownEnvironment(t *testing.T) {
	_, err := execute(t, "--env", "qa", "graph")
	require.Error(t, err)
	assert.True(t, errors.Is(err, environment.ErrUnknownEnvironment))
}

func TestMissingEnvironment(t *testing.T) {
	t.Setenv(environment.Variable, "")
	require.NoError(t, os.Unsetenv(environment.Variable))

	_, err := execute(t, "order")
	require.Error(t, err)
	assert.True(t, errors.Is(err, environment.ErrMissingEnvironment))
}

func TestDisabledProducer(t *testing.T) {
	t.Setenv("PLATFORM_STACKS_CATALOG", "false")
	_, err := execute(t, "--env", "staging", "order")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required stack is disabled")
}
