package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlschema/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "sqlschema", cmd.Use)
	for _, flag := range []string{"config", "verbose", "format", "output-dir", "concurrency", "include", "catalog", "resolve"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{
		"version", "parse", "tables", "columns", "ignored", "export",
		"catalog", "serve", "watch", "shell", "completion",
	})
}

func TestRootCmd_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ddl"), []byte("create table a (x int);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sql"), []byte("create table b (y int);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlschema.yaml"), []byte("format: yaml\ninclude: [\"*.ddl\"]\n"), 0o600))

	// The config file selects yaml output and *.ddl files.
	out, _, err := execRoot(t, "tables", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "name: a")
	assert.NotContains(t, out, "name: b")

	// Flags override the file.
	out, _, err = execRoot(t, "tables", "--format", "json", "--include", "*.sql", ".")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "b"`)
	assert.NotContains(t, out, `"name": "a"`)
}

func TestRootCmd_VerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sql"), []byte("create table a (x int);"), 0o600))

	_, errOut, err := execRoot(t, "-v", "tables", "a.sql")
	require.NoError(t, err)
	assert.Contains(t, errOut, "schema loaded")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execRoot(t, "--concurrency", "0", "tables", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be at least 1")
}

func TestCompletionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "sqlschema")
		})
	}

	_, _, err := execRoot(t, "completion", "tcsh")
	require.Error(t, err)
}
