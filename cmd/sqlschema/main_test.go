// Package main provides tests for the sqlschema CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlschema/internal/cli"
	"github.com/leapstack-labs/sqlschema/internal/cli/config"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Join(wd, "..", "..", "testdata", "ddl")
}

// run executes the root command in an empty working directory so no
// config file is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlschema v"+cli.Version)
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, expected := range []string{"parse", "tables", "columns", "ignored", "export", "catalog", "serve", "watch", "shell"} {
		assert.Contains(t, out, expected)
	}
}

func TestTablesCommandJSON(t *testing.T) {
	td := testdataDir(t)

	out, err := run(t, "tables", "--format", "json", filepath.Join(td, "shop"))
	require.NoError(t, err)

	var tables []schema.TableInfo
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "customers", tables[0].Name)
	assert.Equal(t, "orders", tables[1].Name)
	assert.Len(t, tables[1].Columns, 4)
	assert.Equal(t, "timestamp with timezone", tables[1].Columns[3].Type)
}

func TestExportDialects(t *testing.T) {
	td := testdataDir(t)

	out, err := run(t, "export", "-f", "json", filepath.Join(td, "dialects"))
	require.NoError(t, err)

	var doc schema.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	var names []string
	for _, table := range doc.Tables {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"products", `dbo."Order Lines"`}, names)
	assert.NotEmpty(t, doc.Ignored)
}

func TestParseCommandOutputDir(t *testing.T) {
	td := testdataDir(t)
	outDir := t.TempDir()

	_, err := run(t, "parse", "--output-dir", outDir, filepath.Join(td, "shop", "01_customers.sql"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "01_customers-ignored.sql"))
	assert.FileExists(t, filepath.Join(outDir, "01_customers-roundtrip.sql"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "tables", "--format", "xml", testdataDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
