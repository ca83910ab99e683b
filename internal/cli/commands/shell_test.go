package commands

import (
	"testing"

	"github.com/leapstack-labs/sqlschema/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*shellSession, *testutil.TestRenderer) {
	tr := testutil.NewTestRendererText()
	return newShellSession(tr.Renderer), tr
}

func TestShellSession_Statements(t *testing.T) {
	sess, tr := newTestSession()
	out, errOut := tr.Out, tr.ErrOut

	assert.False(t, sess.handleLine("create table customers ("))
	assert.True(t, sess.pending())
	assert.False(t, sess.handleLine("  id int primary key"))
	assert.False(t, sess.handleLine(");"))
	assert.False(t, sess.pending())

	assert.False(t, sess.handleLine("create table orders (id int, customer_id int references customers)"))
	assert.False(t, sess.handleLine("GO"))

	require.Len(t, sess.schema.Tables, 2)
	assert.Contains(t, out.String(), "created customers (1 columns)")
	assert.Contains(t, out.String(), "created orders (2 columns)")
	assert.Contains(t, out.String(), "1 ignored spans")
	assert.Empty(t, errOut.String())
}

func TestShellSession_Errors(t *testing.T) {
	sess, tr := newTestSession()
	errOut := tr.ErrOut

	sess.handleLine("create table t (a int);")
	sess.handleLine("create table T (b int);")

	require.Len(t, sess.schema.Tables, 1)
	assert.Contains(t, errOut.String(), "stdin#2:1:")
	assert.Contains(t, errOut.String(), "already exists")
}

func TestShellSession_DotCommands(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		quit    bool
		wantOut string
		wantErr string
	}{
		{
			name:  "quit",
			lines: []string{".quit"},
			quit:  true,
		},
		{
			name:  "exit",
			lines: []string{".EXIT"},
			quit:  true,
		},
		{
			name:    "render",
			lines:   []string{"create table t (a int not null);", ".render"},
			wantOut: "CREATE TABLE t(a int NOT NULL)\n",
		},
		{
			name:    "ignored",
			lines:   []string{"use shop;", ".ignored"},
			wantOut: "stdin#1:1:\nuse shop;\n",
		},
		{
			name:    "tables",
			lines:   []string{"create table t (a int);", ".tables"},
			wantOut: "(1 tables)",
		},
		{
			name:    "columns",
			lines:   []string{"create table [My Table] (a int);", ".columns [My Table]"},
			wantOut: `"My Table"`,
		},
		{
			name:    "columns usage",
			lines:   []string{".columns"},
			wantErr: "usage: .columns <table>",
		},
		{
			name:    "resolve failure",
			lines:   []string{"create table t (a int references nowhere);", ".resolve"},
			wantErr: "nowhere not found",
		},
		{
			name:    "resolve",
			lines:   []string{"create table p (id int primary key);", "create table c (p int references p);", ".resolve"},
			wantOut: "all foreign keys resolved",
		},
		{
			name:    "reset",
			lines:   []string{"create table t (a int);", ".reset", ".tables"},
			wantOut: "(0 tables)",
		},
		{
			name:    "help",
			lines:   []string{".help"},
			wantOut: ".columns <table>",
		},
		{
			name:    "unknown",
			lines:   []string{".bogus"},
			wantErr: "unknown command: .bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, tr := newTestSession()
			out, errOut := tr.Out, tr.ErrOut

			var quit bool
			for _, line := range tt.lines {
				quit = sess.handleLine(line)
			}

			assert.Equal(t, tt.quit, quit)
			testutil.AssertNoANSI(t, tr.Output())
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestShellSession_DotLineInsideStatement(t *testing.T) {
	sess, tr := newTestSession()
	out := tr.Out

	sess.handleLine("create table t (")
	sess.handleLine(".help")

	// A line starting with '.' continues a pending statement.
	assert.True(t, sess.pending())
	assert.NotContains(t, out.String(), "Commands:")

	sess.reset()
	assert.False(t, sess.pending())
}
