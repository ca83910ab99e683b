package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlschema/internal/cli/output"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/parser"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
	"github.com/spf13/cobra"
)

const (
	shellPrompt         = "sqlschema> "
	shellContinuePrompt = "      ...> "
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [FILE|DIR...]",
		Short: "Interactive DDL shell",
		Long: `Start an interactive shell. Each statement typed, ended by ';' or a GO
line, is parsed into one schema that grows over the session. Files given
as arguments are parsed into the schema first.

Type .help for the shell commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, args)
		},
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	sess := newShellSession(cc.Renderer)
	if len(args) > 0 {
		res, err := cc.Load(cmd.Context(), args)
		if err != nil {
			return err
		}
		sess.schema = res.Schema
	}

	historyFile := ""
	if dir := filepath.Dir(cc.Cfg.Catalog); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err == nil {
			historyFile = filepath.Join(dir, "shell_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    shellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Println("sqlschema shell")
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sess.reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if sess.handleLine(line) {
			return nil
		}
		if sess.pending() {
			rl.SetPrompt(shellContinuePrompt)
		} else {
			rl.SetPrompt(shellPrompt)
		}
	}
}

// shellSession is the state of one shell: the schema built so far and the
// statement being typed.
type shellSession struct {
	r      *output.Renderer
	schema *schema.Schema
	buf    strings.Builder
	count  int
}

func newShellSession(r *output.Renderer) *shellSession {
	return &shellSession{r: r, schema: schema.New()}
}

func (s *shellSession) reset() {
	s.buf.Reset()
}

func (s *shellSession) pending() bool {
	return s.buf.Len() > 0
}

// handleLine processes one input line and reports whether the shell should
// exit.
func (s *shellSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" && !s.pending() {
		return false
	}

	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.handleDotCommand(trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')

	if !strings.HasSuffix(trimmed, ";") && !strings.EqualFold(trimmed, "go") {
		return false
	}

	text := s.buf.String()
	s.buf.Reset()
	s.execute(text)
	return false
}

// execute parses one statement into the session schema.
func (s *shellSession) execute(text string) {
	s.count++
	file := fmt.Sprintf("stdin#%d", s.count)

	tables := len(s.schema.Tables)
	ignored := len(s.schema.Ignored)
	if err := parser.Parse(file, text, s.schema); err != nil {
		s.r.Error(err)
		return
	}

	for _, t := range s.schema.Tables[tables:] {
		s.r.Success(fmt.Sprintf("created %s (%d columns)", format.Name(t.Name), len(t.Columns)))
	}
	if n := len(s.schema.Ignored) - ignored; n > 0 {
		s.r.Muted(fmt.Sprintf("%d ignored spans", n))
	}
}

func (s *shellSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.r)

	case ".tables":
		if err := renderTables(s.r, s.schema); err != nil {
			s.r.Error(err)
		}

	case ".columns":
		if len(parts) < 2 {
			s.r.Warning("usage: .columns <table>")
			return false
		}
		if err := s.columns(strings.Join(parts[1:], " ")); err != nil {
			s.r.Error(err)
		}

	case ".render":
		s.r.Print(s.schema.Render())

	case ".ignored":
		s.r.Print(s.schema.IgnoredText())

	case ".resolve":
		if err := s.schema.Resolve(); err != nil {
			s.r.Error(err)
			return false
		}
		s.r.Success("all foreign keys resolved")

	case ".reset":
		s.schema = schema.New()
		s.count = 0
		s.r.Success("schema cleared")

	default:
		s.r.Warning(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (s *shellSession) columns(name string) error {
	qn, err := parser.ParseName(name)
	if err != nil {
		return err
	}
	t, err := s.schema.GetTable(token.Location{File: "stdin"}, qn)
	if err != nil {
		return err
	}
	return renderColumns(s.r, t)
}

// shellCompleter completes dot-commands.
func shellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".columns"),
		readline.PcItem(".render"),
		readline.PcItem(".ignored"),
		readline.PcItem(".resolve"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func printShellHelp(r *output.Renderer) {
	r.Print(`
Commands:
  .help             Show this help message
  .tables           List the tables parsed so far
  .columns <table>  Show the columns of a table
  .render           Print every table as CREATE TABLE
  .ignored          Print the text that was not interpreted
  .resolve          Resolve foreign keys against the schema
  .reset            Start over with an empty schema
  .quit / .exit     Exit the shell

Statements end with ';' or a line holding only GO.

`)
}
