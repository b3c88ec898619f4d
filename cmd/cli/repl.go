package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/nickyhof/RecordDB"
	"github.com/nickyhof/RecordDB/config"
	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/db"
)

const (
	prompt             = "recorddb> "
	continuationPrompt = "   ...> "
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var verbs = []string{"CREATE", "INSERT", "DELETE", "SELECT", "READ_FROM", "SAVE_AS"}

// CLI holds the shell state
type CLI struct {
	instance    *RecordDB.Instance
	database    *db.AnyDatabase
	out         io.Writer
	errOut      io.Writer
	historyFile string

	// first line of a CREATE waiting for its FIELDS line
	pending string
}

func newCLI(cfg *config.Config, logger *slog.Logger, out, errOut io.Writer) (*CLI, error) {
	instance, err := RecordDB.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	database, err := instance.Database()
	if err != nil {
		return nil, err
	}
	return &CLI{
		instance:    instance,
		database:    database,
		out:         out,
		errOut:      errOut,
		historyFile: cfg.HistoryFile,
	}, nil
}

func (cli *CLI) prompt() string {
	if cli.pending != "" {
		return continuationPrompt
	}
	return prompt
}

func (cli *CLI) runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cli.historyFile,
		AutoComplete:    cli.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cli.out, "RecordDB v%s (%s keys)\n", Version, cli.database.KeyKind())
	_, _ = fmt.Fprintln(cli.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cli.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			cli.pending = ""
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		if quit := cli.handleLine(line); quit {
			return nil
		}
		rl.SetPrompt(cli.prompt())
	}
}

// runLines feeds piped input through the same line handling as the REPL.
func (cli *CLI) runLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if quit := cli.handleLine(scanner.Text()); quit {
			return nil
		}
	}
	if cli.pending != "" {
		cli.printError(fmt.Errorf("%w: CREATE without FIELDS at end of input", core.ErrParse))
		cli.pending = ""
	}
	return scanner.Err()
}

// runScript replays a session file with READ_FROM. Unlike interactive input,
// a failure is returned so the process exits non-zero.
func (cli *CLI) runScript(path string) error {
	result, err := cli.database.ExecuteCommand("READ_FROM " + strconv.Quote(path))
	if err != nil {
		return err
	}
	result.Display(cli.out)
	return nil
}

// handleLine processes one line of input and reports whether the shell
// should exit.
func (cli *CLI) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if cli.pending != "" {
		text := cli.pending + "\n" + line
		cli.pending = ""
		cli.execute(text)
		return false
	}

	if strings.HasPrefix(line, ".") {
		return cli.handleDotCommand(line)
	}

	if db.NeedsContinuation(line) {
		cli.pending = line
		return false
	}

	cli.execute(line)
	return false
}

func (cli *CLI) execute(text string) {
	result, err := cli.database.ExecuteCommand(text)
	if err != nil {
		cli.printError(err)
		return
	}
	result.Display(cli.out)
}

func (cli *CLI) printError(err error) {
	message := "✗ " + err.Error()
	if kind := core.KindName(err); kind != "" {
		message = "✗ " + kind + ": " + err.Error()
	}
	_, _ = fmt.Fprintln(cli.errOut, errorStyle.Render(message))
}

func (cli *CLI) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit", ".q":
		_, _ = fmt.Fprintln(cli.out, successStyle.Render("Goodbye!"))
		return true

	case ".help", ".h":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cli.errOut, errorStyle.Render("Usage: .schema <table>"))
			return false
		}
		info, err := cli.database.DescribeTable(parts[1])
		if err != nil {
			cli.printError(err)
			return false
		}
		_, _ = fmt.Fprintln(cli.out, info.String())

	case ".transcript":
		transcript := cli.database.Transcript()
		if len(transcript) == 0 {
			_, _ = fmt.Fprintln(cli.out, mutedStyle.Render("No commands executed"))
			return false
		}
		for i, text := range transcript {
			_, _ = fmt.Fprintf(cli.out, "%3d  %s\n", i+1, strings.ReplaceAll(text, "\n", "\n     "))
		}

	case ".history":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cli.errOut, errorStyle.Render("Usage: .history <repo:path>"))
			return false
		}
		cli.showHistory(parts[1])

	case ".clear":
		_, _ = fmt.Fprint(cli.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintln(cli.errOut, errorStyle.Render(
			fmt.Sprintf("Unknown command: %s (type .help for commands)", command)))
	}

	return false
}

func (cli *CLI) showTables() {
	names := cli.database.TableNames()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(cli.out, mutedStyle.Render("No tables"))
		return
	}

	data := db.NewTable(cli.out)
	data.Header([]string{"Table", "Key", "Fields", "Records"})
	for _, name := range names {
		info, err := cli.database.DescribeTable(name)
		if err != nil {
			continue
		}
		data.Row([]string{name, info.KeyField, info.Schema.String(), strconv.Itoa(info.Records)})
	}
	data.Render()
}

func (cli *CLI) showHistory(path string) {
	history, err := cli.instance.History(path)
	if err != nil {
		cli.printError(err)
		return
	}
	if len(history) == 0 {
		_, _ = fmt.Fprintln(cli.out, mutedStyle.Render("No revisions of "+path))
		return
	}

	data := db.NewTable(cli.out)
	data.Header([]string{"Revision", "When", "Author"})
	for _, transaction := range history {
		data.Row([]string{transaction.Short(), transaction.When.Format("2006-01-02 15:04:05"), transaction.Author})
	}
	data.Render()
}

func (cli *CLI) printHelp() {
	help := `
  .help             Show this help message
  .tables           List tables
  .schema <table>   Show the CREATE command for a table
  .transcript       Show the commands SAVE_AS would write
  .history <path>   List archive revisions of a repo: session file
  .clear            Clear the screen
  .quit / .exit     Exit the shell
`
	commands := `
  CREATE <table> KEY <field>
  FIELDS <field>: <Bool|String|Int|Float>, ...
  INSERT <field> = <literal>, ... INTO <table>
  DELETE <key> FROM <table>
  SELECT <field>, ... FROM <table> [WHERE <expr>] [ORDER_BY <field>, ...] [LIMIT <n>]
  READ_FROM <path>
  SAVE_AS <path>
`
	_, _ = fmt.Fprintln(cli.out, headingStyle.Render("Special Commands:"))
	_, _ = fmt.Fprintln(cli.out, strings.TrimPrefix(help, "\n"))
	_, _ = fmt.Fprintln(cli.out, headingStyle.Render("Commands:"))
	_, _ = fmt.Fprintln(cli.out, strings.TrimPrefix(commands, "\n"))
}

// completer completes verbs, dot-commands and, after .schema, the current
// table names.
func (cli *CLI) completer() *readline.PrefixCompleter {
	tables := func(string) []string {
		return cli.database.TableNames()
	}

	var items []readline.PrefixCompleterInterface
	for _, verb := range verbs {
		items = append(items, readline.PcItem(verb))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", readline.PcItemDynamic(tables)),
		readline.PcItem(".transcript"),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
