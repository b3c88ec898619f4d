package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickyhof/RecordDB/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCLI(t *testing.T, key string) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Key = key

	var out, errOut bytes.Buffer
	cli, err := newCLI(cfg, testLogger(t), &out, &errOut)
	require.NoError(t, err)
	return cli, &out, &errOut
}

const librarySession = `CREATE library KEY id
FIELDS id: Int, title: String, year: Int
INSERT id = 1, title = "Dune", year = 1965 INTO library
INSERT id = 2, title = "Emma", year = 1815 INTO library
`

func TestCLIRunLines(t *testing.T) {
	cli, out, errOut := setupTestCLI(t, "int")

	input := librarySession + "SELECT title FROM library WHERE year > 1900\n"
	require.NoError(t, cli.runLines(strings.NewReader(input)))

	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "Table 'library' created successfully")
	assert.Contains(t, out.String(), "Successfully inserted record")
	assert.Contains(t, out.String(), "Dune")
	assert.NotContains(t, out.String(), "Emma")
	assert.Contains(t, out.String(), "1 rows")
}

func TestCLIErrorsDoNotStopInput(t *testing.T) {
	cli, out, errOut := setupTestCLI(t, "int")

	input := librarySession + "SELECT nope FROM missing\nSELECT id FROM library\n"
	require.NoError(t, cli.runLines(strings.NewReader(input)))

	assert.Contains(t, errOut.String(), "NotExistError")
	assert.Contains(t, out.String(), "2 rows")
}

func TestCLIContinuationPrompt(t *testing.T) {
	cli, _, _ := setupTestCLI(t, "int")

	assert.Equal(t, prompt, cli.prompt())
	assert.False(t, cli.handleLine("CREATE t KEY id"))
	assert.Equal(t, continuationPrompt, cli.prompt())
	assert.False(t, cli.handleLine("FIELDS id: Int"))
	assert.Equal(t, prompt, cli.prompt())
	assert.Equal(t, []string{"t"}, cli.database.TableNames())
}

func TestCLIDanglingCreate(t *testing.T) {
	cli, _, errOut := setupTestCLI(t, "int")

	require.NoError(t, cli.runLines(strings.NewReader("CREATE t KEY id\n")))
	assert.Contains(t, errOut.String(), "CREATE without FIELDS")
	assert.Empty(t, cli.database.TableNames())
}

func TestCLIDotCommands(t *testing.T) {
	cli, out, errOut := setupTestCLI(t, "int")
	require.NoError(t, cli.runLines(strings.NewReader(librarySession)))
	out.Reset()

	tests := []struct {
		name      string
		line      string
		wantOut   []string
		wantErr   string
		wantQuit  bool
	}{
		{name: "help", line: ".help", wantOut: []string{".schema <table>", "READ_FROM <path>"}},
		{name: "tables", line: ".tables", wantOut: []string{"library", "id: Int, title: String, year: Int"}},
		{name: "schema", line: ".schema library", wantOut: []string{"CREATE library KEY id\nFIELDS id: Int, title: String, year: Int"}},
		{name: "schema missing table", line: ".schema nope", wantErr: "NotExistError"},
		{name: "schema usage", line: ".schema", wantErr: "Usage: .schema <table>"},
		{name: "transcript", line: ".transcript", wantOut: []string{"  1  CREATE library KEY id", `INSERT id = 2, title = "Emma"`}},
		{name: "history usage", line: ".history", wantErr: "Usage: .history"},
		{name: "unknown", line: ".bogus", wantErr: "Unknown command: .bogus"},
		{name: "quit", line: ".quit", wantOut: []string{"Goodbye!"}, wantQuit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			errOut.Reset()

			assert.Equal(t, tt.wantQuit, cli.handleLine(tt.line))
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestCLIHistory(t *testing.T) {
	cli, out, errOut := setupTestCLI(t, "int")
	require.NoError(t, cli.runLines(strings.NewReader(librarySession+
		"SAVE_AS repo:sessions/library.txt\n"+
		"DELETE 2 FROM library\n"+
		"SAVE_AS repo:sessions/library.txt\n")))
	require.Empty(t, errOut.String())
	out.Reset()

	cli.handleLine(".history repo:sessions/library.txt")
	assert.Contains(t, out.String(), "RecordDB <recorddb@localhost>")
	history, err := cli.instance.History("sessions/library.txt")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Contains(t, out.String(), history[0].Short())
	assert.Contains(t, out.String(), history[1].Short())

	out.Reset()
	cli.handleLine(".history repo:sessions/other.txt")
	assert.Contains(t, out.String(), "No revisions of repo:sessions/other.txt")
}

func TestCLIRunScript(t *testing.T) {
	cli, out, _ := setupTestCLI(t, "int")

	path := filepath.Join(t.TempDir(), "library session.txt")
	require.NoError(t, os.WriteFile(path, []byte(librarySession), 0o644))

	require.NoError(t, cli.runScript(path))
	assert.Contains(t, out.String(), "Executed commands from "+path)

	info, err := cli.database.DescribeTable("library")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Records)
}

func TestCLIRunScriptFailure(t *testing.T) {
	cli, _, _ := setupTestCLI(t, "int")

	err := cli.runScript(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	t.Run("piped input", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetIn(strings.NewReader("CREATE t KEY name\nFIELDS name: String\nINSERT name = \"a\" INTO t\nSELECT name FROM t\n"))
		cmd.SetArgs([]string{"--key", "string"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "1 rows")
	})

	t.Run("script file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session.txt"), []byte(librarySession), 0o644))

		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"--file", "session.txt"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Executed commands from session.txt")
	})

	t.Run("script with wrong key kind", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session.txt"), []byte(librarySession), 0o644))

		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"--file", "session.txt", "--key", "string"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.txt:1")
	})

	t.Run("invalid key flag", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--key", "uuid"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid key kind")
	})
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "RecordDB vdev\n", out.String())
}
