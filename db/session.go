package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nickyhof/RecordDB/core"
)

// maxReplayDepth bounds READ_FROM chains through distinct files.
const maxReplayDepth = 16

// ReadCommand replays a session file through the database it is bound to.
type ReadCommand[K core.Key[K]] struct {
	database *Database[K]
	path     string
}

func (command *ReadCommand[K]) Execute() (Result, error) {
	database := command.database

	if slices.Contains(database.replaying, command.path) {
		return nil, fmt.Errorf("%w: recursive READ_FROM of %s", core.ErrIO, command.path)
	}
	if len(database.replaying) >= maxReplayDepth {
		return nil, fmt.Errorf("%w: READ_FROM nested deeper than %d files", core.ErrIO, maxReplayDepth)
	}
	database.replaying = append(database.replaying, command.path)
	defer func() { database.replaying = database.replaying[:len(database.replaying)-1] }()

	data, err := database.storage.ReadFile(context.Background(), command.path)
	if err != nil {
		return nil, err
	}

	lines, err := SplitCommands(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", command.path, err)
	}

	result := FileResult{Path: command.path}
	for _, line := range lines {
		if _, err := database.ExecuteCommand(line.Text); err != nil {
			if database.replay == ReplayAbort {
				return nil, fmt.Errorf("%s:%d: %w", command.path, line.Number, err)
			}
			database.logger.Warn("replayed command failed",
				"path", command.path,
				"line", line.Number,
				"error", err)
			result.Failed++
			continue
		}
		result.Executed++
	}

	result.Message = fmt.Sprintf("Executed commands from %s", command.path)
	if result.Failed > 0 {
		result.Message += fmt.Sprintf(" (%d failed)", result.Failed)
	}
	return result, nil
}

// SaveCommand writes a snapshot of the transcript taken when it was bound.
type SaveCommand struct {
	storage  *Storage
	path     string
	commands []string
}

func (command *SaveCommand) Execute() (Result, error) {
	data := strings.Join(command.commands, "\n")
	revision, err := command.storage.WriteFile(context.Background(), command.path, []byte(data))
	if err != nil {
		return nil, err
	}
	return FileResult{
		Message:  fmt.Sprintf("Saved %d commands", len(command.commands)),
		Path:     command.path,
		Revision: revision,
		Executed: len(command.commands),
	}, nil
}

// Line is one replayable command and the line it started on.
type Line struct {
	Number int
	Text   string
}

// NeedsContinuation reports whether line is the first half of a CREATE
// written across two lines. Only whole words count, so names such as
// FIELDSET do not end the command early.
func NeedsContinuation(line string) bool {
	words := strings.Fields(line)
	return len(words) > 0 && words[0] == "CREATE" && !slices.Contains(words, "FIELDS")
}

// SplitCommands turns session text into commands: blank lines are skipped,
// lines are trimmed, and a CREATE line without FIELDS is joined to the next
// non-blank line.
func SplitCommands(text string) ([]Line, error) {
	var lines []Line
	var pending *Line

	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if pending != nil {
			pending.Text += "\n" + trimmed
			lines = append(lines, *pending)
			pending = nil
			continue
		}

		line := Line{Number: i + 1, Text: trimmed}
		if NeedsContinuation(trimmed) {
			pending = &line
			continue
		}
		lines = append(lines, line)
	}

	if pending != nil {
		return nil, fmt.Errorf("%w: line %d: CREATE without FIELDS at end of file", core.ErrIO, pending.Number)
	}
	return lines, nil
}
