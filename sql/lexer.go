package sql

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Keywords are the reserved words of the command language. They are
// case-sensitive.
var Keywords = []string{
	"CREATE", "KEY", "FIELDS",
	"INSERT", "INTO",
	"DELETE", "FROM",
	"SELECT", "WHERE", "AND", "OR", "ORDER_BY", "LIMIT",
	"READ_FROM", "SAVE_AS",
	"true", "false",
}

// TypeNames are the field types a FIELDS declaration may use.
var TypeNames = []string{"Bool", "String", "Int", "Float"}

// Quoted strings and paths stay on one line so every command survives a
// SAVE_AS and READ_FROM round trip.
//
// The file verbs switch the lexer into the Path state so that a path can be
// written unquoted, slashes, dots and all.
var commandLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "FileVerb", Pattern: `\b(?:READ_FROM|SAVE_AS)\b`, Action: lexer.Push("Path")},
		{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
		{Name: "String", Pattern: `"(?:\\[^\r\n]|[^"\\\r\n])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Operator", Pattern: `!=|<=|>=|[=<>]`},
		{Name: "Punct", Pattern: `[,:()]`},
		{Name: "Whitespace", Pattern: `\s+`},
	},
	"Path": {
		{Name: "PathSpace", Pattern: `[ \t]+`},
		{Name: "Path", Pattern: `"(?:\\[^\r\n]|[^"\\\r\n])*"|[^\s]+`, Action: lexer.Pop()},
	},
})
