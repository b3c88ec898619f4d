package sql

import (
	"github.com/alecthomas/participle/v2"
)

// Concrete syntax tree. These types only describe shape; Parse turns them into
// Statements and reports the semantic errors.

type commandAST struct {
	Create *createAST `parser:"  @@"`
	Select *selectAST `parser:"| @@"`
	Insert *insertAST `parser:"| @@"`
	Delete *deleteAST `parser:"| @@"`
	Read   *readAST   `parser:"| @@"`
	Save   *saveAST   `parser:"| @@"`
}

type createAST struct {
	Table  string     `parser:"'CREATE' @Ident"`
	Key    string     `parser:"'KEY' @Ident"`
	Fields []*declAST `parser:"'FIELDS' @@ (',' @@)*"`
}

type declAST struct {
	Name string `parser:"@Ident ':'"`
	Type string `parser:"@Ident"`
}

type selectAST struct {
	Fields  []string `parser:"'SELECT' @Ident (',' @Ident)*"`
	Table   string   `parser:"'FROM' @Ident"`
	Where   *orAST   `parser:"('WHERE' @@)?"`
	OrderBy []string `parser:"('ORDER_BY' @Ident (',' @Ident)*)?"`
	Limit   *string  `parser:"('LIMIT' @Number)?"`
}

type orAST struct {
	Left  *andAST `parser:"@@"`
	Right *orAST  `parser:"('OR' @@)?"`
}

type andAST struct {
	Left  *bracedAST `parser:"@@"`
	Right *andAST    `parser:"('AND' @@)?"`
}

type bracedAST struct {
	Comparison *comparisonAST `parser:"  @@"`
	Group      *orAST         `parser:"| '(' @@ ')'"`
}

type comparisonAST struct {
	Field    string      `parser:"@Ident"`
	Operator string      `parser:"@Operator"`
	Value    *literalAST `parser:"@@"`
}

type literalAST struct {
	Number *string `parser:"  @Number"`
	String *string `parser:"| @String"`
	Bool   *string `parser:"| @('true' | 'false')"`
}

type insertAST struct {
	Assignments []*assignAST `parser:"'INSERT' @@ (',' @@)*"`
	Table       string       `parser:"'INTO' @Ident"`
}

type assignAST struct {
	Field string      `parser:"@Ident '='"`
	Value *literalAST `parser:"@@"`
}

type deleteAST struct {
	Key   *literalAST `parser:"'DELETE' @@"`
	Table string      `parser:"'FROM' @Ident"`
}

type readAST struct {
	Path string `parser:"'READ_FROM' @Path"`
}

type saveAST struct {
	Path string `parser:"'SAVE_AS' @Path"`
}

var commandParser = participle.MustBuild[commandAST](
	participle.Lexer(commandLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace", "PathSpace"),
	participle.UseLookahead(2),
)
