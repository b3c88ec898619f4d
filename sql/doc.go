// Package sql provides lexing and parsing for the RecordDB command language.
//
// Parsing happens in two layers. A participle grammar matches the text and
// builds a concrete syntax tree; a semantic walk then resolves type names,
// parses literals, detects duplicate declarations and assignments, and builds
// the WHERE expression tree. The result is a typed Statement.
//
// # Parser Usage
//
//	statement, err := sql.Parse(`SELECT id, year FROM library WHERE year < 2001 ORDER_BY year`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	query := statement.(sql.SelectStatement)
//
// # Supported Statements
//
//	CREATE <table> KEY <field> FIELDS <field>: <Type>, ...
//	INSERT <field> = <literal>, ... INTO <table>
//	DELETE <literal> FROM <table>
//	SELECT <field>, ... FROM <table> [WHERE <expr>] [ORDER_BY <field>, ...] [LIMIT <n>]
//	READ_FROM <path>
//	SAVE_AS <path>
//
// Keywords and type names are case-sensitive. AND binds tighter than OR;
// parentheses group. Paths may be quoted or written bare.
package sql
