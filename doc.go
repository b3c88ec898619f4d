// Package RecordDB provides an embedded, in-memory typed record store with a
// small command language.
//
// Every table has a fixed schema and a key field; the key kind (string or
// int) is chosen once per database. Sessions can be saved to and replayed
// from local files, S3, HTTP and a git-backed archive.
//
// # Quick Start
//
//	cfg, _ := config.Load("", nil)
//	instance, _ := RecordDB.Open(cfg, nil)
//	database, _ := instance.Database()
//
//	database.ExecuteCommand("CREATE books KEY id\nFIELDS id: Int, title: String")
//	database.ExecuteCommand(`INSERT id = 1, title = "Dune" INTO books`)
//
//	result, _ := database.ExecuteCommand("SELECT id, title FROM books WHERE id >= 1")
//	result.Display(os.Stdout)
//
// # Commands
//
//	CREATE <table> KEY <field>
//	FIELDS <field>: <Type>, ...
//	INSERT <field> = <literal>, ... INTO <table>
//	DELETE <key literal> FROM <table>
//	SELECT <field>, ... FROM <table> [WHERE <expr>] [ORDER_BY <field>, ...] [LIMIT <n>]
//	READ_FROM <path>
//	SAVE_AS <path>
//
// Types are Bool, String, Int and Float. WHERE supports =, !=, <, <=, >, >=
// combined with AND, OR and parentheses.
//
// # Archive
//
// SAVE_AS repo:<path> commits the transcript to the archive; Instance.History
// lists the revisions of such a file.
package RecordDB
