// Package db provides the command execution engine for RecordDB.
//
// Database is generic over the key kind; AnyDatabase picks the kind at
// runtime and is the usual entry point.
//
// # Usage
//
//	database, err := db.NewAnyDatabase(core.KeyString)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	database.ExecuteCommand("CREATE library KEY id\nFIELDS id: String, year: Int")
//	database.ExecuteCommand(`INSERT id = "1", year = 2000 INTO library`)
//
//	result, err := database.ExecuteCommand("SELECT id, year FROM library ORDER_BY year")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display(os.Stdout)
//
// # Execution
//
// ExecuteCommand parses the text, binds the statement to the table it names
// (a Command), executes it and appends the text to the session transcript.
// SELECT runs its clauses as a pipeline over a snapshot of the table: WHERE,
// ORDER_BY, LIMIT, then projection.
//
// # Result Types
//
// There are three result types:
//   - MessageResult: Returned by CREATE, INSERT and DELETE
//   - SelectResult: Returned by SELECT, with ordered rows of field/value pairs
//   - FileResult: Returned by READ_FROM and SAVE_AS, never logged
//
// # Sessions
//
// SAVE_AS writes the transcript, one command per line; READ_FROM replays such
// a file. Paths go through a Storage: local files, s3://, http(s):// (read
// only) and repo: for the git-backed archive in package ps.
package db
