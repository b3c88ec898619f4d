// Package ps provides the git-backed session archive for RecordDB.
//
// Session files saved to a "repo:" path are committed to a git repository
// using go-git. Every save creates a commit authored by the configured
// identity, so earlier versions of a session stay recoverable.
//
// # Memory Persistence
//
// For testing or ephemeral archives:
//
//	persistence, err := ps.NewMemoryPersistence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
// For an archive that survives restarts:
//
//	persistence, err := ps.NewFilePersistence("/path/to/archive")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Files
//
// Writes go straight to the object store through the plumbing API, without
// touching a worktree:
//
//	txn, err := persistence.WriteFile("sessions/monday.txt", data, identity, "Save session")
//	data, err := persistence.ReadFile("sessions/monday.txt")
//	history, err := persistence.History("sessions/monday.txt")
package ps
