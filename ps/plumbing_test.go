package ps

import (
	"errors"
	"testing"

	"github.com/nickyhof/RecordDB/core"
)

func TestWriteAndReadFile(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "Test User", Email: "test@example.com"}

	txn, err := p.WriteFile("sessions/monday.txt", []byte("line one\nline two"), identity, "Saving session")
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if txn.Id == "" {
		t.Error("Transaction ID should not be empty")
	}
	if txn.Author != "Test User <test@example.com>" {
		t.Errorf("Unexpected author: %s", txn.Author)
	}

	data, err := p.ReadFile("sessions/monday.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "line one\nline two" {
		t.Errorf("Data mismatch: got %q", data)
	}

	// Leading and doubled slashes address the same file.
	if _, err := p.ReadFile("/sessions//monday.txt"); err != nil {
		t.Errorf("Expected normalised path to resolve: %v", err)
	}
}

func TestWriteFileKeepsSiblings(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "Test User", Email: "test@example.com"}

	for _, name := range []string{"sessions/a.txt", "sessions/b.txt", "top.txt"} {
		if _, err := p.WriteFile(name, []byte(name), identity, "save "+name); err != nil {
			t.Fatalf("WriteFile %s failed: %v", name, err)
		}
	}

	for _, name := range []string{"sessions/a.txt", "sessions/b.txt", "top.txt"} {
		data, err := p.ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile %s failed: %v", name, err)
		}
		if string(data) != name {
			t.Errorf("%s: got %q", name, data)
		}
	}
}

func TestReadFileErrors(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if _, err := p.ReadFile("missing.txt"); !errors.Is(err, ErrNoCommits) {
		t.Errorf("Expected ErrNoCommits on empty archive, got %v", err)
	}

	identity := core.Identity{Name: "Test User", Email: "test@example.com"}
	if _, err := p.WriteFile("present.txt", []byte("x"), identity, "save"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := p.ReadFile("missing.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestWriteFileInvalidPath(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if _, err := p.WriteFile("/", []byte("x"), core.Identity{}, "save"); err == nil {
		t.Error("Expected an error for an empty archive path")
	}
}
