package ps

import (
	"testing"

	"github.com/nickyhof/RecordDB/core"
)

func TestLatestTransaction(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if txn := p.LatestTransaction(); txn.Id != "" {
		t.Errorf("Expected empty transaction before first commit, got %s", txn)
	}

	identity := core.Identity{Name: "Test User", Email: "test@example.com"}
	written, err := p.WriteFile("a.txt", []byte("a"), identity, "save")
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	latest := p.LatestTransaction()
	if latest.Id != written.Id {
		t.Errorf("Expected latest %s, got %s", written.Id, latest.Id)
	}
	if latest.Author != "Test User <test@example.com>" {
		t.Errorf("Unexpected author: %s", latest.Author)
	}
	if len(latest.Short()) != 7 {
		t.Errorf("Expected a 7 character short id, got %q", latest.Short())
	}
}

func TestHistory(t *testing.T) {
	p, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	history, err := p.History("a.txt")
	if err != nil || len(history) != 0 {
		t.Fatalf("Expected empty history, got %v, %v", history, err)
	}

	identity := core.Identity{Name: "Test User", Email: "test@example.com"}
	first, _ := p.WriteFile("a.txt", []byte("v1"), identity, "v1")
	p.WriteFile("b.txt", []byte("other"), identity, "other")
	second, _ := p.WriteFile("a.txt", []byte("v2"), identity, "v2")

	history, err = p.History("a.txt")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 commits touching a.txt, got %d", len(history))
	}
	if history[0].Id != second.Id || history[1].Id != first.Id {
		t.Errorf("Unexpected history order: %v", history)
	}
}
