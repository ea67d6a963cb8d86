package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSearchSubstring(t *testing.T) {
	c := New([]string{"Tomate Italiano", "Banana Prata", "Alface Crespa"})

	got := c.Search("tomate")
	if len(got) != 1 || got[0] != "Tomate Italiano" {
		t.Fatalf("got %v", got)
	}

	got = c.Search("PRATA")
	if len(got) != 1 || got[0] != "Banana Prata" {
		t.Fatalf("case-insensitive match failed: %v", got)
	}
}

func TestSearchAccentInsensitive(t *testing.T) {
	c := New([]string{"Maçã Gala", "Limão Taiti", "Mamão Papaya"})

	if got := c.Search("maca"); len(got) != 1 || got[0] != "Maçã Gala" {
		t.Fatalf("accent folding on catalog side: %v", got)
	}
	if got := c.Search("limão"); len(got) != 1 || got[0] != "Limão Taiti" {
		t.Fatalf("accent folding on term side: %v", got)
	}
}

func TestSearchShortTerm(t *testing.T) {
	c := New([]string{"Tomate"})
	if got := c.Search("t"); got != nil {
		t.Fatalf("single-rune terms return nothing, got %v", got)
	}
	if got := c.Search("  "); got != nil {
		t.Fatalf("blank terms return nothing, got %v", got)
	}
}

func TestSearchCap(t *testing.T) {
	names := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		names = append(names, "Tomate "+string(rune('A'+i)))
	}
	c := New(names)
	if got := c.Search("tomate"); len(got) != MaxResults {
		t.Fatalf("expected %d capped results, got %d", MaxResults, len(got))
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos.txt")
	os.WriteFile(path, []byte("# catálogo\nTomate Italiano\n\nCenoura\n"), 0644)

	c := LoadFromFile(path)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}

	// Missing file falls back to the built-in catalog.
	c = LoadFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	if c.Len() == 0 {
		t.Fatal("expected fallback entries")
	}
}
