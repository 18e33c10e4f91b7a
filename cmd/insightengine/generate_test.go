package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestReadThesis(t *testing.T) {
	name := filepath.Join(t.TempDir(), "thesis.txt")
	if err := os.WriteFile(name, []byte("\n  Search moves into the tools people already use.  \n"), 0o600); err != nil {
		t.Fatalf("failed to write thesis: %v", err)
	}

	actual, err := readThesis(context.Background(), name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expected := "Search moves into the tools people already use."; actual != expected {
		t.Errorf("expected %q, got %q", expected, actual)
	}
}

func TestReadThesisMissingFile(t *testing.T) {
	if _, err := readThesis(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error")
	}
}
