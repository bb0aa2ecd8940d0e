package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFileOverInline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	got, err := Load("api key", path, "inline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected trimmed file value, got %q", got)
	}
}

func TestLoadInlineFallback(t *testing.T) {
	got, err := Load("api key", "", " inline-value ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline-value" {
		t.Fatalf("expected inline value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	_, err := Load("api key", path, "")
	if err == nil {
		t.Fatal("expected error for empty secret file")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadUnconfigured(t *testing.T) {
	_, err := Load("gemini api key", "", "")
	if err == nil {
		t.Fatal("expected error when nothing is configured")
	}
	if !strings.Contains(err.Error(), "gemini api key") {
		t.Fatalf("expected secret name in error, got: %v", err)
	}
}
