package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDotEnv_MissingFileIsSilent(t *testing.T) {
	var out bytes.Buffer
	loadDotEnv(&out, filepath.Join(t.TempDir(), ".env"))
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestLoadDotEnv_MalformedFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DB_PASSWORD=\"unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	loadDotEnv(&out, path)
	if !strings.HasPrefix(out.String(), "Warning: failed to load "+path+": ") {
		t.Fatalf("expected load warning, got %q", out.String())
	}
}

func TestLoadDotEnv_SetsUnsetVariablesOnly(t *testing.T) {
	const fresh = "GOMYSQLMCP_TEST_DOTENV_FRESH"
	const exported = "GOMYSQLMCP_TEST_DOTENV_EXPORTED"
	t.Setenv(exported, "from-shell")
	t.Setenv(fresh, "")
	os.Unsetenv(fresh)

	path := filepath.Join(t.TempDir(), ".env")
	content := fresh + "=from-file\n" + exported + "=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	loadDotEnv(&out, path)
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
	if got := os.Getenv(fresh); got != "from-file" {
		t.Fatalf("expected %s from file, got %q", fresh, got)
	}
	if got := os.Getenv(exported); got != "from-shell" {
		t.Fatalf("expected exported %s to win, got %q", exported, got)
	}
}
