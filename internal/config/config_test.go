package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved == "" {
		t.Fatal("resolved path should be reported even when missing")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("defaults not applied: %+v", cfg.Logging)
	}
	if !cfg.Output.Pretty {
		t.Fatal("pretty should default on")
	}
	if !filepath.IsAbs(cfg.Paths.CatalogPath) {
		t.Fatalf("catalog path not expanded: %q", cfg.Paths.CatalogPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[paths]
catalog_path = "/var/lib/vellum/catalog.db"

[output]
pretty = false
lock_writes = true

[logging]
format = "JSON"
level = " Debug "
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.CatalogPath != "/var/lib/vellum/catalog.db" {
		t.Fatalf("catalog path = %q", cfg.Paths.CatalogPath)
	}
	if cfg.Output.Pretty || !cfg.Output.LockWrites {
		t.Fatalf("output = %+v", cfg.Output)
	}
	// Case and whitespace normalize before validation.
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad format": "[logging]\nformat = \"yaml\"\n",
		"bad level":  "[logging]\nlevel = \"verbose\"\n",
		"bad toml":   "[logging\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, _, err := Load(writeConfig(t, contents)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/x.toml")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x.toml") {
		t.Fatalf("got %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[logging]") {
		t.Fatal("sample missing logging section")
	}

	// The sample must itself load cleanly.
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
