package testsupport

import (
	"path/filepath"
	"testing"
)

// WriteConfig writes a self-contained config file rooted under dir and
// returns its path. The catalog database lands inside dir so tests never
// touch the user's real state.
func WriteConfig(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	WriteFile(t, path, `
[paths]
catalog_path = "`+filepath.Join(dir, "catalog.db")+`"

[output]
pretty = true

[logging]
format = "console"
level = "error"
`)
	return path
}
