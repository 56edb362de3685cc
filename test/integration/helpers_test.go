package integration

import (
	"path/filepath"
	"runtime"
	"testing"
)

// fixturePath returns the absolute path of a fixture template directory.
func fixturePath(t *testing.T, name string) string {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("../fixtures/templates", name))
	if err != nil {
		t.Fatalf("failed to resolve fixture path: %v", err)
	}
	return path
}

func requirePosixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}
