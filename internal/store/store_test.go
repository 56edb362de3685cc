package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templater/internal/archive"
)

// createTemplate writes a minimal artifact (metadata plus empty tree)
// for name into st.
func createTemplate(t *testing.T, st *Store, name string, force bool) error {
	t.Helper()
	source := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "file.go"), []byte("package x\n"), 0644))

	return st.Create(name, force, func(w io.Writer) error {
		return archive.Pack(w, source, &archive.Metadata{Name: name, Description: "desc " + name}, archive.PackOptions{})
	})
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestOpenRequiresRoot(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestCreateAndExists(t *testing.T) {
	st := openStore(t)

	assert.False(t, st.Exists("web"))
	require.NoError(t, createTemplate(t, st, "web", false))
	assert.True(t, st.Exists("web"))

	meta, err := st.ReadMetadata("web")
	require.NoError(t, err)
	assert.Equal(t, "web", meta.Name)
}

func TestCreateNameCollision(t *testing.T) {
	st := openStore(t)
	require.NoError(t, createTemplate(t, st, "api", false))

	err := createTemplate(t, st, "api", false)
	require.Error(t, err)
	assert.True(t, IsType(err, NameExists))

	// Force fully replaces the prior artifact.
	require.NoError(t, createTemplate(t, st, "api", true))
}

func TestCreateFailureLeavesNoArtifact(t *testing.T) {
	st := openStore(t)

	err := st.Create("broken", false, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return io.ErrUnexpectedEOF
	})
	require.Error(t, err)
	assert.False(t, st.Exists("broken"))

	// The temp file must be gone too.
	entries, err := os.ReadDir(filepath.Join(st.Root(), "archives"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"web-app", false},
		{"Web_App.v2", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
	}

	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.wantErr && err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
		}
	}
}

func TestDelete(t *testing.T) {
	st := openStore(t)
	require.NoError(t, createTemplate(t, st, "gone", false))

	require.NoError(t, st.Delete("gone"))
	assert.False(t, st.Exists("gone"))

	err := st.Delete("gone")
	require.Error(t, err)
	assert.True(t, IsType(err, NotFound))
}

func TestRename(t *testing.T) {
	st := openStore(t)
	require.NoError(t, createTemplate(t, st, "old", false))
	require.NoError(t, createTemplate(t, st, "taken", false))

	err := st.Rename("old", "taken")
	require.Error(t, err)
	assert.True(t, IsType(err, NameExists))

	err = st.Rename("missing", "new")
	require.Error(t, err)
	assert.True(t, IsType(err, NotFound))

	require.NoError(t, st.Rename("old", "new"))
	assert.False(t, st.Exists("old"))
	assert.True(t, st.Exists("new"))
}

func TestList(t *testing.T) {
	st := openStore(t)

	// Empty store lists nothing, even before the directory exists.
	summaries, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, summaries)

	require.NoError(t, createTemplate(t, st, "bravo", false))
	require.NoError(t, createTemplate(t, st, "alpha", false))

	summaries, err = st.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Lexical order by artifact name.
	assert.Equal(t, "alpha", summaries[0].Name)
	assert.Equal(t, "bravo", summaries[1].Name)
	assert.Equal(t, "desc alpha", summaries[0].Meta.Description)
	assert.Positive(t, summaries[0].Size)
}

func TestRewriteMetadataInPlace(t *testing.T) {
	st := openStore(t)
	require.NoError(t, createTemplate(t, st, "meta", false))

	updated := &archive.Metadata{
		Name:        "meta",
		Description: "rewritten",
		Commands:    []string{"echo done"},
	}
	require.NoError(t, st.RewriteMetadata("meta", updated))

	meta, err := st.ReadMetadata("meta")
	require.NoError(t, err)
	assert.Equal(t, updated, meta)

	// The tree must still extract after the rewrite.
	rc, err := st.OpenArtifact("meta")
	require.NoError(t, err)
	defer rc.Close()

	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, archive.Unpack(rc, target))
	_, err = os.Stat(filepath.Join(target, "file.go"))
	require.NoError(t, err)
}

func TestGet(t *testing.T) {
	st := openStore(t)
	require.NoError(t, createTemplate(t, st, "one", false))

	summary, err := st.Get("one")
	require.NoError(t, err)
	assert.Equal(t, "one", summary.Name)
	assert.Positive(t, summary.Size)

	_, err = st.Get("absent")
	require.Error(t, err)
	assert.True(t, IsType(err, NotFound))
}
