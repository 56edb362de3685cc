package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSourceTree creates a directory tree from a map of relative
// paths to contents. A trailing slash marks an empty directory.
func writeSourceTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// readTargetTree reads back every regular file under dir keyed by
// slash-relative path.
func readTargetTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestPackUnpackRoundTrip(t *testing.T) {
	source := writeSourceTree(t, map[string]string{
		"src/main.c":    "int main(void) { return 0; }\n",
		"src/util/io.c": "/* io */\n",
		"README.md":     "# demo\n",
		"notes.txt":     "scratch\n",
		"logs/run.log":  "old output\n",
	})

	meta := &Metadata{Name: "demo", Description: "round trip", Created: 1700000000}

	var artifact bytes.Buffer
	err := Pack(&artifact, source, meta, PackOptions{
		IgnorePatterns: []string{"**/*.txt", "logs"},
	})
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Unpack(bytes.NewReader(artifact.Bytes()), target))

	got := readTargetTree(t, target)
	want := map[string]string{
		"src/main.c":    "int main(void) { return 0; }\n",
		"src/util/io.c": "/* io */\n",
		"README.md":     "# demo\n",
	}
	assert.Equal(t, want, got)

	// The ignored directory must not exist at all, not just be empty.
	_, err = os.Stat(filepath.Join(target, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestPackPreservesFileMode(t *testing.T) {
	source := t.TempDir()
	script := filepath.Join(source, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0755))

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, &Metadata{Name: "exec"}, PackOptions{}))

	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Unpack(bytes.NewReader(artifact.Bytes()), target))

	info, err := os.Stat(filepath.Join(target, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestPackEmptyTemplate(t *testing.T) {
	source := writeSourceTree(t, map[string]string{
		"only.txt": "ignored\n",
	})

	var artifact bytes.Buffer
	err := Pack(&artifact, source, &Metadata{Name: "empty"}, PackOptions{
		IgnorePatterns: []string{"*.txt"},
	})
	require.Error(t, err)
	assert.True(t, IsType(err, EmptyTemplate))
	// Nothing may have been written before the rejection.
	assert.Zero(t, artifact.Len())

	// The same capture succeeds when empty templates are allowed.
	artifact.Reset()
	err = Pack(&artifact, source, &Metadata{Name: "empty"}, PackOptions{
		IgnorePatterns: []string{"*.txt"},
		AllowEmpty:     true,
	})
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Unpack(bytes.NewReader(artifact.Bytes()), target))
	assert.Empty(t, readTargetTree(t, target))
}

func TestPackSourceMissing(t *testing.T) {
	var artifact bytes.Buffer
	err := Pack(&artifact, filepath.Join(t.TempDir(), "no-such-dir"), &Metadata{Name: "x"}, PackOptions{})
	require.Error(t, err)
	assert.True(t, IsType(err, IOFailed))
}

func TestUnpackTargetNotEmpty(t *testing.T) {
	source := writeSourceTree(t, map[string]string{"a.go": "package a\n"})

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, &Metadata{Name: "t"}, PackOptions{}))

	target := t.TempDir()
	existing := filepath.Join(target, "keep.txt")
	require.NoError(t, os.WriteFile(existing, []byte("precious"), 0644))

	err := Unpack(bytes.NewReader(artifact.Bytes()), target)
	require.Error(t, err)
	assert.True(t, IsType(err, TargetNotEmpty))

	// The target must be left untouched.
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))
	assert.Len(t, readTargetTree(t, target), 1)
}

func TestUnpackIntoExistingEmptyDir(t *testing.T) {
	source := writeSourceTree(t, map[string]string{"a.go": "package a\n"})

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, &Metadata{Name: "t"}, PackOptions{}))

	target := t.TempDir()
	require.NoError(t, Unpack(bytes.NewReader(artifact.Bytes()), target))
	assert.Len(t, readTargetTree(t, target), 1)
}

func TestUnpackRollbackOnCorruptTree(t *testing.T) {
	source := writeSourceTree(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, &Metadata{Name: "t"}, PackOptions{}))

	// Truncating the tree block forces a mid-extraction failure.
	truncated := artifact.Bytes()[:artifact.Len()-20]

	target := filepath.Join(t.TempDir(), "out")
	err := Unpack(bytes.NewReader(truncated), target)
	require.Error(t, err)

	// Rollback removes the directory the engine created.
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRewriteMetadataPreservesTree(t *testing.T) {
	source := writeSourceTree(t, map[string]string{
		"src/main.c": "int main(void) { return 0; }\n",
		"Makefile":   "all:\n\tcc src/main.c\n",
	})

	original := &Metadata{Name: "before", Description: "old", Commands: []string{"make"}, Created: 1700000000}

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, original, PackOptions{}))

	updated := &Metadata{Name: "after", Description: "new description", Commands: []string{"make", "make test"}, Created: 1700000000, Used: 1700000500}

	var rewritten bytes.Buffer
	require.NoError(t, RewriteMetadata(bytes.NewReader(artifact.Bytes()), &rewritten, updated))

	// The new metadata is readable from the rewritten artifact.
	meta, err := ReadMetadata(bytes.NewReader(rewritten.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, updated, meta)

	// The tree block bytes are untouched.
	origTree := artifact.Bytes()[treeBlockOffset(t, artifact.Bytes()):]
	newTree := rewritten.Bytes()[treeBlockOffset(t, rewritten.Bytes()):]
	assert.Equal(t, origTree, newTree)

	// And extraction still yields the same files.
	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Unpack(bytes.NewReader(rewritten.Bytes()), target))
	assert.Equal(t, readTargetTree(t, target), map[string]string{
		"src/main.c": "int main(void) { return 0; }\n",
		"Makefile":   "all:\n\tcc src/main.c\n",
	})
}

// treeBlockOffset returns the byte offset of the tree block in an artifact.
func treeBlockOffset(t *testing.T, artifact []byte) int {
	t.Helper()
	r := bytes.NewReader(artifact)
	_, err := ReadMetadata(r)
	require.NoError(t, err)
	return len(artifact) - r.Len()
}

func TestUnpackRejectsUnsafePaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"absolute path", "/etc/passwd"},
		{"parent escape", "../outside.txt"},
		{"nested parent escape", "a/../../outside.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sanitizeEntryName(tt.path)
			require.Error(t, err)
			assert.True(t, IsType(err, CorruptTree))
		})
	}

	rel, err := sanitizeEntryName("a/./b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("a/b.txt"), rel)
}

func TestReadMetadataIgnoresTreeBlock(t *testing.T) {
	source := writeSourceTree(t, map[string]string{"f.go": "package f\n"})

	var artifact bytes.Buffer
	require.NoError(t, Pack(&artifact, source, &Metadata{Name: "m", Description: "d"}, PackOptions{}))

	// Hand ReadMetadata only the header and metadata block; it must
	// never need the tree bytes.
	r := bytes.NewReader(artifact.Bytes())
	meta, err := ReadMetadata(r)
	require.NoError(t, err)
	assert.Equal(t, "m", meta.Name)
	assert.Positive(t, r.Len(), "tree block should remain unread")
}
