// Package store manages the on-disk collection of template artifacts.
// Each template is one file under <root>/archives, keyed by its name.
// A Store is an explicit handle constructed at process start; nothing
// here reads ambient global state.
package store

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"templater/internal/archive"
	"templater/internal/debug"
)

const (
	archiveDirName = "archives"
	artifactExt    = ".tmpl"
)

// Store maps template names to artifact files under a root directory.
type Store struct {
	root string
}

// Summary describes one stored template without its file tree.
type Summary struct {
	// Name is the artifact key (the filename stem).
	Name string
	// Meta is the decoded metadata record.
	Meta *archive.Metadata
	// Size is the artifact file size in bytes.
	Size int64
}

// Open returns a store handle rooted at root. The directory is created
// lazily on the first write, so opening never touches the filesystem.
func Open(root string) (*Store, error) {
	if root == "" {
		return nil, newStoreError(IOFailed, "", "store root cannot be empty", nil)
	}
	return &Store{root: root}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// ValidateName checks that a template name can serve as an artifact key.
func ValidateName(name string) error {
	if name == "" {
		return newStoreError(InvalidName, name, "template name cannot be empty", nil)
	}
	if name == "." || name == ".." {
		return newStoreError(InvalidName, name, "template name is reserved", nil)
	}
	if strings.ContainsAny(name, "/\\") {
		return newStoreError(InvalidName, name, "template name cannot contain path separators", nil)
	}
	if strings.ContainsRune(name, 0) {
		return newStoreError(InvalidName, name, "template name contains invalid characters", nil)
	}
	return nil
}

// archiveDir returns the directory holding artifact files.
func (s *Store) archiveDir() string {
	return filepath.Join(s.root, archiveDirName)
}

// ArtifactPath returns the artifact file path for a template name.
func (s *Store) ArtifactPath(name string) string {
	return filepath.Join(s.archiveDir(), name+artifactExt)
}

// Exists reports whether an artifact for name exists.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.ArtifactPath(name))
	return err == nil
}

// Create writes a new artifact for name. The write callback receives
// the destination writer; output goes to a temporary file that is
// renamed into place only on success, so a failed create never leaves
// a half-written artifact behind. Fails with NameExists when an
// artifact for name exists and force is false.
func (s *Store) Create(name string, force bool, write func(io.Writer) error) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !force && s.Exists(name) {
		return newStoreError(NameExists, name, "template already exists", nil)
	}

	if err := os.MkdirAll(s.archiveDir(), 0755); err != nil {
		return newStoreError(IOFailed, name, "failed to create archive directory", err)
	}

	return s.replaceArtifact(name, write)
}

// replaceArtifact atomically writes an artifact via temp file + rename.
func (s *Store) replaceArtifact(name string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(s.archiveDir(), "."+name+"-*.tmp")
	if err != nil {
		return newStoreError(IOFailed, name, "failed to create temporary artifact", err)
	}
	tmpPath := tmp.Name()

	writeErr := write(tmp)
	closeErr := tmp.Close()

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return newStoreError(IOFailed, name, "failed to close temporary artifact", closeErr)
	}

	if err := os.Rename(tmpPath, s.ArtifactPath(name)); err != nil {
		_ = os.Remove(tmpPath)
		return newStoreError(IOFailed, name, "failed to move artifact into place", err)
	}

	debug.Debug("[store] Wrote artifact: %s", s.ArtifactPath(name))
	return nil
}

// OpenArtifact opens the artifact for name for reading. The caller
// must close the returned reader.
func (s *Store) OpenArtifact(name string) (io.ReadCloser, error) {
	file, err := os.Open(s.ArtifactPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newStoreError(NotFound, name, "template not found", nil)
		}
		return nil, newStoreError(IOFailed, name, "failed to open artifact", err)
	}
	return file, nil
}

// ReadMetadata reads only the metadata record of a stored template.
// Cost is proportional to the metadata size, not the captured tree.
func (s *Store) ReadMetadata(name string) (*archive.Metadata, error) {
	file, err := s.OpenArtifact(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return archive.ReadMetadata(file)
}

// RewriteMetadata replaces the metadata block of a stored template in
// place, leaving the tree block untouched. The rewrite goes through a
// temporary file and rename, so the artifact is never observable in a
// half-rewritten state.
func (s *Store) RewriteMetadata(name string, meta *archive.Metadata) error {
	file, err := s.OpenArtifact(name)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.replaceArtifact(name, func(w io.Writer) error {
		return archive.RewriteMetadata(file, w, meta)
	})
}

// Rename moves the artifact for oldName to newName.
// Fails with NameExists when newName is already taken.
func (s *Store) Rename(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if !s.Exists(oldName) {
		return newStoreError(NotFound, oldName, "template not found", nil)
	}
	if s.Exists(newName) {
		return newStoreError(NameExists, newName, "template already exists", nil)
	}
	if err := os.Rename(s.ArtifactPath(oldName), s.ArtifactPath(newName)); err != nil {
		return newStoreError(IOFailed, oldName, "failed to rename artifact", err)
	}
	debug.Debug("[store] Renamed artifact: %s -> %s", oldName, newName)
	return nil
}

// Delete removes the artifact for name. Fails with NotFound if absent.
func (s *Store) Delete(name string) error {
	path := s.ArtifactPath(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return newStoreError(NotFound, name, "template not found", nil)
		}
		return newStoreError(IOFailed, name, "failed to stat artifact", err)
	}
	if err := os.Remove(path); err != nil {
		return newStoreError(IOFailed, name, "failed to delete artifact", err)
	}
	debug.Debug("[store] Deleted artifact: %s", path)
	return nil
}

// List returns a summary of every stored template, in lexical name
// order. Only metadata blocks are decoded; tree blocks are never read.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.archiveDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newStoreError(IOFailed, "", "failed to read archive directory", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), artifactExt)

		meta, err := s.ReadMetadata(name)
		if err != nil {
			debug.Debug("[store] Skipping unreadable artifact %s: %v", entry.Name(), err)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		summaries = append(summaries, Summary{
			Name: name,
			Meta: meta,
			Size: info.Size(),
		})
	}
	return summaries, nil
}

// Get returns the summary for one template by exact name.
func (s *Store) Get(name string) (*Summary, error) {
	meta, err := s.ReadMetadata(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(s.ArtifactPath(name))
	if err != nil {
		return nil, newStoreError(IOFailed, name, "failed to stat artifact", err)
	}
	return &Summary{Name: name, Meta: meta, Size: info.Size()}, nil
}
