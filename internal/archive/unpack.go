package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"templater/internal/debug"
)

// Unpack extracts an artifact's captured tree into targetDir, which
// must not exist or must be an empty directory; templates always
// expand into a fresh directory, never merge into existing content.
// On any extraction failure the partially-created output is rolled
// back (removed), so a failed expand can simply be retried.
func Unpack(r io.Reader, targetDir string) error {
	created, err := prepareTarget(targetDir)
	if err != nil {
		return err
	}

	if err := extractTree(r, targetDir); err != nil {
		rollbackTarget(targetDir, created)
		return err
	}
	return nil
}

// prepareTarget ensures targetDir is a fresh, empty directory.
// Returns true if the directory was created by this call.
func prepareTarget(targetDir string) (bool, error) {
	entries, err := os.ReadDir(targetDir)
	switch {
	case err == nil:
		if len(entries) > 0 {
			return false, newError(TargetNotEmpty, "target directory is not empty", targetDir, nil)
		}
		return false, nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return false, newError(IOFailed, "failed to create target directory", targetDir, err)
		}
		return true, nil
	default:
		// Exists but is not a readable directory (e.g. a regular file).
		return false, newError(TargetNotEmpty, "target path exists and is not an empty directory", targetDir, err)
	}
}

// rollbackTarget removes partial extraction output. A directory this
// call created is removed entirely; a pre-existing empty directory is
// kept but emptied.
func rollbackTarget(targetDir string, created bool) {
	debug.Debug("[archive] Rolling back partial extraction: %s", targetDir)
	if created {
		_ = os.RemoveAll(targetDir)
		return
	}
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		_ = os.RemoveAll(filepath.Join(targetDir, entry.Name()))
	}
}

// extractTree reads the artifact from r and recreates every directory
// and file under targetDir, preserving relative structure and
// permission bits.
func extractTree(r io.Reader, targetDir string) error {
	// Skip past the metadata block; only the tree block matters here.
	if _, err := readMetadataBlock(r); err != nil {
		return err
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return newError(CorruptTree, "failed to open tree block", "", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return newError(CorruptTree, "failed to read tar entry", "", err)
		}

		rel, err := sanitizeEntryName(header.Name)
		if err != nil {
			return err
		}
		target := filepath.Join(targetDir, rel)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, fs.FileMode(header.Mode).Perm()); err != nil {
				return newError(IOFailed, "failed to create directory", target, err)
			}
		case tar.TypeReg:
			if err := writeEntryFile(target, fs.FileMode(header.Mode).Perm(), tr); err != nil {
				return err
			}
		default:
			debug.Debug("[archive] Skipping tar entry type %d: %s", header.Typeflag, header.Name)
		}
	}
}

// sanitizeEntryName validates a tar entry name and returns it as a
// cleaned relative path. Absolute names and names escaping the target
// directory are rejected.
func sanitizeEntryName(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", newError(CorruptTree, "unsafe path in artifact", name, nil)
	}
	return clean, nil
}

// writeEntryFile creates one extracted file with the recorded mode.
func writeEntryFile(target string, mode fs.FileMode, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return newError(IOFailed, "failed to create parent directory", target, err)
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return newError(IOFailed, "failed to create file", target, err)
	}

	_, err = io.Copy(file, content)
	closeErr := file.Close()

	if err != nil {
		return newError(IOFailed, "failed to write file content", target, err)
	}
	if closeErr != nil {
		return newError(IOFailed, "failed to close file", target, closeErr)
	}

	debug.Debug("[archive] Extracted file: %s", target)
	return nil
}
