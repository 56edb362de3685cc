package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"templater/internal/debug"
)

// PackOptions holds options for capturing a directory tree.
type PackOptions struct {
	// IgnorePatterns are unix glob patterns; matching paths are excluded.
	IgnorePatterns []string
	// AllowEmpty permits capturing a template with zero files.
	AllowEmpty bool
}

// treeEntry is one captured path, recorded during the walk.
type treeEntry struct {
	// relPath is the slash-separated path relative to the source root.
	relPath string
	// absPath is the absolute path on disk.
	absPath string
	// mode is the file mode at capture time.
	mode fs.FileMode
	// isDir marks directory entries.
	isDir bool
}

// Pack captures sourceDir into a complete artifact written to w: the
// metadata block followed by a gzip-compressed tar stream of every
// file not matched by an ignore pattern. Directories are walked in
// lexical order, so capture order is deterministic. A directory whose
// path matches an ignore pattern is skipped along with its entire
// subtree. Symlinks and other irregular files are not captured.
func Pack(w io.Writer, sourceDir string, meta *Metadata, opts PackOptions) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return newError(IOFailed, "failed to read source directory", sourceDir, err)
	}
	if !info.IsDir() {
		return newError(IOFailed, "source path is not a directory", sourceDir, nil)
	}

	entries, fileCount, err := collectEntries(sourceDir, opts.IgnorePatterns)
	if err != nil {
		return err
	}

	debug.DebugValue("[archive] Files captured", fileCount)

	if fileCount == 0 && !opts.AllowEmpty {
		return newError(EmptyTemplate, "no files remain after ignore filtering", sourceDir, nil)
	}

	if err := writeMetadataBlock(w, meta); err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		if err := appendEntry(tw, entry); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return newError(IOFailed, "failed to finalize tar stream", "", err)
	}
	if err := gz.Close(); err != nil {
		return newError(IOFailed, "failed to finalize gzip stream", "", err)
	}
	return nil
}

// collectEntries walks sourceDir and returns the entries to capture,
// plus the number of regular files among them. The walk happens before
// any artifact bytes are written so an empty capture can be rejected
// without producing a partial artifact.
func collectEntries(sourceDir string, patterns []string) ([]treeEntry, int, error) {
	var entries []treeEntry
	fileCount := 0

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return newError(IOFailed, "failed to walk source directory", path, err)
		}

		if path == sourceDir {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return newError(IOFailed, "failed to resolve relative path", path, err)
		}
		rel = filepath.ToSlash(rel)

		if IsIgnored(rel, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && !d.Type().IsRegular() {
			debug.Debug("[archive] Skipping irregular file: %s", rel)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return newError(IOFailed, "failed to stat path", path, err)
		}

		entries = append(entries, treeEntry{
			relPath: rel,
			absPath: path,
			mode:    info.Mode(),
			isDir:   d.IsDir(),
		})
		if !d.IsDir() {
			fileCount++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return entries, fileCount, nil
}

// appendEntry writes one captured path into the tar stream.
func appendEntry(tw *tar.Writer, entry treeEntry) error {
	debug.Debug("[archive] Adding path to archive: %s", entry.relPath)

	header := &tar.Header{
		Name: entry.relPath,
		Mode: int64(entry.mode.Perm()),
	}

	if entry.isDir {
		header.Typeflag = tar.TypeDir
		header.Name += "/"
		if err := tw.WriteHeader(header); err != nil {
			return newError(IOFailed, "failed to write tar header", entry.relPath, err)
		}
		return nil
	}

	info, err := os.Stat(entry.absPath)
	if err != nil {
		return newError(IOFailed, "failed to stat file", entry.absPath, err)
	}
	header.Typeflag = tar.TypeReg
	header.Size = info.Size()

	if err := tw.WriteHeader(header); err != nil {
		return newError(IOFailed, "failed to write tar header", entry.relPath, err)
	}

	file, err := os.Open(entry.absPath)
	if err != nil {
		return newError(IOFailed, "failed to open file", entry.absPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(tw, file); err != nil {
		return newError(IOFailed, "failed to append file content", entry.absPath, err)
	}
	return nil
}
