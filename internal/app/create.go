package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"

	"templater/internal/archive"
	"templater/internal/debug"
	"templater/internal/store"
)

// CreateOptions holds options for capturing a new template.
type CreateOptions struct {
	// Path is the source directory to capture.
	Path string
	// Name is the template name. Defaults to the base name of Path.
	Name string
	// Description is the template description.
	Description string
	// Commands are shell commands recorded for execution at expand time.
	Commands []string
	// IgnorePatterns are glob patterns excluded from capture.
	IgnorePatterns []string
	// DefinitionFile is an optional JSON file pre-filling the fields above.
	DefinitionFile string
	// Force overwrites an existing template with the same name.
	Force bool
	// AllowEmpty permits capturing zero files.
	AllowEmpty bool
}

// CreateResult holds the result of template creation.
type CreateResult struct {
	// Name is the template name the artifact was stored under.
	Name string
	// ArtifactPath is the stored artifact location.
	ArtifactPath string
	// Size is the artifact size in bytes.
	Size int64
}

// Create captures a directory tree into a new stored template.
func Create(ctx context.Context, st *store.Store, opts CreateOptions) (*CreateResult, error) {
	debug.DebugSection("[app] Create workflow start")
	debug.DebugValue("[app] Path", opts.Path)
	debug.DebugValue("[app] Force", opts.Force)

	absPath, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, NewCreateError("failed to resolve source path", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, NewCreateError(fmt.Sprintf("source directory not found: %s", absPath), err)
	}
	if !info.IsDir() {
		return nil, NewCreateError(fmt.Sprintf("source path is not a directory: %s", absPath), nil)
	}

	if opts.DefinitionFile != "" {
		def, err := loadDefinition(opts.DefinitionFile)
		if err != nil {
			return nil, err
		}
		applyDefinition(&opts, def)
	}

	if opts.Name == "" {
		opts.Name = filepath.Base(absPath)
		debug.DebugValue("[app] Name defaulted from path", opts.Name)
	}

	for _, command := range opts.Commands {
		if _, err := shellquote.Split(command); err != nil {
			return nil, NewCreateError(fmt.Sprintf("command has invalid quoting: %q", command), err)
		}
	}
	if err := archive.ValidatePatterns(opts.IgnorePatterns); err != nil {
		return nil, NewInvalidArgumentError(err.Error())
	}

	meta := &archive.Metadata{
		Name:        opts.Name,
		Description: opts.Description,
		Commands:    opts.Commands,
		Created:     time.Now().Unix(),
	}

	err = st.Create(opts.Name, opts.Force, func(w io.Writer) error {
		return archive.Pack(w, absPath, meta, archive.PackOptions{
			IgnorePatterns: opts.IgnorePatterns,
			AllowEmpty:     opts.AllowEmpty,
		})
	})
	if err != nil {
		return nil, err
	}

	artifactPath := st.ArtifactPath(opts.Name)
	artifactInfo, err := os.Stat(artifactPath)
	if err != nil {
		return nil, NewCreateError("failed to stat new artifact", err)
	}

	debug.Debug("[app] Create workflow completed")
	return &CreateResult{
		Name:         opts.Name,
		ArtifactPath: artifactPath,
		Size:         artifactInfo.Size(),
	}, nil
}
