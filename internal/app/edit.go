package app

import (
	"context"

	"templater/internal/archive"
	"templater/internal/debug"
	"templater/internal/store"
)

// EditOptions holds options for interactive metadata editing.
type EditOptions struct {
	// Name is the template to edit.
	Name string
	// Editor launches the external text editor.
	Editor store.Editor
}

// EditResult holds the outcome of a metadata edit.
type EditResult struct {
	// Name is the template name after the edit.
	Name string
	// Renamed is true when the edit changed the template name.
	Renamed bool
	// Meta is the metadata now stored in the artifact.
	Meta *archive.Metadata
}

// Edit loads a template's metadata, hands it to the external editor as
// YAML, and rewrites the metadata block in place with the parsed
// result. The captured file tree is never touched. A name change also
// renames the artifact file.
func Edit(ctx context.Context, st *store.Store, opts EditOptions) (*EditResult, error) {
	debug.DebugSection("[app] Edit workflow start")
	debug.DebugValue("[app] Name", opts.Name)

	meta, err := st.ReadMetadata(opts.Name)
	if err != nil {
		return nil, err
	}

	doc, err := opts.Editor.EditMetadata(meta)
	if err != nil {
		return nil, err
	}

	renamed := doc.Name != opts.Name

	// Rename first: it refuses to clobber an existing template, so a
	// name collision leaves the original fully intact.
	if renamed {
		if err := st.Rename(opts.Name, doc.Name); err != nil {
			return nil, err
		}
	}

	updated := *meta
	updated.Name = doc.Name
	updated.Description = doc.Description
	updated.Commands = doc.Commands

	if err := st.RewriteMetadata(doc.Name, &updated); err != nil {
		return nil, err
	}

	debug.Debug("[app] Edit workflow completed")
	return &EditResult{
		Name:    doc.Name,
		Renamed: renamed,
		Meta:    &updated,
	}, nil
}
