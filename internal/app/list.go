package app

import (
	"context"

	"templater/internal/archive"
	"templater/internal/debug"
	"templater/internal/store"
)

// ListOptions holds options for listing templates.
type ListOptions struct {
	// Name, when set, restricts the listing to one exact template name.
	Name string
	// ShowCommands includes the template's command list. Requires Name.
	ShowCommands bool
	// ShowTree includes the rendered file tree. Requires Name.
	ShowTree bool
}

// ListResult holds the outcome of a list operation.
type ListResult struct {
	// Summaries are the matched templates, in lexical name order.
	Summaries []store.Summary
	// Commands is the command list of the named template (ShowCommands).
	Commands []string
	// Tree is the rendered file tree of the named template (ShowTree).
	Tree string
}

// List returns summaries of stored templates. Summaries carry only
// metadata; tree blocks are decoded solely when ShowTree asks for the
// rendered listing.
func List(ctx context.Context, st *store.Store, opts ListOptions) (*ListResult, error) {
	debug.DebugSection("[app] List workflow start")

	if opts.Name == "" && opts.ShowCommands {
		return nil, NewInvalidArgumentError("listing commands requires a template name, use --name")
	}
	if opts.Name == "" && opts.ShowTree {
		return nil, NewInvalidArgumentError("displaying a file tree requires a template name, use --name")
	}

	if opts.Name == "" {
		summaries, err := st.List()
		if err != nil {
			return nil, err
		}
		return &ListResult{Summaries: summaries}, nil
	}

	summary, err := st.Get(opts.Name)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Summaries: []store.Summary{*summary}}
	if opts.ShowCommands {
		result.Commands = summary.Meta.Commands
	}

	if opts.ShowTree {
		artifact, err := st.OpenArtifact(opts.Name)
		if err != nil {
			return nil, err
		}
		defer artifact.Close()

		tree, err := archive.RenderTree(artifact)
		if err != nil {
			return nil, err
		}
		result.Tree = tree
	}

	debug.Debug("[app] List workflow completed")
	return result, nil
}
