package app

import (
	"encoding/json"
	"os"

	"templater/internal/debug"
)

// Definition mirrors the optional JSON definition file accepted by
// create. It pre-fills name, description, commands, and ignore
// patterns; explicit command-line flags always win over it.
type Definition struct {
	// Name is the template name.
	Name string `json:"name"`
	// Description is the template description.
	Description string `json:"description"`
	// Commands are the post-expand shell commands.
	Commands []string `json:"commands"`
	// Ignore are glob patterns excluded from capture.
	Ignore []string `json:"ignore"`
}

// loadDefinition reads and parses a JSON definition file.
func loadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewCreateError("failed to read definition file", err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, NewCreateError("definition file is not valid JSON", err)
	}

	debug.Debug("[app] Loaded definition file: %s", path)
	return &def, nil
}

// applyDefinition fills gaps in opts from def. Flags given on the
// command line keep precedence.
func applyDefinition(opts *CreateOptions, def *Definition) {
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.Description == "" {
		opts.Description = def.Description
	}
	if len(opts.Commands) == 0 {
		opts.Commands = def.Commands
	}
	if len(opts.IgnorePatterns) == 0 {
		opts.IgnorePatterns = def.Ignore
	}
}
