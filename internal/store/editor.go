package store

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"templater/internal/archive"
	"templater/internal/debug"
)

// EditDoc is the human-editable YAML form of template metadata handed
// to the external editor. The file tree is deliberately absent; edit
// never touches captured files.
type EditDoc struct {
	// Name is the template name.
	Name string `yaml:"name"`
	// Description is the template description.
	Description string `yaml:"description"`
	// Commands are the post-expand shell commands, in execution order.
	Commands []string `yaml:"commands"`
}

// editHeader is prepended to the edit buffer as guidance for the user.
const editHeader = `# Edit template metadata. Save and quit to apply, or leave the file
# unchanged to keep the current values.
`

// MarshalEditDoc renders metadata as the YAML text handed to the editor.
func MarshalEditDoc(meta *archive.Metadata) ([]byte, error) {
	doc := EditDoc{
		Name:        meta.Name,
		Description: meta.Description,
		Commands:    meta.Commands,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, newStoreError(ParseFailed, meta.Name, "failed to render metadata as YAML", err)
	}
	return append([]byte(editHeader), data...), nil
}

// UnmarshalEditDoc parses edited YAML text back into an EditDoc.
// Fails with ParseFailed on malformed YAML, an empty name, or a
// command with broken shell quoting.
func UnmarshalEditDoc(data []byte) (*EditDoc, error) {
	var doc EditDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newStoreError(ParseFailed, "", "edited metadata is not valid YAML", err)
	}
	if doc.Name == "" {
		return nil, newStoreError(ParseFailed, "", "edited metadata has an empty name", nil)
	}
	if err := ValidateName(doc.Name); err != nil {
		return nil, err
	}
	for _, command := range doc.Commands {
		if _, err := shellquote.Split(command); err != nil {
			return nil, newStoreError(ParseFailed, doc.Name,
				fmt.Sprintf("command has invalid quoting: %q", command), err)
		}
	}
	return &doc, nil
}

// Editor invokes an external text editor and blocks until it exits.
type Editor struct {
	// Command is the editor command line, e.g. "vim" or "code -w".
	Command string
}

// Edit opens path in the editor, attached to the current terminal.
func (e Editor) Edit(path string) error {
	argv, err := shellquote.Split(e.Command)
	if err != nil || len(argv) == 0 {
		return newStoreError(EditorFailed, "", fmt.Sprintf("invalid editor command: %q", e.Command), err)
	}

	debug.Debug("[store] Launching editor: %s %s", e.Command, path)

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return newStoreError(EditorFailed, "", fmt.Sprintf("editor %q failed", argv[0]), err)
	}
	return nil
}

// EditMetadata runs the full interactive edit cycle for meta: write
// the YAML form to a temp file, hand it to the editor, and parse the
// result back. The temp file is removed on all paths.
func (e Editor) EditMetadata(meta *archive.Metadata) (*EditDoc, error) {
	text, err := MarshalEditDoc(meta)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "templater-edit-*.yaml")
	if err != nil {
		return nil, newStoreError(IOFailed, meta.Name, "failed to create edit buffer", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, writeErr := tmp.Write(text)
	closeErr := tmp.Close()
	if writeErr != nil {
		return nil, newStoreError(IOFailed, meta.Name, "failed to write edit buffer", writeErr)
	}
	if closeErr != nil {
		return nil, newStoreError(IOFailed, meta.Name, "failed to close edit buffer", closeErr)
	}

	if err := e.Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, newStoreError(IOFailed, meta.Name, "failed to read edit buffer", err)
	}

	return UnmarshalEditDoc(edited)
}
