package config

// Config represents the global templater configuration, resolved once
// at process start and injected into every operation.
type Config struct {
	// StoreDir is the template store root directory. Artifacts live
	// under StoreDir/archives.
	StoreDir string `toml:"store_dir"`
	// Editor is the command invoked by 'templater edit'. May contain
	// arguments, e.g. "code -w".
	Editor string `toml:"editor"`
	// StopOnError aborts remaining post-expand commands after the
	// first failure. The default is best-effort: report and continue.
	StopOnError bool `toml:"stop_on_error"`
	// AllowEmpty permits creating templates with zero captured files.
	AllowEmpty bool `toml:"allow_empty"`
}
