package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the lessonpress home directory.
	DefaultDirName = ".lessonpress"

	// DataDirName is the subdirectory mounted into the SurrealDB container.
	DataDirName = "data"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// PIDFileName records the running server.
	PIDFileName = "server.pid"
)

// Dir represents the lessonpress home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.lessonpress).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DataPath returns the path to the store data directory.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// PIDPath returns the path to the server PID file.
func (d *Dir) PIDPath() string {
	return filepath.Join(d.path, PIDFileName)
}

// TemplatesDir holds the lesson template and its images.
func (d *Dir) TemplatesDir() string {
	return filepath.Join(d.path, "templates")
}

// FontsDir holds the fonts used for rendering.
func (d *Dir) FontsDir() string {
	return filepath.Join(d.path, "fonts")
}

// ExportsDir returns the directory for rendered PDFs written by the CLI.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, "exports")
}

// ExportPath returns the default output path for a rendered document.
func (d *Dir) ExportPath(subject, class, mode string) string {
	return filepath.Join(d.ExportsDir(), fmt.Sprintf("%s_%s_%s.pdf", subject, class, mode))
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.DataPath(), d.TemplatesDir(), d.FontsDir(), d.ExportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
