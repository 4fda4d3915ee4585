// Package config loads the optional lkgen.yaml file that tunes generation:
// packages to leave out of the output and overrides for the output filenames.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is where Load looks when no --config flag is given.
const DefaultFile = "lkgen.yaml"

const (
	defaultTestsFile     = "lkg.txt"
	defaultNotebooksFile = "lkg-notebook.txt"
)

// Config holds the settings read from lkgen.yaml.
type Config struct {
	// Exclude lists package names to drop from every output file.
	// Names are compared after canonicalization, so "My_Package" and
	// "my-package" are the same exclusion.
	Exclude []string `yaml:"exclude"`
	Output  Output   `yaml:"output"`
}

// Output overrides the generated filenames.
type Output struct {
	Tests     string `yaml:"tests"`
	Notebooks string `yaml:"notebooks"`
}

// Load reads a config file.
// Returns nil (not an error) if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &c, nil
}

// TestsFile returns the filename for the tests requirements output.
// Safe to call on a nil receiver.
func (c *Config) TestsFile() string {
	if c == nil || c.Output.Tests == "" {
		return defaultTestsFile
	}
	return c.Output.Tests
}

// NotebooksFile returns the filename for the notebooks requirements output.
// Safe to call on a nil receiver.
func (c *Config) NotebooksFile() string {
	if c == nil || c.Output.Notebooks == "" {
		return defaultNotebooksFile
	}
	return c.Output.Notebooks
}

// Excluded returns the configured exclusion list.
// Safe to call on a nil receiver.
func (c *Config) Excluded() []string {
	if c == nil {
		return nil
	}
	return c.Exclude
}
