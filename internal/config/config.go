// Package config holds the paths a conversion run works with. It is built
// once at startup and passed to every component.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultBuildDir is the flatpak-builder build directory, relative to the
	// working directory.
	DefaultBuildDir = ".flatpak-builder/build"

	// DefaultSandboxRoot is where flatpak-builder mounts the build directory.
	DefaultSandboxRoot = "/run/build"
)

// Env holds the settings read from the environment.
type Env struct {
	// Root overrides the directory holding the bundled releases and
	// foreign_deps data.
	Root string `envconfig:"FLATPAK_FLUTTER_ROOT"`
}

// Config holds all paths of a run.
type Config struct {
	// Root is the directory holding the bundled data.
	Root           string
	ReleasesDir    string
	ForeignDepsDir string

	// WorkDir is the absolute directory outputs are written to.
	WorkDir string
	// BuildDir is the build directory, relative to WorkDir.
	BuildDir    string
	SandboxRoot string
}

// Load builds the configuration. Without FLATPAK_FLUTTER_ROOT the data root
// is the directory of executable.
func Load(executable string) (*Config, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	root := env.Root
	if root == "" {
		root = filepath.Dir(executable)
	}

	return New(root, wd), nil
}

// New returns the configuration for a data root and working directory.
func New(root, workDir string) *Config {
	return &Config{
		Root:           root,
		ReleasesDir:    filepath.Join(root, "releases"),
		ForeignDepsDir: filepath.Join(root, "foreign_deps"),
		WorkDir:        workDir,
		BuildDir:       DefaultBuildDir,
		SandboxRoot:    DefaultSandboxRoot,
	}
}

// Path returns elem joined below WorkDir.
func (c *Config) Path(elem ...string) string {
	return filepath.Join(append([]string{c.WorkDir}, elem...)...)
}

// BuildPath returns elem joined below the absolute build directory.
func (c *Config) BuildPath(elem ...string) string {
	return filepath.Join(append([]string{c.WorkDir, c.BuildDir}, elem...)...)
}
