// Package pubspec reads Dart pubspec.lock files and turns the packages they
// pin into Flatpak sources.
package pubspec

import (
	"fmt"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Package sources as recorded in pubspec.lock.
const (
	SourceHosted = "hosted"
	SourceGit    = "git"
	SourcePath   = "path"
	SourceSDK    = "sdk"
)

// ErrMalformedLock is returned when a lockfile does not have the expected shape.
var ErrMalformedLock = zerr.New("malformed pubspec.lock")

// Lock is a parsed pubspec.lock. Packages keep the order of the file.
type Lock struct {
	Packages []Package
	SDKs     map[string]string

	index map[string]int
}

// Package is a single locked package.
type Package struct {
	Name        string      `yaml:"-"`
	Version     string      `yaml:"version"`
	Source      string      `yaml:"source"`
	Dependency  string      `yaml:"dependency"`
	Description Description `yaml:"description"`
}

// Description holds the source specific details of a locked package. For sdk
// packages the description is a bare string, stored in SDK.
type Description struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	SHA256      string `yaml:"sha256"`
	Path        string `yaml:"path"`
	Ref         string `yaml:"ref"`
	ResolvedRef string `yaml:"resolved-ref"`
	Relative    bool   `yaml:"relative"`

	SDK string `yaml:"-"`
}

type plainDescription Description

// UnmarshalYAML accepts the mapping form and the bare string form.
func (d *Description) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = Description{SDK: node.Value}
		return nil
	}

	var p plainDescription
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Description(p)
	return nil
}

type lockDocument struct {
	Packages yaml.Node         `yaml:"packages"`
	SDKs     map[string]string `yaml:"sdks"`
}

// LoadLock reads a pubspec.lock from path.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pubspec.lock: %w", err)
	}

	lock, err := ParseLock(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// ParseLock decodes the contents of a pubspec.lock.
func ParseLock(data []byte) (*Lock, error) {
	var doc lockDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "parsing pubspec.lock")
	}

	lock := &Lock{
		SDKs:  doc.SDKs,
		index: make(map[string]int),
	}

	// An empty lockfile has no packages key at all.
	if doc.Packages.Kind == 0 {
		return lock, nil
	}
	if doc.Packages.Kind != yaml.MappingNode {
		return nil, zerr.Wrap(ErrMalformedLock, "packages is not a mapping")
	}

	content := doc.Packages.Content
	for i := 0; i+1 < len(content); i += 2 {
		var pkg Package
		if err := content[i+1].Decode(&pkg); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "decoding package"), "package", content[i].Value)
		}
		pkg.Name = content[i].Value

		lock.index[pkg.Name] = len(lock.Packages)
		lock.Packages = append(lock.Packages, pkg)
	}

	return lock, nil
}

// Package returns the locked package with the given name.
func (l *Lock) Package(name string) (Package, bool) {
	i, ok := l.index[name]
	if !ok {
		return Package{}, false
	}
	return l.Packages[i], true
}
