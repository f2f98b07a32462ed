// Package foreign resolves overrides for Dart packages that need more than
// their pub archive to build offline: extra pubspec.lock files, Cargo.lock
// files of native code, and additional Flatpak sources such as patches.
package foreign

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

const (
	// TableFile is the bundled override table, keyed by package and minimum version.
	TableFile = "foreign_deps.json"

	// LocalFile holds overrides applied regardless of the lockfile.
	LocalFile = "foreign.json"
)

// Rule describes what to add for a package.
type Rule struct {
	ExtraPubspecs []string      `yaml:"extra_pubspecs"`
	CargoLocks    []string      `yaml:"cargo_locks"`
	Manifest      *RuleManifest `yaml:"manifest"`
}

// RuleManifest is the manifest fragment embedded in a rule.
type RuleManifest struct {
	Sources []manifest.Source `yaml:"sources"`
}

// Table maps package names to their rules, keyed by minimum version.
type Table map[string]map[string]Rule

// LocalOverride is an entry of the local override file.
type LocalOverride struct {
	Name string
	Rule Rule
}

// LoadTable reads the override table from the root of fsys, the bundled
// foreign dependencies directory.
func LoadTable(fsys fs.FS) (Table, error) {
	data, err := fs.ReadFile(fsys, TableFile)
	if err != nil {
		return nil, fmt.Errorf("reading override table: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, zerr.Wrap(err, "parsing override table")
	}
	return table, nil
}

// LoadLocal reads the local override file. A missing file yields no
// overrides. Entries keep the order of the file.
func LoadLocal(path string) ([]LocalOverride, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local overrides: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing local overrides"), "path", path)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, zerr.With(zerr.New("local overrides must be an object"), "path", path)
	}

	var overrides []LocalOverride
	for i := 0; i+1 < len(m.Content); i += 2 {
		var rule Rule
		if err := m.Content[i+1].Decode(&rule); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "decoding local override"), "name", m.Content[i].Value)
		}
		overrides = append(overrides, LocalOverride{Name: m.Content[i].Value, Rule: rule})
	}
	return overrides, nil
}
