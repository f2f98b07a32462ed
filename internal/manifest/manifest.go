// Package manifest reads, patches and writes Flatpak application manifests.
//
// Manifests are kept as YAML node trees so that key order and comments of
// the input survive the round trip, for both the YAML and JSON flavours.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrModuleNotFound is returned when no module carries the requested name.
	ErrModuleNotFound = zerr.New("module not found in manifest")

	// ErrNotMapping is returned when the manifest document is not a mapping.
	ErrNotMapping = zerr.New("manifest is not a mapping")

	// ErrNoModules is returned when the manifest lists no modules.
	ErrNoModules = zerr.New("manifest has no modules")
)

// Format is the serialization flavour of a manifest.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFromPath derives the format from the file suffix. Anything but .json
// is treated as YAML.
func FormatFromPath(path string) Format {
	if filepath.Ext(path) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Manifest is a parsed Flatpak manifest.
type Manifest struct {
	Format Format

	doc *yaml.Node
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return m, nil
}

// Parse decodes a manifest. JSON input is parsed with the YAML decoder, JSON
// being a subset of YAML.
func Parse(data []byte, format Format) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, zerr.Wrap(err, "parsing manifest")
	}

	if root(&doc) == nil || root(&doc).Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	return &Manifest{Format: format, doc: &doc}, nil
}

// AppID returns the application id, read from app-id or id.
func (m *Manifest) AppID() string {
	for _, key := range []string{"app-id", "id"} {
		if v := lookup(root(m.doc), key); v != nil && v.Kind == yaml.ScalarNode {
			return v.Value
		}
	}
	return ""
}

// Modules returns all modules of the manifest, depth first. Modules given as
// bare file references are not included.
func (m *Manifest) Modules() []*Module {
	var modules []*Module
	collectModules(root(m.doc), &modules)
	return modules
}

// Module returns the module with the given name.
func (m *Manifest) Module(name string) (*Module, error) {
	for _, mod := range m.Modules() {
		if mod.Name() == name {
			return mod, nil
		}
	}
	return nil, zerr.With(zerr.Wrap(ErrModuleNotFound, "looking up module"), "module", name)
}

// LastModule returns the last top-level module. By flatpak-builder
// convention this is the application itself.
func (m *Manifest) LastModule() (*Module, error) {
	seq := lookup(root(m.doc), "modules")
	if seq != nil && seq.Kind == yaml.SequenceNode {
		for i := len(seq.Content) - 1; i >= 0; i-- {
			if seq.Content[i].Kind == yaml.MappingNode {
				return &Module{node: seq.Content[i]}, nil
			}
		}
	}
	return nil, ErrNoModules
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	return &Manifest{Format: m.Format, doc: cloneNode(m.doc)}
}

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Alias = cloneNode(n.Alias)
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = cloneNode(child)
	}
	return &c
}

func collectModules(parent *yaml.Node, out *[]*Module) {
	seq := lookup(parent, "modules")
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}

	for _, n := range seq.Content {
		if n.Kind != yaml.MappingNode {
			continue
		}
		*out = append(*out, &Module{node: n})
		collectModules(n, out)
	}
}

// Module is a single module mapping inside a manifest.
type Module struct {
	node *yaml.Node
}

// Name returns the module name, or an empty string.
func (mod *Module) Name() string {
	if v := lookup(mod.node, "name"); v != nil {
		return v.Value
	}
	return ""
}

// Sources decodes the module's sources list.
func (mod *Module) Sources() ([]Source, error) {
	seq := lookup(mod.node, "sources")
	if seq == nil {
		return nil, nil
	}

	var sources []Source
	if err := seq.Decode(&sources); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decoding sources"), "module", mod.Name())
	}
	return sources, nil
}

// SetSources replaces the module's sources list.
func (mod *Module) SetSources(sources []Source) error {
	var seq yaml.Node
	if err := seq.Encode(sources); err != nil {
		return zerr.With(zerr.Wrap(err, "encoding sources"), "module", mod.Name())
	}

	if existing := lookup(mod.node, "sources"); existing != nil {
		*existing = seq
		return nil
	}

	mod.node.Content = append(mod.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "sources"},
		&seq,
	)
	return nil
}

// Set sets key to value, appending the key when the module lacks it.
func (mod *Module) Set(key string, value any) error {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return zerr.With(zerr.Wrap(err, "encoding "+key), "module", mod.Name())
	}

	if existing := lookup(mod.node, key); existing != nil {
		*existing = n
		return nil
	}

	mod.node.Content = append(mod.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&n,
	)
	return nil
}

// AppendSources appends sources to the module's sources list, creating the
// list when the module has none.
func (mod *Module) AppendSources(sources ...Source) error {
	seq := lookup(mod.node, "sources")
	if seq == nil {
		return mod.SetSources(sources)
	}
	if seq.Kind != yaml.SequenceNode {
		return zerr.With(zerr.New("sources is not a list"), "module", mod.Name())
	}
	seq.Style &^= yaml.FlowStyle

	for _, src := range sources {
		var n yaml.Node
		if err := n.Encode(src); err != nil {
			return zerr.With(zerr.Wrap(err, "encoding source"), "module", mod.Name())
		}
		seq.Content = append(seq.Content, &n)
	}
	return nil
}

// ReplaceSource replaces the i-th entry of the module's sources list with
// sources, leaving the other entries untouched.
func (mod *Module) ReplaceSource(i int, sources ...Source) error {
	seq := lookup(mod.node, "sources")
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return zerr.With(zerr.New("sources is not a list"), "module", mod.Name())
	}
	if i < 0 || i >= len(seq.Content) {
		return zerr.With(zerr.With(zerr.New("source index out of range"), "module", mod.Name()), "index", i)
	}

	nodes := make([]*yaml.Node, 0, len(seq.Content)+len(sources)-1)
	nodes = append(nodes, seq.Content[:i]...)
	for _, src := range sources {
		var n yaml.Node
		if err := n.Encode(src); err != nil {
			return zerr.With(zerr.Wrap(err, "encoding source"), "module", mod.Name())
		}
		nodes = append(nodes, &n)
	}
	seq.Content = append(nodes, seq.Content[i+1:]...)
	return nil
}

func root(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

// lookup returns the value node for key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
