package manifest

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Source type tags used by flatpak-builder.
const (
	TypeArchive = "archive"
	TypeFile    = "file"
	TypeGit     = "git"
	TypeInline  = "inline"
	TypePatch   = "patch"
	TypeShell   = "shell"
)

// Placeholders substituted in foreign dependency sources.
const (
	PlaceholderPubDev = "$PUB_DEV"
	PlaceholderApp    = "$APP"
)

// Source is a single entry of a module's sources list.
//
// A source is either a descriptor keyed by Type, or a bare reference to an
// external JSON file holding more sources, in which case only File is set.
type Source struct {
	File string `yaml:"-"`

	Type            string   `yaml:"type"`
	URL             string   `yaml:"url,omitempty"`
	Path            string   `yaml:"path,omitempty"`
	Tag             string   `yaml:"tag,omitempty"`
	Commit          string   `yaml:"commit,omitempty"`
	Branch          string   `yaml:"branch,omitempty"`
	SHA256          string   `yaml:"sha256,omitempty"`
	StripComponents *int     `yaml:"strip-components,omitempty"`
	Contents        string   `yaml:"contents,omitempty"`
	Commands        []string `yaml:"commands,omitempty"`
	OnlyArches      []string `yaml:"only-arches,omitempty"`
	DestFilename    string   `yaml:"dest-filename,omitempty"`
	Dest            string   `yaml:"dest,omitempty"`

	// Extra holds keys this tool does not interpret, carried through as is.
	Extra map[string]any `yaml:",inline"`
}

// FileRef returns a source referencing an external sources file.
func FileRef(name string) Source {
	return Source{File: name}
}

// IsFileRef reports whether the source is a bare file reference.
func (s Source) IsFileRef() bool {
	return s.File != ""
}

// Clone returns a deep copy of s.
func (s Source) Clone() Source {
	c := s
	if s.StripComponents != nil {
		n := *s.StripComponents
		c.StripComponents = &n
	}
	c.Commands = append([]string(nil), s.Commands...)
	c.OnlyArches = append([]string(nil), s.OnlyArches...)
	if s.Extra != nil {
		c.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Substitute replaces the $PUB_DEV and $APP placeholders in the destination
// and, for patches, in the patch path.
func (s Source) Substitute(pubDev, app string) Source {
	r := strings.NewReplacer(PlaceholderPubDev, pubDev, PlaceholderApp, app)

	c := s.Clone()
	c.Dest = r.Replace(c.Dest)
	if c.Type == TypePatch {
		c.Path = r.Replace(c.Path)
	}
	return c
}

type plainSource Source

// MarshalYAML encodes file references as plain strings.
func (s Source) MarshalYAML() (any, error) {
	if s.IsFileRef() {
		return s.File, nil
	}
	return plainSource(s), nil
}

// UnmarshalYAML accepts both descriptor mappings and bare file references.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = Source{File: node.Value}
		return nil
	}

	var p plainSource
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Source(p)
	return nil
}
