// Package cargo turns Cargo.lock files of native plugins into Flatpak sources
// that vendor every crate for an offline build.
package cargo

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"
)

// CratesIORegistry is the source of crates published on crates.io.
const CratesIORegistry = "registry+https://github.com/rust-lang/crates.io-index"

// ErrUnsupportedSource is returned for crate sources other than crates.io and git.
var ErrUnsupportedSource = zerr.New("unsupported crate source")

// Lock is a parsed Cargo.lock.
type Lock struct {
	Version  int       `toml:"version"`
	Packages []Package `toml:"package"`
}

// Package is a single locked crate.
type Package struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

// LoadLock reads a Cargo.lock from path.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading Cargo.lock: %w", err)
	}

	var lock Lock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing Cargo.lock"), "path", path)
	}
	return &lock, nil
}

// GitSource is a parsed git+ crate source.
type GitSource struct {
	// Key is the source string as written in the lockfile, minus the commit.
	Key    string
	URL    string
	Commit string
	// Query is the branch, tag or rev selector, if any.
	Query map[string]string
}

// ParseGitSource parses sources like git+https://host/repo?branch=main#<commit>.
func ParseGitSource(source string) (GitSource, error) {
	rest, ok := strings.CutPrefix(source, "git+")
	if !ok {
		return GitSource{}, zerr.With(zerr.Wrap(ErrUnsupportedSource, "parsing git source"), "source", source)
	}

	key, commit, _ := strings.Cut(source, "#")
	rest, _, _ = strings.Cut(rest, "#")

	u, err := url.Parse(rest)
	if err != nil {
		return GitSource{}, fmt.Errorf("parsing git source %q: %w", source, err)
	}

	query := make(map[string]string)
	for k, v := range u.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	u.RawQuery = ""
	u.Fragment = ""

	return GitSource{Key: key, URL: u.String(), Commit: commit, Query: query}, nil
}
