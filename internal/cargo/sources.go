package cargo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/hash"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

const (
	// VendorDir is where crates are unpacked, relative to the module build dir.
	VendorDir = "cargo/vendor"

	cratesURL        = "https://static.crates.io/crates"
	vendoredSources  = "vendored-sources"
	checksumFilename = ".cargo-checksum.json"
)

// Generator turns Cargo.lock files into Flatpak sources.
type Generator struct {
	Logger *zap.SugaredLogger
}

// NewGenerator creates a Generator.
func NewGenerator(logger *zap.SugaredLogger) *Generator {
	return &Generator{Logger: logger}
}

// Generate returns the sources vendoring every crate of the lockfiles in
// paths, followed by the cargo configuration pointing cargo at them. A crate
// locked by several files is emitted once.
func (g *Generator) Generate(ctx context.Context, paths []string) ([]manifest.Source, error) {
	var sources []manifest.Source
	seen := make(map[string]bool)
	gitSources := make(map[string]GitSource)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lock, err := LoadLock(p)
		if err != nil {
			return nil, err
		}
		g.Logger.Debugw("generating cargo sources", "lockfile", p, "packages", len(lock.Packages))

		for _, pkg := range lock.Packages {
			if pkg.Source == "" {
				// Workspace members are built from the app sources.
				continue
			}

			id := pkg.Name + "-" + pkg.Version
			if seen[id] {
				continue
			}
			seen[id] = true

			crate, err := g.crateSources(pkg, gitSources)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			sources = append(sources, crate...)
		}
	}

	return append(sources, configSource(gitSources)), nil
}

func (g *Generator) crateSources(pkg Package, gitSources map[string]GitSource) ([]manifest.Source, error) {
	dest := VendorDir + "/" + pkg.Name + "-" + pkg.Version

	switch {
	case pkg.Source == CratesIORegistry:
		if err := hash.ValidateSHA256(pkg.Checksum); err != nil {
			return nil, fmt.Errorf("crate %s %s: %w", pkg.Name, pkg.Version, err)
		}
		return []manifest.Source{
			{
				Type:   manifest.TypeArchive,
				URL:    fmt.Sprintf("%s/%s/%s.crate", cratesURL, pkg.Name, pkg.Name+"-"+pkg.Version),
				SHA256: pkg.Checksum,
				Dest:   dest,
				Extra:  map[string]any{"archive-type": "tar-gzip"},
			},
			checksumSource(dest, fmt.Sprintf("%q", pkg.Checksum)),
		}, nil

	case strings.HasPrefix(pkg.Source, "git+"):
		gs, err := ParseGitSource(pkg.Source)
		if err != nil {
			return nil, err
		}
		gitSources[gs.Key] = gs
		return []manifest.Source{
			{
				Type:   manifest.TypeGit,
				URL:    gs.URL,
				Commit: gs.Commit,
				Dest:   dest,
			},
			checksumSource(dest, "null"),
		}, nil
	}

	g.Logger.Warnw("unsupported crate source", "crate", pkg.Name, "source", pkg.Source)
	return nil, fmt.Errorf("crate %s: %w: %s", pkg.Name, ErrUnsupportedSource, pkg.Source)
}

func checksumSource(dest, pkgChecksum string) manifest.Source {
	return manifest.Source{
		Type:         manifest.TypeInline,
		Contents:     fmt.Sprintf(`{"package": %s, "files": {}}`, pkgChecksum),
		DestFilename: checksumFilename,
		Dest:         dest,
	}
}

// configSource renders .cargo/config replacing crates.io and every git source
// with the vendored directory.
func configSource(gitSources map[string]GitSource) manifest.Source {
	var b strings.Builder
	fmt.Fprintf(&b, "[source.%s]\ndirectory = %q\n\n", vendoredSources, VendorDir)
	fmt.Fprintf(&b, "[source.crates-io]\nreplace-with = %q\n", vendoredSources)

	keys := make([]string, 0, len(gitSources))
	for k := range gitSources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		gs := gitSources[k]
		fmt.Fprintf(&b, "\n[source.%q]\ngit = %q\n", k, gs.URL)
		for _, sel := range []string{"branch", "tag", "rev"} {
			if v, ok := gs.Query[sel]; ok {
				fmt.Fprintf(&b, "%s = %q\n", sel, v)
			}
		}
		fmt.Fprintf(&b, "replace-with = %q\n", vendoredSources)
	}

	return manifest.Source{
		Type:         manifest.TypeInline,
		Contents:     b.String(),
		DestFilename: "config",
		Dest:         "cargo",
	}
}
