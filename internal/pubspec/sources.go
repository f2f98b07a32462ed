package pubspec

import (
	"fmt"
	"net/url"
	"path"

	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/hash"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

const (
	// PubCache is the name of the pub cache directory, without the leading dot.
	PubCache = "pub-cache"

	// SourcesFile is the generated pub sources list referenced from the app
	// module.
	SourcesFile = "pubspec-sources.json"

	// DefaultHostedURL is the registry packages are hosted on by default.
	DefaultHostedURL = "https://pub.dev"
)

// HostedCacheDir returns the pub cache location of a hosted package, relative
// to the pubspec directory.
func HostedCacheDir(name, version string) string {
	return fmt.Sprintf(".%s/hosted/pub.dev/%s-%s", PubCache, name, version)
}

// Generator turns pubspec.lock files into Flatpak sources that populate an
// offline pub cache.
type Generator struct {
	Logger *zap.SugaredLogger
}

// NewGenerator creates a Generator.
func NewGenerator(logger *zap.SugaredLogger) *Generator {
	return &Generator{Logger: logger}
}

// Generate reads every lockfile in paths and returns the sources for all
// hosted and git packages. A package pinned by several lockfiles is emitted
// once, at its first occurrence.
func (g *Generator) Generate(paths []string) ([]manifest.Source, error) {
	var sources []manifest.Source
	seen := make(map[string]bool)

	for _, p := range paths {
		lock, err := LoadLock(p)
		if err != nil {
			return nil, err
		}

		for _, pkg := range lock.Packages {
			src, ok, err := g.source(pkg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			if !ok || seen[src.Dest] {
				continue
			}
			seen[src.Dest] = true
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func (g *Generator) source(pkg Package) (manifest.Source, bool, error) {
	switch pkg.Source {
	case SourceHosted:
		return hostedSource(pkg)
	case SourceGit:
		return gitSource(pkg)
	case SourceSDK, SourcePath:
		return manifest.Source{}, false, nil
	default:
		g.Logger.Warnw("skipping package with unknown source", "package", pkg.Name, "source", pkg.Source)
		return manifest.Source{}, false, nil
	}
}

func hostedSource(pkg Package) (manifest.Source, bool, error) {
	desc := pkg.Description
	if desc.SHA256 == "" {
		return manifest.Source{}, false, fmt.Errorf("package %s has no sha256, run pub get with a recent SDK", pkg.Name)
	}
	if err := hash.ValidateSHA256(desc.SHA256); err != nil {
		return manifest.Source{}, false, fmt.Errorf("package %s: %w", pkg.Name, err)
	}

	base := desc.URL
	if base == "" {
		base = DefaultHostedURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return manifest.Source{}, false, fmt.Errorf("package %s: parsing hosted url: %w", pkg.Name, err)
	}

	name := pkg.Name
	if desc.Name != "" {
		name = desc.Name
	}

	archive := *u
	archive.Path = path.Join(u.Path, "api", "archives", fmt.Sprintf("%s-%s.tar.gz", name, pkg.Version))

	strip := 0
	return manifest.Source{
		Type:            manifest.TypeArchive,
		URL:             archive.String(),
		SHA256:          desc.SHA256,
		StripComponents: &strip,
		Dest:            fmt.Sprintf(".%s/hosted/%s/%s-%s", PubCache, u.Host, name, pkg.Version),
	}, true, nil
}

func gitSource(pkg Package) (manifest.Source, bool, error) {
	desc := pkg.Description
	if desc.URL == "" || desc.ResolvedRef == "" {
		return manifest.Source{}, false, fmt.Errorf("git package %s lacks url or resolved-ref", pkg.Name)
	}

	return manifest.Source{
		Type:   manifest.TypeGit,
		URL:    desc.URL,
		Commit: desc.ResolvedRef,
		Dest:   fmt.Sprintf(".%s/git/%s-%s", PubCache, pkg.Name, desc.ResolvedRef),
	}, true, nil
}
