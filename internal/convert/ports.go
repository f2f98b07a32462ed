package convert

import (
	"context"

	"github.com/theappgineer/flatpak-flutter/internal/fetch"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// ManifestAcquirer makes the input manifest available locally.
type ManifestAcquirer interface {
	Acquire(ctx context.Context, manifest, repo, branch string) (*fetch.Acquired, error)
}

// AppFetcher fetches the sources of the app module and rewrites its Flutter
// source in m. An empty Tag in the result means there is nothing to convert.
type AppFetcher interface {
	FetchApp(ctx context.Context, m *manifest.Manifest, module string) (*fetch.App, error)
}

// PubGetter populates the pub cache of a fetched app.
type PubGetter interface {
	PubGet(ctx context.Context, module, pubspecDir string) error
}

// PubSourceGenerator turns pubspec.lock files into sources.
type PubSourceGenerator interface {
	Generate(paths []string) ([]manifest.Source, error)
}

// CargoSourceGenerator turns Cargo.lock files into sources.
type CargoSourceGenerator interface {
	Generate(ctx context.Context, paths []string) ([]manifest.Source, error)
}

// SDKGenerator produces the sources of the Flutter SDK checked out in
// flutterDir.
type SDKGenerator interface {
	Generate(ctx context.Context, flutterDir, tag string) ([]manifest.Source, error)
}
