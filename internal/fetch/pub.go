package fetch

import (
	"context"
	"path/filepath"

	"github.com/theappgineer/flatpak-flutter/internal/config"
	"github.com/theappgineer/flatpak-flutter/internal/pubspec"
)

// PubGetter primes the pub cache of a fetched app with the Flutter SDK of
// its own checkout.
type PubGetter struct {
	Runner Runner
	Config *config.Config
}

// NewPubGetter creates a PubGetter.
func NewPubGetter(r Runner, cfg *config.Config) *PubGetter {
	return &PubGetter{Runner: r, Config: cfg}
}

// PubGet runs flutter pub get for the pubspec in pubspecDir, relative to the
// build directory of module. The cache is placed in the build directory.
func (p *PubGetter) PubGet(ctx context.Context, module, pubspecDir string) error {
	appDir := p.Config.BuildPath(module)

	return p.Runner.Run(ctx, Command{
		Name: filepath.Join(appDir, "flutter", "bin", "flutter"),
		Args: []string{"pub", "get", "-C", filepath.Join(appDir, pubspecDir)},
		Env:  []string{"PUB_CACHE=" + filepath.Join(appDir, "."+pubspec.PubCache)},
	})
}
