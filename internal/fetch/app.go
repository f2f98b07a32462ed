package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/config"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
	"github.com/theappgineer/flatpak-flutter/internal/pubspec"
	"github.com/theappgineer/flatpak-flutter/internal/sdk"
)

var (
	// ErrNoBuildDir is returned when flatpak-builder left no usable build
	// directory for the app module.
	ErrNoBuildDir = zerr.New("no build directory for app module")

	// ErrNoFlutterCheckout is returned when the build directory lacks the
	// Flutter checkout.
	ErrNoFlutterCheckout = zerr.New("no Flutter checkout in build directory")
)

// fetchManifest is the temporary manifest flatpak-builder is run on.
const fetchManifest = ".flatpak-flutter-fetch"

// App describes a fetched Flutter application.
type App struct {
	ID     string
	Module string
	// Tag is the pinned Flutter release, empty when the app module has no
	// tagged Flutter source.
	Tag string
	// BuildID is the numeric suffix of the kept build directory.
	BuildID int
}

// AppFetcher lets flatpak-builder download and extract the sources of the app
// module, including its Flutter checkout, into the build directory.
type AppFetcher struct {
	Runner Runner
	Config *config.Config
	Logger *zap.SugaredLogger
}

// NewAppFetcher creates an AppFetcher.
func NewAppFetcher(r Runner, cfg *config.Config, logger *zap.SugaredLogger) *AppFetcher {
	return &AppFetcher{Runner: r, Config: cfg, Logger: logger}
}

// FetchApp fetches the app module named module, or the last module of m when
// module is empty. On success the Flutter source of the module in m is
// replaced by references to the generated SDK and pub sources.
func (f *AppFetcher) FetchApp(ctx context.Context, m *manifest.Manifest, module string) (*App, error) {
	mod, err := appModule(m, module)
	if err != nil {
		return nil, err
	}
	app := &App{ID: m.AppID(), Module: mod.Name()}

	sources, err := mod.Sources()
	if err != nil {
		return nil, err
	}

	idx := flutterSource(sources)
	if idx < 0 || sources[idx].Tag == "" {
		f.Logger.Infow("no tagged Flutter source found, nothing to convert", "module", app.Module)
		return app, nil
	}
	tag := sources[idx].Tag

	if err := f.build(ctx, m, app.Module); err != nil {
		return nil, err
	}

	if app.BuildID, err = f.buildID(app.Module); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.Config.BuildPath(app.Module, "flutter")); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrNoFlutterCheckout, "checking build directory"), "module", app.Module)
	}
	app.Tag = tag

	err = mod.ReplaceSource(idx,
		manifest.FileRef(sdk.SourcesFile(tag)),
		manifest.Source{Type: manifest.TypePatch, Path: sdk.SharedPatchFile, Dest: "flutter"},
	)
	if err != nil {
		return nil, err
	}
	if err := mod.AppendSources(manifest.FileRef(pubspec.SourcesFile)); err != nil {
		return nil, err
	}
	return app, nil
}

func appModule(m *manifest.Manifest, name string) (*manifest.Module, error) {
	if name != "" {
		return m.Module(name)
	}
	return m.LastModule()
}

func flutterSource(sources []manifest.Source) int {
	for i, src := range sources {
		if src.Type == manifest.TypeGit && strings.Contains(src.URL, "flutter/flutter") {
			return i
		}
	}
	return -1
}

// build runs flatpak-builder on a copy of m in which the app module has no
// build commands, keeping its extracted sources.
func (f *AppFetcher) build(ctx context.Context, m *manifest.Manifest, module string) error {
	tmp := m.Clone()
	mod, err := tmp.Module(module)
	if err != nil {
		return err
	}
	if err := mod.Set("buildsystem", "simple"); err != nil {
		return err
	}
	if err := mod.Set("build-commands", []string{}); err != nil {
		return err
	}

	ext := ".yml"
	if m.Format == manifest.FormatJSON {
		ext = ".json"
	}
	path := f.Config.Path(fetchManifest + ext)
	if err := tmp.Save(path, ""); err != nil {
		return err
	}
	defer os.Remove(path)

	f.Logger.Infow("fetching app sources", "module", module)
	return f.Runner.Run(ctx, Command{
		Name: "flatpak-builder",
		Args: []string{
			"--user",
			"--install-deps-from=flathub",
			"--force-clean",
			"--keep-build-dirs",
			"--build-only",
			"--disable-rofiles-fuse",
			filepath.Join(filepath.Dir(f.Config.BuildDir), "app"),
			path,
		},
		Dir: f.Config.WorkDir,
	})
}

// buildID reads the numeric suffix of the build directory the module link
// points at.
func (f *AppFetcher) buildID(module string) (int, error) {
	link := f.Config.BuildPath(module)
	target, err := os.Readlink(link)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, zerr.With(zerr.Wrap(ErrNoBuildDir, "reading build link"), "module", module)
	}
	if err != nil {
		return 0, fmt.Errorf("reading build link: %w", err)
	}

	suffix, ok := strings.CutPrefix(filepath.Base(target), module+"-")
	id, err := strconv.Atoi(suffix)
	if !ok || err != nil {
		return 0, zerr.With(zerr.Wrap(ErrNoBuildDir, "parsing build link"), "target", target)
	}
	return id, nil
}
