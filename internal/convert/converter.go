// Package convert turns a Flutter app manifest into an offline buildable one.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theappgineer/flatpak-flutter/internal/config"
	"github.com/theappgineer/flatpak-flutter/internal/foreign"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
	"github.com/theappgineer/flatpak-flutter/internal/pubspec"
	"github.com/theappgineer/flatpak-flutter/internal/rewrite"
	"github.com/theappgineer/flatpak-flutter/internal/sdk"
)

const (
	// RustVersion is the Rust toolchain the cargo sources are built with.
	RustVersion = "1.83.0"

	// PackageConfigFile is the rewritten flutter_tools package config.
	PackageConfigFile = "package_config.json"

	flutterTools = "flutter/packages/flutter_tools"
	projectURL   = "https://github.com/TheAppgineer/flatpak-flutter"
)

// Options are the per run inputs.
type Options struct {
	// Manifest is the input manifest path, relative to the repository root
	// when FromGit is set.
	Manifest string
	// AppModule names the app module, empty for the last module.
	AppModule string
	// AppPubspec is the app pubspec directory, relative to the app sources.
	AppPubspec    string
	ExtraPubspecs []string
	CargoLocks    []string
	FromGit       string
	FromGitBranch string
	KeepBuildDirs bool
}

// Result reports what a run produced.
type Result struct {
	AppID string
	Tag   string
	// Manifest is the converted manifest, empty when there was nothing to
	// convert.
	Manifest string
	// Files lists every file written to the working directory.
	Files []string
}

// Converter runs a conversion against its collaborators.
type Converter struct {
	Config *config.Config
	Logger *zap.SugaredLogger

	Acquirer  ManifestAcquirer
	Fetcher   AppFetcher
	PubGetter PubGetter
	Pub       PubSourceGenerator
	Cargo     CargoSourceGenerator
	SDK       SDKGenerator
}

// run is the state of a single conversion.
type run struct {
	opts     Options
	origin   string
	manifest *manifest.Manifest
	module   string
	buildID  int
	tag      string

	extraPubspecs []string
	cargoLocks    []string
	sources       []manifest.Source

	result *Result
}

// Run converts opts.Manifest. The steps run strictly in order and the first
// failure aborts the run.
func (c *Converter) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.AppPubspec == "" {
		opts.AppPubspec = "."
	}
	r := &run{opts: opts, result: &Result{}}

	if err := c.acquire(ctx, r); err != nil {
		return nil, err
	}

	app, err := c.Fetcher.FetchApp(ctx, r.manifest, opts.AppModule)
	if err != nil {
		return nil, fmt.Errorf("fetching app: %w", err)
	}
	r.result.AppID = app.ID
	if app.Tag == "" {
		c.Logger.Infow("nothing to convert", "module", app.Module)
		return r.result, nil
	}
	r.module, r.buildID, r.tag = app.Module, app.BuildID, app.Tag
	r.result.Tag = app.Tag

	if err := c.PubGetter.PubGet(ctx, r.module, opts.AppPubspec); err != nil {
		return nil, fmt.Errorf("fetching pub dependencies: %w", err)
	}

	if err := c.resolveForeign(r); err != nil {
		return nil, err
	}

	if err := c.pubSources(r); err != nil {
		return nil, err
	}

	if len(r.cargoLocks) > 0 {
		if err := c.cargoSources(ctx, r); err != nil {
			return nil, err
		}
	}

	if err := c.sdkModule(ctx, r); err != nil {
		return nil, err
	}

	if err := c.emit(r, app.ID); err != nil {
		return nil, err
	}

	if !opts.KeepBuildDirs {
		if err := c.cleanup(r); err != nil {
			return nil, err
		}
	}

	return r.result, nil
}

func (c *Converter) acquire(ctx context.Context, r *run) error {
	acquired, err := c.Acquirer.Acquire(ctx, r.opts.Manifest, r.opts.FromGit, r.opts.FromGitBranch)
	if err != nil {
		return fmt.Errorf("acquiring manifest: %w", err)
	}
	r.origin = acquired.Origin

	r.manifest, err = manifest.Load(acquired.Path)
	return err
}

func (c *Converter) resolveForeign(r *run) error {
	depsFS := os.DirFS(c.Config.ForeignDepsDir)

	table, err := foreign.LoadTable(depsFS)
	if err != nil {
		return err
	}

	lock, err := pubspec.LoadLock(c.Config.BuildPath(r.module, r.opts.AppPubspec, "pubspec.lock"))
	if err != nil {
		return err
	}

	local, err := foreign.LoadLocal(c.Config.Path(foreign.LocalFile))
	if err != nil {
		return err
	}

	res, err := foreign.NewResolver(depsFS, r.opts.AppPubspec, c.Logger).Resolve(table, lock, local)
	if err != nil {
		return err
	}

	if err := foreign.Materialize(c.Config.ForeignDepsDir, c.Config.WorkDir, res.Copies); err != nil {
		return err
	}
	for _, op := range res.Copies {
		r.result.Files = append(r.result.Files, op.Dst)
	}

	r.extraPubspecs = append(res.ExtraPubspecs, r.opts.ExtraPubspecs...)
	r.cargoLocks = append(res.CargoLocks, r.opts.CargoLocks...)
	r.sources = res.Sources
	return nil
}

// appPaths returns file below each of dirs, relative to the app build
// directory.
func (c *Converter) appPaths(module string, dirs []string, file string) []string {
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, c.Config.BuildPath(module, dir, file))
	}
	return paths
}

func (c *Converter) pubSources(r *run) error {
	dirs := append([]string{r.opts.AppPubspec, flutterTools}, r.extraPubspecs...)

	sources, err := c.Pub.Generate(c.appPaths(r.module, dirs, "pubspec.lock"))
	if err != nil {
		return fmt.Errorf("generating pub sources: %w", err)
	}
	sources = append(sources, manifest.Source{
		Type: manifest.TypeFile,
		Path: PackageConfigFile,
		Dest: path.Join(flutterTools, ".dart_tool"),
	})

	if err := c.write(r, pubspec.SourcesFile, sources); err != nil {
		return err
	}

	params := rewrite.Params{
		App:         r.module,
		BuildID:     r.buildID,
		BuildPath:   c.Config.BuildPath(r.module),
		SandboxRoot: c.Config.SandboxRoot,
	}
	src := c.Config.BuildPath(r.module, flutterTools, ".dart_tool", PackageConfigFile)
	if err := rewrite.PackageConfigFile(src, c.Config.Path(PackageConfigFile), params); err != nil {
		return err
	}
	r.result.Files = append(r.result.Files, PackageConfigFile)
	return nil
}

// cargoSources generates the cargo sources in the background and blocks until
// they are done; no other step runs meanwhile.
func (c *Converter) cargoSources(ctx context.Context, r *run) error {
	paths := c.appPaths(r.module, r.cargoLocks, "Cargo.lock")

	var sources []manifest.Source
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sources, err = c.Cargo.Generate(gctx, paths)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generating cargo sources: %w", err)
	}

	if err := c.write(r, manifest.CargoSourcesFile, sources); err != nil {
		return err
	}

	rustup := fmt.Sprintf("rustup-%s.json", RustVersion)
	return c.copyRelease(r, filepath.Join("rust", RustVersion, "rustup.json"), rustup)
}

func (c *Converter) sdkModule(ctx context.Context, r *run) error {
	patch, err := sdk.SharedPatch(r.tag)
	if err != nil {
		return err
	}
	if err := c.copyRelease(r, filepath.Join("flutter", patch), sdk.SharedPatchFile); err != nil {
		return err
	}

	name := sdk.SourcesFile(r.tag)
	pregenerated := filepath.Join("flutter", r.tag, "flutter-sdk.json")
	_, err = os.Stat(filepath.Join(c.Config.ReleasesDir, pregenerated))
	switch {
	case err == nil:
		return c.copyRelease(r, pregenerated, name)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("checking released SDK sources: %w", err)
	}

	sources, err := c.SDK.Generate(ctx, c.Config.BuildPath(r.module, "flutter"), r.tag)
	if err != nil {
		return fmt.Errorf("generating Flutter SDK sources: %w", err)
	}
	return c.write(r, name, sources)
}

func (c *Converter) emit(r *run, appID string) error {
	if err := manifest.Patch(r.manifest, r.module, r.sources, len(r.cargoLocks) > 0); err != nil {
		return err
	}

	ext := filepath.Ext(r.opts.Manifest)
	name := appID + ext
	header := fmt.Sprintf("# Generated from %s, do not edit\n# Visit the flatpak-flutter project at %s\n", r.origin, projectURL)

	if err := r.manifest.Save(c.Config.Path(name), header); err != nil {
		return err
	}
	r.result.Manifest = name
	r.result.Files = append(r.result.Files, name)
	return nil
}

func (c *Converter) cleanup(r *run) error {
	dir := c.Config.BuildPath(fmt.Sprintf("%s-%d", r.module, r.buildID))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing build directory: %w", err)
	}

	if err := os.Remove(c.Config.BuildPath(r.module)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing build link: %w", err)
	}
	c.Logger.Debugw("removed build directory", "dir", dir)
	return nil
}

func (c *Converter) write(r *run, name string, v any) error {
	if err := manifest.WriteJSON(c.Config.Path(name), v); err != nil {
		return err
	}
	r.result.Files = append(r.result.Files, name)
	return nil
}

func (c *Converter) copyRelease(r *run, src, dst string) error {
	op := foreign.CopyOp{Src: filepath.ToSlash(src), Dst: dst}
	if err := foreign.Materialize(c.Config.ReleasesDir, c.Config.WorkDir, []foreign.CopyOp{op}); err != nil {
		return err
	}
	r.result.Files = append(r.result.Files, dst)
	return nil
}
