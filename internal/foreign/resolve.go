package foreign

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/manifest"
	"github.com/theappgineer/flatpak-flutter/internal/pubspec"
)

// CopyOp copies a file of the foreign dependencies directory to a path
// relative to the output directory.
type CopyOp struct {
	Src string
	Dst string
}

// Result is the aggregated outcome of resolving overrides.
type Result struct {
	ExtraPubspecs []string
	CargoLocks    []string
	Sources       []manifest.Source
	Copies        []CopyOp
	Warnings      []string
}

// Resolver applies override rules to a resolved lockfile.
//
// Resolution does not touch the filesystem beyond reading FS; the patch files
// to put in place are returned as CopyOps for Materialize.
type Resolver struct {
	// FS is the foreign dependencies directory holding the patch files.
	FS fs.FS
	// App is the app pubspec directory, relative to the app sources. It
	// replaces the $APP placeholder.
	App    string
	Logger *zap.SugaredLogger
}

// NewResolver creates a Resolver.
func NewResolver(fsys fs.FS, app string, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{FS: fsys, App: app, Logger: logger}
}

// Resolve applies the local overrides unconditionally, then the table rules of
// every package present in both lock and table, in lockfile order.
func (r *Resolver) Resolve(table Table, lock *pubspec.Lock, local []LocalOverride) (*Result, error) {
	res := &Result{}

	for _, o := range local {
		r.apply(res, o.Rule, "")
	}

	for _, pkg := range lock.Packages {
		rules, ok := table[pkg.Name]
		if !ok {
			continue
		}

		if pkg.Source != pubspec.SourceHosted {
			r.warn(res, fmt.Sprintf("skipping foreign dependency %s, not sourced from pub.dev", pkg.Name),
				"package", pkg.Name, "source", pkg.Source)
			continue
		}

		m, err := Select(pkg.Version, rules)
		if err != nil {
			return nil, fmt.Errorf("selecting override for %s: %w", pkg.Name, err)
		}
		if m.Fallback && len(rules) > 1 {
			r.warn(res, fmt.Sprintf("no override of %s applies to version %s, using %s", pkg.Name, pkg.Version, m.MinVersion),
				"package", pkg.Name, "version", pkg.Version, "override", m.MinVersion)
		}
		r.Logger.Debugw("applying override", "package", pkg.Name, "version", pkg.Version, "override", m.MinVersion)

		r.apply(res, m.Rule, pubspec.HostedCacheDir(pkg.Name, pkg.Version))
	}

	return res, nil
}

func (r *Resolver) apply(res *Result, rule Rule, pubDev string) {
	for _, p := range rule.ExtraPubspecs {
		res.ExtraPubspecs = append(res.ExtraPubspecs, strings.ReplaceAll(p, manifest.PlaceholderPubDev, pubDev))
	}

	for _, p := range rule.CargoLocks {
		res.CargoLocks = append(res.CargoLocks, strings.ReplaceAll(p, manifest.PlaceholderPubDev, pubDev))
	}

	if rule.Manifest == nil {
		return
	}

	for _, src := range rule.Manifest.Sources {
		resolved := src.Substitute(pubDev, r.App)
		if src.Type == manifest.TypePatch {
			if name, ok := r.bundled(src.Path); ok {
				res.Copies = append(res.Copies, CopyOp{Src: name, Dst: resolved.Path})
			}
		}
		res.Sources = append(res.Sources, resolved)
	}
}

// bundled reports whether name is a regular file in the foreign dependencies
// directory, and returns it in the cleaned form FS accepts.
func (r *Resolver) bundled(name string) (string, bool) {
	name = path.Clean(name)
	if r.FS == nil || !fs.ValidPath(name) {
		return "", false
	}
	info, err := fs.Stat(r.FS, name)
	return name, err == nil && info.Mode().IsRegular()
}

func (r *Resolver) warn(res *Result, msg string, keysAndValues ...any) {
	res.Warnings = append(res.Warnings, msg)
	r.Logger.Warnw(msg, keysAndValues...)
}
