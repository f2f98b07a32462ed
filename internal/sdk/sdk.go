// Package sdk produces the sources of the Flutter SDK pinned by an app.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.trai.ch/zerr"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/theappgineer/flatpak-flutter/internal/hash"
	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

const (
	// FlutterRepo is the upstream Flutter repository.
	FlutterRepo = "https://github.com/flutter/flutter.git"

	// SharedPatchFile is the name the shared.sh patch is emitted under.
	SharedPatchFile = "flutter-shared.sh.patch"

	sharedPatchPre335 = "flutter-pre-3_35-shared.sh.patch"
	infraURL          = "https://storage.googleapis.com/flutter_infra_release/flutter"
)

// Flatpak architectures and their Flutter artifact names.
var arches = []struct {
	flatpak string
	flutter string
}{
	{"x86_64", "linux-x64"},
	{"aarch64", "linux-arm64"},
}

// ErrNotZip is returned when a downloaded Dart SDK is not a zip archive, as
// happens when a mirror answers with an error page.
var ErrNotZip = zerr.New("download is not a zip archive")

// SourcesFile returns the name of the SDK sources file for tag.
func SourcesFile(tag string) string {
	return fmt.Sprintf("flutter-sdk-%s.json", tag)
}

// SharedPatch returns the releases file name of the shared.sh patch that
// applies to tag. Flutter 3.35 reworked bin/internal/shared.sh.
func SharedPatch(tag string) (string, error) {
	v := "v" + strings.TrimPrefix(tag, "v")
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid Flutter tag %q", tag)
	}
	if semver.Compare(v, "v3.35.0") < 0 {
		return sharedPatchPre335, nil
	}
	return SharedPatchFile, nil
}

// Downloader retrieves a URL to a local file.
type Downloader interface {
	Download(ctx context.Context, url, dst string) error
}

// Generator builds the SDK sources from a Flutter checkout.
type Generator struct {
	Downloader Downloader
	Logger     *zap.SugaredLogger

	// Revision returns the commit checked out in dir.
	Revision func(ctx context.Context, dir string) (string, error)
}

// NewGenerator creates a Generator resolving revisions with git.
func NewGenerator(d Downloader, logger *zap.SugaredLogger) *Generator {
	return &Generator{Downloader: d, Logger: logger, Revision: gitRevision}
}

// Generate returns the sources of the Flutter SDK checked out in flutterDir at
// tag: the framework repository and the prebuilt Dart SDK of each
// architecture, with checksums computed from a download.
func (g *Generator) Generate(ctx context.Context, flutterDir, tag string) ([]manifest.Source, error) {
	commit, err := g.Revision(ctx, flutterDir)
	if err != nil {
		return nil, fmt.Errorf("resolving Flutter revision: %w", err)
	}

	engine, err := engineVersion(flutterDir, commit)
	if err != nil {
		return nil, err
	}
	g.Logger.Debugw("generating Flutter SDK sources", "tag", tag, "commit", commit, "engine", engine)

	sources := []manifest.Source{{
		Type:   manifest.TypeGit,
		URL:    FlutterRepo,
		Tag:    tag,
		Commit: commit,
		Dest:   "flutter",
	}}

	tmp, err := os.MkdirTemp("", "flatpak-flutter-sdk-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, arch := range arches {
		url := fmt.Sprintf("%s/%s/dart-sdk-%s.zip", infraURL, engine, arch.flutter)
		dst := filepath.Join(tmp, "dart-sdk-"+arch.flutter+".zip")

		if err := g.Downloader.Download(ctx, url, dst); err != nil {
			return nil, fmt.Errorf("downloading %s: %w", url, err)
		}
		if err := checkZip(dst); err != nil {
			return nil, zerr.With(err, "url", url)
		}
		sum, err := hash.FileSHA256(dst)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", url, err)
		}

		sources = append(sources, manifest.Source{
			Type:       manifest.TypeArchive,
			URL:        url,
			SHA256:     sum,
			OnlyArches: []string{arch.flatpak},
			Dest:       "flutter/bin/cache/dart-sdk",
		})
	}

	return sources, nil
}

// engineVersion reads the pinned engine revision. Since the engine moved into
// the framework repository no version file is shipped and the framework
// commit is used.
func engineVersion(flutterDir, commit string) (string, error) {
	data, err := os.ReadFile(filepath.Join(flutterDir, "bin", "internal", "engine.version"))
	if errors.Is(err, fs.ErrNotExist) {
		return commit, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading engine.version: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func checkZip(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detecting file type: %w", err)
	}
	if !mtype.Is("application/zip") {
		return zerr.With(zerr.Wrap(ErrNotZip, "checking download"), "type", mtype.String())
	}
	return nil
}

func gitRevision(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
