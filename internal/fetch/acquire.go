package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/config"
)

const rawGitHubURL = "https://raw.githubusercontent.com"

// Downloader retrieves a URL to a local file.
type Downloader interface {
	Download(ctx context.Context, url, dst string) error
}

// Acquired is a manifest made available in the working directory.
type Acquired struct {
	// Path is the local manifest file.
	Path string
	// Origin names where the manifest came from.
	Origin string
}

// Acquirer makes the input manifest available locally.
type Acquirer struct {
	Downloader Downloader
	Runner     Runner
	Config     *config.Config
	Logger     *zap.SugaredLogger
}

// NewAcquirer creates an Acquirer.
func NewAcquirer(d Downloader, r Runner, cfg *config.Config, logger *zap.SugaredLogger) *Acquirer {
	return &Acquirer{Downloader: d, Runner: r, Config: cfg, Logger: logger}
}

// RawURL returns the raw file URL of manifest on branch of a GitHub
// repository. It reports false for other hosts or without a branch.
func RawURL(repo, branch, manifest string) (string, bool) {
	u, err := url.Parse(repo)
	if err != nil || u.Hostname() != "github.com" || branch == "" {
		return "", false
	}

	p, _, _ := strings.Cut(u.Path, ".git")
	return fmt.Sprintf("%s%s/%s/%s", rawGitHubURL, strings.TrimSuffix(p, "/"), branch, manifest), true
}

// Acquire returns the local manifest. Without repo the manifest path is used
// as given. Otherwise the manifest is downloaded from GitHub when possible or
// taken from a shallow clone of repo, and placed in the working directory.
func (a *Acquirer) Acquire(ctx context.Context, manifest, repo, branch string) (*Acquired, error) {
	if repo == "" {
		return &Acquired{Path: manifest, Origin: manifest}, nil
	}

	name := filepath.Base(manifest)
	dst := a.Config.Path(name)

	if raw, ok := RawURL(repo, branch, manifest); ok {
		a.Logger.Debugw("downloading manifest", "url", raw)
		if err := a.Downloader.Download(ctx, raw, dst); err != nil {
			return nil, err
		}
		return &Acquired{Path: dst, Origin: raw}, nil
	}

	if err := a.fromClone(ctx, manifest, repo, branch, dst); err != nil {
		return nil, err
	}
	return &Acquired{Path: dst, Origin: manifest}, nil
}

func (a *Acquirer) fromClone(ctx context.Context, manifest, repo, branch, dst string) error {
	cloneDir := a.Config.BuildPath(filepath.Base(manifest))
	src := filepath.Join(cloneDir, manifest)

	_, err := os.Stat(src)
	switch {
	case err == nil:
		a.Logger.Debugw("reusing clone", "dir", cloneDir)
	case errors.Is(err, fs.ErrNotExist):
		args := []string{"clone", "--depth", "1"}
		if branch != "" {
			args = append(args, "--branch", branch)
		}
		args = append(args, repo, cloneDir)

		if err := a.Runner.Run(ctx, Command{Name: "git", Args: args}); err != nil {
			return fmt.Errorf("cloning %s: %w", repo, err)
		}
	default:
		return fmt.Errorf("checking clone: %w", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading manifest from clone: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := os.RemoveAll(cloneDir); err != nil {
		return fmt.Errorf("removing clone: %w", err)
	}
	return nil
}
