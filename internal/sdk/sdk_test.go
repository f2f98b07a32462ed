package sdk

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theappgineer/flatpak-flutter/internal/manifest"
)

type fakeDownloader struct {
	urls []string
	err  error
	// body replaces the zip archive written by default.
	body []byte
}

func (f *fakeDownloader) Download(_ context.Context, url, dst string) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	if f.body != nil {
		return os.WriteFile(dst, f.body, 0o644)
	}
	return os.WriteFile(dst, dartSDKZip(), 0o644)
}

func dartSDKZip() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("dart-sdk/version")
	_, _ = w.Write([]byte("3.7.2\n"))
	_ = zw.Close()
	return buf.Bytes()
}

func zipSHA256(t *testing.T) string {
	t.Helper()
	sum := sha256.Sum256(dartSDKZip())
	return hex.EncodeToString(sum[:])
}

func fixedRevision(rev string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return rev, nil }
}

func TestSharedPatch(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{tag: "3.29.3", want: "flutter-pre-3_35-shared.sh.patch"},
		{tag: "3.35.0-0.1.pre", want: "flutter-pre-3_35-shared.sh.patch"},
		{tag: "3.35.0", want: "flutter-shared.sh.patch"},
		{tag: "3.38.1", want: "flutter-shared.sh.patch"},
		{tag: "stable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := SharedPatch(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourcesFile(t *testing.T) {
	assert.Equal(t, "flutter-sdk-3.29.3.json", SourcesFile("3.29.3"))
}

func TestGenerateWithEngineVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin", "internal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "internal", "engine.version"), []byte("engine123\n"), 0o644))

	d := &fakeDownloader{}
	g := &Generator{Downloader: d, Logger: zap.NewNop().Sugar(), Revision: fixedRevision("fw456")}

	sources, err := g.Generate(context.Background(), dir, "3.29.3")
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, manifest.Source{
		Type:   manifest.TypeGit,
		URL:    FlutterRepo,
		Tag:    "3.29.3",
		Commit: "fw456",
		Dest:   "flutter",
	}, sources[0])

	assert.Equal(t, []string{
		"https://storage.googleapis.com/flutter_infra_release/flutter/engine123/dart-sdk-linux-x64.zip",
		"https://storage.googleapis.com/flutter_infra_release/flutter/engine123/dart-sdk-linux-arm64.zip",
	}, d.urls)
	assert.Equal(t, zipSHA256(t), sources[1].SHA256)
	assert.Equal(t, []string{"x86_64"}, sources[1].OnlyArches)
	assert.Equal(t, []string{"aarch64"}, sources[2].OnlyArches)
}

func TestGenerateWithoutEngineVersionUsesCommit(t *testing.T) {
	d := &fakeDownloader{}
	g := &Generator{Downloader: d, Logger: zap.NewNop().Sugar(), Revision: fixedRevision("fw456")}

	_, err := g.Generate(context.Background(), t.TempDir(), "3.35.1")
	require.NoError(t, err)
	require.NotEmpty(t, d.urls)
	assert.Contains(t, d.urls[0], "/fw456/")
}

func TestGenerateDownloadFailure(t *testing.T) {
	d := &fakeDownloader{err: errors.New("boom")}
	g := &Generator{Downloader: d, Logger: zap.NewNop().Sugar(), Revision: fixedRevision("fw456")}

	_, err := g.Generate(context.Background(), t.TempDir(), "3.35.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGenerateRejectsNonZip(t *testing.T) {
	d := &fakeDownloader{body: []byte("<!DOCTYPE html><html><body>Not Found</body></html>")}
	g := &Generator{Downloader: d, Logger: zap.NewNop().Sugar(), Revision: fixedRevision("fw456")}

	_, err := g.Generate(context.Background(), t.TempDir(), "3.35.1")
	assert.ErrorIs(t, err, ErrNotZip)
}

func TestGenerateRevisionFailure(t *testing.T) {
	g := &Generator{
		Downloader: &fakeDownloader{},
		Logger:     zap.NewNop().Sugar(),
		Revision: func(context.Context, string) (string, error) {
			return "", errors.New("not a git repository")
		},
	}

	_, err := g.Generate(context.Background(), t.TempDir(), "3.35.1")
	require.Error(t, err)
}
