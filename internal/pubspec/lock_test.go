package pubspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asyncSHA = "947bfcf187f74dbc5e146c9eb9c0f10c9f8b30743e341481c1e2ed3ecc18c20c"

const testLock = `# Generated by pub
# See https://dart.dev/tools/pub/glossary#lockfile
packages:
  zeta:
    dependency: transitive
    description:
      name: zeta
      sha256: "` + asyncSHA + `"
      url: "https://pub.dev"
    source: hosted
    version: "2.11.0"
  flutter:
    dependency: "direct main"
    description: flutter
    source: sdk
    version: "0.0.0"
  alpha:
    dependency: "direct main"
    description:
      path: "."
      ref: main
      resolved-ref: "0123456789abcdef0123456789abcdef01234567"
      url: "https://github.com/example/alpha.git"
    source: git
    version: "1.0.0"
sdks:
  dart: ">=3.4.0 <4.0.0"
  flutter: ">=3.22.0"
`

func TestParseLockKeepsOrder(t *testing.T) {
	lock, err := ParseLock([]byte(testLock))
	require.NoError(t, err)

	var names []string
	for _, pkg := range lock.Packages {
		names = append(names, pkg.Name)
	}
	assert.Equal(t, []string{"zeta", "flutter", "alpha"}, names)
	assert.Equal(t, ">=3.4.0 <4.0.0", lock.SDKs["dart"])
}

func TestParseLockDescriptions(t *testing.T) {
	lock, err := ParseLock([]byte(testLock))
	require.NoError(t, err)

	zeta, ok := lock.Package("zeta")
	require.True(t, ok)
	assert.Equal(t, SourceHosted, zeta.Source)
	assert.Equal(t, "2.11.0", zeta.Version)
	assert.Equal(t, asyncSHA, zeta.Description.SHA256)

	flutter, ok := lock.Package("flutter")
	require.True(t, ok)
	assert.Equal(t, SourceSDK, flutter.Source)
	assert.Equal(t, "flutter", flutter.Description.SDK)

	alpha, ok := lock.Package("alpha")
	require.True(t, ok)
	assert.Equal(t, SourceGit, alpha.Source)
	assert.Equal(t, "main", alpha.Description.Ref)

	_, ok = lock.Package("missing")
	assert.False(t, ok)
}

func TestParseLockEmpty(t *testing.T) {
	lock, err := ParseLock([]byte("sdks:\n  dart: \">=3.0.0\"\n"))
	require.NoError(t, err)
	assert.Empty(t, lock.Packages)
}

func TestParseLockMalformed(t *testing.T) {
	_, err := ParseLock([]byte("packages:\n  - a\n  - b\n"))
	require.ErrorIs(t, err, ErrMalformedLock)

	_, err = ParseLock([]byte("packages: [unclosed"))
	require.Error(t, err)
}

func TestLoadLockNonExistent(t *testing.T) {
	_, err := LoadLock(filepath.Join(t.TempDir(), "pubspec.lock"))
	require.Error(t, err)
}

func writeLock(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, "pubspec.lock")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
