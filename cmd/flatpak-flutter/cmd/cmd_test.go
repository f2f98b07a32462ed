package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Boolean flags keep their value between executions.
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			require.NoError(t, f.Value.Set("false"))
		}
	}

	buf := new(bytes.Buffer)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "flatpak-flutter MANIFEST")
	for _, flag := range []string{
		"--app-module", "--app-pubspec", "--extra-pubspecs", "--cargo-locks",
		"--from-git", "--from-git-branch", "--keep-build-dirs", "--verbose", "--version",
	} {
		assert.Contains(t, out, flag)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "-V")
	require.NoError(t, err)
	assert.Equal(t, "flatpak-flutter-"+Version+"\n", out)
}

func TestRequiresManifest(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestNothingToConvert(t *testing.T) {
	t.Setenv("FLATPAK_FLUTTER_ROOT", t.TempDir())

	path := filepath.Join(t.TempDir(), "com.example.App.yml")
	manifest := `app-id: com.example.App
modules:
  - name: app
    sources:
      - type: dir
        path: .
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	out, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to convert for com.example.App")
}

func TestMissingManifest(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "reading manifest")
}
