package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `# app manifest
app-id: com.example.MyApp
runtime: org.freedesktop.Platform
modules:
  - name: a
    buildsystem: simple
    sources:
      - type: archive
        url: https://example.com/a.tar.gz
        sha256: abc
  - name: myapp
    buildsystem: simple
    sources: []
    modules:
      - name: nested
  - shared-modules/libsecret.json
`

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "com.example.MyApp", m.AppID())

	var names []string
	for _, mod := range m.Modules() {
		names = append(names, mod.Name())
	}
	assert.Equal(t, []string{"a", "myapp", "nested"}, names)

	mod, err := m.Module("a")
	require.NoError(t, err)
	sources, err := mod.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, TypeArchive, sources[0].Type)
	assert.Equal(t, "https://example.com/a.tar.gz", sources[0].URL)
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"), FormatYAML)
	require.ErrorIs(t, err, ErrNotMapping)
}

func TestAppIDFallsBackToID(t *testing.T) {
	m, err := Parse([]byte(`{"id": "org.example.App", "modules": []}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "org.example.App", m.AppID())
}

func TestModuleNotFound(t *testing.T) {
	m, err := Parse([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	_, err = m.Module("missing")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestSourcesWithFileReference(t *testing.T) {
	m, err := Parse([]byte(`
id: x
modules:
  - name: myapp
    sources:
      - pubspec-sources.json
      - type: patch
        path: fix.patch
        x-custom: kept
`), FormatYAML)
	require.NoError(t, err)

	mod, err := m.Module("myapp")
	require.NoError(t, err)
	sources, err := mod.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.True(t, sources[0].IsFileRef())
	assert.Equal(t, "pubspec-sources.json", sources[0].File)
	assert.Equal(t, TypePatch, sources[1].Type)
	assert.Equal(t, "kept", sources[1].Extra["x-custom"])
}

func TestSetSourcesCreatesList(t *testing.T) {
	m, err := Parse([]byte("id: x\nmodules:\n  - name: myapp\n"), FormatYAML)
	require.NoError(t, err)

	mod, err := m.Module("myapp")
	require.NoError(t, err)
	require.NoError(t, mod.AppendSources(FileRef("extra.json")))

	sources, err := mod.Sources()
	require.NoError(t, err)
	assert.Equal(t, []Source{FileRef("extra.json")}, sources)
}

func TestReplaceSource(t *testing.T) {
	m, err := Parse([]byte(`modules:
  - name: a
    sources:
      - first.json
      # keep me
      - path: b.patch
        type: patch
      - last.json
`), FormatYAML)
	require.NoError(t, err)
	mod, err := m.Module("a")
	require.NoError(t, err)

	require.NoError(t, mod.ReplaceSource(0, FileRef("x.json"), FileRef("y.json")))

	sources, err := mod.Sources()
	require.NoError(t, err)
	assert.Equal(t, []Source{
		FileRef("x.json"),
		FileRef("y.json"),
		{Type: TypePatch, Path: "b.patch"},
		FileRef("last.json"),
	}, sources)

	out, err := m.Marshal("")
	require.NoError(t, err)
	assert.Regexp(t, `# keep me\s+- path: b.patch\s+type: patch`, string(out))

	assert.Error(t, mod.ReplaceSource(4))
	assert.Error(t, mod.ReplaceSource(-1))
}

func TestMarshalYAMLKeepsOrderAndHeader(t *testing.T) {
	m, err := Parse([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	data, err := m.Marshal("# Generated, do not edit\n")
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# Generated, do not edit\n"))
	assert.Less(t, strings.Index(out, "app-id:"), strings.Index(out, "runtime:"))
	assert.Less(t, strings.Index(out, "runtime:"), strings.Index(out, "modules:"))
	assert.Contains(t, out, "shared-modules/libsecret.json")
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	input := `{
    "id": "org.example.App",
    "runtime-version": "24.08",
    "finish-args": [
        "--share=ipc",
        "--socket=x11"
    ],
    "modules": [
        {
            "name": "myapp",
            "builddir": true,
            "sources": []
        }
    ]
}
`
	m, err := Parse([]byte(input), FormatJSON)
	require.NoError(t, err)

	data, err := m.Marshal("ignored for JSON")
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

func TestMarshalJSONKeepsNumbers(t *testing.T) {
	input := `{
    "id": "org.example.App",
    "runtime-version": 24.08,
    "x-version": 1.0,
    "x-serial": 12345678901234567890,
    "x-scale": 1e3,
    "x-offset": -0.50
}
`
	m, err := Parse([]byte(input), FormatJSON)
	require.NoError(t, err)

	data, err := m.Marshal("")
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

func TestMarshalJSONConvertsYAMLNumbers(t *testing.T) {
	m, err := Parse([]byte("id: org.example.App\nx-mask: 0x1f\n"), FormatYAML)
	require.NoError(t, err)
	m.Format = FormatJSON

	data, err := m.Marshal("")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"id\": \"org.example.App\",\n    \"x-mask\": 31\n}\n", string(data))
}

func TestMarshalJSONScalars(t *testing.T) {
	n := 1
	data, err := MarshalJSON([]Source{
		{Type: TypeArchive, URL: "https://pub.dev/a?b=<c>&d", StripComponents: &n, Dest: "x"},
	})
	require.NoError(t, err)

	want := `[
    {
        "type": "archive",
        "url": "https://pub.dev/a?b=<c>&d",
        "strip-components": 1,
        "dest": "x"
    }
]
`
	assert.Equal(t, want, string(data))
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "com.example.MyApp.yml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, m.Format)

	out := filepath.Join(dir, "out.yml")
	require.NoError(t, m.Save(out, ""))

	reloaded, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, m.AppID(), reloaded.AppID())
	assert.Len(t, reloaded.Modules(), 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yaml"))
}

func TestLastModule(t *testing.T) {
	m, err := Parse([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	mod, err := m.LastModule()
	require.NoError(t, err)
	assert.Equal(t, "myapp", mod.Name())

	empty, err := Parse([]byte("app-id: x\n"), FormatYAML)
	require.NoError(t, err)
	_, err = empty.LastModule()
	assert.ErrorIs(t, err, ErrNoModules)
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := Parse([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	c := m.Clone()
	mod, err := c.Module("myapp")
	require.NoError(t, err)
	require.NoError(t, mod.Set("build-commands", []string{}))
	require.NoError(t, mod.Set("buildsystem", "meson"))

	orig, err := m.Marshal("")
	require.NoError(t, err)
	assert.NotContains(t, string(orig), "meson")
	assert.NotContains(t, string(orig), "build-commands")

	out, err := c.Marshal("")
	require.NoError(t, err)
	assert.Contains(t, string(out), "buildsystem: meson")
	assert.Contains(t, string(out), "build-commands: []")
}
