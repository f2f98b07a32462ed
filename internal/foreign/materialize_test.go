package foreign

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, "plugin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "plugin", "fix.patch"), []byte("patch"), 0o644))

	err := Materialize(src, dst, []CopyOp{{Src: "plugin/fix.patch", Dst: "deep/nested/fix.patch"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "deep", "nested", "fix.patch"))
	require.NoError(t, err)
	assert.Equal(t, "patch", string(data))
}

func TestMaterializeMissingSource(t *testing.T) {
	err := Materialize(t.TempDir(), t.TempDir(), []CopyOp{{Src: "nope.patch", Dst: "nope.patch"}})
	require.Error(t, err)
}

func TestMaterializeNothing(t *testing.T) {
	require.NoError(t, Materialize("/does/not/exist", t.TempDir(), nil))
}
