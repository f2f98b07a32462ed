package foreign

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Materialize performs the copies of a Result: each Src is read below
// srcRoot and written to Dst below dstRoot, creating parent directories.
func Materialize(srcRoot, dstRoot string, copies []CopyOp) error {
	for _, op := range copies {
		dst := filepath.Join(dstRoot, filepath.FromSlash(op.Dst))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", op.Dst, err)
		}

		if err := copyFile(filepath.Join(srcRoot, filepath.FromSlash(op.Src)), dst); err != nil {
			return fmt.Errorf("copying %s: %w", op.Src, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
