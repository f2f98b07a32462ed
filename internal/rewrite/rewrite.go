// Package rewrite makes generated tool configuration independent of the host
// it was generated on.
package rewrite

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Params describes the host specific tokens to replace.
type Params struct {
	App     string
	BuildID int
	// BuildPath is the absolute path of the app build directory on the host.
	BuildPath string
	// SandboxRoot is where the build directory is mounted inside the sandbox.
	SandboxRoot string
}

// Replacer returns the line replacer for p: the host build path becomes
// <SandboxRoot>/<App>, then <App>-<BuildID> becomes <App>.
func (p Params) Replacer() func(string) string {
	suffixed := fmt.Sprintf("%s-%d", p.App, p.BuildID)
	sandbox := p.SandboxRoot + "/" + p.App

	return func(line string) string {
		if p.BuildPath != "" {
			line = strings.ReplaceAll(line, p.BuildPath, sandbox)
		}
		return strings.ReplaceAll(line, suffixed, p.App)
	}
}

// PackageConfig copies r to w line by line, applying the substitutions of p.
// Both substitutions are textual; the JSON is never parsed.
func PackageConfig(r io.Reader, w io.Writer, p Params) error {
	replace := p.Replacer()
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := bw.WriteString(replace(line)); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading package config: %w", err)
		}
	}

	return bw.Flush()
}

// PackageConfigFile rewrites the file at src into dst.
func PackageConfigFile(src, dst string, p Params) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening package config: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating package config: %w", err)
	}

	if err := PackageConfig(in, out, p); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
