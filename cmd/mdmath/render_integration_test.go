//go:build integration

package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRender_BrowserMode_Integration(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(in, "a.md"), "# A\n\n$x$\n")
	writeFile(t, filepath.Join(in, "b.md"), "```go\nvar x = \"$y$\"\n```\n")

	env, _, stderr := testEnv("")
	if err := runWith(t, env, "--engine", "tex", "--mode", "browser", "-w", "2", "-t", "60s", in); err != nil {
		t.Fatalf("runRender() error = %v\n%s", err, stderr.String())
	}

	a := readOutput(t, filepath.Join(in, "a.html"))
	for _, want := range []string{inlineTeX, `id="content"`, "display: block"} {
		if !strings.Contains(a, want) {
			t.Errorf("a.html missing %q:\n%s", want, a)
		}
	}

	b := readOutput(t, filepath.Join(in, "b.html"))
	if !strings.Contains(b, "$y$") {
		t.Errorf("math markers inside code must stay literal:\n%s", b)
	}
}
