package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := []string{
		filepath.Join(dir, "a", "notes.txt"),
		filepath.Join(dir, "b", "notes.txt"),
		filepath.Join(dir, "page.html"),
	}
	for _, in := range inputs {
		if err := os.MkdirAll(filepath.Dir(in), 0o750); err != nil {
			t.Fatal(err)
		}
		body := "Kosgi Santosh sent an email."
		if strings.HasSuffix(in, ".html") {
			body = "<html><body><p>" + body + "</p></body></html>"
		}
		if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	outDir := filepath.Join(dir, "results")
	args := append([]string{
		"batch", "--no-progress", "--batch", "2",
		"--config", writeConfig(t, emptyConfig),
		"--from-json", "testdata/kosgi.json",
		"--output-dir", outDir,
	}, inputs...)

	stdout, stderr, err := executeCmd(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	for _, sub := range []string{"notes", "notes-2", "page"} {
		onlyReport(t, filepath.Join(outDir, sub))
	}
	if got := strings.Count(stdout, "[SUCCESS] Results written to: "); got != 3 {
		t.Errorf("expected 3 success lines, got %d in %q", got, stdout)
	}
}

func TestBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("He didn't get a reply."), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.txt")

	outDir := filepath.Join(dir, "results")
	stdout, stderr, err := executeCmd(t,
		"batch", "--no-progress",
		"--config", writeConfig(t, emptyConfig),
		"--from-json", "testdata/kosgi.json",
		"--output-dir", outDir,
		good, missing,
	)
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("expected errRunFailed, got %v", err)
	}

	onlyReport(t, filepath.Join(outDir, "good"))
	if !strings.Contains(stdout, "[SUCCESS] Results written to: ") {
		t.Errorf("good input should succeed, got %q", stdout)
	}
	if !strings.Contains(stderr, "[ERROR] Cannot read input: "+missing) {
		t.Errorf("missing failure line in %q", stderr)
	}
}

func TestBatch_RejectsUnsupportedInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("He didn't get a reply."), 0o600); err != nil {
		t.Fatal(err)
	}
	image := filepath.Join(dir, "image.png")
	if err := os.WriteFile(image, []byte{0x89, 'P', 'N', 'G'}, 0o600); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "results")
	stdout, stderr, err := executeCmd(t,
		"batch", "--no-progress",
		"--config", writeConfig(t, emptyConfig),
		"--from-json", "testdata/kosgi.json",
		"--output-dir", outDir,
		good, image,
	)
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("expected errRunFailed, got %v", err)
	}
	if !strings.Contains(stderr, "[ERROR] Unsupported input format: "+image) {
		t.Errorf("missing rejection line in %q", stderr)
	}
	if strings.Contains(stdout, "Analyzing") {
		t.Errorf("no analysis should start, got %q", stdout)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("no output directory should be created")
	}
}

func TestBatch_RequiresFiles(t *testing.T) {
	t.Parallel()

	_, _, err := executeCmd(t, "batch", "--config", writeConfig(t, emptyConfig))
	if err == nil {
		t.Error("expected error without input files")
	}
}
