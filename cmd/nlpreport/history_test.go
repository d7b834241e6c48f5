package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/nlpreport/internal/database"
	"github.com/nao1215/nlpreport/internal/model"
)

func historyConfig(t *testing.T, dbDir string) string {
	t.Helper()
	return writeConfig(t, "history:\n  enabled: true\n  db_dir: "+dbDir+"\n")
}

func TestHistory_Empty(t *testing.T) {
	t.Parallel()

	cfg := historyConfig(t, filepath.Join(t.TempDir(), "db"))
	stdout, _, err := executeCmd(t, "history", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No runs recorded yet.") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestHistory_RecordsRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := historyConfig(t, filepath.Join(dir, "db"))

	if _, stderr, err := executeCmd(t,
		"--config", cfg,
		"--from-json", "testdata/kosgi.json",
		"--output-dir", filepath.Join(dir, "results"),
	); err != nil {
		t.Fatalf("analyze failed: %v (stderr: %s)", err, stderr)
	}

	t.Run("json", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--json", "--config", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var records []database.RunRecord
		if err := json.Unmarshal([]byte(stdout), &records); err != nil {
			t.Fatalf("invalid JSON %q: %v", stdout, err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		r := records[0]
		if r.InputName != builtinInput || r.Status != model.RunStatusSucceeded {
			t.Errorf("unexpected record %+v", r)
		}
		if r.Sentences != 2 || r.Chains != 1 {
			t.Errorf("expected 2 sentences and 1 chain, got %d and %d", r.Sentences, r.Chains)
		}
	})

	t.Run("text", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--config", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Recorded runs (1):") || !strings.Contains(stdout, "succeeded") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("markdown for builtin input", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--markdown", "--config", cfg, builtinInput)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "# Analysis History") || !strings.Contains(stdout, "| Started") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("single run by id", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--json", "--config", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var listed []database.RunRecord
		if err := json.Unmarshal([]byte(stdout), &listed); err != nil || len(listed) != 1 {
			t.Fatalf("cannot list runs: %v %q", err, stdout)
		}

		stdout, _, err = executeCmd(t, "history", "--json", "--run", listed[0].RunID, "--config", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var records []database.RunRecord
		if err := json.Unmarshal([]byte(stdout), &records); err != nil {
			t.Fatalf("invalid JSON %q: %v", stdout, err)
		}
		if len(records) != 1 || records[0].RunID != listed[0].RunID {
			t.Errorf("expected run %s, got %+v", listed[0].RunID, records)
		}
	})

	t.Run("unknown run id", func(t *testing.T) {
		_, _, err := executeCmd(t, "history", "--run", "no-such-run", "--config", cfg)
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("run id and file are exclusive", func(t *testing.T) {
		if _, _, err := executeCmd(t, "history", "--run", "x", "--config", cfg, builtinInput); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		if _, _, err := executeCmd(t, "history", "--json", "--markdown", "--config", cfg); err == nil {
			t.Error("expected error")
		}
	})
}
