package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	want := map[string]bool{"serve": false, "migrate": false, "vocab": false, "export": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestMigrateVocabLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "registry.db"))
	exportDir := filepath.Join(dir, "exports")

	out, err := runCLI(t, "migrate", "--with-vocab", "--db-driver", "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v (%s)", err, out)
	}
	if !strings.Contains(out, "schema up to date") {
		t.Fatalf("migrate output: %q", out)
	}

	seed := filepath.Join(dir, "vocab.yaml")
	body := "concepts:\n  - concept_id: 3024929\n    concept_name: Platelets\n    domain_id: Measurement\n    vocabulary_id: LOINC\n    concept_class_id: Lab Test\n    concept_code: 777-3\n    standard_concept: S\n"
	if err := os.WriteFile(seed, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	for i, want := range []string{"inserted 1 ", "inserted 0 "} {
		out, err = runCLI(t, "vocab", "load", seed, "--db-driver", "sqlite")
		if err != nil {
			t.Fatalf("vocab load #%d: %v (%s)", i, err, out)
		}
		if !strings.Contains(out, want) {
			t.Fatalf("vocab load #%d output: %q want %q", i, out, want)
		}
	}

	out, err = runCLI(t, "export", "--db-driver", "sqlite", "--dir", exportDir)
	if err != nil {
		t.Fatalf("export: %v (%s)", err, out)
	}
	if !strings.Contains(out, "(0 concepts, 0 relationships)") {
		t.Fatalf("export output: %q", out)
	}
	matches, _ := filepath.Glob(filepath.Join(exportDir, "audit", "snapshot-*.json"))
	if len(matches) != 1 {
		t.Fatalf("expected one snapshot file, got %v", matches)
	}
}

func TestVocabLoadRequiresFile(t *testing.T) {
	if _, err := runCLI(t, "vocab", "load"); err == nil {
		t.Fatalf("expected argument error")
	}
}
