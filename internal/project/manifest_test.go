package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[meta]
inputs = ["src/game.h", "src/console.c"]
out = "build/meta"
typedb = true

[layout]
pad_struct_tail = false
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := filepath.Abs(dir)
	if m.Root != root {
		t.Errorf("root = %s", m.Root)
	}
	if len(m.Inputs) != 2 || m.Inputs[0] != filepath.Join(root, "src", "game.h") {
		t.Errorf("inputs = %v", m.Inputs)
	}
	if m.Out != filepath.Join(root, "build", "meta") || !m.TypeDB {
		t.Errorf("out = %s typedb = %v", m.Out, m.TypeDB)
	}
	if m.PadStructTail == nil || *m.PadStructTail {
		t.Errorf("pad_struct_tail = %v", m.PadStructTail)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, t.TempDir(), "[meta]\ninputs = [\"a.h\"]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.PadStructTail != nil || m.Out != "" || m.TypeDB {
		t.Errorf("defaults = %+v", m)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"no meta", "[layout]\npad_struct_tail = true\n", ErrMetaSectionMissing},
		{"no inputs", "[meta]\nout = \"x\"\n", ErrNoInputs},
		{"escape", "[meta]\ninputs = [\"../a.h\"]\n", nil},
		{"unknown key", "[meta]\ninputs = [\"a.h\"]\nverbose = true\n", nil},
		{"bad toml", "[meta\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, t.TempDir(), tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[meta]\ninputs = [\"a.h\"]\n")
	nested := filepath.Join(dir, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest = %v, %v", ok, err)
	}
	if filepath.Base(path) != ManifestName {
		t.Errorf("path = %s", path)
	}
}
