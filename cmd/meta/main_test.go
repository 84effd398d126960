package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meta/internal/emit"
	"meta/internal/typedb"
)

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"-in a.h b.c -out build", "--in a.h --in b.c --out build"},
		{"-out build -in a.h", "--out build --in a.h"},
		{"-in a.h --typedb -out d", "--in a.h --typedb --out d"},
		{"--in a.h --out d", "--in a.h --out d"},
		{"tokenize x.h", "tokenize x.h"},
		{"-in a.h -- -in", "--in a.h -- -in"},
		{"-in -out d", "--out d"},
	}
	for _, tc := range cases {
		got := strings.Join(normalizeArgs(strings.Fields(tc.in)), " ")
		if got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(normalizeArgs(append([]string{"--ui", "off", "--color", "off"}, args...)))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

const consoleH = `@Introspect
typedef struct { int speed; float open_percent; } Console;
@RegisterCommand @Introspect
int add(int a, int b);
`

func TestGenerateSingleDashForm(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "console.h"), consoleH)

	stdout, _, err := execute(t, "-in", "src/console.h", "-out", "build", "--typedb")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stdout, "3 note(s), 1 file(s)") {
		t.Fatalf("summary = %q", stdout)
	}
	header, err := os.ReadFile(filepath.Join(dir, "build", emit.IncludeDir, emit.HeaderName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(header), "command_register(") {
		t.Fatalf("header has no registration:\n%s", header)
	}
	copyText, err := os.ReadFile(filepath.Join(dir, "build", "src", "console.h"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(copyText), "@") || len(copyText) != len(consoleH) {
		t.Fatalf("copy not blanked:\n%s", copyText)
	}
	if _, err := os.Stat(filepath.Join(dir, "build", "src", typedb.FileName)); err != nil {
		t.Fatalf("typedb missing: %v", err)
	}
}

func TestGenerateFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "console.h"), consoleH)
	writeFile(t, filepath.Join(dir, "meta.toml"), "[meta]\ninputs = [\"src/console.h\"]\nout = \"out\"\n")
	t.Chdir(filepath.Join(dir, "src"))

	if _, _, err := execute(t, "--quiet"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "src", emit.HeaderName)); err != nil {
		t.Fatalf("header missing: %v", err)
	}
}

func TestGenerateErrorIsOneLine(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "bad.h"), "@Introspect\ntypedef int;\n")

	_, _, err := execute(t, "-in", "bad.h", "-out", "build")
	if err == nil {
		t.Fatalf("expected failure")
	}
	var buf bytes.Buffer
	printError(&buf, err, false)
	if got := buf.String(); got != "bad.h:2 Expected Symbol but got Semicolon\n" {
		t.Fatalf("printed %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "build")); !os.IsNotExist(err) {
		t.Fatalf("output dir written on failure")
	}
}

func TestMissingInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "-out", "build")
	if err == nil || !strings.Contains(err.Error(), "missing -in") {
		t.Fatalf("err = %v", err)
	}
}

func buildTypeDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "console.h"), consoleH)
	if _, _, err := execute(t, "--quiet", "-in", "console.h", "-out", "build", "--typedb"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return filepath.Join(dir, "build", "src", typedb.FileName)
}

func TestConfigCheck(t *testing.T) {
	db := buildTypeDB(t)
	cfg := filepath.Join(filepath.Dir(db), "game.cfg")
	writeFile(t, cfg, "[console]\nspeed 7\nopen_percent 0.5\n")

	stdout, _, err := execute(t, "config", "check", "--typedb", db, "--var", "console=Console", cfg)
	if err != nil {
		t.Fatalf("config check: %v", err)
	}
	if stdout != "[console]\nspeed 7\nopen_percent 0.5\n" {
		t.Fatalf("stdout = %q", stdout)
	}

	writeFile(t, cfg, "[console]\nspeed 1.2\n")
	_, _, err = execute(t, "config", "check", "--typedb", db, "--var", "console=Console", cfg)
	var buf bytes.Buffer
	printError(&buf, err, false)
	if want := cfg + ":2 console.speed: expected integer (int) but got 1.2\n"; buf.String() != want {
		t.Fatalf("printed %q want %q", buf.String(), want)
	}
}

func TestConsoleNonInteractive(t *testing.T) {
	db := buildTypeDB(t)
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader("set console.speed 3\nget console\nadd 1 2\ncommands\nexit\nget console\n"))
	root.SetArgs([]string{"--ui", "off", "console", "--typedb", db, "--var", "console=Console"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := "console.speed = 3\nconsole.speed = 3\nconsole.open_percent = 0\nunbound: add\n"
	if out.String() != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "error: add: unknown command") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestTokenizeJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.h")
	writeFile(t, path, "@Introspect int x;")
	stdout, _, err := execute(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Introspect") {
		t.Fatalf("tokens = %s", stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"tool": "meta"`) {
		t.Fatalf("version = %s", stdout)
	}
}

func TestTestdataProject(t *testing.T) {
	td, err := filepath.Abs(filepath.Join("..", "..", "testdata"))
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	t.Chdir(td)

	if _, _, err := execute(t, "--quiet", "-in", "console.h", "game.c", "-out", out, "--typedb"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	header, err := os.ReadFile(filepath.Join(out, "src", emit.HeaderName))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`#include "../console.h"`, "COMMAND_PREFIX(distance)", "META_TYPE_Enemy_ptr"} {
		if !strings.Contains(string(header), want) {
			t.Fatalf("header misses %s", want)
		}
	}

	db := filepath.Join(out, "src", typedb.FileName)
	stdout, _, err := execute(t, "config", "check", "--typedb", db, "--var", "console=Console", "game.cfg")
	if err != nil {
		t.Fatalf("config check: %v", err)
	}
	want := "[console]\nspeed 7\nopen_percent 0.5\n\n[console.background]\nr 0.1\ng 0.1\nb 0.12\na 1\n"
	if stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestRingTraceDumpsOnlyOnFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "ok.h"), "@Introspect int f(void);\n")
	writeFile(t, filepath.Join(dir, "bad.h"), "@Bogus int x;\n")

	_, stderr, err := execute(t, "--trace-level", "error", "-in", "ok.h", "-out", "build")
	if err != nil || stderr != "" {
		t.Fatalf("ok run: err=%v stderr=%q", err, stderr)
	}
	_, stderr, err = execute(t, "--trace-level", "error", "-in", "bad.h", "-out", "build")
	if err == nil || !strings.Contains(stderr, "[pass]") {
		t.Fatalf("failed run: err=%v stderr=%q", err, stderr)
	}
}
