package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса

const maxFuzzInput = 1 << 16 // 64 KiB

var builtinSeeds = []string{
	"",
	"@Introspect typedef struct point { int x; float y; } Point;",
	"@Introspect typedef char*** Trip;",
	"@Introspect @RegisterCommand int add(int a, int b);",
	"@Introspect typedef struct A { B* p; } A;\n@Introspect typedef struct B { int v; } B;",
	"/* c */ @Introspect // note\nint tick(void);",
	"@Introspect typedef union U { int a; } U;",
	"@Unknown int x;",
	"#include \"x.h\"\n@Introspect typedef const struct s { const char *name; int a, *b; } S;",
	"char *s = \"unterminated",
	"/* unterminated",
	"@",
	"@@Introspect",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".h" && ext != ".c" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
