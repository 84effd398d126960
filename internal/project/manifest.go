// Package project reads the optional meta.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file FindManifest looks for.
const ManifestName = "meta.toml"

var (
	// ErrMetaSectionMissing indicates that [meta] is missing.
	ErrMetaSectionMissing = errors.New("missing [meta]")
	// ErrNoInputs indicates that [meta].inputs is empty.
	ErrNoInputs = errors.New("[meta].inputs is empty")
)

// Manifest is a decoded meta.toml with paths resolved against Root.
type Manifest struct {
	Path   string // manifest file
	Root   string // directory containing it
	Inputs []string
	Out    string
	TypeDB bool

	// PadStructTail is nil when [layout] does not set it.
	PadStructTail *bool
}

type manifestFile struct {
	Meta struct {
		Inputs []string `toml:"inputs"`
		Out    string   `toml:"out"`
		TypeDB bool     `toml:"typedb"`
	} `toml:"meta"`
	Layout struct {
		PadStructTail bool `toml:"pad_struct_tail"`
	} `toml:"layout"`
}

// LoadManifest parses and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !md.IsDefined("meta") {
		return nil, fmt.Errorf("%s: %w", path, ErrMetaSectionMissing)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Path: abs, Root: filepath.Dir(abs), TypeDB: cfg.Meta.TypeDB}
	if len(cfg.Meta.Inputs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoInputs)
	}
	for _, in := range cfg.Meta.Inputs {
		resolved, err := m.resolve(in)
		if err != nil {
			return nil, fmt.Errorf("%s: input %q: %w", path, in, err)
		}
		m.Inputs = append(m.Inputs, resolved)
	}
	if out := strings.TrimSpace(cfg.Meta.Out); out != "" {
		if filepath.IsAbs(out) {
			m.Out = filepath.Clean(out)
		} else {
			m.Out = filepath.Join(m.Root, filepath.FromSlash(out))
		}
	}
	if md.IsDefined("layout", "pad_struct_tail") {
		pad := cfg.Layout.PadStructTail
		m.PadStructTail = &pad
	}
	return m, nil
}

// resolve maps a manifest-relative input onto a path under Root.
func (m *Manifest) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(p) {
		return "", errors.New("must be relative")
	}
	full := filepath.Join(m.Root, filepath.Clean(filepath.FromSlash(p)))
	if !pathWithin(m.Root, full) {
		return "", errors.New("escapes the project root")
	}
	return full, nil
}

// FindManifest walks up from startDir to locate meta.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
