package driver

import (
	"bytes"
	"os"
	"path/filepath"
)

// writeFile replaces path with data through a temp file and rename. An
// identical existing file is left untouched.
func writeFile(path string, data []byte) (err error) {
	if old, readErr := os.ReadFile(path); readErr == nil && bytes.Equal(old, data) {
		return nil
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".meta-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
