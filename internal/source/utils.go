package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// newlineOffsets returns the offset of every '\n' in content.
func newlineOffsets(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	base := 0
	for {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return out
		}
		off, err := safecast.Conv[uint32](base + i)
		if err != nil {
			panic(fmt.Errorf("file too large: %w", err))
		}
		out = append(out, off)
		base += i + 1
	}
}

// position maps a byte offset to its line and column. A '\n' belongs to the
// line it terminates.
func position(newlines []uint32, off uint32) LineCol {
	// число '\n' строго до off
	before, _ := slices.BinarySearch(newlines, off)
	pos := LineCol{Line: 1, Col: off + 1}
	if before > 0 {
		pos.Line += uint32(before) // #nosec G115 -- bounded by len(newlines), itself uint32-indexed
		pos.Col = off - newlines[before-1]
	}
	return pos
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
