package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"meta/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0, which
// never starts a token.
type Cursor struct {
	id  source.FileID
	src []byte
	Off uint32
}

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("%s: file too large: %w", f.Path, err))
	}
	return Cursor{id: f.ID, src: f.Content}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool { return int(c.Off) >= len(c.src) }

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead without moving.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := int(c.Off) + int(n); i < len(c.src) {
		return c.src[i]
	}
	return 0
}

// Bump consumes one byte and returns it; at EOF it stays put.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.src[min(int(c.Off), len(c.src)):]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Mark is a saved offset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom is the span from m up to the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.id, Start: uint32(m), End: c.Off}
}
