package source

import "strings"

// Interner is the string arena of a meta run. Names recorded in the type
// table are copied here so they outlive the buffer of the file they came
// from. Nothing is released individually.
type Interner struct {
	set   map[string]string
	bytes int
}

func NewInterner() *Interner {
	return &Interner{set: make(map[string]string)}
}

// Canon returns the arena copy of s. Equal strings share one copy.
func (in *Interner) Canon(s string) string {
	if c, ok := in.set[s]; ok {
		return c
	}
	// копия, чтобы не держать ссылку на буфер исходного файла
	c := strings.Clone(s)
	in.set[c] = c
	in.bytes += len(c)
	return c
}

// CanonBytes is Canon for a slice of a file buffer. The lookup does not
// allocate.
func (in *Interner) CanonBytes(b []byte) string {
	if c, ok := in.set[string(b)]; ok {
		return c
	}
	return in.Canon(string(b))
}

// Len counts distinct strings.
func (in *Interner) Len() int { return len(in.set) }

// Size is the number of bytes held.
func (in *Interner) Size() int { return in.bytes }
