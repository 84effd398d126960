package source

// FileID is the index of a file inside its FileSet.
type FileID uint32

// FileFlags describe how a file was obtained and what its bytes look like.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // added from memory, never read from disk
	FileHasBOM                        // starts with EF BB BF
	FileHasCRLF                       // contains at least one "\r\n"
)

// Has reports whether every bit of mask is set.
func (f FileFlags) Has(mask FileFlags) bool { return f&mask == mask }

// File is one input of a run.
//
// Content is kept byte-for-byte as read: a copy of every input is written
// back out with annotations blanked, so nothing may be normalised.
type File struct {
	ID      FileID
	Path    string // slash separated, relative to the FileSet base
	Disk    string // "" for virtual files
	Content []byte
	LineIdx []uint32 // offset of each '\n'
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}
