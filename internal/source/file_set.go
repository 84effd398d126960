package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// ErrOutsideBase is returned by Load for inputs that do not live under the
// FileSet base directory; such files have no relative path to mirror into
// the output directory.
var ErrOutsideBase = errors.New("path is outside the base directory")

// FileSet manages the inputs of a single run.
type FileSet struct {
	files   []File
	index   map[string]FileID // logical path -> id
	baseDir string
}

// NewFileSet creates an empty FileSet rooted at the working directory.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet whose logical paths are relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory logical paths are relative to.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores content under the logical path and returns a new FileID.
// It always creates a new FileID even if the path was added before.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		flags |= FileHasBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	logical := cleanPath(path)
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    logical,
		Content: content,
		LineIdx: newlineOffsets(content),
		Flags:   flags,
	})
	fileSet.index[logical] = id
	return id
}

// Load reads a file from disk. The logical path is the path relative to the
// base directory; the content is kept unmodified.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	logical, err := fileSet.LogicalPath(path)
	if err != nil {
		return 0, err
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	id := fileSet.Add(logical, content, 0)
	fileSet.files[id].Disk = path
	return id, nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// LogicalPath maps path onto a slash-separated path relative to the base
// directory.
func (fileSet *FileSet) LogicalPath(path string) (string, error) {
	base := fileSet.BaseDir()
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, path)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	rel = cleanPath(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideBase)
	}
	return rel, nil
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetByPath returns the latest file loaded under the logical path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[cleanPath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return position(f.LineIdx, span.Start), position(f.LineIdx, span.End)
}

// GetLine returns the 1-based line lineNum without its terminator.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start > lenContent {
		return ""
	}
	return strings.TrimSuffix(string(f.Content[start:end]), "\r")
}

// IsHeader reports whether a logical path names a C header.
func IsHeader(path string) bool {
	return strings.HasSuffix(path, ".h")
}
