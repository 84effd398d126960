package source

import "strconv"

// Span is the byte range [Start, End) of one file.
type Span struct {
	File       FileID
	Start, End uint32
}

// At returns the empty span at off.
func At(file FileID, off uint32) Span { return Span{File: file, Start: off, End: off} }

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// String renders the span as "file@start+len", e.g. "0@31+1".
func (s Span) String() string {
	b := strconv.AppendUint(nil, uint64(s.File), 10)
	b = append(b, '@')
	b = strconv.AppendUint(b, uint64(s.Start), 10)
	b = append(b, '+')
	b = strconv.AppendUint(b, uint64(s.Len()), 10)
	return string(b)
}
