package diagfmt

import (
	"encoding/json"
	"io"

	"meta/internal/diag"
	"meta/internal/source"
)

// LocationJSON: местоположение в файле
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	Line      uint32 `json:"line,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON: диагностика в JSON
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticsOutput is the root object of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON writes items as one indented JSON document. fs may be nil.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items)), Count: len(items)}
	for _, d := range items[:opts.limit(len(items))] {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d, fs, opts.Columns),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeLocation(d diag.Diagnostic, fs *source.FileSet, positions bool) LocationJSON {
	loc := LocationJSON{
		File:      d.Path,
		Line:      d.Line,
		StartByte: d.Primary.Start,
		EndByte:   d.Primary.End,
	}
	if !positions || fs == nil {
		return loc
	}
	if f, ok := fs.GetByPath(d.Path); ok && f.ID == d.Primary.File {
		start, end := fs.Resolve(d.Primary)
		loc.StartCol = start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
