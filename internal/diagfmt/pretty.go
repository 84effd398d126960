package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"meta/internal/diag"
	"meta/internal/source"
)

// Pretty печатает диагностики по одной строке:
// <path>:<line> <message>
// With Context the source line and a ^~~ underline follow. fs may be nil.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts Options) {
	loc := color.New(color.Bold)
	sevColors := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan),
	}
	caret := color.New(color.FgGreen, color.Bold)
	for _, c := range append([]*color.Color{loc, caret}, mapValues(sevColors)...) {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range items[:opts.limit(len(items))] {
		var sb strings.Builder
		if l := d.Location(); l != "" {
			sb.WriteString(loc.Sprint(l))
			sb.WriteByte(' ')
		}
		msg := d.Message
		if opts.Codes {
			msg = d.Code.ID() + ": " + msg
		}
		if c, ok := sevColors[d.Severity]; ok && d.Severity != diag.SevError {
			msg = c.Sprint(d.Severity.String()+": ") + msg
		}
		sb.WriteString(msg)
		fmt.Fprintln(w, sb.String())

		if opts.Context && fs != nil {
			writeContext(w, fs, d, caret)
		}
	}
}

func writeContext(w io.Writer, fs *source.FileSet, d diag.Diagnostic, caret *color.Color) {
	f, ok := fs.GetByPath(d.Path)
	if !ok || d.Line == 0 {
		return
	}
	line := f.GetLine(d.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)
	if d.Primary.File != f.ID || d.Primary.Empty() {
		return
	}
	start, end := fs.Resolve(d.Primary)
	if start.Line != d.Line {
		return
	}
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	pad := strings.Repeat(" ", int(start.Col-1))
	fmt.Fprintf(w, "    %s%s\n", pad, caret.Sprint("^"+strings.Repeat("~", width-1)))
}

func mapValues(m map[diag.Severity]*color.Color) []*color.Color {
	out := make([]*color.Color, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}
