package diagfmt

// Options controls both the pretty and the JSON renderers. Fields a renderer
// has no use for are ignored.
type Options struct {
	Color   bool
	Context bool // pretty: echo the source line with a ^~~ underline
	Codes   bool // pretty: prefix messages with the code, e.g. "SYN2001: "
	Columns bool // json: resolve start/end columns through the FileSet
	Limit   int  // 0 means everything
}

// limit trims items to opts.Limit.
func (opts Options) limit(n int) int {
	if opts.Limit > 0 && n > opts.Limit {
		return opts.Limit
	}
	return n
}
