package config

import (
	"bufio"
	"io"

	"meta/internal/vars"
)

// Write serializes every expressible leaf of tree. Leaves directly under the
// root come first, then one section per struct node in depth-first order.
func Write(w io.Writer, tree *vars.Tree) error {
	bw := bufio.NewWriter(w)
	first := true
	var section func(path string, n vars.Node)
	section = func(path string, n vars.Node) {
		wroteHeader := false
		for _, c := range n.Children() {
			v, ok := Format(c)
			if !ok {
				continue
			}
			if !wroteHeader && path != "" {
				if !first {
					bw.WriteByte('\n')
				}
				bw.WriteString("[" + path + "]\n")
			}
			wroteHeader, first = true, false
			bw.WriteString(c.Name() + " " + v + "\n")
		}
		for _, c := range n.Children() {
			if c.IsLeaf() {
				continue
			}
			p := c.Name()
			if path != "" {
				p = path + "." + p
			}
			section(p, c)
		}
	}
	section("", tree.Root())
	return bw.Flush()
}
