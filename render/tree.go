// Package render turns the Field view of a parsed certificate into text,
// JSON or a table.
package render

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/certcat/lintx509/x509lint"
	"github.com/valyala/bytebufferpool"
)

const (
	indent = "  "

	// WrapWidth is the length from which a leaf value is moved onto its own
	// lines, and the width of each of those lines.
	WrapWidth = 64
)

// Tree writes n as an indented text tree headed by label.
func Tree(w io.Writer, label string, n x509lint.Node) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(label)
	buf.WriteByte('\n')
	writeFields(buf, n, 1)

	_, err := w.Write(buf.B)
	return err
}

func writeFields(buf *bytebufferpool.ByteBuffer, n x509lint.Node, depth int) {
	for _, f := range n.Fields() {
		if !f.Container {
			writeLeaf(buf, f, depth)
			continue
		}
		writeLine(buf, depth, f.Label)
		if len(f.Children) == 1 {
			writeFields(buf, f.Children[0], depth+1)
			continue
		}
		for i, c := range f.Children {
			writeLine(buf, depth+1, "["+strconv.Itoa(i)+"]")
			writeFields(buf, c, depth+2)
		}
	}
}

func writeLeaf(buf *bytebufferpool.ByteBuffer, f x509lint.Field, depth int) {
	if utf8.RuneCountInString(f.Value) < WrapWidth {
		writeLine(buf, depth, f.Label+": "+f.Value)
		return
	}
	writeLine(buf, depth, f.Label+":")
	for _, chunk := range chunks(f.Value, WrapWidth) {
		writeLine(buf, depth+1, chunk)
	}
}

func writeLine(buf *bytebufferpool.ByteBuffer, depth int, s string) {
	buf.WriteString(strings.Repeat(indent, depth))
	buf.WriteString(s)
	buf.WriteByte('\n')
}

// chunks splits s into pieces of at most width runes.
func chunks(s string, width int) []string {
	var ret []string
	for s != "" {
		end, count := 0, 0
		for end < len(s) && count < width {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		ret = append(ret, s[:end])
		s = s[end:]
	}
	return ret
}
