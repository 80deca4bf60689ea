package x509lint

import (
	"encoding/hex"
	"strconv"

	"github.com/certcat/lintx509/der"
)

// NotPresent is the rendering of an absent OPTIONAL field.
const NotPresent = "(not present)"

// Node is anything in the decoded certificate tree that can describe itself
// for display.
type Node interface {
	// Fields returns the node's fields in encoding order.
	Fields() []Field
}

// Field is one named entry of a Node. A leaf carries a rendered Value; a
// container carries zero or more child nodes, each of which is displayed
// under Label.
type Field struct {
	Label     string
	Value     string
	Children  []Node
	Container bool
}

func leaf(label, value string) Field {
	return Field{Label: label, Value: value}
}

func child(label string, n Node) Field {
	return Field{Label: label, Children: []Node{n}, Container: true}
}

func repeated[T any, PT interface {
	*T
	Node
}](label string, items []T) Field {
	f := Field{Label: label, Container: true}
	for i := range items {
		f.Children = append(f.Children, PT(&items[i]))
	}
	return f
}

func hexOrAbsent(b []byte, colon bool) string {
	switch {
	case b == nil:
		return NotPresent
	case colon:
		return der.HexColon(b)
	default:
		return hex.EncodeToString(b)
	}
}

func boolString(b bool) string { return strconv.FormatBool(b) }
