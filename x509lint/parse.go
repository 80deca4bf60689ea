package x509lint

import (
	"github.com/certcat/lintx509/der"
)

// Parsable is implemented by every node of the certificate tree. Parse
// decodes the single TLV that c is scoped to and must consume all of it.
type Parsable[T any] interface {
	*T
	Node
	Parse(c *der.Cursor) error
}

// parseTLV reads the next TLV from c and decodes it as a T over a Cursor
// scoped to just that TLV.
func parseTLV[T any, PT Parsable[T]](c *der.Cursor) (T, error) {
	var t T
	tlv, err := c.ReadTLV()
	if err != nil {
		return t, err
	}
	if err := PT(&t).Parse(tlv); err != nil {
		return t, err
	}
	return t, nil
}

// parseAll decodes every remaining TLV of a SEQUENCE OF or SET OF, keeping
// the encountered order.
func parseAll[T any, PT Parsable[T]](contents *der.Cursor) ([]T, error) {
	var ret []T
	for !contents.AtEnd() {
		t, err := parseTLV[T, PT](contents)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
	return ret, nil
}

// decodeAs decodes c as a T and returns it as a Node. It is the shape of the
// entries of the extension and public key registries.
func decodeAs[T any, PT Parsable[T]](c *der.Cursor) (Node, error) {
	var t T
	if err := PT(&t).Parse(c); err != nil {
		return nil, err
	}
	return PT(&t), nil
}

// finish checks that both the content of a constructed value and the TLV
// that carried it have been read completely.
func finish(contents, c *der.Cursor) error {
	if err := contents.AssertAtEnd(); err != nil {
		return err
	}
	return c.AssertAtEnd()
}
