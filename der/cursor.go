// Package der is a strict decoder for the Distinguished Encoding Rules subset
// of ASN.1 used by X.509 certificates.
//
// Unlike encoding/asn1 it reports a precise [Kind] for every malformed
// input and refuses anything outside canonical DER: indefinite lengths,
// long-form lengths that fit a shorter form, non-canonical BOOLEANs and bit
// strings with unused bits. Lengths are limited to 16 bits and tags to a
// single octet, which covers every certificate seen in practice.
package der

import (
	"slices"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Cursor reads TLVs front to back out of a fixed buffer. The read position
// never moves backwards, and a Cursor returned by one of the ReadTLV or
// ReadSEQUENCE family of methods is scoped to exactly that TLV: it cannot see
// or move the position of the Cursor it came from.
type Cursor struct {
	buf []byte
	s   cryptobyte.String
}

// New returns a Cursor positioned at the start of b. The Cursor does not copy
// b; callers must not modify it while the Cursor or anything decoded from it
// is in use.
func New(b []byte) *Cursor {
	b = slices.Clip(b)
	return &Cursor{buf: b, s: cryptobyte.String(b)}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return len(c.buf) - len(c.s) }

// Len returns the number of bytes remaining.
func (c *Cursor) Len() int { return len(c.s) }

// Bytes returns the whole buffer the Cursor was created over, regardless of
// the current position.
func (c *Cursor) Bytes() []byte { return c.buf }

// AtEnd reports whether every byte has been consumed.
func (c *Cursor) AtEnd() bool { return c.s.Empty() }

// AssertAtEnd fails with ExtraData if any bytes remain.
func (c *Cursor) AssertAtEnd() error {
	if !c.s.Empty() {
		return ExtraData
	}
	return nil
}

// ReadByte returns the next byte.
func (c *Cursor) ReadByte() (byte, error) {
	var b uint8
	if !c.s.ReadUint8(&b) {
		return 0, DataTruncated
	}
	return b, nil
}

// ReadBytes returns the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	var out []byte
	if n < 0 || !c.s.ReadBytes(&out, n) {
		return nil, DataTruncated
	}
	return slices.Clip(out), nil
}

// ReadLength decodes a DER length. Only the short form and the one- and
// two-octet long forms are accepted, and a long form must not encode a value
// that a shorter form could have carried.
func (c *Cursor) ReadLength() (int, error) {
	lead, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case lead < 0x80:
		return int(lead), nil
	case lead == 0x80:
		// indefinite length is BER only
		return 0, UnsupportedAsn1
	case lead == 0x81:
		var l uint8
		if !c.s.ReadUint8(&l) {
			return 0, DataTruncated
		}
		if l < 0x80 {
			return 0, InvalidLength
		}
		return int(l), nil
	case lead == 0x82:
		var l uint16
		if !c.s.ReadUint16(&l) {
			return 0, DataTruncated
		}
		if l < 256 {
			return 0, InvalidLength
		}
		return int(l), nil
	default:
		return 0, UnsupportedLength
	}
}

// ReadExpectedTag consumes one tag octet and fails with UnexpectedTag if it is
// not tag.
func (c *Cursor) ReadExpectedTag(tag asn1.Tag) error {
	b, err := c.ReadByte()
	if err != nil {
		return err
	}
	if asn1.Tag(b) != tag {
		return UnexpectedTag
	}
	return nil
}

// ReadTagAndContent reads a whole TLV with the given tag and returns its
// content octets.
func (c *Cursor) ReadTagAndContent(tag asn1.Tag) ([]byte, error) {
	if err := c.ReadExpectedTag(tag); err != nil {
		return nil, err
	}
	n, err := c.ReadLength()
	if err != nil {
		return nil, err
	}
	return c.ReadBytes(n)
}

// ReadAnyTLV reads a whole TLV of any tag and returns the tag together with
// the content octets.
func (c *Cursor) ReadAnyTLV() (asn1.Tag, []byte, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	n, err := c.ReadLength()
	if err != nil {
		return 0, nil, err
	}
	content, err := c.ReadBytes(n)
	if err != nil {
		return 0, nil, err
	}
	return asn1.Tag(b), content, nil
}

// PeekTag reports whether the next byte is tag. It never fails: at the end of
// the buffer it reports false.
func (c *Cursor) PeekTag(tag asn1.Tag) bool {
	return c.s.PeekASN1Tag(tag)
}

func (c *Cursor) peekByte() (byte, error) {
	if c.s.Empty() {
		return 0, DataTruncated
	}
	return c.s[0], nil
}

// ReadExpectedTLV reads one complete TLV with the given tag and returns a new
// Cursor over its encoding, header included.
func (c *Cursor) ReadExpectedTLV(tag asn1.Tag) (*Cursor, error) {
	mark := c.Offset()
	if _, err := c.ReadTagAndContent(tag); err != nil {
		return nil, err
	}
	end := c.Offset()
	return New(c.buf[mark:end:end]), nil
}

// ReadTLV is ReadExpectedTLV for whatever tag comes next.
func (c *Cursor) ReadTLV() (*Cursor, error) {
	b, err := c.peekByte()
	if err != nil {
		return nil, err
	}
	return c.ReadExpectedTLV(asn1.Tag(b))
}

// ReadTLVChoice is ReadTLV restricted to the listed tags.
func (c *Cursor) ReadTLVChoice(tags ...asn1.Tag) (*Cursor, error) {
	b, err := c.peekByte()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tags, asn1.Tag(b)) {
		return nil, UnexpectedTag
	}
	return c.ReadExpectedTLV(asn1.Tag(b))
}

// ReadGivenTag reads a TLV with the given tag and returns a Cursor over its
// content only. It is mostly used with context-specific tags.
func (c *Cursor) ReadGivenTag(tag asn1.Tag) (*Cursor, error) {
	content, err := c.ReadTagAndContent(tag)
	if err != nil {
		return nil, err
	}
	return New(content), nil
}

// ReadSEQUENCE returns a Cursor over the content of the next SEQUENCE.
func (c *Cursor) ReadSEQUENCE() (*Cursor, error) { return c.ReadGivenTag(asn1.SEQUENCE) }

// ReadSET returns a Cursor over the content of the next SET.
func (c *Cursor) ReadSET() (*Cursor, error) { return c.ReadGivenTag(asn1.SET) }
