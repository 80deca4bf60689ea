package der

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/cryptobyte/asn1"
)

// maxNativeIntegerLen is the longest INTEGER content accumulated into a
// uint64. Anything longer is only available as raw bytes.
const maxNativeIntegerLen = 7

// Integer is a decoded INTEGER. The content is always read as an unsigned
// big-endian magnitude; no two's complement interpretation is applied, so a
// leading 0x00 pad byte is kept in Raw and does not change Value.
type Integer struct {
	Raw   []byte // content octets
	Value uint64 // valid only when !Large()
}

// Large reports whether the INTEGER was too long to be accumulated into Value.
func (i Integer) Large() bool { return len(i.Raw) > maxNativeIntegerLen }

// String renders small values in decimal and large ones as colon separated
// hex.
func (i Integer) String() string {
	if i.Large() {
		return HexColon(i.Raw)
	}
	return strconv.FormatUint(i.Value, 10)
}

// ReadINTEGER reads an INTEGER.
func (c *Cursor) ReadINTEGER() (Integer, error) {
	content, err := c.ReadTagAndContent(asn1.INTEGER)
	if err != nil {
		return Integer{}, err
	}
	ret := Integer{Raw: content}
	if ret.Large() {
		return ret, nil
	}
	for _, b := range content {
		ret.Value = ret.Value*256 + uint64(b)
	}
	return ret, nil
}

// ReadBOOLEAN reads a BOOLEAN, which must be a single 0x00 or 0xFF octet.
func (c *Cursor) ReadBOOLEAN() (bool, error) {
	content, err := c.ReadTagAndContent(asn1.BOOLEAN)
	if err != nil {
		return false, err
	}
	if len(content) != 1 {
		return false, InvalidBooleanEncoding
	}
	if content[0] != 0x00 && content[0] != 0xff {
		return false, InvalidBooleanValue
	}
	switch content[0] {
	case 0x00:
		return false, nil
	case 0xff:
		return true, nil
	default:
		return false, LibraryFailure
	}
}

// ReadBITSTRING reads a byte-aligned BIT STRING and returns its bits without
// the leading unused-bits octet. Any unused bits fail with UnsupportedAsn1.
func (c *Cursor) ReadBITSTRING() ([]byte, error) {
	contents, err := c.ReadGivenTag(asn1.BIT_STRING)
	if err != nil {
		return nil, err
	}
	unused, err := contents.ReadByte()
	if err != nil {
		return nil, err
	}
	if unused != 0 {
		return nil, UnsupportedAsn1
	}
	return contents.ReadBytes(contents.Len())
}

// ReadOCTETSTRING returns the content of an OCTET STRING.
func (c *Cursor) ReadOCTETSTRING() ([]byte, error) {
	return c.ReadTagAndContent(asn1.OCTET_STRING)
}

// ReadNULL reads a NULL, which must be empty.
func (c *Cursor) ReadNULL() error {
	content, err := c.ReadTagAndContent(asn1.NULL)
	if err != nil {
		return err
	}
	if len(content) != 0 {
		return NullWithData
	}
	return nil
}

// ReadOID reads an OBJECT IDENTIFIER.
func (c *Cursor) ReadOID() (ObjectIdentifier, error) {
	content, err := c.ReadTagAndContent(asn1.OBJECT_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return ParseObjectIdentifier(content)
}

// HexColon renders b as lowercase hex octets joined by colons.
func HexColon(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b)*3 - 1)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(hex.EncodeToString([]byte{v}))
	}
	return sb.String()
}
