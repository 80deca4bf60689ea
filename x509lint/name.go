package x509lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/certcat/lintx509/der"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Name is an RDNSequence. RDN order is the DN path and is kept as encoded.
//
//	Name ::= CHOICE { -- only one possibility for now --
//	  rdnSequence  RDNSequence }
//
//	RDNSequence ::= SEQUENCE OF RelativeDistinguishedName
type Name []RDN

func (n *Name) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	rdns, err := parseAll[RDN](contents)
	if err != nil {
		return fmt.Errorf("parsing RDN: %w", err)
	}
	*n = rdns
	return finish(contents, c)
}

func (n Name) Fields() []Field {
	return []Field{repeated[RDN]("rdn", n)}
}

// DNNames are the short attribute names used when rendering a Name as a
// string.
var DNNames = map[string]string{
	"2.5.4.3":                    "CN",
	"2.5.4.7":                    "L",
	"2.5.4.8":                    "ST",
	"2.5.4.10":                   "O",
	"2.5.4.11":                   "OU",
	"2.5.4.6":                    "C",
	"2.5.4.9":                    "STREET",
	"0.9.2342.19200300.100.1.25": "DC",
	"0.9.2342.19200300.100.1.1":  "UID",
}

// String renders the name most significant RDN first, e.g.
// "C=CN, O=WoSign CA Limited, CN=CA 沃通根证书". Multi-valued RDNs join their
// AVAs with "+".
func (n Name) String() string {
	rdns := make([]string, 0, len(n))
	for _, rdn := range n {
		avas := make([]string, 0, len(rdn))
		for _, ava := range rdn {
			avas = append(avas, ava.String())
		}
		rdns = append(rdns, strings.Join(avas, "+"))
	}
	return strings.Join(rdns, ", ")
}

// Find returns the value of the first AVA of the given type, in RDN order.
func (n Name) Find(oid der.ObjectIdentifier) (string, bool) {
	for _, rdn := range n {
		for _, ava := range rdn {
			if ava.Type.Equal(oid) {
				return ava.Value.Value, true
			}
		}
	}
	return "", false
}

// CommonName returns the first id-at-commonName value.
func (n Name) CommonName() (string, bool) {
	return n.Find(der.ObjectIdentifier{2, 5, 4, 3})
}

// RDN is a SET OF AttributeTypeAndValue. The AVAs are kept in the order
// they were encoded; DER already sorts them.
type RDN []AttributeTypeAndValue

func (rdn *RDN) Parse(c *der.Cursor) error {
	contents, err := c.ReadSET()
	if err != nil {
		return err
	}
	avas, err := parseAll[AttributeTypeAndValue](contents)
	if err != nil {
		return fmt.Errorf("parsing AttributeTypeAndValue: %w", err)
	}
	*rdn = avas
	return finish(contents, c)
}

func (rdn RDN) Fields() []Field {
	return []Field{repeated[AttributeTypeAndValue]("attribute", rdn)}
}

//	AttributeTypeAndValue ::= SEQUENCE {
//	  type     AttributeType,
//	  value    AttributeValue }
type AttributeTypeAndValue struct {
	Type  der.ObjectIdentifier
	Value DirectoryString
}

func (atv *AttributeTypeAndValue) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if atv.Type, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing type: %w", err)
	}

	if atv.Value, err = parseTLV[DirectoryString](contents); err != nil {
		return fmt.Errorf("parsing value: %w", err)
	}

	return finish(contents, c)
}

func (atv AttributeTypeAndValue) String() string {
	name, ok := DNNames[atv.Type.Dotted()]
	if !ok {
		name = atv.Type.Dotted()
	}
	return name + "=" + atv.Value.Value
}

func (atv AttributeTypeAndValue) Fields() []Field {
	return []Field{
		leaf("type", atv.Type.String()),
		child("value", &atv.Value),
	}
}

// directoryStringTags are the string types accepted as attribute values.
// They all decode as UTF-8; the character set restrictions of
// PrintableString and TeletexString are not enforced.
var directoryStringTags = []asn1.Tag{
	asn1.UTF8String,
	asn1.PrintableString,
	asn1.T61String,
	asn1.IA5String,
}

// DirectoryString is a decoded attribute value together with the string
// type it was encoded as.
type DirectoryString struct {
	Tag   asn1.Tag
	Value string
}

func (s *DirectoryString) Parse(c *der.Cursor) error {
	if c.AtEnd() {
		return der.DataTruncated
	}
	i := slices.IndexFunc(directoryStringTags, c.PeekTag)
	if i < 0 {
		return der.UnsupportedStringType
	}
	tag := directoryStringTags[i]
	content, err := c.ReadTagAndContent(tag)
	if err != nil {
		return err
	}
	if s.Value, err = der.DecodeUTF8(content); err != nil {
		return err
	}
	s.Tag = tag
	return c.AssertAtEnd()
}

func (s DirectoryString) Fields() []Field {
	return []Field{
		leaf("type", stringTypeName(s.Tag)),
		leaf("value", s.Value),
	}
}

func stringTypeName(tag asn1.Tag) string {
	switch tag {
	case asn1.UTF8String:
		return "UTF8String"
	case asn1.PrintableString:
		return "PrintableString"
	case asn1.T61String:
		return "TeletexString"
	case asn1.IA5String:
		return "IA5String"
	default:
		return fmt.Sprintf("tag %d", uint8(tag))
	}
}
