package x509lint

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/certcat/lintx509/der"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Extensions  ::=  SEQUENCE SIZE (1..MAX) OF Extension
//
// An empty SEQUENCE is accepted.
type Extensions []Extension

func (exts *Extensions) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	list, err := parseAll[Extension](contents)
	if err != nil {
		return err
	}
	*exts = list
	return finish(contents, c)
}

func (exts Extensions) Fields() []Field {
	return []Field{repeated[Extension]("extension", exts)}
}

// Find returns the first extension with the given OID.
func (exts Extensions) Find(oid der.ObjectIdentifier) (*Extension, bool) {
	for i := range exts {
		if exts[i].ExtnID.Equal(oid) {
			return &exts[i], true
		}
	}
	return nil, false
}

//	Extension  ::=  SEQUENCE  {
//	    extnID      OBJECT IDENTIFIER,
//	    critical    BOOLEAN DEFAULT FALSE,
//	    extnValue   OCTET STRING
//	                -- contains the DER encoding of an ASN.1 value
//	                -- corresponding to the extension type identified
//	                -- by extnID
//	    }
//
// Value is the decoded extnValue, or an *UnknownExtension holding the raw
// octets if no decoder is registered for ExtnID.
type Extension struct {
	ExtnID   der.ObjectIdentifier
	Critical bool
	Value    Node
}

func (e *Extension) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return fmt.Errorf("parsing Extension: %w", err)
	}

	if e.ExtnID, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing extnID: %w", err)
	}

	if contents.PeekTag(asn1.BOOLEAN) {
		if e.Critical, err = contents.ReadBOOLEAN(); err != nil {
			return fmt.Errorf("parsing critical: %w", err)
		}
	}

	value, err := contents.ReadOCTETSTRING()
	if err != nil {
		return fmt.Errorf("parsing extnValue: %w", err)
	}

	if e.Value, err = decodeExtensionValue(e.ExtnID, value); err != nil {
		return fmt.Errorf("parsing extension %s value: %w", e.ExtnID, err)
	}

	return finish(contents, c)
}

// Known reports whether the extension value was decoded by a registered
// decoder.
func (e Extension) Known() bool {
	_, unknown := e.Value.(*UnknownExtension)
	return !unknown
}

func (e Extension) Fields() []Field {
	return []Field{
		leaf("extnID", e.ExtnID.String()),
		leaf("critical", boolString(e.Critical)),
		child("extnValue", e.Value),
	}
}

// extensionDecoders maps a dotted extension OID to the decoder of its
// extnValue. Each decoder must consume the whole value.
var extensionDecoders = map[string]func(*der.Cursor) (Node, error){
	"2.5.29.14":               decodeAs[SubjectKeyIdentifier],
	"2.5.29.16":               decodeAs[PrivateKeyUsagePeriod],
	"2.5.29.17":               decodeAs[GeneralNames],
	"2.5.29.18":               decodeAs[GeneralNames],
	"2.5.29.19":               decodeAs[BasicConstraints],
	"2.5.29.30":               decodeAs[NameConstraints],
	"2.5.29.31":               decodeAs[CRLDistributionPoints],
	"2.5.29.32":               decodeAs[CertificatePolicies],
	"2.5.29.33":               decodeAs[PolicyMappings],
	"2.5.29.35":               decodeAs[AuthorityKeyIdentifier],
	"2.5.29.37":               decodeAs[ExtKeyUsage],
	"2.5.29.54":               decodeAs[InhibitAnyPolicy],
	"1.3.6.1.5.5.7.1.1":       decodeAs[AuthorityInfoAccess],
	"1.3.6.1.5.5.7.1.24":      decodeAs[TLSFeatures],
	"1.3.6.1.4.1.11129.2.4.2": decodeAs[SignedCertificateTimestamps],
	"1.3.6.1.4.1.11129.2.4.3": decodeAs[PrecertificatePoison],
}

func decodeExtensionValue(oid der.ObjectIdentifier, value []byte) (Node, error) {
	decode, ok := extensionDecoders[oid.Dotted()]
	if !ok {
		return &UnknownExtension{Raw: value}, nil
	}
	c := der.New(value)
	node, err := decode(c)
	if err != nil {
		return nil, err
	}
	if err := c.AssertAtEnd(); err != nil {
		return nil, err
	}
	return node, nil
}

// UnknownExtension is the value of an extension without a registered
// decoder.
type UnknownExtension struct {
	Raw []byte
}

func (u UnknownExtension) Fields() []Field {
	return []Field{leaf("value", hex.EncodeToString(u.Raw))}
}

// SubjectKeyIdentifier as described in RFC5280 4.2.1.2
//
//	SubjectKeyIdentifier ::= KeyIdentifier
//	KeyIdentifier ::= OCTET STRING
type SubjectKeyIdentifier []byte

func (ski *SubjectKeyIdentifier) Parse(c *der.Cursor) error {
	keyID, err := c.ReadOCTETSTRING()
	if err != nil {
		return err
	}
	*ski = keyID
	return c.AssertAtEnd()
}

func (ski SubjectKeyIdentifier) Fields() []Field {
	return []Field{leaf("keyIdentifier", der.HexColon(ski))}
}

// maxPathLenConstraint bounds pathLenConstraint. No real hierarchy comes
// close to it.
const maxPathLenConstraint = 255

// BasicConstraints as described in RFC5280 4.2.1.9
//
//	BasicConstraints ::= SEQUENCE {
//	    cA                      BOOLEAN DEFAULT FALSE,
//	    pathLenConstraint       INTEGER (0..MAX) OPTIONAL }
type BasicConstraints struct {
	CA                bool
	PathLenConstraint *int
}

func (bc *BasicConstraints) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if contents.PeekTag(asn1.BOOLEAN) {
		if bc.CA, err = contents.ReadBOOLEAN(); err != nil {
			return fmt.Errorf("parsing cA: %w", err)
		}
	}

	if contents.PeekTag(asn1.INTEGER) {
		n, err := contents.ReadINTEGER()
		if err != nil {
			return fmt.Errorf("parsing pathLenConstraint: %w", err)
		}
		if n.Large() || n.Value > maxPathLenConstraint {
			return fmt.Errorf("parsing pathLenConstraint: %w", der.UnsupportedExtensionValue)
		}
		pathLen := int(n.Value)
		bc.PathLenConstraint = &pathLen
	}

	return finish(contents, c)
}

func (bc BasicConstraints) Fields() []Field {
	pathLen := NotPresent
	if bc.PathLenConstraint != nil {
		pathLen = strconv.Itoa(*bc.PathLenConstraint)
	}
	return []Field{
		leaf("cA", boolString(bc.CA)),
		leaf("pathLenConstraint", pathLen),
	}
}
