// Package x509lint decodes DER X.509 certificates into a typed tree for
// inspection and linting.
//
// Parsing is strict: every structure must be canonical DER, must contain
// exactly the fields the grammar allows and nothing after them. The first
// problem found aborts the parse; the returned error wraps a [der.Kind]
// together with the path of fields being decoded.
//
// Signatures are not verified and no chain building or revocation checking
// is done.
package x509lint

import (
	"encoding/hex"
	"fmt"

	"github.com/certcat/lintx509/der"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	versionTag         = asn1.Tag(0).Constructed().ContextSpecific()
	issuerUniqueIDTag  = asn1.Tag(1).ContextSpecific()
	subjectUniqueIDTag = asn1.Tag(2).ContextSpecific()
	extensionsTag      = asn1.Tag(3).Constructed().ContextSpecific()
)

//	Certificate  ::=  SEQUENCE  {
//	  tbsCertificate     TBSCertificate,
//	  signatureAlgorithm AlgorithmIdentifier,
//	  signatureValue     BIT STRING  }
type Certificate struct {
	TBSCertificate     TBSCertificate
	SignatureAlgorithm AlgorithmIdentifier
	SignatureValue     []byte
}

// ParseCertificate decodes a single DER certificate that must span all of
// b. It accepts unrecognized critical extensions; use
// [Options.ParseCertificate] to reject them.
func ParseCertificate(b []byte) (*Certificate, error) {
	return Options{}.ParseCertificate(b)
}

// Parse decodes the Certificate TLV that c is scoped to. After a failed
// Parse the receiver is in an undefined state and must not be used.
func (cert *Certificate) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return fmt.Errorf("parsing Certificate: %w", err)
	}

	if cert.TBSCertificate, err = parseTLV[TBSCertificate](contents); err != nil {
		return fmt.Errorf("parsing tbsCertificate: %w", err)
	}

	if cert.SignatureAlgorithm, err = parseTLV[AlgorithmIdentifier](contents); err != nil {
		return fmt.Errorf("parsing signatureAlgorithm: %w", err)
	}

	if cert.SignatureValue, err = contents.ReadBITSTRING(); err != nil {
		return fmt.Errorf("parsing signatureValue: %w", err)
	}

	if err := finish(contents, c); err != nil {
		return fmt.Errorf("parsing Certificate: %w", err)
	}
	return nil
}

func (cert Certificate) Fields() []Field {
	return []Field{
		child("tbsCertificate", &cert.TBSCertificate),
		child("signatureAlgorithm", &cert.SignatureAlgorithm),
		leaf("signatureValue", hex.EncodeToString(cert.SignatureValue)),
	}
}

// Version is the certificate version as displayed, i.e. 1 or 3. The encoded
// value is one less.
type Version int

func (v Version) String() string {
	return fmt.Sprintf("v%d (%d)", int(v), int(v)-1)
}

//	TBSCertificate  ::=  SEQUENCE  {
//		 version         [0]  EXPLICIT Version DEFAULT v1,
//		 serialNumber         CertificateSerialNumber,
//		 signature            AlgorithmIdentifier,
//		 issuer               Name,
//		 validity             Validity,
//		 subject              Name,
//		 subjectPublicKeyInfo SubjectPublicKeyInfo,
//		 issuerUniqueID  [1]  IMPLICIT UniqueIdentifier OPTIONAL,
//		 subjectUniqueID [2]  IMPLICIT UniqueIdentifier OPTIONAL,
//		 extensions      [3]  EXPLICIT Extensions OPTIONAL
//		 }
//
// Only v1 and v3 certificates are supported, and unique identifiers are
// rejected outright.
type TBSCertificate struct {
	Version              Version
	SerialNumber         []byte // big-endian content octets, unchanged
	Signature            AlgorithmIdentifier
	Issuer               Name
	Validity             Validity
	Subject              Name
	SubjectPublicKeyInfo SubjectPublicKeyInfo
	Extensions           Extensions // nil if the field is absent
}

func (tbs *TBSCertificate) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if tbs.Version, err = parseVersion(contents); err != nil {
		return fmt.Errorf("parsing version: %w", err)
	}

	serial, err := contents.ReadINTEGER()
	if err != nil {
		return fmt.Errorf("parsing serialNumber: %w", err)
	}
	tbs.SerialNumber = serial.Raw

	if tbs.Signature, err = parseTLV[AlgorithmIdentifier](contents); err != nil {
		return fmt.Errorf("parsing signature: %w", err)
	}

	if tbs.Issuer, err = parseTLV[Name](contents); err != nil {
		return fmt.Errorf("parsing issuer: %w", err)
	}

	if tbs.Validity, err = parseTLV[Validity](contents); err != nil {
		return fmt.Errorf("parsing validity: %w", err)
	}

	if tbs.Subject, err = parseTLV[Name](contents); err != nil {
		return fmt.Errorf("parsing subject: %w", err)
	}

	if tbs.SubjectPublicKeyInfo, err = parseTLV[SubjectPublicKeyInfo](contents); err != nil {
		return fmt.Errorf("parsing subjectPublicKeyInfo: %w", err)
	}

	// Unique identifiers are IMPLICIT BIT STRINGs, so primitive in DER, but
	// the constructed form is refused the same way.
	for _, tag := range []asn1.Tag{
		issuerUniqueIDTag, issuerUniqueIDTag.Constructed(),
		subjectUniqueIDTag, subjectUniqueIDTag.Constructed(),
	} {
		if contents.PeekTag(tag) {
			return fmt.Errorf("parsing uniqueIdentifier: %w", der.UnsupportedX509Feature)
		}
	}

	if contents.PeekTag(extensionsTag) {
		if tbs.Extensions, err = parseExtensionsField(contents); err != nil {
			return fmt.Errorf("parsing extensions: %w", err)
		}
	}

	return finish(contents, c)
}

func parseVersion(contents *der.Cursor) (Version, error) {
	if !contents.PeekTag(versionTag) {
		return 1, nil
	}
	explicit, err := contents.ReadGivenTag(versionTag)
	if err != nil {
		return 0, err
	}
	v, err := explicit.ReadINTEGER()
	if err != nil {
		return 0, err
	}
	if v.Large() || v.Value != 2 {
		return 0, der.UnsupportedVersion
	}
	if err := explicit.AssertAtEnd(); err != nil {
		return 0, err
	}
	return 3, nil
}

func parseExtensionsField(contents *der.Cursor) (Extensions, error) {
	explicit, err := contents.ReadGivenTag(extensionsTag)
	if err != nil {
		return nil, err
	}
	exts, err := parseTLV[Extensions](explicit)
	if err != nil {
		return nil, err
	}
	if err := explicit.AssertAtEnd(); err != nil {
		return nil, err
	}
	if exts == nil {
		exts = Extensions{}
	}
	return exts, nil
}

func (tbs TBSCertificate) Fields() []Field {
	fields := []Field{
		leaf("version", tbs.Version.String()),
		leaf("serialNumber", der.HexColon(tbs.SerialNumber)),
		child("signature", &tbs.Signature),
		child("issuer", tbs.Issuer),
		child("validity", &tbs.Validity),
		child("subject", tbs.Subject),
		child("subjectPublicKeyInfo", &tbs.SubjectPublicKeyInfo),
	}
	if tbs.Extensions == nil {
		return append(fields, leaf("extensions", NotPresent))
	}
	return append(fields, repeated[Extension]("extension", tbs.Extensions))
}

//	AlgorithmIdentifier  ::=  SEQUENCE  {
//	    algorithm               OBJECT IDENTIFIER,
//	    parameters              ANY DEFINED BY algorithm OPTIONAL  }
//
// Parameters, when present, must be NULL.
type AlgorithmIdentifier struct {
	Algorithm      der.ObjectIdentifier
	NullParameters bool
}

func (ai *AlgorithmIdentifier) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if ai.Algorithm, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing algorithm: %w", err)
	}

	if !contents.AtEnd() {
		if err := contents.ReadNULL(); err != nil {
			return fmt.Errorf("parsing parameters: %w", err)
		}
		ai.NullParameters = true
	}

	return finish(contents, c)
}

func (ai AlgorithmIdentifier) Fields() []Field {
	params := NotPresent
	if ai.NullParameters {
		params = "NULL"
	}
	return []Field{
		leaf("algorithm", ai.Algorithm.String()),
		leaf("parameters", params),
	}
}

//	Validity ::= SEQUENCE {
//	  notBefore      Time,
//	  notAfter       Time }
type Validity struct {
	NotBefore der.Time
	NotAfter  der.Time
}

func (v *Validity) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if v.NotBefore, err = parseTimeChoice(contents); err != nil {
		return fmt.Errorf("parsing notBefore: %w", err)
	}

	if v.NotAfter, err = parseTimeChoice(contents); err != nil {
		return fmt.Errorf("parsing notAfter: %w", err)
	}

	return finish(contents, c)
}

func parseTimeChoice(contents *der.Cursor) (der.Time, error) {
	tlv, err := contents.ReadTLVChoice(asn1.UTCTime, asn1.GeneralizedTime)
	if err != nil {
		return der.Time{}, err
	}
	return der.ParseTime(tlv)
}

func (v Validity) Fields() []Field {
	return []Field{
		leaf("notBefore", v.NotBefore.String()),
		leaf("notAfter", v.NotAfter.String()),
	}
}

//	SubjectPublicKeyInfo  ::=  SEQUENCE  {
//	    algorithm            AlgorithmIdentifier,
//	    subjectPublicKey     BIT STRING  }
//
// PublicKey is decoded further when the algorithm has a registered decoder
// (currently RSA) and is a RawPublicKey otherwise.
type SubjectPublicKeyInfo struct {
	Algorithm AlgorithmIdentifier
	PublicKey Node
}

// publicKeyDecoders maps a dotted algorithm OID to the decoder of the DER
// structure carried in subjectPublicKey.
var publicKeyDecoders = map[string]func(*der.Cursor) (Node, error){
	"1.2.840.113549.1.1.1": decodeAs[RSAPublicKey],
}

func (spki *SubjectPublicKeyInfo) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if spki.Algorithm, err = parseTLV[AlgorithmIdentifier](contents); err != nil {
		return fmt.Errorf("parsing algorithm: %w", err)
	}

	bits, err := contents.ReadBITSTRING()
	if err != nil {
		return fmt.Errorf("parsing subjectPublicKey: %w", err)
	}

	decode, ok := publicKeyDecoders[spki.Algorithm.Algorithm.Dotted()]
	if !ok {
		spki.PublicKey = RawPublicKey(bits)
		return finish(contents, c)
	}
	if spki.PublicKey, err = decode(der.New(bits)); err != nil {
		return fmt.Errorf("parsing subjectPublicKey: %w", err)
	}

	return finish(contents, c)
}

func (spki SubjectPublicKeyInfo) Fields() []Field {
	return []Field{
		child("algorithm", &spki.Algorithm),
		child("subjectPublicKey", spki.PublicKey),
	}
}

//	RSAPublicKey ::= SEQUENCE {
//	    modulus           INTEGER,  -- n
//	    publicExponent    INTEGER   -- e
//	}
type RSAPublicKey struct {
	Modulus        der.Integer
	PublicExponent der.Integer
}

func (k *RSAPublicKey) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if k.Modulus, err = contents.ReadINTEGER(); err != nil {
		return fmt.Errorf("parsing modulus: %w", err)
	}

	if k.PublicExponent, err = contents.ReadINTEGER(); err != nil {
		return fmt.Errorf("parsing publicExponent: %w", err)
	}

	return finish(contents, c)
}

func (k RSAPublicKey) Fields() []Field {
	return []Field{
		leaf("modulus", k.Modulus.String()),
		leaf("publicExponent", k.PublicExponent.String()),
	}
}

// RawPublicKey is the subjectPublicKey of an algorithm without a decoder.
type RawPublicKey []byte

func (k RawPublicKey) Fields() []Field {
	return []Field{leaf("key", der.HexColon(k))}
}
