package x509lint

import (
	"encoding/hex"
	"fmt"

	"github.com/certcat/lintx509/der"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	keyIdentifierTag        = asn1.Tag(0).ContextSpecific()
	authorityCertIssuerTag  = asn1.Tag(1).Constructed().ContextSpecific()
	authorityCertSerialTag  = asn1.Tag(2).ContextSpecific()
	permittedSubtreesTag    = asn1.Tag(0).Constructed().ContextSpecific()
	excludedSubtreesTag     = asn1.Tag(1).Constructed().ContextSpecific()
	distributionPointTag    = asn1.Tag(0).Constructed().ContextSpecific()
	fullNameTag             = asn1.Tag(0).Constructed().ContextSpecific()
	nameRelativeToCRLIssuer = asn1.Tag(1).Constructed().ContextSpecific()
)

// AuthorityKeyIdentifier as described in RFC5280 4.2.1.1
//
//	AuthorityKeyIdentifier ::= SEQUENCE {
//	  keyIdentifier             [0] KeyIdentifier           OPTIONAL,
//	  authorityCertIssuer       [1] GeneralNames            OPTIONAL,
//	  authorityCertSerialNumber [2] CertificateSerialNumber OPTIONAL  }
//
// Absent fields are nil.
type AuthorityKeyIdentifier struct {
	KeyIdentifier             []byte
	AuthorityCertIssuer       GeneralNames
	AuthorityCertSerialNumber []byte
}

func (aki *AuthorityKeyIdentifier) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if contents.PeekTag(keyIdentifierTag) {
		if aki.KeyIdentifier, err = contents.ReadTagAndContent(keyIdentifierTag); err != nil {
			return fmt.Errorf("parsing keyIdentifier: %w", err)
		}
	}

	if contents.PeekTag(authorityCertIssuerTag) {
		issuer, err := contents.ReadGivenTag(authorityCertIssuerTag)
		if err != nil {
			return fmt.Errorf("parsing authorityCertIssuer: %w", err)
		}
		if aki.AuthorityCertIssuer, err = readGeneralNames(issuer); err != nil {
			return fmt.Errorf("parsing authorityCertIssuer: %w", err)
		}
		if aki.AuthorityCertIssuer == nil {
			aki.AuthorityCertIssuer = GeneralNames{}
		}
	}

	if contents.PeekTag(authorityCertSerialTag) {
		if aki.AuthorityCertSerialNumber, err = contents.ReadTagAndContent(authorityCertSerialTag); err != nil {
			return fmt.Errorf("parsing authorityCertSerialNumber: %w", err)
		}
	}

	return finish(contents, c)
}

func (aki AuthorityKeyIdentifier) Fields() []Field {
	issuer := leaf("authorityCertIssuer", NotPresent)
	if aki.AuthorityCertIssuer != nil {
		issuer = child("authorityCertIssuer", aki.AuthorityCertIssuer)
	}
	return []Field{
		leaf("keyIdentifier", hexOrAbsent(aki.KeyIdentifier, true)),
		issuer,
		leaf("authorityCertSerialNumber", hexOrAbsent(aki.AuthorityCertSerialNumber, true)),
	}
}

// ExtKeyUsage as described in RFC5280 4.2.1.12
//
//	ExtKeyUsageSyntax ::= SEQUENCE SIZE (1..MAX) OF KeyPurposeId
//	KeyPurposeId ::= OBJECT IDENTIFIER
type ExtKeyUsage []der.ObjectIdentifier

func (eku *ExtKeyUsage) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	var purposes ExtKeyUsage
	for !contents.AtEnd() {
		oid, err := contents.ReadOID()
		if err != nil {
			return fmt.Errorf("parsing KeyPurposeId: %w", err)
		}
		purposes = append(purposes, oid)
	}
	*eku = purposes
	return finish(contents, c)
}

func (eku ExtKeyUsage) Fields() []Field {
	fields := make([]Field, 0, len(eku))
	for _, oid := range eku {
		fields = append(fields, leaf("keyPurposeId", oid.String()))
	}
	return fields
}

// NameConstraints as described in RFC5280 4.2.1.10
//
//	NameConstraints ::= SEQUENCE {
//	     permittedSubtrees       [0]     GeneralSubtrees OPTIONAL,
//	     excludedSubtrees        [1]     GeneralSubtrees OPTIONAL }
//
//	GeneralSubtrees ::= SEQUENCE SIZE (1..MAX) OF GeneralSubtree
type NameConstraints struct {
	PermittedSubtrees []GeneralSubtree
	ExcludedSubtrees  []GeneralSubtree
}

func (nc *NameConstraints) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if nc.PermittedSubtrees, err = parseSubtrees(contents, permittedSubtreesTag); err != nil {
		return fmt.Errorf("parsing permittedSubtrees: %w", err)
	}

	if nc.ExcludedSubtrees, err = parseSubtrees(contents, excludedSubtreesTag); err != nil {
		return fmt.Errorf("parsing excludedSubtrees: %w", err)
	}

	return finish(contents, c)
}

func parseSubtrees(contents *der.Cursor, tag asn1.Tag) ([]GeneralSubtree, error) {
	if !contents.PeekTag(tag) {
		return nil, nil
	}
	subtrees, err := contents.ReadGivenTag(tag)
	if err != nil {
		return nil, err
	}
	ret, err := parseAll[GeneralSubtree](subtrees)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		ret = []GeneralSubtree{}
	}
	return ret, nil
}

func (nc NameConstraints) Fields() []Field {
	return []Field{
		subtreesField("permittedSubtrees", nc.PermittedSubtrees),
		subtreesField("excludedSubtrees", nc.ExcludedSubtrees),
	}
}

func subtreesField(label string, subtrees []GeneralSubtree) Field {
	if subtrees == nil {
		return leaf(label, NotPresent)
	}
	return repeated[GeneralSubtree](label, subtrees)
}

//	GeneralSubtree ::= SEQUENCE {
//	     base                    GeneralName,
//	     minimum         [0]     BaseDistance DEFAULT 0,
//	     maximum         [1]     BaseDistance OPTIONAL }
//
// RFC5280 forbids minimum and maximum, so they are rejected. An iPAddress
// base is an address and mask, rendered in CIDR notation.
type GeneralSubtree struct {
	Base GeneralName
}

func (gs *GeneralSubtree) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if gs.Base, err = parseGeneralName(contents, true); err != nil {
		return fmt.Errorf("parsing base: %w", err)
	}

	if contents.PeekTag(asn1.Tag(0).ContextSpecific()) || contents.PeekTag(asn1.Tag(1).ContextSpecific()) {
		return der.UnsupportedExtensionValue
	}

	return finish(contents, c)
}

func (gs GeneralSubtree) Fields() []Field {
	return []Field{child("base", gs.Base)}
}

// CRLDistributionPoints as described in RFC5280 4.2.1.13
//
//	CRLDistributionPoints ::= SEQUENCE SIZE (1..MAX) OF DistributionPoint
type CRLDistributionPoints []DistributionPoint

func (dps *CRLDistributionPoints) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	list, err := parseAll[DistributionPoint](contents)
	if err != nil {
		return fmt.Errorf("parsing DistributionPoint: %w", err)
	}
	*dps = list
	return finish(contents, c)
}

func (dps CRLDistributionPoints) Fields() []Field {
	return []Field{repeated[DistributionPoint]("distributionPoint", dps)}
}

//	DistributionPoint ::= SEQUENCE {
//	     distributionPoint       [0]     DistributionPointName OPTIONAL,
//	     reasons                 [1]     ReasonFlags OPTIONAL,
//	     cRLIssuer               [2]     GeneralNames OPTIONAL }
//
//	DistributionPointName ::= CHOICE {
//	     fullName                [0]     GeneralNames,
//	     nameRelativeToCRLIssuer [1]     RelativeDistinguishedName }
//
// Only the fullName form is supported. reasons and cRLIssuer are forbidden
// by the CA/Browser Forum baseline requirements and are rejected.
type DistributionPoint struct {
	FullName GeneralNames
}

func (dp *DistributionPoint) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if !contents.PeekTag(distributionPointTag) {
		return der.UnsupportedExtensionValue
	}
	dpn, err := contents.ReadGivenTag(distributionPointTag)
	if err != nil {
		return fmt.Errorf("parsing distributionPoint: %w", err)
	}
	if dpn.PeekTag(nameRelativeToCRLIssuer) {
		return fmt.Errorf("parsing distributionPoint: %w", der.UnsupportedExtensionValue)
	}
	fullName, err := dpn.ReadGivenTag(fullNameTag)
	if err != nil {
		return fmt.Errorf("parsing fullName: %w", err)
	}
	if dp.FullName, err = readGeneralNames(fullName); err != nil {
		return fmt.Errorf("parsing fullName: %w", err)
	}
	if err := dpn.AssertAtEnd(); err != nil {
		return fmt.Errorf("parsing distributionPoint: %w", err)
	}

	if !contents.AtEnd() {
		return der.UnsupportedExtensionValue
	}

	return finish(contents, c)
}

func (dp DistributionPoint) Fields() []Field {
	return []Field{child("fullName", dp.FullName)}
}

// AuthorityInfoAccess as described in RFC5280 4.2.2.1
//
//	AuthorityInfoAccessSyntax  ::=
//	        SEQUENCE SIZE (1..MAX) OF AccessDescription
type AuthorityInfoAccess []AccessDescription

func (aia *AuthorityInfoAccess) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	list, err := parseAll[AccessDescription](contents)
	if err != nil {
		return fmt.Errorf("parsing AccessDescription: %w", err)
	}
	*aia = list
	return finish(contents, c)
}

func (aia AuthorityInfoAccess) Fields() []Field {
	return []Field{repeated[AccessDescription]("accessDescription", aia)}
}

//	AccessDescription  ::=  SEQUENCE  {
//	  accessMethod   OBJECT IDENTIFIER,
//	  accessLocation GeneralName  }
type AccessDescription struct {
	AccessMethod   der.ObjectIdentifier
	AccessLocation GeneralName
}

func (ad *AccessDescription) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if ad.AccessMethod, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing accessMethod: %w", err)
	}

	if ad.AccessLocation, err = parseGeneralName(contents, false); err != nil {
		return fmt.Errorf("parsing accessLocation: %w", err)
	}

	return finish(contents, c)
}

func (ad AccessDescription) Fields() []Field {
	return []Field{
		leaf("accessMethod", ad.AccessMethod.String()),
		child("accessLocation", ad.AccessLocation),
	}
}

// TLSFeature is a TLS extension number, which is 16-bit in TLS.
type TLSFeature uint16

func (f TLSFeature) String() string {
	if f == 5 {
		return "status_request (5)"
	}
	return fmt.Sprintf("%d", uint16(f))
}

// TLSFeatures as described in RFC7633. It is mostly seen as OCSP
// must-staple.
//
//	Features ::= SEQUENCE OF INTEGER
type TLSFeatures []TLSFeature

func (tf *TLSFeatures) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	var features TLSFeatures
	for !contents.AtEnd() {
		n, err := contents.ReadINTEGER()
		if err != nil {
			return fmt.Errorf("parsing feature: %w", err)
		}
		if n.Large() || n.Value > 0xffff {
			return fmt.Errorf("parsing feature: %w", der.UnsupportedExtensionValue)
		}
		features = append(features, TLSFeature(n.Value))
	}
	*tf = features
	return finish(contents, c)
}

func (tf TLSFeatures) Fields() []Field {
	fields := make([]Field, 0, len(tf))
	for _, f := range tf {
		fields = append(fields, leaf("feature", f.String()))
	}
	return fields
}

// SignedCertificateTimestamps as described in RFC6962 3.3. The OCTET STRING
// holds a TLS-encoded SignedCertificateTimestampList, kept as is.
type SignedCertificateTimestamps struct {
	Raw []byte
}

func (sct *SignedCertificateTimestamps) Parse(c *der.Cursor) error {
	var err error
	if sct.Raw, err = c.ReadOCTETSTRING(); err != nil {
		return err
	}
	return c.AssertAtEnd()
}

func (sct SignedCertificateTimestamps) Fields() []Field {
	return []Field{leaf("sctList", hex.EncodeToString(sct.Raw))}
}

// PrecertificatePoison as described in RFC6962 3.1. Its value is NULL.
type PrecertificatePoison struct{}

func (*PrecertificatePoison) Parse(c *der.Cursor) error {
	if err := c.ReadNULL(); err != nil {
		return err
	}
	return c.AssertAtEnd()
}

func (PrecertificatePoison) Fields() []Field {
	return []Field{leaf("value", "NULL")}
}

var (
	notBeforeTag = asn1.Tag(0).ContextSpecific()
	notAfterTag  = asn1.Tag(1).ContextSpecific()
)

// PrivateKeyUsagePeriod as described in RFC3280 4.2.1.4 (note: Not 5280)
//
//	PrivateKeyUsagePeriod ::= SEQUENCE {
//	    notBefore       [0]     GeneralizedTime OPTIONAL,
//	    notAfter        [1]     GeneralizedTime OPTIONAL }
type PrivateKeyUsagePeriod struct {
	NotBefore *der.Time
	NotAfter  *der.Time
}

func (p *PrivateKeyUsagePeriod) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	if p.NotBefore, err = parseImplicitTime(contents, notBeforeTag); err != nil {
		return fmt.Errorf("parsing notBefore: %w", err)
	}
	if p.NotAfter, err = parseImplicitTime(contents, notAfterTag); err != nil {
		return fmt.Errorf("parsing notAfter: %w", err)
	}
	return finish(contents, c)
}

// parseImplicitTime reads an optional GeneralizedTime carrying tag instead
// of its universal one.
func parseImplicitTime(c *der.Cursor, tag asn1.Tag) (*der.Time, error) {
	if !c.PeekTag(tag) {
		return nil, nil
	}
	contents, err := c.ReadGivenTag(tag)
	if err != nil {
		return nil, err
	}
	t, err := der.ParseTimeContents(asn1.GeneralizedTime, contents)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p PrivateKeyUsagePeriod) Fields() []Field {
	return []Field{
		leaf("notBefore", timeOrAbsent(p.NotBefore)),
		leaf("notAfter", timeOrAbsent(p.NotAfter)),
	}
}

func timeOrAbsent(t *der.Time) string {
	if t == nil {
		return NotPresent
	}
	return t.String()
}
