package x509lint

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/certcat/lintx509/der"
	"golang.org/x/crypto/cryptobyte/asn1"
)

const (
	visibleStringTag = asn1.Tag(26)
	bmpStringTag     = asn1.Tag(30)
)

// CertificatePolicies as described in RFC5280 4.2.1.4
//
//	certificatePolicies ::= SEQUENCE SIZE (1..MAX) OF PolicyInformation
type CertificatePolicies []PolicyInformation

func (cp *CertificatePolicies) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	list, err := parseAll[PolicyInformation](contents)
	if err != nil {
		return fmt.Errorf("parsing PolicyInformation: %w", err)
	}
	*cp = list
	return finish(contents, c)
}

func (cp CertificatePolicies) Fields() []Field {
	return []Field{repeated[PolicyInformation]("policyInformation", cp)}
}

//	PolicyInformation ::= SEQUENCE {
//	     policyIdentifier   CertPolicyId,
//	     policyQualifiers   SEQUENCE SIZE (1..MAX) OF
//	                             PolicyQualifierInfo OPTIONAL }
//
// PolicyQualifiers is nil when absent.
type PolicyInformation struct {
	PolicyIdentifier der.ObjectIdentifier
	PolicyQualifiers []PolicyQualifierInfo
}

func (pi *PolicyInformation) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if pi.PolicyIdentifier, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing policyIdentifier: %w", err)
	}

	if !contents.AtEnd() {
		qualifiers, err := contents.ReadSEQUENCE()
		if err != nil {
			return fmt.Errorf("parsing policyQualifiers: %w", err)
		}
		if pi.PolicyQualifiers, err = parseAll[PolicyQualifierInfo](qualifiers); err != nil {
			return fmt.Errorf("parsing policyQualifiers: %w", err)
		}
		if pi.PolicyQualifiers == nil {
			pi.PolicyQualifiers = []PolicyQualifierInfo{}
		}
	}

	return finish(contents, c)
}

func (pi PolicyInformation) Fields() []Field {
	qualifiers := leaf("policyQualifiers", NotPresent)
	if pi.PolicyQualifiers != nil {
		qualifiers = repeated[PolicyQualifierInfo]("policyQualifiers", pi.PolicyQualifiers)
	}
	return []Field{
		leaf("policyIdentifier", pi.PolicyIdentifier.String()),
		qualifiers,
	}
}

//	PolicyQualifierInfo ::= SEQUENCE {
//	     policyQualifierId  PolicyQualifierId,
//	     qualifier          ANY DEFINED BY policyQualifierId }
//
// A CPS pointer is decoded to its URI and a user notice to its explicit
// text. Other qualifiers are kept as the hex of their encoding.
type PolicyQualifierInfo struct {
	PolicyQualifierID der.ObjectIdentifier
	Qualifier         string
}

func (pq *PolicyQualifierInfo) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if pq.PolicyQualifierID, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing policyQualifierId: %w", err)
	}

	switch pq.PolicyQualifierID.Dotted() {
	case "1.3.6.1.5.5.7.2.1": // id-qt-cps
		uri, err := contents.ReadTagAndContent(asn1.IA5String)
		if err != nil {
			return fmt.Errorf("parsing cPSuri: %w", err)
		}
		if pq.Qualifier, err = der.DecodeUTF8(uri); err != nil {
			return fmt.Errorf("parsing cPSuri: %w", err)
		}
	case "1.3.6.1.5.5.7.2.2": // id-qt-unotice
		if pq.Qualifier, err = parseUserNotice(contents); err != nil {
			return fmt.Errorf("parsing userNotice: %w", err)
		}
	default:
		rest, err := contents.ReadBytes(contents.Len())
		if err != nil {
			return err
		}
		pq.Qualifier = hex.EncodeToString(rest)
	}

	return finish(contents, c)
}

//	UserNotice ::= SEQUENCE {
//	     noticeRef        NoticeReference OPTIONAL,
//	     explicitText     DisplayText OPTIONAL }
func parseUserNotice(c *der.Cursor) (string, error) {
	notice, err := c.ReadSEQUENCE()
	if err != nil {
		return "", err
	}

	var text string
	if notice.PeekTag(asn1.SEQUENCE) {
		ref, err := notice.ReadTagAndContent(asn1.SEQUENCE)
		if err != nil {
			return "", fmt.Errorf("parsing noticeRef: %w", err)
		}
		text = "NoticeReference:" + hex.EncodeToString(ref)
	}

	if !notice.AtEnd() {
		tag, content, err := notice.ReadAnyTLV()
		if err != nil {
			return "", fmt.Errorf("parsing explicitText: %w", err)
		}
		explicit, err := displayText(tag, content)
		if err != nil {
			return "", fmt.Errorf("parsing explicitText: %w", err)
		}
		if text != "" {
			text += " "
		}
		text += explicit
	}

	return text, notice.AssertAtEnd()
}

//	DisplayText ::= CHOICE {
//	     ia5String        IA5String      (SIZE (1..200)),
//	     visibleString    VisibleString  (SIZE (1..200)),
//	     bmpString        BMPString      (SIZE (1..200)),
//	     utf8String       UTF8String     (SIZE (1..200)) }
func displayText(tag asn1.Tag, content []byte) (string, error) {
	switch tag {
	case asn1.IA5String, visibleStringTag, asn1.UTF8String:
		return der.DecodeUTF8(content)
	case bmpStringTag:
		return decodeBMPString(content)
	default:
		return "", der.UnsupportedStringType
	}
}

// decodeBMPString decodes a big-endian UTF-16 BMPString.
func decodeBMPString(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", der.UnsupportedExtensionValue
	}
	s := make([]uint16, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		s = append(s, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(s)), nil
}

func (pq PolicyQualifierInfo) Fields() []Field {
	return []Field{
		leaf("policyQualifierId", pq.PolicyQualifierID.String()),
		leaf("qualifier", pq.Qualifier),
	}
}

// PolicyMappings as described in RFC5280 4.2.1.5
//
//	PolicyMappings ::= SEQUENCE SIZE (1..MAX) OF SEQUENCE {
//	     issuerDomainPolicy      CertPolicyId,
//	     subjectDomainPolicy     CertPolicyId }
type PolicyMappings []PolicyMapping

func (pm *PolicyMappings) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	list, err := parseAll[PolicyMapping](contents)
	if err != nil {
		return fmt.Errorf("parsing PolicyMapping: %w", err)
	}
	*pm = list
	return finish(contents, c)
}

func (pm PolicyMappings) Fields() []Field {
	return []Field{repeated[PolicyMapping]("mapping", pm)}
}

type PolicyMapping struct {
	IssuerDomainPolicy  der.ObjectIdentifier
	SubjectDomainPolicy der.ObjectIdentifier
}

func (m *PolicyMapping) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}

	if m.IssuerDomainPolicy, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing issuerDomainPolicy: %w", err)
	}

	if m.SubjectDomainPolicy, err = contents.ReadOID(); err != nil {
		return fmt.Errorf("parsing subjectDomainPolicy: %w", err)
	}

	return finish(contents, c)
}

func (m PolicyMapping) Fields() []Field {
	return []Field{
		leaf("issuerDomainPolicy", m.IssuerDomainPolicy.String()),
		leaf("subjectDomainPolicy", m.SubjectDomainPolicy.String()),
	}
}

// InhibitAnyPolicy as described in RFC5280 4.2.1.14
//
//	InhibitAnyPolicy ::= SkipCerts
//	SkipCerts ::= INTEGER (0..MAX)
type InhibitAnyPolicy struct {
	SkipCerts uint64
}

func (ia *InhibitAnyPolicy) Parse(c *der.Cursor) error {
	n, err := c.ReadINTEGER()
	if err != nil {
		return err
	}
	if n.Large() {
		return der.UnsupportedExtensionValue
	}
	ia.SkipCerts = n.Value
	return c.AssertAtEnd()
}

func (ia InhibitAnyPolicy) Fields() []Field {
	return []Field{leaf("skipCerts", strconv.FormatUint(ia.SkipCerts, 10))}
}
