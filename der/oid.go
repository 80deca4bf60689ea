package der

import (
	encoding_asn1 "encoding/asn1"
	"math"
)

// ObjectIdentifier is a decoded OBJECT IDENTIFIER. It is immutable once
// decoded.
type ObjectIdentifier encoding_asn1.ObjectIdentifier

// ParseObjectIdentifier decodes the content octets of an OBJECT IDENTIFIER.
// The first octet carries the first two arcs as arc0*40+arc1, the rest is a
// sequence of base-128 arcs with the high bit marking continuation.
func ParseObjectIdentifier(content []byte) (ObjectIdentifier, error) {
	if len(content) == 0 {
		return nil, DataTruncated
	}
	arc0 := int(content[0]) / 40
	oid := ObjectIdentifier{arc0, int(content[0]) - 40*arc0}

	acc := 0
	pending := false
	for _, b := range content[1:] {
		if acc > math.MaxInt>>7 {
			return nil, UnsupportedAsn1
		}
		acc = acc*128 + int(b&0x7f)
		if b&0x80 != 0 {
			pending = true
			continue
		}
		oid = append(oid, acc)
		acc = 0
		pending = false
	}
	if pending {
		return nil, DataTruncated
	}
	return oid, nil
}

// Dotted returns the dotted-decimal form, e.g. "2.5.29.19".
func (oid ObjectIdentifier) Dotted() string {
	return encoding_asn1.ObjectIdentifier(oid).String()
}

// Equal reports whether both identifiers have the same arcs.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return encoding_asn1.ObjectIdentifier(oid).Equal(encoding_asn1.ObjectIdentifier(other))
}

// Name returns the well-known symbolic name of oid, if there is one.
func (oid ObjectIdentifier) Name() (string, bool) {
	name, ok := oidNames[oid.Dotted()]
	return name, ok
}

// String returns the symbolic name of oid, or "unknown OID (<dotted>)".
func (oid ObjectIdentifier) String() string {
	if name, ok := oid.Name(); ok {
		return name
	}
	return "unknown OID (" + oid.Dotted() + ")"
}

var oidNames = map[string]string{
	// Public key and signature algorithms
	"1.2.840.113549.1.1.1":  "rsaEncryption",
	"1.2.840.113549.1.1.5":  "sha1WithRSAEncryption",
	"1.2.840.113549.1.1.10": "id-RSASSA-PSS",
	"1.2.840.113549.1.1.11": "sha256WithRSAEncryption",
	"1.2.840.113549.1.1.12": "sha384WithRSAEncryption",
	"1.2.840.113549.1.1.13": "sha512WithRSAEncryption",
	"1.2.840.10045.2.1":     "id-ecPublicKey",
	"1.2.840.10045.4.3.2":   "ecdsa-with-SHA256",
	"1.2.840.10045.4.3.3":   "ecdsa-with-SHA384",
	"1.2.840.10045.4.3.4":   "ecdsa-with-SHA512",
	"1.3.101.112":           "id-Ed25519",

	// X.520 attribute types
	"2.5.4.3":                    "id-at-commonName",
	"2.5.4.4":                    "id-at-surname",
	"2.5.4.5":                    "id-at-serialNumber",
	"2.5.4.6":                    "id-at-countryName",
	"2.5.4.7":                    "id-at-localityName",
	"2.5.4.8":                    "id-at-stateOrProvinceName",
	"2.5.4.9":                    "id-at-streetAddress",
	"2.5.4.10":                   "id-at-organizationName",
	"2.5.4.11":                   "id-at-organizationalUnitName",
	"2.5.4.42":                   "id-at-givenName",
	"1.2.840.113549.1.9.1":       "id-emailAddress",
	"0.9.2342.19200300.100.1.1":  "id-uid",
	"0.9.2342.19200300.100.1.25": "id-domainComponent",

	// Certificate extensions
	"2.5.29.14": "id-ce-subjectKeyIdentifier",
	"2.5.29.15": "id-ce-keyUsage",
	"2.5.29.16": "id-ce-privateKeyUsagePeriod",
	"2.5.29.17": "id-ce-subjectAltName",
	"2.5.29.18": "id-ce-issuerAltName",
	"2.5.29.19": "id-ce-basicConstraints",
	"2.5.29.30": "id-ce-nameConstraints",
	"2.5.29.31": "id-ce-cRLDistributionPoints",
	"2.5.29.32": "id-ce-certificatePolicies",
	"2.5.29.33": "id-ce-policyMappings",
	"2.5.29.35": "id-ce-authorityKeyIdentifier",
	"2.5.29.36": "id-ce-policyConstraints",
	"2.5.29.37": "id-ce-extKeyUsage",
	"2.5.29.54": "id-ce-inhibitAnyPolicy",

	"1.3.6.1.5.5.7.1.1":       "id-pe-authorityInfoAccess",
	"1.3.6.1.5.5.7.1.24":      "id-pe-tlsfeature",
	"1.3.6.1.4.1.11129.2.4.2": "id-ct-signedCertificateTimestamps",
	"1.3.6.1.4.1.11129.2.4.3": "id-ct-precertificatePoison",

	// Policies and qualifiers
	"2.5.29.32.0":       "anyPolicy",
	"1.3.6.1.5.5.7.2.1": "id-qt-cps",
	"1.3.6.1.5.5.7.2.2": "id-qt-unotice",
	"2.23.140.1.1":      "ev-guidelines",
	"2.23.140.1.2.1":    "domain-validated",
	"2.23.140.1.2.2":    "organization-validated",

	// Key purposes
	"2.5.29.37.0":       "anyExtendedKeyUsage",
	"1.3.6.1.5.5.7.3.1": "id-kp-serverAuth",
	"1.3.6.1.5.5.7.3.2": "id-kp-clientAuth",
	"1.3.6.1.5.5.7.3.3": "id-kp-codeSigning",
	"1.3.6.1.5.5.7.3.4": "id-kp-emailProtection",
	"1.3.6.1.5.5.7.3.8": "id-kp-timeStamping",
	"1.3.6.1.5.5.7.3.9": "id-kp-OCSPSigning",

	// Access methods
	"1.3.6.1.5.5.7.48.1": "id-ad-ocsp",
	"1.3.6.1.5.5.7.48.2": "id-ad-caIssuers",
}
