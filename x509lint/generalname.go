package x509lint

import (
	"encoding/hex"
	"fmt"
	"net"

	"github.com/certcat/lintx509/der"
)

// GeneralNameType is the context-specific tag number of a GeneralName CHOICE.
type GeneralNameType uint8

const (
	OtherName                 GeneralNameType = 0
	RFC822Name                GeneralNameType = 1
	DNSName                   GeneralNameType = 2
	X400Address               GeneralNameType = 3
	DirectoryName             GeneralNameType = 4
	EDIPartyName              GeneralNameType = 5
	UniformResourceIdentifier GeneralNameType = 6
	IPAddress                 GeneralNameType = 7
	RegisteredID              GeneralNameType = 8
)

var generalNameTypes = [...]string{
	OtherName:                 "otherName",
	RFC822Name:                "rfc822Name",
	DNSName:                   "dNSName",
	X400Address:               "x400Address",
	DirectoryName:             "directoryName",
	EDIPartyName:              "ediPartyName",
	UniformResourceIdentifier: "uniformResourceIdentifier",
	IPAddress:                 "iPAddress",
	RegisteredID:              "registeredID",
}

func (t GeneralNameType) String() string {
	if int(t) < len(generalNameTypes) {
		return generalNameTypes[t]
	}
	return fmt.Sprintf("GeneralName[%d]", uint8(t))
}

// constructed reports whether DER encodes this alternative with the
// constructed bit set. directoryName is EXPLICIT because Name is a CHOICE.
func (t GeneralNameType) constructed() bool {
	switch t {
	case OtherName, X400Address, DirectoryName, EDIPartyName:
		return true
	default:
		return false
	}
}

//	GeneralName ::= CHOICE {
//	     otherName                       [0]     OtherName,
//	     rfc822Name                      [1]     IA5String,
//	     dNSName                         [2]     IA5String,
//	     x400Address                     [3]     ORAddress,
//	     directoryName                   [4]     Name,
//	     ediPartyName                    [5]     EDIPartyName,
//	     uniformResourceIdentifier       [6]     IA5String,
//	     iPAddress                       [7]     OCTET STRING,
//	     registeredID                    [8]     OBJECT IDENTIFIER }
//
// Value is the display form: the string for IA5String alternatives, the
// address (or CIDR inside name constraints) for iPAddress, the OID name for
// registeredID, and lowercase hex for the alternatives that are not decoded.
// For a directoryName, Directory holds the decoded Name as well.
type GeneralName struct {
	Type      GeneralNameType
	Value     string
	Directory Name
}

// parseGeneralName reads one GeneralName from c. When cidr is set an
// iPAddress carries an address followed by a mask of the same length, as in
// name constraints.
func parseGeneralName(c *der.Cursor, cidr bool) (GeneralName, error) {
	tag, data, err := c.ReadAnyTLV()
	if err != nil {
		return GeneralName{}, err
	}
	if tag&0xc0 != 0x80 {
		return GeneralName{}, der.UnexpectedTag
	}

	gn := GeneralName{Type: GeneralNameType(tag & 0x1f)}
	if gn.Type > RegisteredID || gn.Type.constructed() != (tag&0x20 != 0) {
		return GeneralName{}, der.UnexpectedTag
	}

	switch gn.Type {
	case RFC822Name, DNSName, UniformResourceIdentifier:
		if gn.Value, err = der.DecodeUTF8(data); err != nil {
			return GeneralName{}, fmt.Errorf("parsing %s: %w", gn.Type, err)
		}
	case IPAddress:
		if gn.Value, err = ipString(data, cidr); err != nil {
			return GeneralName{}, fmt.Errorf("parsing %s: %w", gn.Type, err)
		}
	case DirectoryName:
		inner := der.New(data)
		if gn.Directory, err = parseTLV[Name](inner); err != nil {
			return GeneralName{}, fmt.Errorf("parsing %s: %w", gn.Type, err)
		}
		if err := inner.AssertAtEnd(); err != nil {
			return GeneralName{}, fmt.Errorf("parsing %s: %w", gn.Type, err)
		}
		gn.Value = gn.Directory.String()
	case RegisteredID:
		oid, err := der.ParseObjectIdentifier(data)
		if err != nil {
			return GeneralName{}, fmt.Errorf("parsing %s: %w", gn.Type, err)
		}
		gn.Value = oid.String()
	default:
		gn.Value = hex.EncodeToString(data)
	}

	return gn, nil
}

func ipString(data []byte, cidr bool) (string, error) {
	if !cidr {
		if len(data) != net.IPv4len && len(data) != net.IPv6len {
			return "", der.UnsupportedExtensionValue
		}
		return net.IP(data).String(), nil
	}
	if len(data) != 2*net.IPv4len && len(data) != 2*net.IPv6len {
		return "", der.UnsupportedExtensionValue
	}
	half := len(data) / 2
	ipnet := net.IPNet{
		IP:   net.IP(data[:half]),
		Mask: net.IPMask(data[half:]),
	}
	return ipnet.String(), nil
}

func (gn GeneralName) Fields() []Field {
	if gn.Type == DirectoryName {
		return []Field{child(gn.Type.String(), gn.Directory)}
	}
	return []Field{leaf(gn.Type.String(), gn.Value)}
}

func (gn GeneralName) String() string {
	return gn.Type.String() + ":" + gn.Value
}

// GeneralNames is a SEQUENCE OF GeneralName. It is the value of the
// subjectAltName and issuerAltName extensions.
type GeneralNames []GeneralName

func (gns *GeneralNames) Parse(c *der.Cursor) error {
	contents, err := c.ReadSEQUENCE()
	if err != nil {
		return err
	}
	names, err := readGeneralNames(contents)
	if err != nil {
		return err
	}
	*gns = names
	return finish(contents, c)
}

func readGeneralNames(contents *der.Cursor) ([]GeneralName, error) {
	var names []GeneralName
	for !contents.AtEnd() {
		gn, err := parseGeneralName(contents, false)
		if err != nil {
			return nil, fmt.Errorf("parsing GeneralName: %w", err)
		}
		names = append(names, gn)
	}
	return names, nil
}

func (gns GeneralNames) Fields() []Field {
	return []Field{repeated[GeneralName]("name", gns)}
}
