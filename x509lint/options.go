package x509lint

import (
	"fmt"

	"github.com/certcat/lintx509/der"
)

// Options controls policy decisions that are not part of DER itself. The
// zero value is the permissive default.
type Options struct {
	// RejectUnknownCritical fails parsing with
	// der.UnrecognizedCriticalExtension when a critical extension has no
	// registered decoder, as RFC5280 4.2 asks of relying parties. When false
	// such extensions are kept as *UnknownExtension.
	RejectUnknownCritical bool
}

// ParseCertificate decodes a DER certificate that must span all of b and
// then applies the policy in o.
func (o Options) ParseCertificate(b []byte) (*Certificate, error) {
	c := der.New(b)
	cert := new(Certificate)
	if err := cert.Parse(c); err != nil {
		return nil, err
	}
	if err := o.Check(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Check applies the policy in o to an already parsed certificate.
func (o Options) Check(cert *Certificate) error {
	if !o.RejectUnknownCritical {
		return nil
	}
	for _, ext := range cert.TBSCertificate.Extensions {
		if ext.Critical && !ext.Known() {
			return fmt.Errorf("parsing tbsCertificate: parsing extension %s: %w", ext.ExtnID, der.UnrecognizedCriticalExtension)
		}
	}
	return nil
}
