package pem

import (
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/certcat/lintx509/x509lint"
)

// ErrNoCertificates is returned when content holds no CERTIFICATE block.
var ErrNoCertificates = errors.New("no CERTIFICATE blocks found")

// DER returns the bytes of every CERTIFICATE block in content, in order.
// Other block types are skipped.
func DER(content []byte) [][]byte {
	var block *pem.Block
	var ders [][]byte

	for {
		block, content = pem.Decode(content)
		if block == nil {
			return ders
		}
		if block.Type != "CERTIFICATE" {
			// TODO: May want to support loading cert + key files too
			continue
		}
		ders = append(ders, block.Bytes)
	}
}

// LoadAll x509 certificates from content, parsing each with opts. The first
// certificate that fails to parse stops the load.
func LoadAll(content []byte, opts x509lint.Options) ([]*x509lint.Certificate, error) {
	ders := DER(content)
	if len(ders) == 0 {
		return nil, ErrNoCertificates
	}

	certs := make([]*x509lint.Certificate, 0, len(ders))
	for i, der := range ders {
		certificate, err := opts.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", i, err)
		}
		certs = append(certs, certificate)
	}
	return certs, nil
}
