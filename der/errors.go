package der

import "errors"

// Kind identifies a class of decoding failure. Every Kind is itself an error,
// so the constants below can be used directly as sentinel values with
// errors.Is.
type Kind uint8

const (
	_ Kind = iota
	DataTruncated
	UnexpectedTag
	UnsupportedAsn1
	InvalidLength
	UnsupportedLength
	ExtraData
	NullWithData
	UnsupportedX509Feature
	TimeNotUtcOrGeneralized
	TimeNotValid
	InvalidBooleanEncoding
	InvalidBooleanValue
	UnsupportedStringType
	UnsupportedVersion
	UnsupportedExtensionValue
	InvalidUtf8Encoding
	UnrecognizedCriticalExtension
	LibraryFailure
)

var kindNames = [...]string{
	DataTruncated:                 "data truncated",
	UnexpectedTag:                 "unexpected tag",
	UnsupportedAsn1:               "unsupported asn.1",
	InvalidLength:                 "invalid length",
	UnsupportedLength:             "unsupported length",
	ExtraData:                     "extra data",
	NullWithData:                  "NULL tag containing data",
	UnsupportedX509Feature:        "unsupported x509 feature",
	TimeNotUtcOrGeneralized:       "Time not UTCTime or GeneralizedTime",
	TimeNotValid:                  "Time not valid",
	InvalidBooleanEncoding:        "invalid BOOLEAN encoding",
	InvalidBooleanValue:           "invalid BOOLEAN value",
	UnsupportedStringType:         "unsupported string type",
	UnsupportedVersion:            "unsupported version",
	UnsupportedExtensionValue:     "unsupported extension value",
	InvalidUtf8Encoding:           "invalid UTF-8 encoding",
	UnrecognizedCriticalExtension: "unrecognized critical extension",
	LibraryFailure:                "library failure",
}

var kindIdents = [...]string{
	DataTruncated:                 "DataTruncated",
	UnexpectedTag:                 "UnexpectedTag",
	UnsupportedAsn1:               "UnsupportedAsn1",
	InvalidLength:                 "InvalidLength",
	UnsupportedLength:             "UnsupportedLength",
	ExtraData:                     "ExtraData",
	NullWithData:                  "NullWithData",
	UnsupportedX509Feature:        "UnsupportedX509Feature",
	TimeNotUtcOrGeneralized:       "TimeNotUtcOrGeneralized",
	TimeNotValid:                  "TimeNotValid",
	InvalidBooleanEncoding:        "InvalidBooleanEncoding",
	InvalidBooleanValue:           "InvalidBooleanValue",
	UnsupportedStringType:         "UnsupportedStringType",
	UnsupportedVersion:            "UnsupportedVersion",
	UnsupportedExtensionValue:     "UnsupportedExtensionValue",
	InvalidUtf8Encoding:           "InvalidUtf8Encoding",
	UnrecognizedCriticalExtension: "UnrecognizedCriticalExtension",
	LibraryFailure:                "LibraryFailure",
}

// String returns the stable identifier of k, e.g. "DataTruncated". It is
// suitable as a metrics label.
func (k Kind) String() string {
	if int(k) < len(kindIdents) && kindIdents[k] != "" {
		return kindIdents[k]
	}
	return "Unknown"
}

func (k Kind) Error() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return "der: " + kindNames[k]
	}
	return "der: unknown error"
}

// KindOf returns the Kind at the bottom of err's chain, if any.
func KindOf(err error) (Kind, bool) {
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}
