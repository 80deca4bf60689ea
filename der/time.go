package der

import (
	"fmt"
	"time"

	"golang.org/x/crypto/cryptobyte/asn1"
)

// Time is a decoded UTCTime or GeneralizedTime. It is always UTC.
//
// Only the RFC 5280 profile is accepted: YYMMDDHHMMSSZ or YYYYMMDDHHMMSSZ,
// with no fractional seconds and no numeric offset. The calendar fields are
// not range checked, so e.g. February 30th decodes fine.
type Time struct {
	Tag    asn1.Tag // asn1.UTCTime or asn1.GeneralizedTime
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseTime decodes the single Time TLV that c is scoped to.
func ParseTime(c *Cursor) (Time, error) {
	var t Time
	switch {
	case c.PeekTag(asn1.UTCTime):
		t.Tag = asn1.UTCTime
	case c.PeekTag(asn1.GeneralizedTime):
		t.Tag = asn1.GeneralizedTime
	default:
		return Time{}, TimeNotUtcOrGeneralized
	}

	contents, err := c.ReadGivenTag(t.Tag)
	if err != nil {
		return Time{}, err
	}
	if t, err = ParseTimeContents(t.Tag, contents); err != nil {
		return Time{}, err
	}
	if err := c.AssertAtEnd(); err != nil {
		return Time{}, err
	}
	return t, nil
}

// ParseTimeContents decodes the content octets of a time whose tag is known
// from context, as with IMPLICIT tagging. tag picks the year width and must
// be asn1.UTCTime or asn1.GeneralizedTime.
func ParseTimeContents(tag asn1.Tag, contents *Cursor) (Time, error) {
	t := Time{Tag: tag}
	var err error

	yearDigits := 4
	switch tag {
	case asn1.UTCTime:
		yearDigits = 2
	case asn1.GeneralizedTime:
	default:
		return Time{}, TimeNotUtcOrGeneralized
	}
	if t.Year, err = readDigits(contents, yearDigits); err != nil {
		return Time{}, err
	}
	if t.Tag == asn1.UTCTime {
		// RFC 5280 4.1.2.5.1
		if t.Year >= 50 {
			t.Year += 1900
		} else {
			t.Year += 2000
		}
	}

	for _, field := range []*int{&t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second} {
		if *field, err = readDigits(contents, 2); err != nil {
			return Time{}, err
		}
	}

	z, err := contents.ReadByte()
	if err != nil {
		return Time{}, err
	}
	if z != 'Z' {
		return Time{}, TimeNotValid
	}

	if err := contents.AssertAtEnd(); err != nil {
		return Time{}, err
	}
	return t, nil
}

func readDigits(c *Cursor, n int) (int, error) {
	v := 0
	for range n {
		d, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		if d < '0' || d > '9' {
			return 0, TimeNotValid
		}
		v = v*10 + int(d-'0')
	}
	return v, nil
}

// Time converts t to a time.Time. Out of range fields are normalized the way
// time.Date does it.
func (t Time) Time() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// String renders the fields as decoded, without normalization.
func (t Time) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d UTC", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}
