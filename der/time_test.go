package der

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte/asn1"
)

func timeTLV(tag asn1.Tag, s string) []byte {
	return append([]byte{byte(tag), byte(len(s))}, s...)
}

func TestParseTime(t *testing.T) {
	tests := map[string]struct {
		input []byte
		want  Time
	}{
		"UTCPivotLow": {
			timeTLV(asn1.UTCTime, "500101000000Z"),
			Time{asn1.UTCTime, 1950, 1, 1, 0, 0, 0},
		},
		"UTCPivotHigh": {
			timeTLV(asn1.UTCTime, "491231235959Z"),
			Time{asn1.UTCTime, 2049, 12, 31, 23, 59, 59},
		},
		"Generalized": {
			timeTLV(asn1.GeneralizedTime, "20130630000000Z"),
			Time{asn1.GeneralizedTime, 2013, 6, 30, 0, 0, 0},
		},
		"NonexistentDateAccepted": {
			timeTLV(asn1.UTCTime, "090230010001Z"),
			Time{asn1.UTCTime, 2009, 2, 30, 1, 0, 1},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTime(New(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTime_Errors(t *testing.T) {
	tests := map[string]struct {
		input   []byte
		wantErr error
	}{
		"WrongTag":          {[]byte{0x04, 0x00}, TimeNotUtcOrGeneralized},
		"Empty":             {nil, TimeNotUtcOrGeneralized},
		"NotADigit":         {timeTLV(asn1.UTCTime, "5a0101000000Z"), TimeNotValid},
		"NotZulu":           {timeTLV(asn1.UTCTime, "500101000000+"), TimeNotValid},
		"NumericOffset":     {timeTLV(asn1.UTCTime, "500101000000+0100"), TimeNotValid},
		"FractionalSeconds": {timeTLV(asn1.GeneralizedTime, "20130630000000.5Z"), TimeNotValid},
		"Short":             {timeTLV(asn1.UTCTime, "5001010000Z"), TimeNotValid},
		"Truncated":         {timeTLV(asn1.UTCTime, "500101000000"), DataTruncated},
		"Trailing":          {timeTLV(asn1.UTCTime, "500101000000ZZ"), ExtraData},
		"TrailingTLV":       {append(timeTLV(asn1.UTCTime, "500101000000Z"), 0x00), ExtraData},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTime(New(tc.input))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTime_Conversions(t *testing.T) {
	tm := Time{asn1.UTCTime, 2009, 8, 8, 1, 0, 1}
	assert.Equal(t, time.Date(2009, time.August, 8, 1, 0, 1, 0, time.UTC), tm.Time())
	assert.Equal(t, "2009-08-08 01:00:01 UTC", tm.String())
}

func TestParseTimeContents(t *testing.T) {
	tm, err := ParseTimeContents(asn1.GeneralizedTime, New([]byte("20090808010001Z")))
	require.NoError(t, err)
	assert.Equal(t, "2009-08-08 01:00:01 UTC", tm.String())
	assert.Equal(t, asn1.GeneralizedTime, tm.Tag)

	_, err = ParseTimeContents(asn1.UTF8String, New([]byte("20090808010001Z")))
	assert.ErrorIs(t, err, TimeNotUtcOrGeneralized)
}
