package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_ReadBOOLEAN(t *testing.T) {
	tests := map[string]struct {
		input   []byte
		want    bool
		wantErr error
	}{
		"True":         {[]byte{0x01, 0x01, 0xff}, true, nil},
		"False":        {[]byte{0x01, 0x01, 0x00}, false, nil},
		"NonCanonical": {[]byte{0x01, 0x01, 0x01}, false, InvalidBooleanValue},
		"TooLong":      {[]byte{0x01, 0x02, 0xff, 0xff}, false, InvalidBooleanEncoding},
		"Empty":        {[]byte{0x01, 0x00}, false, InvalidBooleanEncoding},
		"WrongTag":     {[]byte{0x02, 0x01, 0xff}, false, UnexpectedTag},
		"Truncated":    {[]byte{0x01, 0x01}, false, DataTruncated},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := New(tc.input).ReadBOOLEAN()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCursor_ReadINTEGER(t *testing.T) {
	tests := map[string]struct {
		input     []byte
		wantValue uint64
		wantLarge bool
		wantStr   string
	}{
		"Zero":          {[]byte{0x02, 0x01, 0x00}, 0, false, "0"},
		"Small":         {[]byte{0x02, 0x01, 0x02}, 2, false, "2"},
		"Exponent":      {[]byte{0x02, 0x03, 0x01, 0x00, 0x01}, 65537, false, "65537"},
		"HighBitNoSign": {[]byte{0x02, 0x01, 0xff}, 255, false, "255"},
		"SevenBytes": {
			[]byte{0x02, 0x07, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			0x01020304050607, false, "283686952306183",
		},
		"EightBytes": {
			[]byte{0x02, 0x08, 0x00, 0x8a, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			0, true, "00:8a:02:03:04:05:06:07",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := New(tc.input).ReadINTEGER()
			require.NoError(t, err)
			assert.Equal(t, tc.wantLarge, got.Large())
			assert.Equal(t, tc.input[2:], got.Raw)
			if !tc.wantLarge {
				assert.Equal(t, tc.wantValue, got.Value)
			}
			assert.Equal(t, tc.wantStr, got.String())
		})
	}
}

func TestCursor_ReadBITSTRING(t *testing.T) {
	got, err := New([]byte{0x03, 0x03, 0x00, 0xde, 0xad}).ReadBITSTRING()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, got)

	got, err = New([]byte{0x03, 0x01, 0x00}).ReadBITSTRING()
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = New([]byte{0x03, 0x02, 0x01, 0x06}).ReadBITSTRING()
	assert.ErrorIs(t, err, UnsupportedAsn1)

	_, err = New([]byte{0x03, 0x00}).ReadBITSTRING()
	assert.ErrorIs(t, err, DataTruncated)
}

func TestCursor_ReadNULL(t *testing.T) {
	assert.NoError(t, New([]byte{0x05, 0x00}).ReadNULL())
	assert.ErrorIs(t, New([]byte{0x05, 0x01, 0x00}).ReadNULL(), NullWithData)
	assert.ErrorIs(t, New([]byte{0x04, 0x00}).ReadNULL(), UnexpectedTag)
}

func TestCursor_ReadOCTETSTRING(t *testing.T) {
	got, err := New([]byte{0x04, 0x02, 0xca, 0xfe}).ReadOCTETSTRING()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, got)
}

func TestHexColon(t *testing.T) {
	assert.Equal(t, "", HexColon(nil))
	assert.Equal(t, "0a", HexColon([]byte{0x0a}))
	assert.Equal(t, "e0:4d:bf", HexColon([]byte{0xe0, 0x4d, 0xbf}))
}
