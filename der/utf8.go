package der

import "strings"

// DecodeUTF8 decodes b as UTF-8 restricted to one, two and three byte
// sequences. Four byte sequences, stray continuation bytes and truncated
// sequences fail with InvalidUtf8Encoding.
//
// Overlong forms and surrogate code points are not rejected; the latter come
// out as U+FFFD.
func DecodeUTF8(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		lead := b[i]
		i++
		switch {
		case lead>>7 == 0:
			sb.WriteByte(lead)
		case lead>>5 == 0x06:
			if i+1 > len(b) || !isContinuation(b[i]) {
				return "", InvalidUtf8Encoding
			}
			sb.WriteRune(rune(lead&0x1f)<<6 | rune(b[i]&0x3f))
			i++
		case lead>>4 == 0x0e:
			if i+2 > len(b) || !isContinuation(b[i]) || !isContinuation(b[i+1]) {
				return "", InvalidUtf8Encoding
			}
			sb.WriteRune(rune(lead&0x0f)<<12 | rune(b[i]&0x3f)<<6 | rune(b[i+1]&0x3f))
			i += 2
		default:
			return "", InvalidUtf8Encoding
		}
	}
	return sb.String(), nil
}

func isContinuation(b byte) bool { return b>>6 == 0x02 }
