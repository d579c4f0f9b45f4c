package filters

import (
	"bytes"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
)

// ASCIIHexEncode encodes data as ASCII hexadecimal, terminated by the >
// end-of-data marker.
func ASCIIHexEncode(data []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(data))+1)
	hex.Encode(out, data)
	out[len(out)-1] = '>'
	return out
}

// ASCIIHexDecode decodes ASCII hexadecimal encoded data. Each pair of hex
// digits represents one byte, whitespace is ignored, and > marks end of
// data. An odd trailing digit is padded with zero.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var result bytes.Buffer
	var pending byte
	havePending := false

	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		d, err := hexDigit(c)
		if err != nil {
			return nil, err
		}
		if havePending {
			result.WriteByte(pending<<4 | d)
			havePending = false
		} else {
			pending = d
			havePending = true
		}
	}
	if havePending {
		result.WriteByte(pending << 4)
	}
	return result.Bytes(), nil
}

// ASCII85Encode encodes data as ASCII base-85, terminated by the ~>
// end-of-data marker.
func ASCII85Encode(data []byte) []byte {
	out := make([]byte, ascii85.MaxEncodedLen(len(data))+2)
	n := ascii85.Encode(out, data)
	out[n] = '~'
	out[n+1] = '>'
	return out[:n+2]
}

// ASCII85Decode decodes ASCII base-85 encoded data. Each group of 5
// characters (! to u) represents 4 bytes, 'z' stands for four zero bytes,
// and ~> marks end of data.
func ASCII85Decode(data []byte) ([]byte, error) {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		if isWhitespace(data[i]) {
			i++
			continue
		}
		if i+1 < len(data) && data[i] == '~' && data[i+1] == '>' {
			break
		}
		if data[i] == 'z' {
			result.Write([]byte{0, 0, 0, 0})
			i++
			continue
		}

		// Gather a group of up to 5 digits.
		digits := make([]byte, 0, 5)
		for len(digits) < 5 && i < len(data) {
			if isWhitespace(data[i]) {
				i++
				continue
			}
			if i+1 < len(data) && data[i] == '~' && data[i+1] == '>' {
				break
			}
			if data[i] < '!' || data[i] > 'u' {
				return nil, fmt.Errorf("invalid ASCII85 character: %c", data[i])
			}
			digits = append(digits, data[i]-'!')
			i++
		}
		if len(digits) == 0 {
			break
		}
		if len(digits) == 1 {
			return nil, fmt.Errorf("truncated ASCII85 group")
		}

		// An n-digit group yields n-1 bytes; pad with 'u' for decoding.
		numBytes := len(digits) - 1
		for len(digits) < 5 {
			digits = append(digits, 84)
		}
		value := uint32(0)
		for _, d := range digits {
			value = value*85 + uint32(d)
		}
		for j := 0; j < numBytes; j++ {
			result.WriteByte(byte(value >> (24 - j*8)))
		}
	}
	return result.Bytes(), nil
}

// hexDigit converts a hexadecimal character to its numeric value (0-15).
func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit: %c", c)
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
