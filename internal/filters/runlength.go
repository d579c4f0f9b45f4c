package filters

import (
	"bytes"
	"fmt"
)

// rleEOD terminates RunLength encoded data.
const rleEOD = 128

// RunLengthEncode encodes data with the PDF RunLength scheme: a length
// byte 0-127 prefixes that many+1 literal bytes, a length byte 129-255
// repeats the following byte 257-length times, and 128 marks end of data.
func RunLengthEncode(data []byte) []byte {
	var out bytes.Buffer

	i := 0
	for i < len(data) {
		// Measure the run starting at i, capped at 128 bytes.
		run := 1
		for i+run < len(data) && run < 128 && data[i+run] == data[i] {
			run++
		}
		if run >= 2 {
			out.WriteByte(byte(257 - run))
			out.WriteByte(data[i])
			i += run
			continue
		}

		// Gather literals until the next run of 3+ (shorter runs compress
		// worse as runs than as literals), capped at 128 bytes.
		start := i
		i++
		for i < len(data) && i-start < 128 {
			if i+2 < len(data) && data[i] == data[i+1] && data[i] == data[i+2] {
				break
			}
			i++
		}
		out.WriteByte(byte(i - start - 1))
		out.Write(data[start:i])
	}
	out.WriteByte(rleEOD)
	return out.Bytes()
}

// RunLengthDecode decodes PDF RunLength encoded data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer

	i := 0
	for i < len(data) {
		length := data[i]
		i++
		if length == rleEOD {
			return out.Bytes(), nil
		}
		if length < 128 {
			n := int(length) + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("truncated literal run of %d bytes", n)
			}
			out.Write(data[i : i+n])
			i += n
			continue
		}
		if i >= len(data) {
			return nil, fmt.Errorf("truncated repeat run")
		}
		n := 257 - int(length)
		for j := 0; j < n; j++ {
			out.WriteByte(data[i])
		}
		i++
	}
	return nil, fmt.Errorf("missing end-of-data marker")
}
