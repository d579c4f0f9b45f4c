package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params represents filter parameters from PDF stream dictionaries.
// Common parameters include Predictor, Columns, Colors, and BitsPerComponent.
type Params map[string]interface{}

// FlateEncode compresses data with zlib at the given level. Levels follow
// compress/flate: -1 selects the default, 0 stores, 1-9 trade speed for
// ratio.
func FlateEncode(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("invalid compression level %d: %w", level, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// FlateDecode decompresses Flate (zlib/deflate) compressed data. This is
// the most common compression filter in PDFs. A predictor algorithm is
// applied afterwards when the params request one.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	decompressed := buf.Bytes()

	predictor := intParam(params, "Predictor", 1)
	if predictor == 1 {
		return decompressed, nil
	}
	out, err := undoPredictor(decompressed, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

// undoPredictor reverses the prediction applied before compression.
// Predictor 2 is TIFF horizontal differencing; 10-15 are the PNG filters.
func undoPredictor(data []byte, predictor int, params Params) ([]byte, error) {
	switch {
	case predictor == 2:
		return undoTIFFPredictor(data, params)
	case predictor >= 10 && predictor <= 15:
		return undoPNGPredictor(data, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// undoTIFFPredictor reverses TIFF Predictor 2, where each sample was
// replaced by its difference from the sample to its left.
func undoTIFFPredictor(data []byte, params Params) ([]byte, error) {
	columns := intParam(params, "Columns", 1)
	colors := intParam(params, "Colors", 1)
	bpc := intParam(params, "BitsPerComponent", 8)

	if bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor supports only 8 bits per component, got %d", bpc)
	}

	rowSize := columns * colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	for row := 0; row < len(data)/rowSize; row++ {
		start := row * rowSize
		for col := 0; col < rowSize; col++ {
			i := start + col
			if col < colors {
				out[i] = data[i]
			} else {
				out[i] = data[i] + out[i-colors]
			}
		}
	}
	return out, nil
}

// undoPNGPredictor reverses the PNG row filters. Each row is prefixed by a
// filter-type byte: 0=None, 1=Sub, 2=Up, 3=Average, 4=Paeth.
func undoPNGPredictor(data []byte, params Params) ([]byte, error) {
	columns := intParam(params, "Columns", 1)
	colors := intParam(params, "Colors", 1)
	bpc := intParam(params, "BitsPerComponent", 8)

	if bpc != 8 {
		return nil, fmt.Errorf("PNG predictor supports only 8 bits per component, got %d", bpc)
	}

	bpp := colors
	width := columns * colors
	rowSize := width + 1 // leading filter-type byte
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	rows := len(data) / rowSize
	out := make([]byte, rows*width)
	for row := 0; row < rows; row++ {
		ft := data[row*rowSize]
		cur := out[row*width : (row+1)*width]
		copy(cur, data[row*rowSize+1:(row+1)*rowSize])
		var prev []byte
		if row > 0 {
			prev = out[(row-1)*width : row*width]
		}
		if err := unfilterPNGRow(cur, prev, ft, bpp); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", row, err)
		}
	}
	return out, nil
}

// unfilterPNGRow reconstructs one row in place. prev is the reconstructed
// row above, or nil for the first row.
func unfilterPNGRow(cur, prev []byte, filterType byte, bpp int) error {
	left := func(i int) byte {
		if i >= bpp {
			return cur[i-bpp]
		}
		return 0
	}
	up := func(i int) byte {
		if prev != nil {
			return prev[i]
		}
		return 0
	}
	upLeft := func(i int) byte {
		if prev != nil && i >= bpp {
			return prev[i-bpp]
		}
		return 0
	}

	switch filterType {
	case 0:
	case 1:
		for i := range cur {
			cur[i] += left(i)
		}
	case 2:
		for i := range cur {
			cur[i] += up(i)
		}
	case 3:
		for i := range cur {
			cur[i] += byte((int(left(i)) + int(up(i))) / 2)
		}
	case 4:
		for i := range cur {
			cur[i] += paeth(left(i), up(i), upLeft(i))
		}
	default:
		return fmt.Errorf("unknown PNG filter type: %d", filterType)
	}
	return nil
}

// paeth implements the Paeth predictor from the PNG specification: the
// neighbor (left, above, upper-left) closest to a linear prediction.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// intParam extracts an integer parameter, returning def when the parameter
// is missing or not numeric.
func intParam(params Params, key string, def int) int {
	if params == nil {
		return def
	}
	obj, ok := params[key]
	if !ok {
		return def
	}
	switch v := obj.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
