package core

import (
	"fmt"

	"github.com/vellumpdf/vellum/internal/filters"
)

// FlateDefaultLevel is the compression level used when a stream is flate
// encoded without an explicit level.
const FlateDefaultLevel = -1

// Decode decodes the stream payload according to the Filter entry (or
// filter chain) in the stream dictionary. It supports FlateDecode,
// ASCIIHexDecode, ASCII85Decode, and RunLengthDecode. Returns the raw
// payload when no filter is present.
func (s *Stream) Decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		return s.Data, nil
	}

	paramsObj := s.Dict.Get("DecodeParms")

	if name, ok := filterObj.(Name); ok {
		return decodeWithFilter(s.Data, string(name), paramsDict(paramsObj))
	}

	if chain, ok := filterObj.(Array); ok {
		data := s.Data
		for i, f := range chain {
			name, ok := f.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, f)
			}
			var params Dict
			if paramsChain, ok := paramsObj.(Array); ok {
				if i < len(paramsChain) {
					params = paramsDict(paramsChain[i])
				}
			} else {
				params = paramsDict(paramsObj)
			}
			var err error
			data, err = decodeWithFilter(data, string(name), params)
			if err != nil {
				return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
			}
		}
		return data, nil
	}

	return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

// ApplyFilter encodes the stream payload in place with the named filter
// and records Filter and Length in the stream dictionary. It refuses to
// stack filters: applying one to an already-filtered stream is an error.
func (s *Stream) ApplyFilter(name Name) error {
	if s.Dict == nil {
		s.Dict = make(Dict)
	}
	if s.Dict.Has("Filter") {
		return fmt.Errorf("stream already carries a filter: %s", s.Dict.Get("Filter"))
	}

	var encoded []byte
	var err error
	switch name {
	case "FlateDecode":
		encoded, err = filters.FlateEncode(s.Data, FlateDefaultLevel)
	case "ASCIIHexDecode":
		encoded = filters.ASCIIHexEncode(s.Data)
	case "ASCII85Decode":
		encoded = filters.ASCII85Encode(s.Data)
	case "RunLengthDecode":
		encoded = filters.RunLengthEncode(s.Data)
	default:
		return fmt.Errorf("cannot encode with filter: %s", name)
	}
	if err != nil {
		return fmt.Errorf("encoding with %s failed: %w", name, err)
	}

	s.Data = encoded
	s.Dict.Set("Filter", name)
	s.Dict.Set("Length", Int(len(encoded)))
	return nil
}

// decodeWithFilter applies a single decompression filter to data.
func decodeWithFilter(data []byte, filterName string, params Dict) ([]byte, error) {
	switch filterName {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, dictToParams(params))

	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)

	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)

	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)

	case "DCTDecode", "DCT", "JPXDecode":
		// Image codecs: payload stays encoded until rendered.
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported filter: %s", filterName)
	}
}

// paramsDict converts a DecodeParms object to a Dict. Returns nil for
// nil, Null, or non-dictionary objects.
func paramsDict(obj Object) Dict {
	if dict, ok := obj.(Dict); ok {
		return dict
	}
	return nil
}

// dictToParams translates PDF object values to the Go primitives the
// filters package understands.
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
