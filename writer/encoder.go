package writer

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/vellumpdf/vellum/core"
	"github.com/vellumpdf/vellum/internal/filters"
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithCompression enables flate compression of unfiltered stream payloads
// at the given level (compress/flate semantics, -1 for default).
func WithCompression(level int) Option {
	return func(e *Encoder) {
		e.compress = true
		e.level = level
	}
}

// Encoder serializes objects as PDF syntax to an io.Writer.
//
// Output is deterministic for a given object and configuration: dictionary
// keys are emitted in sorted order and numeric formatting is fixed.
//
// Encoding a *core.Stream normalizes the stream in place: Length is
// rewritten to match the emitted payload, and when compression is enabled
// an unfiltered payload is flate encoded and Filter set. Callers measuring
// sizes must therefore encode clones, never the live document's nodes.
type Encoder struct {
	w        io.Writer
	compress bool
	level    int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: w, level: -1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EncodeIndirect writes a complete indirect object body:
// "N G obj ... endobj".
func (e *Encoder) EncodeIndirect(number, generation int, obj core.Object) error {
	if _, err := fmt.Fprintf(e.w, "%d %d obj\n", number, generation); err != nil {
		return err
	}
	if err := e.Encode(obj); err != nil {
		return fmt.Errorf("object %d: %w", number, err)
	}
	_, err := io.WriteString(e.w, "\nendobj\n")
	return err
}

// Encode writes a single object. Nested indirect objects are written as
// "N G R" references, never expanded.
func (e *Encoder) Encode(obj core.Object) error {
	switch v := obj.(type) {
	case nil, core.Null:
		return e.writeString("null")
	case core.Bool:
		if v {
			return e.writeString("true")
		}
		return e.writeString("false")
	case core.Int:
		return e.writeString(strconv.FormatInt(int64(v), 10))
	case core.Real:
		return e.encodeReal(float64(v))
	case core.String:
		return e.encodeString(string(v))
	case core.Name:
		return e.encodeName(string(v))
	case core.Array:
		return e.encodeArray(v)
	case core.Dict:
		return e.encodeDict(v)
	case *core.Stream:
		return e.encodeStream(v)
	case *core.Indirect:
		_, err := fmt.Fprintf(e.w, "%d %d R", v.Number, v.Generation)
		return err
	default:
		return fmt.Errorf("cannot encode object type %T", obj)
	}
}

func (e *Encoder) writeString(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}

// encodeReal writes a real number in plain decimal notation; PDF syntax
// has no exponent form.
func (e *Encoder) encodeReal(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("cannot encode non-finite real: %v", f)
	}
	return e.writeString(strconv.FormatFloat(f, 'f', -1, 64))
}

// encodeString writes a string object. Pure ASCII text is written in
// literal syntax with the required escapes; anything else is written as a
// UTF-16BE hexadecimal string with a byte order mark.
func (e *Encoder) encodeString(s string) error {
	if isASCII(s) {
		return e.encodeLiteralString(s)
	}
	if !utf8.ValidString(s) {
		return e.encodeHexString([]byte(s))
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	utf16be, err := enc.Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("UTF-16 encoding failed: %w", err)
	}
	return e.encodeHexString(utf16be)
}

func (e *Encoder) encodeLiteralString(s string) error {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '\\':
			buf = append(buf, '\\', c)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if c < 0x20 || c == 0x7f {
				buf = append(buf, fmt.Sprintf("\\%03o", c)...)
			} else {
				buf = append(buf, c)
			}
		}
	}
	buf = append(buf, ')')
	_, err := e.w.Write(buf)
	return err
}

func (e *Encoder) encodeHexString(b []byte) error {
	buf := make([]byte, 0, len(b)*2+2)
	buf = append(buf, '<')
	for _, c := range b {
		buf = append(buf, hexUpper[c>>4], hexUpper[c&0x0f])
	}
	buf = append(buf, '>')
	_, err := e.w.Write(buf)
	return err
}

var hexUpper = []byte("0123456789ABCDEF")

// isASCII reports whether s contains only 7-bit bytes.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

// encodeName writes a name object, escaping irregular bytes as #XX.
func (e *Encoder) encodeName(name string) error {
	buf := make([]byte, 0, len(name)+1)
	buf = append(buf, '/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isRegularNameByte(c) {
			buf = append(buf, c)
		} else {
			buf = append(buf, '#', hexUpper[c>>4], hexUpper[c&0x0f])
		}
	}
	_, err := e.w.Write(buf)
	return err
}

// isRegularNameByte reports whether c may appear unescaped in a name.
func isRegularNameByte(c byte) bool {
	if c < '!' || c > '~' {
		return false
	}
	switch c {
	case '#', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

func (e *Encoder) encodeArray(arr core.Array) error {
	if err := e.writeString("["); err != nil {
		return err
	}
	for i, elem := range arr {
		if i > 0 {
			if err := e.writeString(" "); err != nil {
				return err
			}
		}
		if err := e.Encode(elem); err != nil {
			return fmt.Errorf("array element %d: %w", i, err)
		}
	}
	return e.writeString("]")
}

func (e *Encoder) encodeDict(dict core.Dict) error {
	if err := e.writeString("<<"); err != nil {
		return err
	}
	keys := dict.Keys()
	sort.Strings(keys)
	for i, key := range keys {
		if i > 0 {
			if err := e.writeString(" "); err != nil {
				return err
			}
		}
		if err := e.encodeName(key); err != nil {
			return err
		}
		if err := e.writeString(" "); err != nil {
			return err
		}
		if err := e.Encode(dict[key]); err != nil {
			return fmt.Errorf("dict key %s: %w", key, err)
		}
	}
	return e.writeString(">>")
}

func (e *Encoder) encodeStream(s *core.Stream) error {
	if s.Dict == nil {
		s.Dict = make(core.Dict)
	}
	if e.compress && !s.Dict.Has("Filter") && len(s.Data) > 0 {
		data, err := filters.FlateEncode(s.Data, e.level)
		if err != nil {
			return fmt.Errorf("stream compression failed: %w", err)
		}
		s.Data = data
		s.Dict.Set("Filter", core.Name("FlateDecode"))
	}
	s.Dict.Set("Length", core.Int(len(s.Data)))

	if err := e.encodeDict(s.Dict); err != nil {
		return err
	}
	if err := e.writeString("\nstream\n"); err != nil {
		return err
	}
	if _, err := e.w.Write(s.Data); err != nil {
		return err
	}
	return e.writeString("\nendstream")
}

// ObjectLength measures the serialized size of an indirect object body,
// "N G obj" through "endobj", without writing anywhere. The object is
// encoded exactly as WriteDocument would encode it; pass a clone when the
// live node must not be perturbed.
func ObjectLength(number, generation int, obj core.Object, opts ...Option) (int64, error) {
	cw := NewCountingWriter()
	if err := NewEncoder(cw, opts...).EncodeIndirect(number, generation, obj); err != nil {
		return 0, err
	}
	return cw.Count(), nil
}
