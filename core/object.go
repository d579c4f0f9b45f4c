package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Object represents a PDF object. Every variant can report its type,
// render a debug representation, and produce a deep value copy of itself.
type Object interface {
	Type() ObjectType
	String() string

	// Clone returns a deep value copy of the object. Indirect objects are
	// the one exception: identity is shared, never duplicated, so Clone on
	// an *Indirect returns the receiver. Serializers emit nested indirect
	// objects as references, which keeps clones of cyclic graphs finite.
	Clone() Object
}

// ObjectType represents the type of a PDF object.
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the string representation of the object type.
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjString:
		return "String"
	case ObjName:
		return "Name"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjStream:
		return "Stream"
	case ObjIndirect:
		return "Indirect"
	default:
		return "Unknown"
	}
}

// Null represents the PDF null object.
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }
func (n Null) Clone() Object    { return n }

// Bool represents a PDF boolean.
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Clone() Object { return b }

// Int represents a PDF integer.
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int) Clone() Object    { return i }

// Real represents a PDF real number.
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (r Real) Clone() Object    { return r }

// String represents a PDF string.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return "(" + string(s) + ")" }
func (s String) Clone() Object    { return s }

// Name represents a PDF name.
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }
func (n Name) Clone() Object    { return n }

// Array represents a PDF array.
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Clone returns a deep copy of the array. Indirect elements are shared,
// not duplicated.
func (a Array) Clone() Object {
	out := make(Array, len(a))
	for i, obj := range a {
		if obj == nil {
			continue
		}
		out[i] = obj.Clone()
	}
	return out
}

// Len returns the number of elements in the array.
func (a Array) Len() int {
	return len(a)
}

// Get retrieves the element at the given index, or nil if out of range.
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// Dict represents a PDF dictionary.
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	parts := make([]string, 0, len(d))
	for key, val := range d {
		parts = append(parts, fmt.Sprintf("/%s %s", key, val.String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Clone returns a deep copy of the dictionary. Indirect values are shared,
// not duplicated.
func (d Dict) Clone() Object {
	out := make(Dict, len(d))
	for key, val := range d {
		if val == nil {
			continue
		}
		out[key] = val.Clone()
	}
	return out
}

// Get retrieves a value from the dictionary.
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value.
func (d Dict) GetName(key string) (Name, bool) {
	obj, ok := d[key]
	if !ok {
		return "", false
	}
	name, ok := obj.(Name)
	return name, ok
}

// GetInt retrieves an integer value.
func (d Dict) GetInt(key string) (Int, bool) {
	obj, ok := d[key]
	if !ok {
		return 0, false
	}
	i, ok := obj.(Int)
	return i, ok
}

// GetDict retrieves a dictionary value.
func (d Dict) GetDict(key string) (Dict, bool) {
	obj, ok := d[key]
	if !ok {
		return nil, false
	}
	dict, ok := obj.(Dict)
	return dict, ok
}

// GetArray retrieves an array value.
func (d Dict) GetArray(key string) (Array, bool) {
	obj, ok := d[key]
	if !ok {
		return nil, false
	}
	arr, ok := obj.(Array)
	return arr, ok
}

// GetStream retrieves a stream value.
func (d Dict) GetStream(key string) (*Stream, bool) {
	obj, ok := d[key]
	if !ok {
		return nil, false
	}
	s, ok := obj.(*Stream)
	return s, ok
}

// GetIndirect retrieves an indirect object handle.
func (d Dict) GetIndirect(key string) (*Indirect, bool) {
	obj, ok := d[key]
	if !ok {
		return nil, false
	}
	ind, ok := obj.(*Indirect)
	return ind, ok
}

// Has checks if a key exists in the dictionary.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary.
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Delete removes a key from the dictionary.
func (d Dict) Delete(key string) {
	delete(d, key)
}

// Keys returns all keys in the dictionary.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}

// IsPageTree reports whether the dictionary is a page tree branch node,
// i.e. carries /Type /Pages.
func (d Dict) IsPageTree() bool {
	name, ok := d.GetName("Type")
	return ok && name == "Pages"
}

// Stream represents a PDF stream object: a dictionary plus binary payload.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// Clone returns a deep copy of the stream, including its payload bytes.
func (s *Stream) Clone() Object {
	out := &Stream{Data: make([]byte, len(s.Data))}
	copy(out.Data, s.Data)
	if s.Dict != nil {
		out.Dict = s.Dict.Clone().(Dict)
	} else {
		out.Dict = make(Dict)
	}
	return out
}

// Indirect attaches a reference identity (object number and generation) to
// a value. Other objects refer to it without structural nesting: a
// serializer emits nested occurrences as "N G R" references and only the
// owning document writes the body.
type Indirect struct {
	Number     int
	Generation int
	Value      Object
}

// NewIndirect wraps value with the given object number at generation 0.
func NewIndirect(number int, value Object) *Indirect {
	return &Indirect{Number: number, Value: value}
}

func (ind *Indirect) Type() ObjectType { return ObjIndirect }
func (ind *Indirect) String() string {
	return fmt.Sprintf("%d %d R", ind.Number, ind.Generation)
}

// Clone returns the receiver. Reference identity is shared, never copied;
// duplicating it would mint a second object claiming the same number.
func (ind *Indirect) Clone() Object { return ind }

// Resolve unwraps indirect objects, returning the underlying value.
// All other objects are returned unchanged.
func Resolve(obj Object) Object {
	for {
		ind, ok := obj.(*Indirect)
		if !ok {
			return obj
		}
		obj = ind.Value
	}
}
