package attribute

import (
	"errors"
	"fmt"

	"github.com/swdee/go-framemeta/geometry"
)

// ErrInvalidShape indicates a byte blob whose length does not match the
// declared dimensions
var ErrInvalidShape = errors.New("blob length does not match dimensions")

// ValueKind identifies the payload variant held by a Value
type ValueKind int

const (
	// KindNone is a value with no payload
	KindNone ValueKind = iota
	// KindInteger is a single int64
	KindInteger
	// KindFloat is a single float64
	KindFloat
	// KindString is a single string
	KindString
	// KindBoolean is a single bool
	KindBoolean
	// KindBytes is a dimensioned byte blob
	KindBytes
	// KindIntegerList is a list of int64
	KindIntegerList
	// KindFloatList is a list of float64
	KindFloatList
	// KindStringList is a list of strings
	KindStringList
	// KindBooleanList is a list of bools
	KindBooleanList
	// KindBox is a single rotated box
	KindBox
	// KindBoxList is a list of rotated boxes
	KindBoxList
	// KindPoint is a single point
	KindPoint
	// KindPointList is a list of points
	KindPointList
	// KindPolygon is a single polygonal area
	KindPolygon
	// KindPolygonList is a list of polygonal areas
	KindPolygonList
	// KindOpaque is an in-process host value carried by identity. Opaque
	// values never survive serialization.
	KindOpaque
)

// String returns the name of the value kind
func (k ValueKind) String() string {

	switch k {
	case KindNone:
		return "none"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindBytes:
		return "bytes"
	case KindIntegerList:
		return "integer_list"
	case KindFloatList:
		return "float_list"
	case KindStringList:
		return "string_list"
	case KindBooleanList:
		return "boolean_list"
	case KindBox:
		return "box"
	case KindBoxList:
		return "box_list"
	case KindPoint:
		return "point"
	case KindPointList:
		return "point_list"
	case KindPolygon:
		return "polygon"
	case KindPolygonList:
		return "polygon_list"
	case KindOpaque:
		return "opaque"
	}

	return "unknown"
}

// bytesPayload holds the dimensioned blob of a bytes value
type bytesPayload struct {
	dims []int64
	blob []byte
}

// Value is one typed attribute payload with an optional confidence score.
// Values are immutable once created, accessors hand out copies of list
// payloads.
type Value struct {
	kind       ValueKind
	confidence *float64
	payload    any
}

// None creates a value with no payload
func None() Value {
	return Value{kind: KindNone}
}

// Integer creates a single integer value
func Integer(v int64) Value {
	return Value{kind: KindInteger, payload: v}
}

// Float creates a single float value
func Float(v float64) Value {
	return Value{kind: KindFloat, payload: v}
}

// String creates a single string value
func String(v string) Value {
	return Value{kind: KindString, payload: v}
}

// Boolean creates a single boolean value
func Boolean(v bool) Value {
	return Value{kind: KindBoolean, payload: v}
}

// Bytes creates a dimensioned byte blob value. The blob length must equal
// the product of the dimensions or ErrInvalidShape is returned.
func Bytes(dims []int64, blob []byte) (Value, error) {

	product := int64(1)

	for _, d := range dims {
		if d < 0 {
			return Value{}, fmt.Errorf("%w: negative dimension %d", ErrInvalidShape, d)
		}
		product *= d
	}

	if product != int64(len(blob)) {
		return Value{}, fmt.Errorf("%w: dimensions product %d, blob length %d",
			ErrInvalidShape, product, len(blob))
	}

	d := make([]int64, len(dims))
	copy(d, dims)

	b := make([]byte, len(blob))
	copy(b, blob)

	return Value{kind: KindBytes, payload: bytesPayload{dims: d, blob: b}}, nil
}

// Integers creates an integer list value
func Integers(v []int64) Value {
	c := make([]int64, len(v))
	copy(c, v)
	return Value{kind: KindIntegerList, payload: c}
}

// Floats creates a float list value
func Floats(v []float64) Value {
	c := make([]float64, len(v))
	copy(c, v)
	return Value{kind: KindFloatList, payload: c}
}

// Strings creates a string list value
func Strings(v []string) Value {
	c := make([]string, len(v))
	copy(c, v)
	return Value{kind: KindStringList, payload: c}
}

// Booleans creates a boolean list value
func Booleans(v []bool) Value {
	c := make([]bool, len(v))
	copy(c, v)
	return Value{kind: KindBooleanList, payload: c}
}

// Box creates a single rotated box value
func Box(b geometry.RBBox) Value {
	return Value{kind: KindBox, payload: b}
}

// Boxes creates a rotated box list value
func Boxes(b []geometry.RBBox) Value {
	c := make([]geometry.RBBox, len(b))
	copy(c, b)
	return Value{kind: KindBoxList, payload: c}
}

// Point creates a single point value
func Point(p geometry.Point) Value {
	return Value{kind: KindPoint, payload: p}
}

// Points creates a point list value
func Points(p []geometry.Point) Value {
	c := make([]geometry.Point, len(p))
	copy(c, p)
	return Value{kind: KindPointList, payload: c}
}

// Polygon creates a single polygonal area value
func Polygon(p geometry.PolygonalArea) Value {
	return Value{kind: KindPolygon, payload: p}
}

// Polygons creates a polygonal area list value
func Polygons(p []geometry.PolygonalArea) Value {
	c := make([]geometry.PolygonalArea, len(p))
	copy(c, p)
	return Value{kind: KindPolygonList, payload: c}
}

// Opaque creates an in-process value carrying the given host value by
// identity. Opaque values are stripped when a frame is serialized.
func Opaque(v any) Value {
	return Value{kind: KindOpaque, payload: v}
}

// WithConfidence returns a copy of the value with the confidence score set
func (v Value) WithConfidence(confidence float64) Value {
	v.confidence = &confidence
	return v
}

// Kind returns the payload variant of the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNone reports whether the value has no payload
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// Confidence returns the confidence score and whether one is set
func (v Value) Confidence() (float64, bool) {

	if v.confidence == nil {
		return 0, false
	}

	return *v.confidence, true
}

// AsInteger returns the integer payload
func (v Value) AsInteger() (int64, bool) {

	if v.kind != KindInteger {
		return 0, false
	}

	return v.payload.(int64), true
}

// AsFloat returns the float payload
func (v Value) AsFloat() (float64, bool) {

	if v.kind != KindFloat {
		return 0, false
	}

	return v.payload.(float64), true
}

// AsString returns the string payload
func (v Value) AsString() (string, bool) {

	if v.kind != KindString {
		return "", false
	}

	return v.payload.(string), true
}

// AsBoolean returns the boolean payload
func (v Value) AsBoolean() (bool, bool) {

	if v.kind != KindBoolean {
		return false, false
	}

	return v.payload.(bool), true
}

// AsBytes returns copies of the dimensions and blob of a bytes payload
func (v Value) AsBytes() ([]int64, []byte, bool) {

	if v.kind != KindBytes {
		return nil, nil, false
	}

	p := v.payload.(bytesPayload)

	dims := make([]int64, len(p.dims))
	copy(dims, p.dims)

	blob := make([]byte, len(p.blob))
	copy(blob, p.blob)

	return dims, blob, true
}

// AsIntegers returns a copy of the integer list payload
func (v Value) AsIntegers() ([]int64, bool) {

	if v.kind != KindIntegerList {
		return nil, false
	}

	p := v.payload.([]int64)
	c := make([]int64, len(p))
	copy(c, p)

	return c, true
}

// AsFloats returns a copy of the float list payload
func (v Value) AsFloats() ([]float64, bool) {

	if v.kind != KindFloatList {
		return nil, false
	}

	p := v.payload.([]float64)
	c := make([]float64, len(p))
	copy(c, p)

	return c, true
}

// AsStrings returns a copy of the string list payload
func (v Value) AsStrings() ([]string, bool) {

	if v.kind != KindStringList {
		return nil, false
	}

	p := v.payload.([]string)
	c := make([]string, len(p))
	copy(c, p)

	return c, true
}

// AsBooleans returns a copy of the boolean list payload
func (v Value) AsBooleans() ([]bool, bool) {

	if v.kind != KindBooleanList {
		return nil, false
	}

	p := v.payload.([]bool)
	c := make([]bool, len(p))
	copy(c, p)

	return c, true
}

// AsBox returns the rotated box payload
func (v Value) AsBox() (geometry.RBBox, bool) {

	if v.kind != KindBox {
		return geometry.RBBox{}, false
	}

	return v.payload.(geometry.RBBox), true
}

// AsBoxes returns a copy of the rotated box list payload
func (v Value) AsBoxes() ([]geometry.RBBox, bool) {

	if v.kind != KindBoxList {
		return nil, false
	}

	p := v.payload.([]geometry.RBBox)
	c := make([]geometry.RBBox, len(p))
	copy(c, p)

	return c, true
}

// AsPoint returns the point payload
func (v Value) AsPoint() (geometry.Point, bool) {

	if v.kind != KindPoint {
		return geometry.Point{}, false
	}

	return v.payload.(geometry.Point), true
}

// AsPoints returns a copy of the point list payload
func (v Value) AsPoints() ([]geometry.Point, bool) {

	if v.kind != KindPointList {
		return nil, false
	}

	p := v.payload.([]geometry.Point)
	c := make([]geometry.Point, len(p))
	copy(c, p)

	return c, true
}

// AsPolygon returns the polygonal area payload
func (v Value) AsPolygon() (geometry.PolygonalArea, bool) {

	if v.kind != KindPolygon {
		return geometry.PolygonalArea{}, false
	}

	return v.payload.(geometry.PolygonalArea), true
}

// AsPolygons returns a copy of the polygonal area list payload
func (v Value) AsPolygons() ([]geometry.PolygonalArea, bool) {

	if v.kind != KindPolygonList {
		return nil, false
	}

	p := v.payload.([]geometry.PolygonalArea)
	c := make([]geometry.PolygonalArea, len(p))
	copy(c, p)

	return c, true
}

// AsOpaque returns the opaque host value payload
func (v Value) AsOpaque() (any, bool) {

	if v.kind != KindOpaque {
		return nil, false
	}

	return v.payload, true
}
