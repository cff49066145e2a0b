// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package casing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Kind tags a Value with its structural shape.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindOpaque:
		return "opaque"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is one key/value pair of a mapping.
type Field struct {
	Key   string
	Value Value
}

// Value is a JSON-like value whose kind is chosen by whoever builds it.
// Only mappings have keys that a Codec rewrites; opaque values are carried
// through untouched.
//
// The zero Value is null.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	fields []Field
	opaque any
}

// Null returns the null value.
func Null() Value { return Value{} }

// Scalar wraps a string, number or boolean.
func Scalar(v any) Value { return Value{kind: KindScalar, scalar: v} }

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Mapping wraps key/value pairs, keeping their order.
func Mapping(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{kind: KindMapping, fields: fields}
}

// Opaque wraps a value that must never be descended into or renamed.
func Opaque(v any) Value { return Value{kind: KindOpaque, opaque: v} }

// F is shorthand for building a Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

func (v Value) Kind() Kind { return v.kind }

// Scalar returns the wrapped scalar, or nil for other kinds.
func (v Value) Scalar() any { return v.scalar }

// Items returns the elements of a sequence.
func (v Value) Items() []Value { return v.items }

// Fields returns the pairs of a mapping in insertion order.
func (v Value) Fields() []Field { return v.fields }

// Opaque returns the wrapped opaque payload.
func (v Value) Opaque() any { return v.opaque }

// Get looks up a mapping key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Keys lists the keys of a mapping in order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for _, f := range v.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// FromAny lifts generic decoded JSON (map[string]any, []any, strings,
// numbers, booleans, nil) into a Value. Anything else is treated as opaque.
//
// Go maps have no order, so keys of a map[string]any come out sorted the way
// encoding/json would write them. Use Decode when source order matters.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string, bool, float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return Scalar(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Key: k, Value: FromAny(t[k])}
		}
		return Mapping(fields...)
	default:
		return Opaque(t)
	}
}

// ToAny converts back to generic Go values. Opaque payloads are returned
// as they were wrapped.
func (v Value) ToAny() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.ToAny()
		}
		return out
	case KindOpaque:
		return v.opaque
	}
	return nil
}

// Equal reports structural equality. Opaque payloads compare with ==,
// or by their JSON encoding when they are not comparable.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return scalarEqual(v.scalar, o.scalar)
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != o.fields[i].Key || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	case KindOpaque:
		return opaqueEqual(v.opaque, o.opaque)
	}
	return false
}

func scalarEqual(a, b any) bool {
	an, aok := a.(json.Number)
	bn, bok := b.(json.Number)
	if aok && bok {
		return an == bn
	}
	return a == b
}

func opaqueEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			ra, errA := json.Marshal(a)
			rb, errB := json.Marshal(b)
			eq = errA == nil && errB == nil && bytes.Equal(ra, rb)
		}
	}()
	return a == b
}

// MarshalJSON writes the value keeping mapping order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindScalar:
		b, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindOpaque:
		b, err := json.Marshal(v.opaque)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("casing: cannot marshal %s value", v.kind)
	}
	return nil
}

// UnmarshalJSON lets a Value be a field of a decoded struct.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

var errTrailingData = errors.New("casing: trailing data after JSON value")

// Decode parses a single JSON document into a Value, keeping object keys in
// source order. Numbers are kept as json.Number so nothing is lost.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			fields := []Field{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("casing: unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Mapping(fields...), nil
		case '[':
			items := []Value{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Sequence(items...), nil
		}
		return Value{}, fmt.Errorf("casing: unexpected delimiter %v", t)
	case nil:
		return Null(), nil
	default:
		return Scalar(t), nil
	}
}
