// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package coders turns elements into bytes and back. Its main consumer is
// grouping, which buckets keys by their encoded form, so encodings must be
// deterministic: equal values always produce equal bytes.
package coders

import (
	"encoding/binary"
	"math"
	"reflect"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"
)

// Coder encodes and decodes values of a type. Implementations must be
// deterministic, and Decode must round trip anything Encode produced.
type Coder[E any] interface {
	Encode(enc *Encoder, v E)
	Decode(dec *Decoder) E
}

// Encoder accumulates an encoded byte form.
type Encoder struct {
	data []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Data returns the bytes encoded so far.
func (e *Encoder) Data() []byte {
	return e.data
}

func (e *Encoder) Byte(b byte) {
	e.data = append(e.data, b)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Varint encodes a signed integer in zigzag varint form.
func (e *Encoder) Varint(v int64) {
	e.data = binary.AppendVarint(e.data, v)
}

// Uvarint encodes an unsigned integer in varint form.
func (e *Encoder) Uvarint(v uint64) {
	e.data = binary.AppendUvarint(e.data, v)
}

// Double encodes a float64 as 8 fixed big endian bytes.
func (e *Encoder) Double(v float64) {
	e.data = binary.BigEndian.AppendUint64(e.data, math.Float64bits(v))
}

// Bytes encodes a length prefixed byte slice.
func (e *Encoder) Bytes(b []byte) {
	e.Uvarint(uint64(len(b)))
	e.data = append(e.data, b...)
}

// StringUtf8 encodes a length prefixed string.
func (e *Encoder) StringUtf8(s string) {
	e.Uvarint(uint64(len(s)))
	e.data = append(e.data, s...)
}

// Decoder consumes an encoded byte form. Decoding past the end of the
// buffer, or decoding a corrupt buffer, panics: coders only ever see bytes
// they produced, so a failure here is an implementation bug rather than a
// recoverable condition.
type Decoder struct {
	data []byte
	pos  int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

func (d *Decoder) Byte() byte {
	if d.pos >= len(d.data) {
		panic(errors.New("coders: decode past end of buffer"))
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *Decoder) Bool() bool {
	return d.Byte() == 1
}

func (d *Decoder) Varint() int64 {
	v, n := binary.Varint(d.data[d.pos:])
	if n <= 0 {
		panic(errors.New("coders: bad varint"))
	}
	d.pos += n
	return v
}

func (d *Decoder) Uvarint() uint64 {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		panic(errors.New("coders: bad uvarint"))
	}
	d.pos += n
	return v
}

func (d *Decoder) Double() float64 {
	if d.pos+8 > len(d.data) {
		panic(errors.New("coders: decode past end of buffer"))
	}
	v := binary.BigEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return math.Float64frombits(v)
}

func (d *Decoder) Bytes() []byte {
	n := int(d.Uvarint())
	if d.pos+n > len(d.data) {
		panic(errors.New("coders: decode past end of buffer"))
	}
	b := make([]byte, n)
	copy(b, d.data[d.pos:])
	d.pos += n
	return b
}

func (d *Decoder) StringUtf8() string {
	return string(d.Bytes())
}

// MakeCoder builds a deterministic coder for T.
//
// Booleans, integers of all widths, floats, complex numbers, strings, byte
// slices, time.Time, and flat structs of those encode in a compact binary
// form. Anything else falls back to deterministic JSON, which covers maps
// and slices at the cost of density.
func MakeCoder[T any]() Coder[T] {
	rt := reflect.TypeFor[T]()
	return typedCoder[T]{c: coderForType(rt), rt: rt}
}

type typedCoder[T any] struct {
	c  valCoder
	rt reflect.Type
}

func (tc typedCoder[T]) Encode(enc *Encoder, v T) {
	tc.c.enc(enc, reflect.ValueOf(&v).Elem())
}

func (tc typedCoder[T]) Decode(dec *Decoder) T {
	return tc.c.dec(dec).Interface().(T)
}

// valCoder is the reflection level coder pair MakeCoder composes.
type valCoder struct {
	enc func(e *Encoder, rv reflect.Value)
	dec func(d *Decoder) reflect.Value
}

var timeRT = reflect.TypeOf(time.Time{})

func coderForType(rt reflect.Type) valCoder {
	switch rt.Kind() {
	case reflect.Bool:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) { e.Bool(rv.Bool()) },
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				rv.SetBool(d.Bool())
				return rv
			},
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) { e.Varint(rv.Int()) },
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				rv.SetInt(d.Varint())
				return rv
			},
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) { e.Uvarint(rv.Uint()) },
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				rv.SetUint(d.Uvarint())
				return rv
			},
		}
	case reflect.Float32, reflect.Float64:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) { e.Double(rv.Float()) },
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				rv.SetFloat(d.Double())
				return rv
			},
		}
	case reflect.Complex64, reflect.Complex128:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) {
				c := rv.Complex()
				e.Double(real(c))
				e.Double(imag(c))
			},
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				re := d.Double()
				im := d.Double()
				rv.SetComplex(complex(re, im))
				return rv
			},
		}
	case reflect.String:
		return valCoder{
			enc: func(e *Encoder, rv reflect.Value) { e.StringUtf8(rv.String()) },
			dec: func(d *Decoder) reflect.Value {
				rv := reflect.New(rt).Elem()
				rv.SetString(d.StringUtf8())
				return rv
			},
		}
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return valCoder{
				enc: func(e *Encoder, rv reflect.Value) { e.Bytes(rv.Bytes()) },
				dec: func(d *Decoder) reflect.Value {
					rv := reflect.New(rt).Elem()
					rv.SetBytes(d.Bytes())
					return rv
				},
			}
		}
		return jsonCoder(rt)
	case reflect.Struct:
		if rt == timeRT {
			return timeCoder()
		}
		return rowCoder(rt)
	default:
		return jsonCoder(rt)
	}
}

// timeCoder encodes an instant as seconds and nanoseconds, which covers
// the full range time.Time can represent, unlike a single UnixNano.
// The location is not preserved; decoded times compare Equal.
func timeCoder() valCoder {
	return valCoder{
		enc: func(e *Encoder, rv reflect.Value) {
			t := rv.Interface().(time.Time)
			e.Varint(t.Unix())
			e.Varint(int64(t.Nanosecond()))
		},
		dec: func(d *Decoder) reflect.Value {
			sec := d.Varint()
			nsec := d.Varint()
			return reflect.ValueOf(time.Unix(sec, nsec).UTC())
		},
	}
}

// rowCoder encodes the exported fields of a struct in declaration order.
// Unexported fields are skipped, and decode to their zero values.
func rowCoder(rt reflect.Type) valCoder {
	type fieldCoder struct {
		index int
		c     valCoder
	}
	var fields []fieldCoder
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fields = append(fields, fieldCoder{index: i, c: coderForType(sf.Type)})
	}
	return valCoder{
		enc: func(e *Encoder, rv reflect.Value) {
			for _, f := range fields {
				f.c.enc(e, rv.Field(f.index))
			}
		},
		dec: func(d *Decoder) reflect.Value {
			rv := reflect.New(rt).Elem()
			for _, f := range fields {
				rv.Field(f.index).Set(f.c.dec(d))
			}
			return rv
		},
	}
}

// jsonCoder is the fallback for shapes without a compact binary form.
// Deterministic marshaling keeps it usable for key encoding.
func jsonCoder(rt reflect.Type) valCoder {
	return valCoder{
		enc: func(e *Encoder, rv reflect.Value) {
			data, err := json.Marshal(rv.Interface(), json.Deterministic(true))
			if err != nil {
				panic(errors.Wrapf(err, "coders: cannot encode %v", rt))
			}
			e.Bytes(data)
		},
		dec: func(d *Decoder) reflect.Value {
			ptr := reflect.New(rt)
			if err := json.Unmarshal(d.Bytes(), ptr.Interface()); err != nil {
				panic(errors.Wrapf(err, "coders: cannot decode %v", rt))
			}
			return ptr.Elem()
		},
	}
}
