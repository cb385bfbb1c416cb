package kbin

import "math"

// Reader is a small buffer-consuming cursor used to decode Kafka responses
// (and, for testing, requests). It is intentionally not an io.Reader: every
// generated struct's decode method takes a *Reader directly so that a
// single malformed-response check can be made once at the end via
// Complete, rather than after every field.
type Reader struct {
	Src []byte
	// bad is set the first time a read runs out of data; once set, all
	// further reads return zero values without consuming Src.
	bad bool
}

// Complete returns ErrNotEnoughData if any read on this Reader failed, and
// nil otherwise. This should be called once, after all fields of a
// message have been read.
func (b *Reader) Complete() error {
	if b.bad {
		return ErrNotEnoughData
	}
	return nil
}

// Ok returns whether the reader has not yet encountered a short read.
func (b *Reader) Ok() bool {
	return !b.bad
}

func (b *Reader) fail() {
	b.bad = true
	b.Src = nil
}

// Bool reads a single byte boolean.
func (b *Reader) Bool() bool {
	if b.bad || len(b.Src) < 1 {
		b.fail()
		return false
	}
	v := b.Src[0] != 0
	b.Src = b.Src[1:]
	return v
}

// Int8 reads a signed byte.
func (b *Reader) Int8() int8 {
	if b.bad || len(b.Src) < 1 {
		b.fail()
		return 0
	}
	v := int8(b.Src[0])
	b.Src = b.Src[1:]
	return v
}

// Int16 reads a big endian int16.
func (b *Reader) Int16() int16 {
	return int16(b.uint16())
}

func (b *Reader) uint16() uint16 {
	if b.bad || len(b.Src) < 2 {
		b.fail()
		return 0
	}
	v := uint16(b.Src[0])<<8 | uint16(b.Src[1])
	b.Src = b.Src[2:]
	return v
}

// Int32 reads a big endian int32.
func (b *Reader) Int32() int32 {
	return int32(b.uint32())
}

func (b *Reader) uint32() uint32 {
	if b.bad || len(b.Src) < 4 {
		b.fail()
		return 0
	}
	v := uint32(b.Src[0])<<24 | uint32(b.Src[1])<<16 | uint32(b.Src[2])<<8 | uint32(b.Src[3])
	b.Src = b.Src[4:]
	return v
}

// Int64 reads a big endian int64.
func (b *Reader) Int64() int64 {
	if b.bad || len(b.Src) < 8 {
		b.fail()
		return 0
	}
	v := int64(b.Src[0])<<56 | int64(b.Src[1])<<48 | int64(b.Src[2])<<40 | int64(b.Src[3])<<32 |
		int64(b.Src[4])<<24 | int64(b.Src[5])<<16 | int64(b.Src[6])<<8 | int64(b.Src[7])
	b.Src = b.Src[8:]
	return v
}

// Float64 reads a big endian float64.
func (b *Reader) Float64() float64 {
	return math.Float64frombits(uint64(b.Int64()))
}

// UUID reads a raw 16 byte UUID.
func (b *Reader) UUID() [16]byte {
	var uuid [16]byte
	if b.bad || len(b.Src) < 16 {
		b.fail()
		return uuid
	}
	copy(uuid[:], b.Src)
	b.Src = b.Src[16:]
	return uuid
}

// Uvarint reads a base 128 varint.
func (b *Reader) Uvarint() uint32 {
	if b.bad {
		return 0
	}
	var x uint32
	var shift uint
	for i := 0; i < len(b.Src); i++ {
		byt := b.Src[i]
		if byt < 0x80 {
			if i > 4 || (i == 4 && byt > 0x0f) {
				b.fail()
				return 0
			}
			x |= uint32(byt) << shift
			b.Src = b.Src[i+1:]
			return x
		}
		x |= uint32(byt&0x7f) << shift
		shift += 7
	}
	b.fail()
	return 0
}

// Varint zigzag decodes a varint.
func (b *Reader) Varint() int32 {
	u := b.Uvarint()
	return int32((u >> 1) ^ -(u & 1))
}

// Varlong zigzag decodes a varlong (64 bit).
func (b *Reader) Varlong() int64 {
	if b.bad {
		return 0
	}
	var x uint64
	var shift uint
	for i := 0; i < len(b.Src); i++ {
		byt := b.Src[i]
		if byt < 0x80 {
			if i > 9 || (i == 9 && byt > 1) {
				b.fail()
				return 0
			}
			x |= uint64(byt) << shift
			b.Src = b.Src[i+1:]
			return int64((x >> 1) ^ -(x & 1))
		}
		x |= uint64(byt&0x7f) << shift
		shift += 7
	}
	b.fail()
	return 0
}

// String reads a legacy int16-length-prefixed string.
func (b *Reader) String() string {
	l := b.Int16()
	return string(b.rawString(int(l)))
}

// NullableString reads a legacy int16-length-prefixed string, returning
// nil if the encoded length was -1.
func (b *Reader) NullableString() *string {
	l := b.Int16()
	if l < 0 {
		return nil
	}
	s := string(b.rawString(int(l)))
	return &s
}

// CompactString reads a compact (varint length+1 prefixed) string.
func (b *Reader) CompactString() string {
	l := int(b.Uvarint()) - 1
	return string(b.rawString(l))
}

// CompactNullableString reads a compact string, returning nil if the
// encoded length was 0 (i.e. the real length was -1).
func (b *Reader) CompactNullableString() *string {
	l := int(b.Uvarint()) - 1
	if l < 0 {
		return nil
	}
	s := string(b.rawString(l))
	return &s
}

func (b *Reader) rawString(l int) []byte {
	if b.bad || l < 0 {
		b.fail()
		return nil
	}
	if len(b.Src) < l {
		b.fail()
		return nil
	}
	r := b.Src[:l:l]
	b.Src = b.Src[l:]
	return r
}

// Bytes reads a legacy int32-length-prefixed byte array, copying out of
// the underlying buffer.
func (b *Reader) Bytes() []byte {
	l := b.Int32()
	return b.rawBytes(int(l))
}

// NullableBytes reads a legacy int32-length-prefixed byte array, returning
// a nil slice (with ok=false) if the encoded length was -1.
func (b *Reader) NullableBytes() ([]byte, bool) {
	l := b.Int32()
	if l < 0 {
		return nil, false
	}
	return b.rawBytes(int(l)), true
}

// CompactBytes reads a compact byte array.
func (b *Reader) CompactBytes() []byte {
	l := int(b.Uvarint()) - 1
	return b.rawBytes(l)
}

// CompactNullableBytes reads a compact byte array, returning nil if the
// encoded length was 0.
func (b *Reader) CompactNullableBytes() []byte {
	l := int(b.Uvarint()) - 1
	if l < 0 {
		return nil
	}
	return b.rawBytes(l)
}

func (b *Reader) rawBytes(l int) []byte {
	if b.bad || l < 0 {
		b.fail()
		return nil
	}
	if len(b.Src) < l {
		b.fail()
		return nil
	}
	r := make([]byte, l)
	copy(r, b.Src[:l])
	b.Src = b.Src[l:]
	return r
}

// ArrayLen reads a legacy int32 array length. Returns 0 if the encoded
// length is -1 (a null array).
func (b *Reader) ArrayLen() int32 {
	l := b.Int32()
	if l < 0 {
		return 0
	}
	return l
}

// CompactArrayLen reads a compact (varint length+1) array length. Returns
// 0 if the encoded length was 0.
func (b *Reader) CompactArrayLen() int32 {
	l := int32(b.Uvarint()) - 1
	if l < 0 {
		return 0
	}
	return l
}

// Span returns a copy of the next l bytes, advancing past them.
// Used to slice out record batch payloads for separate parsing.
func (b *Reader) Span(l int) []byte {
	return b.rawBytes(l)
}

// PeekSpan returns the next l bytes without consuming them.
func (b *Reader) PeekSpan(l int) []byte {
	if b.bad || l < 0 || len(b.Src) < l {
		return nil
	}
	return b.Src[:l]
}
