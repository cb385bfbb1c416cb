// Package kbin contains the low level byte-pushing and byte-pulling
// primitives used to encode and decode the Kafka wire protocol: the fixed
// width integers, length-prefixed strings and byte arrays, compact
// (flexible) variants, varint/varlong, and tagged fields.
package kbin

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrNotEnoughData is returned from Reader methods when the source slice
// is exhausted before a full value could be read.
var ErrNotEnoughData = errors.New("response did not contain enough data to be valid")

// AppendBool appends a boolean as a single byte.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// AppendInt8 appends an int8.
func AppendInt8(dst []byte, i int8) []byte {
	return append(dst, byte(i))
}

// AppendInt16 appends a big endian int16.
func AppendInt16(dst []byte, i int16) []byte {
	return appendUint16(dst, uint16(i))
}

func appendUint16(dst []byte, u uint16) []byte {
	return append(dst, byte(u>>8), byte(u))
}

// AppendInt32 appends a big endian int32.
func AppendInt32(dst []byte, i int32) []byte {
	return appendUint32(dst, uint32(i))
}

func appendUint32(dst []byte, u uint32) []byte {
	return append(dst, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

// AppendInt64 appends a big endian int64.
func AppendInt64(dst []byte, i int64) []byte {
	u := uint64(i)
	return append(dst,
		byte(u>>56), byte(u>>48), byte(u>>40), byte(u>>32),
		byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

// AppendFloat64 appends a big endian float64.
func AppendFloat64(dst []byte, f float64) []byte {
	return AppendInt64(dst, int64(math.Float64bits(f)))
}

// AppendUUID appends a raw 16 byte UUID.
func AppendUUID(dst []byte, uuid [16]byte) []byte {
	return append(dst, uuid[:]...)
}

// AppendUvarint appends a base 128 varint (used for compact string, bytes
// and array lengths, which are encoded as count+1, and for the tagged field
// section count, which is encoded as-is).
func AppendUvarint(dst []byte, u uint32) []byte {
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], uint64(u))
	return append(dst, buf[:n]...)
}

// AppendVarint zigzag encodes and appends i as a varint.
func AppendVarint(dst []byte, i int32) []byte {
	return AppendUvarint(dst, uint32(uint32(i<<1)^uint32(i>>31)))
}

// AppendVarlong zigzag encodes and appends i as a varlong.
func AppendVarlong(dst []byte, i int64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], i)
	return append(dst, buf[:n]...)
}

// AppendString appends a legacy int16-length-prefixed string.
func AppendString(dst []byte, s string) []byte {
	dst = AppendInt16(dst, int16(len(s)))
	return append(dst, s...)
}

// AppendNullableString appends a legacy int16-length-prefixed string, using
// length -1 to indicate a null string.
func AppendNullableString(dst []byte, s *string) []byte {
	if s == nil {
		return AppendInt16(dst, -1)
	}
	return AppendString(dst, *s)
}

// AppendCompactString appends a compact (unsigned-varint-length-plus-one
// prefixed) string.
func AppendCompactString(dst []byte, s string) []byte {
	dst = AppendUvarint(dst, uint32(len(s))+1)
	return append(dst, s...)
}

// AppendCompactNullableString appends a compact string, using length 0
// (i.e. varint-encoded 0) to indicate null.
func AppendCompactNullableString(dst []byte, s *string) []byte {
	if s == nil {
		return AppendUvarint(dst, 0)
	}
	return AppendCompactString(dst, *s)
}

// AppendBytes appends a legacy int32-length-prefixed byte array.
func AppendBytes(dst, b []byte) []byte {
	dst = AppendInt32(dst, int32(len(b)))
	return append(dst, b...)
}

// AppendNullableBytes appends a legacy int32-length-prefixed byte array,
// using length -1 to indicate null.
func AppendNullableBytes(dst, b []byte) []byte {
	if b == nil {
		return AppendInt32(dst, -1)
	}
	return AppendBytes(dst, b)
}

// AppendCompactBytes appends a compact byte array.
func AppendCompactBytes(dst, b []byte) []byte {
	dst = AppendUvarint(dst, uint32(len(b))+1)
	return append(dst, b...)
}

// AppendCompactNullableBytes appends a compact byte array, using a varint
// 0 prefix to indicate null.
func AppendCompactNullableBytes(dst, b []byte) []byte {
	if b == nil {
		return AppendUvarint(dst, 0)
	}
	return AppendCompactBytes(dst, b)
}

// AppendArrayLen appends a legacy int32 array length.
func AppendArrayLen(dst []byte, l int) []byte {
	return AppendInt32(dst, int32(l))
}

// AppendCompactArrayLen appends a compact (varint length+1) array length.
func AppendCompactArrayLen(dst []byte, l int) []byte {
	return AppendUvarint(dst, uint32(l)+1)
}

// AppendNullableArrayLen appends a legacy array length, using -1 for null
// arrays (used by a handful of older request types).
func AppendNullableArrayLen(dst []byte, l int, isNil bool) []byte {
	if isNil {
		return AppendInt32(dst, -1)
	}
	return AppendInt32(dst, int32(l))
}

// AppendTags appends an empty tagged field section: a single 0 byte. No
// request or response built by this module currently sets tagged fields on
// write; tags are only skipped on read via SkipTags.
func AppendTags(dst []byte) []byte {
	return AppendUvarint(dst, 0)
}
