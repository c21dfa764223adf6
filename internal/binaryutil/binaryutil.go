// Package binaryutil provides bounds-checked little-endian reads and appends
// for BSON primitive values.
//
// BSON fixes the byte order to little-endian, so unlike a general endian engine
// there is exactly one Engine. All read helpers take the source slice and an
// offset and report ok=false instead of panicking when the value would cross
// the end of the slice.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package binaryutil

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Engine is the byte order used by every BSON primitive.
var Engine EndianEngine = binary.LittleEndian

// ReadInt32 reads a little-endian int32 at off.
func ReadInt32(b []byte, off int) (int32, bool) {
	if off < 0 || len(b)-off < 4 {
		return 0, false
	}

	return int32(Engine.Uint32(b[off:])), true //nolint:gosec
}

// ReadUint32 reads a little-endian uint32 at off.
func ReadUint32(b []byte, off int) (uint32, bool) {
	if off < 0 || len(b)-off < 4 {
		return 0, false
	}

	return Engine.Uint32(b[off:]), true
}

// ReadInt64 reads a little-endian int64 at off.
func ReadInt64(b []byte, off int) (int64, bool) {
	if off < 0 || len(b)-off < 8 {
		return 0, false
	}

	return int64(Engine.Uint64(b[off:])), true //nolint:gosec
}

// ReadUint64 reads a little-endian uint64 at off.
func ReadUint64(b []byte, off int) (uint64, bool) {
	if off < 0 || len(b)-off < 8 {
		return 0, false
	}

	return Engine.Uint64(b[off:]), true
}

// ReadFloat64 reads a little-endian IEEE-754 double at off.
func ReadFloat64(b []byte, off int) (float64, bool) {
	bits, ok := ReadUint64(b, off)
	if !ok {
		return 0, false
	}

	return math.Float64frombits(bits), true
}

// IndexNUL returns the position of the first NUL byte at or after off, or -1.
func IndexNUL(b []byte, off int) int {
	for i := off; i < len(b); i++ {
		if b[i] == 0x00 {
			return i
		}
	}

	return -1
}

// AppendInt32 appends v in little-endian order.
func AppendInt32(dst []byte, v int32) []byte {
	return Engine.AppendUint32(dst, uint32(v)) //nolint:gosec
}

// AppendInt64 appends v in little-endian order.
func AppendInt64(dst []byte, v int64) []byte {
	return Engine.AppendUint64(dst, uint64(v)) //nolint:gosec
}

// AppendFloat64 appends the IEEE-754 bits of v in little-endian order.
func AppendFloat64(dst []byte, v float64) []byte {
	return Engine.AppendUint64(dst, math.Float64bits(v))
}

// PutInt32 overwrites the four bytes at off with v. Used to back-patch length prefixes.
func PutInt32(b []byte, off int, v int32) {
	Engine.PutUint32(b[off:off+4], uint32(v)) //nolint:gosec
}
