// Package bsontype defines the BSON element type tags understood by the lazy views.
package bsontype

// Type is the one byte tag that precedes every BSON element.
type Type uint8

const (
	EndOfDocument Type = 0x00 // EndOfDocument marks the terminator byte of a document.
	Double        Type = 0x01 // Double is a 64-bit IEEE-754 floating point number.
	String        Type = 0x02 // String is a length prefixed, NUL terminated UTF-8 string.
	EmbeddedDoc   Type = 0x03 // EmbeddedDoc is a nested document.
	Array         Type = 0x04 // Array is a nested document keyed by decimal indices.
	Binary        Type = 0x05 // Binary is a length prefixed byte payload with a subtype.
	Undefined     Type = 0x06 // Undefined is deprecated and carries no payload.
	ObjectID      Type = 0x07 // ObjectID is a 12 byte identifier.
	Boolean       Type = 0x08 // Boolean is a single 0x00 or 0x01 byte.
	DateTime      Type = 0x09 // DateTime is milliseconds since the Unix epoch as int64.
	Null          Type = 0x0A // Null carries no payload.
	Regex         Type = 0x0B // Regex is a pattern cstring followed by an options cstring.
	DBPointer     Type = 0x0C // DBPointer is deprecated: a string followed by a 12 byte id.
	JavaScript    Type = 0x0D // JavaScript is code encoded like String.
	Symbol        Type = 0x0E // Symbol is deprecated and encoded like String.
	CodeWithScope Type = 0x0F // CodeWithScope is int32 total length, a string and a document.
	Int32         Type = 0x10 // Int32 is a little-endian 32-bit signed integer.
	Timestamp     Type = 0x11 // Timestamp is the internal replication timestamp (increment, seconds).
	Int64         Type = 0x12 // Int64 is a little-endian 64-bit signed integer.
	Decimal128    Type = 0x13 // Decimal128 is a 16 byte IEEE-754 decimal.
	MinKey        Type = 0xFF // MinKey compares lower than every other value.
	MaxKey        Type = 0x7F // MaxKey compares higher than every other value.
)

func (t Type) String() string {
	switch t {
	case EndOfDocument:
		return "EndOfDocument"
	case Double:
		return "Double"
	case String:
		return "String"
	case EmbeddedDoc:
		return "EmbeddedDocument"
	case Array:
		return "Array"
	case Binary:
		return "Binary"
	case Undefined:
		return "Undefined"
	case ObjectID:
		return "ObjectID"
	case Boolean:
		return "Boolean"
	case DateTime:
		return "DateTime"
	case Null:
		return "Null"
	case Regex:
		return "Regex"
	case DBPointer:
		return "DBPointer"
	case JavaScript:
		return "JavaScript"
	case Symbol:
		return "Symbol"
	case CodeWithScope:
		return "CodeWithScope"
	case Int32:
		return "Int32"
	case Timestamp:
		return "Timestamp"
	case Int64:
		return "Int64"
	case Decimal128:
		return "Decimal128"
	case MinKey:
		return "MinKey"
	case MaxKey:
		return "MaxKey"
	default:
		return "Unknown"
	}
}

// IsValid reports whether t is a known element type. EndOfDocument is not an element type.
func (t Type) IsValid() bool {
	switch t {
	case Double, String, EmbeddedDoc, Array, Binary, Undefined, ObjectID, Boolean,
		DateTime, Null, Regex, DBPointer, JavaScript, Symbol, CodeWithScope,
		Int32, Timestamp, Int64, Decimal128, MinKey, MaxKey:
		return true
	default:
		return false
	}
}

// IsContainer reports whether values of type t are materialized as nested views.
func (t Type) IsContainer() bool {
	return t == EmbeddedDoc || t == Array
}

// FixedSize returns the payload size in bytes for fixed width types.
//
// Returns:
//   - int: payload size (0 for types without payload)
//   - bool: false when the payload is variable length or the type is unknown
func (t Type) FixedSize() (int, bool) {
	switch t {
	case Undefined, Null, MinKey, MaxKey:
		return 0, true
	case Boolean:
		return 1, true
	case Int32:
		return 4, true
	case Double, DateTime, Timestamp, Int64:
		return 8, true
	case ObjectID:
		return 12, true
	case Decimal128:
		return 16, true
	default:
		return 0, false
	}
}
