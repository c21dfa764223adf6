package view

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/internal/binaryutil"
)

// Value is a decoded BSON element value.
//
// Scalars are read from the raw payload on demand. Embedded documents and arrays
// carry the nested view produced by the owning view's materialization cache, so
// two Values obtained from the same parent for the same field share that view.
//
// The zero Value has type EndOfDocument and represents nothing; lookups signal
// absence through their ok result instead.
type Value struct {
	typ    bsontype.Type
	raw    []byte
	nested any
}

// Type returns the element type tag.
func (v Value) Type() bsontype.Type {
	return v.typ
}

// Raw returns the encoded payload. It aliases the view's buffer and must not be modified.
func (v Value) Raw() []byte {
	return v.raw
}

// IsNull reports whether the value is BSON null.
func (v Value) IsNull() bool {
	return v.typ == bsontype.Null
}

// Double returns the value of a Double element.
func (v Value) Double() (float64, bool) {
	if v.typ != bsontype.Double {
		return 0, false
	}

	return binaryutil.ReadFloat64(v.raw, 0)
}

// StringValue returns the value of a String element.
func (v Value) StringValue() (string, bool) {
	if v.typ != bsontype.String {
		return "", false
	}

	return stringPayload(v.raw), true
}

// Document returns the nested document view of an EmbeddedDoc element.
// It returns false when a custom factory produced a different representation.
func (v Value) Document() (*Document, bool) {
	if v.typ != bsontype.EmbeddedDoc {
		return nil, false
	}
	d, ok := v.nested.(*Document)

	return d, ok
}

// List returns the nested list view of an Array element.
// It returns false when a custom factory produced a different representation.
func (v Value) List() (*List, bool) {
	if v.typ != bsontype.Array {
		return nil, false
	}
	l, ok := v.nested.(*List)

	return l, ok
}

// Nested returns whatever the factory materialized for an embedded document or array.
func (v Value) Nested() any {
	return v.nested
}

// Binary returns the value of a Binary element.
func (v Value) Binary() (Binary, bool) {
	if v.typ != bsontype.Binary {
		return Binary{}, false
	}

	return Binary{Subtype: v.raw[4], Data: v.raw[5:]}, true
}

// ObjectID returns the value of an ObjectID element.
func (v Value) ObjectID() (ObjectID, bool) {
	var id ObjectID
	if v.typ != bsontype.ObjectID {
		return id, false
	}
	copy(id[:], v.raw)

	return id, true
}

// Boolean returns the value of a Boolean element.
func (v Value) Boolean() (bool, bool) {
	if v.typ != bsontype.Boolean {
		return false, false
	}

	return v.raw[0] == 0x01, true
}

// DateTime returns the value of a DateTime element as a UTC time.
func (v Value) DateTime() (time.Time, bool) {
	ms, ok := v.DateTimeMillis()
	if !ok {
		return time.Time{}, false
	}

	return time.UnixMilli(ms).UTC(), true
}

// DateTimeMillis returns the value of a DateTime element as milliseconds since the Unix epoch.
func (v Value) DateTimeMillis() (int64, bool) {
	if v.typ != bsontype.DateTime {
		return 0, false
	}

	return binaryutil.ReadInt64(v.raw, 0)
}

// Regex returns the value of a Regex element.
func (v Value) Regex() (Regex, bool) {
	if v.typ != bsontype.Regex {
		return Regex{}, false
	}
	p := bytes.IndexByte(v.raw, 0x00)

	return Regex{Pattern: string(v.raw[:p]), Options: string(v.raw[p+1 : len(v.raw)-1])}, true
}

// DBPointer returns the value of a DBPointer element.
func (v Value) DBPointer() (DBPointer, bool) {
	if v.typ != bsontype.DBPointer {
		return DBPointer{}, false
	}
	n := len(v.raw) - 12
	ptr := DBPointer{Namespace: stringPayload(v.raw[:n])}
	copy(ptr.ID[:], v.raw[n:])

	return ptr, true
}

// JavaScript returns the code of a JavaScript element.
func (v Value) JavaScript() (string, bool) {
	if v.typ != bsontype.JavaScript {
		return "", false
	}

	return stringPayload(v.raw), true
}

// Symbol returns the value of a Symbol element.
func (v Value) Symbol() (string, bool) {
	if v.typ != bsontype.Symbol {
		return "", false
	}

	return stringPayload(v.raw), true
}

// CodeWithScope returns the value of a CodeWithScope element.
func (v Value) CodeWithScope() (CodeWithScope, bool) {
	if v.typ != bsontype.CodeWithScope {
		return CodeWithScope{}, false
	}
	strLen, _ := binaryutil.ReadInt32(v.raw, 4)
	scopeStart := 8 + int(strLen)

	return CodeWithScope{Code: stringPayload(v.raw[4:scopeStart]), Scope: v.raw[scopeStart:]}, true
}

// Int32 returns the value of an Int32 element.
func (v Value) Int32() (int32, bool) {
	if v.typ != bsontype.Int32 {
		return 0, false
	}

	return binaryutil.ReadInt32(v.raw, 0)
}

// Timestamp returns the value of a Timestamp element.
func (v Value) Timestamp() (Timestamp, bool) {
	if v.typ != bsontype.Timestamp {
		return Timestamp{}, false
	}
	i, _ := binaryutil.ReadUint32(v.raw, 0)
	t, _ := binaryutil.ReadUint32(v.raw, 4)

	return Timestamp{T: t, I: i}, true
}

// Int64 returns the value of an Int64 element.
func (v Value) Int64() (int64, bool) {
	if v.typ != bsontype.Int64 {
		return 0, false
	}

	return binaryutil.ReadInt64(v.raw, 0)
}

// Decimal128 returns the value of a Decimal128 element.
func (v Value) Decimal128() (Decimal128, bool) {
	if v.typ != bsontype.Decimal128 {
		return Decimal128{}, false
	}
	low, _ := binaryutil.ReadUint64(v.raw, 0)
	high, _ := binaryutil.ReadUint64(v.raw, 8)

	return Decimal128{High: high, Low: low}, true
}

// AsInt64 converts any numeric value to int64. Doubles convert only when they hold an integral value.
func (v Value) AsInt64() (int64, bool) {
	switch v.typ {
	case bsontype.Int32:
		i, ok := v.Int32()
		return int64(i), ok
	case bsontype.Int64:
		return v.Int64()
	case bsontype.Double:
		f, ok := v.Double()
		if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}

		return int64(f), true
	default:
		return 0, false
	}
}

// AsFloat64 converts any numeric value to float64.
func (v Value) AsFloat64() (float64, bool) {
	switch v.typ {
	case bsontype.Int32:
		i, ok := v.Int32()
		return float64(i), ok
	case bsontype.Int64:
		i, ok := v.Int64()
		return float64(i), ok
	case bsontype.Double:
		return v.Double()
	default:
		return 0, false
	}
}

// Interface returns the value as a plain Go value:
// float64, string, *Document, *List (or the factory's product), Binary, Undefined,
// ObjectID, bool, time.Time, nil, Regex, DBPointer, JavaScript, Symbol,
// CodeWithScope, int32, Timestamp, int64, Decimal128, MinKey or MaxKey.
func (v Value) Interface() any {
	switch v.typ {
	case bsontype.Double:
		f, _ := v.Double()
		return f
	case bsontype.String:
		s, _ := v.StringValue()
		return s
	case bsontype.EmbeddedDoc, bsontype.Array:
		return v.nested
	case bsontype.Binary:
		b, _ := v.Binary()
		return b
	case bsontype.Undefined:
		return Undefined{}
	case bsontype.ObjectID:
		id, _ := v.ObjectID()
		return id
	case bsontype.Boolean:
		b, _ := v.Boolean()
		return b
	case bsontype.DateTime:
		t, _ := v.DateTime()
		return t
	case bsontype.Regex:
		r, _ := v.Regex()
		return r
	case bsontype.DBPointer:
		p, _ := v.DBPointer()
		return p
	case bsontype.JavaScript:
		js, _ := v.JavaScript()
		return JavaScript(js)
	case bsontype.Symbol:
		s, _ := v.Symbol()
		return Symbol(s)
	case bsontype.CodeWithScope:
		c, _ := v.CodeWithScope()
		return c
	case bsontype.Int32:
		i, _ := v.Int32()
		return i
	case bsontype.Timestamp:
		ts, _ := v.Timestamp()
		return ts
	case bsontype.Int64:
		i, _ := v.Int64()
		return i
	case bsontype.Decimal128:
		d, _ := v.Decimal128()
		return d
	case bsontype.MinKey:
		return MinKey{}
	case bsontype.MaxKey:
		return MaxKey{}
	default:
		return nil
	}
}

// Equal reports whether v and other are structurally equal: same type tag and
// identical payload bytes. Embedded documents and arrays compare by their encoded
// bytes, never by view identity. Doubles compare by bit pattern.
func (v Value) Equal(other Value) bool {
	return v.typ == other.typ && bytes.Equal(v.raw, other.raw)
}

func (v Value) String() string {
	switch v.typ {
	case bsontype.Double:
		f, _ := v.Double()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case bsontype.String:
		s, _ := v.StringValue()
		return strconv.Quote(s)
	case bsontype.EmbeddedDoc, bsontype.Array:
		if s, ok := v.nested.(fmt.Stringer); ok {
			return s.String()
		}

		return fmt.Sprintf("%v", v.nested)
	case bsontype.Binary:
		b, _ := v.Binary()
		return fmt.Sprintf("Binary(%d, %q)", b.Subtype, base64.StdEncoding.EncodeToString(b.Data))
	case bsontype.Undefined:
		return "undefined"
	case bsontype.ObjectID:
		id, _ := v.ObjectID()
		return id.String()
	case bsontype.Boolean:
		b, _ := v.Boolean()
		return strconv.FormatBool(b)
	case bsontype.DateTime:
		t, _ := v.DateTime()
		return fmt.Sprintf("DateTime(%q)", t.Format(time.RFC3339Nano))
	case bsontype.Null:
		return "null"
	case bsontype.Regex:
		r, _ := v.Regex()
		return "/" + r.Pattern + "/" + r.Options
	case bsontype.DBPointer:
		p, _ := v.DBPointer()
		return fmt.Sprintf("DBPointer(%q, %s)", p.Namespace, p.ID)
	case bsontype.JavaScript:
		js, _ := v.JavaScript()
		return fmt.Sprintf("JavaScript(%q)", js)
	case bsontype.Symbol:
		s, _ := v.Symbol()
		return fmt.Sprintf("Symbol(%q)", s)
	case bsontype.CodeWithScope:
		c, _ := v.CodeWithScope()
		return fmt.Sprintf("CodeWithScope(%q)", c.Code)
	case bsontype.Int32:
		i, _ := v.Int32()
		return strconv.FormatInt(int64(i), 10)
	case bsontype.Timestamp:
		ts, _ := v.Timestamp()
		return fmt.Sprintf("Timestamp(%d, %d)", ts.T, ts.I)
	case bsontype.Int64:
		i, _ := v.Int64()
		return strconv.FormatInt(i, 10)
	case bsontype.Decimal128:
		d, _ := v.Decimal128()
		return fmt.Sprintf("NumberDecimal(%q)", d.String())
	case bsontype.MinKey:
		return "MinKey"
	case bsontype.MaxKey:
		return "MaxKey"
	default:
		return "<none>"
	}
}

// stringPayload extracts the string from an int32 length prefixed, NUL terminated payload.
func stringPayload(raw []byte) string {
	return string(raw[4 : len(raw)-1])
}

func appendStringPayload(dst []byte, s string) []byte {
	dst = binaryutil.AppendInt32(dst, int32(len(s)+1)) //nolint:gosec
	dst = append(dst, s...)

	return append(dst, 0x00)
}

// Int32Value returns a Value holding an Int32, for use as a search argument.
func Int32Value(i int32) Value {
	return Value{typ: bsontype.Int32, raw: binaryutil.AppendInt32(nil, i)}
}

// Int64Value returns a Value holding an Int64.
func Int64Value(i int64) Value {
	return Value{typ: bsontype.Int64, raw: binaryutil.AppendInt64(nil, i)}
}

// DoubleValue returns a Value holding a Double.
func DoubleValue(f float64) Value {
	return Value{typ: bsontype.Double, raw: binaryutil.AppendFloat64(nil, f)}
}

// StringOf returns a Value holding a String.
func StringOf(s string) Value {
	return Value{typ: bsontype.String, raw: appendStringPayload(nil, s)}
}

// BooleanValue returns a Value holding a Boolean.
func BooleanValue(b bool) Value {
	raw := []byte{0x00}
	if b {
		raw[0] = 0x01
	}

	return Value{typ: bsontype.Boolean, raw: raw}
}

// NullValue returns a Value holding null.
func NullValue() Value {
	return Value{typ: bsontype.Null, raw: []byte{}}
}

// DateTimeValue returns a Value holding a DateTime truncated to milliseconds.
func DateTimeValue(t time.Time) Value {
	return Value{typ: bsontype.DateTime, raw: binaryutil.AppendInt64(nil, t.UnixMilli())}
}

// ObjectIDValue returns a Value holding an ObjectID.
func ObjectIDValue(id ObjectID) Value {
	return Value{typ: bsontype.ObjectID, raw: append([]byte(nil), id[:]...)}
}

// BinaryValue returns a Value holding a Binary.
func BinaryValue(subtype byte, data []byte) Value {
	raw := binaryutil.AppendInt32(nil, int32(len(data))) //nolint:gosec
	raw = append(raw, subtype)

	return Value{typ: bsontype.Binary, raw: append(raw, data...)}
}
