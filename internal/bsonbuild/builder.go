// Package bsonbuild writes BSON documents element by element.
//
// It is a deliberately small write path used to produce fixtures for the lazy
// views and to encode single scalar payloads. It does not marshal Go values.
//
//	doc := bsonbuild.NewDocument().
//	    AppendInt32("n", 10).
//	    StartArray("tags").
//	        AppendString("0", "a").
//	    EndDocument().
//	    Build()
package bsonbuild

import (
	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/internal/binaryutil"
	"github.com/arloliu/lazybson/internal/pool"
)

// Builder appends elements to a document that is being written.
//
// Note: the Builder is NOT thread-safe and NOT reusable after Build.
type Builder struct {
	buf    *pool.ByteBuffer
	starts []int // offsets of the length prefixes of the open documents
}

// NewDocument starts a new top-level document.
func NewDocument() *Builder {
	b := &Builder{buf: pool.GetDocumentBuffer()}
	b.open()

	return b
}

func (b *Builder) open() {
	b.starts = append(b.starts, b.buf.Len())
	b.buf.B = binaryutil.AppendInt32(b.buf.B, 0) // patched on close
}

func (b *Builder) close() {
	start := b.starts[len(b.starts)-1]
	b.starts = b.starts[:len(b.starts)-1]
	_ = b.buf.WriteByte(0x00)
	binaryutil.PutInt32(b.buf.B, start, int32(b.buf.Len()-start)) //nolint:gosec
}

func (b *Builder) header(t bsontype.Type, key string) {
	b.buf.Grow(len(key) + 2)
	_ = b.buf.WriteByte(byte(t))
	_, _ = b.buf.WriteString(key)
	_ = b.buf.WriteByte(0x00)
}

func (b *Builder) appendString(s string) {
	b.buf.B = binaryutil.AppendInt32(b.buf.B, int32(len(s)+1)) //nolint:gosec
	_, _ = b.buf.WriteString(s)
	_ = b.buf.WriteByte(0x00)
}

func (b *Builder) appendCString(s string) {
	_, _ = b.buf.WriteString(s)
	_ = b.buf.WriteByte(0x00)
}

// AppendValue appends an element whose payload is already encoded.
func (b *Builder) AppendValue(key string, t bsontype.Type, payload []byte) *Builder {
	b.header(t, key)
	_, _ = b.buf.Write(payload)

	return b
}

func (b *Builder) AppendDouble(key string, v float64) *Builder {
	b.header(bsontype.Double, key)
	b.buf.B = binaryutil.AppendFloat64(b.buf.B, v)

	return b
}

func (b *Builder) AppendString(key string, v string) *Builder {
	b.header(bsontype.String, key)
	b.appendString(v)

	return b
}

// AppendDocument appends an already encoded document.
func (b *Builder) AppendDocument(key string, raw []byte) *Builder {
	return b.AppendValue(key, bsontype.EmbeddedDoc, raw)
}

// AppendArray appends an already encoded array.
func (b *Builder) AppendArray(key string, raw []byte) *Builder {
	return b.AppendValue(key, bsontype.Array, raw)
}

func (b *Builder) AppendBinary(key string, subtype byte, data []byte) *Builder {
	b.header(bsontype.Binary, key)
	b.buf.B = binaryutil.AppendInt32(b.buf.B, int32(len(data))) //nolint:gosec
	_ = b.buf.WriteByte(subtype)
	_, _ = b.buf.Write(data)

	return b
}

func (b *Builder) AppendUndefined(key string) *Builder {
	b.header(bsontype.Undefined, key)
	return b
}

func (b *Builder) AppendObjectID(key string, id [12]byte) *Builder {
	b.header(bsontype.ObjectID, key)
	_, _ = b.buf.Write(id[:])

	return b
}

func (b *Builder) AppendBoolean(key string, v bool) *Builder {
	b.header(bsontype.Boolean, key)
	if v {
		_ = b.buf.WriteByte(0x01)
	} else {
		_ = b.buf.WriteByte(0x00)
	}

	return b
}

// AppendDateTime appends milliseconds since the Unix epoch.
func (b *Builder) AppendDateTime(key string, millis int64) *Builder {
	b.header(bsontype.DateTime, key)
	b.buf.B = binaryutil.AppendInt64(b.buf.B, millis)

	return b
}

func (b *Builder) AppendNull(key string) *Builder {
	b.header(bsontype.Null, key)
	return b
}

func (b *Builder) AppendRegex(key, pattern, options string) *Builder {
	b.header(bsontype.Regex, key)
	b.appendCString(pattern)
	b.appendCString(options)

	return b
}

func (b *Builder) AppendDBPointer(key, ns string, id [12]byte) *Builder {
	b.header(bsontype.DBPointer, key)
	b.appendString(ns)
	_, _ = b.buf.Write(id[:])

	return b
}

func (b *Builder) AppendJavaScript(key, code string) *Builder {
	b.header(bsontype.JavaScript, key)
	b.appendString(code)

	return b
}

func (b *Builder) AppendSymbol(key, symbol string) *Builder {
	b.header(bsontype.Symbol, key)
	b.appendString(symbol)

	return b
}

// AppendCodeWithScope appends code with an already encoded scope document.
func (b *Builder) AppendCodeWithScope(key, code string, scope []byte) *Builder {
	b.header(bsontype.CodeWithScope, key)
	total := 4 + 4 + len(code) + 1 + len(scope)
	b.buf.B = binaryutil.AppendInt32(b.buf.B, int32(total)) //nolint:gosec
	b.appendString(code)
	_, _ = b.buf.Write(scope)

	return b
}

func (b *Builder) AppendInt32(key string, v int32) *Builder {
	b.header(bsontype.Int32, key)
	b.buf.B = binaryutil.AppendInt32(b.buf.B, v)

	return b
}

// AppendTimestamp appends a replication timestamp. The increment is stored first.
func (b *Builder) AppendTimestamp(key string, seconds, increment uint32) *Builder {
	b.header(bsontype.Timestamp, key)
	b.buf.B = binaryutil.Engine.AppendUint32(b.buf.B, increment)
	b.buf.B = binaryutil.Engine.AppendUint32(b.buf.B, seconds)

	return b
}

func (b *Builder) AppendInt64(key string, v int64) *Builder {
	b.header(bsontype.Int64, key)
	b.buf.B = binaryutil.AppendInt64(b.buf.B, v)

	return b
}

// AppendDecimal128 appends the low and high 64-bit halves of a decimal128.
func (b *Builder) AppendDecimal128(key string, high, low uint64) *Builder {
	b.header(bsontype.Decimal128, key)
	b.buf.B = binaryutil.Engine.AppendUint64(b.buf.B, low)
	b.buf.B = binaryutil.Engine.AppendUint64(b.buf.B, high)

	return b
}

func (b *Builder) AppendMinKey(key string) *Builder {
	b.header(bsontype.MinKey, key)
	return b
}

func (b *Builder) AppendMaxKey(key string) *Builder {
	b.header(bsontype.MaxKey, key)
	return b
}

// StartDocument opens a nested document; close it with EndDocument.
func (b *Builder) StartDocument(key string) *Builder {
	b.header(bsontype.EmbeddedDoc, key)
	b.open()

	return b
}

// StartArray opens a nested array; close it with EndDocument.
// Keys of the array elements are supplied by the caller ("0", "1", ...).
func (b *Builder) StartArray(key string) *Builder {
	b.header(bsontype.Array, key)
	b.open()

	return b
}

// EndDocument closes the innermost nested document or array.
func (b *Builder) EndDocument() *Builder {
	if len(b.starts) > 1 {
		b.close()
	}

	return b
}

// Build closes every open document and returns the encoded bytes.
func (b *Builder) Build() []byte {
	for len(b.starts) > 0 {
		b.close()
	}

	out := b.buf.Clone()
	pool.PutDocumentBuffer(b.buf)
	b.buf = nil

	return out
}
