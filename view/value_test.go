package view

import (
	"math"
	"testing"
	"time"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/internal/bsonbuild"
	"github.com/stretchr/testify/require"
)

var testObjectID = ObjectID{0x65, 0x2f, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

// everyType encodes one element of each supported type, named after the type.
func everyType() []byte {
	scope := bsonbuild.NewDocument().AppendInt32("x", 1).Build()

	return bsonbuild.NewDocument().
		AppendDouble("double", 1.5).
		AppendString("string", "héllo").
		StartDocument("document").
		AppendInt32("x", 1).
		EndDocument().
		StartArray("array").
		AppendString("0", "a").
		EndDocument().
		AppendBinary("binary", 0x04, []byte{0xde, 0xad}).
		AppendUndefined("undefined").
		AppendObjectID("objectId", testObjectID).
		AppendBoolean("boolean", true).
		AppendDateTime("datetime", 1_700_000_000_123).
		AppendNull("null").
		AppendRegex("regex", "^a.*", "im").
		AppendDBPointer("dbPointer", "db.coll", testObjectID).
		AppendJavaScript("javascript", "function() {}").
		AppendSymbol("symbol", "sym").
		AppendCodeWithScope("codeWithScope", "return x", scope).
		AppendInt32("int32", -42).
		AppendTimestamp("timestamp", 1_700_000_000, 7).
		AppendInt64("int64", math.MaxInt64).
		AppendDecimal128("decimal", 0x3040000000000000, 12345).
		AppendMinKey("minKey").
		AppendMaxKey("maxKey").
		Build()
}

func TestValue_EveryType(t *testing.T) {
	doc := mustDocument(t, everyType())

	get := func(key string) Value {
		t.Helper()
		v, ok, err := doc.Get(key)
		require.NoError(t, err)
		require.True(t, ok, key)

		return v
	}

	f, ok := get("double").Double()
	require.True(t, ok)
	require.InDelta(t, 1.5, f, 0)

	s, ok := get("string").StringValue()
	require.True(t, ok)
	require.Equal(t, "héllo", s)

	d, ok := get("document").Document()
	require.True(t, ok)
	require.Equal(t, 1, d.Depth())

	l, ok := get("array").List()
	require.True(t, ok)
	size, err := l.Size()
	require.NoError(t, err)
	require.Equal(t, 1, size)

	bin, ok := get("binary").Binary()
	require.True(t, ok)
	require.Equal(t, Binary{Subtype: 0x04, Data: []byte{0xde, 0xad}}, bin)

	require.Equal(t, Undefined{}, get("undefined").Interface())

	id, ok := get("objectId").ObjectID()
	require.True(t, ok)
	require.Equal(t, testObjectID, id)

	b, ok := get("boolean").Boolean()
	require.True(t, ok)
	require.True(t, b)

	dt, ok := get("datetime").DateTime()
	require.True(t, ok)
	require.Equal(t, time.UnixMilli(1_700_000_000_123).UTC(), dt)
	require.Equal(t, time.UTC, dt.Location())

	null := get("null")
	require.True(t, null.IsNull())
	require.Nil(t, null.Interface())

	re, ok := get("regex").Regex()
	require.True(t, ok)
	require.Equal(t, Regex{Pattern: "^a.*", Options: "im"}, re)

	ptr, ok := get("dbPointer").DBPointer()
	require.True(t, ok)
	require.Equal(t, DBPointer{Namespace: "db.coll", ID: testObjectID}, ptr)

	js, ok := get("javascript").JavaScript()
	require.True(t, ok)
	require.Equal(t, "function() {}", js)

	sym, ok := get("symbol").Symbol()
	require.True(t, ok)
	require.Equal(t, "sym", sym)

	cws, ok := get("codeWithScope").CodeWithScope()
	require.True(t, ok)
	require.Equal(t, "return x", cws.Code)
	scope := mustDocument(t, cws.Scope)
	x, _, err := scope.Get("x")
	require.NoError(t, err)
	require.Equal(t, int32(1), x.Interface())

	i32, ok := get("int32").Int32()
	require.True(t, ok)
	require.Equal(t, int32(-42), i32)

	ts, ok := get("timestamp").Timestamp()
	require.True(t, ok)
	require.Equal(t, Timestamp{T: 1_700_000_000, I: 7}, ts)

	i64, ok := get("int64").Int64()
	require.True(t, ok)
	require.Equal(t, int64(math.MaxInt64), i64)

	dec, ok := get("decimal").Decimal128()
	require.True(t, ok)
	require.Equal(t, "12345", dec.String())

	require.Equal(t, MinKey{}, get("minKey").Interface())
	require.Equal(t, MaxKey{}, get("maxKey").Interface())

	n, err := doc.Len()
	require.NoError(t, err)
	require.Equal(t, 21, n)
}

func TestValue_WrongTypeAccessors(t *testing.T) {
	v := Int32Value(7)

	_, ok := v.Double()
	require.False(t, ok)
	_, ok = v.StringValue()
	require.False(t, ok)
	_, ok = v.Int64()
	require.False(t, ok)
	_, ok = v.Document()
	require.False(t, ok)
	_, ok = v.List()
	require.False(t, ok)
	_, ok = v.Boolean()
	require.False(t, ok)
	_, ok = v.DateTime()
	require.False(t, ok)
	_, ok = v.Decimal128()
	require.False(t, ok)
	require.False(t, v.IsNull())

	var zero Value
	require.Equal(t, bsontype.EndOfDocument, zero.Type())
	require.Nil(t, zero.Interface())
	require.Equal(t, "<none>", zero.String())
}

func TestValue_Boundaries(t *testing.T) {
	data := bsonbuild.NewDocument().
		AppendInt32("minInt32", math.MinInt32).
		AppendInt32("maxInt32", math.MaxInt32).
		AppendInt64("minInt64", math.MinInt64).
		AppendInt64("zero", 0).
		AppendString("empty", "").
		AppendDocument("emptyDoc", bsonbuild.NewDocument().Build()).
		AppendArray("emptyArray", bsonbuild.NewDocument().Build()).
		AppendBinary("emptyBinary", 0x00, nil).
		Build()
	doc := mustDocument(t, data)

	expected := map[string]any{
		"minInt32": int32(math.MinInt32),
		"maxInt32": int32(math.MaxInt32),
		"minInt64": int64(math.MinInt64),
		"zero":     int64(0),
		"empty":    "",
	}
	for key, want := range expected {
		v, ok, err := doc.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, v.Interface(), key)
	}

	v, _, err := doc.Get("emptyDoc")
	require.NoError(t, err)
	emptyDoc, ok := v.Document()
	require.True(t, ok)
	keys, err := emptyDoc.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)

	v, _, err = doc.Get("emptyArray")
	require.NoError(t, err)
	emptyList, ok := v.List()
	require.True(t, ok)
	size, err := emptyList.Size()
	require.NoError(t, err)
	require.Zero(t, size)

	v, _, err = doc.Get("emptyBinary")
	require.NoError(t, err)
	bin, ok := v.Binary()
	require.True(t, ok)
	require.Empty(t, bin.Data)
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same int32", Int32Value(5), Int32Value(5), true},
		{"different int32", Int32Value(5), Int32Value(6), false},
		{"int32 vs int64", Int32Value(5), Int64Value(5), false},
		{"int32 vs double", Int32Value(5), DoubleValue(5), false},
		{"strings", StringOf("a"), StringOf("a"), true},
		{"string vs symbol payload", StringOf("a"), Value{typ: bsontype.Symbol, raw: StringOf("a").raw}, false},
		{"nulls", NullValue(), NullValue(), true},
		{"booleans", BooleanValue(true), BooleanValue(false), false},
		{"zero and negative zero", DoubleValue(0), DoubleValue(math.Copysign(0, -1)), false},
		{"NaN", DoubleValue(math.NaN()), DoubleValue(math.NaN()), true},
		{"object ids", ObjectIDValue(testObjectID), ObjectIDValue(testObjectID), true},
		{"binary subtype", BinaryValue(0x00, []byte{1}), BinaryValue(0x01, []byte{1}), false},
		{
			"date times",
			DateTimeValue(time.UnixMilli(10)),
			DateTimeValue(time.UnixMilli(10).Add(500 * time.Microsecond)),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.equal, tt.a.Equal(tt.b))
			require.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestValue_EqualDecodedAndConstructed(t *testing.T) {
	doc := mustDocument(t, everyType())

	pairs := map[string]Value{
		"string":   StringOf("héllo"),
		"int32":    Int32Value(-42),
		"int64":    Int64Value(math.MaxInt64),
		"double":   DoubleValue(1.5),
		"boolean":  BooleanValue(true),
		"null":     NullValue(),
		"objectId": ObjectIDValue(testObjectID),
		"binary":   BinaryValue(0x04, []byte{0xde, 0xad}),
		"datetime": DateTimeValue(time.UnixMilli(1_700_000_000_123)),
	}
	for key, want := range pairs {
		v, _, err := doc.Get(key)
		require.NoError(t, err)
		require.True(t, v.Equal(want), key)
	}
}

func TestValue_NumericConversions(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		i    int64
		iOK  bool
		f    float64
		fOK  bool
	}{
		{"int32", Int32Value(-3), -3, true, -3, true},
		{"int64", Int64Value(1 << 40), 1 << 40, true, 1 << 40, true},
		{"integral double", DoubleValue(8), 8, true, 8, true},
		{"fractional double", DoubleValue(2.5), 0, false, 2.5, true},
		{"huge double", DoubleValue(1e300), 0, false, 1e300, true},
		{"string", StringOf("1"), 0, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := tt.v.AsInt64()
			require.Equal(t, tt.iOK, ok)
			require.Equal(t, tt.i, i)

			f, ok := tt.v.AsFloat64()
			require.Equal(t, tt.fOK, ok)
			require.InDelta(t, tt.f, f, 0)
		})
	}
}

func TestValue_String(t *testing.T) {
	doc := mustDocument(t, everyType())

	expected := map[string]string{
		"double":     "1.5",
		"string":     `"héllo"`,
		"document":   `{"x": 1}`,
		"array":      `["a"]`,
		"binary":     `Binary(4, "3q0=")`,
		"undefined":  "undefined",
		"objectId":   `ObjectID("652f00000102030405060708")`,
		"boolean":    "true",
		"datetime":   `DateTime("2023-11-14T22:13:20.123Z")`,
		"null":       "null",
		"regex":      "/^a.*/im",
		"javascript": `JavaScript("function() {}")`,
		"symbol":     `Symbol("sym")`,
		"int32":      "-42",
		"timestamp":  "Timestamp(1700000000, 7)",
		"int64":      "9223372036854775807",
		"decimal":    `NumberDecimal("12345")`,
		"minKey":     "MinKey",
		"maxKey":     "MaxKey",
	}
	for key, want := range expected {
		v, _, err := doc.Get(key)
		require.NoError(t, err)
		require.Equal(t, want, v.String(), key)
	}
}
