package view

import (
	"strconv"
	"testing"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/internal/bsonbuild"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustList(t testing.TB, data []byte, opts ...Option) *List {
	t.Helper()
	l, err := NewList(data, opts...)
	require.NoError(t, err)

	return l
}

// mixedList encodes [10, "a", true].
func mixedList() []byte {
	return bsonbuild.NewDocument().
		AppendInt32("0", 10).
		AppendString("1", "a").
		AppendBoolean("2", true).
		Build()
}

func collect(t *testing.T, l *List) []any {
	t.Helper()
	var out []any
	for v, err := range l.All() {
		require.NoError(t, err)
		out = append(out, v.Interface())
	}

	return out
}

func TestList_MixedValues(t *testing.T) {
	l := mustList(t, mixedList())

	size, err := l.Size()
	require.NoError(t, err)
	require.Equal(t, 3, size)

	v, ok, err := l.Get(0)
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.Int32()
	require.Equal(t, int32(10), i)

	v, ok, err = l.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	s, _ := v.StringValue()
	require.Equal(t, "a", s)

	v, ok, err = l.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	b, _ := v.Boolean()
	require.True(t, b)

	idx, err := l.IndexOf(BooleanValue(true))
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	idx, err = l.IndexOf(StringOf("z"))
	require.NoError(t, err)
	require.Equal(t, -1, idx)
}

func TestList_GetOutOfRange(t *testing.T) {
	l := mustList(t, mixedList())

	_, ok, err := l.Get(3)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = l.Get(-1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestList_IndependentIterations(t *testing.T) {
	l := mustList(t, mixedList())

	first := collect(t, l)
	second := collect(t, l)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("passes differ (-first +second):\n%s", diff)
	}
	require.Equal(t, []any{int32(10), "a", true}, first)
}

func TestList_IteratorIsNotRestartable(t *testing.T) {
	l := mustList(t, mixedList())

	it := l.Iter()
	require.Equal(t, -1, it.Index())
	count := 0
	for it.Next() {
		require.Equal(t, count, it.Index())
		count++
	}
	require.Equal(t, 3, count)
	require.NoError(t, it.Err())
	require.False(t, it.Next(), "an exhausted iterator stays exhausted")
	require.Equal(t, bsontype.EndOfDocument, it.Value().Type())

	// interleaved passes do not share a cursor
	a, b := l.Iter(), l.Iter()
	require.True(t, a.Next())
	require.True(t, a.Next())
	require.True(t, b.Next())
	require.Equal(t, "1", a.Name())
	require.Equal(t, "0", b.Name())
}

func TestList_ContainsAndLastIndexOf(t *testing.T) {
	data := bsonbuild.NewDocument().
		AppendInt32("0", 1).
		AppendInt32("1", 2).
		AppendInt32("2", 1).
		AppendInt64("3", 1).
		Build()
	l := mustList(t, data)

	ok, err := l.Contains(Int32Value(2))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Contains(DoubleValue(2))
	require.NoError(t, err)
	require.False(t, ok, "equality is typed")

	first, err := l.IndexOf(Int32Value(1))
	require.NoError(t, err)
	require.Equal(t, 0, first)

	last, err := l.LastIndexOf(Int32Value(1))
	require.NoError(t, err)
	require.Equal(t, 2, last)

	last, err = l.LastIndexOf(Int64Value(1))
	require.NoError(t, err)
	require.Equal(t, 3, last)

	last, err = l.LastIndexOf(Int32Value(7))
	require.NoError(t, err)
	require.Equal(t, -1, last)
}

func TestList_ContainsAll(t *testing.T) {
	l := mustList(t, mixedList())

	ok, err := l.ContainsAll(BooleanValue(true), Int32Value(10), Int32Value(10))
	require.NoError(t, err)
	require.True(t, ok, "order and duplicates do not matter")

	ok, err = l.ContainsAll(StringOf("a"), StringOf("b"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = l.ContainsAll()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestList_StructuralEqualityOfNested(t *testing.T) {
	inner := bsonbuild.NewDocument().AppendString("k", "v").Build()
	data := bsonbuild.NewDocument().
		AppendDocument("0", bsonbuild.NewDocument().Build()).
		AppendDocument("1", inner).
		Build()
	l := mustList(t, data)

	probe := mustDocument(t, bsonbuild.NewDocument().AppendString("k", "v").Build())
	idx, err := l.IndexOf(probe.AsValue())
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	v, _, err := l.Get(1)
	require.NoError(t, err)
	nested, _ := v.Document()
	require.NotSame(t, probe, nested)

	again, _, err := l.Get(1)
	require.NoError(t, err)
	nestedAgain, _ := again.Document()
	require.Same(t, nested, nestedAgain)

	ok, err := l.ContainsAll(probe.AsValue(), mustDocument(t, bsonbuild.NewDocument().Build()).AsValue())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestList_Mutations(t *testing.T) {
	l := mustList(t, mixedList())
	sizeBefore, err := l.Size()
	require.NoError(t, err)

	mutations := map[string]func() error{
		"add":        func() error { return l.Add(Int32Value(1)) },
		"add all":    func() error { return l.AddAll(Int32Value(1), Int32Value(2)) },
		"insert":     func() error { return l.Insert(0, Int32Value(1)) },
		"set":        func() error { return l.Set(0, Int32Value(1)) },
		"remove":     func() error { return l.Remove(Int32Value(10)) },
		"remove at":  func() error { return l.RemoveAt(0) },
		"remove all": func() error { return l.RemoveAll(Int32Value(10)) },
		"retain all": func() error { return l.RetainAll(Int32Value(10)) },
		"clear":      l.Clear,
		"sub list": func() error {
			sub, err := l.SubList(0, 1)
			require.Nil(t, sub)
			return err
		},
		"to array": func() error {
			arr, err := l.ToArray()
			require.Nil(t, arr)
			return err
		},
		"list iterator": func() error {
			it, err := l.ListIterator(0)
			require.Nil(t, it)
			return err
		},
		"iterator remove": func() error { return l.Iter().Remove() },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate()
			require.ErrorIs(t, err, errs.ErrUnsupportedMutation)
			require.Contains(t, err.Error(), name)
		})
	}

	sizeAfter, err := l.Size()
	require.NoError(t, err)
	require.Equal(t, sizeBefore, sizeAfter)
	require.Equal(t, []any{int32(10), "a", true}, collect(t, l))
}

func TestList_CorruptElement(t *testing.T) {
	data := mixedList()
	// "1" header starts at 4 + 7; its length prefix follows the 3 byte header
	data[14] = 0x7f
	l := mustList(t, data)

	v, ok, err := l.Get(0)
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.Int32()
	require.Equal(t, int32(10), i)

	_, err = l.Size()
	require.ErrorIs(t, err, errs.ErrDecode)

	it := l.Iter()
	require.True(t, it.Next())
	require.False(t, it.Next())
	require.ErrorIs(t, it.Err(), errs.ErrLengthExceedsBuffer)
	require.False(t, it.Next())

	_, err = l.IndexOf(StringOf("a"))
	require.ErrorIs(t, err, errs.ErrDecode)
	_, err = l.LastIndexOf(Int32Value(10))
	require.ErrorIs(t, err, errs.ErrDecode)
	_, err = l.ContainsAll(Int32Value(10))
	require.ErrorIs(t, err, errs.ErrDecode)

	idx, err := l.IndexOf(Int32Value(10))
	require.NoError(t, err, "the match is found before the corrupt element")
	require.Equal(t, 0, idx)
}

func TestList_EmptyAndNestedArrays(t *testing.T) {
	data := bsonbuild.NewDocument().
		StartArray("0").
		AppendInt32("0", 1).
		EndDocument().
		StartArray("1").
		EndDocument().
		Build()
	l := mustList(t, data)

	v, _, err := l.Get(0)
	require.NoError(t, err)
	inner, ok := v.List()
	require.True(t, ok)
	size, err := inner.Size()
	require.NoError(t, err)
	require.Equal(t, 1, size)

	v, _, err = l.Get(1)
	require.NoError(t, err)
	empty, ok := v.List()
	require.True(t, ok)
	size, err = empty.Size()
	require.NoError(t, err)
	require.Zero(t, size)
	require.Equal(t, "[[1], []]", l.String())

	require.True(t, empty.Equal(mustList(t, bsonbuild.NewDocument().Build())))
	require.False(t, empty.Equal(inner))
	require.Same(t, l.Document(), l.Document())
	require.Equal(t, data, l.Raw())
}

func TestNewListAt(t *testing.T) {
	buf := append([]byte{0x01}, mixedList()...)
	l, err := NewListAt(buf, 1)
	require.NoError(t, err)

	size, err := l.Size()
	require.NoError(t, err)
	require.Equal(t, 3, size)

	_, err = NewList(buf)
	require.ErrorIs(t, err, errs.ErrDecode)
}

func BenchmarkList_Iterate(b *testing.B) {
	builder := bsonbuild.NewDocument()
	for i := range 1000 {
		builder.AppendInt64(strconv.Itoa(i), int64(i))
	}
	l := mustList(b, builder.Build())

	b.ResetTimer()
	for b.Loop() {
		for range l.All() {
		}
	}
}
