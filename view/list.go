package view

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/internal/hash"
)

// List is a lazy, read-only ordered view over an encoded BSON array.
//
// A List wraps a Document and addresses elements by the decimal string of their
// index. Keys are expected to be "0", "1", ... in order; gaps or non-numeric keys
// are an upstream encoder defect and are not validated.
//
// Equality used by Contains, IndexOf, LastIndexOf and ContainsAll is structural
// (see Value.Equal). All methods are safe for concurrent use.
type List struct {
	doc *Document
}

// NewList creates a List over the encoded array at the start of data.
func NewList(data []byte, opts ...Option) (*List, error) {
	return NewListAt(data, 0, opts...)
}

// NewListAt creates a List over the encoded array starting at offset.
func NewListAt(data []byte, offset int, opts ...Option) (*List, error) {
	doc, err := NewDocumentAt(data, offset, opts...)
	if err != nil {
		return nil, err
	}

	return &List{doc: doc}, nil
}

// Document returns the keyed view the list is built on.
func (l *List) Document() *Document {
	return l.doc
}

// Size returns the number of elements. It is computed by one full scan and cached.
func (l *List) Size() (int, error) {
	return l.doc.Len()
}

// Get returns the element at index. ok is false when index is out of range.
func (l *List) Get(index int) (Value, bool, error) {
	if index < 0 {
		return Value{}, false, nil
	}

	return l.doc.Get(strconv.Itoa(index))
}

// Contains reports whether some element equals v.
func (l *List) Contains(v Value) (bool, error) {
	i, err := l.IndexOf(v)
	return i > -1, err
}

// IndexOf returns the position of the first element equal to v, or -1.
func (l *List) IndexOf(v Value) (int, error) {
	it := l.Iter()
	for it.Next() {
		if it.Value().Equal(v) {
			return it.Index(), nil
		}
	}

	return -1, it.Err()
}

// LastIndexOf returns the position of the last element equal to v, or -1.
func (l *List) LastIndexOf(v Value) (int, error) {
	last := -1
	it := l.Iter()
	for it.Next() {
		if it.Value().Equal(v) {
			last = it.Index()
		}
	}
	if err := it.Err(); err != nil {
		return -1, err
	}

	return last, nil
}

// Iter starts a new, independent pass over the elements.
func (l *List) Iter() *Iterator {
	return l.doc.Iter()
}

// All returns an iterator over the element values. A decode error is yielded as
// the final pair. Each call starts an independent pass.
func (l *List) All() iter.Seq2[Value, error] {
	return func(yield func(Value, error) bool) {
		it := l.Iter()
		for it.Next() {
			if !yield(it.Value(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Value{}, err)
		}
	}
}

// ContainsAll reports whether every one of values equals some element. The
// list's own elements are collected once into a set; order and duplicates do
// not matter.
func (l *List) ContainsAll(values ...Value) (bool, error) {
	set := make(valueSet)
	for v, err := range l.All() {
		if err != nil {
			return false, err
		}
		set.add(v)
	}

	for _, v := range values {
		if !set.contains(v) {
			return false, nil
		}
	}

	return true, nil
}

// Raw returns the encoded array. It must not be modified.
func (l *List) Raw() []byte {
	return l.doc.raw
}

// Equal reports whether both lists hold identical encoded bytes.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}

	return l.doc.Equal(other.doc)
}

// AsValue wraps the list as an Array Value, usable as a search argument.
func (l *List) AsValue() Value {
	return Value{typ: bsontype.Array, raw: l.doc.raw, nested: l}
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for v, err := range l.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if err != nil {
			sb.WriteString("<error: " + err.Error() + ">")
			break
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')

	return sb.String()
}

func readOnly(op string) error {
	return fmt.Errorf("%s: %w", op, errs.ErrUnsupportedMutation)
}

// Add always fails: the list is read only.
func (l *List) Add(Value) error { return readOnly("add") }

// AddAll always fails: the list is read only.
func (l *List) AddAll(...Value) error { return readOnly("add all") }

// Insert always fails: the list is read only.
func (l *List) Insert(int, Value) error { return readOnly("insert") }

// Set always fails: the list is read only.
func (l *List) Set(int, Value) error { return readOnly("set") }

// Remove always fails: the list is read only.
func (l *List) Remove(Value) error { return readOnly("remove") }

// RemoveAt always fails: the list is read only.
func (l *List) RemoveAt(int) error { return readOnly("remove at") }

// RemoveAll always fails: the list is read only.
func (l *List) RemoveAll(...Value) error { return readOnly("remove all") }

// RetainAll always fails: the list is read only.
func (l *List) RetainAll(...Value) error { return readOnly("retain all") }

// Clear always fails: the list is read only.
func (l *List) Clear() error { return readOnly("clear") }

// SubList is not supported on lazy lists.
func (l *List) SubList(int, int) (*List, error) { return nil, readOnly("sub list") }

// ToArray is not supported on lazy lists; range over All instead.
func (l *List) ToArray() ([]Value, error) { return nil, readOnly("to array") }

// ListIterator is not supported on lazy lists; use Iter.
func (l *List) ListIterator(int) (*Iterator, error) { return nil, readOnly("list iterator") }

// valueSet buckets values by the xxHash64 of their tag and payload.
type valueSet map[uint64][]Value

func (s valueSet) add(v Value) {
	h := hash.Element(byte(v.typ), v.raw)
	for _, e := range s[h] {
		if e.Equal(v) {
			return
		}
	}
	s[h] = append(s[h], v)
}

func (s valueSet) contains(v Value) bool {
	for _, e := range s[hash.Element(byte(v.typ), v.raw)] {
		if e.Equal(v) {
			return true
		}
	}

	return false
}
