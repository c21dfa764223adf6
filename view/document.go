package view

import (
	"bytes"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
)

// Document is a lazy, read-only keyed view over an encoded BSON document.
//
// Nothing is decoded up front. Every lookup opens a fresh Reader and scans from
// the first element, decoding only type tags and names until it finds what was
// asked for, which makes Get O(n) per call and construction free.
//
// Embedded documents and arrays are materialized on first access and cached, so
// reading the same nested field twice returns the same *Document or *List.
//
// The caller must not modify the buffer after handing it to NewDocument. All
// methods are safe for concurrent use.
type Document struct {
	raw   []byte
	cfg   *config
	depth int
	cache cache
	count atomic.Int64 // element count + 1, zero until the first full scan
}

// Element is a named value yielded by Document.All.
type Element struct {
	Name  string
	Value Value
}

// NewDocument creates a Document over the encoded document at the start of data.
//
// Only the length prefix and terminator are validated here; element level
// errors surface when a scan reaches the corrupt element.
//
// Returns:
//   - *Document: the view
//   - error: option errors, or errs.ErrDecode family errors for a bad header
func NewDocument(data []byte, opts ...Option) (*Document, error) {
	return NewDocumentAt(data, 0, opts...)
}

// NewDocumentAt creates a Document over the encoded document starting at offset.
// Bytes after the end of the document are ignored.
func NewDocumentAt(data []byte, offset int, opts ...Option) (*Document, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("offset %d outside buffer of %d bytes: %w", offset, len(data), errs.ErrTruncated)
	}

	length, err := documentLength(data, offset, len(data))
	if err != nil {
		return nil, err
	}
	end := offset + length

	return newDocument(data[offset:end:end], cfg, 0), nil
}

func newDocument(raw []byte, cfg *config, depth int) *Document {
	return &Document{raw: raw, cfg: cfg, depth: depth}
}

// scan runs one forward pass, calling fn for every element after its name was
// read. fn must consume the element's payload and returns false to stop early.
func (d *Document) scan(fn func(r *Reader, name []byte, t bsontype.Type) (bool, error)) error {
	r := NewReader(d.raw)
	if err := r.ReadStartDocument(); err != nil {
		return d.fail(err)
	}

	for {
		t, err := r.ReadType()
		if err != nil {
			return d.fail(err)
		}
		if t == bsontype.EndOfDocument {
			return d.fail(r.ReadEndDocument())
		}

		name, err := r.readNameBytes()
		if err != nil {
			return d.fail(err)
		}

		more, err := fn(r, name, t)
		if err != nil {
			return d.fail(err)
		}
		if !more {
			return nil
		}
	}
}

func (d *Document) fail(err error) error {
	if err != nil {
		d.cfg.logger.Debug("bson scan failed", "error", err, "depth", d.depth, "size", len(d.raw))
	}

	return err
}

// Keys returns the field names in encoded order.
func (d *Document) Keys() ([]string, error) {
	keys := make([]string, 0, 8)
	err := d.scan(func(r *Reader, name []byte, t bsontype.Type) (bool, error) {
		keys = append(keys, string(name))
		return true, r.SkipValue(t)
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// KeySeq returns an iterator over the field names in encoded order. A decode error
// is yielded as the final pair.
func (d *Document) KeySeq() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := d.scan(func(r *Reader, name []byte, t bsontype.Type) (bool, error) {
			if !yield(string(name), nil) {
				stopped = true
				return false, nil
			}

			return true, r.SkipValue(t)
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// Get returns the value of the first field named key.
//
// Returns:
//   - Value: the decoded value (scalar or materialized container)
//   - bool: false when no field has that name; a present null is (NullValue, true)
//   - error: decode errors met before the field was found
func (d *Document) Get(key string) (Value, bool, error) {
	var (
		found Value
		ok    bool
	)
	err := d.scan(func(r *Reader, name []byte, t bsontype.Type) (bool, error) {
		if string(name) != key {
			return true, r.SkipValue(t)
		}

		v, err := d.readValue(r, t)
		if err != nil {
			return false, err
		}
		found, ok = v, true

		return false, nil
	})
	if err != nil {
		return Value{}, false, err
	}

	return found, ok, nil
}

// ContainsKey reports whether a field named key exists.
func (d *Document) ContainsKey(key string) (bool, error) {
	_, ok, err := d.Get(key)
	return ok, err
}

// Lookup descends through embedded documents and arrays following path, where
// array elements are addressed by their decimal index.
func (d *Document) Lookup(path ...string) (Value, bool, error) {
	if len(path) == 0 {
		return Value{}, false, nil
	}

	cur := d
	for i, key := range path {
		v, ok, err := cur.Get(key)
		if err != nil || !ok || i == len(path)-1 {
			return v, ok, err
		}

		switch nested := v.nested.(type) {
		case *Document:
			cur = nested
		case *List:
			cur = nested.doc
		default:
			return Value{}, false, nil
		}
	}

	return Value{}, false, nil
}

// Len returns the number of top-level elements. The count is computed by one full
// scan and cached, relying on the buffer never changing.
func (d *Document) Len() (int, error) {
	if c := d.count.Load(); c > 0 {
		return int(c - 1), nil
	}

	n := 0
	err := d.scan(func(r *Reader, _ []byte, t bsontype.Type) (bool, error) {
		n++
		return true, r.SkipValue(t)
	})
	if err != nil {
		return 0, err
	}
	d.count.Store(int64(n) + 1)

	return n, nil
}

// All returns an iterator over the elements in encoded order. A decode error is
// yielded as the final pair. Each call starts an independent pass.
func (d *Document) All() iter.Seq2[Element, error] {
	return func(yield func(Element, error) bool) {
		it := d.Iter()
		for it.Next() {
			if !yield(Element{Name: it.Name(), Value: it.Value()}, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Element{}, err)
		}
	}
}

// Raw returns the encoded document. It must not be modified.
func (d *Document) Raw() []byte {
	return d.raw
}

// Depth returns the nesting depth of this view; the top-level document is 0.
func (d *Document) Depth() int {
	return d.depth
}

// Equal reports whether both views hold identical encoded bytes.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}

	return bytes.Equal(d.raw, other.raw)
}

// AsValue wraps the document as an EmbeddedDoc Value, usable as a search argument.
func (d *Document) AsValue() Value {
	return Value{typ: bsontype.EmbeddedDoc, raw: d.raw, nested: d}
}

func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for e, err := range d.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if err != nil {
			sb.WriteString("<error: " + err.Error() + ">")
			break
		}
		sb.WriteString(strconv.Quote(e.Name))
		sb.WriteString(": ")
		sb.WriteString(e.Value.String())
	}
	sb.WriteByte('}')

	return sb.String()
}

// Put always fails: the view is backed by immutable wire bytes.
func (d *Document) Put(key string, _ Value) error {
	return fmt.Errorf("put %q: %w", key, errs.ErrUnsupportedMutation)
}

// PutAll always fails: the view is backed by immutable wire bytes.
func (d *Document) PutAll(_ map[string]Value) error {
	return fmt.Errorf("put all: %w", errs.ErrUnsupportedMutation)
}

// Remove always fails: the view is backed by immutable wire bytes.
func (d *Document) Remove(key string) error {
	return fmt.Errorf("remove %q: %w", key, errs.ErrUnsupportedMutation)
}

// Clear always fails: the view is backed by immutable wire bytes.
func (d *Document) Clear() error {
	return fmt.Errorf("clear: %w", errs.ErrUnsupportedMutation)
}
