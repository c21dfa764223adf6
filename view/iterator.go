package view

import (
	"fmt"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
)

// Iterator is a single forward pass over the elements of a Document or List.
//
// An Iterator owns its own Reader and cannot be rewound; obtain a new one from
// Iter for another pass. Passes are independent of each other.
//
//	it := list.Iter()
//	for it.Next() {
//	    use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// Note: an Iterator is NOT thread-safe. The view it came from is.
type Iterator struct {
	owner   *Document
	r       *Reader
	started bool
	done    bool
	index   int
	name    string
	cur     Value
	err     error
}

// Iter starts a new pass over the document's elements.
func (d *Document) Iter() *Iterator {
	return &Iterator{owner: d, r: NewReader(d.raw), index: -1}
}

// Next advances to the next element. It returns false at the end of the
// document or on the first decode error, after which Err reports the error.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		if err := it.r.ReadStartDocument(); err != nil {
			return it.fail(err)
		}
	}

	t, err := it.r.ReadType()
	if err != nil {
		return it.fail(err)
	}
	if t == bsontype.EndOfDocument {
		it.done = true
		it.cur = Value{}
		if err := it.r.ReadEndDocument(); err != nil {
			return it.fail(err)
		}

		return false
	}

	name, err := it.r.ReadName()
	if err != nil {
		return it.fail(err)
	}
	v, err := it.owner.readValue(it.r, t)
	if err != nil {
		return it.fail(err)
	}

	it.index++
	it.name = name
	it.cur = v

	return true
}

func (it *Iterator) fail(err error) bool {
	it.done = true
	it.cur = Value{}
	it.err = it.owner.fail(err)

	return false
}

// Value returns the current element's value.
func (it *Iterator) Value() Value {
	return it.cur
}

// Name returns the current element's name.
func (it *Iterator) Name() string {
	return it.name
}

// Index returns the 0-based position of the current element, or -1 before the first Next.
func (it *Iterator) Index() int {
	return it.index
}

// Err returns the decode error that ended the pass, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Remove always fails: the underlying view is read only.
func (it *Iterator) Remove() error {
	return fmt.Errorf("iterator remove: %w", errs.ErrUnsupportedMutation)
}
