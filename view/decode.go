package view

import (
	"fmt"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
)

// decodeFunc turns a validated payload into a Value. offset is the payload's
// position inside the owner's buffer.
type decodeFunc func(d *Document, t bsontype.Type, raw []byte, offset int) (Value, error)

// decoders dispatches on the element type tag. Unknown tags are rejected by the
// Reader before a payload is ever handed to this table.
var decoders [256]decodeFunc

func init() {
	for tag := range decoders {
		t := bsontype.Type(tag) //nolint:gosec
		switch {
		case t == bsontype.Boolean:
			decoders[tag] = decodeBoolean
		case t.IsContainer():
			decoders[tag] = decodeContainer
		case t.IsValid():
			decoders[tag] = decodeScalar
		}
	}
}

func decodeScalar(_ *Document, t bsontype.Type, raw []byte, _ int) (Value, error) {
	return Value{typ: t, raw: raw}, nil
}

func decodeBoolean(_ *Document, t bsontype.Type, raw []byte, offset int) (Value, error) {
	if raw[0] > 0x01 {
		return Value{}, fmt.Errorf("boolean byte 0x%02x at offset %d: %w", raw[0], offset, errs.ErrInvalidBoolean)
	}

	return Value{typ: t, raw: raw}, nil
}

// decodeContainer defers to the materialization cache instead of decoding the
// nested document, so a nested container nobody looks into is never scanned.
func decodeContainer(d *Document, t bsontype.Type, raw []byte, offset int) (Value, error) {
	if d.depth+1 > d.cfg.maxDepth {
		return Value{}, fmt.Errorf("%s at offset %d, depth %d: %w", t, offset, d.depth+1, errs.ErrMaxDepthExceeded)
	}

	return Value{typ: t, raw: raw, nested: d.materialize(t, raw, offset)}, nil
}

// readValue consumes and decodes the payload of an element of type t.
func (d *Document) readValue(r *Reader, t bsontype.Type) (Value, error) {
	offset := r.Offset()
	raw, err := r.ReadRaw(t)
	if err != nil {
		return Value{}, err
	}

	decode := decoders[t]
	if decode == nil {
		return Value{}, fmt.Errorf("tag 0x%02x: %w", byte(t), errs.ErrUnknownType)
	}

	return decode(d, t, raw, offset)
}
