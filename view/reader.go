package view

import (
	"fmt"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/internal/binaryutil"
)

const minDocumentSize = 5 // int32 length + terminator

// Reader is a forward-only, single-pass cursor over an encoded document.
//
// A Reader cannot rewind. Every logical restart, such as a new Size call on a
// view, constructs a fresh Reader at the start of the buffer. Every read is
// bounded by the innermost open document, so a Reader never reads past the
// end of its buffer.
//
// Note: the Reader is NOT thread-safe.
type Reader struct {
	data   []byte
	pos    int
	scopes []scope
}

type scope struct {
	end   int  // index of the terminator byte
	ended bool // ReadType returned EndOfDocument for this scope
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, scopes: make([]scope, 0, 2)}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.pos
}

// Depth returns the number of open documents.
func (r *Reader) Depth() int {
	return len(r.scopes)
}

func (r *Reader) limit() int {
	if len(r.scopes) == 0 {
		return len(r.data)
	}

	return r.scopes[len(r.scopes)-1].end
}

// documentLength validates a length prefixed document starting at pos that must
// fit before limit, and returns its total length.
func documentLength(data []byte, pos, limit int) (int, error) {
	length, ok := binaryutil.ReadInt32(data[:limit], pos)
	if !ok {
		return 0, errs.ErrTruncated
	}
	if length < minDocumentSize {
		return 0, fmt.Errorf("document length %d: %w", length, errs.ErrInvalidLength)
	}
	if int(length) > limit-pos {
		return 0, fmt.Errorf("document length %d, remaining %d: %w", length, limit-pos, errs.ErrLengthExceedsBuffer)
	}
	if data[pos+int(length)-1] != 0x00 {
		return 0, errs.ErrMissingTerminator
	}

	return int(length), nil
}

// ReadStartDocument consumes a document length prefix and opens a nesting scope.
func (r *Reader) ReadStartDocument() error {
	limit := len(r.data)
	if len(r.scopes) > 0 {
		limit = r.limit()
	}

	length, err := documentLength(r.data, r.pos, limit)
	if err != nil {
		return err
	}

	r.scopes = append(r.scopes, scope{end: r.pos + length - 1})
	r.pos += 4

	return nil
}

// ReadType consumes the next type tag, or returns bsontype.EndOfDocument when the
// terminator of the innermost document is reached.
func (r *Reader) ReadType() (bsontype.Type, error) {
	if len(r.scopes) == 0 {
		return 0, fmt.Errorf("read type outside of a document: %w", errs.ErrDepthMismatch)
	}

	s := &r.scopes[len(r.scopes)-1]
	if s.ended {
		return 0, fmt.Errorf("read type after end of document: %w", errs.ErrUnexpectedEnd)
	}

	t := bsontype.Type(r.data[r.pos])
	if r.pos == s.end {
		s.ended = true
		r.pos++

		return bsontype.EndOfDocument, nil
	}
	if t == bsontype.EndOfDocument {
		return 0, fmt.Errorf("terminator at offset %d before declared end %d: %w", r.pos, s.end, errs.ErrUnexpectedEnd)
	}
	if !t.IsValid() {
		return 0, fmt.Errorf("tag 0x%02x at offset %d: %w", byte(t), r.pos, errs.ErrUnknownType)
	}
	r.pos++

	return t, nil
}

func (r *Reader) readCString() ([]byte, error) {
	limit := r.limit()
	end := binaryutil.IndexNUL(r.data[:limit], r.pos)
	if end < 0 {
		return nil, errs.ErrMissingTerminator
	}

	s := r.data[r.pos:end]
	r.pos = end + 1

	return s, nil
}

// ReadName consumes a NUL-terminated element name.
func (r *Reader) ReadName() (string, error) {
	b, err := r.readNameBytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *Reader) readNameBytes() ([]byte, error) {
	b, err := r.readCString()
	if err != nil {
		return nil, fmt.Errorf("element name at offset %d: %w", r.pos, err)
	}

	return b, nil
}

// ReadEndDocument closes the innermost document. It fails unless ReadType has
// just returned EndOfDocument for that document.
func (r *Reader) ReadEndDocument() error {
	if len(r.scopes) == 0 {
		return fmt.Errorf("end of document without start: %w", errs.ErrDepthMismatch)
	}
	if !r.scopes[len(r.scopes)-1].ended {
		return fmt.Errorf("end of document at offset %d before terminator: %w", r.pos, errs.ErrDepthMismatch)
	}
	r.scopes = r.scopes[:len(r.scopes)-1]

	return nil
}

// ReadRaw consumes the payload of an element of type t and returns it without
// decoding. The returned slice aliases the Reader's buffer.
func (r *Reader) ReadRaw(t bsontype.Type) ([]byte, error) {
	n, err := r.payloadLength(t)
	if err != nil {
		return nil, fmt.Errorf("%s payload at offset %d: %w", t, r.pos, err)
	}

	raw := r.data[r.pos : r.pos+n]
	r.pos += n

	return raw, nil
}

// SkipValue consumes the payload of an element of type t.
func (r *Reader) SkipValue(t bsontype.Type) error {
	_, err := r.ReadRaw(t)
	return err
}

// payloadLength validates the payload of type t at the current position and
// returns its size in bytes.
func (r *Reader) payloadLength(t bsontype.Type) (int, error) {
	limit := r.limit()
	remaining := limit - r.pos

	if size, ok := t.FixedSize(); ok {
		if size > remaining {
			return 0, errs.ErrTruncated
		}

		return size, nil
	}

	switch t {
	case bsontype.String, bsontype.JavaScript, bsontype.Symbol:
		return stringLength(r.data[:limit], r.pos)
	case bsontype.Binary:
		length, ok := binaryutil.ReadInt32(r.data[:limit], r.pos)
		if !ok {
			return 0, errs.ErrTruncated
		}
		if length < 0 {
			return 0, errs.ErrInvalidLength
		}
		if int(length) > remaining-5 {
			return 0, errs.ErrLengthExceedsBuffer
		}

		return 5 + int(length), nil
	case bsontype.EmbeddedDoc, bsontype.Array:
		return documentLength(r.data, r.pos, limit)
	case bsontype.Regex:
		pattern := binaryutil.IndexNUL(r.data[:limit], r.pos)
		if pattern < 0 {
			return 0, errs.ErrMissingTerminator
		}
		opts := binaryutil.IndexNUL(r.data[:limit], pattern+1)
		if opts < 0 {
			return 0, errs.ErrMissingTerminator
		}

		return opts + 1 - r.pos, nil
	case bsontype.DBPointer:
		n, err := stringLength(r.data[:limit], r.pos)
		if err != nil {
			return 0, err
		}
		if n+12 > remaining {
			return 0, errs.ErrTruncated
		}

		return n + 12, nil
	case bsontype.CodeWithScope:
		return codeWithScopeLength(r.data[:limit], r.pos)
	default:
		return 0, errs.ErrUnknownType
	}
}

// stringLength validates an int32 length prefixed, NUL terminated string at pos.
func stringLength(data []byte, pos int) (int, error) {
	length, ok := binaryutil.ReadInt32(data, pos)
	if !ok {
		return 0, errs.ErrTruncated
	}
	if length < 1 {
		return 0, fmt.Errorf("string length %d: %w", length, errs.ErrInvalidLength)
	}
	if int(length) > len(data)-pos-4 {
		return 0, fmt.Errorf("string length %d, remaining %d: %w", length, len(data)-pos-4, errs.ErrLengthExceedsBuffer)
	}
	if data[pos+4+int(length)-1] != 0x00 {
		return 0, errs.ErrMissingTerminator
	}

	return 4 + int(length), nil
}

func codeWithScopeLength(data []byte, pos int) (int, error) {
	total, ok := binaryutil.ReadInt32(data, pos)
	if !ok {
		return 0, errs.ErrTruncated
	}
	if total < 4+5+minDocumentSize {
		return 0, fmt.Errorf("code with scope length %d: %w", total, errs.ErrInvalidLength)
	}
	if int(total) > len(data)-pos {
		return 0, errs.ErrLengthExceedsBuffer
	}

	end := pos + int(total)
	n, err := stringLength(data[:end], pos+4)
	if err != nil {
		return 0, err
	}
	scopeLen, err := documentLength(data, pos+4+n, end)
	if err != nil {
		return 0, err
	}
	if 4+n+scopeLen != int(total) {
		return 0, fmt.Errorf("code with scope length %d does not match contents: %w", total, errs.ErrInvalidLength)
	}

	return int(total), nil
}
