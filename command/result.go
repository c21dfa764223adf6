package command

import (
	"fmt"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/view"
)

// Result is a server command reply read through a lazy document view.
//
// Fields are decoded on demand; a reply with hundreds of fields where the caller
// only checks ok costs one short scan.
type Result struct {
	doc *view.Document
}

// NewResult wraps an already constructed reply view.
func NewResult(doc *view.Document) *Result {
	return &Result{doc: doc}
}

// ParseResult creates a Result over the encoded reply in data.
func ParseResult(data []byte, opts ...view.Option) (*Result, error) {
	doc, err := view.NewDocument(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse command reply: %w", err)
	}

	return NewResult(doc), nil
}

// Document returns the underlying reply view.
func (r *Result) Document() *view.Document {
	return r.doc
}

// OK reports whether the reply's ok field signals success. The server sends
// ok as a double, but integers and booleans are accepted as well.
// A missing ok field means failure.
func (r *Result) OK() (bool, error) {
	v, found, err := r.doc.Get("ok")
	if err != nil || !found {
		return false, err
	}

	if b, ok := v.Boolean(); ok {
		return b, nil
	}
	if f, ok := v.AsFloat64(); ok {
		return f == 1, nil
	}

	return false, nil
}

// ErrMsg returns the errmsg field, or an empty string when there is none.
func (r *Result) ErrMsg() (string, error) {
	v, found, err := r.doc.Get("errmsg")
	if err != nil || !found {
		return "", err
	}
	s, _ := v.StringValue()

	return s, nil
}

// Code returns the numeric error code. found is false when the reply carries
// no code field.
func (r *Result) Code() (code int32, found bool, err error) {
	v, found, err := r.doc.Get("code")
	if err != nil || !found {
		return 0, false, err
	}

	i, ok := v.AsInt64()
	if !ok {
		return 0, false, unexpected("code", bsontype.Int32, v.Type())
	}

	return int32(i), true, nil //nolint:gosec
}

// Err returns nil for a successful reply and a *CommandError otherwise.
// Decode errors met while reading the reply are returned unchanged.
func (r *Result) Err() error {
	ok, err := r.OK()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	msg, err := r.ErrMsg()
	if err != nil {
		return err
	}
	code, _, err := r.Code()
	if err != nil {
		return err
	}

	return &CommandError{Code: code, Message: msg}
}

func (r *Result) String() string {
	return r.doc.String()
}

// CommandError is a failed command reply.
type CommandError struct {
	Code    int32
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("command failed with code %d", e.Code)
	}

	return fmt.Sprintf("command failed with code %d: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is(err, errs.ErrCommandFailed) match.
func (e *CommandError) Unwrap() error {
	return errs.ErrCommandFailed
}

// getString returns a string field of doc. A present field of another type is
// an error wrapping errs.ErrUnexpectedType.
func getString(doc *view.Document, key string) (string, bool, error) {
	v, found, err := doc.Get(key)
	if err != nil || !found {
		return "", false, err
	}
	s, ok := v.StringValue()
	if !ok {
		return "", false, unexpected(key, bsontype.String, v.Type())
	}

	return s, true, nil
}

// getInt64 returns a numeric field of doc as int64, with zero for a missing field.
func getInt64(doc *view.Document, key string) (int64, error) {
	v, found, err := doc.Get(key)
	if err != nil || !found {
		return 0, err
	}
	i, ok := v.AsInt64()
	if !ok {
		return 0, unexpected(key, bsontype.Int64, v.Type())
	}

	return i, nil
}

func unexpected(key string, want, got bsontype.Type) error {
	return fmt.Errorf("field %q: expected %s, got %s: %w", key, want, got, errs.ErrUnexpectedType)
}
