// Package errs defines the errors returned by lazybson.
//
// Every decode failure wraps ErrDecode, every structural failure wraps ErrStructural,
// so callers can classify an error with errors.Is without matching the specific cause:
//
//	if errors.Is(err, errs.ErrDecode) {
//	    // corrupt or truncated bytes
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the root of all byte level decode failures.
	ErrDecode = errors.New("bson decode error")
	// ErrStructural is the root of all nesting and document framing failures.
	ErrStructural = errors.New("bson structural decode error")
	// ErrUnsupportedMutation is returned by every write operation on a read-only view.
	ErrUnsupportedMutation = errors.New("unsupported mutation: view is read only")
)

var (
	ErrTruncated           = fmt.Errorf("%w: truncated buffer", ErrDecode)
	ErrLengthExceedsBuffer = fmt.Errorf("%w: length prefix exceeds remaining bytes", ErrDecode)
	ErrInvalidLength       = fmt.Errorf("%w: invalid length prefix", ErrDecode)
	ErrMissingTerminator   = fmt.Errorf("%w: missing terminator byte", ErrDecode)
	ErrInvalidBoolean      = fmt.Errorf("%w: invalid boolean byte", ErrDecode)
	ErrUnknownType         = fmt.Errorf("%w: unknown element type", ErrDecode)
)

var (
	ErrDepthMismatch    = fmt.Errorf("%w: nesting depth mismatch", ErrStructural)
	ErrUnexpectedEnd    = fmt.Errorf("%w: unexpected end of document", ErrStructural)
	ErrMaxDepthExceeded = fmt.Errorf("%w: maximum nesting depth exceeded", ErrStructural)
)

var (
	ErrInvalidMaxDepth  = errors.New("max depth must be positive")
	ErrNilFactory       = errors.New("factory must not be nil")
	ErrCommandFailed    = errors.New("command failed")
	ErrInvalidNamespace = errors.New("invalid namespace")
	ErrUnexpectedType   = errors.New("unexpected field type")
)
