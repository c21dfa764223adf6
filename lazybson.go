// Package lazybson provides lazy, read-only views over BSON documents received
// from a document database server.
//
// A reply buffer is wrapped without decoding anything. Fields are decoded when
// they are asked for, and embedded documents and arrays are materialized once and
// then reused, so reading the same nested field twice returns the same view.
//
// # Core Features
//
//   - Zero work at construction: only the length prefix and terminator are checked
//   - Keyed lookup (Get), ordered access (List.Get, IndexOf) and iteration (All, Iter)
//   - Identity-stable nested views, cached per owning view
//   - Pluggable factory for the nested representation
//   - Malformed bytes fail lazily, only when a scan reaches them
//   - Every mutating method fails with errs.ErrUnsupportedMutation
//
// # Basic Usage
//
// Reading a command reply:
//
//	import "github.com/arloliu/lazybson"
//
//	doc, err := lazybson.NewDocument(reply)
//	if err != nil {
//	    return err
//	}
//
//	v, ok, err := doc.Get("cursor")
//	if err != nil || !ok {
//	    return err
//	}
//	cursor, _ := v.Document()
//
//	batch, _, _ := cursor.Get("firstBatch")
//	list, _ := batch.List()
//	for v, err := range list.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the view and command
// packages. For fine-grained control, such as a custom Reader loop, use the view
// package directly.
package lazybson

import (
	"log/slog"

	"github.com/arloliu/lazybson/command"
	"github.com/arloliu/lazybson/view"
)

// NewDocument creates a lazy Document over the encoded document at the start of data.
//
// Parameters:
//   - data: a complete encoded document; it must not be modified afterwards
//   - opts: optional configuration (view.WithFactory, view.WithLogger, view.WithMaxDepth)
//
// Returns:
//   - *view.Document: the view
//   - error: option errors, or errs.ErrDecode family errors for a bad header
//
// Example:
//
//	doc, err := lazybson.NewDocument(reply, view.WithMaxDepth(32))
func NewDocument(data []byte, opts ...view.Option) (*view.Document, error) {
	return view.NewDocument(data, opts...)
}

// NewList creates a lazy List over the encoded array at the start of data.
//
// Element i is the field named by the decimal string of i. Size is computed by
// one full scan on first use and cached.
func NewList(data []byte, opts ...view.Option) (*view.List, error) {
	return view.NewList(data, opts...)
}

// NewDebugDocument creates a Document that reports materialization and decode
// failures to logger at debug level.
func NewDebugDocument(data []byte, logger *slog.Logger, opts ...view.Option) (*view.Document, error) {
	return view.NewDocument(data, append([]view.Option{view.WithLogger(logger)}, opts...)...)
}

// ParseCommandResult wraps an encoded server command reply.
//
// Example:
//
//	res, err := lazybson.ParseCommandResult(reply)
//	if err != nil {
//	    return err
//	}
//	if err := res.Err(); err != nil {
//	    return err
//	}
func ParseCommandResult(data []byte, opts ...view.Option) (*command.Result, error) {
	return command.ParseResult(data, opts...)
}
