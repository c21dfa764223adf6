// Package view provides lazy, read-only views over encoded BSON documents and arrays.
//
// A view wraps a byte buffer that has already been fully received from the
// server and decodes it only as far as callers ask. Nothing is allocated or
// decoded when a view is created.
//
// # Core Types
//
//   - Reader: forward-only, single-pass cursor over an encoded document
//   - Document: keyed view; Get scans from the start until the name matches
//   - List: ordered view built on a Document, indices become decimal keys
//   - Iterator: one independent forward pass per call to Iter
//   - Value: a decoded element; scalars by value, containers by reference
//
// # Lazy Materialization
//
// Embedded documents and arrays are turned into nested views only when a scan
// reaches them, and each owning view caches what it created by the byte offset
// of the nested region:
//
//	doc, _ := view.NewDocument(reply)
//	a, _, _ := doc.Get("cursor")
//	b, _, _ := doc.Get("cursor")
//	da, _ := a.Document()
//	db, _ := b.Document()
//	// da == db
//
// A custom Factory (WithFactory) can replace the nested representation.
//
// # Errors
//
// Malformed bytes surface as errs.ErrDecode or errs.ErrStructural family errors,
// and only once a scan reaches the corrupt element. A missing field is not an
// error: lookups report it through their ok result. Every mutating method fails
// with errs.ErrUnsupportedMutation.
//
// # Thread Safety
//
// Documents and Lists are safe for concurrent use. Readers and Iterators are not.
// The buffer passed to NewDocument or NewList must not be modified afterwards;
// cached sizes and nested views rely on it.
package view
