package view

import (
	"sync"
	"sync/atomic"

	"github.com/arloliu/lazybson/bsontype"
)

// cache memoizes the nested views materialized by one owning view.
//
// Entries are keyed by the byte offset of the nested sub-document inside the
// owner's buffer, so the owner plus the offset identifies a sub-region. The
// buffer never changes, which means an entry never goes stale.
type cache struct {
	entries sync.Map // int -> any
	created atomic.Int64
}

// getOrCreate returns the value cached for offset, creating it on first use.
// When goroutines race on a first access, every caller receives the instance
// that won the insert; the others are discarded.
func (c *cache) getOrCreate(offset int, create func() any) any {
	if v, ok := c.entries.Load(offset); ok {
		return v
	}

	v, loaded := c.entries.LoadOrStore(offset, create())
	if !loaded {
		c.created.Add(1)
	}

	return v
}

// len returns the number of distinct nested views materialized so far.
func (c *cache) len() int {
	return int(c.created.Load())
}

// materialize returns the nested view for the container at offset within d.
func (d *Document) materialize(t bsontype.Type, raw []byte, offset int) any {
	return d.cache.getOrCreate(offset, func() any {
		build := func() any {
			child := newDocument(raw, d.cfg, d.depth+1)
			if t == bsontype.Array {
				return &List{doc: child}
			}

			return child
		}

		d.cfg.logger.Debug("materialized nested view",
			"type", t.String(), "offset", offset, "size", len(raw), "depth", d.depth+1)

		if d.cfg.factory != nil {
			return d.cfg.factory(t, raw, build)
		}

		return build()
	})
}
