package command

import (
	"fmt"
	"iter"
	"strings"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/view"
)

// Namespace is a database plus collection pair.
type Namespace struct {
	Database   string
	Collection string
}

func (n Namespace) String() string {
	return n.Database + "." + n.Collection
}

// MapReduceCounts are the document counters a mapReduce reply reports.
type MapReduceCounts struct {
	Input  int64
	Emit   int64
	Reduce int64
	Output int64
}

// MapReduceOutput reads the reply of a mapReduce command.
//
// A reply either carries the results inline in a "results" array, or names the
// collection they were written to in "result", which is a plain collection name
// or a {collection, db} document.
type MapReduceOutput struct {
	result     *Result
	inline     *view.List
	ns         Namespace
	counts     MapReduceCounts
	timeMillis int64
}

// NewMapReduceOutput reads a successful mapReduce reply. database is the database
// the command ran against and names the output collection's database unless the
// reply overrides it.
//
// Returns:
//   - *MapReduceOutput: the output reader
//   - error: the reply's *CommandError, decode errors, or errs.ErrUnexpectedType
//     and errs.ErrInvalidNamespace for a malformed reply
func NewMapReduceOutput(res *Result, database string) (*MapReduceOutput, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}

	out := &MapReduceOutput{result: res}
	doc := res.Document()

	results, found, err := doc.Get("results")
	if err != nil {
		return nil, err
	}
	if found {
		l, ok := results.List()
		if !ok {
			return nil, unexpected("results", bsontype.Array, results.Type())
		}
		out.inline = l
	} else {
		out.ns, err = outputNamespace(doc, database)
		if err != nil {
			return nil, err
		}
	}

	if out.counts, err = readCounts(doc); err != nil {
		return nil, err
	}
	if out.timeMillis, err = getInt64(doc, "timeMillis"); err != nil {
		return nil, err
	}

	return out, nil
}

func outputNamespace(doc *view.Document, database string) (Namespace, error) {
	v, found, err := doc.Get("result")
	if err != nil {
		return Namespace{}, err
	}
	if !found {
		return Namespace{}, fmt.Errorf("reply has neither results nor result: %w", errs.ErrInvalidNamespace)
	}

	ns := Namespace{Database: database}
	if s, ok := v.StringValue(); ok {
		ns.Collection = s
	} else if out, ok := v.Document(); ok {
		if ns.Collection, _, err = getString(out, "collection"); err != nil {
			return Namespace{}, err
		}
		db, found, err := getString(out, "db")
		if err != nil {
			return Namespace{}, err
		}
		if found {
			ns.Database = db
		}
	} else {
		return Namespace{}, unexpected("result", bsontype.String, v.Type())
	}

	if ns.Collection == "" || ns.Database == "" || strings.ContainsRune(ns.Database, '.') {
		return Namespace{}, fmt.Errorf("output namespace %q: %w", ns.String(), errs.ErrInvalidNamespace)
	}

	return ns, nil
}

func readCounts(doc *view.Document) (MapReduceCounts, error) {
	var c MapReduceCounts

	v, found, err := doc.Get("counts")
	if err != nil || !found {
		return c, err
	}
	counts, ok := v.Document()
	if !ok {
		return c, unexpected("counts", bsontype.EmbeddedDoc, v.Type())
	}

	fields := []struct {
		key string
		dst *int64
	}{
		{"input", &c.Input},
		{"emit", &c.Emit},
		{"reduce", &c.Reduce},
		{"output", &c.Output},
	}
	for _, f := range fields {
		if *f.dst, err = getInt64(counts, f.key); err != nil {
			return MapReduceCounts{}, fmt.Errorf("counts: %w", err)
		}
	}

	return c, nil
}

// Result returns the underlying command reply.
func (o *MapReduceOutput) Result() *Result {
	return o.result
}

// IsInline reports whether the results were returned in the reply itself.
func (o *MapReduceOutput) IsInline() bool {
	return o.inline != nil
}

// Namespace returns the collection holding the results. ok is false for inline output.
func (o *MapReduceOutput) Namespace() (Namespace, bool) {
	return o.ns, !o.IsInline()
}

// Counts returns the input, emit, reduce and output counters. Missing counters are zero.
func (o *MapReduceOutput) Counts() MapReduceCounts {
	return o.counts
}

// TimeMillis returns the server side execution time, or zero when not reported.
func (o *MapReduceOutput) TimeMillis() int64 {
	return o.timeMillis
}

// Results iterates over the inline result documents. It yields nothing for
// collection output, whose documents must be fetched with a query. A decode
// error, or an element that is not a document, is yielded as the final pair.
func (o *MapReduceOutput) Results() iter.Seq2[*view.Document, error] {
	return func(yield func(*view.Document, error) bool) {
		if o.inline == nil {
			return
		}

		it := o.inline.Iter()
		for it.Next() {
			doc, ok := it.Value().Document()
			if !ok {
				yield(nil, unexpected("results."+it.Name(), bsontype.EmbeddedDoc, it.Value().Type()))
				return
			}
			if !yield(doc, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}
