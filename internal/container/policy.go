// SPDX-License-Identifier: MPL-2.0

package container

// Policy selects strict or lenient parsing per call class. In strict mode a
// single malformed record aborts the whole parse; in lenient mode it is
// skipped and the rest of the output is kept.
type Policy struct {
	Query   bool
	List    bool
	Inspect bool
	Stream  bool
}

// DefaultPolicy parses single documents and named inspections strictly, and
// listings and streams leniently so that one bad record cannot blank a view.
func DefaultPolicy() Policy {
	return Policy{
		Query:   true,
		List:    false,
		Inspect: true,
		Stream:  false,
	}
}

// StrictPolicy parses everything strictly.
func StrictPolicy() Policy {
	return Policy{Query: true, List: true, Inspect: true, Stream: true}
}

// StrictFor reports whether class c is parsed strictly. Mutating operations
// are always strict.
func (p Policy) StrictFor(c CallClass) bool {
	switch c {
	case ClassQuery:
		return p.Query
	case ClassList:
		return p.List
	case ClassInspect:
		return p.Inspect
	case ClassStream:
		return p.Stream
	default:
		return true
	}
}
