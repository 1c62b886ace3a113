// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"fmt"
	"sync"

	"github.com/antchfx/xpath"
)

// XPath expressions used against WordprocessingML.
const (
	QueryParagraphs   = "//w:p"
	QueryCandidates   = "//w:p[(count(descendant::w:i) > 0) and (count(descendant::w:t) > 0)]"
	QueryTrackChanges = "//w:ins | //w:del | //w:p//*[w:ins or w:del or @w:author]"
	QueryRuns         = ".//w:r"
	QueryItalic       = "w:rPr/w:i"
	QuerySmallCaps    = "w:rPr/w:smallCaps"
)

// Queries is the compiled XPath context of one document. It is built once
// when the document is opened and handed to every paragraph; expressions
// not compiled up front are compiled on first use.
type Queries struct {
	mu    sync.Mutex
	exprs map[string]*xpath.Expr
}

// NewQueries compiles exprs.
func NewQueries(exprs ...string) (*Queries, error) {
	q := &Queries{exprs: make(map[string]*xpath.Expr, len(exprs))}
	for _, e := range exprs {
		if _, err := q.Get(e); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// defaultQueries compiles every expression the package uses.
func defaultQueries() (*Queries, error) {
	return NewQueries(QueryParagraphs, QueryCandidates, QueryTrackChanges, QueryRuns, QueryItalic, QuerySmallCaps)
}

// Get returns the compiled form of expr.
func (q *Queries) Get(expr string) (*xpath.Expr, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.exprs[expr]; ok {
		return e, nil
	}
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling xpath %q: %w", expr, err)
	}
	q.exprs[expr] = e
	return e, nil
}

// Len returns the number of compiled expressions.
func (q *Queries) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.exprs)
}
