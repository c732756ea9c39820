package diagnostics

import (
	"cmp"
	"slices"
	"sync"
)

// Sink receives diagnostics as they are found. Implementations must be safe for
// concurrent use.
type Sink interface {
	Push(d AnyDiagnostic)
}

// Collection is a Sink that keeps every diagnostic pushed to it
type Collection struct {
	mu    sync.Mutex
	diags []AnyDiagnostic
}

func (c *Collection) Push(d AnyDiagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns the collected diagnostics ordered by file, then position
func (c *Collection) Diagnostics() []AnyDiagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.SortedStableFunc(slices.Values(c.diags), compare)
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

func compare(a, b AnyDiagnostic) int {
	return cmp.Or(
		cmp.Compare(a.File(), b.File()),
		cmp.Compare(a.Pos(), b.Pos()),
		cmp.Compare(a.End(), b.End()),
		cmp.Compare(a.Kind(), b.Kind()),
	)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(d AnyDiagnostic)

func (f SinkFunc) Push(d AnyDiagnostic) { f(d) }
