package cracker

import "sync"

// visited is the per-invocation record of candidate texts already produced.
// It is the only shared mutable state of a search; every access goes through
// the atomic insert-and-test Add.
type visited struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newVisited() *visited {
	return &visited{seen: make(map[string]struct{})}
}

// Add records text and reports whether it was new. A false return means the
// text was reached before, via this or any other decode path.
func (v *visited) Add(text string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[text]; ok {
		return false
	}
	v.seen[text] = struct{}{}
	return true
}
