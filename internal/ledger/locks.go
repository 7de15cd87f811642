package ledger

import (
	"sort"
	"sync"
)

// accountLocks hands out one mutex per account ID so operations against the
// same account never interleave their read-modify-write, while operations on
// unrelated accounts proceed in parallel.
type accountLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{m: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.m[id]
	if !ok {
		mu = &sync.Mutex{}
		l.m[id] = mu
	}
	return mu
}

// lock acquires the mutexes for ids in sorted order, deduplicated, so that
// two concurrent transfers touching the same pair cannot deadlock. The
// returned func releases them in reverse order.
func (l *accountLocks) lock(ids ...string) (unlock func()) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	var held []*sync.Mutex
	var prev string
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		mu := l.get(id)
		mu.Lock()
		held = append(held, mu)
		prev = id
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
