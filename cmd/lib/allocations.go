package main

import "sync"

// allocations tracks the C strings handed to the host until it frees them.
// Exported functions may be called from any host thread.
type allocations struct {
	mu   sync.Mutex
	live map[uintptr]struct{}
}

func newAllocations() *allocations {
	return &allocations{live: map[uintptr]struct{}{}}
}

func (a *allocations) track(p uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[p] = struct{}{}
}

// release forgets p and reports whether it was live. Only a live pointer
// may be freed, and only once.
func (a *allocations) release(p uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		return false
	}
	delete(a.live, p)
	return true
}

func (a *allocations) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
