package planner

import (
	"context"
	"sync"
)

// ownerLocks serialises work per owner id. Entries are dropped once no
// goroutine holds or waits for them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	ch   chan struct{}
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// acquire blocks until the owner's lock is held or ctx is done.
func (l *ownerLocks) acquire(ctx context.Context, owner string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[owner]
	if !ok {
		e = &ownerLock{ch: make(chan struct{}, 1)}
		l.locks[owner] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.release(owner, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(owner, e)
		return nil, ctx.Err()
	}
}

func (l *ownerLocks) release(owner string, e *ownerLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, owner)
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
