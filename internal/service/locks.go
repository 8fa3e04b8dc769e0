package service

import "sync"

// ticketLocks serializes transition proposals per ticket id. The workflow
// engine evaluates a snapshot, so at most one proposal may be in flight for
// a ticket at a time; entries are refcounted and dropped once released.
type ticketLocks struct {
	mu    sync.Mutex
	locks map[string]*ticketLock
}

type ticketLock struct {
	mu   sync.Mutex
	refs int
}

func newTicketLocks() *ticketLocks {
	return &ticketLocks{locks: make(map[string]*ticketLock)}
}

// Acquire blocks until the ticket's lock is held and returns the release
// function.
func (l *ticketLocks) Acquire(ticketID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[ticketID]
	if !ok {
		entry = &ticketLock{}
		l.locks[ticketID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, ticketID)
		}
		l.mu.Unlock()
	}
}
