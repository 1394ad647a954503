package mpi

import "sync"

type envelope struct {
	from int
	msg  Message
}

// mailbox holds messages that arrived before anyone asked for them. Matching
// is by source and tag; messages with the same source and tag are taken in
// arrival order.
type mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []envelope
	err     error
}

func newMailbox() *mailbox {
	m := new(mailbox)
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *mailbox) put(e envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pending = append(m.pending, e)
	m.cond.Broadcast()
	return nil
}

func (m *mailbox) take(from int, tag Tag) (envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		for i, e := range m.pending {
			if Tag(e.msg.Tag) == tag && (from == AnySource || e.from == from) {
				m.pending = append(m.pending[:i], m.pending[i+1:]...)
				return e, nil
			}
		}
		if m.err != nil {
			return envelope{}, m.err
		}
		m.cond.Wait()
	}
}

// close wakes every blocked take. Messages already queued can still be taken.
func (m *mailbox) close(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err == nil {
		m.err = err
	}
	m.cond.Broadcast()
}
