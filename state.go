package goSession

import "sync"

// stateCell owns the session snapshot. Readers never block writers for long; each
// subscriber holds at most one pending snapshot and always receives the latest.
type stateCell struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
	closed bool
}

func newStateCell(initial Snapshot) *stateCell {
	return &stateCell{
		snap: initial,
		subs: make(map[int]chan Snapshot),
	}
}

func (c *stateCell) load() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.clone()
}

// publish replaces the session and loading flag together.
func (c *stateCell) publish(s Session, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot{Session: s, Loading: loading}
	c.notifyLocked()
}

func (c *stateCell) setLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.Loading == loading {
		return
	}
	c.snap.Loading = loading
	c.notifyLocked()
}

func (c *stateCell) subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.snap.clone()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (c *stateCell) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *stateCell) notifyLocked() {
	for _, ch := range c.subs {
		// Replace any unread snapshot with the current one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.snap.clone():
		default:
		}
	}
}
