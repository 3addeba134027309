package bot

import (
	"sync"
	"time"
)

const maxSeenUpdates = 10000

type seenUpdate struct {
	id int64
	at time.Time
}

// Dedup remembers recently seen update ids so redelivered updates are dropped.
type Dedup struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	seen   map[int64]struct{}
	order  []seenUpdate
}

func NewDedup(window time.Duration, now func() time.Time) *Dedup {
	if now == nil {
		now = time.Now
	}
	return &Dedup{window: window, now: now, seen: map[int64]struct{}{}}
}

// Seen records id and reports whether it was already recorded within the window.
// Zero ids are never deduplicated.
func (d *Dedup) Seen(id int64) bool {
	if id == 0 {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.evict(now)
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, seenUpdate{id: id, at: now})
	return false
}

func (d *Dedup) evict(now time.Time) {
	n := 0
	for n < len(d.order) && (now.Sub(d.order[n].at) > d.window || len(d.order)-n > maxSeenUpdates) {
		delete(d.seen, d.order[n].id)
		n++
	}
	d.order = d.order[n:]
}
