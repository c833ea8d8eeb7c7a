package slots

import "sync"

// Transitions on one slot must not interleave: two concurrent check-ins
// both passing the status check would open two usage sessions. Each slot
// gets its own mutex, keyed by the slot's object id.
var slotLocks = struct {
	sync.Mutex
	m map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

func lockFor(id string) *sync.Mutex {
	slotLocks.Lock()
	defer slotLocks.Unlock()

	l, ok := slotLocks.m[id]
	if !ok {
		l = &sync.Mutex{}
		slotLocks.m[id] = l
	}
	return l
}
