package fieldml

import (
	"fmt"
	"sync"
)

// SessionHandle identifies a session in a Registry. The zero value is invalid.
type SessionHandle struct {
	slot uint32
	gen  uint32
}

// Valid reports whether h was issued by a registry.
func (h SessionHandle) Valid() bool { return h.gen != 0 }

func (h SessionHandle) String() string {
	if !h.Valid() {
		return "session:<invalid>"
	}
	return fmt.Sprintf("session:%d.%d", h.slot, h.gen)
}

type registrySlot struct {
	gen     uint32
	session *Session
}

// Registry maps session handles to live sessions. Slots are reused after
// Destroy with a bumped generation, so a stale handle never resolves to a
// newer session.
type Registry struct {
	mu    sync.Mutex
	slots []registrySlot
	free  []uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Create registers a new session owning a fresh region in the process-wide registry.
func Create(location, name string) (SessionHandle, *Session) {
	return defaultRegistry.Create(location, name)
}

// Lookup resolves a handle issued by Create.
func Lookup(h SessionHandle) (*Session, error) {
	return defaultRegistry.Lookup(h)
}

// Destroy releases a session created by Create.
func Destroy(h SessionHandle) error {
	return defaultRegistry.Destroy(h)
}

// Create registers a new session owning a fresh region.
func (r *Registry) Create(location, name string) (SessionHandle, *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slot uint32
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		slot = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{})
	}

	r.slots[slot].gen++
	h := SessionHandle{slot: slot, gen: r.slots[slot].gen}
	s := newSession(h, location, name)
	r.slots[slot].session = s
	return h, s
}

// Lookup returns the live session for h.
func (r *Registry) Lookup(h SessionHandle) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !h.Valid() || int(h.slot) >= len(r.slots) {
		return nil, &Error{Code: CodeUnknownHandle, Op: "Lookup", Message: h.String()}
	}
	slot := r.slots[h.slot]
	if slot.gen != h.gen || slot.session == nil {
		return nil, &Error{Code: CodeUnknownHandle, Op: "Lookup", Message: fmt.Sprintf("%s is stale", h)}
	}
	return slot.session, nil
}

// Destroy releases every object the session owns and frees its slot.
func (r *Registry) Destroy(h SessionHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !h.Valid() || int(h.slot) >= len(r.slots) {
		return &Error{Code: CodeUnknownHandle, Op: "Destroy", Message: h.String()}
	}
	slot := &r.slots[h.slot]
	if slot.gen != h.gen || slot.session == nil {
		return &Error{Code: CodeUnknownHandle, Op: "Destroy", Message: fmt.Sprintf("%s is stale", h)}
	}
	slot.session.release()
	slot.session = nil
	r.free = append(r.free, h.slot)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s.session != nil {
			n++
		}
	}
	return n
}
