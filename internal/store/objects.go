package store

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// ObjectStore is a handle-indexed arena of objects owned by one session.
// It is not safe for concurrent use.
type ObjectStore struct {
	objects []ir.Object
}

// NewObjectStore returns an empty store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{}
}

// Add stores o and returns its new handle.
func (s *ObjectStore) Add(o ir.Object) ir.Handle {
	s.objects = append(s.objects, o)
	return ir.Handle(len(s.objects))
}

// Get returns the object for h.
func (s *ObjectStore) Get(h ir.Handle) (ir.Object, bool) {
	if !h.Valid() || int(h) > len(s.objects) {
		return nil, false
	}
	o := s.objects[h-1]
	return o, o != nil
}

// Count returns the number of stored objects.
func (s *ObjectStore) Count() int {
	return len(s.objects)
}

// CountKind returns the number of stored objects of kind k.
func (s *ObjectStore) CountKind(k ir.ObjectKind) int {
	n := 0
	for _, o := range s.objects {
		if o != nil && o.Kind() == k {
			n++
		}
	}
	return n
}

// ByIndex returns the handle of the i-th object in handle order (0-based).
func (s *ObjectStore) ByIndex(i int) ir.Handle {
	if i < 0 || i >= len(s.objects) {
		return ir.InvalidHandle
	}
	return ir.Handle(i + 1)
}

// ByKindIndex returns the handle of the i-th object of kind k (0-based).
func (s *ObjectStore) ByKindIndex(k ir.ObjectKind, i int) ir.Handle {
	if i < 0 {
		return ir.InvalidHandle
	}
	for idx, o := range s.objects {
		if o == nil || o.Kind() != k {
			continue
		}
		if i == 0 {
			return ir.Handle(idx + 1)
		}
		i--
	}
	return ir.InvalidHandle
}

// ByName returns the first object with the given declared name.
// Region lookups go through the region's name table instead; this is a
// store-wide scan used for diagnostics.
func (s *ObjectStore) ByName(name string) ir.Handle {
	for idx, o := range s.objects {
		if o != nil && o.DeclaredName() == name {
			return ir.Handle(idx + 1)
		}
	}
	return ir.InvalidHandle
}

// Handles returns every handle in the store, ascending.
func (s *ObjectStore) Handles() []ir.Handle {
	out := make([]ir.Handle, 0, len(s.objects))
	for idx, o := range s.objects {
		if o != nil {
			out = append(out, ir.Handle(idx+1))
		}
	}
	return out
}

// Release drops every object. Handles issued earlier stay unresolvable.
func (s *ObjectStore) Release() {
	for i := range s.objects {
		s.objects[i] = nil
	}
}
