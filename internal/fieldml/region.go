package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/store"
)

// importEntry aliases one remote object under a local name.
type importEntry struct {
	local  string
	remote string
	object ir.Handle
}

// importTable is one import source: a region loaded from an href and the
// aliases taken from it.
type importTable struct {
	href       string
	regionName string
	entries    []importEntry
}

// Region is a namespace over a subset of a store's handles plus an import
// table. Object names are unique across locals and import aliases; that is
// enforced by Session, not here.
type Region struct {
	location string
	name     string
	root     string
	store    *store.ObjectStore

	locals []ir.Handle
	isLoc  map[ir.Handle]bool
	names  map[string]ir.Handle

	// imports is indexed by session-wide import source index and may have gaps.
	imports []*importTable
}

func newRegion(location, name string, objects *store.ObjectStore) *Region {
	return &Region{
		location: location,
		name:     name,
		root:     location,
		store:    objects,
		isLoc:    make(map[ir.Handle]bool),
		names:    make(map[string]ir.Handle),
	}
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// Location returns where the region was created or loaded from.
func (r *Region) Location() string { return r.location }

// Root returns the directory relative hrefs resolve against.
func (r *Region) Root() string { return r.root }

// Locals returns the local handles in insertion order.
func (r *Region) Locals() []ir.Handle {
	out := make([]ir.Handle, len(r.locals))
	copy(out, r.locals)
	return out
}

func (r *Region) addLocalObject(h ir.Handle) {
	if r.isLoc[h] {
		return
	}
	r.locals = append(r.locals, h)
	r.isLoc[h] = true
	if o, ok := r.store.Get(h); ok {
		if _, taken := r.names[o.DeclaredName()]; !taken {
			r.names[o.DeclaredName()] = h
		}
	}
}

// HasLocalObject reports whether h is visible from this region. Virtual
// objects count only with allowVirtual; imported objects only with allowImport.
func (r *Region) HasLocalObject(h ir.Handle, allowVirtual, allowImport bool) bool {
	o, ok := r.store.Get(h)
	if !ok {
		return false
	}
	if o.IsVirtual() && !allowVirtual {
		return false
	}
	if r.isLoc[h] {
		return true
	}
	if !allowImport {
		return false
	}
	for _, info := range r.imports {
		if info == nil {
			continue
		}
		for _, e := range info.entries {
			if e.object == h {
				return true
			}
		}
	}
	return false
}

// NamedObject resolves name against locals first, then each import table in
// source order. The first match wins.
func (r *Region) NamedObject(name string) ir.Handle {
	if h, ok := r.names[name]; ok {
		return h
	}
	for _, info := range r.imports {
		if info == nil {
			continue
		}
		for _, e := range info.entries {
			if e.local == name {
				return e.object
			}
		}
	}
	return ir.InvalidHandle
}

// ObjectName returns the declared name of a local object, or the alias under
// which an imported object is known here.
func (r *Region) ObjectName(h ir.Handle) (string, bool) {
	if r.isLoc[h] {
		o, ok := r.store.Get(h)
		if !ok {
			return "", false
		}
		return o.DeclaredName(), true
	}
	for _, info := range r.imports {
		if info == nil {
			continue
		}
		for _, e := range info.entries {
			if e.object == h {
				return e.local, true
			}
		}
	}
	return "", false
}

// addImportSource creates or reuses slot index of the import table.
func (r *Region) addImportSource(index int, href, regionName string) {
	for len(r.imports) <= index {
		r.imports = append(r.imports, nil)
	}
	if r.imports[index] == nil {
		r.imports[index] = &importTable{href: href, regionName: regionName}
	}
}

// addImport records one alias. It reports false if the source slot is empty.
func (r *Region) addImport(index int, local, remote string, h ir.Handle) bool {
	info := r.importSource(index)
	if info == nil {
		return false
	}
	info.entries = append(info.entries, importEntry{local: local, remote: remote, object: h})
	return true
}

func (r *Region) importSource(index int) *importTable {
	if index < 0 || index >= len(r.imports) {
		return nil
	}
	return r.imports[index]
}
