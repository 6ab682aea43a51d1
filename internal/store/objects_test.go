package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func TestObjectStoreHandlesAreDenseAndMonotonic(t *testing.T) {
	s := NewObjectStore()
	h1 := s.Add(&ir.BooleanType{Base: ir.Base{Name: "boolean"}})
	h2 := s.Add(&ir.ContinuousType{Base: ir.Base{Name: "real.1d"}})
	h3 := s.Add(&ir.BooleanType{Base: ir.Base{Name: "other"}})

	assert.Equal(t, ir.Handle(1), h1)
	assert.Equal(t, ir.Handle(2), h2)
	assert.Equal(t, ir.Handle(3), h3)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []ir.Handle{1, 2, 3}, s.Handles())
}

func TestObjectStoreGet(t *testing.T) {
	s := NewObjectStore()
	h := s.Add(&ir.ContinuousType{Base: ir.Base{Name: "real.1d"}})

	o, ok := s.Get(h)
	require.True(t, ok)
	assert.Equal(t, "real.1d", o.DeclaredName())

	_, ok = s.Get(ir.InvalidHandle)
	assert.False(t, ok)
	_, ok = s.Get(h + 1)
	assert.False(t, ok)
	_, ok = s.Get(-4)
	assert.False(t, ok)
}

func TestObjectStoreKindQueries(t *testing.T) {
	s := NewObjectStore()
	s.Add(&ir.BooleanType{Base: ir.Base{Name: "b1"}})
	c := s.Add(&ir.ContinuousType{Base: ir.Base{Name: "c1"}})
	b2 := s.Add(&ir.BooleanType{Base: ir.Base{Name: "b2"}})

	assert.Equal(t, 2, s.CountKind(ir.KindBooleanType))
	assert.Equal(t, 0, s.CountKind(ir.KindMeshType))
	assert.Equal(t, b2, s.ByKindIndex(ir.KindBooleanType, 1))
	assert.Equal(t, ir.InvalidHandle, s.ByKindIndex(ir.KindBooleanType, 2))
	assert.Equal(t, ir.InvalidHandle, s.ByKindIndex(ir.KindBooleanType, -1))
	assert.Equal(t, c, s.ByIndex(1))
	assert.Equal(t, ir.InvalidHandle, s.ByIndex(3))
	assert.Equal(t, b2, s.ByName("b2"))
	assert.Equal(t, ir.InvalidHandle, s.ByName("missing"))
}

func TestObjectStoreRelease(t *testing.T) {
	s := NewObjectStore()
	h := s.Add(&ir.BooleanType{Base: ir.Base{Name: "b"}})
	s.Release()

	_, ok := s.Get(h)
	assert.False(t, ok)
	assert.Empty(t, s.Handles())

	next := s.Add(&ir.BooleanType{Base: ir.Base{Name: "c"}})
	assert.Greater(t, next, h, "handles are never reused")
}
