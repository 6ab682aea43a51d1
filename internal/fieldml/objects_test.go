package fieldml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func TestHandlesStrictlyIncrease(t *testing.T) {
	s := newTestSession(t)
	must := requireHandle(t)

	var last ir.Handle
	for _, name := range []string{"a", "b", "c", "d"} {
		h := must(s.CreateContinuousType(name))
		assert.Greater(t, h, last)
		last = h
	}
}

func TestNameCollisionLeavesStoreUnchanged(t *testing.T) {
	s := newTestSession(t)
	must := requireHandle(t)
	first := must(s.CreateContinuousType("a"))
	before := s.TotalObjectCount()

	h, err := s.CreateEnsembleType("a")
	requireCode(t, s, CodeNameCollision, err)
	assert.Equal(t, ir.InvalidHandle, h)
	assert.Equal(t, before, s.TotalObjectCount())
	assert.Equal(t, first, s.ObjectByName("a"))
}

func TestEmptyNamesRejected(t *testing.T) {
	s := newTestSession(t)
	cases := map[string]func() (ir.Handle, error){
		"boolean":    func() (ir.Handle, error) { return s.CreateBooleanType("") },
		"continuous": func() (ir.Handle, error) { return s.CreateContinuousType("") },
		"ensemble":   func() (ir.Handle, error) { return s.CreateEnsembleType("") },
		"mesh":       func() (ir.Handle, error) { return s.CreateMeshType("") },
		"inline":     func() (ir.Handle, error) { return s.CreateInlineDataResource("") },
	}
	for name, create := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := create()
			requireCode(t, s, CodeInvalidParameter1, err)
		})
	}
	assert.Equal(t, 0, s.TotalObjectCount())
}

func TestObjectQueries(t *testing.T) {
	f := newFixture(t)
	s := f.s

	kind, err := s.ObjectKind(f.ens)
	require.NoError(t, err)
	assert.Equal(t, ir.KindEnsembleType, kind)

	name, err := s.ObjectName(f.real)
	require.NoError(t, err)
	assert.Equal(t, "real.1d", name)

	declared, err := s.ObjectDeclaredName(f.real)
	require.NoError(t, err)
	assert.Equal(t, "real.1d", declared)

	first, err := s.ObjectByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, f.real, first)

	_, err = s.ObjectByIndex(0)
	requireCode(t, s, CodeInvalidParameter1, err)
	_, err = s.ObjectByIndex(s.TotalObjectCount() + 1)
	requireCode(t, s, CodeInvalidParameter1, err)

	// real.1d, real.3d
	n, err := s.ObjectCount(ir.KindContinuousType)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := s.Object(ir.KindContinuousType, 2)
	require.NoError(t, err)
	assert.Equal(t, f.real3, second)

	_, err = s.Object(ir.KindContinuousType, 3)
	requireCode(t, s, CodeInvalidParameter2, err)
	_, err = s.ObjectCount(ir.KindUnknown)
	requireCode(t, s, CodeInvalidParameter1, err)

	assert.Equal(t, ir.InvalidHandle, s.ObjectByName("missing"))
	assert.Equal(t, f.real3, s.ObjectByDeclaredName("real.3d"))
}

func TestObjectInt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.SetObjectInt(f.real, 42))
	v, err := f.s.ObjectInt(f.real)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = f.s.ObjectInt(f.ens)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	requireCode(t, f.s, CodeUnknownObject, f.s.SetObjectInt(ir.Handle(500), 1))
}

func TestVirtualObjectsAreNotDeclared(t *testing.T) {
	s := newTestSession(t)
	must := requireHandle(t)
	mesh := must(s.CreateMeshType("mesh"))
	elements := must(s.CreateMeshElementsType(mesh, "elements"))

	local, err := s.IsObjectLocal(elements, false)
	require.NoError(t, err)
	assert.True(t, local)

	declared, err := s.IsObjectLocal(elements, true)
	require.NoError(t, err)
	assert.False(t, declared)

	declared, err = s.IsObjectLocal(mesh, true)
	require.NoError(t, err)
	assert.True(t, declared)
}

func TestForeignHandleRejected(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	must := requireHandle(t)
	for _, name := range []string{"x", "y", "z"} {
		must(a.CreateContinuousType(name))
	}
	must(b.CreateContinuousType("only"))

	foreign := a.ObjectByName("z")
	_, err := b.CreateArgumentEvaluator("arg", foreign)
	requireCode(t, b, CodeUnknownObject, err)
}

func TestValueType(t *testing.T) {
	f := newFixture(t)
	c := f.must(f.s.CreateConstantEvaluator("one", "1", f.real))
	vt, err := f.s.ValueType(c)
	require.NoError(t, err)
	assert.Equal(t, f.real, vt)

	_, err = f.s.ValueType(f.real)
	requireCode(t, f.s, CodeInvalidObject, err)
}
