package fieldml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func TestArgumentDiscovery(t *testing.T) {
	f := newFixture(t)
	s := f.s
	x := f.must(s.CreateArgumentEvaluator("x", f.real))
	y := f.must(s.CreateArgumentEvaluator("y", f.real))
	fn := f.must(s.CreateExternalEvaluator("f", f.real))
	require.NoError(t, s.AddArgument(fn, x))
	require.NoError(t, s.AddArgument(fn, y))
	ref := f.must(s.CreateReferenceEvaluator("ref", fn))
	c := f.must(s.CreateConstantEvaluator("c", "0", f.real))

	args, err := s.Arguments(ref, true, true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Handle{x, y}, args)

	args, err = s.Arguments(ref, false, true)
	require.NoError(t, err)
	assert.Empty(t, args)

	require.NoError(t, s.SetBind(ref, x, c))

	args, _ = s.Arguments(ref, true, true)
	assert.Equal(t, []ir.Handle{y}, args)
	args, _ = s.Arguments(ref, false, true)
	assert.Equal(t, []ir.Handle{x}, args)

	for _, combo := range [][2]bool{{true, false}, {false, false}} {
		args, err := s.Arguments(ref, combo[0], combo[1])
		require.NoError(t, err)
		assert.Empty(t, args, "unbound=%v used=%v", combo[0], combo[1])
	}

	n, err := s.ArgumentCount(ref, true, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := s.Argument(ref, 1, true, true)
	require.NoError(t, err)
	assert.Equal(t, y, got)
	_, err = s.Argument(ref, 2, true, true)
	requireCode(t, s, CodeInvalidParameter2, err)
}

func TestArgumentsIntroducedByBindSources(t *testing.T) {
	f := newFixture(t)
	s := f.s
	x := f.must(s.CreateArgumentEvaluator("x", f.real))
	y := f.must(s.CreateArgumentEvaluator("y", f.real))
	z := f.must(s.CreateArgumentEvaluator("z", f.real))
	fn := f.must(s.CreateExternalEvaluator("f", f.real))
	require.NoError(t, s.AddArgument(fn, x))
	require.NoError(t, s.AddArgument(fn, y))
	gn := f.must(s.CreateExternalEvaluator("g", f.real))
	require.NoError(t, s.AddArgument(gn, z))

	ref := f.must(s.CreateReferenceEvaluator("ref", fn))
	require.NoError(t, s.SetBind(ref, y, gn))

	unbound, _ := s.Arguments(ref, true, true)
	assert.Equal(t, []ir.Handle{x, z}, unbound)
	bound, _ := s.Arguments(ref, false, true)
	assert.Equal(t, []ir.Handle{y}, bound)

	// z is introduced by y's source and bound by the same map.
	one := f.must(s.CreateConstantEvaluator("one", "1", f.real))
	require.NoError(t, s.SetBind(ref, z, one))
	unbound, _ = s.Arguments(ref, true, true)
	assert.Equal(t, []ir.Handle{x}, unbound)
	bound, _ = s.Arguments(ref, false, true)
	assert.Equal(t, []ir.Handle{y, z}, bound)
}

func TestUnusedBindsAreIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.s
	x := f.must(s.CreateArgumentEvaluator("x", f.real))
	w := f.must(s.CreateArgumentEvaluator("w", f.real))
	fn := f.must(s.CreateExternalEvaluator("f", f.real))
	require.NoError(t, s.AddArgument(fn, x))
	ref := f.must(s.CreateReferenceEvaluator("ref", fn))
	one := f.must(s.CreateConstantEvaluator("one", "1", f.real))
	require.NoError(t, s.SetBind(ref, w, one))

	unbound, _ := s.Arguments(ref, true, true)
	assert.Equal(t, []ir.Handle{x}, unbound)
	bound, _ := s.Arguments(ref, false, true)
	assert.Empty(t, bound)
}

func TestArgumentsOfArgumentEvaluator(t *testing.T) {
	f := newFixture(t)
	s := f.s
	x := f.must(s.CreateArgumentEvaluator("x", f.real))

	args, err := s.Arguments(x, true, true)
	require.NoError(t, err)
	assert.Empty(t, args, "an argument does not list itself")

	ref := f.must(s.CreateReferenceEvaluator("ref", x))
	args, err = s.Arguments(ref, true, true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Handle{x}, args)
}

func TestArgumentsOfParameter(t *testing.T) {
	f := newFixture(t)
	s := f.s
	e := f.must(s.CreateArgumentEvaluator("e", f.ens))
	p := f.must(s.CreateParameterEvaluator("p", f.real))
	require.NoError(t, s.SetParameterDataDescription(p, ir.DescriptionDenseArray))
	require.NoError(t, s.AddDenseIndexEvaluator(p, e, ir.InvalidHandle))

	args, err := s.Arguments(p, true, true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Handle{e}, args)
}

func TestArgumentsRequireEvaluator(t *testing.T) {
	f := newFixture(t)
	_, err := f.s.Arguments(f.real, true, true)
	requireCode(t, f.s, CodeInvalidObject, err)
}
