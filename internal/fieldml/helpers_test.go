package fieldml

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// newTestSession creates a session in a private registry with logging discarded.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	reg := NewRegistry()
	h, s := reg.Create("/tmp/fieldml", "test")
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = reg.Destroy(h) })
	return s
}

// requireHandle returns a helper that fails the test on error.
func requireHandle(t *testing.T) func(ir.Handle, error) ir.Handle {
	return func(h ir.Handle, err error) ir.Handle {
		t.Helper()
		require.NoError(t, err)
		require.True(t, h.Valid())
		return h
	}
}

// requireCode asserts err carries code and the session recorded it.
func requireCode(t *testing.T, s *Session, code ErrorCode, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, CodeOf(err), err.Error())
	require.Equal(t, code, s.LastError())
}

// fixture holds a session with a common set of types.
type fixture struct {
	s      *Session
	must   func(ir.Handle, error) ir.Handle
	real   ir.Handle
	real3  ir.Handle
	ens    ir.Handle
	bool   ir.Handle
	inline ir.Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newTestSession(t)
	must := requireHandle(t)
	f := &fixture{s: s, must: must}

	f.real = must(s.CreateContinuousType("real.1d"))
	f.real3 = must(s.CreateContinuousType("real.3d"))
	must(s.CreateContinuousTypeComponents(f.real3, "real.3d.component", 3))
	f.ens = must(s.CreateEnsembleType("nodes"))
	require.NoError(t, s.SetEnsembleMembersRange(f.ens, 1, 5, 1))
	f.bool = must(s.CreateBooleanType("boolean"))
	f.inline = must(s.CreateInlineDataResource("inline"))
	return f
}

// arraySource creates a rank-n source on the fixture's inline resource.
func (f *fixture) arraySource(name string, rank int) ir.Handle {
	return f.must(f.s.CreateArrayDataSource(name, f.inline, "1", rank))
}
