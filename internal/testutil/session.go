package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// NewSession creates a session in a private registry. The session is
// destroyed when the test ends and its diagnostics are discarded.
func NewSession(t testing.TB) *fieldml.Session {
	t.Helper()
	reg := fieldml.NewRegistry()
	h, s := reg.Create(t.TempDir(), "test")
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() {
		_ = reg.Destroy(h)
	})
	return s
}

// Must returns a helper that fails the test when a handle-returning call
// errors.
//
//	must := testutil.Must(t)
//	typ := must(s.CreateContinuousType("real.1d"))
func Must(t testing.TB) func(ir.Handle, error) ir.Handle {
	return func(h ir.Handle, err error) ir.Handle {
		t.Helper()
		require.NoError(t, err)
		return h
	}
}
