package fieldml

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	h, s := reg.Create("/data", "heart")
	require.True(t, h.Valid())
	assert.Equal(t, "heart", s.RegionName())
	assert.Equal(t, "/data", s.RegionLocation())
	assert.Equal(t, h, s.Handle())
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Lookup(h)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, reg.Destroy(h))
	assert.Equal(t, 0, reg.Len())

	_, err = reg.Lookup(h)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, reg.Destroy(h), ErrUnknownHandle)
}

func TestRegistryStaleHandleAfterSlotReuse(t *testing.T) {
	reg := NewRegistry()
	h1, _ := reg.Create("", "a")
	require.NoError(t, reg.Destroy(h1))

	h2, s2 := reg.Create("", "b")
	assert.NotEqual(t, h1, h2)

	_, err := reg.Lookup(h1)
	assert.Equal(t, CodeUnknownHandle, CodeOf(err))

	got, err := reg.Lookup(h2)
	require.NoError(t, err)
	assert.Same(t, s2, got)
}

func TestRegistryRejectsZeroHandle(t *testing.T) {
	reg := NewRegistry()
	var zero SessionHandle
	assert.False(t, zero.Valid())
	_, err := reg.Lookup(zero)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.Equal(t, "session:<invalid>", zero.String())
}

func TestDefaultRegistry(t *testing.T) {
	h, s := Create("", "global")
	got, err := Lookup(h)
	require.NoError(t, err)
	assert.Same(t, s, got)
	require.NoError(t, Destroy(h))
	_, err = Lookup(h)
	assert.Error(t, err)
}

func TestDestroyReleasesObjects(t *testing.T) {
	reg := NewRegistry()
	h, s := reg.Create("", "r")
	typ, err := s.CreateContinuousType("real")
	require.NoError(t, err)

	require.NoError(t, reg.Destroy(h))
	_, ok := s.objects.Get(typ)
	assert.False(t, ok)
}

func TestLastErrorResetsOnEveryCall(t *testing.T) {
	s := newTestSession(t)

	_, err := s.CreateContinuousType("")
	requireCode(t, s, CodeInvalidParameter1, err)

	_, err = s.CreateContinuousType("real")
	require.NoError(t, err)
	assert.Equal(t, CodeNoError, s.LastError())
	assert.Equal(t, 1, s.ErrorCount(), "the diagnostic log is append-only")
}

func TestErrorLog(t *testing.T) {
	s := newTestSession(t)
	_, err := s.CreateBooleanType("b")
	require.NoError(t, err)
	_, err = s.CreateBooleanType("b")
	require.Error(t, err)
	_, err = s.ObjectKind(ir.Handle(99))
	require.Error(t, err)

	require.Equal(t, 2, s.ErrorCount())
	first, err := s.Error(1)
	require.NoError(t, err)
	assert.Contains(t, first, "CreateBooleanType")
	assert.Contains(t, first, "NAME_COLLISION")

	_, err = s.Error(0)
	assert.Error(t, err)
	assert.Len(t, s.Errors(), 3, "the failed Error lookup is logged too")

	s.ClearErrors()
	assert.Equal(t, 0, s.ErrorCount())
	assert.Equal(t, CodeNoError, s.LastError())
}

func TestErrorMatching(t *testing.T) {
	s := newTestSession(t)
	_, err := s.CreateBooleanType("b")
	require.NoError(t, err)
	_, err = s.CreateEnsembleType("b")

	assert.ErrorIs(t, err, ErrNameCollision)
	assert.False(t, errors.Is(err, ErrCyclicDependency))
	assert.False(t, IsCycleError(err))

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "CreateEnsembleType", fe.Op)
	assert.Contains(t, fe.Error(), "CreateEnsembleType: NAME_COLLISION:")
}

func TestErrorCodeHelpers(t *testing.T) {
	assert.Equal(t, CodeInvalidParameter1, InvalidParameter(1))
	assert.Equal(t, CodeInvalidParameter8, InvalidParameter(8))
	assert.Panics(t, func() { InvalidParameter(9) })
	assert.True(t, CodeInvalidParameter4.IsInvalidParameter())
	assert.False(t, CodeNameCollision.IsInvalidParameter())
	assert.Equal(t, "INVALID_PARAMETER_3", CodeInvalidParameter3.String())
	assert.Equal(t, "ErrorCode(99)", ErrorCode(99).String())
	assert.Equal(t, CodeNoError, CodeOf(nil))
	assert.Equal(t, CodeIOError, CodeOf(errors.New("disk")))
}

func TestFailuresAreLogged(t *testing.T) {
	s := newTestSession(t)
	var buf bytes.Buffer
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := s.CreateBooleanType("")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "fieldml error")
	assert.Contains(t, buf.String(), "code=INVALID_PARAMETER_1")
	assert.NotContains(t, buf.String(), "fieldml call")

	s.SetDebug(true)
	_, err = s.CreateBooleanType("b")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fieldml call")
	assert.Contains(t, buf.String(), "op=CreateBooleanType")
}

func TestRegionRoot(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "/tmp/fieldml", s.RegionRoot())
	require.NoError(t, s.SetRegionRoot("/srv/models"))
	assert.Equal(t, "/srv/models", s.RegionRoot())
}
