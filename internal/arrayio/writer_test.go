package arrayio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/testutil"
)

// matrix creates a rows x cols source on a fresh inline resource.
func matrix(t *testing.T, s *fieldml.Session, rows, cols int) (resource, source ir.Handle) {
	t.Helper()
	must := testutil.Must(t)
	resource = must(s.CreateInlineDataResource("matrix.data"))
	source = must(s.CreateArrayDataSource("matrix", resource, "1", 2))
	require.NoError(t, s.SetArrayDataSourceSizes(source, []int{rows, cols}))
	return resource, source
}

func TestTextWriter_InlineSlabs(t *testing.T) {
	s := testutil.NewSession(t)
	res, src := matrix(t, s, 2, 3)

	w, err := NewTextWriter(s, src, false, "")
	require.NoError(t, err)
	require.NoError(t, w.WriteDoubleSlab([]int{0, 0}, []int{1, 3}, []float64{1, 2.5, 3}))
	assert.Equal(t, 1, w.Offset())
	require.NoError(t, w.WriteDoubleSlab([]int{1, 0}, []int{1, 3}, []float64{-4, 5e-7, 6}))
	assert.Equal(t, 2, w.Offset())
	require.NoError(t, w.Close())

	data, err := s.InlineData(res)
	require.NoError(t, err)
	assert.Equal(t, "1 2.5 3 -4 5e-07 6\n", data)
}

func TestTextWriter_AppendInline(t *testing.T) {
	s := testutil.NewSession(t)
	res, src := matrix(t, s, 1, 2)
	require.NoError(t, s.SetInlineData(res, "9 9\n"))

	w, err := NewTextWriter(s, src, true, "")
	require.NoError(t, err)
	require.NoError(t, w.WriteIntSlab([]int{0, 0}, []int{1, 2}, []int{1, 2}))
	require.NoError(t, w.Close())

	data, _ := s.InlineData(res)
	assert.Equal(t, "9 9\n1 2\n", data)
}

func TestTextWriter_ReplaceInline(t *testing.T) {
	s := testutil.NewSession(t)
	res, src := matrix(t, s, 1, 2)
	require.NoError(t, s.SetInlineData(res, "old\n"))

	w, err := NewTextWriter(s, src, false, "")
	require.NoError(t, err)
	require.NoError(t, w.WriteBooleanSlab([]int{0, 0}, []int{1, 2}, []bool{true, false}))
	require.NoError(t, w.Close())

	data, _ := s.InlineData(res)
	assert.Equal(t, "1 0\n", data)
}

func TestTextWriter_HrefFile(t *testing.T) {
	s := testutil.NewSession(t)
	must := testutil.Must(t)
	root := t.TempDir()
	res := must(s.CreateHrefDataResource("values.data", ir.PlainTextFormat, "values.txt"))
	src := must(s.CreateArrayDataSource("values", res, "1", 1))
	require.NoError(t, s.SetArrayDataSourceSizes(src, []int{4}))

	w, err := NewTextWriter(s, src, false, root)
	require.NoError(t, err)
	require.NoError(t, w.WriteIntSlab([]int{0}, []int{2}, []int{1, 2}))
	require.NoError(t, w.WriteIntSlab([]int{2}, []int{2}, []int{3, 4}))
	require.NoError(t, w.Close())

	w, err = NewTextWriter(s, src, true, root)
	require.NoError(t, err)
	require.NoError(t, w.WriteIntSlab([]int{0}, []int{1}, []int{5}))
	require.NoError(t, w.Close())

	got, err := os.ReadFile(filepath.Join(root, "values.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4\n5\n", string(got))
}

func TestTextWriter_SlabShape(t *testing.T) {
	s := testutil.NewSession(t)
	_, src := matrix(t, s, 3, 2)
	w, err := NewTextWriter(s, src, false, "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		offsets []int
		sizes   []int
	}{
		{"skips ahead", []int{1, 0}, []int{1, 2}},
		{"inner offset", []int{0, 1}, []int{1, 1}},
		{"partial width", []int{0, 0}, []int{1, 1}},
		{"wrong rank", []int{0}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.WriteIntSlab(tt.offsets, tt.sizes, []int{1, 2})
			assert.ErrorIs(t, err, ErrUnsupported)
			assert.Equal(t, 0, w.Offset())
		})
	}

	err = w.WriteIntSlab([]int{0, 0}, []int{2, 2}, []int{1, 2, 3})
	assert.Error(t, err, "too few values")
	assert.Equal(t, 0, w.Offset())
}

func TestTextWriter_ClosedWriter(t *testing.T) {
	s := testutil.NewSession(t)
	_, src := matrix(t, s, 1, 1)
	w, err := NewTextWriter(s, src, false, "")
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")
	assert.ErrorIs(t, w.WriteIntSlab([]int{0, 0}, []int{1, 1}, []int{1}), ErrClosed)
	assert.ErrorIs(t, w.WriteDoubleSlab([]int{0, 0}, []int{1, 1}, []float64{1}), ErrClosed)
	assert.ErrorIs(t, w.WriteBooleanSlab([]int{0, 0}, []int{1, 1}, []bool{true}), ErrClosed)
}

func TestTextWriter_OnClose(t *testing.T) {
	s := testutil.NewSession(t)
	res, src := matrix(t, s, 1, 2)

	var captured string
	w, err := NewTextWriter(s, src, false, "", WithOnClose(func(text string) error {
		captured = text
		return nil
	}))
	require.NoError(t, err)
	require.NoError(t, w.WriteIntSlab([]int{0, 0}, []int{1, 2}, []int{7, 8}))
	require.NoError(t, w.Close())

	assert.Equal(t, "7 8\n", captured)
	data, _ := s.InlineData(res)
	assert.Empty(t, data, "a custom callback replaces the default")
}

func TestTextWriter_OnCloseError(t *testing.T) {
	s := testutil.NewSession(t)
	_, src := matrix(t, s, 1, 1)
	boom := errors.New("boom")

	w, err := NewTextWriter(s, src, false, "", WithOnClose(func(string) error { return boom }))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), boom)
}

func TestNewTextWriter_UnsupportedFormat(t *testing.T) {
	s := testutil.NewSession(t)
	must := testutil.Must(t)
	res := must(s.CreateHrefDataResource("bin.data", "HDF5", "values.h5"))
	src := must(s.CreateArrayDataSource("bin", res, "/values", 1))

	_, err := NewTextWriter(s, src, false, t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNewTextWriter_NotASource(t *testing.T) {
	m := testutil.NewModel(t, 2)
	_, err := NewTextWriter(m.Session, m.Real, false, "")
	require.Error(t, err)
	assert.Equal(t, fieldml.CodeInvalidObject, fieldml.CodeOf(err))
}
