package decode

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

func openTestdata(t *testing.T, name string) *fieldml.Session {
	t.Helper()
	reg := fieldml.NewRegistry()
	h, s, errs := Open(reg, filepath.Join("testdata", name), "")
	require.NotNil(t, s)
	t.Cleanup(func() { _ = reg.Destroy(h) })
	require.Empty(t, errs)
	return s
}

func TestLibrary_Decodes(t *testing.T) {
	doc, err := Library()
	require.NoError(t, err)
	assert.Equal(t, LibraryRegion, doc.Name())

	s := testutil.NewSession(t)
	require.Empty(t, doc.Decode(s))

	externals, err := s.ObjectCount(ir.KindExternalEvaluator)
	require.NoError(t, err)
	assert.Equal(t, 13, externals)

	real3d := s.ObjectByName("library.real.3d")
	require.True(t, real3d.Valid())
	n, err := s.TypeComponentCount(real3d)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ens, err := s.TypeComponentEnsemble(real3d)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("library.ensemble.generic.3d"), ens)

	tricubic := s.ObjectByName("library.parameters.3d.tricubicHermite")
	n, err = s.TypeComponentCount(tricubic)
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	scaled := s.ObjectByName("library.interpolator.1d.unit.cubicHermiteScaled")
	args, err := s.Arguments(scaled, true, true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Handle{
		s.ObjectByName("library.xi.1d.variable"),
		s.ObjectByName("library.parameters.1d.cubicHermite.variable"),
		s.ObjectByName("library.parameters.1d.cubicHermiteScaling.variable"),
	}, args)
}

func TestOpen_ResolvesImports(t *testing.T) {
	s := openTestdata(t, "heart.cue")
	assert.Equal(t, "heart", s.RegionName())
	assert.Equal(t, 2, s.ImportSourceCount())

	href, err := s.ImportSourceHref(1)
	require.NoError(t, err)
	assert.Equal(t, ir.LibraryHref, href)
	count, err := s.ImportCount(1)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	shapes := s.ObjectByName("shapes.line")
	require.True(t, shapes.Valid())
	local, err := s.IsObjectLocal(shapes, true)
	require.NoError(t, err)
	assert.False(t, local, "aliases are not declared locals")

	mesh := s.ObjectByName("mesh")
	got, err := s.MeshShapes(mesh)
	require.NoError(t, err)
	assert.Equal(t, shapes, got)
	members, err := s.MemberCount(mesh)
	require.NoError(t, err)
	assert.Equal(t, 2, members)
	comp, err := s.MeshChartComponentType(mesh)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("mesh.xi.component"), comp)
}

func TestOpen_WiresForwardReferences(t *testing.T) {
	s := openTestdata(t, "heart.cue")
	nodal := s.ObjectByName("coordinates.nodal")
	require.True(t, nodal.Valid())

	piecewise := s.ObjectByName("coordinates.piecewise")
	eval, err := s.ElementEvaluator(piecewise, 1, false)
	require.NoError(t, err)
	assert.Equal(t, nodal, eval)
	def, err := s.DefaultEvaluator(piecewise)
	require.NoError(t, err)
	assert.Equal(t, nodal, def)
	index, err := s.IndexEvaluator(piecewise, 1)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("nodes.argument"), index)

	list := s.ObjectByName("element.list")
	mt, err := s.EnsembleMembersType(list)
	require.NoError(t, err)
	assert.Equal(t, ir.MembersListData, mt)
	src, err := s.DataSource(list)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("element.ids"), src)

	position := s.ObjectByName("position")
	n, err := s.EvaluatorCount(position)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOpen_DecodesData(t *testing.T) {
	s := openTestdata(t, "heart.cue")
	nodal := s.ObjectByName("coordinates.nodal")

	desc, err := s.ParameterDataDescription(nodal)
	require.NoError(t, err)
	assert.Equal(t, ir.DescriptionDenseArray, desc)
	dense, err := s.ParameterIndexCount(nodal, false)
	require.NoError(t, err)
	assert.Equal(t, 1, dense)

	source, err := s.DataSource(nodal)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("coordinates.source"), source)
	sizes, err := s.ArrayDataSourceSizes(source)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, sizes)

	text, err := s.InlineData(s.ObjectByName("coordinates.data"))
	require.NoError(t, err)
	assert.Equal(t, "0.0 1.5 3.0\n", text)

	href, err := s.DataResourceHref(s.ObjectByName("element.data"))
	require.NoError(t, err)
	assert.Equal(t, "elements.txt", href)
}

func TestOpen_BindsThroughMeshArgument(t *testing.T) {
	s := openTestdata(t, "heart.cue")
	ref := s.ObjectByName("coordinates.interpolated")
	xi := s.ObjectByName("xi.1d.argument")

	bound, err := s.BindByArgument(ref, xi)
	require.NoError(t, err)
	assert.Equal(t, s.ObjectByName("mesh.argument.xi"), bound)

	// The bind source is itself a free argument and joins the unbound set.
	unbound, err := s.Arguments(ref, true, true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Handle{
		s.ObjectByDeclaredName("library.parameters.1d.linearLagrange.variable"),
		s.ObjectByName("mesh.argument.xi"),
	}, unbound)

	bound, err = s.Argument(ref, 1, false, true)
	require.NoError(t, err)
	assert.Equal(t, xi, bound)
}

func TestDecode_CollectsErrors(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "broken.cue"))
	require.NoError(t, err)

	s := testutil.NewSession(t)
	errs := doc.Decode(s)
	require.Len(t, errs, 3)

	wantFields := []string{"objects[2].value_type", "objects[3]", "objects[4].binds"}
	wantErrs := []error{fieldml.ErrUnknownObject, fieldml.ErrNameCollision, fieldml.ErrCyclicDependency}
	for i, err := range errs {
		var de *DecodeError
		require.True(t, errors.As(err, &de), "error %d is %T", i, err)
		assert.Equal(t, wantFields[i], de.Field)
		assert.True(t, de.Pos.IsValid(), "error %d has a position", i)
		assert.ErrorIs(t, err, wantErrs[i])
	}

	ok := s.ObjectByName("ok")
	require.True(t, ok.Valid(), "decoding continues past failures")
	n, err := s.ArgumentCount(ok, true, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Greater(t, s.ErrorCount(), 0)
}

func TestCompile_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "missing region name",
			src:   `objects: []`,
			field: "name",
		},
		{
			name:  "empty region name",
			src:   `name: ""`,
			field: "name",
		},
		{
			name:  "unsupported version",
			src:   `version: "9", name: "r"`,
			field: "version",
		},
		{
			name:  "unknown kind",
			src:   `name: "r", objects: [{name: "a", kind: "Tensor"}]`,
			field: "objects[0].kind",
		},
		{
			name:  "object without name",
			src:   `name: "r", objects: [{kind: "BooleanType"}]`,
			field: "objects[0]",
		},
		{
			name:  "import without region",
			src:   `name: "r", imports: [{href: "x.cue"}]`,
			field: "imports[0]",
		},
		{
			name:  "syntax error",
			src:   `name: "r", objects: [`,
			field: "cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("doc.cue", []byte(tt.src))
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de), "got %T: %v", err, err)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestDecodeError_Format(t *testing.T) {
	_, err := Compile("doc.cue", []byte("version: \"2\"\nname: \"r\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc.cue:1:")
	assert.Contains(t, err.Error(), "version: unsupported document version")

	plain := &DecodeError{Field: "objects[0]", Message: "boom"}
	assert.Equal(t, "objects[0]: boom", plain.Error())
}

func TestLoader_RegionMismatch(t *testing.T) {
	s := testutil.NewSession(t)
	s.SetLoader(Loader("testdata"))

	_, err := s.AddImportSource("shared.cue", "elsewhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, fieldml.ErrReadError)
	assert.Contains(t, err.Error(), `declares region "shared"`)
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	s := testutil.NewSession(t)
	s.SetLoader(Loader("testdata"))

	_, err := s.AddImportSource("mesh.xml", "mesh")
	assert.ErrorIs(t, err, fieldml.ErrReadError)
}

func TestLoader_LibraryDisabled(t *testing.T) {
	s := testutil.NewSession(t)
	s.SetLoader(Loader("testdata", WithLibrary(false)))

	_, err := s.AddImportSource(ir.LibraryHref, LibraryRegion)
	assert.ErrorIs(t, err, fieldml.ErrReadError)

	s.SetLoader(Loader("testdata"))
	index, err := s.AddImportSource(ir.LibraryHref, LibraryRegion)
	require.NoError(t, err)
	assert.Equal(t, 2, index, "the failed load keeps its slot")
}

func TestLoader_UsesRegionRoot(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "shared.cue"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.cue"), src, 0o644))

	s := testutil.NewSession(t)
	require.NoError(t, s.SetRegionRoot(dir))
	s.SetLoader(Loader(""))

	index, err := s.AddImportSource("shared", "shared")
	require.NoError(t, err)
	h, err := s.AddImport(index, "line", "shapes.line")
	require.NoError(t, err)
	kind, err := s.ObjectKind(h)
	require.NoError(t, err)
	assert.Equal(t, ir.KindConstantEvaluator, kind)
}

func TestOpen_MissingFile(t *testing.T) {
	h, s, errs := Open(fieldml.NewRegistry(), filepath.Join("testdata", "absent.cue"), "")
	assert.Nil(t, s)
	assert.False(t, h.Valid())
	require.Len(t, errs, 1)
}
