package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/testutil"
)

func byCode(findings []ValidationError) map[string]ValidationError {
	out := make(map[string]ValidationError, len(findings))
	for _, f := range findings {
		out[f.Code] = f
	}
	return out
}

func TestRegion_CleanModel(t *testing.T) {
	m := testutil.NewModel(t, 4)

	findings := Region(m.Session)
	assert.Empty(t, findings)
	assert.False(t, HasErrors(findings))
}

func TestRegion_Findings(t *testing.T) {
	m := testutil.NewModel(t, 3)
	s := m.Session
	must := testutil.Must(t)

	// E201
	must(s.CreateParameterEvaluator("undescribed", m.Real))

	// E202
	nosource := must(s.CreateParameterEvaluator("nosource", m.Real))
	require.NoError(t, s.SetParameterDataDescription(nosource, ir.DescriptionDenseArray))

	// E203: two dense indexes over a rank 1 source
	cells := must(s.CreateEnsembleType("cells"))
	require.NoError(t, s.SetEnsembleMembersRange(cells, 1, 2, 1))
	cellsArg := must(s.CreateArgumentEvaluator("cells.argument", cells))
	ranked := must(s.CreateParameterEvaluator("ranked", m.Real))
	require.NoError(t, s.SetParameterDataDescription(ranked, ir.DescriptionDenseArray))
	require.NoError(t, s.AddDenseIndexEvaluator(ranked, m.NodesArg, ir.InvalidHandle))
	require.NoError(t, s.AddDenseIndexEvaluator(ranked, cellsArg, ir.InvalidHandle))
	require.NoError(t, s.SetDataSource(ranked, m.Source))

	// E204
	must(s.CreatePiecewiseEvaluator("branches", m.Real))

	// E205
	x := must(s.CreateArgumentEvaluator("x", m.Real))
	ext := must(s.CreateExternalEvaluator("ext", m.Real))
	require.NoError(t, s.AddArgument(ext, x))
	must(s.CreateReferenceEvaluator("ref", ext))

	// E206
	short := must(s.CreateArrayDataSource("short.source", m.Resource, "1", 1))
	require.NoError(t, s.SetArrayDataSourceSizes(short, []int{3}))
	require.NoError(t, s.SetArrayDataSourceRawSizes(short, []int{2}))

	// E208
	must(s.CreateEnsembleType("empty"))

	// E209
	must(s.CreateMeshType("flat"))

	// E210
	blank := must(s.CreateInlineDataResource("blank"))
	must(s.CreateArrayDataSource("blank.source", blank, "1", 1))

	findings := Region(s)
	got := byCode(findings)

	want := map[string]struct {
		field string
		level string
	}{
		ErrNoDescription:      {"undescribed", LevelError},
		ErrNoDataSource:       {"nosource", LevelError},
		ErrRankMismatch:       {"ranked", LevelError},
		ErrNoIndexEvaluator:   {"branches", LevelError},
		InfoUnboundArguments:  {"ref", LevelInfo},
		ErrRawSizeTooSmall:    {"short.source", LevelError},
		ErrMissingMembers:     {"empty", LevelWarning},
		ErrIncompleteMesh:     {"flat", LevelError},
		ErrNoResourceContents: {"blank.source", LevelWarning},
	}
	assert.Len(t, findings, len(want))
	for code, w := range want {
		f, ok := got[code]
		if assert.True(t, ok, "missing %s", code) {
			assert.Equal(t, w.field, f.Field, code)
			assert.Equal(t, w.level, f.Level, code)
		}
	}

	assert.Contains(t, got[InfoUnboundArguments].Message, "[x]")
	assert.Contains(t, got[ErrRankMismatch].Message, "needs a rank 2 source")
	assert.True(t, HasErrors(findings))
}

func TestRegion_MeshWithoutMembers(t *testing.T) {
	m := testutil.NewModel(t, 2)
	s := m.Session
	must := testutil.Must(t)

	mesh := must(s.CreateMeshType("mesh"))
	must(s.CreateMeshElementsType(mesh, "elements"))
	chart := must(s.CreateMeshChartType(mesh, "xi"))
	must(s.CreateContinuousTypeComponents(chart, "mesh.xi.component", 2))

	findings := Region(s)
	require.Len(t, findings, 1)
	assert.Equal(t, ErrMissingMembers, findings[0].Code)
	assert.Equal(t, "mesh", findings[0].Field)
	assert.False(t, HasErrors(findings))
}

func TestRegion_BoundReferenceIsQuiet(t *testing.T) {
	m := testutil.NewModel(t, 2)
	s := m.Session
	must := testutil.Must(t)

	x := must(s.CreateArgumentEvaluator("x", m.Real))
	ext := must(s.CreateExternalEvaluator("ext", m.Real))
	require.NoError(t, s.AddArgument(ext, x))
	zero := must(s.CreateConstantEvaluator("zero", "0", m.Real))
	ref := must(s.CreateReferenceEvaluator("ref", ext))
	require.NoError(t, s.SetBind(ref, x, zero))

	assert.Empty(t, Region(s))
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "coordinates", Message: "parameter has no data description", Code: ErrNoDescription}
	assert.Equal(t, "[E201] coordinates: parameter has no data description", e.Error())
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]ValidationError{{Level: LevelWarning}, {Level: LevelInfo}}))
	assert.True(t, HasErrors([]ValidationError{{Level: LevelInfo}, {Level: LevelError}}))
}

func TestTarjanSCC(t *testing.T) {
	graph := dependencyGraph{
		1: {2},
		2: {1, 4},
		3: {3},
		4: nil,
		5: {6},
		6: {7},
		7: {5},
	}

	var cyclic [][]ir.Handle
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cyclic = append(cyclic, scc)
		}
	}

	require.Len(t, cyclic, 3)
	assert.ElementsMatch(t, []ir.Handle{1, 2}, cyclic[0])
	assert.Equal(t, []ir.Handle{3}, cyclic[1])
	assert.ElementsMatch(t, []ir.Handle{5, 6, 7}, cyclic[2])
}

func TestTarjanSCC_Acyclic(t *testing.T) {
	graph := dependencyGraph{1: {2, 3}, 2: {3}, 3: nil}
	sccs := tarjanSCC(graph)
	assert.Len(t, sccs, 3)
	for _, scc := range sccs {
		assert.Len(t, scc, 1)
		assert.False(t, hasSelfLoop(scc[0], graph))
	}
}
