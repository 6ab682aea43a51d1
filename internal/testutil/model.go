package testutil

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// Model is a small, complete region: scalar and 3-component continuous
// types, an ensemble of nodes and a dense parameter over the nodes backed by
// an inline array source holding 1..n.
type Model struct {
	Session *fieldml.Session

	Real      ir.Handle
	Real3     ir.Handle
	Nodes     ir.Handle
	NodesArg  ir.Handle
	Parameter ir.Handle
	Resource  ir.Handle
	Source    ir.Handle
}

// NewModel builds a Model with the given number of nodes.
func NewModel(t testing.TB, nodes int) *Model {
	t.Helper()
	s := NewSession(t)
	must := Must(t)
	m := &Model{Session: s}

	m.Real = must(s.CreateContinuousType("real.1d"))
	m.Real3 = must(s.CreateContinuousType("real.3d"))
	must(s.CreateContinuousTypeComponents(m.Real3, "real.3d.component", 3))

	m.Nodes = must(s.CreateEnsembleType("nodes"))
	require.NoError(t, s.SetEnsembleMembersRange(m.Nodes, 1, nodes, 1))
	m.NodesArg = must(s.CreateArgumentEvaluator("nodes.argument", m.Nodes))

	m.Resource = must(s.CreateInlineDataResource("coordinates.data"))
	require.NoError(t, s.SetInlineData(m.Resource, Sequence(nodes)))
	m.Source = must(s.CreateArrayDataSource("coordinates.source", m.Resource, "1", 1))
	require.NoError(t, s.SetArrayDataSourceSizes(m.Source, []int{nodes}))
	require.NoError(t, s.SetArrayDataSourceRawSizes(m.Source, []int{nodes}))

	m.Parameter = must(s.CreateParameterEvaluator("coordinates", m.Real))
	require.NoError(t, s.SetParameterDataDescription(m.Parameter, ir.DescriptionDenseArray))
	require.NoError(t, s.AddDenseIndexEvaluator(m.Parameter, m.NodesArg, ir.InvalidHandle))
	require.NoError(t, s.SetDataSource(m.Parameter, m.Source))
	return m
}

// Sequence returns "1 2 ... n" followed by a newline.
func Sequence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(parts, " ") + "\n"
}
