package export

import (
	"fmt"
	"strings"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// Describe builds the description of the session's current region: its
// import tables and every declared local object in handle order. Component
// ensembles appear on their continuous type; virtual objects on their owner.
func Describe(s *fieldml.Session) (*ir.RegionDoc, error) {
	d := &describer{s: s}
	doc := &ir.RegionDoc{
		Version:  ir.DocVersion,
		Location: s.RegionLocation(),
		Name:     s.RegionName(),
	}

	doc.Imports = d.imports()

	total := s.TotalObjectCount()
	for i := 1; i <= total && d.err == nil; i++ {
		h := d.handle(s.ObjectByIndex(i))
		if d.err != nil || !d.bool(s.IsObjectLocal(h, true)) {
			continue
		}
		kind := d.kind(s.ObjectKind(h))
		if kind == ir.KindEnsembleType && d.bool(s.IsEnsembleComponentType(h)) {
			continue
		}
		od := d.object(h, kind)
		if d.err != nil {
			return nil, fmt.Errorf("describe object %s: %w", h, d.err)
		}
		doc.Objects = append(doc.Objects, od)
	}
	if d.err != nil {
		return nil, fmt.Errorf("describe region %q: %w", doc.Name, d.err)
	}
	return doc, nil
}

// describer accumulates the first query failure so object descriptions
// read as straight-line code.
type describer struct {
	s   *fieldml.Session
	err error
}

func (d *describer) record(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

func (d *describer) handle(h ir.Handle, err error) ir.Handle {
	d.record(err)
	return h
}

func (d *describer) int(n int, err error) int {
	d.record(err)
	return n
}

func (d *describer) ints(v []int, err error) []int {
	d.record(err)
	return v
}

func (d *describer) bool(b bool, err error) bool {
	d.record(err)
	return b
}

func (d *describer) str(v string, err error) string {
	d.record(err)
	return v
}

func (d *describer) kind(k ir.ObjectKind, err error) ir.ObjectKind {
	d.record(err)
	return k
}

func (d *describer) membersType(m ir.EnsembleMembersType, err error) ir.EnsembleMembersType {
	d.record(err)
	return m
}

// names maps hs to their visible names. Arguments reached only through
// other regions have no name here and are left out.
func (d *describer) names(hs []ir.Handle, err error) []string {
	d.record(err)
	var out []string
	for _, h := range hs {
		if !d.bool(d.s.IsObjectLocal(h, false)) {
			continue
		}
		out = append(out, d.name(h, nil))
	}
	return out
}

// name returns the name h is visible under, or "" for InvalidHandle.
func (d *describer) name(h ir.Handle, err error) string {
	d.record(err)
	if err != nil || !h.Valid() {
		return ""
	}
	return d.str(d.s.ObjectName(h))
}

func (d *describer) imports() []ir.ImportDoc {
	s := d.s
	var out []ir.ImportDoc
	for i := 1; i <= s.ImportSourceCount(); i++ {
		href, err := s.ImportSourceHref(i)
		if err != nil {
			// Slot registered by another region.
			continue
		}
		imp := ir.ImportDoc{
			Href:   href,
			Region: d.str(s.ImportSourceRegionName(i)),
		}
		n := d.int(s.ImportCount(i))
		for j := 1; j <= n; j++ {
			imp.Entries = append(imp.Entries, ir.ImportEntryDoc{
				Local:  d.str(s.ImportLocalName(i, j)),
				Remote: d.str(s.ImportRemoteName(i, j)),
			})
		}
		out = append(out, imp)
	}
	return out
}

func (d *describer) object(h ir.Handle, kind ir.ObjectKind) ir.ObjectDoc {
	s := d.s
	od := ir.ObjectDoc{
		Name: d.str(s.ObjectName(h)),
		Kind: kind.String(),
	}

	switch kind {
	case ir.KindBooleanType:
	case ir.KindContinuousType:
		d.components(&od, h)
	case ir.KindEnsembleType:
		od.Members = d.members(h)
	case ir.KindMeshType:
		d.mesh(&od, h)
	case ir.KindDataResource:
		od.Resource = d.resource(h)
	case ir.KindDataSource:
		od.Array = d.array(h)
	default:
		d.evaluator(&od, h, kind)
	}
	return od
}

func (d *describer) components(od *ir.ObjectDoc, typ ir.Handle) {
	comp := d.handle(d.s.TypeComponentEnsemble(typ))
	if !comp.Valid() {
		return
	}
	od.ComponentEnsemble = d.name(comp, nil)
	od.Components = d.int(d.s.TypeComponentCount(typ))
}

func (d *describer) members(h ir.Handle) *ir.MembersDoc {
	s := d.s
	mt := d.membersType(s.EnsembleMembersType(h))
	if mt == ir.MembersUnknown {
		return nil
	}
	m := &ir.MembersDoc{
		Type:  mt.String(),
		Count: d.int(s.MemberCount(h)),
	}
	if mt == ir.MembersRange {
		m.Min = d.int(s.EnsembleMembersMin(h))
		m.Max = d.int(s.EnsembleMembersMax(h))
		m.Stride = d.int(s.EnsembleMembersStride(h))
		return m
	}
	m.DataSource = d.name(s.DataSource(h))
	return m
}

func (d *describer) mesh(od *ir.ObjectDoc, mesh ir.Handle) {
	s := d.s
	prefix := od.Name + "."

	if elements := d.handle(s.MeshElementsType(mesh)); elements.Valid() {
		od.Elements = strings.TrimPrefix(d.name(elements, nil), prefix)
		od.Members = d.members(mesh)
	}
	if chart := d.handle(s.MeshChartType(mesh)); chart.Valid() {
		od.Chart = strings.TrimPrefix(d.name(chart, nil), prefix)
		if comp := d.handle(s.MeshChartComponentType(mesh)); comp.Valid() {
			od.ComponentEnsemble = d.name(comp, nil)
			od.Components = d.int(s.MemberCount(comp))
		}
	}
	od.Shapes = d.name(s.MeshShapes(mesh))
}

func (d *describer) evaluator(od *ir.ObjectDoc, h ir.Handle, kind ir.ObjectKind) {
	s := d.s
	// References take their value type from their source.
	if kind != ir.KindReferenceEvaluator {
		od.ValueType = d.name(s.ValueType(h))
	}

	switch kind {
	case ir.KindArgumentEvaluator, ir.KindExternalEvaluator:
		od.Arguments = d.names(s.Arguments(h, true, true))
	case ir.KindConstantEvaluator:
		od.Value = d.str(s.ConstantValueString(h))
	case ir.KindReferenceEvaluator:
		od.Source = d.name(s.ReferenceSourceEvaluator(h))
		od.Binds = d.binds(h)
	case ir.KindPiecewiseEvaluator, ir.KindAggregateEvaluator:
		od.Index = d.name(s.IndexEvaluator(h, 1))
		n := d.int(s.EvaluatorCount(h))
		for i := 1; i <= n; i++ {
			od.Evaluators = append(od.Evaluators, ir.ElementDoc{
				Element:   d.int(s.EvaluatorElement(h, i)),
				Evaluator: d.name(s.Evaluator(h, i)),
			})
		}
		od.Default = d.name(s.DefaultEvaluator(h))
		od.Binds = d.binds(h)
	case ir.KindParameterEvaluator:
		od.Data = d.data(h)
	}
}

func (d *describer) binds(h ir.Handle) []ir.BindDoc {
	s := d.s
	var out []ir.BindDoc
	n := d.int(s.BindCount(h))
	for i := 1; i <= n; i++ {
		out = append(out, ir.BindDoc{
			Argument: d.name(s.BindArgument(h, i)),
			Source:   d.name(s.BindEvaluator(h, i)),
		})
	}
	return out
}

func (d *describer) data(param ir.Handle) *ir.DataDoc {
	s := d.s
	dt, err := s.ParameterDataDescription(param)
	d.record(err)
	if dt == ir.DescriptionUnknown {
		return nil
	}

	dd := &ir.DataDoc{Type: dt.String()}
	sparse := d.int(s.ParameterIndexCount(param, true))
	for i := 1; i <= sparse; i++ {
		dd.SparseIndexes = append(dd.SparseIndexes, d.name(s.ParameterIndexEvaluator(param, i, true)))
	}
	dense := d.int(s.ParameterIndexCount(param, false))
	for i := 1; i <= dense; i++ {
		dd.DenseIndexes = append(dd.DenseIndexes, ir.DenseIndexDoc{
			Evaluator: d.name(s.ParameterIndexEvaluator(param, i, false)),
			Order:     d.name(s.ParameterIndexOrder(param, i)),
		})
	}
	dd.DataSource = d.name(s.DataSource(param))
	if dt == ir.DescriptionDOKArray {
		dd.KeySource = d.name(s.KeyDataSource(param))
	}
	return dd
}

func (d *describer) resource(h ir.Handle) *ir.ResourceDoc {
	s := d.s
	rt, err := s.DataResourceType(h)
	d.record(err)
	r := &ir.ResourceDoc{
		Type:   rt.String(),
		Format: d.str(s.DataResourceFormat(h)),
	}
	switch rt {
	case ir.ResourceHref:
		r.Href = d.str(s.DataResourceHref(h))
	case ir.ResourceInline:
		r.Inline = d.str(s.InlineData(h))
	}
	return r
}

func (d *describer) array(h ir.Handle) *ir.ArrayDoc {
	s := d.s
	return &ir.ArrayDoc{
		Resource: d.name(s.DataSourceResource(h)),
		Location: d.str(s.ArrayDataSourceLocation(h)),
		Rank:     d.int(s.ArrayDataSourceRank(h)),
		Sizes:    nonZero(d.ints(s.ArrayDataSourceSizes(h))),
		RawSizes: nonZero(d.ints(s.ArrayDataSourceRawSizes(h))),
		Offsets:  nonZero(d.ints(s.ArrayDataSourceOffsets(h))),
	}
}

// nonZero drops extents that were never set.
func nonZero(v []int) []int {
	for _, n := range v {
		if n != 0 {
			return v
		}
	}
	return nil
}
