package decode

import (
	"fmt"
	"log/slog"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// Decode replays the document into the session's current region. Every
// failed call is collected and decoding continues with the next entry.
func (d *Document) Decode(s *fieldml.Session) []error {
	dec := &decoder{s: s, doc: d, handles: make([]ir.Handle, len(d.Region.Objects))}
	dec.imports()
	for i := range d.Region.Objects {
		dec.handles[i] = dec.create(i)
	}
	for i := range d.Region.Objects {
		dec.wire(i)
	}
	slog.Debug("document decoded",
		"region", d.Region.Name,
		"objects", len(d.Region.Objects),
		"errors", len(dec.errs))
	return dec.errs
}

type decoder struct {
	s   *fieldml.Session
	doc *Document
	// handles[i] is the object created for objects[i], or InvalidHandle.
	handles []ir.Handle
	errs    []error
}

func (d *decoder) pos(i int, field string) token.Pos {
	v := d.doc.objects[i]
	if field != "" {
		if f := v.LookupPath(cue.ParsePath(field)); f.Exists() {
			return f.Pos()
		}
	}
	return v.Pos()
}

// fail records err against objects[i].field and reports whether err was set.
func (d *decoder) fail(i int, field string, err error) bool {
	if err == nil {
		return false
	}
	name := fmt.Sprintf("objects[%d]", i)
	if field != "" {
		name += "." + field
	}
	d.errs = append(d.errs, &DecodeError{
		Field:   name,
		Message: err.Error(),
		Pos:     d.pos(i, field),
		Err:     err,
	})
	return true
}

// lookup resolves a name in the current region. The empty name resolves to
// InvalidHandle without error.
func (d *decoder) lookup(i int, field, name string) (ir.Handle, bool) {
	if name == "" {
		return ir.InvalidHandle, true
	}
	h := d.s.ObjectByName(name)
	if !h.Valid() {
		d.fail(i, field, fmt.Errorf("unknown object %q: %w", name, fieldml.ErrUnknownObject))
		return ir.InvalidHandle, false
	}
	return h, true
}

func (d *decoder) imports() {
	for i, imp := range d.doc.Region.Imports {
		field := fmt.Sprintf("imports[%d]", i)
		pos := d.doc.imports[i].Pos()
		index, err := d.s.AddImportSource(imp.Href, imp.Region)
		if err != nil {
			d.errs = append(d.errs, &DecodeError{Field: field, Message: err.Error(), Pos: pos, Err: err})
			continue
		}
		for j, e := range imp.Entries {
			if _, err := d.s.AddImport(index, e.Local, e.Remote); err != nil {
				d.errs = append(d.errs, &DecodeError{
					Field:   fmt.Sprintf("%s.entries[%d]", field, j),
					Message: err.Error(),
					Pos:     pos,
					Err:     err,
				})
			}
		}
	}
}

// create issues the Create* calls for objects[i]. Virtual objects and
// component ensembles are created by their owners.
func (d *decoder) create(i int) ir.Handle {
	od := &d.doc.Region.Objects[i]
	if od.Virtual || od.IsComponent {
		return ir.InvalidHandle
	}
	kind, _ := ir.ParseKind(od.Kind)
	s := d.s

	var (
		h   ir.Handle
		err error
	)
	switch kind {
	case ir.KindBooleanType:
		h, err = s.CreateBooleanType(od.Name)
	case ir.KindContinuousType:
		h, err = s.CreateContinuousType(od.Name)
		if err == nil {
			d.components(i, h, od)
		}
	case ir.KindEnsembleType:
		h, err = s.CreateEnsembleType(od.Name)
	case ir.KindMeshType:
		return d.createMesh(i, od)
	case ir.KindArgumentEvaluator, ir.KindExternalEvaluator, ir.KindConstantEvaluator,
		ir.KindParameterEvaluator, ir.KindPiecewiseEvaluator, ir.KindAggregateEvaluator:
		return d.createEvaluator(i, kind, od)
	case ir.KindReferenceEvaluator:
		source, ok := d.lookup(i, "source", od.Source)
		if !ok {
			return ir.InvalidHandle
		}
		h, err = s.CreateReferenceEvaluator(od.Name, source)
	case ir.KindDataResource:
		return d.createResource(i, od)
	case ir.KindDataSource:
		return d.createSource(i, od)
	}
	d.fail(i, "", err)
	return h
}

func (d *decoder) components(i int, typ ir.Handle, od *ir.ObjectDoc) {
	if od.ComponentEnsemble == "" {
		return
	}
	_, err := d.s.CreateContinuousTypeComponents(typ, od.ComponentEnsemble, od.Components)
	d.fail(i, "component_ensemble", err)
}

func (d *decoder) createMesh(i int, od *ir.ObjectDoc) ir.Handle {
	s := d.s
	mesh, err := s.CreateMeshType(od.Name)
	if d.fail(i, "", err) {
		return ir.InvalidHandle
	}
	if od.Elements != "" {
		_, err := s.CreateMeshElementsType(mesh, od.Elements)
		d.fail(i, "elements", err)
	}
	if od.Chart != "" {
		chart, err := s.CreateMeshChartType(mesh, od.Chart)
		if !d.fail(i, "chart", err) {
			d.components(i, chart, od)
		}
	}
	return mesh
}

func (d *decoder) createEvaluator(i int, kind ir.ObjectKind, od *ir.ObjectDoc) ir.Handle {
	s := d.s
	valueType, ok := d.lookup(i, "value_type", od.ValueType)
	if !ok {
		return ir.InvalidHandle
	}

	var (
		h   ir.Handle
		err error
	)
	switch kind {
	case ir.KindArgumentEvaluator:
		h, err = s.CreateArgumentEvaluator(od.Name, valueType)
	case ir.KindExternalEvaluator:
		h, err = s.CreateExternalEvaluator(od.Name, valueType)
	case ir.KindConstantEvaluator:
		h, err = s.CreateConstantEvaluator(od.Name, od.Value, valueType)
	case ir.KindParameterEvaluator:
		h, err = s.CreateParameterEvaluator(od.Name, valueType)
	case ir.KindPiecewiseEvaluator:
		h, err = s.CreatePiecewiseEvaluator(od.Name, valueType)
	case ir.KindAggregateEvaluator:
		h, err = s.CreateAggregateEvaluator(od.Name, valueType)
	}
	d.fail(i, "", err)
	return h
}

func (d *decoder) createResource(i int, od *ir.ObjectDoc) ir.Handle {
	s := d.s
	if od.Resource == nil {
		d.fail(i, "resource", fmt.Errorf("data resource %q has no resource block", od.Name))
		return ir.InvalidHandle
	}
	switch od.Resource.Type {
	case ir.ResourceHref.String():
		h, err := s.CreateHrefDataResource(od.Name, od.Resource.Format, od.Resource.Href)
		d.fail(i, "resource", err)
		return h
	case ir.ResourceInline.String():
		h, err := s.CreateInlineDataResource(od.Name)
		if d.fail(i, "resource", err) {
			return ir.InvalidHandle
		}
		if od.Resource.Inline != "" {
			d.fail(i, "resource.inline", s.SetInlineData(h, od.Resource.Inline))
		}
		return h
	}
	d.fail(i, "resource.type", fmt.Errorf("unknown resource type %q", od.Resource.Type))
	return ir.InvalidHandle
}

func (d *decoder) createSource(i int, od *ir.ObjectDoc) ir.Handle {
	if od.Array == nil {
		d.fail(i, "array", fmt.Errorf("data source %q has no array block", od.Name))
		return ir.InvalidHandle
	}
	resource, ok := d.lookup(i, "array.resource", od.Array.Resource)
	if !ok {
		return ir.InvalidHandle
	}
	h, err := d.s.CreateArrayDataSource(od.Name, resource, od.Array.Location, od.Array.Rank)
	d.fail(i, "array", err)
	return h
}

// wire issues the Set* and Add* calls for objects[i]. Objects whose
// creation failed are skipped; their failure is already recorded.
func (d *decoder) wire(i int) {
	h := d.handles[i]
	if !h.Valid() {
		return
	}
	od := &d.doc.Region.Objects[i]
	kind, _ := ir.ParseKind(od.Kind)

	switch kind {
	case ir.KindEnsembleType:
		d.members(i, h, od)
	case ir.KindMeshType:
		d.members(i, h, od)
		if shapes, ok := d.lookup(i, "shapes", od.Shapes); ok && shapes.Valid() {
			d.fail(i, "shapes", d.s.SetMeshShapes(h, shapes))
		}
	case ir.KindArgumentEvaluator, ir.KindExternalEvaluator:
		d.arguments(i, h, od)
	case ir.KindReferenceEvaluator:
		d.binds(i, h, od)
	case ir.KindPiecewiseEvaluator, ir.KindAggregateEvaluator:
		d.branches(i, h, od)
		d.binds(i, h, od)
	case ir.KindParameterEvaluator:
		d.data(i, h, od)
		d.binds(i, h, od)
	case ir.KindDataSource:
		d.extents(i, h, od)
	}
}

func (d *decoder) members(i int, h ir.Handle, od *ir.ObjectDoc) {
	m := od.Members
	if m == nil {
		return
	}
	membersType, ok := ir.ParseMembersType(m.Type)
	switch {
	case !ok || membersType == ir.MembersUnknown:
		d.fail(i, "members.type", fmt.Errorf("unknown members type %q", m.Type))
	case membersType == ir.MembersRange:
		stride := m.Stride
		if stride == 0 {
			stride = 1
		}
		d.fail(i, "members", d.s.SetEnsembleMembersRange(h, m.Min, m.Max, stride))
	default:
		source, ok := d.lookup(i, "members.data_source", m.DataSource)
		if !ok {
			return
		}
		d.fail(i, "members", d.s.SetEnsembleMembersDataSource(h, membersType, m.Count, source))
	}
}

func (d *decoder) arguments(i int, h ir.Handle, od *ir.ObjectDoc) {
	for _, name := range od.Arguments {
		arg, ok := d.lookup(i, "arguments", name)
		if !ok {
			continue
		}
		d.fail(i, "arguments", d.s.AddArgument(h, arg))
	}
}

func (d *decoder) binds(i int, h ir.Handle, od *ir.ObjectDoc) {
	for _, b := range od.Binds {
		arg, ok := d.lookup(i, "binds", b.Argument)
		if !ok {
			continue
		}
		source, ok := d.lookup(i, "binds", b.Source)
		if !ok {
			continue
		}
		d.fail(i, "binds", d.s.SetBind(h, arg, source))
	}
}

func (d *decoder) branches(i int, h ir.Handle, od *ir.ObjectDoc) {
	s := d.s
	if index, ok := d.lookup(i, "index", od.Index); ok && index.Valid() {
		d.fail(i, "index", s.SetIndexEvaluator(h, 1, index))
	}
	for _, e := range od.Evaluators {
		eval, ok := d.lookup(i, "evaluators", e.Evaluator)
		if !ok {
			continue
		}
		d.fail(i, "evaluators", s.SetEvaluator(h, e.Element, eval))
	}
	if def, ok := d.lookup(i, "default", od.Default); ok && def.Valid() {
		d.fail(i, "default", s.SetDefaultEvaluator(h, def))
	}
}

func (d *decoder) data(i int, h ir.Handle, od *ir.ObjectDoc) {
	s := d.s
	dd := od.Data
	if dd == nil {
		return
	}
	t, ok := ir.ParseDescriptionType(dd.Type)
	if !ok {
		d.fail(i, "data.type", fmt.Errorf("unknown data description %q", dd.Type))
		return
	}
	if d.fail(i, "data.type", s.SetParameterDataDescription(h, t)) {
		return
	}
	for _, name := range dd.SparseIndexes {
		index, ok := d.lookup(i, "data.sparse_indexes", name)
		if !ok {
			continue
		}
		d.fail(i, "data.sparse_indexes", s.AddSparseIndexEvaluator(h, index))
	}
	for _, di := range dd.DenseIndexes {
		index, ok := d.lookup(i, "data.dense_indexes", di.Evaluator)
		if !ok {
			continue
		}
		order, ok := d.lookup(i, "data.dense_indexes", di.Order)
		if !ok {
			continue
		}
		d.fail(i, "data.dense_indexes", s.AddDenseIndexEvaluator(h, index, order))
	}
	if source, ok := d.lookup(i, "data.data_source", dd.DataSource); ok && source.Valid() {
		d.fail(i, "data.data_source", s.SetDataSource(h, source))
	}
	if keys, ok := d.lookup(i, "data.key_source", dd.KeySource); ok && keys.Valid() {
		d.fail(i, "data.key_source", s.SetKeyDataSource(h, keys))
	}
}

func (d *decoder) extents(i int, h ir.Handle, od *ir.ObjectDoc) {
	a := od.Array
	if a == nil {
		return
	}
	s := d.s
	if len(a.Sizes) > 0 {
		d.fail(i, "array.sizes", s.SetArrayDataSourceSizes(h, a.Sizes))
	}
	if len(a.RawSizes) > 0 {
		d.fail(i, "array.raw_sizes", s.SetArrayDataSourceRawSizes(h, a.RawSizes))
	}
	if len(a.Offsets) > 0 {
		d.fail(i, "array.offsets", s.SetArrayDataSourceOffsets(h, a.Offsets))
	}
}
