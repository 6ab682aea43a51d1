package fieldml

import (
	"strings"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// CreateBooleanType creates a boolean value type.
func (s *Session) CreateBooleanType(name string) (ir.Handle, error) {
	const op = "CreateBooleanType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	return s.addObject(op, &ir.BooleanType{Base: ir.Base{Name: name}})
}

// CreateContinuousType creates a scalar continuous type.
func (s *Session) CreateContinuousType(name string) (ir.Handle, error) {
	const op = "CreateContinuousType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	return s.addObject(op, &ir.ContinuousType{Base: ir.Base{Name: name}})
}

// CreateContinuousTypeComponents gives a scalar continuous type count
// components by creating a component ensemble with members 1..count. A name
// starting with "~." is prefixed with the continuous type's name.
func (s *Session) CreateContinuousTypeComponents(typ ir.Handle, name string, count int) (ir.Handle, error) {
	const op = "CreateContinuousTypeComponents"
	s.begin(op)
	if err := s.checkLocal(op, typ); err != nil {
		return ir.InvalidHandle, err
	}
	cont, err := as[*ir.ContinuousType](s, op, typ)
	if err != nil {
		return ir.InvalidHandle, err
	}
	if cont.ComponentType.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeInvalidObject, "%s already has components", s.describe(typ))
	}
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "name must not be empty")
	}
	if count < 1 {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter3, "component count %d must be positive", count)
	}

	if rest, ok := strings.CutPrefix(name, "~."); ok {
		name = cont.Name + "." + rest
	}

	ensemble := &ir.EnsembleType{
		Base:              ir.Base{Name: name},
		ComponentEnsemble: true,
	}
	setRange(ensemble, 1, count, 1)
	h, err := s.addObject(op, ensemble)
	if err != nil {
		return ir.InvalidHandle, err
	}
	cont.ComponentType = h
	return h, nil
}

// TypeComponentEnsemble returns the component ensemble of a continuous type,
// or InvalidHandle for a scalar.
func (s *Session) TypeComponentEnsemble(typ ir.Handle) (ir.Handle, error) {
	const op = "TypeComponentEnsemble"
	s.begin(op)
	cont, err := as[*ir.ContinuousType](s, op, typ)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return cont.ComponentType, nil
}

// TypeComponentCount returns the number of components of a continuous type;
// scalars have one.
func (s *Session) TypeComponentCount(typ ir.Handle) (int, error) {
	const op = "TypeComponentCount"
	s.begin(op)
	cont, err := as[*ir.ContinuousType](s, op, typ)
	if err != nil {
		return -1, err
	}
	if !cont.ComponentType.Valid() {
		return 1, nil
	}
	return s.memberCount(cont.ComponentType), nil
}

// CreateEnsembleType creates an ensemble with no members.
func (s *Session) CreateEnsembleType(name string) (ir.Handle, error) {
	const op = "CreateEnsembleType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	return s.addObject(op, &ir.EnsembleType{Base: ir.Base{Name: name}})
}

// IsEnsembleComponentType reports whether h was created as a component ensemble.
func (s *Session) IsEnsembleComponentType(h ir.Handle) (bool, error) {
	const op = "IsEnsembleComponentType"
	s.begin(op)
	e, err := as[*ir.EnsembleType](s, op, h)
	if err != nil {
		return false, err
	}
	return e.ComponentEnsemble, nil
}

// ensembleOf resolves h to an ensemble, following a mesh to its elements.
func (s *Session) ensembleOf(op string, h ir.Handle) (*ir.EnsembleType, error) {
	o, err := s.object(op, h)
	if err != nil {
		return nil, err
	}
	switch v := o.(type) {
	case *ir.EnsembleType:
		return v, nil
	case *ir.MeshType:
		if !v.ElementsType.Valid() {
			return nil, s.fail(op, CodeMisconfiguredObject, "mesh %s has no elements type", s.describe(h))
		}
		return as[*ir.EnsembleType](s, op, v.ElementsType)
	}
	return nil, s.fail(op, CodeInvalidObject, "%s is a %s, not an ensemble or mesh", s.describe(h), o.Kind())
}

func setRange(e *ir.EnsembleType, lo, hi, stride int) {
	e.MembersType = ir.MembersRange
	e.Min = lo
	e.Max = hi
	e.Stride = stride
	e.Count = (hi-lo)/stride + 1
	e.DataSource = ir.InvalidHandle
}

// SetEnsembleMembersRange sets the members of an ensemble (or a mesh's
// elements) to min..max in steps of stride.
func (s *Session) SetEnsembleMembersRange(h ir.Handle, minElement, maxElement, stride int) error {
	const op = "SetEnsembleMembersRange"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return err
	}
	if minElement < 0 || minElement > maxElement {
		return s.fail(op, CodeInvalidParameter2, "invalid range %d..%d", minElement, maxElement)
	}
	if stride < 1 {
		return s.fail(op, CodeInvalidParameter4, "stride %d must be positive", stride)
	}
	setRange(e, minElement, maxElement, stride)
	return nil
}

// SetEnsembleMembersDataSource delegates an ensemble's membership to a data
// source. membersType must be one of the *_DATA kinds.
func (s *Session) SetEnsembleMembersDataSource(h ir.Handle, membersType ir.EnsembleMembersType, count int, source ir.Handle) error {
	const op = "SetEnsembleMembersDataSource"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, source); err != nil {
		return err
	}
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return err
	}
	if !membersType.IsData() {
		return s.fail(op, CodeInvalidParameter2, "members type %s is not a data type", membersType)
	}
	if count < 0 {
		return s.fail(op, CodeInvalidParameter3, "member count %d must not be negative", count)
	}
	if _, ok := s.dataSource(source); !ok {
		return s.fail(op, CodeInvalidParameter4, "%s is not a data source", s.describe(source))
	}
	e.MembersType = membersType
	e.Count = count
	e.Min, e.Max, e.Stride = 0, 0, 0
	e.DataSource = source
	return nil
}

// MemberCount returns the number of members of an ensemble or mesh.
func (s *Session) MemberCount(h ir.Handle) (int, error) {
	const op = "MemberCount"
	s.begin(op)
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return -1, err
	}
	return e.Count, nil
}

// EnsembleMembersMin returns the lowest member of a range ensemble.
func (s *Session) EnsembleMembersMin(h ir.Handle) (int, error) {
	const op = "EnsembleMembersMin"
	s.begin(op)
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return -1, err
	}
	return e.Min, nil
}

// EnsembleMembersMax returns the highest member of a range ensemble.
func (s *Session) EnsembleMembersMax(h ir.Handle) (int, error) {
	const op = "EnsembleMembersMax"
	s.begin(op)
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return -1, err
	}
	return e.Max, nil
}

// EnsembleMembersStride returns the stride of a range ensemble.
func (s *Session) EnsembleMembersStride(h ir.Handle) (int, error) {
	const op = "EnsembleMembersStride"
	s.begin(op)
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return -1, err
	}
	return e.Stride, nil
}

// EnsembleMembersType returns how an ensemble's members are described.
func (s *Session) EnsembleMembersType(h ir.Handle) (ir.EnsembleMembersType, error) {
	const op = "EnsembleMembersType"
	s.begin(op)
	e, err := s.ensembleOf(op, h)
	if err != nil {
		return ir.MembersUnknown, err
	}
	return e.MembersType, nil
}

// CreateMeshType creates a mesh type. Its elements and chart types are added
// with CreateMeshElementsType and CreateMeshChartType.
func (s *Session) CreateMeshType(name string) (ir.Handle, error) {
	const op = "CreateMeshType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	return s.addObject(op, &ir.MeshType{Base: ir.Base{Name: name}})
}

// CreateMeshElementsType creates the virtual ensemble "<mesh>.<name>"
// enumerating the mesh's elements.
func (s *Session) CreateMeshElementsType(mesh ir.Handle, name string) (ir.Handle, error) {
	const op = "CreateMeshElementsType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "name must not be empty")
	}
	if err := s.checkLocal(op, mesh); err != nil {
		return ir.InvalidHandle, err
	}
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	if m.ElementsType.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeAccessViolation, "mesh %s already has an elements type", s.describe(mesh))
	}
	h, err := s.addObject(op, &ir.EnsembleType{Base: ir.Base{Name: m.Name + "." + name, Virtual: true}})
	if err != nil {
		return ir.InvalidHandle, err
	}
	m.ElementsType = h
	return h, nil
}

// CreateMeshChartType creates the virtual continuous type "<mesh>.<name>"
// giving the mesh's local coordinates.
func (s *Session) CreateMeshChartType(mesh ir.Handle, name string) (ir.Handle, error) {
	const op = "CreateMeshChartType"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "name must not be empty")
	}
	if err := s.checkLocal(op, mesh); err != nil {
		return ir.InvalidHandle, err
	}
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	if m.ChartType.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeAccessViolation, "mesh %s already has a chart type", s.describe(mesh))
	}
	h, err := s.addObject(op, &ir.ContinuousType{Base: ir.Base{Name: m.Name + "." + name, Virtual: true}})
	if err != nil {
		return ir.InvalidHandle, err
	}
	m.ChartType = h
	return h, nil
}

// MeshElementsType returns the elements ensemble of a mesh.
func (s *Session) MeshElementsType(mesh ir.Handle) (ir.Handle, error) {
	const op = "MeshElementsType"
	s.begin(op)
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return m.ElementsType, nil
}

// MeshChartType returns the chart type of a mesh.
func (s *Session) MeshChartType(mesh ir.Handle) (ir.Handle, error) {
	const op = "MeshChartType"
	s.begin(op)
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return m.ChartType, nil
}

// MeshChartComponentType returns the component ensemble of a mesh's chart.
func (s *Session) MeshChartComponentType(mesh ir.Handle) (ir.Handle, error) {
	const op = "MeshChartComponentType"
	s.begin(op)
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	chart, err := as[*ir.ContinuousType](s, op, m.ChartType)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return chart.ComponentType, nil
}

// SetMeshShapes sets the boolean-valued evaluator describing element shapes.
func (s *Session) SetMeshShapes(mesh, shapes ir.Handle) error {
	const op = "SetMeshShapes"
	s.begin(op)
	if err := s.checkLocal(op, mesh); err != nil {
		return err
	}
	if err := s.checkLocal(op, shapes); err != nil {
		return err
	}
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return err
	}
	if err := s.checkEvaluatorType(op, shapes, 2, allowBoolean); err != nil {
		return err
	}
	m.Shapes = shapes
	return nil
}

// MeshShapes returns the shapes evaluator of a mesh.
func (s *Session) MeshShapes(mesh ir.Handle) (ir.Handle, error) {
	const op = "MeshShapes"
	s.begin(op)
	m, err := as[*ir.MeshType](s, op, mesh)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return m.Shapes, nil
}
