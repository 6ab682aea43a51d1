package fieldml

import (
	"strings"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// createEvaluator validates name and value type, then registers o.
func (s *Session) createEvaluator(op, name string, valueType ir.Handle, typeParam int, allowed typeSet, o ir.Evaluator) (ir.Handle, error) {
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	if err := s.checkLocal(op, valueType); err != nil {
		return ir.InvalidHandle, err
	}
	if err := s.checkValueType(op, valueType, typeParam, allowed); err != nil {
		return ir.InvalidHandle, err
	}
	return s.addObject(op, o)
}

func evaluatorBase(name string, valueType ir.Handle) ir.EvaluatorBase {
	return ir.EvaluatorBase{Base: ir.Base{Name: name}, ValueType: valueType}
}

// CreateArgumentEvaluator creates a free variable of the given type. A mesh
// typed argument also gets virtual "<name>.<chart>" and "<name>.<elements>"
// sub-arguments typed at the mesh's chart and elements types; either name
// already being taken aborts the whole operation.
func (s *Session) CreateArgumentEvaluator(name string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreateArgumentEvaluator"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	if err := s.checkLocal(op, valueType); err != nil {
		return ir.InvalidHandle, err
	}
	if err := s.checkValueType(op, valueType, 2, allowValueTypes|allowMesh); err != nil {
		return ir.InvalidHandle, err
	}

	arg := &ir.ArgumentEvaluator{EvaluatorBase: evaluatorBase(name, valueType)}
	mesh, isMesh := s.mustGet(valueType).(*ir.MeshType)
	if !isMesh {
		return s.addObject(op, arg)
	}

	if !mesh.ChartType.Valid() || !mesh.ElementsType.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeMisconfiguredObject, "mesh %s lacks a chart or elements type", s.describe(valueType))
	}
	if err := s.checkName(op, name, 1); err != nil {
		return ir.InvalidHandle, err
	}
	chartName := name + "." + s.meshSuffix(mesh, mesh.ChartType, "chart")
	elementsName := name + "." + s.meshSuffix(mesh, mesh.ElementsType, "elements")
	for _, sub := range []string{chartName, elementsName} {
		if s.region.NamedObject(sub).Valid() {
			return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "sub-argument name %q is already in use", sub)
		}
	}

	chart := &ir.ArgumentEvaluator{EvaluatorBase: evaluatorBase(chartName, mesh.ChartType)}
	chart.Virtual = true
	chartHandle, err := s.addObject(op, chart)
	if err != nil {
		return ir.InvalidHandle, err
	}
	elements := &ir.ArgumentEvaluator{EvaluatorBase: evaluatorBase(elementsName, mesh.ElementsType)}
	elements.Virtual = true
	elementsHandle, err := s.addObject(op, elements)
	if err != nil {
		return ir.InvalidHandle, err
	}

	arg.Arguments.Insert(chartHandle)
	arg.Arguments.Insert(elementsHandle)
	return s.addObject(op, arg)
}

// meshSuffix derives a sub-argument suffix from a mesh part's declared name
// by stripping the "<mesh>." prefix.
func (s *Session) meshSuffix(mesh *ir.MeshType, part ir.Handle, fallback string) string {
	o, ok := s.objects.Get(part)
	if !ok {
		return fallback
	}
	if rest, ok := strings.CutPrefix(o.DeclaredName(), mesh.Name+"."); ok && rest != "" {
		return rest
	}
	return fallback
}

func (s *Session) mustGet(h ir.Handle) ir.Object {
	o, _ := s.objects.Get(h)
	return o
}

// CreateExternalEvaluator creates an externally defined function.
func (s *Session) CreateExternalEvaluator(name string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreateExternalEvaluator"
	s.begin(op)
	return s.createEvaluator(op, name, valueType, 2, allowValueTypes,
		&ir.ExternalEvaluator{EvaluatorBase: evaluatorBase(name, valueType)})
}

// CreateConstantEvaluator creates a leaf holding literal verbatim.
func (s *Session) CreateConstantEvaluator(name, literal string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreateConstantEvaluator"
	s.begin(op)
	return s.createEvaluator(op, name, valueType, 3, allowValueTypes,
		&ir.ConstantEvaluator{EvaluatorBase: evaluatorBase(name, valueType), Value: literal})
}

// ConstantValueString returns the literal of a constant evaluator.
func (s *Session) ConstantValueString(h ir.Handle) (string, error) {
	const op = "ConstantValueString"
	s.begin(op)
	c, err := as[*ir.ConstantEvaluator](s, op, h)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// CreateParameterEvaluator creates a data-backed evaluator with an UNKNOWN
// data description.
func (s *Session) CreateParameterEvaluator(name string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreateParameterEvaluator"
	s.begin(op)
	return s.createEvaluator(op, name, valueType, 2, allowValueTypes,
		&ir.ParameterEvaluator{EvaluatorBase: evaluatorBase(name, valueType)})
}

// CreateReferenceEvaluator creates an evaluator re-exposing source. Its value
// type is the source's.
func (s *Session) CreateReferenceEvaluator(name string, source ir.Handle) (ir.Handle, error) {
	const op = "CreateReferenceEvaluator"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	if err := s.checkLocal(op, source); err != nil {
		return ir.InvalidHandle, err
	}
	src, ok := s.mustGet(source).(ir.Evaluator)
	if !ok {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "source %s is not an evaluator", s.describe(source))
	}
	return s.addObject(op, &ir.ReferenceEvaluator{
		EvaluatorBase: evaluatorBase(name, src.ValueTypeHandle()),
		Source:        source,
		Binds:         ir.NewMap[ir.Handle](),
	})
}

// ReferenceSourceEvaluator returns the evaluator a reference re-exposes.
func (s *Session) ReferenceSourceEvaluator(h ir.Handle) (ir.Handle, error) {
	const op = "ReferenceSourceEvaluator"
	s.begin(op)
	r, err := as[*ir.ReferenceEvaluator](s, op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return r.Source, nil
}

// CreatePiecewiseEvaluator creates an evaluator that picks a per-element
// evaluator through its index evaluator.
func (s *Session) CreatePiecewiseEvaluator(name string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreatePiecewiseEvaluator"
	s.begin(op)
	return s.createEvaluator(op, name, valueType, 2, allowValueTypes, &ir.PiecewiseEvaluator{
		EvaluatorBase: evaluatorBase(name, valueType),
		Evaluators:    ir.NewMap[int](),
		Binds:         ir.NewMap[ir.Handle](),
	})
}

// CreateAggregateEvaluator creates an evaluator assembling a continuous value
// from per-component evaluators.
func (s *Session) CreateAggregateEvaluator(name string, valueType ir.Handle) (ir.Handle, error) {
	const op = "CreateAggregateEvaluator"
	s.begin(op)
	return s.createEvaluator(op, name, valueType, 2, allowContinuous, &ir.AggregateEvaluator{
		EvaluatorBase: evaluatorBase(name, valueType),
		Evaluators:    ir.NewMap[int](),
		Binds:         ir.NewMap[ir.Handle](),
	})
}

// AddArgument declares that an argument or external evaluator takes argument.
func (s *Session) AddArgument(h, argument ir.Handle) error {
	const op = "AddArgument"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, argument); err != nil {
		return err
	}
	o, err := s.object(op, h)
	if err != nil {
		return err
	}
	if _, ok := s.mustGet(argument).(*ir.ArgumentEvaluator); !ok {
		return s.fail(op, CodeInvalidParameter2, "%s is not an argument evaluator", s.describe(argument))
	}
	switch v := o.(type) {
	case *ir.ArgumentEvaluator:
		if argument == h {
			return s.fail(op, CodeCyclicDependency, "%s cannot contain itself", s.describe(h))
		}
		v.Arguments.Insert(argument)
	case *ir.ExternalEvaluator:
		v.Arguments.Insert(argument)
	default:
		return s.fail(op, CodeInvalidObject, "%s is a %s and declares no arguments", s.describe(h), o.Kind())
	}
	return nil
}
