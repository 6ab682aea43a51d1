package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// SetBind binds argument to source within a reference, piecewise or
// aggregate evaluator. Rebinding an argument replaces its source.
func (s *Session) SetBind(h, argument, source ir.Handle) error {
	const op = "SetBind"
	s.begin(op)
	for _, x := range []ir.Handle{h, argument, source} {
		if err := s.checkLocal(op, x); err != nil {
			return err
		}
	}
	o, err := s.object(op, h)
	if err != nil {
		return err
	}
	binds, ok := ir.BindsOf(o)
	if !ok {
		return s.fail(op, CodeInvalidObject, "%s is a %s and has no binds", s.describe(h), o.Kind())
	}
	if _, ok := s.mustGet(argument).(*ir.ArgumentEvaluator); !ok {
		return s.fail(op, CodeInvalidParameter2, "%s is not an argument evaluator", s.describe(argument))
	}
	if !s.evaluatorsCompatible(argument, source) {
		return s.fail(op, CodeInvalidParameter3, "%s is not type-compatible with %s", s.describe(source), s.describe(argument))
	}
	if err := s.checkCycle(op, h, source); err != nil {
		return err
	}
	binds.Set(argument, source)
	return nil
}

func (s *Session) bindsOf(op string, h ir.Handle) (*ir.Map[ir.Handle], error) {
	o, err := s.object(op, h)
	if err != nil {
		return nil, err
	}
	binds, ok := ir.BindsOf(o)
	if !ok {
		return nil, s.fail(op, CodeInvalidObject, "%s is a %s and has no binds", s.describe(h), o.Kind())
	}
	return binds, nil
}

// BindCount returns the number of binds on h.
func (s *Session) BindCount(h ir.Handle) (int, error) {
	const op = "BindCount"
	s.begin(op)
	binds, err := s.bindsOf(op, h)
	if err != nil {
		return -1, err
	}
	return binds.Len(), nil
}

func (s *Session) bindAt(op string, h ir.Handle, i int) (ir.Entry[ir.Handle], error) {
	binds, err := s.bindsOf(op, h)
	if err != nil {
		return ir.Entry[ir.Handle]{}, err
	}
	if i < 1 || i > binds.Len() {
		return ir.Entry[ir.Handle]{}, s.fail(op, CodeInvalidParameter2, "bind %d out of range 1..%d", i, binds.Len())
	}
	return binds.At(i - 1), nil
}

// BindArgument returns the argument of the i-th bind (1-based).
func (s *Session) BindArgument(h ir.Handle, i int) (ir.Handle, error) {
	const op = "BindArgument"
	s.begin(op)
	e, err := s.bindAt(op, h, i)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return e.Key, nil
}

// BindEvaluator returns the source of the i-th bind (1-based).
func (s *Session) BindEvaluator(h ir.Handle, i int) (ir.Handle, error) {
	const op = "BindEvaluator"
	s.begin(op)
	e, err := s.bindAt(op, h, i)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return e.Value, nil
}

// BindByArgument returns the source bound to argument, or InvalidHandle.
func (s *Session) BindByArgument(h, argument ir.Handle) (ir.Handle, error) {
	const op = "BindByArgument"
	s.begin(op)
	binds, err := s.bindsOf(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return binds.Get(argument, false), nil
}

func (s *Session) elementsOf(op string, h ir.Handle) (*ir.Map[int], error) {
	o, err := s.object(op, h)
	if err != nil {
		return nil, err
	}
	m, ok := ir.ElementsOf(o)
	if !ok {
		return nil, s.fail(op, CodeInvalidObject, "%s is a %s and has no element map", s.describe(h), o.Kind())
	}
	return m, nil
}

// checkBranch validates eval as an element-map value of h. Aggregate
// branches supply single components, so any continuous evaluator fits.
func (s *Session) checkBranch(op string, h, eval ir.Handle, param int) error {
	if _, ok := s.mustGet(h).(*ir.AggregateEvaluator); ok {
		return s.checkEvaluatorType(op, eval, param, allowContinuous)
	}
	if !s.evaluatorsCompatible(h, eval) {
		return s.fail(op, InvalidParameter(param), "%s is not type-compatible with %s", s.describe(eval), s.describe(h))
	}
	return nil
}

// SetEvaluator maps element to eval in a piecewise or aggregate evaluator.
// Aggregate elements are component numbers 1..N of the value type.
func (s *Session) SetEvaluator(h ir.Handle, element int, eval ir.Handle) error {
	const op = "SetEvaluator"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, eval); err != nil {
		return err
	}
	m, err := s.elementsOf(op, h)
	if err != nil {
		return err
	}
	if agg, ok := s.mustGet(h).(*ir.AggregateEvaluator); ok {
		n := s.componentCount(agg.ValueType)
		if element < 1 || element > n {
			return s.fail(op, CodeInvalidParameter2, "component %d out of range 1..%d", element, n)
		}
	}
	if err := s.checkBranch(op, h, eval, 3); err != nil {
		return err
	}
	if err := s.checkCycle(op, h, eval); err != nil {
		return err
	}
	m.Set(element, eval)
	return nil
}

func (s *Session) componentCount(typ ir.Handle) int {
	c, ok := s.mustGet(typ).(*ir.ContinuousType)
	if !ok {
		return 0
	}
	if !c.ComponentType.Valid() {
		return 1
	}
	return s.memberCount(c.ComponentType)
}

// SetDefaultEvaluator sets the evaluator used for elements with no explicit entry.
func (s *Session) SetDefaultEvaluator(h, eval ir.Handle) error {
	const op = "SetDefaultEvaluator"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, eval); err != nil {
		return err
	}
	m, err := s.elementsOf(op, h)
	if err != nil {
		return err
	}
	if err := s.checkBranch(op, h, eval, 2); err != nil {
		return err
	}
	if err := s.checkCycle(op, h, eval); err != nil {
		return err
	}
	m.Default = eval
	return nil
}

// DefaultEvaluator returns the default branch, or InvalidHandle.
func (s *Session) DefaultEvaluator(h ir.Handle) (ir.Handle, error) {
	const op = "DefaultEvaluator"
	s.begin(op)
	m, err := s.elementsOf(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return m.Default, nil
}

// EvaluatorCount returns the number of explicit element entries.
func (s *Session) EvaluatorCount(h ir.Handle) (int, error) {
	const op = "EvaluatorCount"
	s.begin(op)
	m, err := s.elementsOf(op, h)
	if err != nil {
		return -1, err
	}
	return m.Len(), nil
}

func (s *Session) elementAt(op string, h ir.Handle, i int) (ir.Entry[int], error) {
	m, err := s.elementsOf(op, h)
	if err != nil {
		return ir.Entry[int]{}, err
	}
	if i < 1 || i > m.Len() {
		return ir.Entry[int]{}, s.fail(op, CodeInvalidParameter2, "entry %d out of range 1..%d", i, m.Len())
	}
	return m.At(i - 1), nil
}

// EvaluatorElement returns the element number of the i-th entry (1-based).
func (s *Session) EvaluatorElement(h ir.Handle, i int) (int, error) {
	const op = "EvaluatorElement"
	s.begin(op)
	e, err := s.elementAt(op, h, i)
	if err != nil {
		return -1, err
	}
	return e.Key, nil
}

// Evaluator returns the evaluator of the i-th entry (1-based).
func (s *Session) Evaluator(h ir.Handle, i int) (ir.Handle, error) {
	const op = "Evaluator"
	s.begin(op)
	e, err := s.elementAt(op, h, i)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return e.Value, nil
}

// ElementEvaluator returns the evaluator for element, falling back to the
// default when allowDefault is set. Absent entries yield InvalidHandle.
func (s *Session) ElementEvaluator(h ir.Handle, element int, allowDefault bool) (ir.Handle, error) {
	const op = "ElementEvaluator"
	s.begin(op)
	m, err := s.elementsOf(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return m.Get(element, allowDefault), nil
}

// SetIndexEvaluator sets index evaluator i (1-based). Piecewise and
// aggregate evaluators have exactly one; a parameter's indexes are numbered
// sparse first, then dense.
func (s *Session) SetIndexEvaluator(h ir.Handle, i int, eval ir.Handle) error {
	const op = "SetIndexEvaluator"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, eval); err != nil {
		return err
	}
	o, err := s.object(op, h)
	if err != nil {
		return err
	}
	if err := s.checkEvaluatorType(op, eval, 3, allowEnsemble); err != nil {
		return err
	}
	if err := s.checkCycle(op, h, eval); err != nil {
		return err
	}

	switch v := o.(type) {
	case *ir.PiecewiseEvaluator:
		if i != 1 {
			return s.fail(op, CodeInvalidParameter2, "piecewise evaluators have a single index")
		}
		v.Index = eval
	case *ir.AggregateEvaluator:
		if i != 1 {
			return s.fail(op, CodeInvalidParameter2, "aggregate evaluators have a single index")
		}
		v.Index = eval
	case *ir.ParameterEvaluator:
		return s.setParameterIndex(op, v, i, eval)
	default:
		return s.fail(op, CodeInvalidObject, "%s is a %s and has no index evaluators", s.describe(h), o.Kind())
	}
	return nil
}

// IndexEvaluatorCount returns 1 for piecewise and aggregate evaluators and
// the total index count of a parameter.
func (s *Session) IndexEvaluatorCount(h ir.Handle) (int, error) {
	const op = "IndexEvaluatorCount"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return -1, err
	}
	switch v := o.(type) {
	case *ir.PiecewiseEvaluator, *ir.AggregateEvaluator:
		return 1, nil
	case *ir.ParameterEvaluator:
		if v.Description == nil {
			return -1, s.fail(op, CodeMisconfiguredObject, "%s has no data description", s.describe(h))
		}
		return len(v.Description.IndexEvaluators()), nil
	}
	return -1, s.fail(op, CodeInvalidObject, "%s is a %s and has no index evaluators", s.describe(h), o.Kind())
}

// IndexEvaluator returns index evaluator i (1-based).
func (s *Session) IndexEvaluator(h ir.Handle, i int) (ir.Handle, error) {
	const op = "IndexEvaluator"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	switch v := o.(type) {
	case *ir.PiecewiseEvaluator:
		if i != 1 {
			return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "piecewise evaluators have a single index")
		}
		return v.Index, nil
	case *ir.AggregateEvaluator:
		if i != 1 {
			return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "aggregate evaluators have a single index")
		}
		return v.Index, nil
	case *ir.ParameterEvaluator:
		if v.Description == nil {
			return ir.InvalidHandle, s.fail(op, CodeMisconfiguredObject, "%s has no data description", s.describe(h))
		}
		all := v.Description.IndexEvaluators()
		if i < 1 || i > len(all) {
			return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "index %d out of range 1..%d", i, len(all))
		}
		return all[i-1], nil
	}
	return ir.InvalidHandle, s.fail(op, CodeInvalidObject, "%s is a %s and has no index evaluators", s.describe(h), o.Kind())
}
