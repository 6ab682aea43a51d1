package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// typeSet is the set of type kinds an operation accepts as a value type.
type typeSet uint8

const (
	allowBoolean typeSet = 1 << iota
	allowContinuous
	allowEnsemble
	allowMesh

	allowValueTypes = allowBoolean | allowContinuous | allowEnsemble
)

func (t typeSet) allows(k ir.ObjectKind) bool {
	switch k {
	case ir.KindBooleanType:
		return t&allowBoolean != 0
	case ir.KindContinuousType:
		return t&allowContinuous != 0
	case ir.KindEnsembleType:
		return t&allowEnsemble != 0
	case ir.KindMeshType:
		return t&allowMesh != 0
	}
	return false
}

// checkValueType fails with InvalidParameter(param) unless h is a type whose
// kind is in allowed.
func (s *Session) checkValueType(op string, h ir.Handle, param int, allowed typeSet) error {
	o, ok := s.objects.Get(h)
	if !ok {
		return s.fail(op, InvalidParameter(param), "value type %s does not exist", h)
	}
	if !allowed.allows(o.Kind()) {
		return s.fail(op, InvalidParameter(param), "%s (%s) is not an allowed value type here", s.describe(h), o.Kind())
	}
	return nil
}

// checkEvaluatorType fails with InvalidParameter(param) unless h is an
// evaluator whose value type kind is in allowed.
func (s *Session) checkEvaluatorType(op string, h ir.Handle, param int, allowed typeSet) error {
	o, ok := s.objects.Get(h)
	if !ok {
		return s.fail(op, InvalidParameter(param), "evaluator %s does not exist", h)
	}
	e, ok := o.(ir.Evaluator)
	if !ok {
		return s.fail(op, InvalidParameter(param), "%s is a %s, not an evaluator", s.describe(h), o.Kind())
	}
	vt, ok := s.objects.Get(e.ValueTypeHandle())
	if !ok || !allowed.allows(vt.Kind()) {
		return s.fail(op, InvalidParameter(param), "%s does not have an allowed value type", s.describe(h))
	}
	return nil
}

// memberCount returns the member count of an ensemble, or -1.
func (s *Session) memberCount(h ir.Handle) int {
	o, ok := s.objects.Get(h)
	if !ok {
		return -1
	}
	e, ok := o.(*ir.EnsembleType)
	if !ok {
		return -1
	}
	return e.Count
}

// typesCompatible implements value type compatibility. Ensembles are nominal;
// continuous types match on component count only. Meshes never match.
func (s *Session) typesCompatible(t1, t2 ir.Handle) bool {
	o1, ok := s.objects.Get(t1)
	if !ok {
		return false
	}
	o2, ok := s.objects.Get(t2)
	if !ok {
		return false
	}

	switch a := o1.(type) {
	case *ir.BooleanType:
		_, ok := o2.(*ir.BooleanType)
		return ok
	case *ir.EnsembleType:
		_, ok := o2.(*ir.EnsembleType)
		return ok && t1 == t2
	case *ir.ContinuousType:
		b, ok := o2.(*ir.ContinuousType)
		if !ok {
			return false
		}
		if !a.ComponentType.Valid() || !b.ComponentType.Valid() {
			return !a.ComponentType.Valid() && !b.ComponentType.Valid()
		}
		return s.memberCount(a.ComponentType) == s.memberCount(b.ComponentType)
	}
	return false
}

// evaluatorsCompatible reports whether two evaluators have compatible value types.
func (s *Session) evaluatorsCompatible(e1, e2 ir.Handle) bool {
	o1, ok := s.objects.Get(e1)
	if !ok {
		return false
	}
	o2, ok := s.objects.Get(e2)
	if !ok {
		return false
	}
	a, ok := o1.(ir.Evaluator)
	if !ok {
		return false
	}
	b, ok := o2.(ir.Evaluator)
	if !ok {
		return false
	}
	return s.typesCompatible(a.ValueTypeHandle(), b.ValueTypeHandle())
}

// TypesCompatible reports whether values of type t1 may stand in for values
// of type t2. The relation is symmetric.
func (s *Session) TypesCompatible(t1, t2 ir.Handle) bool {
	s.begin("TypesCompatible")
	return s.typesCompatible(t1, t2)
}
