package fieldml

import (
	"slices"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// argSets holds the arguments an evaluator uses and the subset still unbound.
type argSets struct {
	used    map[ir.Handle]bool
	unbound map[ir.Handle]bool
}

func newArgSets() argSets {
	return argSets{used: make(map[ir.Handle]bool), unbound: make(map[ir.Handle]bool)}
}

func (a argSets) merge(b argSets) {
	for h := range b.used {
		a.used[h] = true
	}
	for h := range b.unbound {
		a.unbound[h] = true
	}
}

// collectArguments walks the evaluator graph below h. An argument is used
// when reachable; it stays unbound unless some evaluator on the path binds it.
// visiting guards against cyclic argument containment.
func (s *Session) collectArguments(h ir.Handle, addSelf bool, visiting map[ir.Handle]bool) argSets {
	out := newArgSets()
	if visiting[h] {
		return out
	}
	o, ok := s.objects.Get(h)
	if !ok {
		return out
	}
	visiting[h] = true
	defer delete(visiting, h)

	collect := func(child ir.Handle) {
		if child.Valid() {
			out.merge(s.collectArguments(child, true, visiting))
		}
	}

	switch v := o.(type) {
	case *ir.ArgumentEvaluator:
		if addSelf {
			out.used[h] = true
			out.unbound[h] = true
		}
		for _, a := range v.Arguments.Slice() {
			collect(a)
		}
	case *ir.ExternalEvaluator:
		for _, a := range v.Arguments.Slice() {
			collect(a)
		}
	case *ir.ParameterEvaluator:
		if v.Description != nil {
			for _, idx := range v.Description.IndexEvaluators() {
				collect(idx)
			}
		}
	case *ir.ReferenceEvaluator:
		collect(v.Source)
		s.applyBinds(out, v.Binds, visiting)
	case *ir.PiecewiseEvaluator:
		collect(v.Index)
		for _, e := range v.Evaluators.Values() {
			collect(e)
		}
		collect(v.Evaluators.Default)
		s.applyBinds(out, v.Binds, visiting)
	case *ir.AggregateEvaluator:
		collect(v.Index)
		for _, e := range v.Evaluators.Values() {
			collect(e)
		}
		collect(v.Evaluators.Default)
		s.applyBinds(out, v.Binds, visiting)
	}
	return out
}

// applyBinds resolves binds of used arguments: the bind source's own
// arguments join the sets, and every bound argument leaves the unbound set.
// Sources may introduce arguments bound by the same map, so this iterates
// to a fixpoint.
func (s *Session) applyBinds(out argSets, binds *ir.Map[ir.Handle], visiting map[ir.Handle]bool) {
	bound := make(map[ir.Handle]bool)
	for changed := true; changed; {
		changed = false
		for _, e := range binds.Entries() {
			if bound[e.Key] || !out.used[e.Key] {
				continue
			}
			bound[e.Key] = true
			changed = true
			out.merge(s.collectArguments(e.Value, true, visiting))
		}
	}
	for a := range bound {
		delete(out.unbound, a)
	}
}

// arguments returns the argument list selected by (unbound, used). Only
// (true, true), the unbound arguments, and (false, true), the used but bound
// arguments, can be non-empty.
func (s *Session) arguments(h ir.Handle, unbound, used bool) []ir.Handle {
	if !used {
		return []ir.Handle{}
	}
	sets := s.collectArguments(h, false, make(map[ir.Handle]bool))
	out := []ir.Handle{}
	for a := range sets.used {
		if sets.unbound[a] == unbound {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

// Arguments returns the arguments of an evaluator selected by (unbound, used),
// ascending by handle.
func (s *Session) Arguments(h ir.Handle, unbound, used bool) ([]ir.Handle, error) {
	const op = "Arguments"
	s.begin(op)
	if _, err := s.evaluator(op, h); err != nil {
		return nil, err
	}
	return s.arguments(h, unbound, used), nil
}

// ArgumentCount returns the size of the argument list selected by (unbound, used).
func (s *Session) ArgumentCount(h ir.Handle, unbound, used bool) (int, error) {
	const op = "ArgumentCount"
	s.begin(op)
	if _, err := s.evaluator(op, h); err != nil {
		return -1, err
	}
	return len(s.arguments(h, unbound, used)), nil
}

// Argument returns the i-th (1-based) entry of the argument list selected by
// (unbound, used).
func (s *Session) Argument(h ir.Handle, i int, unbound, used bool) (ir.Handle, error) {
	const op = "Argument"
	s.begin(op)
	if _, err := s.evaluator(op, h); err != nil {
		return ir.InvalidHandle, err
	}
	args := s.arguments(h, unbound, used)
	if i < 1 || i > len(args) {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "argument %d out of range 1..%d", i, len(args))
	}
	return args[i-1], nil
}
