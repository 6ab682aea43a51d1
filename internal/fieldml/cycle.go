package fieldml

import (
	"slices"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// delegates returns every object reachable from h through evaluator
// dependency edges: reference sources, binds, element maps, defaults and
// index evaluators.
func (s *Session) delegates(h ir.Handle) map[ir.Handle]bool {
	seen := make(map[ir.Handle]bool)
	stack := []ir.Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		o, ok := s.objects.Get(cur)
		if !ok {
			continue
		}
		for _, d := range ir.Dependencies(o) {
			if !seen[d] {
				seen[d] = true
				stack = append(stack, d)
			}
		}
	}
	return seen
}

// checkCycle rejects a new edge target -> dep if dep already reaches target.
func (s *Session) checkCycle(op string, target, dep ir.Handle) error {
	if !dep.Valid() {
		return nil
	}
	if dep == target || s.delegates(dep)[target] {
		return s.fail(op, CodeCyclicDependency, "%s would depend on itself through %s", s.describe(target), s.describe(dep))
	}
	return nil
}

// Dependencies returns the objects h directly depends on, in a stable order.
func (s *Session) Dependencies(h ir.Handle) ([]ir.Handle, error) {
	const op = "Dependencies"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return nil, err
	}
	return ir.Dependencies(o), nil
}

// Delegates returns every object h transitively depends on, ascending.
func (s *Session) Delegates(h ir.Handle) ([]ir.Handle, error) {
	const op = "Delegates"
	s.begin(op)
	if _, err := s.object(op, h); err != nil {
		return nil, err
	}
	set := s.delegates(h)
	out := make([]ir.Handle, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	slices.Sort(out)
	return out, nil
}
