package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// dependencyGraph maps an object to the objects it directly depends on.
type dependencyGraph map[ir.Handle][]ir.Handle

// cycles audits the evaluator graph reachable from the region's locals.
// Every strongly connected component with more than one member, or with a
// self edge, is a cycle the incremental checks should have rejected.
func (c *checker) cycles() []ValidationError {
	graph := c.dependencyGraph()

	var out []ValidationError
	for _, scc := range tarjanSCC(graph) {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		slices.Sort(scc)
		names := make([]string, len(scc))
		for i, h := range scc {
			names[i] = c.name(h)
		}
		out = append(out, ValidationError{
			Field:   names[0],
			Message: fmt.Sprintf("evaluator cycle: %s", strings.Join(append(names, names[0]), " → ")),
			Code:    ErrEvaluatorCycle,
			Level:   LevelError,
		})
	}
	return out
}

// dependencyGraph walks Dependencies from every local object.
func (c *checker) dependencyGraph() dependencyGraph {
	graph := make(dependencyGraph)
	stack := slices.Clone(c.locals)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := graph[h]; seen {
			continue
		}
		deps, err := c.s.Dependencies(h)
		if err != nil {
			deps = nil
		}
		graph[h] = deps
		stack = append(stack, deps...)
	}
	return graph
}

func hasSelfLoop(node ir.Handle, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in ascending handle order so results are stable.
func tarjanSCC(graph dependencyGraph) [][]ir.Handle {
	var (
		index   = 0
		stack   []ir.Handle
		indices = make(map[ir.Handle]int)
		lowlink = make(map[ir.Handle]int)
		onStack = make(map[ir.Handle]bool)
		sccs    [][]ir.Handle
	)

	var strongConnect func(ir.Handle)
	strongConnect = func(v ir.Handle) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is the root of an SCC
		if lowlink[v] == indices[v] {
			var scc []ir.Handle
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]ir.Handle, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}
