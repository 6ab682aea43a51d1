// Package validate lints a whole region for objects that the incremental
// checks of package fieldml accept but that are not yet usable: parameters
// without data, branch evaluators without an index, inconsistent array
// extents, and cycles in the evaluator graph.
package validate

import (
	"fmt"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// Finding codes (E201-E299)
const (
	ErrNoDescription      = "E201" // parameter has no data description
	ErrNoDataSource       = "E202" // described parameter has no data source
	ErrRankMismatch       = "E203" // index count does not match the source rank
	ErrNoIndexEvaluator   = "E204" // piecewise or aggregate without index evaluator
	InfoUnboundArguments  = "E205" // reference leaves arguments unbound
	ErrRawSizeTooSmall    = "E206" // raw size smaller than size
	ErrEvaluatorCycle     = "E207" // cycle in the evaluator graph
	ErrMissingMembers     = "E208" // ensemble or mesh without members
	ErrIncompleteMesh     = "E209" // mesh without elements or chart type
	ErrNoResourceContents = "E210" // array source over a resource with no data
)

// Levels of a finding.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// ValidationError is one finding about one object.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Level   string `json:"level"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// HasErrors reports whether any finding is at error level.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Level == LevelError {
			return true
		}
	}
	return false
}

// Region lints every declared local object of the session's current region,
// in handle order, then audits the evaluator graph for cycles.
// Returns all findings (does not fail-fast).
func Region(s *fieldml.Session) []ValidationError {
	c := &checker{s: s}
	total := s.TotalObjectCount()
	for i := 1; i <= total; i++ {
		h, err := s.ObjectByIndex(i)
		if err != nil {
			continue
		}
		if local, err := s.IsObjectLocal(h, true); err != nil || !local {
			continue
		}
		c.check(h)
	}
	c.findings = append(c.findings, c.cycles()...)
	return c.findings
}

type checker struct {
	s        *fieldml.Session
	findings []ValidationError
	locals   []ir.Handle
}

func (c *checker) add(h ir.Handle, code, level, format string, args ...any) {
	name, err := c.s.ObjectName(h)
	if err != nil {
		name = h.String()
	}
	c.findings = append(c.findings, ValidationError{
		Field:   name,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
		Level:   level,
	})
}

func (c *checker) check(h ir.Handle) {
	s := c.s
	kind, err := s.ObjectKind(h)
	if err != nil {
		return
	}
	c.locals = append(c.locals, h)

	switch kind {
	case ir.KindEnsembleType:
		if comp, _ := s.IsEnsembleComponentType(h); comp {
			return
		}
		if mt, _ := s.EnsembleMembersType(h); mt == ir.MembersUnknown {
			c.add(h, ErrMissingMembers, LevelWarning, "ensemble has no members")
		}
	case ir.KindMeshType:
		c.checkMesh(h)
	case ir.KindParameterEvaluator:
		c.checkParameter(h)
	case ir.KindPiecewiseEvaluator, ir.KindAggregateEvaluator:
		if index, _ := s.IndexEvaluator(h, 1); !index.Valid() {
			c.add(h, ErrNoIndexEvaluator, LevelError, "%s has no index evaluator", kind)
		}
	case ir.KindReferenceEvaluator:
		c.checkReference(h)
	case ir.KindDataSource:
		c.checkSource(h)
	}
}

func (c *checker) checkMesh(h ir.Handle) {
	s := c.s
	elements, _ := s.MeshElementsType(h)
	chart, _ := s.MeshChartType(h)
	if !elements.Valid() || !chart.Valid() {
		c.add(h, ErrIncompleteMesh, LevelError, "mesh needs both an elements and a chart type")
		return
	}
	if mt, _ := s.EnsembleMembersType(h); mt == ir.MembersUnknown {
		c.add(h, ErrMissingMembers, LevelWarning, "mesh elements have no members")
	}
}

func (c *checker) checkParameter(h ir.Handle) {
	s := c.s
	dt, err := s.ParameterDataDescription(h)
	if err != nil {
		return
	}
	if dt == ir.DescriptionUnknown {
		c.add(h, ErrNoDescription, LevelError, "parameter has no data description")
		return
	}

	source, _ := s.DataSource(h)
	if !source.Valid() {
		c.add(h, ErrNoDataSource, LevelError, "%s parameter has no data source", dt)
		return
	}

	dense, _ := s.ParameterIndexCount(h, false)
	want := dense
	if dt == ir.DescriptionDOKArray {
		// One extra axis enumerates the sparse entries.
		want = dense + 1
	}
	if rank, err := s.ArrayDataSourceRank(source); err == nil && rank != want {
		c.add(h, ErrRankMismatch, LevelError, "%s parameter with %d dense indexes needs a rank %d source, %s has rank %d",
			dt, dense, want, c.name(source), rank)
	}
}

func (c *checker) checkReference(h ir.Handle) {
	unbound, err := c.s.Arguments(h, true, true)
	if err != nil || len(unbound) == 0 {
		return
	}
	names := make([]string, len(unbound))
	for i, a := range unbound {
		names[i] = c.name(a)
	}
	c.add(h, InfoUnboundArguments, LevelInfo, "unbound arguments %v", names)
}

func (c *checker) checkSource(h ir.Handle) {
	s := c.s
	sizes, err := s.ArrayDataSourceSizes(h)
	if err != nil {
		return
	}
	raw, _ := s.ArrayDataSourceRawSizes(h)
	for axis := range sizes {
		if axis < len(raw) && raw[axis] != 0 && raw[axis] < sizes[axis] {
			c.add(h, ErrRawSizeTooSmall, LevelError, "axis %d raw size %d is smaller than size %d", axis+1, raw[axis], sizes[axis])
		}
	}

	resource, err := s.DataSourceResource(h)
	if err != nil {
		return
	}
	if rt, _ := s.DataResourceType(resource); rt == ir.ResourceInline {
		if n, _ := s.InlineDataLength(resource); n == 0 {
			c.add(h, ErrNoResourceContents, LevelWarning, "inline resource %s is empty", c.name(resource))
		}
	}
}

// name returns the name h is visible under, falling back to its declared
// name for objects reached through other regions.
func (c *checker) name(h ir.Handle) string {
	if local, _ := c.s.IsObjectLocal(h, false); local {
		if name, err := c.s.ObjectName(h); err == nil {
			return name
		}
	}
	if name, err := c.s.ObjectDeclaredName(h); err == nil {
		return name
	}
	return h.String()
}
