package ir

// Object is one of the closed set of FieldML object variants.
// Consumers switch exhaustively on the concrete type or on Kind.
type Object interface {
	Kind() ObjectKind
	DeclaredName() string
	IsVirtual() bool
	Annotation() int
	SetAnnotation(v int)
	sealed()
}

// Evaluator is an object that yields values of a declared value type.
type Evaluator interface {
	Object
	ValueTypeHandle() Handle
}

// Base carries the fields common to every object.
type Base struct {
	Name string
	// Virtual objects are created implicitly as sub-parts of another object.
	Virtual  bool
	IntValue int
}

func (b *Base) DeclaredName() string { return b.Name }
func (b *Base) IsVirtual() bool      { return b.Virtual }
func (b *Base) Annotation() int      { return b.IntValue }
func (b *Base) SetAnnotation(v int)  { b.IntValue = v }
func (b *Base) sealed()              {}

// EvaluatorBase carries the fields common to every evaluator.
type EvaluatorBase struct {
	Base
	ValueType Handle
}

func (e *EvaluatorBase) ValueTypeHandle() Handle { return e.ValueType }

// BooleanType is the boolean value type.
type BooleanType struct {
	Base
}

// ContinuousType is a real-valued type, scalar unless ComponentType is set.
type ContinuousType struct {
	Base
	ComponentType Handle
}

// EnsembleType is a finite set of positive integer member ids.
type EnsembleType struct {
	Base
	MembersType EnsembleMembersType
	Min         int
	Max         int
	Stride      int
	Count       int
	DataSource  Handle
	// ComponentEnsemble marks ensembles that index continuous components.
	ComponentEnsemble bool
}

// MeshType couples an elements ensemble with a chart continuous type.
type MeshType struct {
	Base
	ElementsType Handle
	ChartType    Handle
	Shapes       Handle
}

// ArgumentEvaluator is a free variable.
type ArgumentEvaluator struct {
	EvaluatorBase
	Arguments HandleSet
}

// ExternalEvaluator is a named externally defined function.
type ExternalEvaluator struct {
	EvaluatorBase
	Arguments HandleSet
}

// ConstantEvaluator holds a literal kept verbatim.
type ConstantEvaluator struct {
	EvaluatorBase
	Value string
}

// ParameterEvaluator is a table of values indexed by ensemble-valued evaluators.
type ParameterEvaluator struct {
	EvaluatorBase
	// Description is nil until a layout is chosen.
	Description DataDescription
}

// ReferenceEvaluator re-exposes another evaluator under a set of binds.
type ReferenceEvaluator struct {
	EvaluatorBase
	Source Handle
	Binds  *Map[Handle]
}

// PiecewiseEvaluator selects a per-element evaluator through an index evaluator.
type PiecewiseEvaluator struct {
	EvaluatorBase
	Index      Handle
	Evaluators *Map[int]
	Binds      *Map[Handle]
}

// AggregateEvaluator assembles a multi-component value from per-component evaluators.
type AggregateEvaluator struct {
	EvaluatorBase
	Index      Handle
	Evaluators *Map[int]
	Binds      *Map[Handle]
}

// DataResource is a blob of data, inline or behind an href.
type DataResource struct {
	Base
	Type   DataResourceType
	Format string
	Href   string
	Inline string
	// Sources lists the data sources carved from this resource, in creation order.
	Sources []Handle
}

// ArrayDataSource is a rectangular window into a data resource.
type ArrayDataSource struct {
	Base
	Resource Handle
	Location string
	Rank     int
	Sizes    []int
	RawSizes []int
	Offsets  []int
}

func (*BooleanType) Kind() ObjectKind        { return KindBooleanType }
func (*ContinuousType) Kind() ObjectKind     { return KindContinuousType }
func (*EnsembleType) Kind() ObjectKind       { return KindEnsembleType }
func (*MeshType) Kind() ObjectKind           { return KindMeshType }
func (*ArgumentEvaluator) Kind() ObjectKind  { return KindArgumentEvaluator }
func (*ExternalEvaluator) Kind() ObjectKind  { return KindExternalEvaluator }
func (*ConstantEvaluator) Kind() ObjectKind  { return KindConstantEvaluator }
func (*ParameterEvaluator) Kind() ObjectKind { return KindParameterEvaluator }
func (*ReferenceEvaluator) Kind() ObjectKind { return KindReferenceEvaluator }
func (*PiecewiseEvaluator) Kind() ObjectKind { return KindPiecewiseEvaluator }
func (*AggregateEvaluator) Kind() ObjectKind { return KindAggregateEvaluator }
func (*DataResource) Kind() ObjectKind       { return KindDataResource }
func (*ArrayDataSource) Kind() ObjectKind    { return KindDataSource }

// SourceType is always ARRAY; it is the only data source shape.
func (*ArrayDataSource) SourceType() DataSourceType { return SourceArray }

// NewArrayDataSource returns a source of the given rank with zeroed extents.
func NewArrayDataSource(name string, resource Handle, location string, rank int) *ArrayDataSource {
	return &ArrayDataSource{
		Base:     Base{Name: name},
		Resource: resource,
		Location: location,
		Rank:     rank,
		Sizes:    make([]int, rank),
		RawSizes: make([]int, rank),
		Offsets:  make([]int, rank),
	}
}

// BindsOf returns the bind map of a Reference, Piecewise or Aggregate evaluator.
func BindsOf(o Object) (*Map[Handle], bool) {
	switch v := o.(type) {
	case *ReferenceEvaluator:
		return v.Binds, true
	case *PiecewiseEvaluator:
		return v.Binds, true
	case *AggregateEvaluator:
		return v.Binds, true
	}
	return nil, false
}

// ElementsOf returns the element map of a Piecewise or Aggregate evaluator.
func ElementsOf(o Object) (*Map[int], bool) {
	switch v := o.(type) {
	case *PiecewiseEvaluator:
		return v.Evaluators, true
	case *AggregateEvaluator:
		return v.Evaluators, true
	}
	return nil, false
}

// Dependencies returns the handles o directly delegates to, in a stable order.
// InvalidHandle entries are omitted.
func Dependencies(o Object) []Handle {
	var deps []Handle
	add := func(h Handle) {
		if h.Valid() {
			deps = append(deps, h)
		}
	}
	switch v := o.(type) {
	case *ReferenceEvaluator:
		add(v.Source)
		for _, h := range v.Binds.Values() {
			add(h)
		}
	case *PiecewiseEvaluator:
		add(v.Index)
		for _, h := range v.Evaluators.Values() {
			add(h)
		}
		add(v.Evaluators.Default)
		for _, h := range v.Binds.Values() {
			add(h)
		}
	case *AggregateEvaluator:
		add(v.Index)
		for _, h := range v.Evaluators.Values() {
			add(h)
		}
		add(v.Evaluators.Default)
		for _, h := range v.Binds.Values() {
			add(h)
		}
	case *ParameterEvaluator:
		if v.Description != nil {
			for _, h := range v.Description.IndexEvaluators() {
				add(h)
			}
		}
	}
	return deps
}
