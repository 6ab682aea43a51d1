package ir

// RegionDoc is the plain, serializable description of a region: its import
// tables and every local object in handle order. Objects refer to each other
// by name.
type RegionDoc struct {
	Version  string      `json:"version" yaml:"version"`
	Location string      `json:"location,omitempty" yaml:"location,omitempty"`
	Name     string      `json:"name" yaml:"name"`
	Imports  []ImportDoc `json:"imports,omitempty" yaml:"imports,omitempty"`
	Objects  []ObjectDoc `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// ImportDoc is one import source and the aliases taken from it.
type ImportDoc struct {
	Href    string           `json:"href" yaml:"href"`
	Region  string           `json:"region" yaml:"region"`
	Entries []ImportEntryDoc `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// ImportEntryDoc maps a local alias to a remote object name.
type ImportEntryDoc struct {
	Local  string `json:"local" yaml:"local"`
	Remote string `json:"remote" yaml:"remote"`
}

// ObjectDoc describes one object. Only the fields relevant to Kind are set.
type ObjectDoc struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Virtual bool   `json:"virtual,omitempty" yaml:"virtual,omitempty"`

	// ContinuousType, and the chart of a MeshType
	ComponentEnsemble string `json:"component_ensemble,omitempty" yaml:"component_ensemble,omitempty"`
	Components        int    `json:"components,omitempty" yaml:"components,omitempty"`

	// EnsembleType
	Members     *MembersDoc `json:"members,omitempty" yaml:"members,omitempty"`
	IsComponent bool        `json:"is_component,omitempty" yaml:"is_component,omitempty"`

	// MeshType. Elements and Chart are suffixes of the mesh name.
	Elements string `json:"elements,omitempty" yaml:"elements,omitempty"`
	Chart    string `json:"chart,omitempty" yaml:"chart,omitempty"`
	Shapes   string `json:"shapes,omitempty" yaml:"shapes,omitempty"`

	// Evaluators
	ValueType  string       `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	Arguments  []string     `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Value      string       `json:"value,omitempty" yaml:"value,omitempty"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
	Index      string       `json:"index,omitempty" yaml:"index,omitempty"`
	Evaluators []ElementDoc `json:"evaluators,omitempty" yaml:"evaluators,omitempty"`
	Default    string       `json:"default,omitempty" yaml:"default,omitempty"`
	Binds      []BindDoc    `json:"binds,omitempty" yaml:"binds,omitempty"`
	Data       *DataDoc     `json:"data,omitempty" yaml:"data,omitempty"`

	// DataResource
	Resource *ResourceDoc `json:"resource,omitempty" yaml:"resource,omitempty"`

	// DataSource
	Array *ArrayDoc `json:"array,omitempty" yaml:"array,omitempty"`
}

// MembersDoc describes an ensemble's membership.
type MembersDoc struct {
	Type       string `json:"type" yaml:"type"`
	Min        int    `json:"min,omitempty" yaml:"min,omitempty"`
	Max        int    `json:"max,omitempty" yaml:"max,omitempty"`
	Stride     int    `json:"stride,omitempty" yaml:"stride,omitempty"`
	Count      int    `json:"count" yaml:"count"`
	DataSource string `json:"data_source,omitempty" yaml:"data_source,omitempty"`
}

// ElementDoc maps an element or component number to an evaluator.
type ElementDoc struct {
	Element   int    `json:"element" yaml:"element"`
	Evaluator string `json:"evaluator" yaml:"evaluator"`
}

// BindDoc maps an argument evaluator to its source.
type BindDoc struct {
	Argument string `json:"argument" yaml:"argument"`
	Source   string `json:"source" yaml:"source"`
}

// DataDoc describes a parameter evaluator's data description.
type DataDoc struct {
	Type          string          `json:"type" yaml:"type"`
	SparseIndexes []string        `json:"sparse_indexes,omitempty" yaml:"sparse_indexes,omitempty"`
	DenseIndexes  []DenseIndexDoc `json:"dense_indexes,omitempty" yaml:"dense_indexes,omitempty"`
	DataSource    string          `json:"data_source,omitempty" yaml:"data_source,omitempty"`
	KeySource     string          `json:"key_source,omitempty" yaml:"key_source,omitempty"`
}

// DenseIndexDoc is one dense index with its optional order source.
type DenseIndexDoc struct {
	Evaluator string `json:"evaluator" yaml:"evaluator"`
	Order     string `json:"order,omitempty" yaml:"order,omitempty"`
}

// ResourceDoc describes a data resource.
type ResourceDoc struct {
	Type   string `json:"type" yaml:"type"`
	Format string `json:"format" yaml:"format"`
	Href   string `json:"href,omitempty" yaml:"href,omitempty"`
	Inline string `json:"inline,omitempty" yaml:"inline,omitempty"`
}

// ArrayDoc describes an array data source.
type ArrayDoc struct {
	Resource string `json:"resource" yaml:"resource"`
	Location string `json:"location" yaml:"location"`
	Rank     int    `json:"rank" yaml:"rank"`
	Sizes    []int  `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	RawSizes []int  `json:"raw_sizes,omitempty" yaml:"raw_sizes,omitempty"`
	Offsets  []int  `json:"offsets,omitempty" yaml:"offsets,omitempty"`
}
