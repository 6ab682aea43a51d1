package ir

import "fmt"

// ObjectKind discriminates the closed set of object variants.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindBooleanType
	KindContinuousType
	KindEnsembleType
	KindMeshType
	KindArgumentEvaluator
	KindExternalEvaluator
	KindConstantEvaluator
	KindParameterEvaluator
	KindReferenceEvaluator
	KindPiecewiseEvaluator
	KindAggregateEvaluator
	KindDataResource
	KindDataSource
)

var kindNames = [...]string{
	KindUnknown:            "Unknown",
	KindBooleanType:        "BooleanType",
	KindContinuousType:     "ContinuousType",
	KindEnsembleType:       "EnsembleType",
	KindMeshType:           "MeshType",
	KindArgumentEvaluator:  "ArgumentEvaluator",
	KindExternalEvaluator:  "ExternalEvaluator",
	KindConstantEvaluator:  "ConstantEvaluator",
	KindParameterEvaluator: "ParameterEvaluator",
	KindReferenceEvaluator: "ReferenceEvaluator",
	KindPiecewiseEvaluator: "PiecewiseEvaluator",
	KindAggregateEvaluator: "AggregateEvaluator",
	KindDataResource:       "DataResource",
	KindDataSource:         "DataSource",
}

func (k ObjectKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its ObjectKind.
func ParseKind(s string) (ObjectKind, bool) {
	for k, name := range kindNames {
		if name == s && ObjectKind(k) != KindUnknown {
			return ObjectKind(k), true
		}
	}
	return KindUnknown, false
}

// IsType reports whether k is one of the four value type kinds.
func (k ObjectKind) IsType() bool {
	return k >= KindBooleanType && k <= KindMeshType
}

// IsEvaluator reports whether k is one of the seven evaluator kinds.
func (k ObjectKind) IsEvaluator() bool {
	return k >= KindArgumentEvaluator && k <= KindAggregateEvaluator
}

// EnsembleMembersType describes how an ensemble's members are given.
type EnsembleMembersType int

const (
	MembersUnknown EnsembleMembersType = iota
	MembersRange
	MembersListData
	MembersRangeData
	MembersStrideRangeData
)

var membersNames = [...]string{"UNKNOWN", "RANGE", "LIST_DATA", "RANGE_DATA", "STRIDE_RANGE_DATA"}

func (m EnsembleMembersType) String() string {
	if m < 0 || int(m) >= len(membersNames) {
		return fmt.Sprintf("EnsembleMembersType(%d)", int(m))
	}
	return membersNames[m]
}

// IsData reports whether the members are supplied by a data source.
func (m EnsembleMembersType) IsData() bool {
	return m == MembersListData || m == MembersRangeData || m == MembersStrideRangeData
}

// ParseMembersType maps a members type name back to its value.
func ParseMembersType(s string) (EnsembleMembersType, bool) {
	for i, name := range membersNames {
		if name == s {
			return EnsembleMembersType(i), true
		}
	}
	return MembersUnknown, false
}

// DataDescriptionType describes how a parameter evaluator's values are laid out.
type DataDescriptionType int

const (
	DescriptionUnknown DataDescriptionType = iota
	DescriptionDenseArray
	DescriptionDOKArray
)

var descriptionNames = [...]string{"UNKNOWN", "DENSE_ARRAY", "DOK_ARRAY"}

func (d DataDescriptionType) String() string {
	if d < 0 || int(d) >= len(descriptionNames) {
		return fmt.Sprintf("DataDescriptionType(%d)", int(d))
	}
	return descriptionNames[d]
}

// ParseDescriptionType maps a description type name back to its value.
func ParseDescriptionType(s string) (DataDescriptionType, bool) {
	for i, name := range descriptionNames {
		if name == s {
			return DataDescriptionType(i), true
		}
	}
	return DescriptionUnknown, false
}

// DataResourceType describes where a resource's bytes live.
type DataResourceType int

const (
	ResourceUnknown DataResourceType = iota
	ResourceHref
	ResourceInline
)

var resourceNames = [...]string{"UNKNOWN", "HREF", "INLINE"}

func (r DataResourceType) String() string {
	if r < 0 || int(r) >= len(resourceNames) {
		return fmt.Sprintf("DataResourceType(%d)", int(r))
	}
	return resourceNames[r]
}

// DataSourceType describes the shape of a data source.
type DataSourceType int

const (
	SourceUnknown DataSourceType = iota
	SourceArray
)

func (d DataSourceType) String() string {
	switch d {
	case SourceArray:
		return "ARRAY"
	default:
		return "UNKNOWN"
	}
}

// PlainTextFormat is the only data resource format the array writers understand.
const PlainTextFormat = "PLAIN_TEXT"
