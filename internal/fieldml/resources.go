package fieldml

import (
	"slices"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func (s *Session) dataSource(h ir.Handle) (*ir.ArrayDataSource, bool) {
	src, ok := s.mustGet(h).(*ir.ArrayDataSource)
	return src, ok
}

// CreateHrefDataResource creates a resource whose bytes live at href.
func (s *Session) CreateHrefDataResource(name, format, href string) (ir.Handle, error) {
	const op = "CreateHrefDataResource"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	if format == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "format must not be empty")
	}
	if href == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter3, "href must not be empty")
	}
	return s.addObject(op, &ir.DataResource{
		Base:   ir.Base{Name: name},
		Type:   ir.ResourceHref,
		Format: format,
		Href:   href,
	})
}

// CreateInlineDataResource creates an empty plain text resource held in memory.
func (s *Session) CreateInlineDataResource(name string) (ir.Handle, error) {
	const op = "CreateInlineDataResource"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	return s.addObject(op, &ir.DataResource{
		Base:   ir.Base{Name: name},
		Type:   ir.ResourceInline,
		Format: ir.PlainTextFormat,
	})
}

// DataResourceType returns whether a resource is inline or behind an href.
func (s *Session) DataResourceType(h ir.Handle) (ir.DataResourceType, error) {
	const op = "DataResourceType"
	s.begin(op)
	r, err := as[*ir.DataResource](s, op, h)
	if err != nil {
		return ir.ResourceUnknown, err
	}
	return r.Type, nil
}

// DataResourceHref returns the href of an href resource.
func (s *Session) DataResourceHref(h ir.Handle) (string, error) {
	const op = "DataResourceHref"
	s.begin(op)
	r, err := as[*ir.DataResource](s, op, h)
	if err != nil {
		return "", err
	}
	if r.Type != ir.ResourceHref {
		return "", s.fail(op, CodeInvalidObject, "%s is an %s resource", s.describe(h), r.Type)
	}
	return r.Href, nil
}

// DataResourceFormat returns the format of a resource.
func (s *Session) DataResourceFormat(h ir.Handle) (string, error) {
	const op = "DataResourceFormat"
	s.begin(op)
	r, err := as[*ir.DataResource](s, op, h)
	if err != nil {
		return "", err
	}
	return r.Format, nil
}

func (s *Session) inlineResource(op string, h ir.Handle) (*ir.DataResource, error) {
	r, err := as[*ir.DataResource](s, op, h)
	if err != nil {
		return nil, err
	}
	if r.Type != ir.ResourceInline {
		return nil, s.fail(op, CodeInvalidObject, "%s is an %s resource", s.describe(h), r.Type)
	}
	return r, nil
}

// AddInlineData appends data to an inline resource.
func (s *Session) AddInlineData(h ir.Handle, data string) error {
	const op = "AddInlineData"
	s.begin(op)
	r, err := s.inlineResource(op, h)
	if err != nil {
		return err
	}
	r.Inline += data
	return nil
}

// SetInlineData replaces the contents of an inline resource.
func (s *Session) SetInlineData(h ir.Handle, data string) error {
	const op = "SetInlineData"
	s.begin(op)
	r, err := s.inlineResource(op, h)
	if err != nil {
		return err
	}
	r.Inline = data
	return nil
}

// InlineData returns the contents of an inline resource.
func (s *Session) InlineData(h ir.Handle) (string, error) {
	const op = "InlineData"
	s.begin(op)
	r, err := s.inlineResource(op, h)
	if err != nil {
		return "", err
	}
	return r.Inline, nil
}

// InlineDataLength returns the byte length of an inline resource.
func (s *Session) InlineDataLength(h ir.Handle) (int, error) {
	const op = "InlineDataLength"
	s.begin(op)
	r, err := s.inlineResource(op, h)
	if err != nil {
		return -1, err
	}
	return len(r.Inline), nil
}

// CopyInlineData copies inline data starting at offset into buf using the
// capped copy convention and returns the number of bytes copied.
func (s *Session) CopyInlineData(h ir.Handle, buf []byte, offset int) (int, error) {
	const op = "CopyInlineData"
	s.begin(op)
	r, err := s.inlineResource(op, h)
	if err != nil {
		return -1, err
	}
	if offset < 0 || offset > len(r.Inline) {
		return -1, s.fail(op, CodeInvalidParameter3, "offset %d out of range 0..%d", offset, len(r.Inline))
	}
	return CappedCopy(buf, r.Inline[offset:]), nil
}

// DataSourceCount returns the number of sources carved from a resource.
func (s *Session) DataSourceCount(resource ir.Handle) (int, error) {
	const op = "DataSourceCount"
	s.begin(op)
	r, err := as[*ir.DataResource](s, op, resource)
	if err != nil {
		return -1, err
	}
	return len(r.Sources), nil
}

// DataSourceByIndex returns the i-th (1-based) source of a resource.
func (s *Session) DataSourceByIndex(resource ir.Handle, i int) (ir.Handle, error) {
	const op = "DataSourceByIndex"
	s.begin(op)
	r, err := as[*ir.DataResource](s, op, resource)
	if err != nil {
		return ir.InvalidHandle, err
	}
	if i < 1 || i > len(r.Sources) {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "source %d out of range 1..%d", i, len(r.Sources))
	}
	return r.Sources[i-1], nil
}

// CreateArrayDataSource creates a rank-dimensional window into resource.
// Sizes, raw sizes and offsets start at zero.
func (s *Session) CreateArrayDataSource(name string, resource ir.Handle, location string, rank int) (ir.Handle, error) {
	const op = "CreateArrayDataSource"
	s.begin(op)
	if name == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "name must not be empty")
	}
	if err := s.checkLocal(op, resource); err != nil {
		return ir.InvalidHandle, err
	}
	r, ok := s.mustGet(resource).(*ir.DataResource)
	if !ok {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "%s is not a data resource", s.describe(resource))
	}
	if rank < 1 {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter4, "rank %d must be positive", rank)
	}
	h, err := s.addObject(op, ir.NewArrayDataSource(name, resource, location, rank))
	if err != nil {
		return ir.InvalidHandle, err
	}
	r.Sources = append(r.Sources, h)
	return h, nil
}

func (s *Session) arraySource(op string, h ir.Handle) (*ir.ArrayDataSource, error) {
	return as[*ir.ArrayDataSource](s, op, h)
}

// DataSourceType returns the shape of a data source; only ARRAY exists.
func (s *Session) DataSourceType(h ir.Handle) (ir.DataSourceType, error) {
	const op = "DataSourceType"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return ir.SourceUnknown, err
	}
	return src.SourceType(), nil
}

// DataSourceResource returns the resource a data source reads from.
func (s *Session) DataSourceResource(h ir.Handle) (ir.Handle, error) {
	const op = "DataSourceResource"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return src.Resource, nil
}

// ArrayDataSourceLocation returns the resource-specific location string.
func (s *Session) ArrayDataSourceLocation(h ir.Handle) (string, error) {
	const op = "ArrayDataSourceLocation"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return "", err
	}
	return src.Location, nil
}

// ArrayDataSourceRank returns the rank of an array source.
func (s *Session) ArrayDataSourceRank(h ir.Handle) (int, error) {
	const op = "ArrayDataSourceRank"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return -1, err
	}
	return src.Rank, nil
}

// ArrayDataSourceSizes returns the logical shape of an array source.
func (s *Session) ArrayDataSourceSizes(h ir.Handle) ([]int, error) {
	const op = "ArrayDataSourceSizes"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(src.Sizes), nil
}

// ArrayDataSourceRawSizes returns the physical shape of an array source.
func (s *Session) ArrayDataSourceRawSizes(h ir.Handle) ([]int, error) {
	const op = "ArrayDataSourceRawSizes"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(src.RawSizes), nil
}

// ArrayDataSourceOffsets returns the per-axis offsets of an array source.
func (s *Session) ArrayDataSourceOffsets(h ir.Handle) ([]int, error) {
	const op = "ArrayDataSourceOffsets"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(src.Offsets), nil
}

// setExtent validates values against rank and a per-axis lower bound, then
// copies them into dst.
func (s *Session) setExtent(op string, src *ir.ArrayDataSource, dst, values []int, floor int, what string) error {
	if len(values) != src.Rank {
		return s.fail(op, CodeInvalidParameter2, "%d %s given for rank %d", len(values), what, src.Rank)
	}
	for axis, v := range values {
		if v < floor {
			return s.fail(op, CodeInvalidParameter2, "%s[%d] = %d is below %d", what, axis, v, floor)
		}
	}
	copy(dst, values)
	return nil
}

// SetArrayDataSourceSizes sets the logical shape. Sizes must be >= 0.
func (s *Session) SetArrayDataSourceSizes(h ir.Handle, sizes []int) error {
	const op = "SetArrayDataSourceSizes"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return err
	}
	return s.setExtent(op, src, src.Sizes, sizes, 0, "sizes")
}

// SetArrayDataSourceRawSizes sets the physical shape. Raw sizes must be > 0.
func (s *Session) SetArrayDataSourceRawSizes(h ir.Handle, rawSizes []int) error {
	const op = "SetArrayDataSourceRawSizes"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return err
	}
	return s.setExtent(op, src, src.RawSizes, rawSizes, 1, "raw sizes")
}

// SetArrayDataSourceOffsets sets the per-axis offsets. Offsets must be >= 0.
func (s *Session) SetArrayDataSourceOffsets(h ir.Handle, offsets []int) error {
	const op = "SetArrayDataSourceOffsets"
	s.begin(op)
	src, err := s.arraySource(op, h)
	if err != nil {
		return err
	}
	return s.setExtent(op, src, src.Offsets, offsets, 0, "offsets")
}
