package arrayio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

var (
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("arrayio: writer is closed")

	// ErrUnsupported is returned for resource formats other than PLAIN_TEXT
	// and for slabs that do not continue the running offset.
	ErrUnsupported = errors.New("arrayio: unsupported")
)

// CloseFunc receives the buffered text of an inline resource when the
// writer closes.
type CloseFunc func(text string) error

// WriterOption configures a TextWriter.
type WriterOption func(*TextWriter)

// WithOnClose replaces the default inline close callback.
func WithOnClose(fn CloseFunc) WriterOption {
	return func(w *TextWriter) {
		w.onClose = fn
	}
}

// WithLogger sets the logger used for write diagnostics.
func WithLogger(l *slog.Logger) WriterOption {
	return func(w *TextWriter) {
		w.logger = l
	}
}

// TextWriter appends slabs of an array data source as plain text.
// It is not safe for concurrent use.
type TextWriter struct {
	source ir.Handle
	sizes  []int
	offset int

	out     *bufio.Writer
	file    *os.File
	inline  *strings.Builder
	onClose CloseFunc

	started bool
	closed  bool
	logger  *slog.Logger
}

// NewTextWriter opens a writer for source. With appendMode, HREF files are
// appended to and INLINE text is added to the existing data; otherwise both
// are replaced. Relative hrefs resolve against root.
func NewTextWriter(s *fieldml.Session, source ir.Handle, appendMode bool, root string, opts ...WriterOption) (*TextWriter, error) {
	resource, err := s.DataSourceResource(source)
	if err != nil {
		return nil, fmt.Errorf("resolve resource: %w", err)
	}
	format, err := s.DataResourceFormat(resource)
	if err != nil {
		return nil, fmt.Errorf("resource format: %w", err)
	}
	if format != ir.PlainTextFormat {
		return nil, fmt.Errorf("%w: resource format %q", ErrUnsupported, format)
	}
	sizes, err := s.ArrayDataSourceSizes(source)
	if err != nil {
		return nil, fmt.Errorf("source sizes: %w", err)
	}

	w := &TextWriter{
		source: source,
		sizes:  sizes,
		logger: slog.Default(),
	}

	kind, err := s.DataResourceType(resource)
	if err != nil {
		return nil, fmt.Errorf("resource type: %w", err)
	}
	switch kind {
	case ir.ResourceHref:
		href, err := s.DataResourceHref(resource)
		if err != nil {
			return nil, fmt.Errorf("resource href: %w", err)
		}
		path := href
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, href)
		}
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if appendMode {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		w.file = f
		w.out = bufio.NewWriter(f)
	case ir.ResourceInline:
		w.inline = &strings.Builder{}
		w.out = bufio.NewWriter(w.inline)
		w.onClose = func(text string) error {
			if appendMode {
				return s.AddInlineData(resource, text)
			}
			return s.SetInlineData(resource, text)
		}
	default:
		return nil, fmt.Errorf("%w: resource type %s", ErrUnsupported, kind)
	}

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Offset returns the outermost-axis position the next slab must start at.
func (w *TextWriter) Offset() int { return w.offset }

// WriteIntSlab writes an integer slab in row-major order.
func (w *TextWriter) WriteIntSlab(offsets, sizes []int, values []int) error {
	return writeSlab(w, offsets, sizes, values, strconv.Itoa)
}

// WriteDoubleSlab writes a floating point slab in row-major order.
func (w *TextWriter) WriteDoubleSlab(offsets, sizes []int, values []float64) error {
	return writeSlab(w, offsets, sizes, values, formatDouble)
}

// WriteBooleanSlab writes a boolean slab as 1 and 0.
func (w *TextWriter) WriteBooleanSlab(offsets, sizes []int, values []bool) error {
	return writeSlab(w, offsets, sizes, values, formatBoolean)
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBoolean(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// checkSlab enforces the append-only slab shape.
func (w *TextWriter) checkSlab(offsets, sizes []int) (int, error) {
	rank := len(w.sizes)
	if len(offsets) != rank || len(sizes) != rank {
		return 0, fmt.Errorf("%w: slab rank %d/%d for a rank %d source", ErrUnsupported, len(offsets), len(sizes), rank)
	}
	if offsets[0] != w.offset {
		return 0, fmt.Errorf("%w: slab starts at %d, expected %d", ErrUnsupported, offsets[0], w.offset)
	}
	if sizes[0] < 0 {
		return 0, fmt.Errorf("%w: negative slab size %d", ErrUnsupported, sizes[0])
	}
	count := sizes[0]
	for axis := 1; axis < rank; axis++ {
		if offsets[axis] != 0 {
			return 0, fmt.Errorf("%w: axis %d offset %d must be 0", ErrUnsupported, axis, offsets[axis])
		}
		if sizes[axis] != w.sizes[axis] {
			return 0, fmt.Errorf("%w: axis %d size %d must span the source width %d", ErrUnsupported, axis, sizes[axis], w.sizes[axis])
		}
		count *= sizes[axis]
	}
	return count, nil
}

func writeSlab[T any](w *TextWriter, offsets, sizes []int, values []T, format func(T) string) error {
	if w.closed {
		return ErrClosed
	}
	count, err := w.checkSlab(offsets, sizes)
	if err != nil {
		return err
	}
	if len(values) < count {
		return fmt.Errorf("slab needs %d values, got %d", count, len(values))
	}
	for _, v := range values[:count] {
		if err := w.writeValue(format(v)); err != nil {
			return err
		}
	}
	w.offset += sizes[0]
	return nil
}

func (w *TextWriter) writeValue(text string) error {
	if w.started {
		if err := w.out.WriteByte(' '); err != nil {
			return err
		}
	}
	w.started = true
	_, err := io.WriteString(w.out, text)
	return err
}

// Close terminates the text with a newline and releases the resource. For
// inline resources the close callback runs before Close returns. Calling
// Close again is a no-op.
func (w *TextWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.out.Flush(); err != nil {
		return err
	}

	if w.file != nil {
		w.logger.Debug("array data written", "source", w.source, "file", w.file.Name(), "rows", w.offset)
		return w.file.Close()
	}
	w.logger.Debug("array data written", "source", w.source, "bytes", w.inline.Len(), "rows", w.offset)
	if w.onClose == nil {
		return nil
	}
	return w.onClose(w.inline.String())
}
