package decode

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/codecurve/fieldml.api/internal/fieldml"
)

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithLibrary controls whether the library href is served from the embedded
// document. It is on by default.
func WithLibrary(enabled bool) LoaderOption {
	return func(l *loader) {
		l.library = enabled
	}
}

// WithLogger sets the logger of sessions created by Open.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *loader) {
		l.logger = logger
	}
}

type loader struct {
	root    string
	library bool
	logger  *slog.Logger
}

func newLoader(root string, opts []LoaderOption) *loader {
	l := &loader{root: root, library: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Loader returns a fieldml.Loader that reads imported regions from CUE
// documents under root. An empty root means the importing region's root.
// Hrefs without an extension get ".cue" appended.
func Loader(root string, opts ...LoaderOption) fieldml.Loader {
	return newLoader(root, opts).load
}

func (l *loader) load(s *fieldml.Session, href, regionName string) error {
	doc, err := l.resolve(s, href)
	if err != nil {
		return err
	}
	if doc.Name() != regionName {
		return fmt.Errorf("%s declares region %q, not %q", href, doc.Name(), regionName)
	}
	if errs := doc.Decode(s); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (l *loader) resolve(s *fieldml.Session, href string) (*Document, error) {
	if l.library && IsLibraryHref(href) {
		return Library()
	}

	switch ext := filepath.Ext(href); ext {
	case "":
		href += ".cue"
	case ".cue":
	default:
		return nil, fmt.Errorf("unsupported document format %q for %s", ext, href)
	}

	path := href
	if !filepath.IsAbs(path) {
		root := l.root
		if root == "" {
			root = s.RegionRoot()
		}
		path = filepath.Join(root, href)
	}
	return Load(path)
}

// Open compiles the document at path and decodes it into a new session of
// reg named after the document's region. Imports resolve under root, or the
// document's directory when root is empty. A nil reg uses the default
// registry. Decoding errors do not prevent the session from being returned;
// a document that fails to compile returns a nil session.
func Open(reg *fieldml.Registry, path, root string, opts ...LoaderOption) (fieldml.SessionHandle, *fieldml.Session, []error) {
	doc, err := Load(path)
	if err != nil {
		return fieldml.SessionHandle{}, nil, []error{err}
	}

	if root == "" {
		root = filepath.Dir(doc.Filename)
	}
	l := newLoader(root, opts)

	var (
		h fieldml.SessionHandle
		s *fieldml.Session
	)
	if reg == nil {
		h, s = fieldml.Create(doc.Filename, doc.Name())
	} else {
		h, s = reg.Create(doc.Filename, doc.Name())
	}
	if l.logger != nil {
		s.SetLogger(l.logger)
	}

	if err := s.SetRegionRoot(root); err != nil {
		return h, s, []error{err}
	}
	s.SetLoader(l.load)
	return h, s, doc.Decode(s)
}
