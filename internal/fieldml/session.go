package fieldml

import (
	"fmt"
	"log/slog"

	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/store"
)

// Loader populates a region that is being imported. It is called with the
// session's current region switched to the new region, so every Create*
// call it makes lands there.
type Loader func(s *Session, href, regionName string) error

// Session owns one object store, the primary region and every region loaded
// as an import source, plus the error state of the last call.
type Session struct {
	handle  SessionHandle
	objects *store.ObjectStore

	primary *Region
	// region is the region Create* calls populate; it differs from primary
	// only while a Loader runs.
	region *Region
	// loaded is indexed by import source index. Failed loads leave a nil slot.
	loaded []*Region

	loader    Loader
	lastError ErrorCode
	errors    []string
	debug     bool
	logger    *slog.Logger
}

func newSession(h SessionHandle, location, name string) *Session {
	objects := store.NewObjectStore()
	r := newRegion(location, name, objects)
	return &Session{
		handle:  h,
		objects: objects,
		primary: r,
		region:  r,
		logger:  slog.Default(),
	}
}

// Handle returns the registry handle of the session.
func (s *Session) Handle() SessionHandle { return s.handle }

// SetLogger replaces the logger diagnostics are emitted on.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
}

// SetDebug enables per-call tracing at Debug level.
func (s *Session) SetDebug(debug bool) { s.debug = debug }

// SetLoader installs the callback AddImportSource uses to populate regions.
func (s *Session) SetLoader(l Loader) { s.loader = l }

// RegionName returns the name of the primary region.
func (s *Session) RegionName() string { return s.primary.name }

// RegionLocation returns the location the primary region was created with.
func (s *Session) RegionLocation() string { return s.primary.location }

// RegionRoot returns the directory hrefs in the current region resolve against.
func (s *Session) RegionRoot() string {
	if s.region == nil {
		return ""
	}
	return s.region.root
}

// SetRegionRoot changes the directory hrefs resolve against.
func (s *Session) SetRegionRoot(root string) error {
	const op = "SetRegionRoot"
	s.begin(op)
	if s.region == nil {
		return s.fail(op, CodeInvalidRegion, "session has no region")
	}
	s.region.root = root
	return nil
}

// LastError returns the code recorded by the most recent call.
func (s *Session) LastError() ErrorCode { return s.lastError }

// ErrorCount returns the number of diagnostics logged so far.
func (s *Session) ErrorCount() int { return len(s.errors) }

// Error returns the i-th diagnostic (1-based).
func (s *Session) Error(i int) (string, error) {
	const op = "Error"
	if i < 1 || i > len(s.errors) {
		return "", s.fail(op, CodeInvalidParameter1, "no diagnostic %d of %d", i, len(s.errors))
	}
	return s.errors[i-1], nil
}

// Errors returns every diagnostic logged so far, oldest first.
func (s *Session) Errors() []string {
	out := make([]string, len(s.errors))
	copy(out, s.errors)
	return out
}

// ClearErrors empties the diagnostic log.
func (s *Session) ClearErrors() {
	s.errors = nil
	s.lastError = CodeNoError
}

func (s *Session) begin(op string) {
	s.lastError = CodeNoError
	if s.debug {
		s.logger.Debug("fieldml call", "op", op, "session", s.handle)
	}
}

// fail records code as the last error, appends a diagnostic and returns it.
func (s *Session) fail(op string, code ErrorCode, format string, args ...any) error {
	e := &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
	s.lastError = code
	s.errors = append(s.errors, e.Error())
	s.logger.Warn("fieldml error",
		"code", code.String(),
		"op", op,
		"session", s.handle,
		"message", e.Message,
	)
	return e
}

// describe renders h for diagnostics as its region name or handle.
func (s *Session) describe(h ir.Handle) string {
	if s.region != nil {
		if name, ok := s.region.ObjectName(h); ok {
			return fmt.Sprintf("%q", name)
		}
	}
	if o, ok := s.objects.Get(h); ok {
		return fmt.Sprintf("%q", o.DeclaredName())
	}
	return h.String()
}

func (s *Session) release() {
	s.objects.Release()
	s.loaded = nil
	s.region = nil
}

// importRegion returns the import source index of (href, regionName),
// loading the region through the loader the first time it is seen.
func (s *Session) importRegion(op, href, regionName string) (int, error) {
	for i, r := range s.loaded {
		if r != nil && r.location == href && r.name == regionName {
			return i, nil
		}
	}
	if s.loader == nil {
		return -1, s.fail(op, CodeReadError, "no loader installed to read %q", href)
	}

	r := newRegion(href, regionName, s.objects)
	r.root = s.region.root
	index := len(s.loaded)
	// Registered before loading so a region importing itself resolves.
	s.loaded = append(s.loaded, r)

	prev := s.region
	s.region = r
	err := s.loader(s, href, regionName)
	s.region = prev

	if err != nil {
		s.loaded[index] = nil
		return -1, s.fail(op, CodeReadError, "cannot load region %q from %q: %v", regionName, href, err)
	}
	s.logger.Debug("loaded import region", "href", href, "region", regionName, "session", s.handle)
	return index, nil
}
