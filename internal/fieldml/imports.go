package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// AddImportSource registers (href, regionName) as an import source of the
// current region and returns its 1-based index. The region is loaded through
// the session's Loader the first time any region of the session asks for it.
func (s *Session) AddImportSource(href, regionName string) (int, error) {
	const op = "AddImportSource"
	s.begin(op)
	if s.region == nil {
		return -1, s.fail(op, CodeInvalidRegion, "session has no region")
	}
	if href == "" {
		return -1, s.fail(op, CodeInvalidParameter1, "href must not be empty")
	}
	if regionName == "" {
		return -1, s.fail(op, CodeInvalidParameter2, "region name must not be empty")
	}
	index, err := s.importRegion(op, href, regionName)
	if err != nil {
		return -1, err
	}
	s.region.addImportSource(index, href, regionName)
	return index + 1, nil
}

// AddImport aliases remoteName from import source sourceIndex under
// localName. A localName already visible in the region is rejected and no
// alias is recorded.
func (s *Session) AddImport(sourceIndex int, localName, remoteName string) (ir.Handle, error) {
	const op = "AddImport"
	s.begin(op)
	if s.region == nil {
		return ir.InvalidHandle, s.fail(op, CodeInvalidRegion, "session has no region")
	}
	if localName == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "local name must not be empty")
	}
	if remoteName == "" {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter3, "remote name must not be empty")
	}
	index := sourceIndex - 1
	if index < 0 || index >= len(s.loaded) || s.loaded[index] == nil || s.region.importSource(index) == nil {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "no import source %d", sourceIndex)
	}

	remote := s.loaded[index].NamedObject(remoteName)
	if !remote.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter3, "region %q has no object %q", s.loaded[index].name, remoteName)
	}
	if existing := s.region.NamedObject(localName); existing.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "local name %q already names %s", localName, existing)
	}
	s.region.addImport(index, localName, remoteName, remote)
	return remote, nil
}

// ImportSourceCount returns the size of the current region's import table.
// Slots for sources registered only by other regions are empty.
func (s *Session) ImportSourceCount() int {
	s.begin("ImportSourceCount")
	if s.region == nil {
		return 0
	}
	return len(s.region.imports)
}

func (s *Session) importInfo(op string, sourceIndex int) (*importTable, error) {
	if s.region == nil {
		return nil, s.fail(op, CodeInvalidRegion, "session has no region")
	}
	info := s.region.importSource(sourceIndex - 1)
	if info == nil {
		return nil, s.fail(op, CodeInvalidParameter1, "no import source %d", sourceIndex)
	}
	return info, nil
}

// ImportSourceHref returns the href of an import source.
func (s *Session) ImportSourceHref(sourceIndex int) (string, error) {
	const op = "ImportSourceHref"
	s.begin(op)
	info, err := s.importInfo(op, sourceIndex)
	if err != nil {
		return "", err
	}
	return info.href, nil
}

// ImportSourceRegionName returns the region name of an import source.
func (s *Session) ImportSourceRegionName(sourceIndex int) (string, error) {
	const op = "ImportSourceRegionName"
	s.begin(op)
	info, err := s.importInfo(op, sourceIndex)
	if err != nil {
		return "", err
	}
	return info.regionName, nil
}

// ImportCount returns the number of aliases taken from an import source.
func (s *Session) ImportCount(sourceIndex int) (int, error) {
	const op = "ImportCount"
	s.begin(op)
	info, err := s.importInfo(op, sourceIndex)
	if err != nil {
		return -1, err
	}
	return len(info.entries), nil
}

func (s *Session) importEntry(op string, sourceIndex, i int) (importEntry, error) {
	info, err := s.importInfo(op, sourceIndex)
	if err != nil {
		return importEntry{}, err
	}
	if i < 1 || i > len(info.entries) {
		return importEntry{}, s.fail(op, CodeInvalidParameter2, "import %d out of range 1..%d", i, len(info.entries))
	}
	return info.entries[i-1], nil
}

// ImportLocalName returns the local alias of the i-th (1-based) import.
func (s *Session) ImportLocalName(sourceIndex, i int) (string, error) {
	const op = "ImportLocalName"
	s.begin(op)
	e, err := s.importEntry(op, sourceIndex, i)
	if err != nil {
		return "", err
	}
	return e.local, nil
}

// ImportRemoteName returns the remote name of the i-th (1-based) import.
func (s *Session) ImportRemoteName(sourceIndex, i int) (string, error) {
	const op = "ImportRemoteName"
	s.begin(op)
	e, err := s.importEntry(op, sourceIndex, i)
	if err != nil {
		return "", err
	}
	return e.remote, nil
}

// ImportObject returns the handle of the i-th (1-based) import.
func (s *Session) ImportObject(sourceIndex, i int) (ir.Handle, error) {
	const op = "ImportObject"
	s.begin(op)
	e, err := s.importEntry(op, sourceIndex, i)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return e.object, nil
}
