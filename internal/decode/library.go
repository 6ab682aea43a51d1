package decode

import (
	_ "embed"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// LibraryRegion is the name of the built-in library region.
const LibraryRegion = "library"

//go:embed library.cue
var librarySource []byte

// Library compiles the embedded library document.
func Library() (*Document, error) {
	return Compile("library.cue", librarySource)
}

// IsLibraryHref reports whether href names the built-in library.
func IsLibraryHref(href string) bool {
	return href == ir.LibraryHref || href == LibraryRegion
}
