package ir

// Version constants for the object model and the document schema.
const (
	// APIVersion is the FieldML API version this model implements.
	APIVersion = "0.5.0"

	// DocVersion is the exported region document schema version.
	DocVersion = "1"

	// LibraryHref is the href that resolves to the built-in type library.
	LibraryHref = "library_0.3.xml"
)
