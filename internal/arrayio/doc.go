// Package arrayio writes array data sources as whitespace separated plain
// text.
//
// A TextWriter streams values into the resource behind an array data source.
// HREF resources are written to a file under a root directory; INLINE
// resources are buffered and handed to a close callback, which by default
// stores the text on the resource through the session.
//
// Writes are slabs: every call covers a contiguous run of the outermost axis
// and the full width of every other axis, starting where the previous slab
// ended.
package arrayio
