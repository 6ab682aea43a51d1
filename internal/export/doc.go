// Package export describes a session's current region as an ir.RegionDoc
// using only the session's read-side queries. The result serializes to
// JSON, YAML or canonical form and decodes back through package decode.
package export
