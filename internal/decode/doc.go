// Package decode reads region documents written in CUE and replays them
// against a fieldml.Session through its public Create*, Set* and Add* calls.
//
// A document has the shape of ir.RegionDoc, so the JSON produced by the
// export package decodes back into an equivalent region:
//
//	version: "1"
//	name:    "heart"
//	imports: [{href: "library_0.3.xml", region: "library", entries: [
//		{local: "real.1d", remote: "library.real.1d"},
//	]}]
//	objects: [
//		{name: "nodes", kind: "EnsembleType", members: {type: "RANGE", min: 1, max: 8}},
//		{name: "nodes.argument", kind: "ArgumentEvaluator", value_type: "nodes"},
//	]
//
// Objects are created in list order in a first pass; members, binds,
// elements, data descriptions and source extents are applied in a second
// pass, so those may refer forward. The built-in "library" region is served
// from an embedded document.
package decode
