// Package harness provides conformance testing for FieldML documents.
//
// The harness opens a document in a fresh session, describes and lints the
// resulting region, and checks the outcome against the scenario's
// expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	document: documents/model.cue
//	root: documents          # optional, resolves import hrefs
//	library: true            # optional, serve the built-in library region
//	expect:
//	  errors:
//	    - field: objects[2].value_type
//	      code: UNKNOWN_OBJECT
//	  findings:
//	    - code: E205
//	      field: interpolated
//	  objects:
//	    - name: coordinates
//	      kind: ParameterEvaluator
//	  unbound:
//	    interpolated: [mesh.argument.xi]
//
// # Expectations
//
//   - errors: the exact list of decode errors, in order. Omitted means none.
//   - findings: the exact set of validate findings, in any order. Omitted
//     means findings are not checked.
//   - objects: objects that must exist in the region with the given kind.
//   - unbound: for each evaluator, the declared names of its unbound
//     arguments, in any order.
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON description of the region
// against testdata/golden/{scenario.Name}.golden. The region location is
// cleared first so snapshots do not depend on where the repository lives.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/heart.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
