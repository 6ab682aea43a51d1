package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// Snapshot returns the canonical JSON of the result's region description
// with the location cleared.
func Snapshot(result *Result) ([]byte, error) {
	doc := *result.Doc
	doc.Location = ""
	return ir.CanonicalDoc(&doc)
}

// RunWithGolden executes a scenario, requires it to pass, and compares the
// region description against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
