package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/ir"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type     string // errors, findings, objects or unbound
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateExpectations checks every expectation and returns one message per
// failure. s is the session the result was produced from.
func EvaluateExpectations(result *Result, expect Expect, s *fieldml.Session) []string {
	var errs []error
	errs = append(errs, assertErrors(result.DecodeErrors, expect.Errors)...)
	if expect.Findings != nil {
		errs = append(errs, assertFindings(result, expect.Findings)...)
	}
	errs = append(errs, assertObjects(result.Doc, expect.Objects)...)
	errs = append(errs, assertUnbound(s, expect.Unbound)...)

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

// assertErrors requires the decode errors to match expected exactly, in order.
func assertErrors(actual []DecodeFailure, expected []ErrorExpect) []error {
	if len(actual) != len(expected) {
		got := make([]string, len(actual))
		for i, f := range actual {
			got[i] = f.Field + " (" + f.Code + ")"
		}
		return []error{&AssertionError{
			Type:     "errors",
			Expected: fmt.Sprintf("%d decode errors", len(expected)),
			Actual:   fmt.Sprintf("%d %v", len(actual), got),
		}}
	}

	var errs []error
	for i, want := range expected {
		got := actual[i]
		if got.Field != want.Field || (want.Code != "" && got.Code != want.Code) {
			errs = append(errs, &AssertionError{
				Type:     "errors",
				Expected: fmt.Sprintf("[%d] %s %s", i, want.Field, want.Code),
				Actual:   fmt.Sprintf("%s %s: %s", got.Field, got.Code, got.Message),
			})
		}
	}
	return errs
}

// assertFindings requires the set of (code, field) findings to equal expected.
func assertFindings(result *Result, expected []FindingExpect) []error {
	key := func(code, field string) string { return code + " " + field }

	actual := make([]string, len(result.Findings))
	for i, f := range result.Findings {
		actual[i] = key(f.Code, f.Field)
	}
	want := make([]string, len(expected))
	for i, f := range expected {
		want[i] = key(f.Code, f.Field)
	}
	slices.Sort(actual)
	slices.Sort(want)

	if slices.Equal(actual, want) {
		return nil
	}
	return []error{&AssertionError{
		Type:     "findings",
		Expected: "[" + strings.Join(want, ", ") + "]",
		Actual:   "[" + strings.Join(actual, ", ") + "]",
	}}
}

// assertObjects requires every expected object to be described with its kind.
func assertObjects(doc *ir.RegionDoc, expected []ObjectExpect) []error {
	kinds := make(map[string]string, len(doc.Objects))
	for _, od := range doc.Objects {
		kinds[od.Name] = od.Kind
	}

	var errs []error
	for _, want := range expected {
		got, ok := kinds[want.Name]
		switch {
		case !ok:
			errs = append(errs, &AssertionError{
				Type:     "objects",
				Expected: fmt.Sprintf("%s %s", want.Kind, want.Name),
				Actual:   "no such object",
			})
		case got != want.Kind:
			errs = append(errs, &AssertionError{
				Type:     "objects",
				Expected: fmt.Sprintf("%s %s", want.Kind, want.Name),
				Actual:   fmt.Sprintf("%s %s", got, want.Name),
			})
		}
	}
	return errs
}

// assertUnbound compares unbound argument names per evaluator, ignoring order.
func assertUnbound(s *fieldml.Session, expected map[string][]string) []error {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		got, err := unboundNames(s, name)
		if err != nil {
			errs = append(errs, &AssertionError{
				Type:     "unbound",
				Expected: fmt.Sprintf("arguments of %s", name),
				Actual:   err.Error(),
			})
			continue
		}
		want := slices.Clone(expected[name])
		slices.Sort(want)
		if !slices.Equal(got, want) {
			errs = append(errs, &AssertionError{
				Type:     "unbound",
				Expected: fmt.Sprintf("%s %v", name, want),
				Actual:   fmt.Sprintf("%v", got),
			})
		}
	}
	return errs
}
