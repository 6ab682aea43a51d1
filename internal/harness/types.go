package harness

import (
	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/validate"
)

// DecodeFailure is one error reported while decoding the document.
type DecodeFailure struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// DecodeErrors lists what went wrong while decoding, in order.
	DecodeErrors []DecodeFailure `json:"decode_errors,omitempty"`

	// Findings are the validate findings for the decoded region.
	Findings []validate.ValidationError `json:"findings,omitempty"`

	// Doc describes the decoded region.
	Doc *ir.RegionDoc `json:"region"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
