package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/codecurve/fieldml.api/internal/decode"
	"github.com/codecurve/fieldml.api/internal/export"
	"github.com/codecurve/fieldml.api/internal/fieldml"
	"github.com/codecurve/fieldml.api/internal/validate"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes session diagnostics to logger. By default they are
// discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a private session registry, so scenarios never
// share regions.
//
// Execution flow:
//  1. Open and decode the document
//  2. Describe the region and lint it
//  3. Evaluate expectations against the decode errors, findings and region
//
// Run fails only when the document cannot be compiled at all; decode
// errors are part of the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	reg := fieldml.NewRegistry()
	h, s, errs := decode.Open(reg, scenario.Document, scenario.Root,
		decode.WithLibrary(scenario.libraryEnabled()),
		decode.WithLogger(cfg.logger),
	)
	if s == nil {
		return nil, fmt.Errorf("open %s: %w", scenario.Document, errors.Join(errs...))
	}
	defer func() {
		_ = reg.Destroy(h)
	}()

	result := NewResult()
	for _, err := range errs {
		result.DecodeErrors = append(result.DecodeErrors, decodeFailure(err))
	}

	doc, err := export.Describe(s)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", scenario.Name, err)
	}
	result.Doc = doc
	result.Findings = validate.Region(s)

	for _, msg := range EvaluateExpectations(result, scenario.Expect, s) {
		result.AddError(msg)
	}

	cfg.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"objects", len(doc.Objects),
		"decode_errors", len(result.DecodeErrors),
		"findings", len(result.Findings),
	)
	return result, nil
}

func decodeFailure(err error) DecodeFailure {
	f := DecodeFailure{
		Code:    fieldml.CodeOf(err).String(),
		Message: err.Error(),
	}
	var de *decode.DecodeError
	if errors.As(err, &de) {
		f.Field = de.Field
	}
	return f
}

// unboundNames returns the sorted declared names of an evaluator's unbound
// arguments.
func unboundNames(s *fieldml.Session, name string) ([]string, error) {
	h := s.ObjectByName(name)
	if !h.Valid() {
		return nil, fmt.Errorf("no object named %q", name)
	}
	args, err := s.Arguments(h, true, true)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(args))
	for _, a := range args {
		n, err := s.ObjectDeclaredName(a)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}
