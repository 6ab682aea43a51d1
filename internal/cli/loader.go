package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/codecurve/fieldml.api/internal/decode"
	"github.com/codecurve/fieldml.api/internal/fieldml"
)

// LoadError represents a document that could not be opened at all.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DecodeIssue is a decode error in output form.
type DecodeIssue struct {
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code" yaml:"code"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// document is an opened CUE document and the session it was decoded into.
type document struct {
	reg     *fieldml.Registry
	handle  fieldml.SessionHandle
	session *fieldml.Session
	errs    []error
}

// Close destroys the document's session.
func (d *document) Close() {
	_ = d.reg.Destroy(d.handle)
}

// issues converts decode errors for output.
func (d *document) issues() []DecodeIssue {
	out := make([]DecodeIssue, 0, len(d.errs))
	for _, err := range d.errs {
		issue := DecodeIssue{
			Message: err.Error(),
			Code:    fieldml.CodeOf(err).String(),
		}
		var de *decode.DecodeError
		if errors.As(err, &de) {
			issue.Field = de.Field
			issue.Message = de.Message
			if de.Pos.IsValid() {
				issue.Line = de.Pos.Line()
			}
		}
		out = append(out, issue)
	}
	return out
}

// openDocument decodes the document at path into a fresh session, using
// the configured data root and library setting.
func (o *RootOptions) openDocument(path string) (*document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}

	cfg := o.config()
	reg := fieldml.NewRegistry()
	h, s, errs := decode.Open(reg, path, cfg.DataRoot,
		decode.WithLibrary(cfg.LibraryEnabled()),
		decode.WithLogger(o.logger()),
	)
	if s == nil {
		le := &LoadError{Code: ErrCodeLoadFailed, Message: errors.Join(errs...).Error()}
		var de *decode.DecodeError
		if len(errs) > 0 && errors.As(errs[0], &de) {
			le.Message = de.Message
			le.Pos = de.Pos
		}
		return nil, le
	}
	s.SetDebug(o.Verbose)

	o.logger().Debug("document opened",
		"path", path,
		"region", s.RegionName(),
		"objects", s.TotalObjectCount(),
		"errors", len(errs),
	)
	return &document{reg: reg, handle: h, session: s, errs: errs}, nil
}

// outputError reports a command error in the configured format and returns
// the matching exit error.
func outputError(f *OutputFormatter, exit int, code, message string, details any) error {
	if err := f.Error(code, message, details); err != nil {
		return err
	}
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}

// outputLoadError reports an openDocument failure.
func outputLoadError(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		var details any
		if le.Pos.IsValid() {
			details = map[string]int{"line": le.Pos.Line(), "column": le.Pos.Column()}
		}
		return outputError(f, ExitCommandError, le.Code, le.Message, details)
	}
	return outputError(f, ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
