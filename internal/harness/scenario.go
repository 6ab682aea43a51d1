package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one document and what
// decoding, describing and linting it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the CUE document to open.
	// Relative paths resolve against the scenario file's directory.
	Document string `yaml:"document"`

	// Root resolves relative import hrefs. Empty means the document's
	// directory. Relative paths resolve like Document.
	Root string `yaml:"root,omitempty"`

	// Library serves the built-in library region. Nil means enabled.
	Library *bool `yaml:"library,omitempty"`

	// Expect holds what the run must produce.
	Expect Expect `yaml:"expect"`
}

// Expect holds a scenario's expectations.
type Expect struct {
	// Errors is the exact list of decode errors, in order.
	Errors []ErrorExpect `yaml:"errors,omitempty"`

	// Findings is the exact set of validate findings. Nil skips the check;
	// an empty list requires a clean region.
	Findings []FindingExpect `yaml:"findings"`

	// Objects must exist in the region with the given kind.
	Objects []ObjectExpect `yaml:"objects,omitempty"`

	// Unbound maps an evaluator name to the declared names of its unbound
	// arguments.
	Unbound map[string][]string `yaml:"unbound,omitempty"`
}

// ErrorExpect matches one decode error.
type ErrorExpect struct {
	// Field is the document path the error is reported against.
	Field string `yaml:"field"`

	// Code is the session error code name, e.g. "NAME_COLLISION".
	// Empty matches any code.
	Code string `yaml:"code,omitempty"`
}

// FindingExpect matches one validate finding.
type FindingExpect struct {
	Code  string `yaml:"code"`
	Field string `yaml:"field"`
}

// ObjectExpect matches one object of the described region.
type ObjectExpect struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

func (s *Scenario) libraryEnabled() bool {
	return s.Library == nil || *s.Library
}

// LoadScenario reads and parses a scenario YAML file, resolving the
// document and root paths against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if basePath != "" {
		if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
			scenario.Document = filepath.Join(basePath, scenario.Document)
		}
		if scenario.Root != "" && !filepath.IsAbs(scenario.Root) {
			scenario.Root = filepath.Join(basePath, scenario.Root)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml scenario directly under dir,
// sorted by file name. A non-empty filter is a glob matched against the
// file name without its extension.
func LoadScenarios(dir, filter string) ([]*Scenario, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(s.Document); os.IsNotExist(err) {
		return fmt.Errorf("document not found: %s", s.Document)
	}

	for i, e := range s.Expect.Errors {
		if e.Field == "" {
			return fmt.Errorf("expect.errors[%d]: field is required", i)
		}
	}
	for i, f := range s.Expect.Findings {
		if f.Code == "" {
			return fmt.Errorf("expect.findings[%d]: code is required", i)
		}
	}
	for i, o := range s.Expect.Objects {
		if o.Name == "" || o.Kind == "" {
			return fmt.Errorf("expect.objects[%d]: name and kind are required", i)
		}
	}
	for name := range s.Expect.Unbound {
		if name == "" {
			return fmt.Errorf("expect.unbound: evaluator name must not be empty")
		}
	}
	return nil
}
