package decode

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// Document is a compiled region document ready to be decoded into a session.
type Document struct {
	Filename string
	Region   ir.RegionDoc

	// Per-entry CUE values, kept for error positions.
	imports []cue.Value
	objects []cue.Value
}

// Load reads and compiles the CUE document at path.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read document: %s is a directory", path)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: filepath.Dir(abs)}
	instances := load.Instances([]string{"./" + filepath.Base(abs)}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instance loaded from %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError("load", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	return parse(abs, value)
}

// Compile compiles src as a document. filename is used in error positions.
func Compile(filename string, src []byte) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	return parse(filename, value)
}

// Name returns the region name the document declares.
func (d *Document) Name() string { return d.Region.Name }

func parse(filename string, v cue.Value) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}
	if err := v.Validate(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	doc := &Document{Filename: filename}
	doc.Region.Location = filename

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &DecodeError{Field: "name", Message: "region name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError("name", err)
	}
	if name == "" {
		return nil, &DecodeError{Field: "name", Message: "region name must not be empty", Pos: nameVal.Pos()}
	}
	doc.Region.Name = name

	doc.Region.Version = ir.DocVersion
	if verVal := v.LookupPath(cue.ParsePath("version")); verVal.Exists() {
		version, err := verVal.String()
		if err != nil {
			return nil, formatCUEError("version", err)
		}
		if version != ir.DocVersion {
			return nil, &DecodeError{
				Field:   "version",
				Message: fmt.Sprintf("unsupported document version %q (want %q)", version, ir.DocVersion),
				Pos:     verVal.Pos(),
			}
		}
	}

	importsVal := v.LookupPath(cue.ParsePath("imports"))
	if importsVal.Exists() {
		iter, err := importsVal.List()
		if err != nil {
			return nil, formatCUEError("imports", err)
		}
		for i := 0; iter.Next(); i++ {
			var imp ir.ImportDoc
			if err := iter.Value().Decode(&imp); err != nil {
				return nil, formatCUEError(fmt.Sprintf("imports[%d]", i), err)
			}
			if imp.Href == "" || imp.Region == "" {
				return nil, &DecodeError{
					Field:   fmt.Sprintf("imports[%d]", i),
					Message: "href and region are required",
					Pos:     iter.Value().Pos(),
				}
			}
			doc.Region.Imports = append(doc.Region.Imports, imp)
			doc.imports = append(doc.imports, iter.Value())
		}
	}

	objectsVal := v.LookupPath(cue.ParsePath("objects"))
	if objectsVal.Exists() {
		iter, err := objectsVal.List()
		if err != nil {
			return nil, formatCUEError("objects", err)
		}
		for i := 0; iter.Next(); i++ {
			field := fmt.Sprintf("objects[%d]", i)
			var od ir.ObjectDoc
			if err := iter.Value().Decode(&od); err != nil {
				return nil, formatCUEError(field, err)
			}
			if od.Name == "" {
				return nil, &DecodeError{Field: field, Message: "object name is required", Pos: iter.Value().Pos()}
			}
			if _, ok := ir.ParseKind(od.Kind); !ok {
				return nil, &DecodeError{
					Field:   field + ".kind",
					Message: fmt.Sprintf("unknown object kind %q", od.Kind),
					Pos:     iter.Value().LookupPath(cue.ParsePath("kind")).Pos(),
				}
			}
			doc.Region.Objects = append(doc.Region.Objects, od)
			doc.objects = append(doc.objects, iter.Value())
		}
	}

	return doc, nil
}
