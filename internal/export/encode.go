package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// WriteYAML writes doc as a YAML document with two-space indentation.
func WriteYAML(w io.Writer, doc *ir.RegionDoc) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode region %q: %w", doc.Name, err)
	}
	return enc.Close()
}

// WriteText writes a one-line-per-object summary of doc.
func WriteText(w io.Writer, doc *ir.RegionDoc) error {
	fmt.Fprintf(w, "region %s\n", doc.Name)
	for _, imp := range doc.Imports {
		fmt.Fprintf(w, "import %s (region %s)\n", imp.Href, imp.Region)
		for _, e := range imp.Entries {
			fmt.Fprintf(w, "  %s = %s\n", e.Local, e.Remote)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, od := range doc.Objects {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", od.Kind, od.Name, summary(&od))
	}
	return tw.Flush()
}

func summary(od *ir.ObjectDoc) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	if od.ValueType != "" {
		add("type=%s", od.ValueType)
	}
	if od.ComponentEnsemble != "" {
		add("components=%s[%d]", od.ComponentEnsemble, od.Components)
	}
	if m := od.Members; m != nil {
		if m.Type == ir.MembersRange.String() {
			add("members=%d..%d/%d", m.Min, m.Max, m.Stride)
		} else {
			add("members=%s(%s)[%d]", m.Type, m.DataSource, m.Count)
		}
	}
	if od.Elements != "" || od.Chart != "" {
		add("elements=%s chart=%s", od.Elements, od.Chart)
	}
	if od.Shapes != "" {
		add("shapes=%s", od.Shapes)
	}
	if od.Value != "" {
		add("value=%q", od.Value)
	}
	if od.Source != "" {
		add("source=%s", od.Source)
	}
	if len(od.Arguments) > 0 {
		add("arguments=%s", strings.Join(od.Arguments, ","))
	}
	if od.Index != "" {
		add("index=%s", od.Index)
	}
	if len(od.Evaluators) > 0 {
		add("evaluators=%d", len(od.Evaluators))
	}
	if od.Default != "" {
		add("default=%s", od.Default)
	}
	for _, b := range od.Binds {
		add("bind %s<-%s", b.Argument, b.Source)
	}
	if d := od.Data; d != nil {
		add("data=%s(%s)", d.Type, d.DataSource)
	}
	if r := od.Resource; r != nil {
		if r.Href != "" {
			add("%s %s %s", r.Type, r.Format, r.Href)
		} else {
			add("%s %s %d bytes", r.Type, r.Format, len(r.Inline))
		}
	}
	if a := od.Array; a != nil {
		add("array %s@%s rank=%d sizes=%v", a.Resource, a.Location, a.Rank, a.Sizes)
	}
	return strings.Join(parts, " ")
}
