// Package production provides integrations for running machines outside
// tests: description export, persistence and notification publishing.
package production

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

// Format selects an export encoding.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by Export for formats it cannot write.
var ErrUnknownFormat = errors.New("unknown export format")

// Export writes ds to w in format f. Several descriptions (the members of a
// List) are written as one document.
func Export(w io.Writer, f Format, ds ...fsmx.Description) error {
	switch f {
	case FormatDOT:
		_, err := io.WriteString(w, ExportDOT(ds...))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
}

// ExportDOT generates Graphviz DOT source with one cluster per machine.
// Declared targets become edges, the initial state gets an entry arrow and
// the current state is filled.
func ExportDOT(ds ...fsmx.Description) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph fsmx {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	for _, d := range ds {
		renderMachine(&buf, d)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func renderMachine(buf *bytes.Buffer, d fsmx.Description) {
	fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+d.Name)
	fmt.Fprintf(buf, "    label=%q;\n", fmt.Sprintf("%s (%s)", d.Name, d.Flavor))

	start := nodeID(d.Name, "__start")
	fmt.Fprintf(buf, "    %q [shape=point];\n", start)

	for _, s := range d.States {
		style := ""
		if d.Started && s.Name == d.Current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(buf, "    %q [label=%q%s];\n", nodeID(d.Name, s.Name), stateLabel(s), style)
	}

	fmt.Fprintf(buf, "    %q -> %q;\n", start, nodeID(d.Name, d.Initial))
	for _, s := range d.States {
		for _, t := range s.Targets {
			fmt.Fprintf(buf, "    %q -> %q;\n", nodeID(d.Name, s.Name), nodeID(d.Name, t))
		}
	}
	buf.WriteString("  }\n")
}

func nodeID(machine, state string) string {
	return machine + "." + state
}

func stateLabel(s fsmx.StateDescription) string {
	label := s.Name
	for _, r := range s.Reacts {
		label += "\n" + r
	}
	return label
}
