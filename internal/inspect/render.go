// Package inspect renders an assembled topology for humans and scripts:
// YAML, Graphviz DOT, the creation order and a validation report. Nothing
// here talks to the cloud.
package inspect

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

type graphDocument struct {
	Environment string          `yaml:"environment"`
	Stacks      []stackDocument `yaml:"stacks"`
}

type stackDocument struct {
	Name      string                `yaml:"name"`
	DependsOn []string              `yaml:"dependsOn,omitempty"`
	Resources []topology.Descriptor `yaml:"resources"`
}

// YAML writes every stack with its descriptors in registration order.
func YAML(w io.Writer, g *topology.Graph) error {
	doc := graphDocument{Environment: g.Environment().String()}
	for _, s := range g.Stacks() {
		doc.Stacks = append(doc.Stacks, stackDocument{
			Name:      s.Name(),
			DependsOn: s.DependsOnStacks(),
			Resources: s.Resources(),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode graph")
	}
	return enc.Close()
}

const dotTemplate = `digraph {{ .Environment | quote }} {
  rankdir=LR;
  node [shape=box, fontname="Helvetica", fontsize=10];
{{- range .Stacks }}

  subgraph {{ printf "cluster_%s" .Name | replace "-" "_" }} {
    label={{ .Name | quote }};
{{- range .Nodes }}
    {{ .Name | quote }} [label={{ printf "%s\n%s" .Name .Kind | quote }}];
{{- end }}
  }
{{- end }}
{{ range .Edges }}
  {{ .From | quote }} -> {{ .To | quote }};
{{- end }}
}
`

var dot = template.Must(template.New("dot").Funcs(sprig.TxtFuncMap()).Parse(dotTemplate))

type dotNode struct {
	Name string
	Kind string
}

type dotStack struct {
	Name  string
	Nodes []dotNode
}

type dotEdge struct {
	From string
	To   string
}

// DOT writes the graph in Graphviz format, one cluster per stack. Edges point
// from a dependency to its dependent, the direction creation flows in.
func DOT(w io.Writer, g *topology.Graph) error {
	data := struct {
		Environment string
		Stacks      []dotStack
		Edges       []dotEdge
	}{Environment: g.Environment().String()}

	for _, s := range g.Stacks() {
		ds := dotStack{Name: s.Name()}
		for _, d := range s.Resources() {
			m := d.Metadata()
			ds.Nodes = append(ds.Nodes, dotNode{Name: m.Name, Kind: string(m.Kind)})
			for _, dep := range m.DependsOn {
				data.Edges = append(data.Edges, dotEdge{From: dep, To: m.Name})
			}
		}
		data.Stacks = append(data.Stacks, ds)
	}
	if err := dot.Execute(w, data); err != nil {
		return errors.Wrap(err, "render dot")
	}
	return nil
}

// Order writes the creation order as a numbered table.
func Order(w io.Writer, g *topology.Graph) error {
	order, err := g.Order()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tKIND\tSTACK")
	for i, d := range order {
		m := d.Metadata()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, m.Name, m.Kind, m.Stack)
	}
	return tw.Flush()
}
