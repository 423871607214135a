package foundation

import (
	_ "embed"
	"io"
	"strconv"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed graph.dot.tmpl
var dotTemplate string

type (
	dotNode struct {
		Label string
		Shape string
	}
	dotEdge struct {
		Source int
		Target int
	}
	dotGraph struct {
		Name  string
		Nodes []dotNode
		Edges []dotEdge
	}
)

var dotShapes = map[string]string{
	TypeInstance:           "doubleoctagon",
	TypeKey:                "diamond",
	TypeBucket:             "cylinder",
	TypeStream:             "cds",
	TypeStorageAssociation: "box",
	TypeInstanceAttribute:  "note",
}

// WriteDOT renders the resource graph in Graphviz DOT. Arrows point from a resource to
// the resources it is applied after.
func (p *Plan) WriteDOT(w io.Writer) error {
	resources, err := p.Graph.Resources()
	if err != nil {
		return err
	}
	edges, err := p.Graph.Edges()
	if err != nil {
		return err
	}

	data := dotGraph{Name: p.StackName}
	index := make(map[ResourceId]int, len(resources))
	for i, r := range resources {
		index[r.ID()] = i
		data.Nodes = append(data.Nodes, dotNode{
			Label: r.ID().Type + "\n" + r.ID().Name,
			Shape: dotShapes[r.ID().Type],
		})
	}
	for _, e := range edges {
		data.Edges = append(data.Edges, dotEdge{Source: index[e.Source], Target: index[e.Target]})
	}

	var fns = template.FuncMap{
		"plus1": func(x int) int {
			return x + 1
		},
		"quote": strconv.Quote,
	}

	tmpl, err := template.New("graph").Funcs(fns).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "could not parse DOT template")
	}
	if err := tmpl.Execute(w, data); err != nil {
		return errors.Wrap(err, "could not render DOT graph")
	}
	return nil
}
