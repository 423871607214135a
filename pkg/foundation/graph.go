package foundation

import (
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Graph is the declared resource graph. An edge A -> B means A must be applied after B.
// Cycles are rejected when the edge is added.
type Graph struct {
	underlying graph.Graph[ResourceId, Resource]
}

type Edge struct {
	Source ResourceId
	Target ResourceId
}

func NewGraph() *Graph {
	return &Graph{
		underlying: graph.New(
			Resource.ID,
			graph.Directed(),
			graph.Acyclic(),
			graph.PreventCycles(),
		),
	}
}

// Add declares a resource. Declaring the same id twice is an error.
func (g *Graph) Add(r Resource) error {
	if err := g.underlying.AddVertex(r); err != nil {
		return errors.Wrapf(err, "could not declare %s", r.ID())
	}
	return nil
}

// DependsOn records that source must apply after each of targets.
func (g *Graph) DependsOn(source ResourceId, targets ...ResourceId) error {
	for _, target := range targets {
		err := g.underlying.AddEdge(source, target)
		switch {
		case err == nil:
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
			zap.S().Debugf("edge %s -> %s already declared", source, target)
		default:
			return errors.Wrapf(err, "could not add dependency %s -> %s", source, target)
		}
	}
	return nil
}

func (g *Graph) Resource(id ResourceId) (Resource, error) {
	r, err := g.underlying.Vertex(id)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find %s", id)
	}
	return r, nil
}

func (g *Graph) Len() int {
	n, err := g.underlying.Order()
	if err != nil {
		// in-memory store, never fails
		panic(err)
	}
	return n
}

// Resources returns every resource, dependencies before their dependents, with ties broken
// by id so the order is stable across runs.
func (g *Graph) Resources() ([]Resource, error) {
	topo, err := graph.StableTopologicalSort(g.underlying, func(a, b ResourceId) bool {
		return ResourceIdLess(a, b)
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not order resources")
	}
	resources := make([]Resource, 0, len(topo))
	for i := len(topo) - 1; i >= 0; i-- {
		r, err := g.underlying.Vertex(topo[i])
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}

// DirectDependencies returns the resources id must apply after, sorted by id.
func (g *Graph) DirectDependencies(id ResourceId) ([]ResourceId, error) {
	adj, err := g.underlying.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	targets, ok := adj[id]
	if !ok {
		return nil, errors.Wrapf(graph.ErrVertexNotFound, "could not find %s", id)
	}
	ids := make([]ResourceId, 0, len(targets))
	for t := range targets {
		ids = append(ids, t)
	}
	sort.Slice(ids, func(i, j int) bool { return ResourceIdLess(ids[i], ids[j]) })
	return ids, nil
}

// Edges returns all dependency edges sorted by source then target.
func (g *Graph) Edges() ([]Edge, error) {
	adj, err := g.underlying.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	var edges []Edge
	for source, targets := range adj {
		for target := range targets {
			edges = append(edges, Edge{Source: source, Target: target})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return ResourceIdLess(edges[i].Source, edges[j].Source)
		}
		return ResourceIdLess(edges[i].Target, edges[j].Target)
	})
	return edges, nil
}

// ResourcesOfType returns the resources with the given type in dependency order.
func (g *Graph) ResourcesOfType(typ string) ([]Resource, error) {
	all, err := g.Resources()
	if err != nil {
		return nil, err
	}
	var out []Resource
	for _, r := range all {
		if r.ID().Type == typ {
			out = append(out, r)
		}
	}
	return out, nil
}
