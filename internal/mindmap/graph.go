// Package mindmap builds a two-level keyword graph around a topic, lays it
// out with a force-directed model and draws it.
package mindmap

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bdougie/lecturekit/internal/models"
)

// Edge joins two node indices.
type Edge struct {
	From, To int
}

// Graph is a small undirected graph keyed by node label.
type Graph struct {
	Topic string
	Nodes []string
	Edges []Edge

	index map[string]int
	edges map[Edge]bool
}

// NewGraph returns a graph holding only the topic node.
func NewGraph(topic string) *Graph {
	g := &Graph{Topic: topic, index: make(map[string]int), edges: make(map[Edge]bool)}
	g.AddNode(topic)
	return g
}

// AddNode adds label unless present and returns its index.
func (g *Graph) AddNode(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	g.index[label] = len(g.Nodes)
	g.Nodes = append(g.Nodes, label)
	return len(g.Nodes) - 1
}

// AddEdge joins a and b, adding missing nodes. Self loops and repeated edges
// are ignored.
func (g *Graph) AddEdge(a, b string) {
	i, j := g.AddNode(a), g.AddNode(b)
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	e := Edge{From: i, To: j}
	if g.edges[e] {
		return
	}
	g.edges[e] = true
	g.Edges = append(g.Edges, e)
}

// Degree returns the number of edges touching node i.
func (g *Graph) Degree(i int) int {
	n := 0
	for _, e := range g.Edges {
		if e.From == i || e.To == i {
			n++
		}
	}
	return n
}

// Build links topic to every cluster name and each name to the other
// keywords of its cluster.
func Build(topic string, clusters []models.Cluster) *Graph {
	g := NewGraph(topic)
	for _, c := range clusters {
		g.AddEdge(topic, c.Name)
		for _, kw := range c.Keywords {
			if kw != c.Name {
				g.AddEdge(c.Name, kw)
			}
		}
	}
	return g
}

// WriteDOT writes g in Graphviz format.
func WriteDOT(w io.Writer, g *Graph) error {
	if _, err := fmt.Fprintf(w, "graph mindmap {\n  label=%s;\n  node [style=filled, fillcolor=lightblue];\n", strconv.Quote("Mind Map for: "+g.Topic)); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if _, err := fmt.Fprintf(w, "  %s;\n", strconv.Quote(n)); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "  %s -- %s;\n", strconv.Quote(g.Nodes[e.From]), strconv.Quote(g.Nodes[e.To])); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
