// Package ndot renders a node graph in DOT syntax for visualization with
// Graphviz. The walk is purely structural: it follows InputsByName and
// sink edges transitively from a root node and never evaluates anything.
package ndot

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/nodegraph/nodes"
)

// Marshal renders the graph reachable from root as a DOT digraph.
func Marshal(root nodes.AnyNode) string {
	w := &walker{
		ids:      make(map[string]string),
		visited:  make(map[string]nodes.AnyNode),
		clusters: make(map[*nodes.Subgraph][]string),
	}
	w.walk(root)

	var sb strings.Builder
	sb.WriteString("digraph nodegraph {\n")
	sb.WriteString("  rankdir=BT;\n")
	sb.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, id := range sortedKeys(w.visited) {
		n := w.visited[id]
		fmt.Fprintf(&sb, "  %s [label=%q%s];\n", w.ids[id], n.Name(), styleOf(n))
	}

	clusterIdx := 0
	for _, sg := range sortedClusters(w.clusters) {
		members := w.clusters[sg]
		sort.Strings(members)
		fmt.Fprintf(&sb, "  subgraph cluster_%d {\n", clusterIdx)
		fmt.Fprintf(&sb, "    label=%q;\n    style=dashed;\n", sg.Name())
		for _, m := range members {
			fmt.Fprintf(&sb, "    %s;\n", m)
		}
		sb.WriteString("  }\n")
		clusterIdx++
	}

	sort.Strings(w.edges)
	for _, e := range w.edges {
		sb.WriteString("  " + e + "\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

type walker struct {
	ids      map[string]string        // node ID -> DOT vertex name
	visited  map[string]nodes.AnyNode // node ID -> node
	clusters map[*nodes.Subgraph][]string
	edges    []string
	next     int
}

func (w *walker) vertex(n nodes.AnyNode) string {
	if v, ok := w.ids[n.ID()]; ok {
		return v
	}
	v := fmt.Sprintf("n%d_%s", w.next, shortID(n.ID()))
	w.next++
	w.ids[n.ID()] = v
	return v
}

func (w *walker) walk(n nodes.AnyNode) {
	if _, seen := w.visited[n.ID()]; seen {
		return
	}
	w.visited[n.ID()] = n
	from := w.vertex(n)

	if sg := n.EnclosingSubgraph(); sg != nil {
		w.clusters[sg] = append(w.clusters[sg], from)
	}

	optional := make(map[string]bool)
	for _, b := range n.Bindings() {
		optional[b.Node.ID()] = b.Optional
	}

	inputs := n.InputsByName()
	for _, name := range sortedKeys(inputs) {
		in := inputs[name]
		w.walk(in)
		style := ""
		if optional[in.ID()] || in.IsOptionalNode() {
			style = ", style=dashed"
		}
		w.edges = append(w.edges,
			fmt.Sprintf("%s -> %s [label=%q%s];", w.vertex(in), from, name, style))
	}

	for _, sink := range n.Sinks() {
		w.walk(sink)
		w.edges = append(w.edges,
			fmt.Sprintf("%s -> %s [style=dotted, label=\"sink\"];", from, w.vertex(sink)))
	}
}

func styleOf(n nodes.AnyNode) string {
	switch {
	case n.IsOptionalNode():
		return ", shape=ellipse, style=dashed"
	case len(n.Bindings()) == 0 && len(n.InputsByName()) == 0:
		// Leaves are literals, suppliers or wrapped futures.
		return ", shape=box"
	default:
		return ", shape=ellipse"
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}

func sortedClusters(m map[*nodes.Subgraph][]string) []*nodes.Subgraph {
	sgs := maps.Keys(m)
	sort.Slice(sgs, func(i, j int) bool { return sgs[i].Name() < sgs[j].Name() })
	return sgs
}
