package nodes

import (
	"fmt"
	"reflect"
)

// Subgraph is a named grouping of nodes with a chosen set of exposed
// output nodes. It has no effect on evaluation; it exists for modular
// graph construction and to annotate exposed nodes for visualization and
// debugging.
//
// Embed Subgraph in a struct with public node fields and call
// [MarkExposed] at the end of the constructor:
//
//	type SearchGraph struct {
//		nodes.Subgraph
//		Response *nodes.Node[*SearchResponse]
//	}
//
//	func NewSearchGraph(req *nodes.Node[*SearchRequest]) (*SearchGraph, error) {
//		g := &SearchGraph{}
//		g.Response = ...
//		if err := nodes.MarkExposed(g); err != nil {
//			return nil, err
//		}
//		return g, nil
//	}
type Subgraph struct {
	name    string
	exposed []AnyNode
}

// Name returns the subgraph name.
func (s *Subgraph) Name() string { return s.name }

// SetName overrides the name derived by [MarkExposed].
func (s *Subgraph) SetName(name string) { s.name = name }

// ExposedNodes lists the nodes exposed by this subgraph.
func (s *Subgraph) ExposedNodes() []AnyNode { return s.exposed }

// MarkExposedNodes marks the given nodes as this subgraph's exposed
// outputs. It reports ErrNoExposedNodes when called with no nodes.
func (s *Subgraph) MarkExposedNodes(ns ...AnyNode) error {
	if len(ns) == 0 {
		return ErrNoExposedNodes
	}
	for _, n := range ns {
		n.setEnclosingSubgraph(s)
		s.exposed = append(s.exposed, n)
	}
	return nil
}

// MarkExposed scans the public node fields of a struct embedding
// [Subgraph] and marks every non-nil one as an exposed output. The
// subgraph name defaults to the struct's type name. It reports
// ErrNoExposedNodes when the struct has no non-nil public node fields.
func MarkExposed(sub any) error {
	v := reflect.ValueOf(sub)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: MarkExposed wants a pointer to a struct embedding Subgraph, got %T",
			ErrNoExposedNodes, sub)
	}
	elem := v.Elem()

	sg := findSubgraph(elem)
	if sg == nil {
		return fmt.Errorf("%w: %T does not embed nodes.Subgraph", ErrNoExposedNodes, sub)
	}
	if sg.name == "" {
		sg.name = elem.Type().Name()
	}

	nodeType := reflect.TypeOf((*AnyNode)(nil)).Elem()
	var exposed []AnyNode
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Type().Field(i)
		if !f.IsExported() || f.Anonymous || !f.Type.Implements(nodeType) {
			continue
		}
		fv := elem.Field(i)
		if fv.IsNil() {
			continue
		}
		exposed = append(exposed, fv.Interface().(AnyNode))
	}
	if len(exposed) == 0 {
		return fmt.Errorf("%w: no public node fields set on %s", ErrNoExposedNodes, elem.Type().Name())
	}
	return sg.MarkExposedNodes(exposed...)
}

// MustMarkExposed is like MarkExposed but panics on error.
func MustMarkExposed(sub any) {
	must(MarkExposed(sub))
}

func findSubgraph(elem reflect.Value) *Subgraph {
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Type().Field(i)
		if f.Anonymous && f.Type == reflect.TypeOf(Subgraph{}) {
			return elem.Field(i).Addr().Interface().(*Subgraph)
		}
	}
	return nil
}
