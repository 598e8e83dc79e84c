package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// Has reports whether the graph holds a node with the given ID.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]string(nil), g.order...)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist. A self-referential edge is a one-node cycle
// and is reported as a *CycleError. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return &CycleError{Path: []string{fromID, fromID}}
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if toNode.hasDep(fromID) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromID)
	fromNode.dependents = append(fromNode.dependents, toID)
	return nil
}

// Dependencies returns the IDs the given node depends on, in edge order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.deps...), nil
}

// Dependents returns the IDs that depend on the given node, in edge order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.dependents...), nil
}

// DetectCycles checks the graph for any cycles and returns a *CycleError
// naming the first cycle found.
func (g *Graph) DetectCycles() error {
	_, err := g.TopoSort()
	return err
}

// TopoSort returns every node so that each one comes after its
// dependencies. Ties are broken by insertion order, so the result is
// stable for a given construction sequence.
func (g *Graph) TopoSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.postOrder(g.order)
}

// Closure returns the given roots and everything they transitively depend
// on, dependencies first. Each node appears once.
func (g *Graph) Closure(roots ...string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	for _, r := range roots {
		if _, ok := g.nodes[r]; !ok {
			return nil, fmt.Errorf("node not found: %s", r)
		}
	}
	return g.postOrder(roots)
}

// postOrder runs a depth-first search with three sets of nodes:
// visited nodes are fully explored and safe, nodes on the stack are in the
// current recursion path, everything else is unvisited.
func (g *Graph) postOrder(roots []string) ([]string, error) {
	visited := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string
	var out []string

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		if pos, ok := onStack[id]; ok {
			path := append([]string(nil), stack[pos:]...)
			return &CycleError{Path: append(path, id)}
		}

		onStack[id] = len(stack)
		stack = append(stack, id)
		for _, dep := range g.nodes[id].deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, id)

		visited[id] = true
		out = append(out, id)
		return nil
	}

	for _, id := range roots {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}
