package dag

import (
	"strings"
	"sync"
)

// Graph is a collection of nodes and their dependencies. All operations on
// the graph are concurrency-safe.
type Graph struct {
	// mutex protects nodes and order during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records node IDs in insertion order.
	order []string
}

// node is un-exported to enforce interaction with the graph via the public
// API (using string IDs), not by direct struct manipulation.
type node struct {
	id string
	// deps holds the IDs this node depends on, in edge insertion order.
	deps []string
	// dependents holds the IDs depending on this node, in edge insertion order.
	dependents []string
}

func (n *node) hasDep(id string) bool {
	for _, d := range n.deps {
		if d == id {
			return true
		}
	}
	return false
}

// CycleError reports a dependency cycle. Path starts and ends with the
// same ID.
type CycleError struct {
	Path []string
}

// Error implements the error interface for CycleError.
func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Path, " -> ")
}
