package hclexpr

import (
	"sync"

	"github.com/hashicorp/hcl/v2"
)

// Container gathers the expressions of one declaration and caches the
// references and function calls found in them.
type Container struct {
	analyzeOnce sync.Once

	mu          sync.RWMutex
	expressions []hcl.Expression

	references      []hcl.Traversal
	calledFunctions []string
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Add adds expressions, ignoring nil ones. Add must not race with the
// getters.
func (c *Container) Add(exprs ...hcl.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.analyzeOnce = sync.Once{}
	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
		}
	}
}

func (c *Container) analyze() {
	c.analyzeOnce.Do(func() {
		c.mu.RLock()
		refs, funcs := extractReferencesAndFunctions(c.expressions...)
		c.mu.RUnlock()

		c.mu.Lock()
		c.references = refs
		c.calledFunctions = funcs
		c.mu.Unlock()
	})
}

// References returns the unique traversals, sorted by TraversalKey.
func (c *Container) References() []hcl.Traversal {
	c.analyze()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.references
}

// CalledFunctions returns the unique function names, sorted.
func (c *Container) CalledFunctions() []string {
	c.analyze()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calledFunctions
}
