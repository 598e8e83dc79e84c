// Package pkglookup resolves external packages into compiler and linker
// arguments by querying package managers, with an explicit per-run cache
// of query results.
package pkglookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/vk/partgrid/internal/ctxlog"
)

// Querier runs a query command and returns its standard output.
type Querier interface {
	Query(ctx context.Context, argv []string) (string, error)
}

// ExecQuerier runs queries as processes.
type ExecQuerier struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Query implements Querier.
func (q ExecQuerier) Query(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty query")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = q.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, msg)
		}
		return "", fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return string(out), nil
}

type result struct {
	out string
	err error
}

// Cache memoizes query results by exact query text. Entries, failures
// included, are never invalidated, so a Cache should live for one run.
type Cache struct {
	mu      sync.Mutex
	q       Querier
	entries map[string]result
	hits    int
	misses  int
}

// NewCache wraps q.
func NewCache(q Querier) *Cache {
	return &Cache{q: q, entries: make(map[string]result)}
}

// Query implements Querier.
func (c *Cache) Query(ctx context.Context, argv []string) (string, error) {
	key := strings.Join(argv, " ")

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.entries[key]; ok {
		c.hits++
		return r.out, r.err
	}
	c.misses++
	ctxlog.FromContext(ctx).Debug("Running package query.", "query", key)
	out, err := c.q.Query(ctx, argv)
	c.entries[key] = result{out: out, err: err}
	return out, err
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
