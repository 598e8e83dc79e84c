package builder

import (
	"context"

	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/partid"
)

// createNodes performs the first pass, adding a node for every part
// declaration.
func (s *storage) createNodes(ctx context.Context, parts []*config.Part) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node creation pass.")

	var errs error
	for _, p := range parts {
		addr, err := partid.Parse(p.Address())
		if err != nil {
			errs = multierr.Append(errs, &DeclError{Decl: p.Address(), Range: p.Range, Err: err})
			continue
		}
		id := addr.String()
		if prev, exists := s.decls[id]; exists {
			errs = multierr.Append(errs, declErr(id, p.Range, "duplicate declaration, first declared at %s", prev.rng))
			continue
		}
		logger.Debug("Creating node.", "id", id)
		s.add(&decl{addr: addr, cfg: p, rng: p.Range})
	}
	logger.Debug("Finished node creation pass.", "node_count", len(s.decls))
	return errs
}
