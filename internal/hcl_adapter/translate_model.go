// This file translates HCL blocks into the format-agnostic description
// model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
)

func (l *Loader) translateBlock(ctx context.Context, model *config.Model, block *hcl.Block) error {
	switch block.Type {
	case blockProject:
		if model.Project != nil {
			return fmt.Errorf("%s: duplicate project block, first declared at %s", block.DefRange, model.Project.Range)
		}
		p, err := l.translateProject(ctx, block)
		if err != nil {
			return err
		}
		model.Project = p
	case blockAtom:
		a, err := l.translateAtom(block)
		if err != nil {
			return err
		}
		model.Atoms = append(model.Atoms, a)
	case blockKey:
		k, err := l.translateKey(ctx, block)
		if err != nil {
			return err
		}
		model.Keys = append(model.Keys, k)
	case blockConfig:
		return l.translateSettings(block, model.Settings)
	case blockFeatures:
		return l.translateFeatures(block, model.Features)
	default:
		p, err := l.translatePart(ctx, block)
		if err != nil {
			return err
		}
		model.Parts = append(model.Parts, p)
	}
	return nil
}

// translateProject converts the project block into the agnostic model.
func (l *Loader) translateProject(ctx context.Context, block *hcl.Block) (*config.Project, error) {
	var body projectBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project %q: %w", block.Labels[0], diags)
	}
	return &config.Project{
		Name:    block.Labels[0],
		Version: body.Version,
		Args:    translateArgs(ctx, body.Args, block.DefRange),
		Range:   block.DefRange,
	}, nil
}

func translateArgs(ctx context.Context, blocks []*argsBlock, rng hcl.Range) []*config.Args {
	out := make([]*config.Args, 0, len(blocks))
	for _, b := range blocks {
		a := &config.Args{Context: b.Context, Values: b.Values, Range: rng}
		if isExprDefined(ctx, b.Cond, "cond") {
			a.Cond = b.Cond
			a.Range = b.Cond.Range()
		}
		out = append(out, a)
	}
	return out
}

// translateAtom converts an atom block into the agnostic model.
func (l *Loader) translateAtom(block *hcl.Block) (*config.Atom, error) {
	var body atomBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode atom %q: %w", block.Labels[0], diags)
	}
	a := &config.Atom{Name: block.Labels[0], Doc: body.Doc, Range: block.DefRange}
	if body.Default != nil {
		a.Default = *body.Default
	}
	return a, nil
}

// translateKey converts a key block into the agnostic model.
func (l *Loader) translateKey(ctx context.Context, block *hcl.Block) (*config.Key, error) {
	name := block.Labels[0]
	var body keyBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode key %q: %w", name, diags)
	}

	ty, err := typeExprToCtyType(ctx, body.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: key %q: %w", block.DefRange, name, err)
	}
	k := &config.Key{Name: name, Type: ty, Public: body.Public, Doc: body.Doc, Range: block.DefRange}

	if isExprDefined(ctx, body.Default, "default") {
		val, diags := body.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for key %q: %w", name, diags)
		}
		if !val.IsNull() {
			k.Default = &val
		}
	}
	return k, nil
}

// translateSettings reads a config block. A key set in two blocks is an
// error.
func (l *Loader) translateSettings(block *hcl.Block, into map[string]cty.Value) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode config block: %w", diags)
	}
	for name, attr := range attrs {
		if _, dup := into[name]; dup {
			return fmt.Errorf("%s: key %q is set more than once", attr.NameRange, name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid value for key %q: %w", name, diags)
		}
		into[name] = val
	}
	return nil
}

// translateFeatures reads a features block of atom overrides.
func (l *Loader) translateFeatures(block *hcl.Block, into map[string]bool) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode features block: %w", diags)
	}
	for name, attr := range attrs {
		if _, dup := into[name]; dup {
			return fmt.Errorf("%s: atom %q is set more than once", attr.NameRange, name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid value for atom %q: %w", name, diags)
		}
		if val.IsNull() || val.Type() != cty.Bool {
			return fmt.Errorf("%s: atom %q must be set to true or false", attr.Expr.Range(), name)
		}
		into[name] = val.True()
	}
	return nil
}

// translatePart converts a part block. Its attributes stay unevaluated.
func (l *Loader) translatePart(ctx context.Context, block *hcl.Block) (*config.Part, error) {
	logger := ctxlog.FromContext(ctx).With("part_kind", block.Type, "part_name", block.Labels[0])
	logger.Debug("Translating HCL part to internal config model.")

	content, remain, diags := block.Body.PartialContent(partSchema)
	blocks := make([]*argsBlock, 0, len(content.Blocks))
	for _, b := range content.Blocks {
		a := &argsBlock{Context: b.Labels[0]}
		diags = append(diags, gohcl.DecodeBody(b.Body, nil, a)...)
		blocks = append(blocks, a)
	}
	attrs, attrDiags := partAttributes(remain)
	diags = append(diags, attrDiags...)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s %q: %w", block.Type, block.Labels[0], diags)
	}
	exprs := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprs[name] = attr.Expr
	}
	return &config.Part{
		Kind:       block.Type,
		Name:       block.Labels[0],
		Attributes: exprs,
		Args:       translateArgs(ctx, blocks, block.DefRange),
		Range:      block.DefRange,
	}, nil
}

// partAttributes returns the attributes left in a part body once its args
// blocks are taken. Native syntax bodies still list those blocks, so they
// are read directly; any other block is an error.
func partAttributes(body hcl.Body) (hcl.Attributes, hcl.Diagnostics) {
	sb, ok := body.(*hclsyntax.Body)
	if !ok {
		return body.JustAttributes()
	}
	var diags hcl.Diagnostics
	for _, b := range sb.Blocks {
		if b.Type == blockArgs {
			continue
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported block type",
			Detail:   fmt.Sprintf("Blocks of type %q are not expected here.", b.Type),
			Subject:  b.TypeRange.Ptr(),
		})
	}
	attrs := make(hcl.Attributes, len(sb.Attributes))
	for name, a := range sb.Attributes {
		attrs[name] = a.AsHCLAttribute()
	}
	return attrs, diags
}
