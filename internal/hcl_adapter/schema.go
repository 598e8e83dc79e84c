package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/partgrid/internal/part"
)

// Top-level block types besides the part kinds.
const (
	blockProject  = "project"
	blockAtom     = "atom"
	blockKey      = "key"
	blockConfig   = "config"
	blockFeatures = "features"
	blockArgs     = "args"
)

// rootSchema lists every block a description file may contain. Part blocks
// are named after their kind.
func rootSchema() *hcl.BodySchema {
	s := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: blockProject, LabelNames: []string{"name"}},
			{Type: blockAtom, LabelNames: []string{"name"}},
			{Type: blockKey, LabelNames: []string{"name"}},
			{Type: blockConfig},
			{Type: blockFeatures},
		},
	}
	for _, k := range part.Kinds() {
		s.Blocks = append(s.Blocks, hcl.BlockHeaderSchema{Type: k.String(), LabelNames: []string{"name"}})
	}
	return s
}

type projectBody struct {
	Version string       `hcl:"version,optional"`
	Args    []*argsBlock `hcl:"args,block"`
}

type argsBlock struct {
	Context string         `hcl:"context,label"`
	Values  []string       `hcl:"values"`
	Cond    hcl.Expression `hcl:"cond,optional"`
}

type atomBody struct {
	Default *bool  `hcl:"default,optional"`
	Doc     string `hcl:"doc,optional"`
}

type keyBody struct {
	Type    hcl.Expression `hcl:"type"`
	Default hcl.Expression `hcl:"default,optional"`
	Public  bool           `hcl:"public,optional"`
	Doc     string         `hcl:"doc,optional"`
}

// partSchema picks the args blocks out of a part body. Everything else
// is a free-form attribute the builder interprets per kind.
var partSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: blockArgs, LabelNames: []string{"context"}}},
}
