package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL description loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every description file reachable from paths and merges their
// blocks into one model. The model root is the first path if it is a
// directory, or the directory holding it otherwise.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))
	if len(paths) == 0 {
		return nil, errors.New("no description path given")
	}

	files, root, err := resolvePaths(ctx, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files), "root", root)

	model := &config.Model{
		Settings: make(map[string]cty.Value),
		Features: make(map[string]bool),
		Root:     root,
	}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		content, diags := hclFile.Body.Content(rootSchema())
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		for _, block := range content.Blocks {
			if err := l.translateBlock(ctx, model, block); err != nil {
				return nil, err
			}
		}
	}

	if model.Project == nil {
		return nil, fmt.Errorf("no project block found in %v", paths)
	}
	logger.Debug("HCL loading complete.",
		"project", model.Project.Name, "atoms", len(model.Atoms), "keys", len(model.Keys), "parts", len(model.Parts))
	return model, nil
}

// resolvePaths expands directories into the .hcl files below them, in
// lexical order, and drops repeated files.
func resolvePaths(ctx context.Context, paths []string) ([]string, string, error) {
	logger := ctxlog.FromContext(ctx)
	var files []string
	var root string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for i, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("description path not found: %s", path)
		}
		if err != nil {
			return nil, "", fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != ".hcl" {
				return nil, "", fmt.Errorf("specified file is not an .hcl file: %s", path)
			}
			if i == 0 {
				root = filepath.Dir(path)
			}
			add(path)
			continue
		}

		if i == 0 {
			root = path
		}
		logger.Debug("Path is a directory, scanning for HCL files.", "directory", path)
		matches, err := doublestar.Glob(os.DirFS(path), "**/*.hcl", doublestar.WithFilesOnly())
		if err != nil {
			return nil, "", fmt.Errorf("scanning %s: %w", path, err)
		}
		for _, m := range matches {
			add(filepath.Join(path, filepath.FromSlash(m)))
		}
	}
	return files, root, nil
}
