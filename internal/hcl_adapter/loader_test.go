package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/partgrid/internal/config"
)

const demoHCL = `
project "demo" {
  version = "0.1.0"
  args "compile-byte" {
    values = ["-g"]
    cond   = atom.debug
  }
}

atom "profile" {
  default = false
  doc     = "Build with profiling."
}

key "prefix" {
  type    = string
  default = "/usr/local"
  public  = true
}

config {
  native = false
}

features {
  debug = true
}
`

const partsHCL = `
unit "a" { dir = "src" }
unit "b" {
  dir        = "src"
  deps       = [unit.a]
  visibility = "opaque"
}
lib "core" {
  deps   = [unit.a, unit.b]
  native = key.native
  args "archive-byte" { values = ["-linkall"] }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoader_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "partgrid.hcl", demoHCL)
	writeFile(t, dir, "src/parts.hcl", partsHCL)
	writeFile(t, dir, "src/notes.txt", "not a description")

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, model.Root)
	require.NotNil(t, model.Project)
	assert.Equal(t, "demo", model.Project.Name)
	assert.Equal(t, "0.1.0", model.Project.Version)
	require.Len(t, model.Project.Args, 1)
	assert.Equal(t, "compile-byte", model.Project.Args[0].Context)
	assert.Equal(t, []string{"-g"}, model.Project.Args[0].Values)
	assert.NotNil(t, model.Project.Args[0].Cond)

	require.Len(t, model.Atoms, 1)
	assert.Equal(t, config.Atom{Name: "profile", Default: false, Doc: "Build with profiling.", Range: model.Atoms[0].Range}, *model.Atoms[0])

	require.Len(t, model.Keys, 1)
	k := model.Keys[0]
	assert.Equal(t, "prefix", k.Name)
	assert.Equal(t, cty.String, k.Type)
	require.NotNil(t, k.Default)
	assert.Equal(t, "/usr/local", k.Default.AsString())
	assert.True(t, k.Public)

	assert.Equal(t, map[string]cty.Value{"native": cty.False}, model.Settings)
	assert.Equal(t, map[string]bool{"debug": true}, model.Features)

	require.Len(t, model.Parts, 3)
	assert.Equal(t, "unit.a", model.Parts[0].Address())
	assert.Equal(t, "lib.core", model.Parts[2].Address())
	assert.NotNil(t, model.Parts[1].Attr("visibility"))
	assert.Nil(t, model.Parts[0].Attr("deps"))
	require.Len(t, model.Parts[2].Args, 1)
	assert.Nil(t, model.Parts[2].Args[0].Cond)
}

func TestLoader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "partgrid.hcl", demoHCL+partsHCL)
	writeFile(t, dir, "other.hcl", `project "other" {}`)

	model, err := NewLoader().Load(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, dir, model.Root)
	assert.Equal(t, "demo", model.Project.Name)
	assert.Len(t, model.Parts, 3)
}

func TestLoader_PartArgs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "partgrid.hcl", `
project "demo" {}
unit "a" {
  dir = "src"
  args "compile-byte" { values = ["-w", "+a"] }
  args "compile-native" {
    values = ["-O3"]
    cond   = atom.profile
  }
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Parts, 1)
	p := model.Parts[0]
	assert.NotNil(t, p.Attr("dir"))
	assert.Nil(t, p.Attr("args"))
	require.Len(t, p.Args, 2)
	assert.Equal(t, "compile-byte", p.Args[0].Context)
	assert.Equal(t, []string{"-w", "+a"}, p.Args[0].Values)
	assert.Nil(t, p.Args[0].Cond)
	assert.Equal(t, "compile-native", p.Args[1].Context)
	assert.NotNil(t, p.Args[1].Cond)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no project",
			files:   map[string]string{"a.hcl": `unit "a" {}`},
			wantErr: "no project block",
		},
		{
			name:    "duplicate project",
			files:   map[string]string{"a.hcl": `project "x" {}`, "b.hcl": `project "y" {}`},
			wantErr: "duplicate project block",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"a.hcl": `project "x" {}` + "\nmodule \"m\" {}"},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "nested block in part",
			files:   map[string]string{"a.hcl": "project \"x\" {}\nunit \"a\" {\n  extra {}\n}"},
			wantErr: `Blocks of type "extra" are not expected here`,
		},
		{
			name:    "part args without values",
			files:   map[string]string{"a.hcl": "project \"x\" {}\nunit \"a\" {\n  args \"compile-byte\" {}\n}"},
			wantErr: "failed to decode unit \"a\"",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"a.hcl": `project "x" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "bad key type",
			files:   map[string]string{"a.hcl": `project "x" {}` + "\nkey \"k\" { type = map(string) }"},
			wantErr: "unknown type constructor",
		},
		{
			name:    "setting twice",
			files:   map[string]string{"a.hcl": "project \"x\" {}\nconfig { native = false }\nconfig { native = true }"},
			wantErr: "set more than once",
		},
		{
			name:    "non-bool feature",
			files:   map[string]string{"a.hcl": "project \"x\" {}\nfeatures { debug = \"yes\" }"},
			wantErr: "must be set to true or false",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "description path not found")

	txt := writeFile(t, t.TempDir(), "notes.txt", "")
	_, err = NewLoader().Load(context.Background(), txt)
	assert.ErrorContains(t, err, "not an .hcl file")
}

func TestTypeExprToCtyType(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "k.hcl", `
project "x" {}
key "a" { type = bool }
key "b" { type = number }
key "c" { type = list(string) }
`)
	model, err := NewLoader().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, model.Keys, 3)
	assert.Equal(t, cty.Bool, model.Keys[0].Type)
	assert.Equal(t, cty.Number, model.Keys[1].Type)
	assert.Equal(t, cty.List(cty.String), model.Keys[2].Type)
	assert.Nil(t, model.Keys[0].Default)
}
