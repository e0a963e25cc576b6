package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config holds all configuration
type Config struct {
	Variables []Variable `hcl:"variable,block"`
	Models    []Model    `hcl:"model,block"`
	Personas  []Persona  `hcl:"persona,block"`
	Driver    *Driver    `hcl:"driver,block"`

	// ResolvedVars holds the resolved variable values for runtime use
	ResolvedVars map[string]cty.Value `hcl:"-"`
}

func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadAndValidate loads the config and validates all components
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all config components are valid
func (c *Config) Validate() error {
	for _, v := range c.Variables {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variable '%s': %w", v.Name, err)
		}
	}

	seenModels := make(map[string]bool)
	for _, m := range c.Models {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("model '%s': %w", m.Name, err)
		}
		if seenModels[m.Name] {
			return fmt.Errorf("model '%s': declared more than once", m.Name)
		}
		seenModels[m.Name] = true
	}

	seenPersonas := make(map[string]bool)
	hasFallback := false
	for _, p := range c.Personas {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("persona '%s': %w", p.Name, err)
		}
		if seenPersonas[p.Name] {
			return fmt.Errorf("persona '%s': declared more than once", p.Name)
		}
		seenPersonas[p.Name] = true
		if len(p.Keywords) == 0 {
			hasFallback = true
		}
	}
	if len(c.Personas) > 0 && !hasFallback {
		return fmt.Errorf("persona blocks declare no fallback: one persona must carry no keywords")
	}

	if c.Driver != nil {
		if err := c.Driver.Validate(); err != nil {
			return fmt.Errorf("driver: %w", err)
		}
	}

	return nil
}

// ModelByName returns the named model block.
func (c *Config) ModelByName(name string) (*Model, error) {
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i], nil
		}
	}
	return nil, fmt.Errorf("model '%s' is not declared in config", name)
}

// DefaultModel returns the first declared model block.
func (c *Config) DefaultModel() (*Model, error) {
	if len(c.Models) == 0 {
		return nil, fmt.Errorf("config declares no model blocks")
	}
	return &c.Models[0], nil
}

func LoadFile(filename string) (*Config, error) {
	return loadFromFiles([]string{filename})
}

func LoadDir(dir string) (*Config, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.hcl"))
	if err != nil {
		return nil, err
	}
	return loadFromFiles(files)
}

// parsedBlocks holds all blocks extracted from a file in one pass
type parsedBlocks struct {
	Variables []*hcl.Block
	Models    []*hcl.Block
	Personas  []*hcl.Block
	Drivers   []*hcl.Block
}

// loadFromFiles implements staged loading: variables → everything else.
// Variables are decoded first with no context; every later block decodes
// against the vars namespace they produce.
func loadFromFiles(files []string) (*Config, error) {
	// Parse all files and extract all block types in a single pass
	parser := hclparse.NewParser()
	var allParsedBlocks []parsedBlocks

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("[1] parse %s: %w", file, diags)
		}

		content, _, diags := hclFile.Body.PartialContent(&hcl.BodySchema{
			Blocks: []hcl.BlockHeaderSchema{
				{Type: "variable", LabelNames: []string{"name"}},
				{Type: "model", LabelNames: []string{"name"}},
				{Type: "persona", LabelNames: []string{"name"}},
				{Type: "driver"},
			},
		})
		if diags.HasErrors() {
			return nil, fmt.Errorf("[2] partial content %s: %w", file, diags)
		}

		var pb parsedBlocks
		for _, block := range content.Blocks {
			switch block.Type {
			case "variable":
				pb.Variables = append(pb.Variables, block)
			case "model":
				pb.Models = append(pb.Models, block)
			case "persona":
				pb.Personas = append(pb.Personas, block)
			case "driver":
				pb.Drivers = append(pb.Drivers, block)
			}
		}
		allParsedBlocks = append(allParsedBlocks, pb)
	}

	// Stage 1: Load variables (no context needed)
	var allVars []Variable
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Variables {
			var v Variable
			v.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, nil, &v)
			if diags.HasErrors() {
				return nil, fmt.Errorf("[3] decode variable %s: %w", v.Name, diags)
			}
			allVars = append(allVars, v)
		}
	}

	// Build vars context
	varsCtx, resolvedVars := buildVarsContext(allVars)

	// Stage 2: Load models (with vars context)
	var allModels []Model
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Models {
			var m Model
			m.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, varsCtx, &m)
			if diags.HasErrors() {
				return nil, fmt.Errorf("[4] decode model %s: %w", m.Name, diags)
			}
			allModels = append(allModels, m)
		}
	}

	// Stage 3: Load personas (with vars context); block order is the
	// registration order the selector ties break on, so it is preserved.
	var allPersonas []Persona
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Personas {
			var p Persona
			p.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, varsCtx, &p)
			if diags.HasErrors() {
				return nil, fmt.Errorf("[5] decode persona %s: %w", p.Name, diags)
			}
			allPersonas = append(allPersonas, p)
		}
	}

	// Stage 4: Load the driver block (with vars context)
	var driver *Driver
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Drivers {
			if driver != nil {
				return nil, fmt.Errorf("[6] more than one driver block declared")
			}
			var d Driver
			diags := gohcl.DecodeBody(block.Body, varsCtx, &d)
			if diags.HasErrors() {
				return nil, fmt.Errorf("[6] decode driver block: %w", diags)
			}
			driver = &d
		}
	}

	return &Config{
		Variables:    allVars,
		Models:       allModels,
		Personas:     allPersonas,
		Driver:       driver,
		ResolvedVars: resolvedVars,
	}, nil
}

func buildVarsContext(vars []Variable) (*hcl.EvalContext, map[string]cty.Value) {
	varsMap := make(map[string]cty.Value)
	fileVars, _ := LoadVarsFromFile()
	for _, v := range vars {
		if val, ok := fileVars[v.Name]; ok {
			varsMap[v.Name] = cty.StringVal(val)
		} else if v.Default != "" {
			varsMap[v.Name] = cty.StringVal(v.Default)
		} else {
			varsMap[v.Name] = cty.StringVal("")
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"vars": cty.ObjectVal(varsMap),
		},
	}, varsMap
}
