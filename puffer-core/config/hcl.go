package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// loadHCLConfig parses an HCL configuration file into cfg. Unknown
// attributes are rejected so typos in config files surface immediately.
func loadHCLConfig(configPath string, cfg *Config) error {
	cleanPath := filepath.Clean(configPath)
	if !filepath.IsAbs(cleanPath) {
		absPath, err := filepath.Abs(cleanPath)
		if err != nil {
			return fmt.Errorf("invalid config file path: %w", err)
		}
		cleanPath = absPath
	}

	src, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, cleanPath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL config: %s", diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("failed to read HCL attributes: %s", diags.Error())
	}

	for name, attr := range attrs {
		switch name {
		case "chunk-size":
			if err := decodeHCLAttr(attr, cty.Number, &cfg.ChunkSizeBytes); err != nil {
				return err
			}
		case "prealloc-buffers":
			if err := decodeHCLAttr(attr, cty.Number, &cfg.PreallocBuffers); err != nil {
				return err
			}
		case "stats-enabled":
			if err := decodeHCLAttr(attr, cty.Bool, &cfg.StatsEnabled); err != nil {
				return err
			}
		case "log-level":
			if err := decodeHCLAttr(attr, cty.String, &cfg.LogLevel); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown config attribute %q at %s", name, attr.Range)
		}
	}

	return nil
}

// decodeHCLAttr evaluates an attribute expression, converts it to the wanted
// cty type and stores it into the Go value behind target.
func decodeHCLAttr(attr *hcl.Attribute, want cty.Type, target any) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("failed to evaluate %q: %s", attr.Name, diags.Error())
	}

	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", attr.Name, err)
	}

	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("attribute %q: %w", attr.Name, err)
	}
	return nil
}
