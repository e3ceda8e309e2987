package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/fsutil"
	"github.com/halcyard/stackplan/internal/model"
	"github.com/halcyard/stackplan/internal/schema"
)

// LoadTemplatesRecursively finds and parses all template manifest files under
// the given path and registers every template they declare.
func (r *Registry) LoadTemplatesRecursively(ctx context.Context, templatesPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading templates from catalog path...", "path", templatesPath)

	filePaths, err := fsutil.FindFilesByExtension(templatesPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk templates directory", "path", templatesPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl template files found in path", "path", templatesPath)
		return nil
	}

	parser := hclparse.NewParser()

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var parsedFile schema.TemplateFile
		diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
		if diags.HasErrors() {
			return fmt.Errorf("failed to decode template manifest %s: %w", filePath, diags)
		}

		for _, rawTemplate := range parsedFile.Templates {
			tpl, err := model.NewTemplateFromHCL(ctx, rawTemplate, filePath)
			if err != nil {
				return fmt.Errorf("in %s: %w", filePath, err)
			}
			if existing, exists := r.Templates[tpl.Type]; exists {
				return fmt.Errorf("duplicate template type '%s': declared in both %s and %s", tpl.Type, existing.Source, filePath)
			}
			r.Templates[tpl.Type] = tpl
		}
		logger.Debug("Successfully loaded definitions from manifest file", "file", filePath)
	}

	logger.Info("Registry loaded successfully.", "templates_loaded", len(r.Templates))
	return nil
}
