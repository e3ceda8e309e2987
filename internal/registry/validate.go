package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/halcyard/stackplan/internal/ctxlog"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateRegistry performs a strict self-consistency check over the loaded
// catalog. Value-level checks (defaults vs constraints, sentinel typing)
// happen while the model is built; this pass covers the naming contract that
// composition authors depend on.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, templateType := range r.Types() {
		tpl := r.Templates[templateType]

		if !identifierPattern.MatchString(templateType) {
			errs = append(errs, fmt.Sprintf("template '%s': type must be a lower_snake_case identifier", templateType))
		}

		for name := range tpl.Parameters {
			if !identifierPattern.MatchString(name) {
				errs = append(errs, fmt.Sprintf("template '%s': parameter '%s' must be a lower_snake_case identifier", templateType, name))
			}
		}
		for name := range tpl.Outputs {
			if !identifierPattern.MatchString(name) {
				errs = append(errs, fmt.Sprintf("template '%s': output '%s' must be a lower_snake_case identifier", templateType, name))
			}
		}

		if len(tpl.Outputs) == 0 {
			logger.Warn("Template declares no outputs; compositions cannot wire anything from it.", "template", templateType)
		}
		if len(tpl.Resources) == 0 {
			logger.Warn("Template declares no resources.", "template", templateType)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
