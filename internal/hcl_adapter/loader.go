package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridclosure/internal/config"
	"github.com/specialistvlad/gridclosure/internal/ctxlog"
	"github.com/specialistvlad/gridclosure/internal/fsutil"
	"github.com/specialistvlad/gridclosure/internal/model"
)

// Defaults are the project, domain and version used when a file has no
// `defaults` block, or leaves some of its fields empty.
type Defaults struct {
	Project string
	Domain  string
	Version string
}

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	defaults Defaults
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader(defaults Defaults) *Loader {
	return &Loader{defaults: defaults}
}

// Load parses every .hcl file found under paths and merges all definitions
// into a single universe. Defining the same identifier twice is an error,
// whichever files the definitions come from.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Universe, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find HCL files: %w", err)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	u := config.NewUniverse()
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		scope, err := l.fileScope(root.Defaults)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", file, err)
		}
		if err := scope.addAll(ctx, u, &root); err != nil {
			return nil, fmt.Errorf("in file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "workflows", len(u.Workflows), "tasks", len(u.Tasks), "launch_plans", len(u.LaunchPlans))
	return u, nil
}

// fileScope layers a file's `defaults` block over the loader defaults.
func (l *Loader) fileScope(blocks []*DefaultsBlock) (*scope, error) {
	if len(blocks) > 1 {
		return nil, fmt.Errorf("at most one defaults block is allowed per file, found %d", len(blocks))
	}
	s := &scope{project: l.defaults.Project, domain: l.defaults.Domain, version: l.defaults.Version}
	if len(blocks) == 1 {
		b := blocks[0]
		if b.Project != "" {
			s.project = b.Project
		}
		if b.Domain != "" {
			s.domain = b.Domain
		}
		if b.Version != "" {
			s.version = b.Version
		}
	}
	return s, nil
}

// scope holds the defaults in effect for one file.
type scope struct {
	project, domain, version string
}

// entityID builds the identifier an entity named by a block label is
// registered under.
func (s *scope) entityID(kind, name string) (model.Identifier, error) {
	id, err := s.reference(name)
	if err != nil {
		return model.Identifier{}, fmt.Errorf("%s '%s': %w", kind, name, err)
	}
	if id.Name != name {
		return model.Identifier{}, fmt.Errorf("%s name '%s' must be a plain name", kind, name)
	}
	if !id.IsComplete() {
		return model.Identifier{}, fmt.Errorf("%s '%s' has no complete identifier (%s); set project, domain and version in a defaults block or on the command line", kind, name, id)
	}
	return id, nil
}

// reference parses a reference string and fills its empty fields from the
// scope. The result may still be partial when the scope itself is.
func (s *scope) reference(raw string) (model.Identifier, error) {
	id, err := model.ParseIdentifier(raw)
	if err != nil {
		return model.Identifier{}, err
	}
	if id.Project == "" {
		id.Project = s.project
	}
	if id.Domain == "" {
		id.Domain = s.domain
	}
	if id.Version == "" {
		id.Version = s.version
	}
	return id, nil
}

func (s *scope) addAll(ctx context.Context, u *config.Universe, root *fileRoot) error {
	for _, b := range root.Tasks {
		id, tmpl, err := s.translateTask(ctx, b)
		if err != nil {
			return err
		}
		if err := u.AddTask(model.TaskIdentifier(id), tmpl); err != nil {
			return err
		}
	}
	for _, b := range root.Workflows {
		id, tmpl, err := s.translateWorkflow(ctx, b)
		if err != nil {
			return err
		}
		if err := u.AddWorkflow(model.WorkflowIdentifier(id), tmpl); err != nil {
			return err
		}
	}
	for _, b := range root.LaunchPlans {
		id, lp, err := s.translateLaunchPlan(ctx, b)
		if err != nil {
			return err
		}
		if err := u.AddLaunchPlan(model.LaunchPlanIdentifier(id), lp); err != nil {
			return err
		}
	}
	return nil
}
