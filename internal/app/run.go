package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/gridclosure/internal/artifact"
	"github.com/specialistvlad/gridclosure/internal/closure"
	"github.com/specialistvlad/gridclosure/internal/ctxlog"
	"github.com/specialistvlad/gridclosure/internal/hcl_adapter"
	"github.com/specialistvlad/gridclosure/internal/model"
)

// Run loads the configured paths, computes the closure of the roots and
// writes one artifact per entity plus a manifest into the output directory.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	u, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Info("Configuration loaded.", "workflows", len(u.Workflows), "tasks", len(u.Tasks), "launch_plans", len(u.LaunchPlans))

	opts, err := a.buildOptions()
	if err != nil {
		return nil, err
	}

	pc, err := closure.Build(ctx, u, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build closure: %w", err)
	}
	a.logger.Info("Closure built.", "workflows", len(pc.WorkflowSpecs), "tasks", len(pc.TaskSpecs), "launch_plans", len(pc.LaunchPlans))

	dirSink, err := artifact.NewDirSink(a.config.OutDir)
	if err != nil {
		return nil, err
	}
	sink := artifact.NewManifestSink(dirSink)
	if err := artifact.Serialize(pc, sink); err != nil {
		return nil, fmt.Errorf("failed to serialize closure: %w", err)
	}
	manifest := sink.Manifest()
	if err := manifest.WriteDir(a.config.OutDir); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	written, err := dirSink.Artifacts()
	if err != nil {
		return nil, err
	}
	if !slices.Equal(written, manifest.Names()) {
		return nil, fmt.Errorf("output directory %s holds %d artifacts but the manifest lists %d", a.config.OutDir, len(written), len(manifest.Artifacts))
	}

	res := &Result{
		OutDir:       a.config.OutDir,
		Workflows:    len(pc.WorkflowSpecs),
		Tasks:        len(pc.TaskSpecs),
		LaunchPlans:  len(pc.LaunchPlans),
		ManifestPath: filepath.Join(a.config.OutDir, artifact.ManifestFilename),
	}
	a.logger.Info("Artifacts written.", "count", res.Artifacts(), "out_dir", res.OutDir)
	a.logger.Debug("App.Run method finished.")
	return res, nil
}

// buildOptions turns the textual configuration into closure options.
func (a *App) buildOptions() (closure.Options, error) {
	resolver := closure.DefaultsResolver{
		Project: a.config.Project,
		Domain:  a.config.Domain,
		Version: a.config.Version,
	}
	opts := closure.Options{Resolver: resolver, StrictCycles: a.config.StrictCycles}

	for _, raw := range a.config.LaunchPlans {
		ref, err := model.ParseIdentifier(raw)
		if err != nil {
			return closure.Options{}, fmt.Errorf("invalid launch plan %q: %w", raw, err)
		}
		id, err := resolver.ResolveLaunchPlan(model.PartialLaunchPlanIdentifier(ref))
		if err != nil {
			return closure.Options{}, fmt.Errorf("invalid launch plan %q: %w", raw, err)
		}
		opts.LaunchPlans = append(opts.LaunchPlans, id)
	}
	for _, raw := range a.config.Workflows {
		ref, err := model.ParseIdentifier(raw)
		if err != nil {
			return closure.Options{}, fmt.Errorf("invalid workflow %q: %w", raw, err)
		}
		id, err := resolver.ResolveWorkflow(model.PartialWorkflowIdentifier(ref))
		if err != nil {
			return closure.Options{}, fmt.Errorf("invalid workflow %q: %w", raw, err)
		}
		opts.Workflows = append(opts.Workflows, id)
	}

	var err error
	if opts.TaskDefaults, err = hcl_adapter.ParseObjectLiteral(a.config.TaskDefaults); err != nil {
		return closure.Options{}, fmt.Errorf("invalid task defaults: %w", err)
	}
	if opts.LaunchPlanDefaults, err = hcl_adapter.ParseObjectLiteral(a.config.LaunchPlanDefaults); err != nil {
		return closure.Options{}, fmt.Errorf("invalid launch plan defaults: %w", err)
	}
	return opts, nil
}
