// This file contains the logic for translating HCL schema structs into the
// format-agnostic entities defined in the model package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridclosure/internal/ctxlog"
	"github.com/specialistvlad/gridclosure/internal/model"
)

// translateTask converts the HCL-specific task schema into the agnostic model.
func (s *scope) translateTask(ctx context.Context, b *TaskBlock) (model.Identifier, model.TaskTemplate, error) {
	logger := ctxlog.FromContext(ctx).With("task", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL task to internal model.")

	id, err := s.entityID("task", b.Name)
	if err != nil {
		return model.Identifier{}, model.TaskTemplate{}, err
	}
	if b.Retries < 0 {
		return model.Identifier{}, model.TaskTemplate{}, fmt.Errorf("in task '%s': retries must not be negative", b.Name)
	}

	custom, err := evalStruct(ctx, b.Custom, "custom")
	if err != nil {
		return model.Identifier{}, model.TaskTemplate{}, fmt.Errorf("in task '%s': %w", b.Name, err)
	}
	iface, err := translateInterface(ctx, b.Inputs, b.Outputs)
	if err != nil {
		return model.Identifier{}, model.TaskTemplate{}, fmt.Errorf("in task '%s': %w", b.Name, err)
	}

	t := model.TaskTemplate{
		Type:         b.Type,
		Interface:    iface,
		Custom:       custom,
		Retries:      b.Retries,
		Discoverable: b.Discoverable,
		CacheVersion: b.CacheVersion,
	}
	if b.Container != nil {
		t.Container = &model.Container{
			Image:   b.Container.Image,
			Command: b.Container.Command,
			Args:    b.Container.Args,
			Env:     b.Container.Env,
		}
	}
	return id, t, nil
}

// translateWorkflow converts the HCL-specific workflow schema into the agnostic model.
func (s *scope) translateWorkflow(ctx context.Context, b *WorkflowBlock) (model.Identifier, model.WorkflowTemplate, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL workflow to internal model.", "nodes", len(b.Nodes))

	id, err := s.entityID("workflow", b.Name)
	if err != nil {
		return model.Identifier{}, model.WorkflowTemplate{}, err
	}

	custom, err := evalStruct(ctx, b.Custom, "custom")
	if err != nil {
		return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s': %w", b.Name, err)
	}
	iface, err := translateInterface(ctx, b.Inputs, nil)
	if err != nil {
		return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s': %w", b.Name, err)
	}

	wf := model.WorkflowTemplate{
		Interface: iface,
		Metadata:  model.WorkflowMetadata{Custom: custom},
		Nodes:     make([]model.Node, 0, len(b.Nodes)),
		Outputs:   []model.Binding{},
	}

	seen := make(map[string]struct{}, len(b.Nodes))
	for _, nb := range b.Nodes {
		if _, dup := seen[nb.ID]; dup {
			return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s': duplicate node '%s'", b.Name, nb.ID)
		}
		seen[nb.ID] = struct{}{}

		n, err := s.translateNode(ctx, nb)
		if err != nil {
			return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s', node '%s': %w", b.Name, nb.ID, err)
		}
		wf.Nodes = append(wf.Nodes, n)
	}

	for _, ob := range b.Outputs {
		typ, err := typeExprToSimpleType(ctx, ob.Type)
		if err != nil {
			return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s', output '%s': %w", b.Name, ob.Name, err)
		}
		if _, dup := wf.Interface.Outputs[ob.Name]; dup {
			return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s': duplicate output '%s'", b.Name, ob.Name)
		}
		wf.Interface.Outputs[ob.Name] = model.Variable{Type: typ, Description: ob.Description}

		binding, bound, err := translateBinding(ctx, ob.Name, ob.Promise, ob.Value)
		if err != nil {
			return model.Identifier{}, model.WorkflowTemplate{}, fmt.Errorf("in workflow '%s', output '%s': %w", b.Name, ob.Name, err)
		}
		if bound {
			wf.Outputs = append(wf.Outputs, binding)
		}
	}
	return id, wf, nil
}

func (s *scope) translateNode(ctx context.Context, b *NodeBlock) (model.Node, error) {
	n := model.Node{
		ID:              b.ID,
		Inputs:          make([]model.Binding, 0, len(b.Binds)),
		UpstreamNodeIDs: b.Upstream,
	}

	set := 0
	for _, ref := range []string{b.Task, b.SubWorkflow, b.LaunchPlan} {
		if ref != "" {
			set++
		}
	}
	if set != 1 {
		return model.Node{}, fmt.Errorf("exactly one of task, sub_workflow and launch_plan must be set, found %d", set)
	}

	switch {
	case b.Task != "":
		ref, err := s.reference(b.Task)
		if err != nil {
			return model.Node{}, fmt.Errorf("invalid task reference: %w", err)
		}
		n.TaskNode = &model.TaskNode{Reference: model.PartialTaskIdentifier(ref)}
	case b.SubWorkflow != "":
		ref, err := s.reference(b.SubWorkflow)
		if err != nil {
			return model.Node{}, fmt.Errorf("invalid sub_workflow reference: %w", err)
		}
		n.WorkflowNode = &model.WorkflowNode{Reference: model.SubWorkflowRef{ID: model.PartialWorkflowIdentifier(ref)}}
	default:
		ref, err := s.reference(b.LaunchPlan)
		if err != nil {
			return model.Node{}, fmt.Errorf("invalid launch_plan reference: %w", err)
		}
		n.WorkflowNode = &model.WorkflowNode{Reference: model.LaunchPlanRef{ID: model.PartialLaunchPlanIdentifier(ref)}}
	}

	for _, bind := range b.Binds {
		binding, bound, err := translateBinding(ctx, bind.Var, bind.Promise, bind.Value)
		if err != nil {
			return model.Node{}, fmt.Errorf("bind '%s': %w", bind.Var, err)
		}
		if !bound {
			return model.Node{}, fmt.Errorf("bind '%s': one of promise and value must be set", bind.Var)
		}
		n.Inputs = append(n.Inputs, binding)
	}
	n.UpstreamNodeIDs = linkImplicitUpstream(ctx, n.UpstreamNodeIDs, n.Inputs)
	return n, nil
}

// linkImplicitUpstream appends the node of every promise binding to the
// explicit upstream list, keeping the first occurrence of each id.
func linkImplicitUpstream(ctx context.Context, upstream []string, inputs []model.Binding) []string {
	logger := ctxlog.FromContext(ctx)

	seen := make(map[string]struct{}, len(upstream))
	out := make([]string, 0, len(upstream))
	for _, id := range upstream {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, b := range inputs {
		if b.Promise == nil || b.Promise.NodeID == StartNodeID {
			continue
		}
		if _, dup := seen[b.Promise.NodeID]; dup {
			continue
		}
		logger.Debug("Linking implicit upstream node.", "upstream", b.Promise.NodeID, "var", b.Var)
		seen[b.Promise.NodeID] = struct{}{}
		out = append(out, b.Promise.NodeID)
	}
	return out
}

// translateLaunchPlan converts the HCL-specific launch plan schema into the agnostic model.
func (s *scope) translateLaunchPlan(ctx context.Context, b *LaunchPlanBlock) (model.Identifier, model.LaunchPlan, error) {
	logger := ctxlog.FromContext(ctx).With("launch_plan", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL launch plan to internal model.")

	id, err := s.entityID("launch_plan", b.Name)
	if err != nil {
		return model.Identifier{}, model.LaunchPlan{}, err
	}
	wfRef, err := s.reference(b.Workflow)
	if err != nil {
		return model.Identifier{}, model.LaunchPlan{}, fmt.Errorf("in launch_plan '%s': invalid workflow reference: %w", b.Name, err)
	}
	fixed, err := evalStruct(ctx, b.FixedInputs, "fixed_inputs")
	if err != nil {
		return model.Identifier{}, model.LaunchPlan{}, fmt.Errorf("in launch_plan '%s': %w", b.Name, err)
	}
	defaults, err := evalStruct(ctx, b.DefaultInputs, "default_inputs")
	if err != nil {
		return model.Identifier{}, model.LaunchPlan{}, fmt.Errorf("in launch_plan '%s': %w", b.Name, err)
	}

	return id, model.LaunchPlan{
		Name:          b.Name,
		WorkflowID:    model.PartialWorkflowIdentifier(wfRef),
		FixedInputs:   fixed,
		DefaultInputs: defaults,
		CronSchedule:  b.Schedule,
	}, nil
}

func translateInterface(ctx context.Context, inputs, outputs []*VariableBlock) (model.TypedInterface, error) {
	iface := model.TypedInterface{
		Inputs:  make(map[string]model.Variable, len(inputs)),
		Outputs: make(map[string]model.Variable, len(outputs)),
	}
	for _, in := range inputs {
		if err := addVariable(ctx, iface.Inputs, in); err != nil {
			return model.TypedInterface{}, fmt.Errorf("input '%s': %w", in.Name, err)
		}
	}
	for _, out := range outputs {
		if err := addVariable(ctx, iface.Outputs, out); err != nil {
			return model.TypedInterface{}, fmt.Errorf("output '%s': %w", out.Name, err)
		}
	}
	return iface, nil
}

func addVariable(ctx context.Context, vars map[string]model.Variable, b *VariableBlock) error {
	if _, dup := vars[b.Name]; dup {
		return fmt.Errorf("declared twice")
	}
	typ, err := typeExprToSimpleType(ctx, b.Type)
	if err != nil {
		return err
	}
	vars[b.Name] = model.Variable{Type: typ, Description: b.Description}
	return nil
}

// translateBinding builds a Binding from the promise and value attributes of
// a block. bound is false when neither is set.
func translateBinding(ctx context.Context, varName string, promise, value hcl.Expression) (binding model.Binding, bound bool, err error) {
	hasPromise := isExprDefined(ctx, promise, "promise")
	hasValue := isExprDefined(ctx, value, "value")
	if hasPromise && hasValue {
		return model.Binding{}, false, fmt.Errorf("promise and value are mutually exclusive")
	}

	switch {
	case hasPromise:
		ref, err := promiseFromExpr(promise)
		if err != nil {
			return model.Binding{}, false, err
		}
		return model.Binding{Var: varName, Promise: ref}, true, nil
	case hasValue:
		val, err := evalLiteral(value)
		if err != nil {
			return model.Binding{}, false, fmt.Errorf("invalid value: %w", err)
		}
		return model.Binding{Var: varName, Literal: val}, true, nil
	default:
		return model.Binding{}, false, nil
	}
}
