package closure

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/gridclosure/internal/config"
	"github.com/specialistvlad/gridclosure/internal/ctxlog"
	"github.com/specialistvlad/gridclosure/internal/dag"
	"github.com/specialistvlad/gridclosure/internal/model"
)

// ProjectClosure is the set of entities that must be registered together for
// the requested roots to run.
type ProjectClosure struct {
	WorkflowSpecs map[model.WorkflowIdentifier]model.WorkflowTemplate
	TaskSpecs     map[model.TaskIdentifier]model.TaskTemplate
	LaunchPlans   map[model.LaunchPlanIdentifier]model.LaunchPlan
}

// Len returns the total number of entities in the closure.
func (pc *ProjectClosure) Len() int {
	return len(pc.WorkflowSpecs) + len(pc.TaskSpecs) + len(pc.LaunchPlans)
}

// Options controls how Build selects roots and layers defaults.
type Options struct {
	// Resolver completes partial references. Nil means DirectResolver.
	Resolver Resolver

	// LaunchPlans are the root launch plans. When both LaunchPlans and
	// Workflows are empty, every launch plan of the universe is a root.
	LaunchPlans []model.LaunchPlanIdentifier

	// Workflows are additional root workflows without a launch plan.
	Workflows []model.WorkflowIdentifier

	// TaskDefaults is layered under every task's Custom struct.
	TaskDefaults model.Struct

	// LaunchPlanDefaults is layered under every launch plan's DefaultInputs.
	LaunchPlanDefaults model.Struct

	// StrictCycles turns a sub-workflow reference cycle into an error instead
	// of a logged warning.
	StrictCycles bool
}

// Build computes the closure of the configured roots over the universe.
func Build(ctx context.Context, u *config.Universe, opts Options) (*ProjectClosure, error) {
	logger := ctxlog.FromContext(ctx)
	resolver := opts.Resolver
	if resolver == nil {
		resolver = DirectResolver{}
	}

	pc := &ProjectClosure{
		WorkflowSpecs: make(map[model.WorkflowIdentifier]model.WorkflowTemplate),
		TaskSpecs:     make(map[model.TaskIdentifier]model.TaskTemplate),
		LaunchPlans:   make(map[model.LaunchPlanIdentifier]model.LaunchPlan),
	}

	lpRoots := opts.LaunchPlans
	if len(lpRoots) == 0 && len(opts.Workflows) == 0 {
		lpRoots = sortedLaunchPlanIDs(u.LaunchPlans)
	}
	logger.Debug("Build: Selected roots.", "launch_plans", len(lpRoots), "workflows", len(opts.Workflows))

	// First pass: launch plans and the workflows they bind.
	rootWorkflows := append([]model.WorkflowIdentifier{}, opts.Workflows...)
	for _, lpID := range lpRoots {
		lp, ok := u.LaunchPlans[lpID]
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: KindLaunchPlan, Reference: model.Identifier(lpID)}
		}
		wfID, err := resolver.ResolveWorkflow(lp.WorkflowID)
		if err != nil {
			return nil, fmt.Errorf("launch plan %s: %w", lpID, &UnresolvedReferenceError{Kind: KindWorkflow, Reference: model.Identifier(lp.WorkflowID), Cause: err})
		}
		lp.WorkflowID = model.PartialWorkflowIdentifier(wfID)
		lp.DefaultInputs = Merge(lp.DefaultInputs, opts.LaunchPlanDefaults)
		pc.LaunchPlans[lpID] = lp
		rootWorkflows = append(rootWorkflows, wfID)
	}

	// Second pass: root workflows and everything they reach.
	for _, wfID := range rootWorkflows {
		if _, done := pc.WorkflowSpecs[wfID]; done {
			continue
		}
		root, ok := u.Workflows[wfID]
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: KindWorkflow, Reference: model.Identifier(wfID)}
		}
		pc.WorkflowSpecs[wfID] = root

		subs, err := CollectClosure(root.Nodes, u.Workflows, resolver)
		if err != nil {
			return nil, fmt.Errorf("workflow %s: %w", wfID, err)
		}
		for id, tmpl := range subs {
			pc.WorkflowSpecs[id] = tmpl
		}
	}
	logger.Debug("Build: Workflow closure complete.", "workflows", len(pc.WorkflowSpecs))

	// Third pass: tasks run by any node of any collected workflow.
	for _, wfID := range sortedWorkflowIDs(pc.WorkflowSpecs) {
		for _, n := range pc.WorkflowSpecs[wfID].Nodes {
			if n.TaskNode == nil {
				continue
			}
			taskID, err := resolver.ResolveTask(n.TaskNode.Reference)
			if err != nil {
				return nil, fmt.Errorf("workflow %s: %w", wfID, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindTask, Reference: model.Identifier(n.TaskNode.Reference), Cause: err})
			}
			if _, done := pc.TaskSpecs[taskID]; done {
				continue
			}
			task, ok := u.Tasks[taskID]
			if !ok {
				return nil, fmt.Errorf("workflow %s: %w", wfID, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindTask, Reference: model.Identifier(taskID)})
			}
			task.Custom = Merge(task.Custom, opts.TaskDefaults)
			pc.TaskSpecs[taskID] = task
		}
	}
	logger.Debug("Build: Task collection complete.", "tasks", len(pc.TaskSpecs))

	if err := checkCycles(pc.WorkflowSpecs, resolver); err != nil {
		var cycleErr *dag.CycleError
		if !errors.As(err, &cycleErr) || opts.StrictCycles {
			return nil, fmt.Errorf("error validating sub-workflow references: %w", err)
		}
		logger.Warn("Sub-workflow reference cycle found.", "cycle", cycleErr.Error())
	}

	// Registered entities carry fully qualified references only.
	for id, wf := range pc.WorkflowSpecs {
		qualified, err := qualifyReferences(wf, resolver)
		if err != nil {
			return nil, fmt.Errorf("workflow %s: %w", id, err)
		}
		pc.WorkflowSpecs[id] = qualified
	}

	logger.Debug("Build: Closure construction successful.", "entities", pc.Len())
	return pc, nil
}

// checkCycles builds the workflow -> sub-workflow reference graph of the
// closure and reports the first cycle in it.
func checkCycles(workflows map[model.WorkflowIdentifier]model.WorkflowTemplate, resolver Resolver) error {
	graph := dag.New()
	ids := sortedWorkflowIDs(workflows)
	for _, id := range ids {
		graph.AddNode(id.String())
	}
	for _, id := range ids {
		for _, n := range workflows[id].Nodes {
			ref, ok, err := subWorkflowRef(n)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			subID, err := resolver.ResolveWorkflow(ref.ID)
			if err != nil {
				return err
			}
			if err := graph.AddEdge(id.String(), subID.String()); err != nil {
				return err
			}
		}
	}
	return graph.DetectCycles()
}

// qualifyReferences returns a copy of wf whose node references are replaced
// by the identifiers the resolver maps them to. The template's own node slice
// is never modified.
func qualifyReferences(wf model.WorkflowTemplate, resolver Resolver) (model.WorkflowTemplate, error) {
	nodes := make([]model.Node, len(wf.Nodes))
	for i, n := range wf.Nodes {
		if n.TaskNode != nil {
			id, err := resolver.ResolveTask(n.TaskNode.Reference)
			if err != nil {
				return wf, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindTask, Reference: model.Identifier(n.TaskNode.Reference), Cause: err}
			}
			n.TaskNode = &model.TaskNode{Reference: model.PartialTaskIdentifier(id)}
		}
		if n.WorkflowNode != nil {
			switch ref := n.WorkflowNode.Reference.(type) {
			case model.SubWorkflowRef:
				id, err := resolver.ResolveWorkflow(ref.ID)
				if err != nil {
					return wf, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindWorkflow, Reference: model.Identifier(ref.ID), Cause: err}
				}
				n.WorkflowNode = &model.WorkflowNode{Reference: model.SubWorkflowRef{ID: model.PartialWorkflowIdentifier(id)}}
			case model.LaunchPlanRef:
				id, err := resolver.ResolveLaunchPlan(ref.ID)
				if err != nil {
					return wf, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindLaunchPlan, Reference: model.Identifier(ref.ID), Cause: err}
				}
				n.WorkflowNode = &model.WorkflowNode{Reference: model.LaunchPlanRef{ID: model.PartialLaunchPlanIdentifier(id)}}
			}
		}
		nodes[i] = n
	}
	wf.Nodes = nodes
	return wf, nil
}

func sortedLaunchPlanIDs(m map[model.LaunchPlanIdentifier]model.LaunchPlan) []model.LaunchPlanIdentifier {
	ids := make([]model.LaunchPlanIdentifier, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return model.Identifier(ids[i]).Less(model.Identifier(ids[j]))
	})
	return ids
}
