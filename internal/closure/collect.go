package closure

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/gridclosure/internal/model"
)

// CollectSubWorkflows returns the templates of every sub-workflow referenced
// directly by nodes. Several nodes referencing the same workflow contribute a
// single entry. Launch plan references are not followed: a launch plan is a
// separately registered entity, not part of the referencing workflow.
//
// A reference that cannot be resolved, or that resolves to an identifier
// missing from all, fails with an *UnresolvedReferenceError. A nil resolver
// means DirectResolver.
func CollectSubWorkflows(
	nodes []model.Node,
	all map[model.WorkflowIdentifier]model.WorkflowTemplate,
	resolver Resolver,
) (map[model.WorkflowIdentifier]model.WorkflowTemplate, error) {
	if resolver == nil {
		resolver = DirectResolver{}
	}

	collected := make(map[model.WorkflowIdentifier]model.WorkflowTemplate)
	for _, n := range nodes {
		ref, ok, err := subWorkflowRef(n)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		id, err := resolver.ResolveWorkflow(ref.ID)
		if err != nil {
			return nil, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindWorkflow, Reference: model.Identifier(ref.ID), Cause: err}
		}
		if _, seen := collected[id]; seen {
			continue
		}
		tmpl, found := all[id]
		if !found {
			return nil, &UnresolvedReferenceError{NodeID: n.ID, Kind: KindWorkflow, Reference: model.Identifier(id)}
		}
		collected[id] = tmpl
	}
	return collected, nil
}

// CollectClosure returns every sub-workflow transitively reachable from
// nodes. It keeps a worklist of node lists still to scan and the set of
// identifiers already collected; a template is scanned once, the first time
// its identifier is seen, so reference cycles terminate.
func CollectClosure(
	nodes []model.Node,
	all map[model.WorkflowIdentifier]model.WorkflowTemplate,
	resolver Resolver,
) (map[model.WorkflowIdentifier]model.WorkflowTemplate, error) {
	result := make(map[model.WorkflowIdentifier]model.WorkflowTemplate)
	worklist := [][]model.Node{nodes}

	for len(worklist) > 0 {
		level := worklist[0]
		worklist = worklist[1:]

		found, err := CollectSubWorkflows(level, all, resolver)
		if err != nil {
			return nil, err
		}
		for _, id := range sortedWorkflowIDs(found) {
			if _, seen := result[id]; seen {
				continue
			}
			result[id] = found[id]
			worklist = append(worklist, found[id].Nodes)
		}
	}
	return result, nil
}

// subWorkflowRef extracts the sub-workflow reference of a node, if it has one.
func subWorkflowRef(n model.Node) (model.SubWorkflowRef, bool, error) {
	if n.WorkflowNode == nil {
		return model.SubWorkflowRef{}, false, nil
	}
	switch ref := n.WorkflowNode.Reference.(type) {
	case model.SubWorkflowRef:
		return ref, true, nil
	case model.LaunchPlanRef:
		return model.SubWorkflowRef{}, false, nil
	case nil:
		return model.SubWorkflowRef{}, false, fmt.Errorf("node %q: workflow node has no reference", n.ID)
	default:
		return model.SubWorkflowRef{}, false, fmt.Errorf("node %q: unsupported workflow node reference %T", n.ID, ref)
	}
}

func sortedWorkflowIDs(m map[model.WorkflowIdentifier]model.WorkflowTemplate) []model.WorkflowIdentifier {
	ids := make([]model.WorkflowIdentifier, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return model.Identifier(ids[i]).Less(model.Identifier(ids[j]))
	})
	return ids
}
