package closure

import (
	"testing"

	"github.com/specialistvlad/gridclosure/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyWorkflowTemplate() model.WorkflowTemplate {
	return model.WorkflowTemplate{
		Interface: model.TypedInterface{
			Inputs:  map[string]model.Variable{},
			Outputs: map[string]model.Variable{},
		},
		Metadata: model.WorkflowMetadata{},
		Nodes:    []model.Node{},
		Outputs:  []model.Binding{},
	}
}

func wfID(name string) model.WorkflowIdentifier {
	return model.WorkflowIdentifier{Project: "project", Domain: "domain", Name: name, Version: "version"}
}

func subWorkflowNode(id string, ref model.WorkflowIdentifier) model.Node {
	return model.Node{
		ID:              id,
		Inputs:          []model.Binding{},
		UpstreamNodeIDs: []string{},
		WorkflowNode: &model.WorkflowNode{
			Reference: model.SubWorkflowRef{ID: model.PartialWorkflowIdentifier(ref)},
		},
	}
}

func workflowCalling(nodes ...model.Node) model.WorkflowTemplate {
	wf := emptyWorkflowTemplate()
	wf.Nodes = nodes
	return wf
}

func TestCollectSubWorkflows(t *testing.T) {
	subWorkflowRef := wfID("name")
	otherSubWorkflowRef := wfID("other-name")

	nodes := []model.Node{
		subWorkflowNode("node-1", subWorkflowRef),
		// Same sub-workflow
		subWorkflowNode("node-2", subWorkflowRef),
	}
	allWorkflows := map[model.WorkflowIdentifier]model.WorkflowTemplate{
		subWorkflowRef:      emptyWorkflowTemplate(),
		otherSubWorkflowRef: emptyWorkflowTemplate(),
	}

	collected, err := CollectSubWorkflows(nodes, allWorkflows, nil)
	require.NoError(t, err)

	assert.Equal(t, map[model.WorkflowIdentifier]model.WorkflowTemplate{
		subWorkflowRef: emptyWorkflowTemplate(),
	}, collected)
}

func TestCollectSubWorkflows_DedupManyNodes(t *testing.T) {
	ref := wfID("shared")
	var nodes []model.Node
	for i := 0; i < 25; i++ {
		nodes = append(nodes, subWorkflowNode("n", ref))
	}

	collected, err := CollectSubWorkflows(nodes, map[model.WorkflowIdentifier]model.WorkflowTemplate{ref: emptyWorkflowTemplate()}, nil)
	require.NoError(t, err)
	assert.Len(t, collected, 1)
}

func TestCollectSubWorkflows_IsSingleLevel(t *testing.T) {
	a, b := wfID("a"), wfID("b")
	all := map[model.WorkflowIdentifier]model.WorkflowTemplate{
		a: workflowCalling(subWorkflowNode("to-b", b)),
		b: emptyWorkflowTemplate(),
	}

	collected, err := CollectSubWorkflows([]model.Node{subWorkflowNode("to-a", a)}, all, nil)
	require.NoError(t, err)
	assert.Len(t, collected, 1)
	assert.Contains(t, collected, a)
}

func TestCollectSubWorkflows_IgnoresOtherNodes(t *testing.T) {
	nodes := []model.Node{
		{ID: "task", TaskNode: &model.TaskNode{Reference: model.PartialTaskIdentifier{Name: "t"}}},
		{ID: "lp", WorkflowNode: &model.WorkflowNode{Reference: model.LaunchPlanRef{ID: model.PartialLaunchPlanIdentifier{Name: "lp"}}}},
		{ID: "plain"},
	}

	collected, err := CollectSubWorkflows(nodes, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, collected)
}

func TestCollectSubWorkflows_Errors(t *testing.T) {
	known := wfID("known")
	all := map[model.WorkflowIdentifier]model.WorkflowTemplate{known: emptyWorkflowTemplate()}

	t.Run("reference missing from the universe", func(t *testing.T) {
		missing := wfID("missing")
		collected, err := CollectSubWorkflows([]model.Node{
			subWorkflowNode("ok", known),
			subWorkflowNode("broken", missing),
		}, all, nil)

		assert.Nil(t, collected)
		require.ErrorIs(t, err, ErrUnresolvedReference)

		var refErr *UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "broken", refErr.NodeID)
		assert.Equal(t, KindWorkflow, refErr.Kind)
		assert.Equal(t, model.Identifier(missing), refErr.Reference)
		assert.EqualError(t, err, `node "broken": unresolved workflow reference "project:domain:missing:version"`)
	})

	t.Run("reference that cannot be resolved", func(t *testing.T) {
		partial := model.Node{
			ID: "partial",
			WorkflowNode: &model.WorkflowNode{
				Reference: model.SubWorkflowRef{ID: model.PartialWorkflowIdentifier{Name: "known"}},
			},
		}
		_, err := CollectSubWorkflows([]model.Node{partial}, all, DirectResolver{})
		assert.ErrorIs(t, err, ErrUnresolvedReference)
		assert.ErrorContains(t, err, "incomplete")

		collected, err := CollectSubWorkflows([]model.Node{partial}, all, DefaultsResolver{Project: "project", Domain: "domain", Version: "version"})
		require.NoError(t, err)
		assert.Contains(t, collected, known)
	})

	t.Run("workflow node without reference", func(t *testing.T) {
		_, err := CollectSubWorkflows([]model.Node{{ID: "empty", WorkflowNode: &model.WorkflowNode{}}}, all, nil)
		assert.ErrorContains(t, err, `node "empty": workflow node has no reference`)
	})
}

func TestCollectClosure(t *testing.T) {
	a, b, c, unrelated := wfID("a"), wfID("b"), wfID("c"), wfID("unrelated")

	t.Run("follows every level", func(t *testing.T) {
		all := map[model.WorkflowIdentifier]model.WorkflowTemplate{
			a:         workflowCalling(subWorkflowNode("to-b", b)),
			b:         workflowCalling(subWorkflowNode("to-c", c), subWorkflowNode("to-c-again", c)),
			c:         emptyWorkflowTemplate(),
			unrelated: emptyWorkflowTemplate(),
		}

		collected, err := CollectClosure([]model.Node{subWorkflowNode("root", a)}, all, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.WorkflowIdentifier{a, b, c}, keys(collected))
	})

	t.Run("terminates on cycles", func(t *testing.T) {
		all := map[model.WorkflowIdentifier]model.WorkflowTemplate{
			a: workflowCalling(subWorkflowNode("to-b", b)),
			b: workflowCalling(subWorkflowNode("to-a", a), subWorkflowNode("to-self", b)),
		}

		collected, err := CollectClosure([]model.Node{subWorkflowNode("root", a)}, all, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.WorkflowIdentifier{a, b}, keys(collected))
	})

	t.Run("broken reference deep in the graph fails", func(t *testing.T) {
		all := map[model.WorkflowIdentifier]model.WorkflowTemplate{
			a: workflowCalling(subWorkflowNode("to-b", b)),
			b: workflowCalling(subWorkflowNode("to-missing", wfID("missing"))),
		}

		_, err := CollectClosure([]model.Node{subWorkflowNode("root", a)}, all, nil)
		var refErr *UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "to-missing", refErr.NodeID)
	})

	t.Run("no references yields empty result", func(t *testing.T) {
		collected, err := CollectClosure(nil, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, collected)
	})
}

func keys(m map[model.WorkflowIdentifier]model.WorkflowTemplate) []model.WorkflowIdentifier {
	out := make([]model.WorkflowIdentifier, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
