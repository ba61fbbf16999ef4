package wire

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/gridclosure/internal/model"
	"google.golang.org/protobuf/encoding/protowire"
)

// ResourceType tags the kind of entity an Identifier names.
type ResourceType uint64

const (
	ResourceUnspecified ResourceType = 0
	ResourceTask        ResourceType = 1
	ResourceWorkflow    ResourceType = 2
	ResourceLaunchPlan  ResourceType = 3
)

// MarshalTask encodes a task template registered under id.
func MarshalTask(id model.TaskIdentifier, t model.TaskTemplate) ([]byte, error) {
	e := &encoder{}
	if err := e.identifier(1, ResourceTask, model.Identifier(id)); err != nil {
		return nil, err
	}
	e.string(2, t.Type)
	if err := e.message(3, func(sub *encoder) error { return sub.typedInterface(t.Interface) }); err != nil {
		return nil, err
	}
	if err := e.structField(4, t.Custom); err != nil {
		return nil, fmt.Errorf("custom: %w", err)
	}
	if t.Container != nil {
		c := t.Container
		_ = e.message(5, func(sub *encoder) error {
			sub.string(1, c.Image)
			sub.repeatedString(2, c.Command)
			sub.repeatedString(3, c.Args)
			sub.stringMap(4, c.Env)
			return nil
		})
	}
	if t.Retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", t.Retries)
	}
	e.varint(6, uint64(t.Retries))
	e.bool(7, t.Discoverable)
	e.string(8, t.CacheVersion)
	return e.b, nil
}

// MarshalWorkflow encodes a workflow template registered under id.
func MarshalWorkflow(id model.WorkflowIdentifier, wf model.WorkflowTemplate) ([]byte, error) {
	e := &encoder{}
	if err := e.identifier(1, ResourceWorkflow, model.Identifier(id)); err != nil {
		return nil, err
	}
	if err := e.message(2, func(sub *encoder) error { return sub.typedInterface(wf.Interface) }); err != nil {
		return nil, err
	}
	if wf.Metadata.Custom.Len() > 0 {
		err := e.message(3, func(sub *encoder) error { return sub.structField(1, wf.Metadata.Custom) })
		if err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}
	for _, n := range wf.Nodes {
		if err := e.message(4, func(sub *encoder) error { return sub.node(n) }); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, b := range wf.Outputs {
		if err := e.message(5, func(sub *encoder) error { return sub.binding(b) }); err != nil {
			return nil, fmt.Errorf("output %q: %w", b.Var, err)
		}
	}
	return e.b, nil
}

// MarshalLaunchPlan encodes a launch plan registered under id. The workflow
// reference is expected to be resolved already.
func MarshalLaunchPlan(id model.LaunchPlanIdentifier, lp model.LaunchPlan) ([]byte, error) {
	e := &encoder{}
	if err := e.identifier(1, ResourceLaunchPlan, model.Identifier(id)); err != nil {
		return nil, err
	}
	e.string(2, lp.Name)
	if err := e.identifier(3, ResourceWorkflow, model.Identifier(lp.WorkflowID)); err != nil {
		return nil, fmt.Errorf("workflow id: %w", err)
	}
	if err := e.structField(4, lp.FixedInputs); err != nil {
		return nil, fmt.Errorf("fixed inputs: %w", err)
	}
	if err := e.structField(5, lp.DefaultInputs); err != nil {
		return nil, fmt.Errorf("default inputs: %w", err)
	}
	e.string(6, lp.CronSchedule)
	return e.b, nil
}

func (e *encoder) identifier(num protowire.Number, rt ResourceType, id model.Identifier) error {
	if !id.IsComplete() {
		return fmt.Errorf("identifier %q is incomplete", id.String())
	}
	return e.message(num, func(sub *encoder) error {
		sub.varint(1, uint64(rt))
		sub.string(2, id.Project)
		sub.string(3, id.Domain)
		sub.string(4, id.Name)
		sub.string(5, id.Version)
		return nil
	})
}

func (e *encoder) typedInterface(ti model.TypedInterface) error {
	e.variables(1, ti.Inputs)
	e.variables(2, ti.Outputs)
	return nil
}

func (e *encoder) variables(num protowire.Number, vars map[string]model.Variable) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := vars[name]
		_ = e.message(num, func(entry *encoder) error {
			entry.string(1, name)
			return entry.message(2, func(sub *encoder) error {
				sub.varint(1, uint64(v.Type.Ordinal()))
				sub.string(2, v.Description)
				return nil
			})
		})
	}
}

func (e *encoder) node(n model.Node) error {
	e.string(1, n.ID)
	for _, b := range n.Inputs {
		if err := e.message(2, func(sub *encoder) error { return sub.binding(b) }); err != nil {
			return fmt.Errorf("input %q: %w", b.Var, err)
		}
	}
	e.repeatedString(3, n.UpstreamNodeIDs)

	if n.TaskNode != nil {
		ref := model.Identifier(n.TaskNode.Reference)
		err := e.message(4, func(sub *encoder) error { return sub.identifier(1, ResourceTask, ref) })
		if err != nil {
			return fmt.Errorf("task reference: %w", err)
		}
	}
	if n.WorkflowNode != nil {
		err := e.message(5, func(sub *encoder) error {
			switch ref := n.WorkflowNode.Reference.(type) {
			case model.LaunchPlanRef:
				return sub.identifier(1, ResourceLaunchPlan, model.Identifier(ref.ID))
			case model.SubWorkflowRef:
				return sub.identifier(2, ResourceWorkflow, model.Identifier(ref.ID))
			case nil:
				return fmt.Errorf("workflow node has no reference")
			default:
				return fmt.Errorf("unsupported workflow node reference %T", ref)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) binding(b model.Binding) error {
	e.string(1, b.Var)
	if err := e.valueField(2, b.Literal); err != nil {
		return err
	}
	if b.Promise != nil {
		p := b.Promise
		_ = e.message(3, func(sub *encoder) error {
			sub.string(1, p.NodeID)
			sub.string(2, p.Var)
			return nil
		})
	}
	return nil
}
