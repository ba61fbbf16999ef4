package artifact

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/gridclosure/internal/closure"
	"github.com/specialistvlad/gridclosure/internal/model"
	"github.com/specialistvlad/gridclosure/internal/wire"
)

// Kind tags the entity type in an artifact filename.
type Kind int

const (
	KindTask       Kind = 1
	KindWorkflow   Kind = 2
	KindLaunchPlan Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindWorkflow:
		return "workflow"
	case KindLaunchPlan:
		return "launch plan"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Filename returns the artifact name of the index-th entity of a kind.
func Filename(index int, name string, kind Kind) string {
	return fmt.Sprintf("%d_%s_%d.pb", index, name, int(kind))
}

// SerializationError reports an entity that could not be encoded.
type SerializationError struct {
	Kind  Kind
	ID    model.Identifier
	Cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize %s %s: %v", e.Kind, e.ID, e.Cause)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// Serialize encodes every entity of pc and emits it to sink. It stops at the
// first encoding or sink failure; artifacts emitted before that stay emitted.
func Serialize(pc *closure.ProjectClosure, sink Sink) error {
	taskIDs := make([]model.Identifier, 0, len(pc.TaskSpecs))
	for id := range pc.TaskSpecs {
		taskIDs = append(taskIDs, model.Identifier(id))
	}
	err := emitAll(sink, KindTask, taskIDs, func(id model.Identifier) ([]byte, error) {
		return wire.MarshalTask(model.TaskIdentifier(id), pc.TaskSpecs[model.TaskIdentifier(id)])
	})
	if err != nil {
		return err
	}

	workflowIDs := make([]model.Identifier, 0, len(pc.WorkflowSpecs))
	for id := range pc.WorkflowSpecs {
		workflowIDs = append(workflowIDs, model.Identifier(id))
	}
	err = emitAll(sink, KindWorkflow, workflowIDs, func(id model.Identifier) ([]byte, error) {
		return wire.MarshalWorkflow(model.WorkflowIdentifier(id), pc.WorkflowSpecs[model.WorkflowIdentifier(id)])
	})
	if err != nil {
		return err
	}

	launchPlanIDs := make([]model.Identifier, 0, len(pc.LaunchPlans))
	for id := range pc.LaunchPlans {
		launchPlanIDs = append(launchPlanIDs, model.Identifier(id))
	}
	return emitAll(sink, KindLaunchPlan, launchPlanIDs, func(id model.Identifier) ([]byte, error) {
		return wire.MarshalLaunchPlan(model.LaunchPlanIdentifier(id), pc.LaunchPlans[model.LaunchPlanIdentifier(id)])
	})
}

func emitAll(sink Sink, kind Kind, ids []model.Identifier, encode func(model.Identifier) ([]byte, error)) error {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for i, id := range ids {
		payload, err := encode(id)
		if err != nil {
			return &SerializationError{Kind: kind, ID: id, Cause: err}
		}
		name := Filename(i, id.Name, kind)
		if err := sink.Emit(name, payload); err != nil {
			return fmt.Errorf("failed to emit %s: %w", name, err)
		}
	}
	return nil
}
