package closure

import (
	"fmt"

	"github.com/specialistvlad/gridclosure/internal/model"
)

// Resolver turns a partial reference into the full identifier used to look
// the entity up in the universe.
type Resolver interface {
	ResolveWorkflow(id model.PartialWorkflowIdentifier) (model.WorkflowIdentifier, error)
	ResolveTask(id model.PartialTaskIdentifier) (model.TaskIdentifier, error)
	ResolveLaunchPlan(id model.PartialLaunchPlanIdentifier) (model.LaunchPlanIdentifier, error)
}

// DefaultsResolver fills empty project, domain and version fields from the
// registration defaults it carries. A reference that is still incomplete
// afterwards fails to resolve.
type DefaultsResolver struct {
	Project string
	Domain  string
	Version string
}

// DirectResolver uses partial identifiers as they are and rejects any
// reference with a missing field.
type DirectResolver struct{}

func (r DefaultsResolver) resolve(id model.Identifier) (model.Identifier, error) {
	if id.Project == "" {
		id.Project = r.Project
	}
	if id.Domain == "" {
		id.Domain = r.Domain
	}
	if id.Version == "" {
		id.Version = r.Version
	}
	if !id.IsComplete() {
		return model.Identifier{}, fmt.Errorf("identifier %q is incomplete after applying defaults", id)
	}
	return id, nil
}

func (r DefaultsResolver) ResolveWorkflow(id model.PartialWorkflowIdentifier) (model.WorkflowIdentifier, error) {
	full, err := r.resolve(model.Identifier(id))
	return model.WorkflowIdentifier(full), err
}

func (r DefaultsResolver) ResolveTask(id model.PartialTaskIdentifier) (model.TaskIdentifier, error) {
	full, err := r.resolve(model.Identifier(id))
	return model.TaskIdentifier(full), err
}

func (r DefaultsResolver) ResolveLaunchPlan(id model.PartialLaunchPlanIdentifier) (model.LaunchPlanIdentifier, error) {
	full, err := r.resolve(model.Identifier(id))
	return model.LaunchPlanIdentifier(full), err
}

func (DirectResolver) ResolveWorkflow(id model.PartialWorkflowIdentifier) (model.WorkflowIdentifier, error) {
	return DefaultsResolver{}.ResolveWorkflow(id)
}

func (DirectResolver) ResolveTask(id model.PartialTaskIdentifier) (model.TaskIdentifier, error) {
	return DefaultsResolver{}.ResolveTask(id)
}

func (DirectResolver) ResolveLaunchPlan(id model.PartialLaunchPlanIdentifier) (model.LaunchPlanIdentifier, error) {
	return DefaultsResolver{}.ResolveLaunchPlan(id)
}
