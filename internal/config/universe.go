package config

import (
	"fmt"

	"github.com/specialistvlad/gridclosure/internal/model"
)

// Universe holds every workflow, task and launch plan known to a run, keyed
// by fully-qualified identifier.
type Universe struct {
	Workflows   map[model.WorkflowIdentifier]model.WorkflowTemplate
	Tasks       map[model.TaskIdentifier]model.TaskTemplate
	LaunchPlans map[model.LaunchPlanIdentifier]model.LaunchPlan
}

// NewUniverse returns an empty, initialized Universe.
func NewUniverse() *Universe {
	return &Universe{
		Workflows:   make(map[model.WorkflowIdentifier]model.WorkflowTemplate),
		Tasks:       make(map[model.TaskIdentifier]model.TaskTemplate),
		LaunchPlans: make(map[model.LaunchPlanIdentifier]model.LaunchPlan),
	}
}

// AddWorkflow registers a workflow template. Identifiers must be complete and
// unique within the universe.
func (u *Universe) AddWorkflow(id model.WorkflowIdentifier, wf model.WorkflowTemplate) error {
	if err := checkComplete("workflow", model.Identifier(id)); err != nil {
		return err
	}
	if _, exists := u.Workflows[id]; exists {
		return fmt.Errorf("duplicate workflow definition: %s", id)
	}
	u.Workflows[id] = wf
	return nil
}

// AddTask registers a task template.
func (u *Universe) AddTask(id model.TaskIdentifier, task model.TaskTemplate) error {
	if err := checkComplete("task", model.Identifier(id)); err != nil {
		return err
	}
	if _, exists := u.Tasks[id]; exists {
		return fmt.Errorf("duplicate task definition: %s", id)
	}
	u.Tasks[id] = task
	return nil
}

// AddLaunchPlan registers a launch plan.
func (u *Universe) AddLaunchPlan(id model.LaunchPlanIdentifier, lp model.LaunchPlan) error {
	if err := checkComplete("launch plan", model.Identifier(id)); err != nil {
		return err
	}
	if _, exists := u.LaunchPlans[id]; exists {
		return fmt.Errorf("duplicate launch plan definition: %s", id)
	}
	u.LaunchPlans[id] = lp
	return nil
}

func checkComplete(kind string, id model.Identifier) error {
	if !id.IsComplete() {
		return fmt.Errorf("%s identifier %q is incomplete", kind, id)
	}
	return nil
}
