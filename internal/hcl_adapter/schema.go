package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Defaults    []*DefaultsBlock   `hcl:"defaults,block"`
	Tasks       []*TaskBlock       `hcl:"task,block"`
	Workflows   []*WorkflowBlock   `hcl:"workflow,block"`
	LaunchPlans []*LaunchPlanBlock `hcl:"launch_plan,block"`
}

// DefaultsBlock sets the project, domain and version of every entity defined
// in the same file, and fills the same fields of partial references.
type DefaultsBlock struct {
	Project string `hcl:"project,optional"`
	Domain  string `hcl:"domain,optional"`
	Version string `hcl:"version,optional"`
}

// VariableBlock is an `input` or `output` declaration of a task interface.
type VariableBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type,optional"`
	Description string         `hcl:"description,optional"`
}

// ContainerBlock is the `container` block of a task.
type ContainerBlock struct {
	Image   string            `hcl:"image"`
	Command []string          `hcl:"command,optional"`
	Args    []string          `hcl:"args,optional"`
	Env     map[string]string `hcl:"env,optional"`
}

// TaskBlock represents a `task` block.
type TaskBlock struct {
	Name         string           `hcl:"name,label"`
	Type         string           `hcl:"type"`
	Custom       hcl.Expression   `hcl:"custom,optional"`
	Retries      int              `hcl:"retries,optional"`
	Discoverable bool             `hcl:"discoverable,optional"`
	CacheVersion string           `hcl:"cache_version,optional"`
	Container    *ContainerBlock  `hcl:"container,block"`
	Inputs       []*VariableBlock `hcl:"input,block"`
	Outputs      []*VariableBlock `hcl:"output,block"`
}

// BindBlock binds one input variable of a node to a literal `value` or to a
// `promise` on another node's output, written either as a traversal
// (`promise = node_id.var`) or as a string ("node_id.var").
type BindBlock struct {
	Var     string         `hcl:"var,label"`
	Promise hcl.Expression `hcl:"promise,optional"`
	Value   hcl.Expression `hcl:"value,optional"`
}

// NodeBlock is one `node` of a workflow. Exactly one of Task, SubWorkflow
// and LaunchPlan must be set.
type NodeBlock struct {
	ID          string       `hcl:"id,label"`
	Task        string       `hcl:"task,optional"`
	SubWorkflow string       `hcl:"sub_workflow,optional"`
	LaunchPlan  string       `hcl:"launch_plan,optional"`
	Upstream    []string     `hcl:"upstream,optional"`
	Binds       []*BindBlock `hcl:"bind,block"`
}

// WorkflowOutputBlock declares a workflow output and, optionally, what it is
// bound to.
type WorkflowOutputBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type,optional"`
	Description string         `hcl:"description,optional"`
	Promise     hcl.Expression `hcl:"promise,optional"`
	Value       hcl.Expression `hcl:"value,optional"`
}

// WorkflowBlock represents a `workflow` block.
type WorkflowBlock struct {
	Name    string                 `hcl:"name,label"`
	Custom  hcl.Expression         `hcl:"custom,optional"`
	Inputs  []*VariableBlock       `hcl:"input,block"`
	Nodes   []*NodeBlock           `hcl:"node,block"`
	Outputs []*WorkflowOutputBlock `hcl:"output,block"`
}

// LaunchPlanBlock represents a `launch_plan` block.
type LaunchPlanBlock struct {
	Name          string         `hcl:"name,label"`
	Workflow      string         `hcl:"workflow"`
	FixedInputs   hcl.Expression `hcl:"fixed_inputs,optional"`
	DefaultInputs hcl.Expression `hcl:"default_inputs,optional"`
	Schedule      string         `hcl:"schedule,optional"`
}
