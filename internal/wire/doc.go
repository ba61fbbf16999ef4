// Package wire encodes workflow entities into their canonical protobuf wire
// form.
//
// The messages are written field by field with protowire instead of through
// generated code. Free-form Structs and literal values are carried as the
// well-known google.protobuf.Struct and google.protobuf.Value messages.
// Encoding is canonical: zero scalars are omitted, map-shaped data is
// emitted in sorted key order, and repeated fields keep their model order,
// so equal entities always produce byte-identical payloads.
//
// Message layouts (field number: name):
//
//	Identifier     1: resource_type  2: project  3: domain  4: name  5: version
//	TaskSpec       1: id  2: type  3: interface  4: custom  5: container
//	               6: retries  7: discoverable  8: cache_version
//	Container      1: image  2: command  3: args  4: env (KeyValue)
//	KeyValue       1: key  2: value
//	TypedInterface 1: inputs (VariableEntry)  2: outputs (VariableEntry)
//	VariableEntry  1: name  2: var (Variable)
//	Variable       1: type  2: description
//	WorkflowSpec   1: id  2: interface  3: metadata  4: nodes  5: outputs
//	Metadata       1: custom
//	Node           1: id  2: inputs  3: upstream_node_ids  4: task_node
//	               5: workflow_node
//	TaskNode       1: reference_id
//	WorkflowNode   1: launchplan_ref  2: sub_workflow_ref
//	Binding        1: var  2: literal  3: promise
//	Promise        1: node_id  2: var
//	LaunchPlanSpec 1: id  2: name  3: workflow_id  4: fixed_inputs
//	               5: default_inputs  6: cron_schedule
package wire
