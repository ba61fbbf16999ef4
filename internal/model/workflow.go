// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the workflow graph: templates, nodes, bindings and the
// Reference sum type that tells a workflow node what it runs.
package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// SimpleType names the literal type of an interface variable.
type SimpleType string

const (
	TypeNone     SimpleType = "NONE"
	TypeInteger  SimpleType = "INTEGER"
	TypeFloat    SimpleType = "FLOAT"
	TypeString   SimpleType = "STRING"
	TypeBoolean  SimpleType = "BOOLEAN"
	TypeDatetime SimpleType = "DATETIME"
	TypeDuration SimpleType = "DURATION"
	TypeBinary   SimpleType = "BINARY"
	TypeError    SimpleType = "ERROR"
	TypeStruct   SimpleType = "STRUCT"
)

// simpleTypeOrdinals fixes the wire ordinal of every SimpleType.
var simpleTypeOrdinals = map[SimpleType]int{
	TypeNone:     0,
	TypeInteger:  1,
	TypeFloat:    2,
	TypeString:   3,
	TypeBoolean:  4,
	TypeDatetime: 5,
	TypeDuration: 6,
	TypeBinary:   7,
	TypeError:    8,
	TypeStruct:   9,
}

// ParseSimpleType validates a type name.
func ParseSimpleType(s string) (SimpleType, error) {
	t := SimpleType(s)
	if _, ok := simpleTypeOrdinals[t]; !ok {
		return "", fmt.Errorf("unknown simple type %q", s)
	}
	return t, nil
}

// Ordinal returns the stable numeric code of the type.
func (t SimpleType) Ordinal() int {
	return simpleTypeOrdinals[t]
}

// Variable is one named input or output of an interface.
type Variable struct {
	Type        SimpleType
	Description string
}

// TypedInterface declares the inputs and outputs of a task or workflow.
type TypedInterface struct {
	Inputs  map[string]Variable
	Outputs map[string]Variable
}

// OutputReference points at an output variable of another node.
type OutputReference struct {
	NodeID string
	Var    string
}

// Binding wires a variable to either a literal value or a promise on another
// node's output. Exactly one of Literal and Promise is expected to be set; a
// cty.NilVal Literal means "unset".
type Binding struct {
	Var     string
	Literal cty.Value
	Promise *OutputReference
}

// Reference is the sealed sum type carried by a WorkflowNode. The only
// implementations are LaunchPlanRef and SubWorkflowRef.
type Reference interface {
	isReference()
	fmt.Stringer
}

// LaunchPlanRef runs another launch plan as a child execution.
type LaunchPlanRef struct {
	ID PartialLaunchPlanIdentifier
}

// SubWorkflowRef inlines another workflow template.
type SubWorkflowRef struct {
	ID PartialWorkflowIdentifier
}

func (LaunchPlanRef) isReference()  {}
func (SubWorkflowRef) isReference() {}

func (r LaunchPlanRef) String() string  { return "launch_plan_ref(" + r.ID.String() + ")" }
func (r SubWorkflowRef) String() string { return "sub_workflow_ref(" + r.ID.String() + ")" }

// WorkflowNode is the workflow flavour of a Node.
type WorkflowNode struct {
	Reference Reference
}

// TaskNode is the task flavour of a Node.
type TaskNode struct {
	Reference PartialTaskIdentifier
}

// Node is one step of a workflow graph.
type Node struct {
	ID              string
	Inputs          []Binding
	UpstreamNodeIDs []string
	TaskNode        *TaskNode
	WorkflowNode    *WorkflowNode
}

// WorkflowMetadata carries free-form workflow level configuration.
type WorkflowMetadata struct {
	Custom Struct
}

// WorkflowTemplate is the immutable definition of a workflow.
type WorkflowTemplate struct {
	Interface TypedInterface
	Metadata  WorkflowMetadata
	Nodes     []Node
	Outputs   []Binding
}
