// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the compound identifiers used to key every registrable
// entity, and the parser for their canonical `project:domain:name:version`
// text form.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifier is the common shape of all entity identifiers.
type Identifier struct {
	Project string
	Domain  string
	Name    string
	Version string
}

// WorkflowIdentifier fully identifies a workflow template.
type WorkflowIdentifier Identifier

// TaskIdentifier fully identifies a task template.
type TaskIdentifier Identifier

// LaunchPlanIdentifier fully identifies a launch plan.
type LaunchPlanIdentifier Identifier

// PartialWorkflowIdentifier references a workflow from inside a graph. Any
// field other than Name may be empty until it is resolved.
type PartialWorkflowIdentifier Identifier

// PartialTaskIdentifier references a task from inside a graph.
type PartialTaskIdentifier Identifier

// PartialLaunchPlanIdentifier references a launch plan from inside a graph.
type PartialLaunchPlanIdentifier Identifier

// String serializes the identifier into its canonical form. Empty fields are
// kept as empty segments so the output stays positional.
func (id Identifier) String() string {
	return strings.Join([]string{id.Project, id.Domain, id.Name, id.Version}, ":")
}

// IsComplete reports whether every field of the identifier is set.
func (id Identifier) IsComplete() bool {
	return id.Project != "" && id.Domain != "" && id.Name != "" && id.Version != ""
}

// Less orders identifiers by project, domain, name and version.
func (id Identifier) Less(other Identifier) bool {
	if id.Project != other.Project {
		return id.Project < other.Project
	}
	if id.Domain != other.Domain {
		return id.Domain < other.Domain
	}
	if id.Name != other.Name {
		return id.Name < other.Name
	}
	return id.Version < other.Version
}

func (id WorkflowIdentifier) String() string          { return Identifier(id).String() }
func (id TaskIdentifier) String() string              { return Identifier(id).String() }
func (id LaunchPlanIdentifier) String() string        { return Identifier(id).String() }
func (id PartialWorkflowIdentifier) String() string   { return Identifier(id).String() }
func (id PartialTaskIdentifier) String() string       { return Identifier(id).String() }
func (id PartialLaunchPlanIdentifier) String() string { return Identifier(id).String() }

// segmentRegex restricts identifier segments to a conservative character set.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]*$`)

// ParseIdentifier parses the text form of a reference. Three shapes are
// accepted:
//
//	name
//	project:domain:name
//	project:domain:name:version
//
// Omitted fields are left empty, so the result is usually partial.
func ParseIdentifier(raw string) (Identifier, error) {
	if raw == "" {
		return Identifier{}, fmt.Errorf("identifier cannot be empty")
	}

	parts := strings.Split(raw, ":")
	for _, p := range parts {
		if !segmentRegex.MatchString(p) {
			return Identifier{}, fmt.Errorf("invalid identifier segment %q in %q", p, raw)
		}
	}

	var id Identifier
	switch len(parts) {
	case 1:
		id.Name = parts[0]
	case 3:
		id.Project, id.Domain, id.Name = parts[0], parts[1], parts[2]
	case 4:
		id.Project, id.Domain, id.Name, id.Version = parts[0], parts[1], parts[2], parts[3]
	default:
		return Identifier{}, fmt.Errorf("identifier %q must have 1, 3 or 4 colon-separated segments, got %d", raw, len(parts))
	}

	if id.Name == "" {
		return Identifier{}, fmt.Errorf("identifier %q has an empty name", raw)
	}
	return id, nil
}
