// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of registrable workflow
// entities: workflow templates, task templates and launch plans, together with
// the compound identifiers that key them.
//
// # Core Concepts
//
//   - Identifier: a `{project, domain, name, version}` key. Every entity kind
//     has its own named identifier type so a task id can never be used to look
//     up a workflow by accident. All identifier types are comparable structs,
//     which makes them usable as map keys with structural equality.
//
//   - Partial identifiers: references written inside a workflow graph may omit
//     fields (typically project, domain and version). They are completed by a
//     resolution policy before lookup.
//
//   - WorkflowTemplate: an ordered list of Nodes plus the workflow's interface
//     and output bindings. A Node may run a task, a sub-workflow or a launch
//     plan. The two workflow flavours are modelled by the sealed Reference
//     interface.
//
//   - Struct: a free-form typed metadata document, backed by cty values.
//
// Values in this package are treated as immutable once constructed. Functions
// that derive new values (such as merging Structs) always return copies.
package model
