// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// LaunchPlan binds a workflow to default and fixed inputs and an optional
// schedule, making it deployable.
type LaunchPlan struct {
	Name          string
	WorkflowID    PartialWorkflowIdentifier
	FixedInputs   Struct
	DefaultInputs Struct
	CronSchedule  string
}
