// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Container describes how a task's code is launched.
type Container struct {
	Image   string
	Command []string
	Args    []string
	Env     map[string]string
}

// TaskTemplate is the immutable definition of a task.
type TaskTemplate struct {
	Type         string
	Interface    TypedInterface
	Custom       Struct
	Container    *Container
	Retries      int
	Discoverable bool
	CacheVersion string
}
