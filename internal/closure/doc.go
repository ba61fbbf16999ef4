// Package closure computes the deployable closure of one or more workflows.
//
// Three operations make up the package:
//
//   - Merge layers one Struct on top of another, the first argument winning
//     on conflicting keys.
//
//   - CollectSubWorkflows finds the sub-workflows referenced directly by a
//     list of nodes, and CollectClosure repeats that step over every newly
//     found template until nothing new turns up.
//
//   - Build starts from root launch plans and workflows in a config.Universe
//     and gathers every workflow, task and launch plan they need into a
//     ProjectClosure ready for serialization.
//
// None of the functions mutate their inputs. They are safe to call
// concurrently as long as callers do not mutate the Universe they pass in.
package closure
