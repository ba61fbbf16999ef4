// Package artifact turns a project closure into named, encoded registration
// artifacts and hands them to a Sink.
//
// Every entity becomes one artifact called "{index}_{name}_{kind}.pb", where
// index counts entities of the same kind in identifier order, name is the
// entity's identifier name and kind is one of KindTask, KindWorkflow or
// KindLaunchPlan. Tasks are emitted first, then workflows, then launch plans,
// which is also the order a registration client would upload them in.
package artifact
