// Package remediation runs mender's execution scheduler.
//
// # Overview
//
// On a fixed period the service pulls the top of the prioritized backlog,
// takes a small batch (3 by default), maps each objective's type onto a
// remediation action, and invokes the matching effector. Per-action cooldown
// windows rate-limit execution independently of backlog size: an action on
// cooldown records a skip and leaves both the objective and the cooldown
// untouched.
//
// # Failure semantics
//
// An effector failure (error or panic) is contained to its objective: the
// objective stays active and becomes eligible again on a later tick, the rest
// of the batch still runs, and the actor never terminates. There is no
// per-objective backoff or retry cap; the shared cooldown window is the only
// brake.
//
// # Concurrency
//
// Timer ticks and ExecuteNow funnel through one mutex, so at most one tick is
// in flight and effector invocations within a tick are sequential. Pause
// keeps the timer running but makes scheduled ticks no-ops.
//
// # History
//
// Every tick appends one ExecutionRecord to a bounded ring (100 entries,
// newest first). The ring is the only bounded state; the backlog itself grows
// without limit and restart loses everything, by design of the surrounding
// system.
package remediation
