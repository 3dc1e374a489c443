// Package orchestrator sequences one location run: load the participant
// context, dispatch the evidence analysis crew, resolve consensus, and
// commit a confirmed decision to the confirmation sink. The orchestrator
// itself is sequential; all concurrency lives inside the crew. It owns the
// run state machine and the surfacing of fatal errors.
package orchestrator
