// Package model defines the completion-service abstraction consumed by
// repair agents, plus a deterministic MockModel for tests and examples.
// Provider adapters live in subpackages (anthropic, openai) so the core
// never depends on a concrete SDK.
//
// Completion is deliberately synchronous: the artifact update protocol has a
// single suspension point (the repair consultation), so a blocking call with
// a context is the natural shape. Callers needing concurrency wrap it.
package model
