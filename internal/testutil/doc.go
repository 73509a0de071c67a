// Package testutil provides shared builders for tests: a canonical incident
// intake schema exercising every field kind, and conversation fixtures.
// Internal so the public API never depends on test scaffolding.
package testutil
