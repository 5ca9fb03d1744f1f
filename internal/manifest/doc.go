// Package manifest persists per-unit extraction status in SQLite and exposes
// helpers for driving the unit lifecycle.
//
// One row exists per (subject, performance) unit: status, extraction
// counters, a nullable error, and timestamps, with upsert-by-key semantics
// and last-write-wins updates. The store is the durable record that gates
// local container deletion: a container may be deleted only after its unit's
// terminal status has been committed here, so a crash at any point can at
// worst redo work, never lose acknowledged output.
//
// Every write failure is wrapped in WriteError. Callers must treat WriteError
// as fatal for the run; proceeding without the durable log would break the
// delete-after-success ordering.
//
// Schema changes bump schemaVersion in schema.go; users clear the manifest
// database to adopt a new schema.
package manifest
