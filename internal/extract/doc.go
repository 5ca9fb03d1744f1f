// Package extract orchestrates the capture extraction pipeline: it
// resolves the configured selection into units of work, drives each unit
// through fetch, index, and decode against the durable manifest, and
// deletes the local container only after the unit's terminal state is
// recorded. Units are processed by a bounded worker pool sized so peak
// scratch usage stays at workers times one container; inside a unit a
// second pool fans out per-stream decoding.
package extract
