package smc

import "strings"

// headerMember is the archive member holding the advisory header.
const headerMember = "attrs.json"

// ActorInfo describes the captured subject as recorded by the rig.
type ActorInfo struct {
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Header is the container's self-described metadata. NumDevice and NumFrame
// are advisory: real containers routinely declare cameras and frames that
// were never written. Use Reader.Cameras and Reader.Frames for truth.
type Header struct {
	ActorID         string    `json:"actor_id"`
	PerformancePart string    `json:"performance_part"`
	CaptureDate     string    `json:"capture_date"`
	NumDevice       int       `json:"num_device"`
	NumFrame        int       `json:"num_frame"`
	Resolution      [2]int    `json:"resolution"`
	ActorInfo       ActorInfo `json:"actor_info"`
}

// HasAudio reports whether the performance part indicates a speech capture,
// the only kind that records an audio track.
func (h Header) HasAudio() bool {
	return strings.Contains(performanceKind(h.PerformancePart), "s")
}

// HasExpressionData reports whether the performance part indicates an
// expression capture, the only kind carrying mesh and texture payloads.
func (h Header) HasExpressionData() bool {
	return strings.Contains(performanceKind(h.PerformancePart), "e")
}

// performanceKind isolates the leading kind token of a performance part such
// as "s1_all" or "e5".
func performanceKind(part string) string {
	kind, _, _ := strings.Cut(part, "_")
	return kind
}
