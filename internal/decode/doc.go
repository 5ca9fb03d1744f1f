// Package decode converts raw container payloads into output artifacts, one
// decoder per modality.
//
// Every decoder implements the same Decode contract and is selected by the
// modality of the stream key being processed, keeping each modality's decode
// logic independently testable. Decode contracts are fixed per modality:
// images are compressed three-channel pictures, masks are single-channel
// compressed images decoded on the direct grayscale path, audio is one
// contiguous PCM buffer for the whole performance, and keypoints,
// calibration, and mesh payloads are fixed-layout numeric data reinterpreted
// without format sniffing.
//
// A malformed payload yields an error that callers wrap in a DecodeError
// scoped to that single stream; one bad frame never aborts a unit.
package decode
