// Package smc reads and writes capture containers: one archive per
// (subject, performance) holding every modality stream recorded in a session.
//
// A container is a ZIP archive whose members mirror the capture tree
// (Camera/<id>/color/<frame>, Calibration/<id>/K, Keypoints3d/<frame>, ...)
// plus an attrs.json member carrying the advisory header. The header's
// declared device and frame counts are frequently wrong in the wild, so the
// Reader derives availability exclusively from the archive's central
// directory: a stream exists iff a member for it exists. Header fields are
// surfaced for logging only and never gate iteration.
//
// The Writer half produces containers with the same layout and exists for
// tooling and tests; production containers are created by the capture rig.
package smc
