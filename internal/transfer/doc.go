// Package transfer fetches containers from the remote file host to local
// scratch and deletes them on command.
//
// The extraction core depends only on the two-operation Manager interface.
// Fetch is atomic-or-absent: a container lands in the scratch directory in
// one rename, so a partially transferred file is never visible to the
// container reader. Retry, backoff, and authentication are the transfer
// tool's own responsibility and are configured through it, not here.
package transfer
