// Command smcextract fetches multi-modal capture containers from remote
// storage, extracts the selected streams into per-modality artifact trees,
// and tracks progress in a durable manifest so interrupted work resumes
// where it left off.
package main
