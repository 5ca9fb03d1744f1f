// Package config loads, validates, and normalizes smcextract configuration.
//
// Configuration comes from a TOML file (default
// ~/.config/smcextract/config.toml, or ./smcextract.toml for project-local
// runs). Load applies defaults, expands paths, and validates the result, so
// the rest of the system can trust every field. The selection section is the
// user-facing half of the extraction contract: which subjects, performances,
// cameras, and modalities a run should produce.
package config
