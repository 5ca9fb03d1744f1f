package testsupport

import (
	"testing"

	"smcextract/internal/config"
	"smcextract/internal/manifest"
)

// MustOpenStore opens a manifest.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(cfg.ManifestDBPath())
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
