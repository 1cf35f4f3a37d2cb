package testsupport

import (
	"testing"

	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/store"
)

// MustOpenStore opens a contact store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
