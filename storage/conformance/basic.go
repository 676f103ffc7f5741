package conformance

import "testing"

// RunBasic exercises behavior common to every backend: an empty store
// reports everything absent, and Reset wipes state back to empty.
func RunBasic(t *testing.T, newStore Factory) {
	t.Run("empty_store_reports_absent", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		ghost := buildChain(t, pub, priv, []uint64{0}, 1)[0]

		if _, ok := s.GetBlock(ghost.GetID()); ok {
			t.Fatalf("expected GetBlock absent on empty store")
		}
		if _, ok := s.GetHeader(ghost.GetID()); ok {
			t.Fatalf("expected GetHeader absent on empty store")
		}
		if _, ok := s.GetTailBlock(); ok {
			t.Fatalf("expected GetTailBlock absent on empty store")
		}
	})

	t.Run("reset_wipes_state", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0, 1}, 1)
		mustAppend(t, s, chain[0])
		mustAppend(t, s, chain[1])

		if err := s.Reset(); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if _, ok := s.GetBlock(chain[0].GetID()); ok {
			t.Fatalf("expected block gone after reset")
		}
		if _, ok := s.GetTailBlock(); ok {
			t.Fatalf("expected empty tail after reset")
		}
		// Must be usable again after reset.
		mustAppend(t, s, chain[0])
		if _, ok := s.GetBlock(chain[0].GetID()); !ok {
			t.Fatalf("expected append to succeed after reset")
		}
	})
}
