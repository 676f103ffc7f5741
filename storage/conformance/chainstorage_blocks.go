package conformance

import "testing"

// RunChainStorageBlocks exercises the ChainStorage linear-order
// capabilities: get_after ordering (P12) and get_after_timestamp (P13).
func RunChainStorageBlocks(t *testing.T, newStore Factory) {
	// P12: get_after ordering.
	t.Run("get_after_ordering", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		timestamps := []uint64{0, 1, 2, 3}
		chain := buildChain(t, pub, priv, timestamps, 1)
		for _, b := range chain {
			mustAppend(t, s, b)
		}

		for i := 0; i < len(chain)-1; i++ {
			next, ok := s.GetAfter(chain[i].GetID())
			if !ok {
				t.Fatalf("expected successor after block %d", i)
			}
			if next.GetID() != chain[i+1].GetID() {
				t.Fatalf("get_after(%d) returned wrong block", i)
			}
		}

		if _, ok := s.GetAfter(chain[len(chain)-1].GetID()); ok {
			t.Fatalf("expected absent successor at tail")
		}

		tail, ok := s.GetTailBlock()
		if !ok || tail.GetID() != chain[len(chain)-1].GetID() {
			t.Fatalf("expected tail block to be the last appended block")
		}
	})

	// P13: get_after_timestamp. Blocks at timestamps 1, 3, 5, ..., 2k-1.
	t.Run("get_after_timestamp", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		k := 5
		timestamps := make([]uint64, k)
		for i := range timestamps {
			timestamps[i] = uint64(2*i + 1)
		}
		chain := buildChain(t, pub, priv, timestamps, 1)
		for _, b := range chain {
			mustAppend(t, s, b)
		}

		for i := 0; i < k-1; i++ {
			queryExact := uint64(2*i + 1)
			got, ok := s.GetAfterTimestamp(queryExact)
			if !ok || got.GetID() != chain[i+1].GetID() {
				t.Fatalf("get_after_timestamp(%d): expected block %d", queryExact, i+1)
			}

			queryGap := uint64(2 * (i + 1))
			got, ok = s.GetAfterTimestamp(queryGap)
			if !ok || got.GetID() != chain[i+1].GetID() {
				t.Fatalf("get_after_timestamp(%d): expected block %d", queryGap, i+1)
			}
		}

		lastTS := timestamps[k-1]
		if _, ok := s.GetAfterTimestamp(lastTS); ok {
			t.Fatalf("get_after_timestamp(%d): expected absent for the tail block's own timestamp", lastTS)
		}
		if _, ok := s.GetAfterTimestamp(lastTS + 1); ok {
			t.Fatalf("get_after_timestamp(%d): expected absent past the tail", lastTS+1)
		}
	})
}
