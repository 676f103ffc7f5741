package blockchain

import "testing"

// 4.A round-trip law: LEToU64(U64ToLE(x)) == x for every input.
func TestU64LERoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 1 << 32, 1<<64 - 1, 0x0102030405060708}
	for _, x := range cases {
		got := LEToU64(U64ToLE(x))
		if got != x {
			t.Fatalf("round trip mismatch for %d: got %d", x, got)
		}
	}
}

func TestU64ToLE_ByteOrder(t *testing.T) {
	got := U64ToLE(0x0102030405060708)
	want := [8]byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if got != want {
		t.Fatalf("U64ToLE byte order wrong: got %x, want %x", got, want)
	}
}

func TestSHA3_256_Deterministic(t *testing.T) {
	a := SHA3_256([]byte("stachanov"))
	b := SHA3_256([]byte("stachanov"))
	if a != b {
		t.Fatalf("SHA3_256 must be deterministic")
	}
	var zero [32]byte
	if a == zero {
		t.Fatalf("SHA3_256 of non-empty input must not be all-zero")
	}
}
