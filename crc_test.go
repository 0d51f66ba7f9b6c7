package png

import "testing"

// Property 3 (partial, direct): the well-known CRC of an empty IEND
// chunk ("49 45 4E 44" type bytes, no data) is 0xAE426082 under the
// PNG CRC-32 definition — this is reproduced in essentially every
// minimal PNG file and is a useful oracle for the table-driven engine.
func TestChunkCRCKnownValue(t *testing.T) {
	got := chunkCRC([4]byte{'I', 'E', 'N', 'D'}, nil)
	const want = 0xAE426082
	if got != want {
		t.Fatalf("CRC(IEND, nil) = 0x%08X, want 0x%08X", got, want)
	}
}

func TestChunkCRCDetectsSingleByteFlip(t *testing.T) {
	typ := [4]byte{'t', 'E', 'X', 't'}
	data := []byte("Comment\x00hello")
	base := chunkCRC(typ, data)

	for i := range data {
		flipped := append([]byte(nil), data...)
		flipped[i] ^= 0x01
		if chunkCRC(typ, flipped) == base {
			t.Fatalf("flipping byte %d did not change the CRC", i)
		}
	}
}
