package png

import "testing"

// Property 5: Paeth tie-break — all three tied favors a; only b,c
// tied favors b.
func TestPaethTieBreak(t *testing.T) {
	if got := paeth(7, 7, 7); got != 7 {
		t.Fatalf("paeth(7,7,7) = %d, want 7 (a)", got)
	}
	// a=25, b=10, c=20: pa=10, pb=5, pc=5 — b and c tied, pa is not.
	if got := paeth(25, 10, 20); got != 10 {
		t.Fatalf("paeth(25,10,20) = %d, want 10 (b)", got)
	}
}

// Property 4: filter/reconstruct are mutual inverses, for every filter
// type, over several representative rows.
func TestFilterInverse(t *testing.T) {
	const bpp = 4
	rows := [][]byte{
		{10, 20, 30, 40, 15, 25, 35, 45, 16, 26, 36, 46},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{255, 254, 253, 252, 1, 2, 3, 4, 128, 64, 32, 16},
	}
	prevs := [][]byte{
		make([]byte, 12),
		{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}

	for _, row := range rows {
		for _, prev := range prevs {
			for filterType := byte(0); filterType <= 4; filterType++ {
				filtered := filterRow(row, prev, filterType, bpp)

				reconstructed := make([]byte, len(filtered))
				copy(reconstructed, filtered)
				if err := reconstructRow(reconstructed, prev, filterType, bpp); err != nil {
					t.Fatalf("reconstructRow(filterType=%d): %v", filterType, err)
				}

				for i := range row {
					if reconstructed[i] != row[i] {
						t.Fatalf("filterType=%d: reconstruct(apply(row))[%d] = %d, want %d", filterType, i, reconstructed[i], row[i])
					}
				}
			}
		}
	}
}

func TestReconstructRowRejectsUnknownFilter(t *testing.T) {
	row := []byte{1, 2, 3, 4}
	prev := make([]byte, 4)
	if err := reconstructRow(row, prev, 5, 4); err == nil {
		t.Fatal("expected an error for an unknown filter type")
	}
}

// S3: sub-filter reconstruction of a 3-pixel RGBA row.
func TestSubFilterReconstructionScenario(t *testing.T) {
	row := []byte{10, 20, 30, 40, 5, 0, 0, 0, 1, 0, 0, 0}
	if err := reconstructRow(row, make([]byte, 12), filterSub, 4); err != nil {
		t.Fatalf("reconstructRow: %v", err)
	}
	want := []byte{10, 20, 30, 40, 15, 20, 30, 40, 16, 20, 30, 40}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, row[i], want[i])
		}
	}
}

// S4: up-filter reconstruction across rows.
func TestUpFilterReconstructionScenario(t *testing.T) {
	row0 := []byte{10, 20, 30, 40}
	row1 := []byte{1, 2, 3, 4}
	if err := reconstructRow(row1, row0, filterUp, 4); err != nil {
		t.Fatalf("reconstructRow: %v", err)
	}
	want := []byte{11, 22, 33, 44}
	for i := range want {
		if row1[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, row1[i], want[i])
		}
	}
}
