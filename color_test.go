package png

import "testing"

func TestUnpackRowGrayscale(t *testing.T) {
	row := []byte{0, 128, 255}
	pixels, err := unpackRow(row, 0, 3, nil)
	if err != nil {
		t.Fatalf("unpackRow: %v", err)
	}
	want := []RGBA{{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 255, 255, 255}}
	for i := range want {
		if pixels[i] != want[i] {
			t.Fatalf("pixel %d = %+v, want %+v", i, pixels[i], want[i])
		}
	}
}

func TestUnpackRowIndexedOutOfRange(t *testing.T) {
	palette := []RGBA{{0, 0, 0, 255}}
	_, err := unpackRow([]byte{5}, 3, 1, palette)
	if err == nil {
		t.Fatal("expected an error for an out-of-range palette index")
	}
}

func TestPackRowTruecolorAlpha(t *testing.T) {
	pixels := []RGBA{{255, 0, 0, 255}, {0, 255, 0, 128}}
	row, err := packRow(pixels, 6)
	if err != nil {
		t.Fatalf("packRow: %v", err)
	}
	want := []byte{255, 0, 0, 255, 0, 255, 0, 128}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, row[i], want[i])
		}
	}
}

func TestBuildPaletteOverflow(t *testing.T) {
	raster := make([][]RGBA, 1)
	row := make([]RGBA, 257)
	for i := range row {
		row[i] = RGBA{R: uint8(i % 256), G: uint8(i / 256), A: 255}
	}
	raster[0] = row

	_, _, err := buildPalette(raster)
	if err == nil {
		t.Fatal("expected an error for more than 256 distinct colors")
	}
}

func TestBuildPaletteDeduplicates(t *testing.T) {
	raster := [][]RGBA{
		{{1, 1, 1, 255}, {1, 1, 1, 255}, {2, 2, 2, 255}},
	}
	palette, index, err := buildPalette(raster)
	if err != nil {
		t.Fatalf("buildPalette: %v", err)
	}
	if len(palette) != 2 {
		t.Fatalf("len(palette) = %d, want 2", len(palette))
	}
	if index[RGBA{1, 1, 1, 255}] == index[RGBA{2, 2, 2, 255}] {
		t.Fatal("distinct colors must map to distinct indices")
	}
}
