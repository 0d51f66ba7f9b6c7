package png

import "testing"

// TestDecodeRejectsBadMagic exercises the facade against an in-memory
// stream rather than a fixture file, since the codec never touches the
// filesystem itself.
func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("not a png"))
	if err == nil {
		t.Fatal("expected an error decoding a non-PNG stream")
	}
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	data := append([]byte{}, pngMagic[:]...)
	data = append(data, 0, 0, 0, 13) // length, no further bytes
	_, err := Decode(data)
	if err == nil {
		t.Fatal("expected an error decoding a truncated stream")
	}
}

func TestImageMetadataReflectsHeader(t *testing.T) {
	img := solidImage(t, 2, 3, RGBA{R: 10, G: 20, B: 30, A: 255})
	md := img.Metadata()
	if md.Width != 2 || md.Height != 3 {
		t.Fatalf("metadata dimensions = (%d,%d), want (2,3)", md.Width, md.Height)
	}
	if md.ColorType != 6 {
		t.Fatalf("metadata color type = %d, want 6 (fresh image defaults to truecolor+alpha)", md.ColorType)
	}
}

func TestFillMarksImageDirty(t *testing.T) {
	img := solidImage(t, 2, 2, RGBA{A: 255})
	encoded, err := img.Encode(EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	img.Fill(RGBA{R: 1, G: 2, B: 3, A: 255})
	reencoded, err := img.Encode(EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode after Fill: %v", err)
	}
	if string(encoded) == string(reencoded) {
		t.Fatal("Fill should invalidate the cached encoding")
	}
}

// solidImage is a small test helper building an in-memory Image of a
// single solid color, bypassing Decode.
func solidImage(t *testing.T, width, height int, c RGBA) *Image {
	t.Helper()
	raster := make([][]RGBA, height)
	for y := range raster {
		row := make([]RGBA, width)
		for x := range row {
			row[x] = c
		}
		raster[y] = row
	}
	return &Image{
		Header: Header{
			Width:     uint32(width),
			Height:    uint32(height),
			BitDepth:  8,
			ColorType: 6,
		},
		Raster: raster,
		dirty:  true,
	}
}
