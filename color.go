package png

import "github.com/pkg/errors"

// RGBA is the canonical 8-bit-per-channel pixel tuple used internally
// regardless of the source color type.
type RGBA struct {
	R, G, B, A uint8
}

type unpackFunc func(pixel []byte, palette []RGBA) (RGBA, error)
type packFunc func(c RGBA) []byte

// colorModel is an explicit per-color-type strategy (channel count,
// pack, unpack) so the filter engine and pixel packer never branch on
// the color type directly.
type colorModel struct {
	Channels int
	Unpack   unpackFunc
	Pack     packFunc // nil for color type 3: indexed packing needs the palette, handled by packIndexedRow.
}

var colorModels = map[uint8]colorModel{
	0: {Channels: 1, Unpack: unpackGray, Pack: packGray},
	2: {Channels: 3, Unpack: unpackTruecolor, Pack: packTruecolor},
	3: {Channels: 1, Unpack: unpackIndexed, Pack: nil},
	4: {Channels: 2, Unpack: unpackGrayAlpha, Pack: packGrayAlpha},
	6: {Channels: 4, Unpack: unpackTruecolorAlpha, Pack: packTruecolorAlpha},
}

func unpackGray(pixel []byte, _ []RGBA) (RGBA, error) {
	y := pixel[0]
	return RGBA{R: y, G: y, B: y, A: 255}, nil
}

func packGray(c RGBA) []byte {
	return []byte{c.R}
}

func unpackTruecolor(pixel []byte, _ []RGBA) (RGBA, error) {
	return RGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: 255}, nil
}

func packTruecolor(c RGBA) []byte {
	return []byte{c.R, c.G, c.B}
}

func unpackIndexed(pixel []byte, palette []RGBA) (RGBA, error) {
	idx := int(pixel[0])
	if idx >= len(palette) {
		return RGBA{}, errors.WithStack(ErrMalformedRow)
	}
	return palette[idx], nil
}

func unpackGrayAlpha(pixel []byte, _ []RGBA) (RGBA, error) {
	y, a := pixel[0], pixel[1]
	return RGBA{R: y, G: y, B: y, A: a}, nil
}

func packGrayAlpha(c RGBA) []byte {
	return []byte{c.R, c.A}
}

func unpackTruecolorAlpha(pixel []byte, _ []RGBA) (RGBA, error) {
	return RGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: pixel[3]}, nil
}

func packTruecolorAlpha(c RGBA) []byte {
	return []byte{c.R, c.G, c.B, c.A}
}

// bytesPerRow is ceil(width*channels*bitDepth/8); bit depth is always
// 8 in this profile, so it reduces to width*channels.
func bytesPerRow(width, channels int) int {
	return width * channels
}

// unpackRow splits one reconstructed scanline into width RGBA pixels.
func unpackRow(row []byte, colorType uint8, width int, palette []RGBA) ([]RGBA, error) {
	cm, ok := colorModels[colorType]
	if !ok {
		return nil, errors.WithStack(ErrInvalidHeader)
	}
	if len(row) != width*cm.Channels {
		return nil, errors.WithStack(ErrMalformedRow)
	}
	pixels := make([]RGBA, width)
	for x := 0; x < width; x++ {
		off := x * cm.Channels
		c, err := cm.Unpack(row[off:off+cm.Channels], palette)
		if err != nil {
			return nil, err
		}
		pixels[x] = c
	}
	return pixels, nil
}

// packRow assembles one raw scanline from RGBA pixels for a
// non-indexed color type.
func packRow(pixels []RGBA, colorType uint8) ([]byte, error) {
	cm, ok := colorModels[colorType]
	if !ok || cm.Pack == nil {
		return nil, errors.WithStack(ErrInvalidImage)
	}
	row := make([]byte, len(pixels)*cm.Channels)
	for x, c := range pixels {
		copy(row[x*cm.Channels:], cm.Pack(c))
	}
	return row, nil
}

// packIndexedRow assembles one raw scanline of palette indices.
func packIndexedRow(pixels []RGBA, index map[RGBA]int) ([]byte, error) {
	row := make([]byte, len(pixels))
	for x, c := range pixels {
		idx, ok := index[c]
		if !ok {
			return nil, errors.WithStack(ErrInvalidImage)
		}
		row[x] = byte(idx)
	}
	return row, nil
}

// buildPalette collects the distinct colors of a raster in first-seen
// order. It fails if there are more than 256 distinct colors.
func buildPalette(raster [][]RGBA) ([]RGBA, map[RGBA]int, error) {
	index := make(map[RGBA]int)
	var palette []RGBA
	for _, row := range raster {
		for _, c := range row {
			if _, ok := index[c]; ok {
				continue
			}
			if len(palette) == 256 {
				return nil, nil, errors.WithStack(ErrInvalidImage)
			}
			index[c] = len(palette)
			palette = append(palette, c)
		}
	}
	return palette, index, nil
}
