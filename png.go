// Package png implements a self-contained PNG codec: it decodes a PNG
// byte stream into an in-memory RGBA raster plus metadata, and encodes
// a raster back into a PNG byte stream. DEFLATE is treated as an
// opaque dependency (compress/zlib); interlacing, 16-bit samples, bit
// depths below 8, and ancillary chunks beyond IHDR/PLTE/tRNS/IDAT/
// tEXt/zTXt/tIME/IEND are not supported.
package png

import (
	"bytes"

	"github.com/pkg/errors"
)

// Image is the decoded (or about-to-be-encoded) in-memory form of a
// PNG: header metadata, palette, canonical RGBA raster, and the
// ancillary text/time metadata. It owns its raster, palette, and
// metadata; chunk parsers only ever borrow slices of the input buffer
// while decoding.
//
// Concurrent reads of an Image are safe (nothing here mutates on a
// read path); concurrent writes (SetMatrix, Fill, Encode) need
// external synchronisation.
type Image struct {
	Header       Header
	Palette      []RGBA
	Transparency TransparencyKey
	Raster       [][]RGBA
	Text         []TextEntry
	Time         *Time

	cached []byte // nil unless clean
	dirty  bool
}

// Metadata is the read-only view of an Image's non-pixel state,
// returned by (*Image).Metadata.
type Metadata struct {
	Width            uint32
	Height           uint32
	BitDepth         uint8
	ColorType        uint8
	InterlaceMethod  uint8
	Palette          []RGBA
	Text             []TextEntry
	Time             *Time
}

// EncodeOptions controls (*Image).Encode.
type EncodeOptions struct {
	// UsePalette requests color type 3 (indexed) output. The image's
	// own palette is reused if set; otherwise one is derived from the
	// raster's distinct colors, failing if there are more than 256.
	UsePalette bool
	// FilterType is the scanline filter (0..4) applied to every row.
	// Zero (None) is the default and is what the core always chooses
	// unless the caller asks for something else.
	FilterType byte
}

// Decode runs the full decode pipeline: magic check, chunk framing,
// per-chunk parsing, IDAT concatenation and inflation, scanline
// reconstruction, and color-model conversion to the canonical RGBA
// raster. All failures are fatal for the call; no partial image is
// returned.
func Decode(data []byte) (*Image, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], pngMagic[:]) {
		return nil, errors.WithStack(ErrBadMagic)
	}

	chunks, err := readChunks(data[8:])
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].Type != ctIHDR {
		return nil, errors.WithStack(ErrInvalidHeader)
	}
	if chunks[len(chunks)-1].Type != ctIEND {
		return nil, errors.WithStack(ErrInvalidHeader)
	}

	header, err := parseIHDR(chunks[0].Data)
	if err != nil {
		return nil, err
	}

	var (
		palette  []RGBA
		trns     TransparencyKey
		idatBuf  bytes.Buffer
		texts    []TextEntry
		tm       *Time
		sawIDAT  bool
	)

	for _, c := range chunks[1:] {
		switch c.Type {
		case ctPLTE:
			if palette != nil {
				return nil, errors.WithStack(ErrInvalidHeader)
			}
			palette, err = parsePLTE(c.Data)
			if err != nil {
				return nil, err
			}
		case ctTRNS:
			trns, err = parseTRNS(c.Data, header.ColorType, palette)
			if err != nil {
				return nil, err
			}
		case ctIDAT:
			idatBuf.Write(c.Data)
			sawIDAT = true
		case ctTEXT:
			e, err := parseTEXT(c.Data)
			if err != nil {
				return nil, err
			}
			texts = append(texts, e)
		case ctZTXT:
			e, err := parseZTXT(c.Data)
			if err != nil {
				return nil, err
			}
			texts = append(texts, e)
		case ctTIME:
			t, err := parseTIME(c.Data)
			if err != nil {
				return nil, err
			}
			tm = &t
		case ctIEND:
			if err := validateIEND(c.Data); err != nil {
				return nil, err
			}
		default:
			if !isAncillary(c.Type) {
				return nil, errors.WithStack(ErrInvalidHeader)
			}
			// Unknown ancillary chunk: CRC already verified by
			// readChunks, payload is discarded.
		}
	}

	if header.ColorType == 3 && palette == nil {
		return nil, errors.WithStack(ErrMissingPalette)
	}
	if !sawIDAT {
		return nil, errors.WithStack(ErrTruncatedStream)
	}

	inflated, err := inflateAll(idatBuf.Bytes())
	if err != nil {
		return nil, err
	}

	channels := colorModels[header.ColorType].Channels
	bpr := bytesPerRow(int(header.Width), channels)
	rows, err := reconstructScanlines(inflated, int(header.Height), bpr, channels)
	if err != nil {
		return nil, err
	}

	raster := make([][]RGBA, header.Height)
	for y, row := range rows {
		pixels, err := unpackRow(row, header.ColorType, int(header.Width), palette)
		if err != nil {
			return nil, err
		}
		raster[y] = pixels
	}

	cached := make([]byte, len(data))
	copy(cached, data)

	return &Image{
		Header:       header,
		Palette:      palette,
		Transparency: trns,
		Raster:       raster,
		Text:         texts,
		Time:         tm,
		cached:       cached,
		dirty:        false,
	}, nil
}

// Metadata returns the image's non-pixel state.
func (img *Image) Metadata() Metadata {
	return Metadata{
		Width:           img.Header.Width,
		Height:          img.Header.Height,
		BitDepth:        img.Header.BitDepth,
		ColorType:       img.Header.ColorType,
		InterlaceMethod: img.Header.InterlaceMethod,
		Palette:         append([]RGBA(nil), img.Palette...),
		Text:            append([]TextEntry(nil), img.Text...),
		Time:            img.Time,
	}
}

// GetMatrix returns the canonical RGBA raster.
func (img *Image) GetMatrix() [][]RGBA {
	return img.Raster
}

// SetMatrix replaces the raster wholesale. Width/height are taken from
// the new raster's shape (every row must share the first row's
// length); this transitions the image to Dirty, invalidating any
// cached encoded bytes.
func (img *Image) SetMatrix(raster [][]RGBA) error {
	height := len(raster)
	if height == 0 {
		return errors.WithStack(ErrInvalidImage)
	}
	width := len(raster[0])
	if width == 0 {
		return errors.WithStack(ErrInvalidImage)
	}
	for _, row := range raster {
		if len(row) != width {
			return errors.WithStack(ErrInvalidImage)
		}
	}
	img.Header.Width = uint32(width)
	img.Header.Height = uint32(height)
	img.Raster = raster
	img.dirty = true
	img.cached = nil
	return nil
}

// Fill repaints every pixel of the current raster with color,
// preserving width/height. Like SetMatrix, this transitions the image
// to Dirty.
func (img *Image) Fill(color RGBA) {
	raster := make([][]RGBA, img.Header.Height)
	for y := range raster {
		row := make([]RGBA, img.Header.Width)
		for x := range row {
			row[x] = color
		}
		raster[y] = row
	}
	img.Raster = raster
	img.dirty = true
	img.cached = nil
}

// Encode runs the full encode pipeline: pixel packer, scanline
// filtering, deflate, chunk assembly. If the image is Clean (fresh off
// Decode, or from a prior Encode with no SetMatrix/Fill in between),
// the cached bytes are returned directly, matching the Clean/Dirty
// cache state machine. Encoding from Dirty regenerates the bytes and
// returns the image to Clean.
func (img *Image) Encode(opts EncodeOptions) ([]byte, error) {
	if !img.dirty && img.cached != nil {
		out := make([]byte, len(img.cached))
		copy(out, img.cached)
		return out, nil
	}

	width := int(img.Header.Width)
	height := int(img.Header.Height)
	if width == 0 || height == 0 {
		return nil, errors.WithStack(ErrInvalidImage)
	}
	if len(img.Raster) != height {
		return nil, errors.WithStack(ErrInvalidImage)
	}
	for _, row := range img.Raster {
		if len(row) != width {
			return nil, errors.WithStack(ErrInvalidImage)
		}
	}
	if opts.FilterType > filterPaeth {
		return nil, errors.WithStack(ErrInvalidImage)
	}

	var (
		colorType uint8
		palette   []RGBA
		index     map[RGBA]int
	)

	if opts.UsePalette {
		colorType = 3
		var err error
		if img.Palette != nil {
			palette = img.Palette
			index = make(map[RGBA]int, len(palette))
			for i, c := range palette {
				index[c] = i
			}
			for _, row := range img.Raster {
				for _, c := range row {
					if _, ok := index[c]; !ok {
						return nil, errors.WithStack(ErrInvalidImage)
					}
				}
			}
		} else {
			palette, index, err = buildPalette(img.Raster)
			if err != nil {
				return nil, err
			}
		}
	} else {
		colorType = 6
	}

	channels := colorModels[colorType].Channels
	rows := make([][]byte, height)
	for y, pixelRow := range img.Raster {
		var (
			row []byte
			err error
		)
		if colorType == 3 {
			row, err = packIndexedRow(pixelRow, index)
		} else {
			row, err = packRow(pixelRow, colorType)
		}
		if err != nil {
			return nil, err
		}
		rows[y] = row
	}

	rawScanlines := filterScanlines(rows, opts.FilterType, channels)
	compressed, err := deflateAll(rawScanlines, -1)
	if err != nil {
		return nil, err
	}

	header := Header{
		Width:             img.Header.Width,
		Height:            img.Header.Height,
		BitDepth:          8,
		ColorType:         colorType,
		CompressionMethod: 0,
		FilterMethod:      0,
		InterlaceMethod:   0,
	}

	var buf bytes.Buffer
	buf.Write(pngMagic[:])
	writeChunk(&buf, ctIHDR, encodeIHDR(header))

	if colorType == 3 {
		writeChunk(&buf, ctPLTE, encodePLTE(palette))
		if trns := encodeTRNS(palette); trns != nil {
			writeChunk(&buf, ctTRNS, trns)
		}
	}

	for _, e := range img.Text {
		if e.Compressed {
			zdata, err := encodeZTXT(e, -1)
			if err != nil {
				return nil, err
			}
			writeChunk(&buf, ctZTXT, zdata)
		} else {
			writeChunk(&buf, ctTEXT, encodeTEXT(e))
		}
	}

	if img.Time != nil {
		writeChunk(&buf, ctTIME, encodeTIME(*img.Time))
	}

	writeChunk(&buf, ctIDAT, compressed)
	writeChunk(&buf, ctIEND, nil)

	out := buf.Bytes()

	img.Header = header
	img.Palette = palette
	img.cached = make([]byte, len(out))
	copy(img.cached, out)
	img.dirty = false

	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}
