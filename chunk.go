package png

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// PNG signature, the 8 magic bytes that must prefix every stream.
var pngMagic = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	ctIHDR = "IHDR"
	ctPLTE = "PLTE"
	ctIDAT = "IDAT"
	ctIEND = "IEND"
	ctTEXT = "tEXt"
	ctZTXT = "zTXt"
	ctTIME = "tIME"
	ctTRNS = "tRNS"
)

// chunk is a raw, typed chunk record: the chunk type tag plus its
// payload. The length and CRC fields are not retained once the CRC has
// been verified — they are not part of the owned, typed value a chunk
// codec produces.
type chunk struct {
	Type string
	Data []byte
}

// isChunkTypeValid reports whether b holds four ASCII letters, the
// only legal form for a chunk type tag.
func isChunkTypeValid(b []byte) bool {
	if len(b) != 4 {
		return false
	}
	for _, c := range b {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return true
}

// isAncillary reports whether typ is an ancillary (lowercase first
// letter) chunk, per the PNG chunk-naming convention used to decide
// which unrecognised chunks may be silently skipped.
func isAncillary(typ string) bool {
	return typ[0]&0x20 != 0
}

// readChunks splits data (positioned after the 8-byte magic) into an
// ordered sequence of chunk records, verifying each CRC as it goes. It
// stops at, and includes, the IEND record.
func readChunks(data []byte) ([]chunk, error) {
	var chunks []chunk
	for {
		if len(chunks) > 0 && chunks[len(chunks)-1].Type == ctIEND {
			break
		}
		if len(data) < 8 {
			return nil, errors.WithStack(ErrTruncatedStream)
		}
		length := binary.BigEndian.Uint32(data[:4])
		data = data[4:]

		if uint64(len(data)) < uint64(length)+8 {
			return nil, errors.WithStack(ErrTruncatedStream)
		}
		typeBytes := data[:4]
		if !isChunkTypeValid(typeBytes) {
			return nil, errors.WithStack(ErrBadChunkType)
		}
		payload := data[4 : 4+length]
		data = data[4+length:]

		storedCRC := binary.BigEndian.Uint32(data[:4])
		data = data[4:]

		var tb [4]byte
		copy(tb[:], typeBytes)
		if chunkCRC(tb, payload) != storedCRC {
			return nil, errors.WithStack(ErrCrcMismatch)
		}

		owned := make([]byte, len(payload))
		copy(owned, payload)
		chunks = append(chunks, chunk{Type: string(typeBytes), Data: owned})
	}
	return chunks, nil
}

// writeChunk appends one length‖type‖data‖crc record to buf.
func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(data)))
	buf.Write(lenBytes[:])
	buf.WriteString(typ)
	buf.Write(data)

	var tb [4]byte
	copy(tb[:], typ)
	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], chunkCRC(tb, data))
	buf.Write(crcBytes[:])
}

// Header is the decoded IHDR chunk.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

func parseIHDR(data []byte) (Header, error) {
	if len(data) != 13 {
		return Header{}, errors.WithStack(ErrInvalidHeader)
	}
	h := Header{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         data[9],
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) validate() error {
	if h.Width == 0 || h.Height == 0 {
		return errors.WithStack(ErrInvalidHeader)
	}
	if h.BitDepth != 8 {
		return errors.WithStack(ErrInvalidHeader)
	}
	if h.CompressionMethod != 0 || h.FilterMethod != 0 || h.InterlaceMethod != 0 {
		return errors.WithStack(ErrInvalidHeader)
	}
	if _, ok := colorModels[h.ColorType]; !ok {
		return errors.WithStack(ErrInvalidHeader)
	}
	return nil
}

func encodeIHDR(h Header) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], h.Width)
	binary.BigEndian.PutUint32(data[4:8], h.Height)
	data[8] = h.BitDepth
	data[9] = h.ColorType
	data[10] = h.CompressionMethod
	data[11] = h.FilterMethod
	data[12] = h.InterlaceMethod
	return data
}

// parsePLTE decodes a PLTE payload into an ordered palette. Alpha
// defaults to 255 for every entry; tRNS may later override it.
func parsePLTE(data []byte) ([]RGBA, error) {
	if len(data) == 0 || len(data)%3 != 0 || len(data) > 768 {
		return nil, errors.WithStack(ErrInvalidHeader)
	}
	n := len(data) / 3
	pal := make([]RGBA, n)
	for i := 0; i < n; i++ {
		pal[i] = RGBA{R: data[i*3], G: data[i*3+1], B: data[i*3+2], A: 255}
	}
	return pal, nil
}

func encodePLTE(pal []RGBA) []byte {
	data := make([]byte, 0, len(pal)*3)
	for _, c := range pal {
		data = append(data, c.R, c.G, c.B)
	}
	return data
}

// TransparencyKey records the decoded tRNS metadata for non-indexed
// color types. For indexed images, tRNS alpha is written directly into
// the palette entries instead (see parseTRNS).
type TransparencyKey struct {
	HasGray bool
	Gray    uint16 // color type 0
	HasRGB  bool
	R, G, B uint16 // color type 2
}

// parseTRNS interprets a tRNS payload according to the image's color
// type. For color type 3 it also writes alpha back into the palette,
// leaving indices beyond the tRNS length at their default alpha (255).
func parseTRNS(data []byte, colorType uint8, palette []RGBA) (TransparencyKey, error) {
	var tk TransparencyKey
	switch colorType {
	case 0:
		if len(data) < 2 {
			return tk, errors.WithStack(ErrInvalidHeader)
		}
		tk.HasGray = true
		tk.Gray = binary.BigEndian.Uint16(data[:2])
	case 2:
		if len(data) < 6 {
			return tk, errors.WithStack(ErrInvalidHeader)
		}
		tk.HasRGB = true
		tk.R = binary.BigEndian.Uint16(data[0:2])
		tk.G = binary.BigEndian.Uint16(data[2:4])
		tk.B = binary.BigEndian.Uint16(data[4:6])
	case 3:
		if len(data) > len(palette) {
			return tk, errors.WithStack(ErrInvalidHeader)
		}
		for i, a := range data {
			palette[i].A = a
		}
	default:
		// tRNS is prohibited for color types 4 and 6: a full alpha
		// channel already exists.
		return tk, errors.WithStack(ErrInvalidHeader)
	}
	return tk, nil
}

// encodeTRNS emits alpha values up through the last non-opaque
// palette entry, or nil if every entry is fully opaque (in which case
// the caller should not emit a tRNS chunk at all).
func encodeTRNS(palette []RGBA) []byte {
	last := -1
	for i, c := range palette {
		if c.A != 255 {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	data := make([]byte, last+1)
	for i := 0; i <= last; i++ {
		data[i] = palette[i].A
	}
	return data
}

func validateIEND(data []byte) error {
	if len(data) != 0 {
		return errors.WithStack(ErrInvalidHeader)
	}
	return nil
}
