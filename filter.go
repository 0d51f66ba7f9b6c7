package png

import "github.com/pkg/errors"

// Filter engine: the five PNG scanline filters. bpp is the byte-offset
// stride between the current byte and "the pixel to the left" — bytes
// per pixel, since only 8-bit-per-channel samples are supported here.
const (
	filterNone    = 0
	filterSub     = 1
	filterUp      = 2
	filterAverage = 3
	filterPaeth   = 4
)

// paeth is the Paeth predictor: the value among a, b, c closest to
// a+b-c, ties broken in the order a, then b, then c.
func paeth(a, b, c byte) byte {
	pa := absInt(int(b) - int(c))
	pb := absInt(int(a) - int(c))
	pc := absInt(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// reconstructRow reverses a scanline's filter in place. row holds the
// filtered bytes on entry and the reconstructed bytes on return; prev
// is the previously reconstructed row (all zero for row 0).
func reconstructRow(row, prev []byte, filterType byte, bpp int) error {
	switch filterType {
	case filterNone:
		// Recon(x) = Filt(x): nothing to do.
	case filterSub:
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case filterUp:
		for i := range row {
			row[i] += prev[i]
		}
	case filterAverage:
		for i := range row {
			var a byte
			if i >= bpp {
				a = row[i-bpp]
			}
			row[i] += byte((int(a) + int(prev[i])) >> 1)
		}
	case filterPaeth:
		for i := range row {
			var a, c byte
			if i >= bpp {
				a = row[i-bpp]
				c = prev[i-bpp]
			}
			row[i] += paeth(a, prev[i], c)
		}
	default:
		return errors.WithStack(ErrMalformedRow)
	}
	return nil
}

// filterRow applies filterType to raw (the unfiltered scanline bytes),
// given prev (the unfiltered previous scanline). It is the inverse of
// reconstructRow.
func filterRow(raw, prev []byte, filterType byte, bpp int) []byte {
	out := make([]byte, len(raw))
	switch filterType {
	case filterNone:
		copy(out, raw)
	case filterSub:
		for i := range raw {
			var a byte
			if i >= bpp {
				a = raw[i-bpp]
			}
			out[i] = raw[i] - a
		}
	case filterUp:
		for i := range raw {
			out[i] = raw[i] - prev[i]
		}
	case filterAverage:
		for i := range raw {
			var a byte
			if i >= bpp {
				a = raw[i-bpp]
			}
			out[i] = raw[i] - byte((int(a)+int(prev[i]))>>1)
		}
	case filterPaeth:
		for i := range raw {
			var a, c byte
			if i >= bpp {
				a = raw[i-bpp]
				c = prev[i-bpp]
			}
			out[i] = raw[i] - paeth(a, prev[i], c)
		}
	}
	return out
}

// reconstructScanlines undoes per-row filtering over an entire
// inflated IDAT payload, given the declared height and bytes-per-row.
func reconstructScanlines(inflated []byte, height, bytesPerRow, bpp int) ([][]byte, error) {
	rowStride := 1 + bytesPerRow
	if len(inflated) != rowStride*height {
		return nil, errors.WithStack(ErrMalformedRow)
	}

	rows := make([][]byte, height)
	prev := make([]byte, bytesPerRow)
	for y := 0; y < height; y++ {
		off := y * rowStride
		filterType := inflated[off]
		row := make([]byte, bytesPerRow)
		copy(row, inflated[off+1:off+1+bytesPerRow])
		if err := reconstructRow(row, prev, filterType, bpp); err != nil {
			return nil, err
		}
		rows[y] = row
		prev = row
	}
	return rows, nil
}

// filterScanlines applies filterType to every row, prefixing each with
// its filter-type byte, and concatenates the result into one buffer
// ready for deflate.
func filterScanlines(rows [][]byte, filterType byte, bpp int) []byte {
	bytesPerRow := 0
	if len(rows) > 0 {
		bytesPerRow = len(rows[0])
	}
	out := make([]byte, 0, len(rows)*(1+bytesPerRow))
	prev := make([]byte, bytesPerRow)
	for _, row := range rows {
		filtered := filterRow(row, prev, filterType, bpp)
		out = append(out, filterType)
		out = append(out, filtered...)
		prev = row
	}
	return out
}
