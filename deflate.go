package png

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// DEFLATE is treated as an opaque dependency: callers only ever ask
// for compress(bytes)->bytes and decompress(bytes)->bytes, never for
// control over the underlying bitstream. compress/zlib supplies both
// directions behind that narrow interface.

// inflateAll decompresses a zlib stream in one shot.
func inflateAll(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrCompressionErr, err.Error())
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrCompressionErr, err.Error())
	}
	return out, nil
}

// deflateAll compresses data into a single zlib stream at the given
// compression level (zlib.DefaultCompression if out of range).
func deflateAll(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		w = zlib.NewWriter(&buf)
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(ErrCompressionErr, err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(ErrCompressionErr, err.Error())
	}
	return buf.Bytes(), nil
}
