package png

import (
	"bytes"

	"github.com/pkg/errors"
)

// TextEntry is one tEXt/zTXt keyword/value pair, Latin-1 on both
// sides. Order of insertion (stream order) is preserved by the facade.
// Compressed records whether the entry was read from (and should be
// re-emitted as) a zTXt chunk rather than a plain tEXt chunk.
type TextEntry struct {
	Keyword    string
	Value      string
	Compressed bool
}

// splitKeywordValue splits a tEXt-shaped payload on its NUL separator.
// The keyword (everything before the first NUL) must be 1-79 bytes
// with no leading or trailing space; the bytes after the NUL are
// returned unchecked.
func splitKeywordValue(data []byte) (keyword, rest []byte, err error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, nil, errors.WithStack(ErrMalformedRow)
	}
	keyword = data[:i]
	if len(keyword) < 1 || len(keyword) > 79 {
		return nil, nil, errors.WithStack(ErrMalformedRow)
	}
	if keyword[0] == ' ' || keyword[len(keyword)-1] == ' ' {
		return nil, nil, errors.WithStack(ErrMalformedRow)
	}
	return keyword, data[i+1:], nil
}

// parseTEXT decodes a tEXt chunk payload: keyword NUL value, both
// Latin-1.
func parseTEXT(data []byte) (TextEntry, error) {
	keyword, value, err := splitKeywordValue(data)
	if err != nil {
		return TextEntry{}, err
	}
	return TextEntry{Keyword: string(keyword), Value: string(value)}, nil
}

func encodeTEXT(e TextEntry) []byte {
	out := make([]byte, 0, len(e.Keyword)+1+len(e.Value))
	out = append(out, e.Keyword...)
	out = append(out, 0)
	out = append(out, e.Value...)
	return out
}

// parseZTXT decodes a zTXt chunk payload: keyword NUL
// compression_method deflated-value. Only compression method 0 is
// legal.
func parseZTXT(data []byte) (TextEntry, error) {
	keyword, rest, err := splitKeywordValue(data)
	if err != nil {
		return TextEntry{}, err
	}
	if len(rest) < 1 {
		return TextEntry{}, errors.WithStack(ErrMalformedRow)
	}
	method := rest[0]
	if method != 0 {
		return TextEntry{}, errors.WithStack(ErrCompressionErr)
	}
	value, err := inflateAll(rest[1:])
	if err != nil {
		return TextEntry{}, errors.WithStack(ErrCompressionErr)
	}
	return TextEntry{Keyword: string(keyword), Value: string(value), Compressed: true}, nil
}

func encodeZTXT(e TextEntry, level int) ([]byte, error) {
	compressed, err := deflateAll([]byte(e.Value), level)
	if err != nil {
		return nil, errors.WithStack(ErrCompressionErr)
	}
	out := make([]byte, 0, len(e.Keyword)+2+len(compressed))
	out = append(out, e.Keyword...)
	out = append(out, 0, 0) // NUL separator, compression method 0
	out = append(out, compressed...)
	return out, nil
}
