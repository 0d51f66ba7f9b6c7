package png

import (
	"encoding/binary"
	gotime "time"

	"github.com/pkg/errors"
)

// Time is the decoded tIME chunk: the image's last-modification time,
// intended to be UTC.
type Time struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

func parseTIME(data []byte) (Time, error) {
	if len(data) != 7 {
		return Time{}, errors.WithStack(ErrMalformedRow)
	}
	return Time{
		Year:   binary.BigEndian.Uint16(data[0:2]),
		Month:  data[2],
		Day:    data[3],
		Hour:   data[4],
		Minute: data[5],
		Second: data[6],
	}, nil
}

func encodeTIME(t Time) []byte {
	data := make([]byte, 7)
	binary.BigEndian.PutUint16(data[0:2], t.Year)
	data[2] = t.Month
	data[3] = t.Day
	data[4] = t.Hour
	data[5] = t.Minute
	data[6] = t.Second
	return data
}

// ToTime converts a decoded tIME chunk into a standard UTC time.Time.
func (t Time) ToTime() gotime.Time {
	return gotime.Date(int(t.Year), gotime.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), 0, gotime.UTC)
}
