// Package protocol holds the wire formats around the sensor: the bus frame a
// master reads from the transmit buffer, and the text lines the bridge
// prints for host tools.
package protocol

import (
	"errors"
	"strconv"
	"strings"
)

// FrameLen is what the host tools request on every read: five
// little-endian 16-bit slots. Boards with fewer channels pad the tail with
// idle-bus bytes.
const FrameLen = 10

var (
	ErrOddFrame  = errors.New("protocol: frame length is odd")
	ErrEmptyLine = errors.New("protocol: empty line")
)

// DecodeFrame interprets b pairwise as little-endian unsigned 16-bit values.
func DecodeFrame(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, ErrOddFrame
	}
	vals := make([]uint16, len(b)/2)
	for i := range vals {
		vals[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return vals, nil
}

// EncodeFrame is the inverse of DecodeFrame.
func EncodeFrame(vals []uint16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		b[2*i] = byte(v)
		b[2*i+1] = byte(v >> 8)
	}
	return b
}

// AppendLine appends vals as space-separated decimals plus '\n' to dst.
// It allocates nothing beyond growing dst, so firmware can reuse a buffer.
func AppendLine(dst []byte, vals []uint16) []byte {
	for i, v := range vals {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendUint(dst, uint64(v), 10)
	}
	return append(dst, '\n')
}

// FormatLine renders vals the way the bridge prints them.
func FormatLine(vals []uint16) string {
	return string(AppendLine(nil, vals))
}

// ParseLine parses one bridge line. Surrounding whitespace and a trailing
// "\r\n" are ignored; every field must be a decimal in [0, 65535].
func ParseLine(line string) ([]uint16, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyLine
	}
	vals := make([]uint16, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return nil, err
		}
		vals[i] = uint16(v)
	}
	return vals, nil
}
