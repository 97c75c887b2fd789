// Package payload implements the plaintext codec that rides inside a
// container's decrypted envelope: length-prefixed string framing, the
// database header fields, and the account list.
package payload

import (
	"encoding/binary"
	"unicode/utf8"

	tupmerrors "tupm/internal/errors"
)

// MaxStringLen is the largest UTF-8 byte length a single length-prefixed
// string may have; the 2-byte big-endian prefix cannot express more.
const MaxStringLen = 65535

// cursor walks a plaintext payload buffer, reading length-prefixed strings
// in order and reporting truncation without ever slicing past the end.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) readUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, tupmerrors.NewFormatError("truncated length prefix", nil)
	}
	v := binary.BigEndian.Uint16(c.data[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

// readString reads a 2-byte big-endian length prefix followed by that many
// bytes of UTF-8 text.
func (c *cursor) readString() (string, error) {
	n, err := c.readUint16()
	if err != nil {
		return "", err
	}
	if c.remaining() < int(n) {
		return "", tupmerrors.NewFormatError("truncated string payload", nil)
	}
	raw := c.data[c.pos : c.pos+int(n)]
	c.pos += int(n)
	if !utf8.Valid(raw) {
		return "", tupmerrors.NewFormatError("invalid UTF-8 in string field", nil)
	}
	return string(raw), nil
}

func writeUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

// writeString appends s as a 2-byte big-endian length prefix followed by
// its UTF-8 bytes. It returns an error if s is too long to be framed.
func writeString(buf []byte, s string) ([]byte, error) {
	b := []byte(s)
	if len(b) > MaxStringLen {
		return nil, tupmerrors.NewFormatError("string exceeds maximum length", nil)
	}
	buf = writeUint16(buf, uint16(len(b)))
	buf = append(buf, b...)
	return buf, nil
}
