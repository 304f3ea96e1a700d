package nanodbc

import (
	"golang.org/x/text/encoding/unicode"
)

// Wide text crosses the driver boundary as UTF-16LE. The driver managers
// this library loads all use 2-byte SQLWCHAR code units.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeWide converts s to UTF-16LE bytes, without a terminator.
func encodeWide(s string) ([]byte, error) {
	return utf16LE.NewEncoder().Bytes([]byte(s))
}

// decodeWide converts UTF-16LE bytes back to a Go string.
func decodeWide(b []byte) (string, error) {
	out, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// wideLen returns the UTF-16 code unit count of s.
func wideLen(s string) (int, error) {
	b, err := encodeWide(s)
	if err != nil {
		return 0, err
	}
	return len(b) / 2, nil
}
