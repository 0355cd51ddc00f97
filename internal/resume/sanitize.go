package resume

import (
	"bytes"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrBinaryContent is returned for input that does not look like text, such as
// a PDF or word-processor file passed in unconverted.
var ErrBinaryContent = errors.New("resume content looks binary; export it as plain text first")

var binaryMagic = [][]byte{
	[]byte("%PDF"),
	[]byte("PK\x03\x04"),
	[]byte("\xd0\xcf\x11\xe0"),
}

// SanitizeText converts raw file bytes into parser input: invalid UTF-8 and
// control characters are removed and form feeds become line breaks.
func SanitizeText(raw []byte) (string, error) {
	for _, magic := range binaryMagic {
		if bytes.HasPrefix(raw, magic) {
			return "", ErrBinaryContent
		}
	}

	s := strings.ToValidUTF8(string(raw), "")
	if len(raw) > 0 && len(s)*2 < len(raw) {
		return "", ErrBinaryContent
	}

	var b strings.Builder
	b.Grow(len(s))
	control := 0
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			// dropped, \n carries the break
		case r == '\f' || r == '\v':
			b.WriteRune('\n')
		case r == utf8.RuneError || unicode.IsControl(r):
			control++
		default:
			b.WriteRune(r)
		}
	}

	if n := utf8.RuneCountInString(s); n > 0 && control*10 > n {
		return "", ErrBinaryContent
	}
	return b.String(), nil
}
