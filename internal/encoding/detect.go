// Package encoding normalizes uploaded statements to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF8BOM     = "UTF-8-BOM"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO885915   = "ISO-8859-15"
	ISO88599    = "ISO-8859-9"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8BOM},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// single-byte charsets chardet may report for Spanish and Portuguese exports.
var legacy = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	Windows1252:    charmap.Windows1252,
	ISO885915:      charmap.ISO8859_15,
	ISO88599:       charmap.ISO8859_9,
	"windows-1254": charmap.Windows1254,
}

// Detect guesses the charset of a sample: byte order marks first, then UTF-8 validity,
// then chardet, defaulting to Windows-1252.
func Detect(sample []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if result.Charset == UTF8 {
			return UTF8
		}

		if _, ok := legacy[result.Charset]; ok {
			return result.Charset
		}
	}

	return Windows1252
}

// NewUTF8Reader returns a reader yielding r's content as UTF-8, with any BOM removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch charset := Detect(sample); charset {
	case UTF8:
		return br, nil
	case UTF8BOM:
		_, _ = br.Discard(3)
		return br, nil
	case UTF16LE:
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case UTF16BE:
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	default:
		return transform.NewReader(br, legacy[charset].NewDecoder()), nil
	}
}
