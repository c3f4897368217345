package roster

// decode.go converts uploaded bytes into text for the parser.
//
// Spreadsheet exports arrive in a few encodings:
//   - UTF-8, often with a BOM (0xEF 0xBB 0xBF) when saved by Excel on Windows
//   - UTF-16 with a BOM ("Unicode Text" exports)
//   - Windows-1252 ("CSV (Comma delimited)" on Western-locale Windows)
//
// Decode handles all three. Anything that is not valid UTF-8 and carries no
// UTF-16 BOM is treated as Windows-1252, which maps every byte to a rune.

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode returns data as a UTF-8 string with any byte-order mark removed.
func Decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
	case utf8.Valid(data):
		return string(data), nil
	default:
		return decodeWith(charmap.Windows1252, data)
	}
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(out), nil
}
