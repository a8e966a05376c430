package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupDecoder maps a charset name to a UTF-8 decoder. The UTF-8 decoder
// strips a BOM and switches to UTF-16 when a UTF-16 BOM is present.
func lookupDecoder(charset string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "utf-16", "utf16", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", charset)
	}
}

// decodingReader converts r to UTF-8
func decodingReader(r io.Reader, charset string) (io.Reader, error) {
	decoder, err := lookupDecoder(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, decoder), nil
}

// SupportedEncoding reports whether charset can be decoded
func SupportedEncoding(charset string) bool {
	_, err := lookupDecoder(charset)
	return err == nil
}
