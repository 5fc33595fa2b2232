package binrec

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// strCodec converts between Go strings and the encoded byte form a field
// reserves. One codec is resolved per Str/Char field at compile time.
type strCodec struct {
	name   string
	encode func(string) ([]byte, error)
	decode func([]byte) (string, error)
}

// resolveEncoding maps an encoding name from the field annotation to a
// codec. UTF-8 and ASCII are handled directly, latin-1 uses the ISO 8859-1
// charmap of golang.org/x/text, and everything else goes through the IANA
// registry of golang.org/x/text.
func resolveEncoding(name string) (*strCodec, error) {
	switch name {
	case "", "utf-8", "utf8":
		return &strCodec{
			name: "utf-8",
			encode: func(s string) ([]byte, error) {
				if !utf8.ValidString(s) {
					return nil, fmt.Errorf("invalid UTF-8")
				}
				return []byte(s), nil
			},
			decode: func(b []byte) (string, error) {
				if !utf8.Valid(b) {
					return "", fmt.Errorf("invalid UTF-8")
				}
				return string(b), nil
			},
		}, nil
	case "ascii", "us-ascii":
		return &strCodec{
			name: "ascii",
			encode: func(s string) ([]byte, error) {
				for i := 0; i < len(s); i++ {
					if s[i] >= 0x80 {
						return nil, fmt.Errorf("byte %#x at %d outside ASCII", s[i], i)
					}
				}
				return []byte(s), nil
			},
			decode: func(b []byte) (string, error) {
				for i, c := range b {
					if c >= 0x80 {
						return "", fmt.Errorf("byte %#x at %d outside ASCII", c, i)
					}
				}
				return string(b), nil
			},
		}, nil
	case "latin-1", "latin1", "iso-8859-1":
		enc := charmap.ISO8859_1
		return &strCodec{
			name:   "latin-1",
			encode: func(s string) ([]byte, error) { return enc.NewEncoder().Bytes([]byte(s)) },
			decode: func(b []byte) (string, error) {
				out, err := enc.NewDecoder().Bytes(b)
				return string(out), err
			},
		}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown string encoding %q", name)
	}
	return &strCodec{
		name:   name,
		encode: func(s string) ([]byte, error) { return enc.NewEncoder().Bytes([]byte(s)) },
		decode: func(b []byte) (string, error) {
			out, err := enc.NewDecoder().Bytes(b)
			return string(out), err
		},
	}, nil
}
