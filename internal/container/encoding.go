package container

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encoding selects the on-disk form of an export [File].
type Encoding int

const (
	// EncodingJSON is a JSON document {"metadata": {...}, "data": base64}.
	EncodingJSON Encoding = iota
	// EncodingCBOR is the same document as a CBOR map with a raw byte body.
	EncodingCBOR
)

// ParseEncoding maps a config value ("json", "cbor") to an [Encoding].
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return EncodingJSON, nil
	case "cbor":
		return EncodingCBOR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s)
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

type jsonDocument struct {
	Metadata Metadata `json:"metadata"`
	Data     string   `json:"data"`
}

type cborDocument struct {
	Metadata Metadata `cbor:"metadata"`
	Data     []byte   `cbor:"data"`
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	cborDec, err = cbor.DecOptions{
		MaxNestedLevels: 4,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes f in the requested encoding.
func Encode(f File, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingJSON:
		return json.MarshalIndent(jsonDocument{
			Metadata: f.Metadata,
			Data:     base64.StdEncoding.EncodeToString(f.Body),
		}, "", "  ")
	case EncodingCBOR:
		return cborEnc.Marshal(cborDocument{Metadata: f.Metadata, Data: f.Body})
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, enc)
	}
}

// Decode parses an export file in either encoding. Leading whitespace is
// skipped; the next byte is '{' for JSON or a map header (major type 5)
// for CBOR.
func Decode(data []byte) (File, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return File{}, ErrMalformedContainer
	}

	switch {
	case trimmed[0] == '{':
		var doc jsonDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
		}
		body, err := base64.StdEncoding.DecodeString(doc.Data)
		if err != nil {
			return File{}, fmt.Errorf("%w: data: %v", ErrMalformedContainer, err)
		}
		return File{Metadata: doc.Metadata, Body: body}, nil

	case trimmed[0]>>5 == 5:
		var doc cborDocument
		if err := cborDec.Unmarshal(trimmed, &doc); err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
		}
		return File{Metadata: doc.Metadata, Body: doc.Data}, nil

	default:
		return File{}, ErrUnsupportedEncoding
	}
}
