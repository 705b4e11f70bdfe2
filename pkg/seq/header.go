package seq

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize size of the fixed container header.
const HeaderSize = 1024

// Header field sizes.
const (
	magicSize       = 4
	descriptorSize  = 24
	descriptionSize = 512
	paramCount      = 9
	frameRateSize   = 8
	reservedSize    = 432

	layoutSize = magicSize + descriptorSize + 4 + 4 + descriptionSize +
		paramCount*4 + frameRateSize + reservedSize

	invalidAllocated = 1024
)

// Errors.
var (
	ErrMalformedHeader    = errors.New("malformed header")
	ErrUnsupportedCodec   = errors.New("unsupported codec")
	ErrTruncatedContainer = errors.New("truncated container")
	ErrMalformedFrame     = errors.New("malformed frame")
)

// Codec of the frame payloads.
type Codec uint8

// Codecs.
const (
	CodecRaw Codec = iota + 1
	CodecJPEG
	CodecPNG
)

// Ext returns the file extension used for payloads of this codec.
func (c Codec) Ext() string {
	switch c {
	case CodecRaw:
		return "raw"
	case CodecJPEG:
		return "jpg"
	case CodecPNG:
		return "png"
	}
	return ""
}

func (c Codec) String() string {
	return c.Ext()
}

// CodecFromFormat translates a header format code.
func CodecFromFormat(format int32) (Codec, error) {
	switch format {
	case 100:
		return CodecRaw, nil
	case 102, 201:
		return CodecJPEG, nil
	case 1, 2:
		return CodecPNG, nil
	}
	return 0, fmt.Errorf("%w: format code %d", ErrUnsupportedCodec, format)
}

// Header container header.
type Header struct {
	Version      int32
	Width        int32
	Height       int32
	BitDepth     int32
	FormatCode   int32
	Codec        Codec
	DeclaredSize int32
	TrueSize     int32
	FrameCount   int32
}

// ReadHeader parses the header at the start of buf.
func ReadHeader(buf []byte) (*Header, error) {
	var h Header
	if err := h.Unmarshal(buf); err != nil {
		return nil, err
	}
	return &h, nil
}

// Unmarshal header from the first HeaderSize bytes of buf.
func (h *Header) Unmarshal(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d",
			ErrTruncatedContainer, HeaderSize, len(buf))
	}
	pos := magicSize + descriptorSize

	h.Version = readInt32(buf, &pos)

	allocated := readInt32(buf, &pos)
	if allocated == invalidAllocated {
		return fmt.Errorf("%w: allocated length %d", ErrMalformedHeader, allocated)
	}
	pos += descriptionSize

	var params [paramCount]int32
	for i := range params {
		params[i] = readInt32(buf, &pos)
	}
	h.Width = params[0]
	h.Height = params[1]
	h.BitDepth = params[2]
	h.DeclaredSize = params[4]
	h.FormatCode = params[5]
	h.FrameCount = params[6]
	h.TrueSize = params[8]

	// Frame rate float64 and reserved bytes follow, neither is used.

	if h.FrameCount < 0 {
		return fmt.Errorf("%w: frame count %d", ErrMalformedHeader, h.FrameCount)
	}

	codec, err := CodecFromFormat(h.FormatCode)
	if err != nil {
		return err
	}
	h.Codec = codec

	return nil
}

func readInt32(buf []byte, pos *int) int32 {
	v := int32(binary.LittleEndian.Uint32(buf[*pos : *pos+4]))
	*pos += 4
	return v
}
