package seq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	blockLenSize   = 4
	initialPadding = 8
)

// Frame single frame payload from a container.
type Frame struct {
	Index   int
	Payload []byte
	Codec   Codec
}

// cursor is the position of the next block and the
// padding that is assumed to follow every block.
type cursor struct {
	offset int
	extra  int
}

// step reads the block at c and returns its payload
// and the cursor pointing at the following block.
func step(buf []byte, c cursor) ([]byte, cursor, error) {
	if c.offset+blockLenSize > len(buf) {
		return nil, c, fmt.Errorf("%w: block length at offset %d, size %d",
			ErrTruncatedContainer, c.offset, len(buf))
	}
	blockLen := binary.LittleEndian.Uint32(buf[c.offset : c.offset+blockLenSize])

	remaining := len(buf) - c.offset
	if blockLen < blockLenSize || int64(blockLen) > int64(remaining) {
		return nil, c, fmt.Errorf("%w: block length %d at offset %d, %d bytes remaining",
			ErrMalformedFrame, blockLen, c.offset, remaining)
	}

	start := c.offset + blockLenSize
	end := c.offset + int(blockLen)

	next := cursor{
		offset: end + c.extra,
		extra:  c.extra,
	}
	return buf[start:end:end], next, nil
}

// correctPadding is applied once, after the first block.
// The byte at the assumed start of the second block tells
// which padding convention the encoder used.
func correctPadding(buf []byte, c cursor, moreFrames bool) (cursor, error) {
	if c.offset >= len(buf) {
		if !moreFrames {
			return c, nil
		}
		return c, fmt.Errorf("%w: padding probe at offset %d, size %d",
			ErrTruncatedContainer, c.offset, len(buf))
	}

	if buf[c.offset] != 0 {
		c.offset -= 4
		return c, nil
	}
	c.extra += 8
	c.offset += 8
	return c, nil
}

// Reader splits a container into frames.
type Reader struct {
	buf    []byte
	header Header

	cursor cursor
	index  int
	err    error
}

// NewReader creates a reader for a container held in buf,
// header must have been read from the same buffer.
func NewReader(buf []byte, header Header) *Reader {
	return &Reader{
		buf:    buf,
		header: header,
		cursor: cursor{
			offset: HeaderSize,
			extra:  initialPadding,
		},
	}
}

// Open reads the header and returns a reader positioned at the first frame.
func Open(buf []byte) (*Reader, *Header, error) {
	header, err := ReadHeader(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	return NewReader(buf, *header), header, nil
}

// OpenFile reads the whole file into memory and opens it.
func OpenFile(path string) (*Reader, *Header, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Open(buf)
}

// Next returns the next frame, or io.EOF after the last one.
// The payload shares memory with the container buffer.
func (r *Reader) Next() (*Frame, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.index >= int(r.header.FrameCount) {
		return nil, io.EOF
	}

	payload, next, err := step(r.buf, r.cursor)
	if err != nil {
		r.err = fmt.Errorf("frame %d: %w", r.index, err)
		return nil, r.err
	}

	if r.index == 0 {
		moreFrames := r.header.FrameCount > 1
		next, err = correctPadding(r.buf, next, moreFrames)
		if err != nil {
			r.err = fmt.Errorf("frame %d: %w", r.index, err)
			return nil, r.err
		}
	}

	frame := &Frame{
		Index:   r.index,
		Payload: payload,
		Codec:   r.header.Codec,
	}
	r.cursor = next
	r.index++

	return frame, nil
}

// ReadAll reads all remaining frames.
func (r *Reader) ReadAll() ([]Frame, error) {
	// Every block takes at least its length prefix.
	capacity := int(r.header.FrameCount) - r.index
	if fit := (len(r.buf) - r.cursor.offset) / blockLenSize; fit < capacity {
		capacity = fit
	}
	frames := make([]Frame, 0, max(capacity, 0))
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, *frame)
	}
}

// Padding returns the number of padding bytes currently
// assumed between blocks.
func (r *Reader) Padding() int {
	return r.cursor.extra
}

// Header returns the container header.
func (r *Reader) Header() Header {
	return r.header
}
