package trlevel

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// maxDeflateRatio bounds how far deflate can expand its input.
const maxDeflateRatio = 1032

// chunkHeader precedes every compressed TR4 chunk.
type chunkHeader struct {
	UncompressedSize uint32
	CompressedSize   uint32
}

func skipChunk(r *reader, what string) error {
	var h chunkHeader
	if err := r.read(&h, what+" header"); err != nil {
		return err
	}
	return r.skip(int64(h.CompressedSize), what)
}

// readChunk reads and inflates a compressed chunk.
func readChunk(r *reader, what string) ([]byte, error) {
	var h chunkHeader
	if err := r.read(&h, what+" header"); err != nil {
		return nil, err
	}
	if err := r.need(int64(h.CompressedSize), what); err != nil {
		return nil, err
	}
	if int64(h.UncompressedSize) > int64(h.CompressedSize)*maxDeflateRatio {
		return nil, fmt.Errorf("%w: %s: %d bytes cannot inflate to %d",
			ErrInvalidChunk, what, h.CompressedSize, h.UncompressedSize)
	}
	compressed := make([]byte, h.CompressedSize)
	if _, err := io.ReadFull(r.r, compressed); err != nil {
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedLevelData, what)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidChunk, what, err)
	}
	defer zr.Close()

	// The buffer grows with the inflated data, at most one byte past the
	// declared size so an oversized payload is detected.
	var data bytes.Buffer
	if _, err := io.Copy(&data, io.LimitReader(zr, int64(h.UncompressedSize)+1)); err != nil {
		return nil, fmt.Errorf("%w: %s: inflating: %v", ErrInvalidChunk, what, err)
	}
	if data.Len() != int(h.UncompressedSize) {
		return nil, fmt.Errorf("%w: %s: inflated %d bytes, expected %d",
			ErrInvalidChunk, what, data.Len(), h.UncompressedSize)
	}
	return data.Bytes(), nil
}
