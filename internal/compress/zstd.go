package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec is the default codec: good ratios on text-heavy trees at
// moderate CPU cost.
type zstdCodec struct {
	level zstd.EncoderLevel
}

func newZstdCodec(level int) (*zstdCodec, error) {
	if level <= 0 {
		level = DefaultLevel
	}
	return &zstdCodec{level: zstd.EncoderLevelFromZstd(level)}, nil
}

func (c *zstdCodec) Name() string   { return "zstd" }
func (c *zstdCodec) Suffix() string { return ".zst" }

func (c *zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	return enc, nil
}

func (c *zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	return &zstdReadCloser{dec: dec}, nil
}

// zstdReadCloser adapts *zstd.Decoder, whose Close returns nothing, to
// io.ReadCloser.
type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return nil
}
