package compress

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec trades ratio for speed. Useful for large mostly-binary trees
// where zstd's CPU cost dominates.
type lz4Codec struct {
	level lz4.CompressionLevel
}

func newLZ4Codec(level int) (*lz4Codec, error) {
	// lz4 levels are powers of two internally; map the small integer levels
	// used in config onto the library's scale, 0 meaning fast mode.
	var l lz4.CompressionLevel
	switch {
	case level <= 1:
		l = lz4.Fast
	case level >= 9:
		l = lz4.Level9
	default:
		l = lz4.CompressionLevel(1 << (8 + level))
	}
	return &lz4Codec{level: l}, nil
}

func (c *lz4Codec) Name() string   { return "lz4" }
func (c *lz4Codec) Suffix() string { return ".lz4" }

func (c *lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	lw := lz4.NewWriter(w)
	if err := lw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return nil, fmt.Errorf("configuring lz4 writer: %w", err)
	}
	return lw, nil
}

func (c *lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
