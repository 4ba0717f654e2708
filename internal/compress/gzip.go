package compress

import (
	"compress/gzip"
	"fmt"
	"io"
)

// gzipCodec exists for destinations that must stay readable by ubiquitous
// tooling (gunzip, zcat) rather than for ratio or speed.
type gzipCodec struct {
	level int
}

func newGzipCodec(level int) (*gzipCodec, error) {
	if level <= 0 {
		level = gzip.DefaultCompression
	}
	if level > gzip.BestCompression {
		level = gzip.BestCompression
	}
	return &gzipCodec{level: level}, nil
}

func (c *gzipCodec) Name() string   { return "gzip" }
func (c *gzipCodec) Suffix() string { return ".gz" }

func (c *gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	gw, err := gzip.NewWriterLevel(w, c.level)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	return gw, nil
}

func (c *gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return gr, nil
}
