// Package compress provides the streaming compression codecs used to write
// destination artifacts, plus file-level helpers shared by the backup job
// and the standalone decompress command.
package compress

import (
	"errors"
	"fmt"
	"io"
)

// DefaultLevel is the default compression level, balanced between speed
// and ratio.
const DefaultLevel = 3

// Codec is a streaming compression transform. Implementations treat binary
// and text content identically and must round-trip all inputs, including
// the empty stream, byte-for-byte.
type Codec interface {
	// Name identifies the codec in config ("zstd", "lz4", "gzip").
	Name() string

	// Suffix is the filename suffix appended to destination artifacts,
	// including the leading dot.
	Suffix() string

	// NewWriter wraps w so that writes are compressed. The returned writer
	// must be closed to flush the final frame.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader wraps r so that reads are decompressed. Structurally
	// invalid input is reported either here or from the first Read.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// New returns the codec with the given name. level applies to codecs that
// support one; pass DefaultLevel when unsure.
func New(name string, level int) (Codec, error) {
	switch name {
	case "zstd", "":
		return newZstdCodec(level)
	case "lz4":
		return newLZ4Codec(level)
	case "gzip":
		return newGzipCodec(level)
	default:
		return nil, fmt.Errorf("unknown compression codec: %q", name)
	}
}

// BySuffix returns the codec whose artifact suffix matches the end of path.
// Used by the decompress command to infer the codec from the file name.
func BySuffix(path string) (Codec, error) {
	for _, name := range []string{"zstd", "lz4", "gzip"} {
		c, err := New(name, DefaultLevel)
		if err != nil {
			return nil, err
		}
		if hasSuffix(path, c.Suffix()) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("cannot infer codec from file name %q", path)
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// CorruptError reports structurally invalid compressed input. It is
// distinguishable from plain I/O failures so callers can tell "the artifact
// is damaged" apart from "the disk misbehaved".
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt compressed data in %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err (or anything it wraps) is a CorruptError.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
