package hash

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestSize is the size in bytes of a content digest.
const DigestSize = 32

// Digest is a 32-byte BLAKE3 fingerprint of file content. Two files with
// the same digest are treated as having identical content.
type Digest [DigestSize]byte

// Hex returns the lowercase hex encoding of the digest. This is the form
// stored in the registry file.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// ParseHex decodes a hex-encoded digest as produced by Digest.Hex.
func ParseHex(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("decoding digest: %w", err)
	}
	if len(raw) != DigestSize {
		return d, fmt.Errorf("digest has %d bytes, want %d", len(raw), DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}

// Sum returns the digest of the given bytes.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// Reader computes the digest of everything readable from r.
// The empty stream yields the fixed BLAKE3 empty-input digest.
func Reader(r io.Reader) (Digest, error) {
	var d Digest
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return d, fmt.Errorf("hashing stream: %w", err)
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// File computes the content digest of the file at path.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	d, err := Reader(bufio.NewReaderSize(f, 64*1024))
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return d, nil
}
