package compress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Compress streams the file at sourcePath through codec into w.
func Compress(codec Codec, sourcePath string, w io.Writer) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", sourcePath, err)
	}
	defer src.Close()

	cw, err := codec.NewWriter(w)
	if err != nil {
		return err
	}

	if _, err := io.Copy(cw, src); err != nil {
		cw.Close()
		return fmt.Errorf("compressing %s: %w", sourcePath, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("finalizing compression of %s: %w", sourcePath, err)
	}
	return nil
}

// CompressFile compresses sourcePath into destPath, creating any missing
// parent directories and overwriting an existing destination. Empty input
// produces a valid empty-payload artifact.
func CompressFile(codec Codec, sourcePath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	if err := Compress(codec, sourcePath, dst); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destPath, err)
	}
	return nil
}

// DecompressFile streams sourcePath through codec's decompression transform
// into destPath, creating parent directories as needed. Structurally invalid
// input fails with a CorruptError and leaves no partial destination: output
// goes to a temp file that is only renamed into place on success.
func DecompressFile(codec Codec, sourcePath, destPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", sourcePath, err)
	}
	defer src.Close()

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	cr, err := codec.NewReader(src)
	if err != nil {
		// Header-validating codecs reject bad input before the first read.
		return &CorruptError{Path: sourcePath, Err: err}
	}
	defer cr.Close()

	tmp, err := os.CreateTemp(dir, ".decompress-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	// Copy by hand so read-side failures (damaged frames) are classified as
	// corruption while write-side failures stay plain I/O errors.
	buf := make([]byte, 64*1024)
	for {
		n, rerr := cr.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing %s: %w", destPath, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return &CorruptError{Path: sourcePath, Err: rerr}
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", destPath, err)
	}
	success = true
	return nil
}
