package compress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

const bufferSize = 64 * 1024 // 64KB buffer

// Algorithm names the compression pass used to measure transfer size
type Algorithm string

const (
	Gzip   Algorithm = "gzip"
	Brotli Algorithm = "brotli"
)

// ParseAlgorithm parses an algorithm name, defaulting to gzip when empty
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gzip", "gz":
		return Gzip, nil
	case "brotli", "br":
		return Brotli, nil
	default:
		return "", fmt.Errorf("unknown compression algorithm: %s (valid: gzip, brotli)", s)
	}
}

// FileSize returns the compressed size of the file at filePath
func FileSize(filePath string, algo Algorithm) (int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Size(file, algo)
}

// Size compresses everything read from r and returns the compressed byte count
func Size(r io.Reader, algo Algorithm) (int64, error) {
	var counter countingWriter

	w, err := newWriter(&counter, algo)
	if err != nil {
		return 0, err
	}

	buffer := make([]byte, bufferSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := w.Write(buffer[:n]); err != nil {
				return 0, fmt.Errorf("write to %s writer: %w", algo, err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close %s writer: %w", algo, err)
	}

	return counter.n, nil
}

// BytesSize is Size for an in-memory buffer
func BytesSize(data []byte, algo Algorithm) (int64, error) {
	return Size(bytes.NewReader(data), algo)
}

func newWriter(w io.Writer, algo Algorithm) (io.WriteCloser, error) {
	switch algo {
	case Gzip, "":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case Brotli:
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	default:
		return nil, fmt.Errorf("unknown compression algorithm: %s", algo)
	}
}

// countingWriter discards its input and counts the bytes written
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
