package rowio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stdio is the path naming stdin or stdout.
const Stdio = "-"

// Compression suffixes recognized on input and output paths.
const (
	SuffixLZ4  = ".lz4"
	SuffixZstd = ".zst"
)

// Codec identifies a stream compression format.
type Codec int

const (
	// CodecNone passes bytes through.
	CodecNone Codec = iota
	// CodecLZ4 is the LZ4 frame format.
	CodecLZ4
	// CodecZstd is the Zstandard frame format.
	CodecZstd
)

// CodecFor picks a codec from the path suffix.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case SuffixLZ4:
		return CodecLZ4
	case SuffixZstd:
		return CodecZstd
	default:
		return CodecNone
	}
}

// OpenInput opens path for reading, decompressing by suffix. An empty path
// or [Stdio] reads stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	rc, err := NewDecompressor(f, CodecFor(path))
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return rc, nil
}

// CreateOutput creates path for writing, compressing by suffix. An empty
// path or [Stdio] writes stdout, which is never closed.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	wc, err := NewCompressor(f, CodecFor(path))
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return wc, nil
}

// NewDecompressor wraps rc in a decoder for codec. Closing the result
// closes rc.
func NewDecompressor(rc io.ReadCloser, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecLZ4:
		return &readCloser{Reader: lz4.NewReader(rc), closers: []func() error{rc.Close}}, nil
	case CodecZstd:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}

		return &readCloser{Reader: dec, closers: []func() error{closeFunc(dec.Close), rc.Close}}, nil
	default:
		return rc, nil
	}
}

// NewCompressor wraps wc in an encoder for codec. Closing the result
// flushes the encoder and then closes wc.
func NewCompressor(wc io.WriteCloser, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecLZ4:
		zw := lz4.NewWriter(wc)

		return &writeCloser{Writer: zw, closers: []func() error{zw.Close, wc.Close}}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(wc, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}

		return &writeCloser{Writer: enc, closers: []func() error{enc.Close, wc.Close}}, nil
	default:
		return wc, nil
	}
}

func closeFunc(fn func()) func() error {
	return func() error {
		fn()

		return nil
	}
}

type readCloser struct {
	io.Reader

	closers []func() error
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}

	return errors.Join(errs...)
}

type writeCloser struct {
	io.Writer

	closers []func() error
}

func (w *writeCloser) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c())
	}

	return errors.Join(errs...)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
