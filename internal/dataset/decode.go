package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is returned when decoded input exceeds the configured limit.
var ErrTooLarge = errors.New("input exceeds size limit")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression names the encoding detected on an input stream.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

// Detect reports the compression of the stream behind br without consuming it.
func Detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	default:
		return None
	}
}

// ReadAll decompresses r if needed and returns at most limit bytes of
// content. A limit <= 0 means no limit.
func ReadAll(r io.Reader, limit int64) ([]byte, Compression, error) {
	br := bufio.NewReader(r)
	kind := Detect(br)

	var src io.Reader = br
	switch kind {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, kind, fmt.Errorf("read %s stream: %w", kind, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, kind, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return data, kind, nil
}
