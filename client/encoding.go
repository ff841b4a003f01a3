// Content-Encoding support for requests and responses.
//
// Responses are negotiated as zstd, brotli or gzip and decoded before
// validation. Request bodies are optionally compressed at fast levels.
package client

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding is sent on every request, in order of preference.
const acceptEncoding = "zstd, br, gzip"

// decodeBody wraps r with the decompressor for the Content-Encoding ce.
func decodeBody(ce string, r io.Reader) (io.ReadCloser, error) {
	switch ce {
	case "", "identity":
		return io.NopCloser(r), nil
	case "zstd":
		dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(64<<20))
		if err != nil {
			return nil, fmt.Errorf("invalid zstd body: %w", err)
		}
		return dec.IOReadCloser(), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	case "gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		return gr, nil
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding: %s", ce)
	}
}

// encodeBody compresses b with enc. An empty enc returns b unchanged.
func encodeBody(enc string, b []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch enc {
	case "":
		return b, nil
	case "zstd":
		zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, err
		}
		w = zw
	case "br":
		w = brotli.NewWriterLevel(&buf, 1)
	case "gzip":
		gw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		w = gw
	default:
		return nil, fmt.Errorf("unsupported request encoding: %s", enc)
	}
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
