package client

import (
	"bytes"
	"io"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"name":"live","size_bytes":1024}`), 64)
	for _, enc := range []string{"zstd", "br", "gzip", ""} {
		t.Run(enc, func(t *testing.T) {
			b, err := encodeBody(enc, payload)
			if err != nil {
				t.Fatal(err)
			}
			if enc != "" && len(b) >= len(payload) {
				t.Errorf("compressed size %d >= %d", len(b), len(payload))
			}
			rc, err := decodeBody(enc, bytes.NewReader(b))
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = rc.Close() }()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("body = %q, want %q", got, payload)
			}
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		if _, err := encodeBody("lz4", payload); err == nil {
			t.Error("expected error encoding lz4")
		}
		if _, err := decodeBody("lz4", bytes.NewReader(payload)); err == nil {
			t.Error("expected error decoding lz4")
		}
	})

	t.Run("InvalidGzip", func(t *testing.T) {
		if _, err := decodeBody("gzip", bytes.NewReader([]byte("nope"))); err == nil {
			t.Error("expected error for invalid gzip header")
		}
	})
}
