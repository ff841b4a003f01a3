package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestSplitArgs(t *testing.T) {
	p, q := splitArgs([]string{"p1", "filter=config", "key", "id=a"})
	if !slices.Equal(p, []string{"p1", "key"}) {
		t.Errorf("got path args %v", p)
	}
	if got := q.Encode(); got != "filter=config&id=a" {
		t.Errorf("got query %q", got)
	}
}

func TestPrinter(t *testing.T) {
	v := map[string]any{"id": "p", "count": int64(3), "l": []any{1.5}}
	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		p, err := newPrinter(&buf, "json")
		if err != nil {
			t.Fatal(err)
		}
		if err := p.print(v); err != nil {
			t.Fatal(err)
		}
		want := "{\n  \"count\": 3,\n  \"id\": \"p\",\n  \"l\": [\n    1.5\n  ]\n}\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		p, err := newPrinter(&buf, "yaml")
		if err != nil {
			t.Fatal(err)
		}
		if err := p.print(v); err != nil {
			t.Fatal(err)
		}
		got := buf.String()
		for _, want := range []string{"id: p\n", "- 1.5\n", "count: 3\n"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q in %q", want, got)
			}
		}
	})
	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		p, _ := newPrinter(&buf, "yaml")
		if err := p.print("pong"); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != "pong\n" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("Unknown", func(t *testing.T) {
		if _, err := newPrinter(&bytes.Buffer{}, "xml"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestListings(t *testing.T) {
	var buf bytes.Buffer
	if err := printRoutes(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "/api/v3/process/{id}/probe") {
		t.Errorf("missing route in:\n%s", buf.String())
	}
	buf.Reset()
	if err := printRecords(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"SrtList (bare payload)", "subscriber", "mapping<list<int>>|list<int>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte(`[{"name":"live"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`[{}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	p, _ := newPrinter(&buf, "json")
	if err := validateFile(p, "RtmpChannelList", good); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"live"`) {
		t.Errorf("got %s", buf.String())
	}
	err := validateFile(p, "RtmpChannelList", bad)
	if err == nil || !strings.Contains(err.Error(), "[0].name") {
		t.Errorf("got %v, want missing [0].name", err)
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() { calls <- struct{}{} })
	}()
	wait := func() {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for callback")
		}
	}
	wait()
	if err := os.WriteFile(path, []byte(`{"id":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	wait()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
