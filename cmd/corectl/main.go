// Command corectl queries a Restreamer core and validates its payloads.
//
// Usage:
//
//	corectl [flags] routes
//	corectl [flags] records
//	corectl [flags] get <route> [arg...] [key=value...]
//	corectl [flags] validate <record> <file.json>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/maruel/corectl/api"
	"github.com/maruel/corectl/client"
)

func mainImpl() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// A missing .env is fine.
	_ = godotenv.Load()

	baseURL := flag.String("url", envOr("CORE_URL", "http://localhost:8080"), "core address, defaults to $CORE_URL")
	token := flag.String("token", os.Getenv("CORE_TOKEN"), "bearer token, defaults to $CORE_TOKEN")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	format := flag.String("format", "json", "output format (json, yaml)")
	timeout := flag.Duration("timeout", 30*time.Second, "per request timeout")
	encoding := flag.String("encoding", "", "request body encoding (zstd, br, gzip)")
	watch := flag.Bool("watch", false, "validate: revalidate the file each time it changes")
	flag.Parse()

	initLogging(*logLevel)
	out, err := newPrinter(os.Stdout, *format)
	if err != nil {
		return err
	}

	args := flag.Args()
	if len(args) == 0 {
		return errors.New("usage: corectl [flags] routes|records|get|validate ...")
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "routes":
		return printRoutes(os.Stdout)
	case "records":
		return printRecords(os.Stdout)
	case "get":
		if len(rest) == 0 {
			return errors.New("usage: corectl get <route> [arg...] [key=value...]")
		}
		c, err := client.New(client.Options{
			BaseURL:         *baseURL,
			Token:           *token,
			Timeout:         *timeout,
			RequestEncoding: *encoding,
		})
		if err != nil {
			return err
		}
		pathArgs, query := splitArgs(rest[1:])
		v, err := c.Get(ctx, rest[0], query, pathArgs...)
		if err != nil {
			return err
		}
		return out.print(v)
	case "validate":
		if len(rest) != 2 {
			return errors.New("usage: corectl validate <record> <file.json>")
		}
		if *watch {
			return watchFile(ctx, rest[1], func() { report(out, rest[0], rest[1]) })
		}
		return validateFile(out, rest[0], rest[1])
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitArgs separates key=value query parameters from path arguments.
func splitArgs(args []string) ([]string, url.Values) {
	var pathArgs []string
	q := url.Values{}
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			q.Add(k, v)
			continue
		}
		pathArgs = append(pathArgs, a)
	}
	return pathArgs, q
}

func printRoutes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range api.Routes {
		resp := r.RespType
		if resp == "" {
			resp = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Method, r.Path, resp)
	}
	return tw.Flush()
}

func printRecords(w io.Writer) error {
	reg := api.Registry()
	if err := reg.Check(); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range reg.Names() {
		r, err := reg.Resolve(n)
		if err != nil {
			return err
		}
		suffix := ""
		if r.Wrapped {
			suffix = " (bare payload)"
		}
		_, _ = fmt.Fprintf(tw, "%s%s\n", n, suffix)
		for i := range r.Fields {
			f := &r.Fields[i]
			req := ""
			if f.IsRequired() {
				req = "required"
			}
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.Type, req)
		}
	}
	return tw.Flush()
}

func validateFile(out *printer, record, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := api.Registry().ConstructJSON(record, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return out.print(v)
}

// report validates and logs the outcome instead of failing.
func report(out *printer, record, path string) {
	if err := validateFile(out, record, path); err != nil {
		slog.Error("invalid", "record", record, "err", err)
		return
	}
	slog.Info("valid", "record", record, "file", path)
}

// printer writes values as JSON or YAML.
type printer struct {
	w    io.Writer
	yaml bool
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case "json":
		return &printer{w: w}, nil
	case "yaml":
		return &printer{w: w, yaml: true}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func (p *printer) print(v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(p.w, s)
		return err
	}
	if p.yaml {
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = p.w.Write(b)
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", b)
	return err
}

// initLogging installs a tint handler on stderr. Colors are disabled when
// stderr is not a terminal, timestamps under systemd, and zero-value
// attributes are dropped.
func initLogging(level string) {
	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(level)); err != nil {
		ll.Set(slog.LevelInfo)
	}
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if isZero(a.Value.Any()) {
				return slog.Attr{}
			}
			return a
		},
	})))
}

func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	case time.Time:
		return t.IsZero()
	case time.Duration:
		return t == 0
	}
	return false
}

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "corectl: %v\n", err)
		os.Exit(1)
	}
}
