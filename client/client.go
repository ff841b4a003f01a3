// Package client talks to a Restreamer core over its v3 HTTP API.
//
// Every response is validated against the record declared for its route in
// api.Routes before being returned, so callers get either a complete typed
// value or an error. Errors are one of *TransportError, *StatusError, or a
// validation error matching schema.ErrValidation.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maruel/ksid"

	"github.com/maruel/corectl/api"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the address of the core, e.g. "http://localhost:8080".
	BaseURL string
	// Token is sent as a bearer token when set.
	Token string
	// HTTPClient defaults to a new http.Client.
	HTTPClient *http.Client
	// Timeout bounds each request, including reading the body. 0 means no
	// timeout.
	Timeout time.Duration
	// RequestEncoding compresses request bodies: "", "zstd", "br" or "gzip".
	RequestEncoding string
	// CacheSize is the number of cached static responses. 0 selects the
	// default; a negative value disables the cache.
	CacheSize int
}

const defaultCacheSize = 16

// Client is a Restreamer API client. It is safe for concurrent use.
type Client struct {
	base  string
	token string
	hc    *http.Client
	enc   string
	cache *lru.Cache[string, []byte]
}

// New returns a client for the core at opts.BaseURL.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", opts.BaseURL)
	}
	if _, err := encodeBody(opts.RequestEncoding, nil); err != nil {
		return nil, err
	}
	var hc *http.Client
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		hc = &c
	} else {
		hc = &http.Client{}
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}
	c := &Client{
		base:  strings.TrimRight(u.String(), "/"),
		token: opts.Token,
		hc:    hc,
		enc:   opts.RequestEncoding,
	}
	size := opts.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	if size > 0 {
		if c.cache, err = lru.New[string, []byte](size); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// About returns the server identity and version.
func (c *Client) About(ctx context.Context) (*api.About, error) {
	return call[api.About](ctx, c, "about", nil, nil)
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.exec(ctx, "ping", nil, nil)
}

// ProcessFilter selects processes and the sections returned for each.
type ProcessFilter struct {
	IDs       []string
	Reference string
	// Fields lists the sections to include: "config", "state", "report",
	// "metadata". All when empty.
	Fields []string
}

func (f *ProcessFilter) query() url.Values {
	q := url.Values{}
	if len(f.Fields) != 0 {
		q.Set("filter", strings.Join(f.Fields, ","))
	}
	if len(f.IDs) != 0 {
		q.Set("id", strings.Join(f.IDs, ","))
	}
	if f.Reference != "" {
		q.Set("reference", f.Reference)
	}
	return q
}

// Processes lists the processes matching f.
func (c *Client) Processes(ctx context.Context, f ProcessFilter) ([]api.Process, error) {
	l, err := call[api.ProcessList](ctx, c, "processes", f.query(), nil)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// Process returns a process. fields restricts the sections returned, see
// ProcessFilter.
func (c *Client) Process(ctx context.Context, id string, fields ...string) (*api.Process, error) {
	f := ProcessFilter{Fields: fields}
	return call[api.Process](ctx, c, "process", f.query(), nil, id)
}

// ProcessConfig returns the configuration of a process.
func (c *Client) ProcessConfig(ctx context.Context, id string) (*api.ProcessConfig, error) {
	return call[api.ProcessConfig](ctx, c, "processConfig", nil, nil, id)
}

// ProcessState returns the runtime state of a process.
func (c *Client) ProcessState(ctx context.Context, id string) (*api.ProcessState, error) {
	return call[api.ProcessState](ctx, c, "processState", nil, nil, id)
}

// ProcessReport returns the FFmpeg logs of a process.
func (c *Client) ProcessReport(ctx context.Context, id string) (*api.ProcessReport, error) {
	return call[api.ProcessReport](ctx, c, "processReport", nil, nil, id)
}

// ProcessProbe probes the inputs of a process.
func (c *Client) ProcessProbe(ctx context.Context, id string) (*api.ProcessProbe, error) {
	return call[api.ProcessProbe](ctx, c, "processProbe", nil, nil, id)
}

// ProcessMetadata returns the metadata stored under key for a process.
func (c *Client) ProcessMetadata(ctx context.Context, id, key string) (*api.Metadata, error) {
	return call[api.Metadata](ctx, c, "processMetadata", nil, nil, id, key)
}

// SetProcessMetadata stores value under key for a process and returns the
// stored value.
func (c *Client) SetProcessMetadata(ctx context.Context, id, key string, value any) (*api.Metadata, error) {
	return call[api.Metadata](ctx, c, "setProcessMetadata", nil, value, id, key)
}

// AddProcess creates a process.
func (c *Client) AddProcess(ctx context.Context, cfg *api.ProcessConfig) (*api.ProcessConfig, error) {
	return call[api.ProcessConfig](ctx, c, "addProcess", nil, cfg)
}

// UpdateProcess replaces the configuration of a process. cfg.ID may differ
// from id to rename it.
func (c *Client) UpdateProcess(ctx context.Context, id string, cfg *api.ProcessConfig) (*api.ProcessConfig, error) {
	return call[api.ProcessConfig](ctx, c, "updateProcess", nil, cfg, id)
}

// DeleteProcess stops and deletes a process.
func (c *Client) DeleteProcess(ctx context.Context, id string) error {
	return c.exec(ctx, "deleteProcess", nil, nil, id)
}

// ProcessCommand sends one of api.CommandStart, CommandStop, CommandRestart
// or CommandReload to a process.
func (c *Client) ProcessCommand(ctx context.Context, id, cmd string) error {
	switch cmd {
	case api.CommandStart, api.CommandStop, api.CommandRestart, api.CommandReload:
	default:
		return fmt.Errorf("invalid process command %q", cmd)
	}
	return c.exec(ctx, "processCommand", nil, &api.ProcessCommand{Command: cmd}, id)
}

// Metadata returns the global metadata stored under key.
func (c *Client) Metadata(ctx context.Context, key string) (*api.Metadata, error) {
	return call[api.Metadata](ctx, c, "metadata", nil, nil, key)
}

// SetMetadata stores value under key and returns the stored value.
func (c *Client) SetMetadata(ctx context.Context, key string, value any) (*api.Metadata, error) {
	return call[api.Metadata](ctx, c, "setMetadata", nil, value, key)
}

// Skills returns the FFmpeg capabilities. The result is cached until
// ReloadSkills.
func (c *Client) Skills(ctx context.Context) (*api.Skills, error) {
	return call[api.Skills](ctx, c, "skills", nil, nil)
}

// ReloadSkills makes the server probe FFmpeg again and drops every cached
// response.
func (c *Client) ReloadSkills(ctx context.Context) (*api.Skills, error) {
	if c.cache != nil {
		c.cache.Purge()
	}
	return call[api.Skills](ctx, c, "reloadSkills", nil, nil)
}

// ActiveSessions returns the active sessions of the given collectors, e.g.
// api.CollectorHLS. All collectors when none is given.
func (c *Client) ActiveSessions(ctx context.Context, collectors ...string) (*api.SessionActive, error) {
	if len(collectors) == 0 {
		collectors = []string{api.CollectorFFmpeg, api.CollectorHLS, api.CollectorHLSIngress, api.CollectorHTTP, api.CollectorRTMP, api.CollectorSRT}
	}
	q := url.Values{"collectors": {strings.Join(collectors, ",")}}
	return call[api.SessionActive](ctx, c, "activeSessions", q, nil)
}

// SRTChannels lists the SRT channels.
func (c *Client) SRTChannels(ctx context.Context) ([]api.Srt, error) {
	l, err := call[api.SrtList](ctx, c, "srt", nil, nil)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// RTMPChannels lists the RTMP channels.
func (c *Client) RTMPChannels(ctx context.Context) ([]api.RtmpChannel, error) {
	l, err := call[api.RtmpChannelList](ctx, c, "rtmp", nil, nil)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// Log returns the server log. raw selects structured entries instead of
// formatted lines.
func (c *Client) Log(ctx context.Context, raw bool) (*api.Log, error) {
	q := url.Values{"format": {"console"}}
	if raw {
		q.Set("format", "raw")
	}
	return call[api.Log](ctx, c, "log", q, nil)
}

// MetricsDescriptions lists the metrics the server collects.
func (c *Client) MetricsDescriptions(ctx context.Context) ([]api.MetricsCollection, error) {
	l, err := call[api.MetricsCollectionList](ctx, c, "metricsDescriptions", nil, nil)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// Metrics queries metric series.
func (c *Client) Metrics(ctx context.Context, q *api.MetricsQuery) (*api.MetricsResponse, error) {
	return call[api.MetricsResponse](ctx, c, "metrics", nil, q)
}

// ClusterNodes lists the cluster peers.
func (c *Client) ClusterNodes(ctx context.Context) ([]api.ClusterNode, error) {
	l, err := call[api.ClusterNodeList](ctx, c, "clusterNodes", nil, nil)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// Config returns the active server configuration.
func (c *Client) Config(ctx context.Context) (*api.Config, error) {
	return call[api.Config](ctx, c, "config", nil, nil)
}

// FilesystemList lists the files of the named filesystem ("disk", "mem")
// matching glob. An empty glob lists everything.
func (c *Client) FilesystemList(ctx context.Context, name, glob string) ([]api.FileInfo, error) {
	q := url.Values{}
	if glob != "" {
		q.Set("glob", glob)
	}
	l, err := call[api.FileList](ctx, c, "fsList", q, nil, name)
	if err != nil {
		return nil, err
	}
	return l.Data, nil
}

// Get fetches a GET route by name and returns the validated, normalized
// payload. Routes without a response record return the body as a string.
func (c *Client) Get(ctx context.Context, name string, query url.Values, args ...string) (any, error) {
	r, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if r.Method != http.MethodGet {
		return nil, fmt.Errorf("route %s is %s, not GET", r.Name, r.Method)
	}
	data, err := c.do(ctx, r, query, nil, args)
	if err != nil {
		return nil, err
	}
	if r.RespType == "" {
		return string(data), nil
	}
	v, err := api.Registry().ConstructJSON(r.RespType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	return v, nil
}

func lookup(name string) (*api.Route, error) {
	r, ok := api.RouteByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown route %q", name)
	}
	return r, nil
}

// call runs the named route and decodes its response record into a T.
func call[T any](ctx context.Context, c *Client, name string, query url.Values, body any, args ...string) (*T, error) {
	r, err := lookup(name)
	if err != nil {
		return nil, err
	}
	key := ""
	if r.Cached && c.cache != nil {
		key = r.Name + "/" + strings.Join(args, "/") + "?" + query.Encode()
		if data, ok := c.cache.Get(key); ok {
			return api.Decode[T](r.RespType, data)
		}
	}
	data, err := c.do(ctx, r, query, body, args)
	if err != nil {
		return nil, err
	}
	v, err := api.Decode[T](r.RespType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	if key != "" {
		c.cache.Add(key, data)
	}
	return v, nil
}

// exec runs a route whose response body is not validated.
func (c *Client) exec(ctx context.Context, name string, query url.Values, body any, args ...string) error {
	r, err := lookup(name)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, r, query, body, args)
	return err
}

// do sends the request and returns the decoded response body of a 2xx
// response.
func (c *Client) do(ctx context.Context, r *api.Route, query url.Values, body any, args []string) ([]byte, error) {
	p, err := r.Expand(args...)
	if err != nil {
		return nil, err
	}
	target := c.base + p
	if len(query) != 0 {
		target += "?" + query.Encode()
	}
	var rd io.Reader
	// A nil body on a route with a request record is sent as null so it is
	// validated like any other value.
	if body != nil || r.ReqType != "" {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		if r.ReqType != "" {
			if _, err := api.Registry().ConstructJSON(r.ReqType, b); err != nil {
				return nil, fmt.Errorf("%s: request: %w", r.Name, err)
			}
		}
		if b, err = encodeBody(c.enc, b); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	id := ksid.NewID().String()
	req.Header.Set("X-Request-ID", id)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if c.enc != "" {
			req.Header.Set("Content-Encoding", c.enc)
		}
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Route: r.Name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	rc, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, &TransportError{Route: r.Name, Err: err}
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	slog.DebugContext(ctx, "core",
		"m", r.Method,
		"p", p,
		"s", resp.StatusCode,
		"d", roundDuration(time.Since(start)),
		"b", len(data),
		"id", id,
	)
	if err != nil {
		return nil, &TransportError{Route: r.Name, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Route: r.Name, StatusCode: resp.StatusCode, Body: data}
		if e, err := api.Decode[api.Error]("Error", data); err == nil {
			se.API = e
		}
		return nil, se
	}
	return data, nil
}

// roundDuration rounds d to 3 significant digits, minimum 1µs.
func roundDuration(d time.Duration) time.Duration {
	for t := 100 * time.Second; t >= 100*time.Microsecond; t /= 10 {
		if d >= t {
			return d.Round(t / 100)
		}
	}
	return d.Round(time.Microsecond)
}
