package camelsnake

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bhatti/camelsnake/casing"
)

// Direction defines which side of the exchange is being rewritten
type Direction int

const (
	// Incoming rewrites request bodies to snake_case (client -> application)
	Incoming Direction = iota
	// Outgoing rewrites response bodies to camelCase (application -> client)
	Outgoing
)

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// jsonMediaType is matched case-insensitively anywhere in Content-Type
const jsonMediaType = "application/json"

// BypassFunc reports whether a request must be forwarded without rewriting
type BypassFunc func(r *http.Request) bool

// ErrorHandlerFunc renders a rewrite failure to the client
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Request is the request side of an exchange
type Request struct {
	Header        http.Header
	Body          []byte
	ContentLength int64
	// KeepCase skips all rewriting for this exchange
	KeepCase bool
}

// Response is the response side of an exchange. Body is a sequence of
// chunks, each holding one complete JSON document when the response is JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       [][]byte
}

// Len returns the total body length
func (r *Response) Len() int {
	n := 0
	for _, chunk := range r.Body {
		n += len(chunk)
	}
	return n
}

// Handler serves a Request envelope
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f(ctx, req)
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Config holds the configuration for the rewriter
type Config struct {
	// SkipPaths lists request paths that are never rewritten
	SkipPaths []string `json:"skip_paths" yaml:"skip_paths"`
	// PreserveKeys lists object keys that are never converted
	PreserveKeys []string `json:"preserve_keys" yaml:"preserve_keys"`
	// MaxBodyBytes bounds buffered request and response bodies; 0 means no limit
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
	// Debug enables debug logging
	Debug bool `json:"debug" yaml:"debug"`
	// Bypass is an optional per-request opt-out predicate
	Bypass BypassFunc `json:"-" yaml:"-"`
	// ErrorHandler renders rewrite failures in Middleware
	ErrorHandler ErrorHandlerFunc `json:"-" yaml:"-"`
}

// Logger interface for logging (can be implemented by any logger)
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

// NoOpLogger is a no-operation logger
type NoOpLogger struct{}

func (n NoOpLogger) Debug(args ...interface{}) {}
func (n NoOpLogger) Info(args ...interface{})  {}
func (n NoOpLogger) Warn(args ...interface{})  {}
func (n NoOpLogger) Error(args ...interface{}) {}

// Rewriter rewrites JSON body keys around an inner handler. It holds no
// per-request state and is safe for concurrent use once configured.
type Rewriter struct {
	config    *Config
	skipPaths map[string]bool
	toSnake   casing.KeyFunc
	toCamel   casing.KeyFunc
	logger    Logger
	metrics   *Metrics
	counters  counters
}

// NewRewriter creates a new Rewriter with the given configuration
func NewRewriter(config *Config) *Rewriter {
	if config == nil {
		config = &Config{}
	}

	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return &Rewriter{
		config:    config,
		skipPaths: skipPaths,
		toSnake:   casing.Except(casing.ToSnake, config.PreserveKeys...),
		toCamel:   casing.Except(casing.ToCamel, config.PreserveKeys...),
		logger:    NoOpLogger{},
	}
}

// SetLogger sets a custom logger
func (rw *Rewriter) SetLogger(logger Logger) {
	if logger == nil {
		logger = NoOpLogger{}
	}
	rw.logger = logger
}

// SetMetrics attaches Prometheus metrics
func (rw *Rewriter) SetMetrics(metrics *Metrics) {
	rw.metrics = metrics
}

// ShouldBypass reports whether r opts out of rewriting, either through
// SkipPaths or the configured Bypass predicate.
func (rw *Rewriter) ShouldBypass(r *http.Request) bool {
	if rw.skipPaths[r.URL.Path] {
		return true
	}
	return rw.config.Bypass != nil && rw.config.Bypass(r)
}

// IsJSON reports whether a Content-Type value names the JSON media type
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), jsonMediaType)
}

// Wrap returns a Handler that rewrites the request body to snake_case before
// calling next and the response body to camelCase afterwards. Requests with
// KeepCase set pass through untouched in both directions.
func (rw *Rewriter) Wrap(next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, req *Request) (*Response, error) {
		if req.KeepCase {
			rw.recordBypass(ctx)
			return next.Handle(ctx, req)
		}

		if err := rw.RewriteRequest(ctx, req); err != nil {
			return nil, err
		}

		resp, err := next.Handle(ctx, req)
		if err != nil {
			return nil, err
		}

		if err := rw.RewriteResponse(ctx, resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
}

// RewriteRequest converts the keys of a JSON request body to snake_case and
// updates the length metadata. Non-JSON and empty bodies are left alone.
func (rw *Rewriter) RewriteRequest(ctx context.Context, req *Request) error {
	if req == nil || !IsJSON(req.Header.Get("Content-Type")) || len(bytes.TrimSpace(req.Body)) == 0 {
		rw.record(ctx, Incoming, outcomePassthrough, 0)
		return nil
	}

	body, err := rw.rewriteChunk(req.Body, rw.toSnake, Incoming, 0)
	if err != nil {
		rw.fail(ctx, err)
		return err
	}

	req.Body = body
	req.ContentLength = int64(len(body))
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))

	rw.record(ctx, Incoming, outcomeRewritten, len(body))
	return nil
}

// RewriteResponse converts the keys of every chunk of a JSON response body to
// camelCase and sets Content-Length to the new total. Whitespace-only chunks
// are dropped. On error the response is left unmodified.
func (rw *Rewriter) RewriteResponse(ctx context.Context, resp *Response) error {
	if resp == nil || !IsJSON(resp.Header.Get("Content-Type")) {
		rw.record(ctx, Outgoing, outcomePassthrough, 0)
		return nil
	}

	chunks := make([][]byte, 0, len(resp.Body))
	total := 0
	for i, chunk := range resp.Body {
		if len(bytes.TrimSpace(chunk)) == 0 {
			continue
		}

		out, err := rw.rewriteChunk(chunk, rw.toCamel, Outgoing, i)
		if err != nil {
			rw.fail(ctx, err)
			return err
		}
		chunks = append(chunks, out)
		total += len(out)
	}

	resp.Body = chunks
	resp.Header.Set("Content-Length", strconv.Itoa(total))

	rw.record(ctx, Outgoing, outcomeRewritten, total)
	return nil
}

func (rw *Rewriter) rewriteChunk(data []byte, fn casing.KeyFunc, dir Direction, chunk int) ([]byte, error) {
	v, err := casing.Decode(data)
	if err != nil {
		return nil, &DecodeError{Direction: dir, Chunk: chunk, Err: err}
	}

	out, err := casing.Encode(casing.RewriteKeys(v, fn))
	if err != nil {
		return nil, &EncodeError{Direction: dir, Err: err}
	}
	return out, nil
}

// Builder helps build Rewriter configurations
type Builder struct {
	config *Config
	logger Logger
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		config: &Config{},
	}
}

// SkipPaths sets paths that are never rewritten
func (b *Builder) SkipPaths(paths ...string) *Builder {
	b.config.SkipPaths = paths
	return b
}

// PreserveKeys sets object keys that are never converted
func (b *Builder) PreserveKeys(keys ...string) *Builder {
	b.config.PreserveKeys = keys
	return b
}

// MaxBodyBytes bounds buffered bodies
func (b *Builder) MaxBodyBytes(n int64) *Builder {
	b.config.MaxBodyBytes = n
	return b
}

// Bypass adds an opt-out predicate. Multiple predicates are OR-ed.
func (b *Builder) Bypass(fn BypassFunc) *Builder {
	if fn == nil {
		return b
	}
	if prev := b.config.Bypass; prev != nil {
		b.config.Bypass = func(r *http.Request) bool {
			return prev(r) || fn(r)
		}
		return b
	}
	b.config.Bypass = fn
	return b
}

// ErrorHandler sets the function that renders rewrite failures
func (b *Builder) ErrorHandler(fn ErrorHandlerFunc) *Builder {
	b.config.ErrorHandler = fn
	return b
}

// Logger sets the logger of the built Rewriter
func (b *Builder) Logger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// Debug enables debug logging
func (b *Builder) Debug(debug bool) *Builder {
	b.config.Debug = debug
	return b
}

// Build creates the Rewriter
func (b *Builder) Build() *Rewriter {
	rw := NewRewriter(b.config)
	if b.logger != nil {
		rw.SetLogger(b.logger)
	}
	return rw
}

// Validate validates the rewriter configuration
func (rw *Rewriter) Validate() error {
	if rw.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return ValidateConfig(rw.config)
}

// Stats provides statistics about rewrite operations
type Stats struct {
	RequestsRewritten  int64
	ResponsesRewritten int64
	PassedThrough      int64
	Bypassed           int64
	Failed             int64
	LastUpdated        time.Time
}

type counters struct {
	requestsRewritten  atomic.Int64
	responsesRewritten atomic.Int64
	passedThrough      atomic.Int64
	bypassed           atomic.Int64
	failed             atomic.Int64
	lastUpdated        atomic.Int64
}

// GetStats returns a snapshot of the rewrite counters
func (rw *Rewriter) GetStats() *Stats {
	stats := &Stats{
		RequestsRewritten:  rw.counters.requestsRewritten.Load(),
		ResponsesRewritten: rw.counters.responsesRewritten.Load(),
		PassedThrough:      rw.counters.passedThrough.Load(),
		Bypassed:           rw.counters.bypassed.Load(),
		Failed:             rw.counters.failed.Load(),
	}
	if ts := rw.counters.lastUpdated.Load(); ts != 0 {
		stats.LastUpdated = time.Unix(0, ts)
	}
	return stats
}
