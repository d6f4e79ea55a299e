package camelsnake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bhatti/camelsnake/casing"
)

// Middleware wraps next so JSON request bodies reach it in snake_case and
// JSON response bodies leave it in camelCase. It has the func(http.Handler)
// http.Handler shape expected by chi and most routers.
func (rw *Rewriter) Middleware(next http.Handler) http.Handler {
	onError := rw.config.ErrorHandler
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return rw.middleware(next, onError)
}

func (rw *Rewriter) middleware(next http.Handler, onError ErrorHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if rw.ShouldBypass(r) {
			rw.recordBypass(ctx)
			next.ServeHTTP(w, r)
			return
		}

		if err := rw.rewriteHTTPRequest(r); err != nil {
			rw.renderError(w, r, err, onError)
			return
		}

		rec := &rewriteWriter{
			ResponseWriter: w,
			rw:             rw,
			method:         r.Method,
		}
		next.ServeHTTP(rec, r)

		if err := rec.finish(r); err != nil {
			rw.renderError(w, r, err, onError)
		}
	})
}

// rewriteHTTPRequest replaces the body, ContentLength and GetBody of r
// together so they always agree.
func (rw *Rewriter) rewriteHTTPRequest(r *http.Request) error {
	ctx := r.Context()

	if !IsJSON(r.Header.Get("Content-Type")) || r.Body == nil || r.Body == http.NoBody {
		rw.record(ctx, Incoming, outcomePassthrough, 0)
		return nil
	}

	body, err := rw.readBody(r.Body)
	r.Body.Close()
	if err != nil {
		rw.fail(ctx, err)
		return err
	}

	env := &Request{
		Header:        r.Header,
		Body:          body,
		ContentLength: int64(len(body)),
	}
	if err := rw.RewriteRequest(ctx, env); err != nil {
		return err
	}

	rewritten := env.Body
	r.Body = io.NopCloser(bytes.NewReader(rewritten))
	r.ContentLength = env.ContentLength
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(rewritten)), nil
	}
	return nil
}

func (rw *Rewriter) readBody(body io.Reader) ([]byte, error) {
	limit := rw.config.MaxBodyBytes
	if limit <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, &DecodeError{Direction: Incoming, Err: fmt.Errorf("read body: %w", err)}
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, &DecodeError{Direction: Incoming, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > limit {
		return nil, &DecodeError{Direction: Incoming, Err: fmt.Errorf("%w: request body exceeds %d bytes", ErrBodyTooLarge, limit)}
	}
	return data, nil
}

func (rw *Rewriter) renderError(w http.ResponseWriter, r *http.Request, err error, onError ErrorHandlerFunc) {
	// Drop framing left behind by the inner handler before rendering
	w.Header().Del("Content-Length")
	onError(w, r, err)
}

// DefaultErrorHandler writes a JSON error document. Incoming decode failures
// get 400, oversized requests 413 and everything else 500. A 500 carries
// only the status text; the detail goes to the logger.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)

	body, encErr := casing.Encode(casing.NewObject(
		casing.Member{Key: "error", Value: casing.String(http.StatusText(code))},
		casing.Member{Key: "message", Value: casing.String(clientMessage(code, err))},
	))
	if encErr != nil {
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(body)
}

func clientMessage(code int, err error) string {
	if code >= http.StatusInternalServerError {
		return http.StatusText(code)
	}
	return err.Error()
}

// StatusCode maps a rewrite error to an HTTP status code
func StatusCode(err error) int {
	dir, ok := DirectionOf(err)
	switch {
	case !ok || dir == Outgoing:
		return http.StatusInternalServerError
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// rewriteWriter buffers JSON responses so they can be rewritten once the
// inner handler returns. Other responses stream straight through.
type rewriteWriter struct {
	http.ResponseWriter
	rw     *Rewriter
	method string

	status      int
	wroteHeader bool
	buffering   bool
	buf         bytes.Buffer
	err         error
}

func (w *rewriteWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		w.ResponseWriter.WriteHeader(code)
		return
	}

	w.wroteHeader = true
	w.status = code
	w.buffering = bodyAllowed(w.method, code) && IsJSON(w.Header().Get("Content-Type"))
	if !w.buffering {
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *rewriteWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.buffering {
		return w.ResponseWriter.Write(p)
	}
	if w.err != nil {
		return 0, w.err
	}

	if limit := w.rw.config.MaxBodyBytes; limit > 0 && int64(w.buf.Len()+len(p)) > limit {
		w.err = &DecodeError{
			Direction: Outgoing,
			Err:       fmt.Errorf("%w: response body exceeds %d bytes", ErrBodyTooLarge, limit),
		}
		return 0, w.err
	}
	return w.buf.Write(p)
}

// Flush forwards to the underlying writer unless the response is buffered
func (w *rewriteWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.buffering {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *rewriteWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// finish rewrites and writes a buffered response. Nothing reaches the client
// when it returns an error.
func (w *rewriteWriter) finish(r *http.Request) error {
	if !w.buffering {
		w.rw.record(r.Context(), Outgoing, outcomePassthrough, 0)
		return nil
	}
	if w.err != nil {
		w.rw.fail(r.Context(), w.err)
		return w.err
	}

	resp := &Response{
		StatusCode: w.status,
		Header:     w.Header(),
		Body:       [][]byte{w.buf.Bytes()},
	}
	if err := w.rw.RewriteResponse(r.Context(), resp); err != nil {
		return err
	}

	w.ResponseWriter.WriteHeader(resp.StatusCode)
	for _, chunk := range resp.Body {
		if _, err := w.ResponseWriter.Write(chunk); err != nil {
			w.rw.logger.Debug("Client write failed:", err)
			return nil
		}
	}
	return nil
}

func bodyAllowed(method string, status int) bool {
	if method == http.MethodHead {
		return false
	}
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
