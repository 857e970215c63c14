package httpcache

import (
	"bytes"
	"net/http"
	"strconv"
)

// Response is the stored form of an upstream response.
type Response struct {
	StatusCode int         `json:"status"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body,omitempty"`
}

// Cacheable reports whether the response should be stored.
func (r *Response) Cacheable() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// uncachedHeaders are never replayed from the cache.
var uncachedHeaders = []string{
	"Set-Cookie",
	"Connection",
	"Keep-Alive",
	"Transfer-Encoding",
	"Upgrade",
	"Proxy-Authenticate",
	"Trailer",
	"Content-Length",
	CacheStatusHeader,
}

// stored returns a copy safe to share between clients.
func (r *Response) stored() *Response {
	h := r.Header.Clone()
	for _, name := range uncachedHeaders {
		h.Del(name)
	}
	return &Response{StatusCode: r.StatusCode, Header: h, Body: r.Body}
}

// writeTo replays the response, tagging it with the cache status.
func (r *Response) writeTo(w http.ResponseWriter, status string) {
	h := w.Header()
	for k, v := range r.Header {
		h[k] = append([]string(nil), v...)
	}
	h.Set(CacheStatusHeader, status)
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(r.StatusCode)
	_, _ = w.Write(r.Body)
}

// recorder buffers a handler's response.
type recorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (rec *recorder) Header() http.Header { return rec.header }

func (rec *recorder) WriteHeader(status int) {
	if rec.wroteHeader {
		return
	}
	rec.status = status
	rec.wroteHeader = true
}

func (rec *recorder) Write(p []byte) (int, error) {
	rec.WriteHeader(http.StatusOK)
	return rec.body.Write(p)
}

func (rec *recorder) response() *Response {
	status := rec.status
	if !rec.wroteHeader {
		status = http.StatusOK
	}
	return &Response{
		StatusCode: status,
		Header:     rec.header.Clone(),
		Body:       rec.body.Bytes(),
	}
}
