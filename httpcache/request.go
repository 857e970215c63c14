package httpcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

var errBodyTooLarge = errors.New("httpcache: request body exceeds limit")

// AbsoluteURL rebuilds the URL a client requested: scheme, host without
// port, path and query.
func AbsoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// CanonicalBody strips formatting from a JSON body so that equivalent
// payloads key the same. Non-JSON bodies are returned unchanged.
func CanonicalBody(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return string(body)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(body)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(body)
	}
	return string(out)
}

// readBody reads up to limit bytes of the request body and puts everything
// back so the next handler sees the full body.
func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), r.Body), Closer: r.Body}
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > limit {
		return nil, errBodyTooLarge
	}
	return buf, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func isUnsafeMethod(method string) bool {
	for _, m := range UnsafeMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
