package testutils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// Request builds a request against an http.Handler. The read API has no request bodies, so only headers and
// query parameters can be added.
type Request struct {
	method  string
	route   string
	headers map[string]string
	query   url.Values
}

func NewRequest(method, route string) *Request {
	return &Request{
		method:  method,
		route:   route,
		headers: make(map[string]string),
		query:   url.Values{},
	}
}

func (r *Request) WithHeader(key, value string) *Request {
	r.headers[key] = value
	return r
}

// WithQuery adds an escaped query parameter to the route
func (r *Request) WithQuery(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

func (r *Request) target() string {
	if len(r.query) == 0 {
		return r.route
	}
	sep := "?"
	if strings.Contains(r.route, "?") {
		sep = "&"
	}
	return r.route + sep + r.query.Encode()
}

func (r *Request) RunOnHandler(h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.target(), nil)
	for k, v := range r.headers {
		req.Header.Add(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
