// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package casing

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// Direction selects which way TranscodeJSON rewrites keys.
type Direction int

const (
	AppToWire Direction = iota
	WireToApp
)

// TranscodeJSON rewrites the keys of a JSON document. Anything that does not
// decode as JSON is returned unchanged.
func TranscodeJSON(c Codec, data []byte, dir Direction) []byte {
	if len(bytes.TrimSpace(data)) == 0 {
		return data
	}
	v, err := Decode(data)
	if err != nil {
		return data
	}
	switch dir {
	case AppToWire:
		v = c.ToWire(v)
	case WireToApp:
		v = c.ToApp(v)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return data
	}
	return out
}

// Transport rewrites JSON request bodies into the wire convention and JSON
// response bodies back into the application convention. Error bodies are
// rewritten too. Bodies that are not JSON pass through untouched.
type Transport struct {
	// Base is the underlying RoundTripper; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Codec is the convention pair; Default when nil.
	Codec Codec
}

// NewTransport wraps base with the given codec.
func NewTransport(base http.RoundTripper, c Codec) *Transport {
	return &Transport{Base: base, Codec: c}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) codec() Codec {
	if t.Codec != nil {
		return t.Codec
	}
	return Default
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req
	if req.Body != nil && req.Body != http.NoBody && isJSON(req.Header.Get("Content-Type")) {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = TranscodeJSON(t.codec(), body, AppToWire)

		out = req.Clone(req.Context())
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.ContentLength = int64(len(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil || resp.Body == nil || !isJSON(resp.Header.Get("Content-Type")) {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	body = TranscodeJSON(t.codec(), body, WireToApp)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return resp, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || (len(mt) > 5 && mt[len(mt)-5:] == "+json")
}
