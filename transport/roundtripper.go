package transport

import (
	"net/http"
)

// RoundTripper injects the binder's defaults into each outbound request.
type RoundTripper struct {
	Binder *Binder
	Base   http.RoundTripper
}

// RoundTrip clones req, applies defaults, and delegates to Base.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if rt.Binder == nil {
		return base.RoundTrip(req)
	}

	out := req.Clone(req.Context())
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	rt.Binder.Apply(out.Header)
	return base.RoundTrip(out)
}

// Client returns a copy of base (or a zero client) whose transport injects b's defaults.
func (b *Binder) Client(base *http.Client) *http.Client {
	var c http.Client
	if base != nil {
		c = *base
	}
	c.Transport = &RoundTripper{Binder: b, Base: c.Transport}
	return &c
}
