package transport

import (
	"net/http"
	"strings"
	"sync"
)

// AuthorizationHeader is the header the binder writes the bearer credential into.
const AuthorizationHeader = "Authorization"

const bearerPrefix = "Bearer "

// Binder owns the shared default request headers.
//
// A Binder is safe for concurrent use. Readers (outbound requests) take a read lock;
// Bind and Clear take the write lock.
type Binder struct {
	mu      sync.RWMutex
	headers http.Header
}

// NewBinder returns a binder with no credential bound.
func NewBinder() *Binder {
	return &Binder{headers: make(http.Header)}
}

// Bind makes token the credential for all subsequent outbound requests.
// An empty token clears the slot.
func (b *Binder) Bind(token string) {
	if token == "" {
		b.Clear()
		return
	}
	b.mu.Lock()
	b.headers.Set(AuthorizationHeader, bearerPrefix+token)
	b.mu.Unlock()
}

// Clear removes the bound credential. Other defaults are kept.
func (b *Binder) Clear() {
	b.mu.Lock()
	b.headers.Del(AuthorizationHeader)
	b.mu.Unlock()
}

// Token returns the currently bound token.
func (b *Binder) Token() (string, bool) {
	b.mu.RLock()
	value := b.headers.Get(AuthorizationHeader)
	b.mu.RUnlock()
	return bearerToken(value)
}

// SetDefault sets a non-credential default header such as Accept or User-Agent.
func (b *Binder) SetDefault(key, value string) {
	b.mu.Lock()
	b.headers.Set(key, value)
	b.mu.Unlock()
}

// Header returns a copy of the current defaults.
func (b *Binder) Header() http.Header {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.headers.Clone()
}

// Apply copies defaults into h for every key h does not already carry.
func (b *Binder) Apply(h http.Header) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for key, values := range b.headers {
		if _, set := h[key]; set {
			continue
		}
		h[key] = append([]string(nil), values...)
	}
}

func bearerToken(value string) (string, bool) {
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", false
	}

	token := value[len(bearerPrefix):]
	if token == "" {
		return "", false
	}

	return token, true
}
