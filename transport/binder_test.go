package transport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinderBindAndClear(t *testing.T) {
	b := NewBinder()

	_, ok := b.Token()
	assert.False(t, ok)

	b.Bind("t1")
	tok, ok := b.Token()
	require.True(t, ok)
	assert.Equal(t, "t1", tok)
	assert.Equal(t, "Bearer t1", b.Header().Get(AuthorizationHeader))

	b.Bind("t2")
	tok, _ = b.Token()
	assert.Equal(t, "t2", tok, "last bind wins")

	b.Clear()
	_, ok = b.Token()
	assert.False(t, ok)
	assert.Empty(t, b.Header().Get(AuthorizationHeader))
}

func TestBinderBindEmptyClears(t *testing.T) {
	b := NewBinder()
	b.Bind("t1")
	b.Bind("")

	_, ok := b.Token()
	assert.False(t, ok)
}

func TestBinderHeaderIsACopy(t *testing.T) {
	b := NewBinder()
	b.Bind("t1")

	h := b.Header()
	h.Set(AuthorizationHeader, "Bearer stolen")

	tok, _ := b.Token()
	assert.Equal(t, "t1", tok)
}

func TestBinderClearKeepsOtherDefaults(t *testing.T) {
	b := NewBinder()
	b.SetDefault("Accept", "application/json")
	b.Bind("t1")
	b.Clear()

	assert.Equal(t, "application/json", b.Header().Get("Accept"))
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"", "", false},
		{"Basic abc", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestClientInjectsCurrentCredential(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get(AuthorizationHeader))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b := NewBinder()
	client := b.Client(srv.Client())

	do := func() {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	do()
	b.Bind("t1")
	do()
	b.Clear()
	do()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "Bearer t1", ""}, seen)
}

func TestRoundTripperDoesNotOverrideExplicitHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(AuthorizationHeader)
	}))
	defer srv.Close()

	b := NewBinder()
	b.Bind("bound")

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(AuthorizationHeader, "Bearer explicit")

	resp, err := b.Client(nil).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit", got)
	assert.Equal(t, "Bearer explicit", req.Header.Get(AuthorizationHeader), "original request must not be mutated")
}

func TestBinderConcurrentAccess(t *testing.T) {
	b := NewBinder()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				b.Bind("t")
				b.Clear()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h := make(http.Header)
				b.Apply(h)
				_, _ = b.Token()
			}
		}()
	}
	wg.Wait()
}
