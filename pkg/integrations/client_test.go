package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/starchart/pkg/cache"
	starerrors "github.com/matzehuels/starchart/pkg/errors"
)

var fastBackoff = cache.Backoff{Attempts: 3, Delay: time.Millisecond, Max: 5 * time.Millisecond}

// upstream serves handler and returns a client pointed at it with a
// file-backed cache.
func upstream(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, "test", time.Hour, map[string]string{"User-Agent": UserAgent()}).
		WithHTTPClient(srv.Client()).
		WithBackoff(fastBackoff)
	return client, srv.URL
}

func TestClientGetDecodesJSON(t *testing.T) {
	var agent string
	client, base := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[{"lat":"36.85","lon":"-75.98"}]`)
	})

	var got []struct{ Lat, Lon string }
	if err := client.Get(context.Background(), base+"/search", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0].Lat != "36.85" {
		t.Errorf("decoded %+v", got)
	}
	if !strings.HasPrefix(agent, "starchart/") {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestClientGetBadJSON(t *testing.T) {
	client, base := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>maintenance</html>")
	})
	var v map[string]any
	err := client.Get(context.Background(), base, &v)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get error = %v, want ErrNetwork", err)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryAt   string
		want      error
		retryable bool
		code      starerrors.Code
	}{
		{status: 404, want: ErrNotFound, code: starerrors.ErrCodeNotFound},
		{status: 400, want: ErrNetwork, code: starerrors.ErrCodeNetwork},
		{status: 403, want: ErrNetwork, code: starerrors.ErrCodeNetwork},
		{status: 500, want: ErrNetwork, retryable: true, code: starerrors.ErrCodeNetwork},
		{status: 503, want: ErrNetwork, retryable: true, code: starerrors.ErrCodeNetwork},
		{status: 429, retryAt: "30", retryable: true, code: starerrors.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, base := upstream(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAt != "" {
					w.Header().Set("Retry-After", tt.retryAt)
				}
				w.WriteHeader(tt.status)
			})

			_, err := client.GetBytes(context.Background(), base)
			if err == nil {
				t.Fatal("GetBytes succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if cache.IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", cache.IsRetryable(err), tt.retryable)
			}
			if got := starerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestClientRateLimitCarriesRetryAfter(t *testing.T) {
	client, base := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetBytes(context.Background(), base)
	var rl *starerrors.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter != 30 {
		t.Errorf("error = %v, want RateLimitedError{RetryAfter: 30}", err)
	}
}

func TestClientTransportError(t *testing.T) {
	client, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {})
	client.WithHTTPClient(&http.Client{Timeout: time.Second})

	_, err := client.GetBytes(context.Background(), "http://unreachable.invalid/hip_main.dat")
	if !errors.Is(err, ErrNetwork) || !cache.IsRetryable(err) {
		t.Errorf("error = %v, want retryable ErrNetwork", err)
	}
}

func TestClientCached(t *testing.T) {
	type place struct{ Name string }
	client, _ := upstream(t, func(http.ResponseWriter, *http.Request) {})
	ctx := context.Background()

	calls := 0
	lookup := func(refresh bool) (place, error) {
		var p place
		err := client.Cached(ctx, "springfield", refresh, &p, func() error {
			calls++
			p = place{Name: fmt.Sprintf("Springfield #%d", calls)}
			return nil
		})
		return p, err
	}

	first, err := lookup(false)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := lookup(false)
	if calls != 1 || second != first {
		t.Errorf("second lookup = %+v after %d fetches, want cached %+v", second, calls, first)
	}

	third, _ := lookup(true)
	if calls != 2 || third.Name != "Springfield #2" {
		t.Errorf("refresh = %+v after %d fetches", third, calls)
	}
	if again, _ := lookup(false); again != third {
		t.Errorf("refresh did not update the cache: %+v", again)
	}
}

func TestClientCachedDoesNotRetryPermanentErrors(t *testing.T) {
	client, _ := upstream(t, func(http.ResponseWriter, *http.Request) {})

	calls := 0
	var v string
	err := client.Cached(context.Background(), "atlantis", false, &v, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || calls != 1 {
		t.Errorf("err = %v after %d calls, want ErrNotFound after 1", err, calls)
	}
}

func TestClientCachedBytes(t *testing.T) {
	var hits atomic.Int32
	client, base := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "H|1|...|")
	})
	ctx := context.Background()
	fetch := func() ([]byte, error) { return client.GetBytes(ctx, base) }

	for i := 0; i < 3; i++ {
		data, err := client.CachedBytes(ctx, "hip_main.dat", false, fetch)
		if err != nil {
			t.Fatalf("CachedBytes: %v", err)
		}
		if string(data) != "H|1|...|" {
			t.Errorf("CachedBytes = %q", data)
		}
	}
	if n := hits.Load(); n != 3 {
		t.Errorf("requests = %d, want 2 failures then 1 success", n)
	}

	if _, err := client.CachedBytes(ctx, "hip_main.dat", true, fetch); err != nil {
		t.Fatalf("CachedBytes(refresh): %v", err)
	}
	if n := hits.Load(); n != 4 {
		t.Errorf("requests after refresh = %d, want 4", n)
	}
}

func TestClientKeyerScopesEntries(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	a := NewClient(c, "nominatim", time.Hour, nil).WithKeyer(cache.NewScopedKeyer(nil, "a"))
	b := NewClient(c, "nominatim", time.Hour, nil).WithKeyer(cache.NewScopedKeyer(nil, "b"))
	ctx := context.Background()

	get := func(cl *Client, val string) string {
		var v string
		_ = cl.Cached(ctx, "paris", false, &v, func() error { v = val; return nil })
		return v
	}
	get(a, "from a")
	if got := get(b, "from b"); got != "from b" {
		t.Errorf("namespace b read %q", got)
	}
	if got := get(a, "refetched"); got != "from a" {
		t.Errorf("namespace a read %q", got)
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		path  string
		query url.Values
		want  string
	}{
		{"no query", "https://cdn.example.org", "hip_main.dat", nil, "https://cdn.example.org/hip_main.dat"},
		{"slashes", "https://cdn.example.org/", "/data/hip.dat", nil, "https://cdn.example.org/data/hip.dat"},
		{"query", "http://localhost:8080", "search", url.Values{"q": {"a=1&b 2"}}, "http://localhost:8080/search?q=a%3D1%26b+2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Endpoint(tt.base, tt.path, tt.query); got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}
