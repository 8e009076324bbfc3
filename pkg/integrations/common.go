package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/starchart/pkg/buildinfo"
	"github.com/matzehuels/starchart/pkg/errors"
)

const httpTimeout = 30 * time.Second

// Sentinels for upstream failures. They carry codes so the server and CLI
// classify them without knowing about this package.
var (
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "upstream resource not found")
	ErrNetwork  = errors.New(errors.ErrCodeNetwork, "upstream request failed")
)

// NewHTTPClient returns the client used for all upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// UserAgent identifies starchart to upstream services. Nominatim's usage
// policy rejects requests without one.
func UserAgent() string {
	return "starchart/" + buildinfo.Version + " (+https://github.com/matzehuels/starchart)"
}

// Endpoint joins base and path and appends the encoded query.
func Endpoint(base, path string, query url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
