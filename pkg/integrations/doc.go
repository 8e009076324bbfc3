// Package integrations provides HTTP clients for the upstream services
// starchart depends on.
//
// # Overview
//
// Each service has its own subpackage:
//
//   - [nominatim]: OpenStreetMap geocoding of place names
//
// Star catalogs are downloaded through the shared [Client] as well (see the
// catalog package), so every remote fetch shares one cache, one retry policy
// and one user agent.
//
// # Shared Infrastructure
//
// [Client] wraps net/http with:
//   - response caching through any [cache.Cache] backend
//   - retry with exponential backoff for 5xx and 429 responses
//   - default headers such as the User-Agent
//
// [nominatim]: github.com/matzehuels/starchart/pkg/integrations/nominatim
// [cache.Cache]: github.com/matzehuels/starchart/pkg/cache.Cache
package integrations
