// Package cache provides byte caches for HTTP responses, parsed catalogs and
// rendered chart artifacts.
//
// Every backend implements [Cache]. [FileCache] serves the CLI, [RedisCache]
// and [MongoCache] serve the HTTP service, and [NullCache] disables caching.
// Keys are built by a [Keyer] so that all backends agree on naming:
//
//	c, _ := cache.NewFileCache(dir)
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: "png", Style: "night"})
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	HTTPTTL     = 7 * 24 * time.Hour
	CatalogTTL  = 30 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	CatalogKey(source string, opts CatalogKeyOpts) string
	SceneKey(opts SceneKeyOpts) string
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// CatalogKeyOpts identifies a parsed catalog.
type CatalogKeyOpts struct {
	Format  string `json:"format"`
	Version string `json:"version,omitempty"` // file size+mtime or ETag
}

// SceneKeyOpts holds every input that changes a chart scene.
type SceneKeyOpts struct {
	Latitude       float64   `json:"lat"`
	Longitude      float64   `json:"lon"`
	Elevation      float64   `json:"elev"`
	Instant        time.Time `json:"instant"`
	Label          string    `json:"label"`
	Display        string    `json:"display"`
	MagnitudeLimit float64   `json:"mag"`
	MaxMarkerSize  float64   `json:"size"`
	FieldOfView    float64   `json:"fov"`
	Width          int       `json:"w"`
	Height         int       `json:"h"`
	CatalogHash    string    `json:"catalog"`
	FiguresHash    string    `json:"figures"`
	Style          string    `json:"style"`
}

// ArtifactKeyOpts identifies one rendered output of a scene.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style"`
}

// DefaultKeyer produces prefix:hash keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey keys a cached HTTP response.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// CatalogKey keys a parsed catalog by its source and version.
func (DefaultKeyer) CatalogKey(source string, opts CatalogKeyOpts) string {
	return hashKey("catalog", source, opts)
}

// SceneKey keys an assembled scene.
func (DefaultKeyer) SceneKey(opts SceneKeyOpts) string {
	return hashKey("scene", opts)
}

// ArtifactKey keys a rendered artifact of the scene with the given hash.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
