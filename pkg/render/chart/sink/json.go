package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/sky"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*Document)

// Document is the JSON sink's output. It round-trips through [ParseJSON] so
// a stored scene can be drawn again in another format.
type Document struct {
	Scene       sky.Scene        `json:"scene"`
	Style       string           `json:"style,omitempty"`
	Observer    *ObserverInfo    `json:"observer,omitempty"`
	Diagnostics *sky.Diagnostics `json:"diagnostics,omitempty"`
}

// ObserverInfo records where and when the chart was computed.
type ObserverInfo struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Elevation float64   `json:"elevation,omitempty"`
	Instant   time.Time `json:"instant"`
	Label     string    `json:"label,omitempty"`
}

// WithJSONStyle records the style name for later re-rendering.
func WithJSONStyle(name string) JSONOption { return func(d *Document) { d.Style = name } }

// WithJSONObserver records the observer.
func WithJSONObserver(obs sky.Observer, label string) JSONOption {
	return func(d *Document) {
		d.Observer = &ObserverInfo{
			Latitude:  obs.Latitude,
			Longitude: obs.Longitude,
			Elevation: obs.Elevation,
			Instant:   obs.Instant.UTC(),
			Label:     label,
		}
	}
}

// WithJSONDiagnostics records the render diagnostics.
func WithJSONDiagnostics(diag sky.Diagnostics) JSONOption {
	return func(d *Document) { d.Diagnostics = &diag }
}

// RenderJSON exports the scene as indented JSON.
func RenderJSON(s sky.Scene, opts ...JSONOption) ([]byte, error) {
	doc := Document{Scene: s}
	for _, opt := range opts {
		opt(&doc)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode scene")
	}
	return append(data, '\n'), nil
}

// ParseJSON reads a document written by RenderJSON.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if doc.Scene.Width <= 0 || doc.Scene.Height <= 0 || doc.Scene.Boundary.Radius <= 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "scene document has no size or boundary")
	}
	return doc, nil
}
