package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/pipeline"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// requestID reuses a well-formed incoming id or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFrom returns the id assigned to the request, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", RequestIDFrom(r.Context()))
	})
}

// maxBody bounds POST bodies.
const maxBody = 1 << 20

// requestOptions merges the request onto the server defaults. POST reads a
// JSON body, GET reads query parameters.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Figures = append([]pipeline.FigureSource(nil), s.defaults.Figures...)

	if r.Method == http.MethodPost {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
		}
	} else if err := applyQuery(&opts, r); err != nil {
		return opts, err
	}
	return opts, checkSources(opts)
}

// checkSources rejects anything that would read the server's filesystem.
func checkSources(opts pipeline.Options) error {
	switch opts.Catalog {
	case "", catalog.FormatBuiltin, pipeline.CatalogHipparcos:
	default:
		return errors.New(errors.ErrCodeInvalidCatalog, "catalog must be %q or %q", catalog.FormatBuiltin, pipeline.CatalogHipparcos)
	}
	for _, f := range opts.Figures {
		if !constellation.IsBuiltin(f.Source) {
			return errors.New(errors.ErrCodeInvalidFigures, "unknown figure set %q (must be one of: %s)", f.Source, strings.Join(constellation.BuiltinSets(), ", "))
		}
	}
	return nil
}

func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	var err error
	num := func(key string, dst *float64) {
		if err != nil || !q.Has(key) {
			return
		}
		v, perr := strconv.ParseFloat(q.Get(key), 64)
		if perr != nil {
			err = errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", key, q.Get(key))
			return
		}
		*dst = v
	}
	integer := func(key string, dst *int) {
		if err != nil || !q.Has(key) {
			return
		}
		v, perr := strconv.Atoi(q.Get(key))
		if perr != nil {
			err = errors.New(errors.ErrCodeInvalidInput, "%s: %q is not an integer", key, q.Get(key))
			return
		}
		*dst = v
	}
	str := func(key string, dst *string) {
		if q.Has(key) {
			*dst = q.Get(key)
		}
	}

	str("place", &opts.Place)
	if q.Has("lat") || q.Has("lon") {
		if !q.Has("lat") || !q.Has("lon") {
			return errors.New(errors.ErrCodeInvalidCoordinates, "lat and lon must be given together")
		}
		num("lat", &opts.Latitude)
		num("lon", &opts.Longitude)
		opts.HasCoordinates = true
	}
	num("elevation", &opts.Elevation)
	str("when", &opts.When)
	str("tz", &opts.TZ)
	str("label", &opts.Label)
	str("catalog", &opts.Catalog)
	if q.Has("mag") {
		num("mag", &opts.MagnitudeLimit)
		opts.HasMagnitudeLimit = true
	}
	num("marker_size", &opts.MaxMarkerSize)
	num("fov", &opts.FieldOfView)
	if q.Has("size") {
		integer("size", &opts.Width)
		opts.Height = opts.Width
	}
	integer("width", &opts.Width)
	integer("height", &opts.Height)
	str("background", &opts.Background)
	str("marker_color", &opts.MarkerColor)
	str("style", &opts.Style)
	num("scale", &opts.Scale)
	num("min_radius", &opts.MinMarkerRadius)
	if q.Has("no_title") {
		opts.NoTitle = q.Get("no_title") != "false" && q.Get("no_title") != "0"
	}
	if q.Has("figures") {
		opts.Figures = nil
		for _, name := range strings.Split(q.Get("figures"), ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Figures = append(opts.Figures, pipeline.FigureSource{Source: name})
			}
		}
	}
	return err
}
