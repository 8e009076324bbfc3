package catalog

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/sky"
)

// Supported catalog formats.
const (
	FormatHipparcos = "hipparcos"
	FormatCSV       = "csv"
	FormatBuiltin   = "builtin"
)

// ValidFormats is the set of supported catalog formats.
var ValidFormats = map[string]bool{
	FormatHipparcos: true,
	FormatCSV:       true,
	FormatBuiltin:   true,
}

// Star is one catalog row. RA and Dec are J2000 degrees.
type Star struct {
	HIP  int     `json:"hip"`
	Name string  `json:"name,omitempty"`
	RA   float64 `json:"ra"`
	Dec  float64 `json:"dec"`
	Mag  float64 `json:"mag"`
}

// Catalog is a named, ordered list of stars.
type Catalog struct {
	Name  string
	Stars []Star
}

// Len returns the number of stars.
func (c *Catalog) Len() int { return len(c.Stars) }

// Entries converts the catalog for chart rendering, preserving order.
func (c *Catalog) Entries() []sky.CatalogEntry {
	out := make([]sky.CatalogEntry, len(c.Stars))
	for i, s := range c.Stars {
		out[i] = sky.CatalogEntry{ID: s.HIP, Dir: sky.FromRADec(s.RA, s.Dec), Magnitude: s.Mag}
	}
	return out
}

// Brightest returns up to n stars sorted by magnitude, brightest first.
// Stars with unknown magnitude are left out.
func (c *Catalog) Brightest(n int) []Star {
	stars := make([]Star, 0, len(c.Stars))
	for _, s := range c.Stars {
		if !math.IsNaN(s.Mag) {
			stars = append(stars, s)
		}
	}
	slices.SortStableFunc(stars, func(a, b Star) int {
		switch {
		case a.Mag < b.Mag:
			return -1
		case a.Mag > b.Mag:
			return 1
		}
		return 0
	})
	if n > 0 && len(stars) > n {
		stars = stars[:n]
	}
	return stars
}

// Find returns the first star with the given Hipparcos number.
func (c *Catalog) Find(hip int) (Star, bool) {
	for _, s := range c.Stars {
		if s.HIP == hip {
			return s, true
		}
	}
	return Star{}, false
}

// Parse reads a catalog in the given format. Gzip input is detected from
// its magic bytes, for any format.
func Parse(r io.Reader, format, name string) (*Catalog, error) {
	if format == FormatBuiltin {
		return Builtin(), nil
	}
	if !ValidFormats[format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown catalog format %q", format)
	}

	br, err := maybeGunzip(r)
	if err != nil {
		return nil, err
	}

	var stars []Star
	switch format {
	case FormatHipparcos:
		stars, err = parseHipparcos(br)
	case FormatCSV:
		stars, err = parseCSV(br)
	}
	if err != nil {
		return nil, err
	}
	return &Catalog{Name: name, Stars: stars}, nil
}

// Load opens path and parses it, inferring the format from the file name
// when format is empty.
func Load(path, format string) (*Catalog, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	if format == FormatBuiltin {
		return Builtin(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "open catalog %s", path)
	}
	defer f.Close()
	return Parse(f, format, filepath.Base(path))
}

// DetectFormat guesses a catalog format from a file name. Anything that is
// not a CSV is assumed to be Hipparcos; an empty path means the built-in
// table.
func DetectFormat(path string) string {
	if path == "" || path == FormatBuiltin {
		return FormatBuiltin
	}
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".gz")
	if strings.HasSuffix(name, ".csv") {
		return FormatCSV
	}
	return FormatHipparcos
}

func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read gzip catalog")
	}
	return zr, nil
}
