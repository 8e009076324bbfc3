package catalog

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/starchart/pkg/errors"
)

var csvRequired = []string{"id", "ra_deg", "dec_deg", "mag"}

func parseCSV(r io.Reader) ([]Star, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read csv header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvRequired {
		if _, ok := cols[name]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "csv catalog missing column %q", name)
		}
	}
	nameCol, hasName := cols["name"]

	var stars []Star
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read csv catalog")
		}
		line, _ := cr.FieldPos(0)

		get := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		var s Star
		if s.HIP, err = strconv.Atoi(get("id")); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "csv line %d: bad id", line)
		}
		if s.RA, err = strconv.ParseFloat(get("ra_deg"), 64); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "csv line %d: bad ra_deg", line)
		}
		if s.Dec, err = strconv.ParseFloat(get("dec_deg"), 64); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "csv line %d: bad dec_deg", line)
		}
		s.Mag = math.NaN()
		if m := get("mag"); m != "" {
			if s.Mag, err = strconv.ParseFloat(m, 64); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "csv line %d: bad mag", line)
			}
		}
		if hasName && nameCol < len(rec) {
			s.Name = strings.TrimSpace(rec[nameCol])
		}
		stars = append(stars, s)
	}
	return stars, nil
}

// WriteCSV writes stars in the format parseCSV reads.
func WriteCSV(w io.Writer, stars []Star) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "ra_deg", "dec_deg", "mag", "name"}); err != nil {
		return err
	}
	for _, s := range stars {
		mag := ""
		if !math.IsNaN(s.Mag) {
			mag = strconv.FormatFloat(s.Mag, 'f', -1, 64)
		}
		rec := []string{
			strconv.Itoa(s.HIP),
			strconv.FormatFloat(s.RA, 'f', -1, 64),
			strconv.FormatFloat(s.Dec, 'f', -1, 64),
			mag,
			s.Name,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
