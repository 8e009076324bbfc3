package catalog

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/starchart/pkg/errors"
)

// Field positions in hip_main.dat (zero based, '|' separated).
const (
	hipFieldID    = 1
	hipFieldVmag  = 5
	hipFieldRA    = 8
	hipFieldDec   = 9
	hipMinFields  = hipFieldDec + 1
	hipMaxLineLen = 1 << 16
)

func parseHipparcos(r io.Reader) ([]Star, error) {
	var stars []Star
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), hipMaxLineLen)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		star, ok, err := parseHipparcosRow(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "hipparcos line %d", line)
		}
		if ok {
			stars = append(stars, star)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read hipparcos catalog")
	}
	return stars, nil
}

// parseHipparcosRow returns ok=false for rows without a position.
func parseHipparcosRow(text string) (Star, bool, error) {
	fields := strings.Split(text, "|")
	if len(fields) < hipMinFields {
		return Star{}, false, errors.New(errors.ErrCodeInvalidCatalog, "expected at least %d fields, got %d", hipMinFields, len(fields))
	}

	ra := strings.TrimSpace(fields[hipFieldRA])
	dec := strings.TrimSpace(fields[hipFieldDec])
	if ra == "" || dec == "" {
		return Star{}, false, nil
	}

	var s Star
	var err error
	if s.HIP, err = strconv.Atoi(strings.TrimSpace(fields[hipFieldID])); err != nil {
		return Star{}, false, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "bad HIP number")
	}
	if s.RA, err = strconv.ParseFloat(ra, 64); err != nil {
		return Star{}, false, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "bad RA for HIP %d", s.HIP)
	}
	if s.Dec, err = strconv.ParseFloat(dec, 64); err != nil {
		return Star{}, false, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "bad Dec for HIP %d", s.HIP)
	}

	s.Mag = math.NaN()
	if v := strings.TrimSpace(fields[hipFieldVmag]); v != "" {
		if s.Mag, err = strconv.ParseFloat(v, 64); err != nil {
			return Star{}, false, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "bad Vmag for HIP %d", s.HIP)
		}
	}
	return s, true, nil
}
