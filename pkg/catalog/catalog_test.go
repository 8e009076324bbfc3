package catalog

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/errors"
)

// hipRow builds a hip_main.dat style row with the given HIP, Vmag, RA and Dec.
func hipRow(hip, vmag, ra, dec string) string {
	fields := make([]string, 78)
	fields[0] = "H"
	fields[1] = hip
	fields[5] = vmag
	fields[8] = ra
	fields[9] = dec
	return strings.Join(fields, "|")
}

func TestParseHipparcos(t *testing.T) {
	data := strings.Join([]string{
		hipRow("   32349", " -1.44", "101.28715533", "-16.71611586"),
		hipRow("   99999", " 5.00", "", ""),
		"",
		hipRow("   27989", "", " 88.79293899", "  7.40706274"),
	}, "\n")

	c, err := Parse(strings.NewReader(data), FormatHipparcos, "hip")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	sirius := c.Stars[0]
	if sirius.HIP != 32349 || sirius.Mag != -1.44 || math.Abs(sirius.RA-101.28715533) > 1e-9 {
		t.Errorf("Stars[0] = %+v", sirius)
	}
	if c.Stars[1].HIP != 27989 || !math.IsNaN(c.Stars[1].Mag) {
		t.Errorf("Stars[1] = %+v, want HIP 27989 with NaN mag", c.Stars[1])
	}
}

func TestParseHipparcosErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"too few fields", "H|1|2", "line 1"},
		{"bad ra", hipRow("1", "2", "abc", "3"), "line 1"},
		{"bad hip on second line", hipRow("1", "2", "3", "4") + "\n" + hipRow("x", "2", "3", "4"), "line 2"},
		{"bad vmag", hipRow("1", "bright", "3", "4"), "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data), FormatHipparcos, "hip")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidCatalog)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(hipRow("91262", "0.03", "279.23", "38.78")))
	zw.Close()

	c, err := Parse(&buf, FormatHipparcos, "hip.gz")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 1 || c.Stars[0].HIP != 91262 {
		t.Errorf("Stars = %+v, want Vega", c.Stars)
	}
}

func TestParseCSV(t *testing.T) {
	data := `# bright stars
id,ra_deg,dec_deg,mag,name
1,10.5,20.25,1.5,One
2, 11, -5, , Two
`
	c, err := Parse(strings.NewReader(data), FormatCSV, "test.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if got := c.Stars[0]; got.HIP != 1 || got.RA != 10.5 || got.Dec != 20.25 || got.Mag != 1.5 || got.Name != "One" {
		t.Errorf("Stars[0] = %+v", got)
	}
	if got := c.Stars[1]; got.Name != "Two" || !math.IsNaN(got.Mag) {
		t.Errorf("Stars[1] = %+v, want NaN magnitude", got)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing column", "id,ra_deg,mag\n1,2,3\n", `"dec_deg"`},
		{"bad number", "id,ra_deg,dec_deg,mag\n1,2,3,4\n2,x,3,4\n", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data), FormatCSV, "x.csv")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Builtin().Stars[:3]); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	c, err := Parse(&buf, FormatCSV, "rt.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 3 || c.Stars[0].Name != "Sirius" {
		t.Errorf("round trip = %+v", c.Stars)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "votable", "x")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestBuiltin(t *testing.T) {
	c := Builtin()
	seen := make(map[int]bool)
	for _, s := range c.Stars {
		if seen[s.HIP] {
			t.Errorf("duplicate HIP %d", s.HIP)
		}
		seen[s.HIP] = true
		if s.Dec < -90 || s.Dec > 90 || s.RA < 0 || s.RA >= 360 {
			t.Errorf("%s out of range: %+v", s.Name, s)
		}
	}

	c.Stars[0].Name = "changed"
	if Builtin().Stars[0].Name != "Sirius" {
		t.Error("Builtin shares its backing array")
	}
}

func TestEntriesAndBrightest(t *testing.T) {
	c := &Catalog{Stars: []Star{
		{HIP: 1, RA: 0, Dec: 0, Mag: 3},
		{HIP: 2, RA: 90, Dec: 0, Mag: math.NaN()},
		{HIP: 3, RA: 0, Dec: 90, Mag: 1},
	}}

	entries := c.Entries()
	if len(entries) != 3 || entries[1].ID != 2 {
		t.Fatalf("Entries = %+v", entries)
	}
	if math.Abs(entries[2].Dir.Z-1) > 1e-12 {
		t.Errorf("pole direction = %+v", entries[2].Dir)
	}

	got := c.Brightest(0)
	if len(got) != 2 || got[0].HIP != 3 || got[1].HIP != 1 {
		t.Errorf("Brightest = %+v", got)
	}
	if got := c.Brightest(1); len(got) != 1 || got[0].HIP != 3 {
		t.Errorf("Brightest(1) = %+v", got)
	}
	if s, ok := c.Find(3); !ok || s.Mag != 1 {
		t.Errorf("Find(3) = %+v, %v", s, ok)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", FormatBuiltin},
		{"builtin", FormatBuiltin},
		{"stars.csv", FormatCSV},
		{"STARS.CSV.gz", FormatCSV},
		{"hip_main.dat", FormatHipparcos},
		{"hip_main.dat.gz", FormatHipparcos},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stars.csv")
	if err := os.WriteFile(path, []byte("id,ra_deg,dec_deg,mag\n7,1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Name != "stars.csv" || c.Len() != 1 {
		t.Errorf("Load = %+v", c)
	}

	_, err = Load(filepath.Join(dir, "missing.dat"), "")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFetcherHipparcos(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(hipRow("11767", "1.97", "37.95", "89.26")))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(fc).WithURL(srv.URL + "/hip_main.dat")

	for range 2 {
		c, err := f.Hipparcos(context.Background(), false)
		if err != nil {
			t.Fatalf("Hipparcos: %v", err)
		}
		if c.Len() != 1 || c.Stars[0].HIP != 11767 {
			t.Errorf("Stars = %+v", c.Stars)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1 (second call cached)", n)
	}

	if _, err := f.Hipparcos(context.Background(), true); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits after refresh = %d, want 2", n)
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatMag(math.NaN()); got != "-" {
		t.Errorf("FormatMag(NaN) = %q", got)
	}
	if got := FormatMag(1.234); got != "1.23" {
		t.Errorf("FormatMag(1.234) = %q", got)
	}
	if got := FormatRA(90); !strings.HasPrefix(got, "6") {
		t.Errorf("FormatRA(90) = %q, want 6 hours", got)
	}
	if got := FormatDec(-45); !strings.HasPrefix(got, "-45") {
		t.Errorf("FormatDec(-45) = %q", got)
	}
}
