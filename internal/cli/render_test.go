package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/sky"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Virginia Beach, VA", "virginia-beach-va"},
		{"  Mauna Kea  ", "mauna-kea"},
		{"36.8500°N 75.9800°W", "36-8500-n-75-9800-w"},
		{"São Paulo", "s-o-paulo"},
		{"", "starchart"},
		{"!!!", "starchart"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortedFormats(t *testing.T) {
	got := sortedFormats(map[string][]byte{"svg": nil, "json": nil, "png": nil})
	want := []string{"json", "png", "svg"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sortedFormats = %v, want %v", got, want)
	}
}

func TestBatchTimesRange(t *testing.T) {
	got, err := batchTimes("2021-05-17 20:00", "2021-05-18 02:00", 2*time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2021-05-17 20:00", "2021-05-17 22:00", "2021-05-18 00:00", "2021-05-18 02:00"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("batchTimes = %v, want %v", got, want)
	}
}

func TestBatchTimesExplicit(t *testing.T) {
	times := []string{"2021-03-20 12:00", "2021-06-21 12:00"}
	got, err := batchTimes("", "", time.Hour, times)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("batchTimes = %v, want the two given times", got)
	}
}

func TestBatchTimesErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		step     time.Duration
		times    []string
		code     errors.Code
	}{
		{"nothing", "", "", time.Hour, nil, errors.ErrCodeInvalidInput},
		{"mixed", "2021-01-01 00:00", "", time.Hour, []string{"2021-01-01 00:00"}, errors.ErrCodeInvalidInput},
		{"zero step", "2021-01-01 00:00", "2021-01-02 00:00", 0, nil, errors.ErrCodeInvalidInput},
		{"reversed", "2021-01-02 00:00", "2021-01-01 00:00", time.Hour, nil, errors.ErrCodeInvalidInput},
		{"bad time", "yesterday", "2021-01-01 00:00", time.Hour, nil, errors.ErrCodeInvalidTime},
		{"bad explicit", "", "", time.Hour, []string{"noon"}, errors.ErrCodeInvalidTime},
		{"too many", "2021-01-01 00:00", "2021-12-31 00:00", time.Minute, nil, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := batchTimes(tt.from, tt.to, tt.step, tt.times)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestStarTable(t *testing.T) {
	out := starTable([]catalog.Star{
		{HIP: 32349, Name: "Sirius", RA: 101.287, Dec: -16.716, Mag: -1.46},
		{HIP: 1, RA: 0, Dec: 1, Mag: 9.1},
	})
	for _, want := range []string{"HIP", "Sirius", "32349", "—"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFigureTable(t *testing.T) {
	figs := []constellation.Figure{
		{Abbr: "Ori", Edges: []sky.Edge{{From: 1, To: 2}, {From: 2, To: 3}}},
		{Abbr: "Lyr", Edges: []sky.Edge{{From: 4, To: 5}}},
	}
	known := func(hip int) bool { return hip != 5 }
	out := figureTable(figs, known)
	for _, want := range []string{"Figure", "Ori", "Lyr", "Missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		markers, segments int
		cached            bool
		want, notWant     string
	}{
		{412, 87, false, "412 stars · 87 segments · fresh", "cached"},
		{12, 0, true, "12 stars · cached", "segments"},
	}
	for _, tt := range tests {
		got := statsLine(tt.markers, tt.segments, tt.cached)
		if !strings.Contains(got, tt.want) {
			t.Errorf("statsLine = %q, want it to contain %q", got, tt.want)
		}
		if strings.Contains(got, tt.notWant) {
			t.Errorf("statsLine = %q, should not contain %q", got, tt.notWant)
		}
	}
}

func TestPrintDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	printDiagnostics(&pipeline.Result{Diagnostics: sky.Diagnostics{
		EmptyAfterFilter: true,
		Excluded:         1,
		UnresolvedEdges:  3,
	}})
	out := buf.String()
	for _, want := range []string{"magnitude limit", "1 stars could not be projected", "3 figure edges"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
