package sky

import (
	"fmt"
	"testing"
)

func TestResolve(t *testing.T) {
	coords := map[int]Point{
		1: {0, 0},
		2: {0.5, 0},
		3: {0, -0.5},
	}

	tests := []struct {
		name  string
		edges []Edge
		want  string
	}{
		{"all known", []Edge{{1, 2}, {2, 3}}, "[1-2 2-3]"},
		{"missing endpoint", []Edge{{1, 2}, {2, 99}, {3, 1}}, "[1-2 3-1]"},
		{"missing start", []Edge{{42, 1}}, "[]"},
		{"order kept", []Edge{{3, 2}, {1, 3}, {2, 1}}, "[3-2 1-3 2-1]"},
		{"empty", nil, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Resolve(EdgeSet{Name: tt.name, Edges: tt.edges}, coords)
			got := make([]string, len(segs))
			for i, s := range segs {
				got[i] = fmt.Sprintf("%d-%d", s.From, s.To)
				if s.P1 != coords[s.From] || s.P2 != coords[s.To] {
					t.Errorf("segment %s endpoints = %+v %+v", got[i], s.P1, s.P2)
				}
			}
			if fmt.Sprint(got) != tt.want {
				t.Errorf("Resolve() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveOneMissingDropsOne(t *testing.T) {
	set := EdgeSet{Edges: []Edge{{1, 2}, {2, 3}, {3, 4}}}
	coords := map[int]Point{1: {}, 2: {}, 3: {}}

	segs := Resolve(set, coords)
	if len(segs) != len(set.Edges)-1 {
		t.Errorf("len(Resolve()) = %d, want %d", len(segs), len(set.Edges)-1)
	}
}

func TestCoordinateMap(t *testing.T) {
	entries := []CatalogEntry{{ID: 10}, {ID: 11}, {ID: 10}, {ID: 12}}
	proj := Projection{
		Points: []Point{{0.1, 0}, {0.2, 0}, {0.3, 0}, {}},
		OK:     []bool{true, true, true, false},
	}

	m := CoordinateMap(entries, proj)
	if len(m) != 2 {
		t.Fatalf("len(CoordinateMap()) = %d, want 2", len(m))
	}
	if m[10] != (Point{0.1, 0}) {
		t.Errorf("m[10] = %+v, want first occurrence", m[10])
	}
	if _, ok := m[12]; ok {
		t.Error("excluded entry 12 present in map")
	}
}
