package sky

// Edge joins two catalog identifiers.
type Edge struct {
	From, To int
}

// EdgeSet is a named list of constellation edges, such as a whole figure
// file. The name is informational.
type EdgeSet struct {
	Name  string
	Edges []Edge
}

// Segment is an edge with both endpoints projected.
type Segment struct {
	From int   `json:"from"`
	To   int   `json:"to"`
	P1   Point `json:"p1"`
	P2   Point `json:"p2"`
}

// CoordinateMap indexes every projected catalog entry by ID, before any
// magnitude filtering. Excluded projections are left out. When IDs repeat the
// first entry wins.
func CoordinateMap(entries []CatalogEntry, proj Projection) map[int]Point {
	m := make(map[int]Point, len(entries))
	for i, e := range entries {
		if i >= proj.Len() {
			break
		}
		pt, ok := proj.At(i)
		if !ok {
			continue
		}
		if _, dup := m[e.ID]; !dup {
			m[e.ID] = pt
		}
	}
	return m
}

// Resolve looks up both endpoints of every edge in coordinateOf.
//
// Edges naming an unknown identifier are skipped without error: catalogs and
// figure files are sourced independently, and a partial overlap between them
// is expected. Output order follows set.Edges.
func Resolve(set EdgeSet, coordinateOf map[int]Point) []Segment {
	segs := make([]Segment, 0, len(set.Edges))
	for _, e := range set.Edges {
		p1, ok1 := coordinateOf[e.From]
		p2, ok2 := coordinateOf[e.To]
		if !ok1 || !ok2 {
			continue
		}
		segs = append(segs, Segment{From: e.From, To: e.To, P1: p1, P2: p2})
	}
	return segs
}
