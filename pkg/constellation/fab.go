package constellation

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/sky"
)

// Figure is one constellation's line figure.
type Figure struct {
	Abbr  string     `json:"abbr"`
	Edges []sky.Edge `json:"edges"`
}

// Parse reads a figure file.
func Parse(r io.Reader) ([]Figure, error) {
	var figs []Figure
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fig, err := parseLine(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFigures, err, "figures line %d", line)
		}
		figs = append(figs, fig)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFigures, err, "read figures")
	}
	return figs, nil
}

func parseLine(text string) (Figure, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "expected abbreviation and pair count")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "bad pair count %q", fields[1])
	}

	ids := fields[2:]
	if len(ids)%2 != 0 {
		return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "%s has an odd number of star ids (%d)", fields[0], len(ids))
	}
	if len(ids) != 2*n {
		return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "%s declares %d pairs but lists %d", fields[0], n, len(ids)/2)
	}

	fig := Figure{Abbr: fields[0], Edges: make([]sky.Edge, 0, n)}
	for i := 0; i < len(ids); i += 2 {
		from, err := strconv.Atoi(ids[i])
		if err != nil {
			return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "bad star id %q", ids[i])
		}
		to, err := strconv.Atoi(ids[i+1])
		if err != nil {
			return Figure{}, errors.New(errors.ErrCodeInvalidFigures, "bad star id %q", ids[i+1])
		}
		fig.Edges = append(fig.Edges, sky.Edge{From: from, To: to})
	}
	return fig, nil
}

// Load parses the figure file at path.
func Load(path string) ([]Figure, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "figures %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFigures, err, "open figures %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Write emits figures in the format Parse reads.
func Write(w io.Writer, figs []Figure) error {
	bw := bufio.NewWriter(w)
	for _, f := range figs {
		bw.WriteString(f.Abbr)
		bw.WriteString(" ")
		bw.WriteString(strconv.Itoa(len(f.Edges)))
		for _, e := range f.Edges {
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(e.From))
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(e.To))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Flatten joins figures into one named edge set, keeping file order.
func Flatten(name string, figs []Figure) sky.EdgeSet {
	set := sky.EdgeSet{Name: name}
	for _, f := range figs {
		set.Edges = append(set.Edges, f.Edges...)
	}
	return set
}

// Stars returns the distinct star ids referenced by figs in first-seen order.
func Stars(figs []Figure) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, f := range figs {
		for _, e := range f.Edges {
			for _, id := range [2]int{e.From, e.To} {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

// Missing returns the ids referenced by figs that known does not contain.
// Those edges are dropped at render time.
func Missing(figs []Figure, known func(id int) bool) []int {
	var out []int
	for _, id := range Stars(figs) {
		if !known(id) {
			out = append(out, id)
		}
	}
	return out
}
