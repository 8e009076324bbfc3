package constellation

import (
	"bytes"
	"embed"
	"sort"

	"github.com/matzehuels/starchart/pkg/errors"
)

// Built-in figure sets.
const (
	SetConstellations = "constellations"
	SetAsterisms      = "asterisms"
)

//go:embed data/*.fab
var builtinFS embed.FS

// BuiltinSets lists the names of the embedded figure sets.
func BuiltinSets() []string {
	entries, _ := builtinFS.ReadDir("data")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(".fab")])
	}
	sort.Strings(names)
	return names
}

// Builtin returns an embedded figure set by name.
func Builtin(name string) ([]Figure, error) {
	data, err := builtinFS.ReadFile("data/" + name + ".fab")
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no built-in figure set %q", name)
	}
	return Parse(bytes.NewReader(data))
}

// IsBuiltin reports whether name is an embedded figure set.
func IsBuiltin(name string) bool {
	_, err := builtinFS.ReadFile("data/" + name + ".fab")
	return err == nil
}
