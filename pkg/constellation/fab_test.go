package constellation

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/sky"
)

func TestParse(t *testing.T) {
	data := `# comment

Ori 2 1 2 2 3
UMi 1   10 11
Emp 0
`
	figs, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Figure{
		{Abbr: "Ori", Edges: []sky.Edge{{From: 1, To: 2}, {From: 2, To: 3}}},
		{Abbr: "UMi", Edges: []sky.Edge{{From: 10, To: 11}}},
		{Abbr: "Emp", Edges: []sky.Edge{}},
	}
	if !reflect.DeepEqual(figs, want) {
		t.Errorf("Parse = %+v, want %+v", figs, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"odd ids", "Ori 1 1 2\nUMa 1 3\n", "line 2"},
		{"count mismatch", "Ori 2 1 2\n", "declares 2 pairs"},
		{"bad count", "Ori x 1 2\n", "pair count"},
		{"bad id", "Ori 1 1 b\n", `"b"`},
		{"no count", "Ori\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFigures) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFigures)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	figs, err := Builtin(SetConstellations)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, figs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(back, figs) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", back, figs)
	}
}

func TestFlatten(t *testing.T) {
	figs := []Figure{
		{Abbr: "A", Edges: []sky.Edge{{From: 1, To: 2}}},
		{Abbr: "B", Edges: []sky.Edge{{From: 3, To: 4}, {From: 4, To: 1}}},
	}
	set := Flatten("mine", figs)
	if set.Name != "mine" || len(set.Edges) != 3 || set.Edges[2] != (sky.Edge{From: 4, To: 1}) {
		t.Errorf("Flatten = %+v", set)
	}
	if got := Stars(figs); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Stars = %v", got)
	}
}

func TestBuiltinSetsResolveAgainstBuiltinCatalog(t *testing.T) {
	cat := catalog.Builtin()
	known := func(id int) bool { _, ok := cat.Find(id); return ok }

	sets := BuiltinSets()
	if !reflect.DeepEqual(sets, []string{SetAsterisms, SetConstellations}) {
		t.Fatalf("BuiltinSets = %v", sets)
	}
	for _, name := range sets {
		if !IsBuiltin(name) {
			t.Errorf("IsBuiltin(%q) = false", name)
		}
		figs, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q): %v", name, err)
		}
		if len(figs) == 0 {
			t.Errorf("Builtin(%q) is empty", name)
		}
		if missing := Missing(figs, known); len(missing) != 0 {
			t.Errorf("%s references unknown stars %v", name, missing)
		}
	}

	if _, err := Builtin("zodiac"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Builtin(zodiac) err = %v, want NOT_FOUND", err)
	}
}

func TestToDOT(t *testing.T) {
	figs := []Figure{{Abbr: "Ori", Edges: []sky.Edge{{From: 27989, To: 25336}}}}
	dot := ToDOT(figs, DOTOptions{
		Name:    func(id int) string { return map[int]string{27989: "Betelgeuse"}[id] },
		Missing: map[int]bool{25336: true},
	})
	for _, want := range []string{
		`label="Ori"`,
		`"27989" [label="Betelgeuse"]`,
		`"25336" [label="HIP 25336", style="filled,dashed"`,
		`"27989" -- "25336"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if plain := []byte("<svg></svg>"); !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func ExampleFlatten() {
	figs, _ := Builtin(SetAsterisms)
	set := Flatten(SetAsterisms, figs)
	fmt.Println(set.Name, len(set.Edges))
	// Output: asterisms 6
}
