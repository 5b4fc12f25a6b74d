package openmensa

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestBuildLegendAllocates(t *testing.T) {
	legend := BuildLegend(nil, "", nil, nil)
	if legend == nil {
		t.Fatal("nil legend must be allocated")
	}
	if len(legend) != 0 {
		t.Fatalf("expected empty legend, got %v", legend)
	}
}

func TestBuildLegendMutatesExisting(t *testing.T) {
	existing := map[string]string{"x": "Alt"}
	got := BuildLegend(existing, "1) Schwein a)Farbstoff", nil, nil)
	if !reflect.DeepEqual(got, map[string]string{"x": "Alt", "1": "Schwein", "a": "Farbstoff"}) {
		t.Fatalf("unexpected legend: %v", got)
	}
	if got["1"] != existing["1"] {
		t.Fatal("BuildLegend must merge into the passed map")
	}
}

func TestBuildLegendExtraction(t *testing.T) {
	got := BuildLegend(nil, "1) Schwein a)Farbstoff", nil, nil)
	want := map[string]string{"1": "Schwein", "a": "Farbstoff"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildLegendMultiWordValues(t *testing.T) {
	got := BuildLegend(nil, "1) mit Schwein und Senf 2) ohne alles", nil, nil)
	want := map[string]string{"1": "mit Schwein und Senf", "2": "ohne alles"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildLegendKeyFunc(t *testing.T) {
	got := BuildLegend(nil, "A) Gluten", nil, strings.ToLower)
	// the default pattern only knows lowercase keys, so feed a custom one
	got = BuildLegend(got, "B) Laktose", regexp.MustCompile(`([0-9A-Za-z]+)\)\s*([\pL\d_]+)`), strings.ToLower)
	if got["b"] != "Laktose" {
		t.Fatalf("key function not applied: %v", got)
	}
}

func TestExtractNotesPassthrough(t *testing.T) {
	notes := []string{"vegan"}
	name, got := ExtractNotes("Gulash mit Hanswurst", notes, nil, nil, nil)
	if name != "Gulash mit Hanswurst" {
		t.Fatalf("name changed without legend: %q", name)
	}
	if len(got) != 1 || got[0] != "vegan" {
		t.Fatalf("notes changed without legend: %v", got)
	}
}

func TestExtractNotesRemoval(t *testing.T) {
	name, notes := ExtractNotes("Gulash (1) with Hanswurst (a)", nil, map[string]string{}, nil, nil)
	if name != "Gulash with Hanswurst" {
		t.Fatalf("references not stripped: %q", name)
	}
	if len(notes) != 0 {
		t.Fatalf("empty legend must not add notes: %v", notes)
	}
}

func TestExtractNotes(t *testing.T) {
	legend := map[string]string{"1": "Schwein", "a": "Farbstoff"}
	cases := []struct {
		in    string
		notes []string
	}{
		{"Gulash (1) with Hanswurst", []string{"Schwein"}},
		{"Gulash (1) with Hanswurst (a)", []string{"Schwein", "Farbstoff"}},
		{"Gulash (1,a) with Hanswurst", []string{"Schwein", "Farbstoff"}},
		// duplicate references add their note only once
		{"Gulash (1) with Hanswurst (1,a)", []string{"Schwein", "Farbstoff"}},
	}
	for _, c := range cases {
		name, notes := ExtractNotes(c.in, nil, legend, nil, nil)
		if name != "Gulash with Hanswurst" {
			t.Errorf("ExtractNotes(%q) name = %q", c.in, name)
		}
		if !reflect.DeepEqual(notes, c.notes) {
			t.Errorf("ExtractNotes(%q) notes = %v, want %v", c.in, notes, c.notes)
		}
	}
}

func TestExtractNotesUnknownKeySkipped(t *testing.T) {
	name, notes := ExtractNotes("Gulash (9)", nil, map[string]string{"1": "Schwein"}, nil, nil)
	if name != "Gulash" {
		t.Fatalf("unknown reference must still be stripped: %q", name)
	}
	if len(notes) != 0 {
		t.Fatalf("unknown reference must not add notes: %v", notes)
	}
}

func TestExtractNotesKeyFunc(t *testing.T) {
	legend := map[string]string{"f": "Note"}
	name, notes := ExtractNotes("Essen(F)", nil, legend, nil, strings.ToLower)
	if name != "Essen" {
		t.Fatalf("name = %q", name)
	}
	if !reflect.DeepEqual(notes, []string{"Note"}) {
		t.Fatalf("notes = %v", notes)
	}
}

func TestExtractNotesCustomPattern(t *testing.T) {
	pattern := regexp.MustCompile(`_([0-9]{1,3})_(?:: +)?`)
	legend := map[string]string{"2": "Found Note"}
	name, notes := ExtractNotes("_2_: Essen _a_, _2,2_, (2)", nil, legend, pattern, nil)
	if name != "Essen _a_, _2,2_, (2)" {
		t.Fatalf("name = %q", name)
	}
	if !reflect.DeepEqual(notes, []string{"Found Note"}) {
		t.Fatalf("notes = %v", notes)
	}
}

func TestExtractNotesCollapsesSpaces(t *testing.T) {
	name, _ := ExtractNotes("Gulash (1) deluxe", nil, map[string]string{}, nil, nil)
	if name != "Gulash deluxe" {
		t.Fatalf("name = %q", name)
	}
}
