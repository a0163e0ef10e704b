package catalog

import (
	"encoding/json"
	"testing"

	"github.com/omrontag/tagscan/taginfo"
)

func TestScenarioS3BoolArrayDimensions(t *testing.T) {
	vars := []taginfo.VariableInfo{
		{
			Name:     "Flags",
			DataType: taginfo.Array,
			Size:     4,
			ArrayInfo: &taginfo.ArrayInfo{
				ElementType:  taginfo.Bool,
				ElementSize:  1,
				Dimensions:   []uint32{17},
				StartIndices: []uint32{0},
			},
		},
	}

	records := Build(vars)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Name != "Flags" || rec.Type != "BOOL" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.ArrayDimensions) != 1 || rec.ArrayDimensions[0] != (Dimension{Start: 0, End: 17}) {
		t.Fatalf("unexpected dimensions: %+v", rec.ArrayDimensions)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	want := `{"name":"Flags","type":"BOOL","arrayDimensions":[[0,17]]}`
	if string(out) != want {
		t.Fatalf("unexpected json: got %s, want %s", out, want)
	}
}

func TestScenarioS4StructureIsFiltered(t *testing.T) {
	vars := []taginfo.VariableInfo{
		{Name: "Recipe", DataType: taginfo.Structure, Size: 64},
		{Name: "Counter", DataType: taginfo.Dint, Size: 4},
	}

	records := Build(vars)
	if len(records) != 1 {
		t.Fatalf("expected structure to be filtered, got %d records", len(records))
	}
	if records[0].Name != "Counter" {
		t.Fatalf("unexpected survivor: %+v", records[0])
	}
}

func TestArrayOfStructureIsFiltered(t *testing.T) {
	vars := []taginfo.VariableInfo{
		{
			Name:     "Recipes",
			DataType: taginfo.Array,
			Size:     128,
			ArrayInfo: &taginfo.ArrayInfo{
				ElementType:  taginfo.Structure,
				ElementSize:  64,
				Dimensions:   []uint32{2},
				StartIndices: []uint32{0},
			},
		},
	}

	records := Build(vars)
	if len(records) != 0 {
		t.Fatalf("expected array-of-structure to be filtered, got %+v", records)
	}
}

func TestScalarWithoutArrayDimensionsOmitsField(t *testing.T) {
	vars := []taginfo.VariableInfo{{Name: "Counter", DataType: taginfo.Dint, Size: 4}}
	out, err := json.Marshal(Build(vars))
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	want := `[{"name":"Counter","type":"DINT"}]`
	if string(out) != want {
		t.Fatalf("unexpected json: got %s, want %s", out, want)
	}
}
