// Package catalog builds the filtered, JSON-ready tag catalog: given a
// resolved sequence of taginfo.VariableInfo, it drops unreadable and
// structure types and projects the rest into the upstream Record shape.
package catalog

import (
	"encoding/json"

	"github.com/omrontag/tagscan/taginfo"
)

// Dimension is one [start, end) half-open bound for an array axis.
type Dimension struct {
	Start uint32
	End   uint32
}

// MarshalJSON emits Dimension as the two-element array [start, end],
// matching spec.md §6's arrayDimensions shape rather than an object.
func (d Dimension) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{d.Start, d.End})
}

// Record is one catalog entry in the exact shape list_signals emits.
type Record struct {
	Name            string      `json:"name"`
	Type            string      `json:"type"`
	ArrayDimensions []Dimension `json:"arrayDimensions,omitempty"`
}

// Build filters vars per spec §4.6 and projects each survivor to a Record.
// A variable is dropped if its data type is unrecognized or structure-like,
// or (for arrays) if its element type is unrecognized or structure-like.
func Build(vars []taginfo.VariableInfo) []Record {
	records := make([]Record, 0, len(vars))
	for _, v := range vars {
		if !taginfo.IsRecognized(byte(v.DataType)) || v.DataType.IsStructureLike() {
			continue
		}

		if v.DataType == taginfo.Array {
			if v.ArrayInfo == nil {
				continue
			}
			elem := v.ArrayInfo.ElementType
			if !taginfo.IsRecognized(byte(elem)) || elem.IsStructureLike() {
				continue
			}
			dims := make([]Dimension, len(v.ArrayInfo.Dimensions))
			for i, length := range v.ArrayInfo.Dimensions {
				start := v.ArrayInfo.StartIndices[i]
				dims[i] = Dimension{Start: start, End: start + length}
			}
			records = append(records, Record{
				Name:            v.Name,
				Type:            elem.String(),
				ArrayDimensions: dims,
			})
			continue
		}

		records = append(records, Record{Name: v.Name, Type: v.DataType.String()})
	}
	return records
}
