package catalog

import (
	"encoding/binary"
	"testing"

	"github.com/omrontag/tagscan/mocktransport"
	"github.com/omrontag/tagscan/taginfo"
)

func envelope(generalStatus byte, data []byte) []byte {
	return append([]byte{0x81, 0x00, generalStatus, 0x00}, data...)
}

func countPayload(n uint16) []byte {
	return binary.LittleEndian.AppendUint16([]byte{0x00, 0x00}, n)
}

func emptyPage() []byte {
	return []byte{0x00, 0x00, 0x00, 0x00}
}

func instanceRecord(id uint32, name string) []byte {
	entryLen := uint16(2 + 4 + 1 + len(name))
	out := binary.LittleEndian.AppendUint32(nil, id)
	out = binary.LittleEndian.AppendUint16(out, entryLen)
	out = append(out, 0x6B, 0x00)
	out = binary.LittleEndian.AppendUint32(out, id)
	out = append(out, byte(len(name)))
	out = append(out, []byte(name)...)
	return out
}

func pagePayload(numInstances uint16, records ...[]byte) []byte {
	out := binary.LittleEndian.AppendUint16(nil, numInstances)
	out = append(out, 0x00, 0x00)
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

func TestScanEndToEndOneScalarTag(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(1)),
		envelope(0, emptyPage()),
		envelope(0, pagePayload(1, instanceRecord(1, "Counter"))),
		envelope(0, emptyPage()),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
	)

	records, err := Scan(tr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Counter" || records[0].Type != "DINT" {
		t.Fatalf("unexpected result: %+v", records)
	}
}

func TestScanEmptyPLCYieldsEmptyCatalog(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(0)),
		envelope(0, emptyPage()),
		envelope(0, emptyPage()),
	)

	records, err := Scan(tr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty catalog, got %+v", records)
	}
}
