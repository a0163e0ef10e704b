package enum

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/omrontag/tagscan/mocktransport"
	"github.com/omrontag/tagscan/reqctx"
	"github.com/omrontag/tagscan/scanerr"
	"github.com/omrontag/tagscan/taginfo"
)

func envelope(generalStatus byte, data []byte) []byte {
	return append([]byte{0x81, 0x00, generalStatus, 0x00}, data...)
}

func countPayload(n uint16) []byte {
	out := []byte{0x00, 0x00}
	return binary.LittleEndian.AppendUint16(out, n)
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

func TestScenarioS1EmptyPLC(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(0)),
		envelope(0, emptyPage()), // System
		envelope(0, emptyPage()), // User
	)
	vars, err := GetVariables(reqctx.New(tr), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 0 {
		t.Fatalf("expected empty catalog, got %d entries", len(vars))
	}
}

func TestScenarioS2OneScalarDint(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(1)),
		envelope(0, emptyPage()),
		envelope(0, pagePayload(1, instanceRecord(1, "Counter"))),
		envelope(0, emptyPage()),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
	)
	vars, err := GetVariables(reqctx.New(tr), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 1 || vars[0].Name != "Counter" || vars[0].DataType != taginfo.Dint {
		t.Fatalf("unexpected result: %+v", vars)
	}
}

func TestScenarioS6Pagination(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(5)),
		envelope(0, emptyPage()), // System empty
		envelope(0, pagePayload(3, instanceRecord(1, "A"), instanceRecord(2, "B"), instanceRecord(5, "C"))),
		envelope(0, pagePayload(2, instanceRecord(6, "D"), instanceRecord(9, "E"))),
		envelope(0, emptyPage()),
		// five taginfo resolutions, arbitrary scalar type
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
		envelope(0, append(binary.LittleEndian.AppendUint32(nil, 4), byte(taginfo.Dint))),
	)
	vars, err := GetVariables(reqctx.New(tr), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 5 {
		t.Fatalf("expected 5 variables, got %d", len(vars))
	}
	names := []string{vars[0].Name, vars[1].Name, vars[2].Name, vars[3].Name, vars[4].Name}
	want := []string{"A", "B", "C", "D", "E"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected name order: %v", names)
		}
	}

	sent := tr.Sent()
	// sent[0] is the count request, sent[1] the empty System page; sent[2],
	// sent[3], sent[4] are the User-namespace Get_All_Instances pages, whose
	// next_instance_id cursor (service=1, word-len=1, path=6 bytes, then the
	// 4-byte little-endian cursor) should read 1, 6, 10.
	wantCursors := []uint32{1, 6, 10}
	for i, want := range wantCursors {
		got := binary.LittleEndian.Uint32(sent[2+i][8:12])
		if got != want {
			t.Fatalf("page %d: expected cursor %d, got %d", i, want, got)
		}
	}
}

func TestFewerNamesThanCountIsDecodeError(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(2)),
		envelope(0, emptyPage()),
		envelope(0, emptyPage()),
	)
	_, err := GetVariables(reqctx.New(tr), nil)
	var decErr *scanerr.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *scanerr.DecodeError, got %T: %v", err, err)
	}
}

func TestNonAdvancingCursorIsDecodeError(t *testing.T) {
	tr := mocktransport.NewScripted(
		envelope(0, countPayload(1)),
		envelope(0, emptyPage()),
		// instance id 0 would make next_instance_id (1) fail to advance past
		// the current cursor (1): 0+1 == 1, not > 1.
		envelope(0, pagePayload(1, instanceRecord(0, "Zero"))),
	)
	_, err := GetVariables(reqctx.New(tr), nil)
	var decErr *scanerr.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *scanerr.DecodeError, got %T: %v", err, err)
	}
}
